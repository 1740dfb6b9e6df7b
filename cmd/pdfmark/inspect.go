package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/dgallion1/pdfmark/internal/annotate"
	"github.com/dgallion1/pdfmark/internal/pdfdoc"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect file.pdf",
	Short: "List the pages and highlight annotations of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read pdf: %w", err)
		}
		return inspect(cmd.OutOrStdout(), data)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

type inspectReport struct {
	Pages       []pdfdoc.PageSize `yaml:"pages"`
	Annotations []annotationRow   `yaml:"annotations"`
}

type annotationRow struct {
	Page     int        `yaml:"page"`
	Rect     [4]float64 `yaml:"rect,flow"`
	Author   string     `yaml:"author,omitempty"`
	Contents string     `yaml:"contents,omitempty"`
}

func inspect(w io.Writer, data []byte) error {
	doc, err := pdfdoc.Load(data)
	if err != nil {
		return err
	}
	infos, err := annotate.Read(data)
	if err != nil {
		return err
	}

	report := inspectReport{Pages: doc.Pages(), Annotations: make([]annotationRow, 0, len(infos))}
	for _, in := range infos {
		report.Annotations = append(report.Annotations, annotationRow{
			Page:     in.Page,
			Rect:     in.Rect,
			Author:   in.Author,
			Contents: in.Contents,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
