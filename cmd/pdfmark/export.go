package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgallion1/pdfmark/internal/export"
	"github.com/dgallion1/pdfmark/internal/fetch"
	"github.com/dgallion1/pdfmark/internal/highlight"
	"github.com/dgallion1/pdfmark/internal/transform"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultMaxBytes  = 50 << 20
	defaultUserAgent = "pdfmark/1.0"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Annotate a PDF with a list of highlights",
	Long: `Export reads a PDF (a local path or an http(s) URL) and a YAML or JSON list of
highlights, writes one highlight annotation per rect plus comment and emoji
markers, and saves the result.`,
	RunE: runExportCmd,
}

func init() {
	exportCmd.Flags().String("pdf", "", "source PDF path or http(s) URL")
	exportCmd.Flags().String("highlights", "", "YAML or JSON file with the highlight list")
	exportCmd.Flags().String("out", "file.pdf", "output path")
	exportCmd.Flags().Bool("origin-fallback", false, "place markers at the page origin for highlights without rects")
	exportCmd.Flags().Duration("timeout", 0, "HTTP timeout when --pdf is a URL (default 60s)")

	for _, name := range []string{"pdf", "highlights", "out", "origin-fallback", "timeout"} {
		viper.BindPFlag(name, exportCmd.Flags().Lookup(name))
	}

	rootCmd.AddCommand(exportCmd)
}

type exportParams struct {
	Source         string
	Highlights     string
	Out            string
	OriginFallback bool
	Timeout        time.Duration
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	p := exportParams{
		Source:         viper.GetString("pdf"),
		Highlights:     viper.GetString("highlights"),
		Out:            viper.GetString("out"),
		OriginFallback: viper.GetBool("origin-fallback"),
		Timeout:        viper.GetDuration("timeout"),
	}
	res, err := exportFile(cmd.Context(), p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d highlights, %d annotations (%d comments, %d emojis)\n",
		p.Out, res.Highlights, res.Total(), res.Comments, res.Emojis)
	return nil
}

func exportFile(ctx context.Context, p exportParams) (transform.Result, error) {
	if p.Source == "" {
		return transform.Result{}, fmt.Errorf("--pdf is required")
	}
	if p.Out == "" {
		return transform.Result{}, fmt.Errorf("--out must not be empty")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := readSource(ctx, p.Source, p.Timeout)
	if err != nil {
		return transform.Result{}, err
	}

	var list []highlight.Highlight
	if p.Highlights != "" {
		raw, err := os.ReadFile(p.Highlights)
		if err != nil {
			return transform.Result{}, fmt.Errorf("read highlights: %w", err)
		}
		if list, err = highlight.ParseList(raw); err != nil {
			return transform.Result{}, err
		}
	}

	out, err := export.Run(ctx, data, list, export.Options{
		Options: transform.Options{OriginFallback: p.OriginFallback},
		Name:    "pdfmark",
	}, logger(), nil)
	if err != nil {
		return out.Result, fmt.Errorf("export (%s): %w", export.KindOf(err), err)
	}

	if err := os.WriteFile(p.Out, out.PDF, 0o644); err != nil {
		return out.Result, fmt.Errorf("write output: %w", err)
	}
	return out.Result, nil
}

func readSource(ctx context.Context, src string, timeout time.Duration) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("read pdf: %w", err)
		}
		return data, nil
	}

	if timeout == 0 {
		timeout = defaultTimeout
	}
	client := fetch.NewClient(timeout, defaultMaxBytes, defaultUserAgent)
	defer client.Close()
	return client.Fetch(ctx, src)
}
