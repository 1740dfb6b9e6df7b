// Package main is the entry point for the pdfmark CLI: offline export of a
// highlight list into a PDF, and inspection of exported files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pdfmark",
	Short: "Write screen-space highlights into PDFs as annotations",
	Long: `pdfmark converts highlights recorded against a rendered page (viewport pixels,
top-left origin) into PDF highlight annotations (user units, bottom-left
origin), adding small comment and emoji markers where a highlight carries a
comment.

Flags can also be set through PDFMARK_* environment variables, for example
PDFMARK_ORIGIN_FALLBACK=true.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().Bool("verbose", false, "log progress to stderr")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("PDFMARK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// logger returns a stderr text logger, or a discarding one unless --verbose.
func logger() *slog.Logger {
	if !viper.GetBool("verbose") {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pdfmark",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pdfmark %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
