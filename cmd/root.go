// Package cmd implements the recap CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ostier/recap/log"
)

var (
	flagLogLevel  string
	flagWorkdir   string
	flagOut       string
	flagFetchMode string
	flagExtKind   string
)

var rootCmd = &cobra.Command{
	Use:   "recap <url-or-file>",
	Short: "Summarize web pages, documents and media with an LLM",
	Long: `recap fetches a URL or reads a local file, extracts its text and streams
an LLM-written summary.

Examples:
  recap https://example.com/article
  recap ./report.pdf -m claude-sonnet-4-20250514
  recap https://spa.example.com --http-fetch-mode headless
  recap ./talk.mp3 -o summary.md`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(flagLogLevel)
	},
	RunE: runSummarize,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagWorkdir, "workdir", "w", "", "Scratch directory for staged files (default: generated temp dir)")
	rootCmd.PersistentFlags().StringVarP(&flagOut, "out", "o", "", "Output file (default: stdout); must not already exist")
	rootCmd.PersistentFlags().StringVar(&flagFetchMode, "http-fetch-mode", "get", "Remote fetch strategy: get or headless")
	rootCmd.PersistentFlags().StringVarP(&flagExtKind, "ext-kind", "e", "", "Force an extractor: plain, html, pdf, pandoc or whisper")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// openOut resolves the output sink. A named file must not already exist so
// a run never clobbers previous output.
func openOut() (io.WriteCloser, error) {
	if flagOut == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(flagOut); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create output directory %q", dir)
		}
	}
	f, err := os.OpenFile(flagOut, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Errorf("output file %q already exists", flagOut)
		}
		return nil, errors.Wrapf(err, "failed to create output file %q", flagOut)
	}
	return f, nil
}
