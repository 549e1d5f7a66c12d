package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ostier/recap/config"
	"github.com/ostier/recap/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url-or-file>",
	Short: "Extract plain text without summarizing",
	Long: `Extract runs the fetch and extraction stages only and prints the plain
text. Useful for inspecting what the LLM would see, or for piping into
other tools.

Examples:
  recap extract https://example.com/article
  recap extract ./slides.pdf -o slides.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts, err := buildOptions(args[0])
	if err != nil {
		return err
	}

	out, err := openOut()
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, cancel := signalContext()
	defer cancel()

	text, err := pipeline.New(cfg).ExtractText(ctx, opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, text); err != nil {
		return err
	}
	_, err = out.Write([]byte("\n"))
	return err
}
