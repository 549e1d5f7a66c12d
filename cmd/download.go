package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostier/recap/download"
)

var (
	flagDest      string
	flagOverwrite bool
)

var downloadCmd = &cobra.Command{
	Use:   "download-whisper <model>",
	Short: "Download a ggml whisper model for audio transcription",
	Long: fmt.Sprintf(`Download a ggml whisper model from the whisper.cpp repository on
Hugging Face. Point WHISPER_MODEL_PATH at the downloaded file to enable
audio and video inputs.

Available models: %s`, strings.Join(download.Models(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringVar(&flagDest, "dest", "", "Destination file (default: ggml-<model>.bin in the current directory)")
	downloadCmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Replace the destination file if it exists")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	path, err := download.New().Download(ctx, download.Options{
		Model:     args[0],
		Dest:      flagDest,
		Overwrite: flagOverwrite,
	})
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
