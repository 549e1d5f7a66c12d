package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ostier/recap/config"
	"github.com/ostier/recap/extract"
	"github.com/ostier/recap/fetch"
	"github.com/ostier/recap/llm"
	"github.com/ostier/recap/pipeline"
)

var (
	flagModel          string
	flagProvider       string
	flagLanguage       string
	flagSystemTemplate string
	flagUserTemplate   string
)

// summarizeCmd is an explicit spelling of the default behavior, so both
// `recap <input>` and `recap summarize <input>` work.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <url-or-file>",
	Short: "Summarize a URL or file (same as running recap without a subcommand)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	for _, cmd := range []*cobra.Command{rootCmd, summarizeCmd} {
		cmd.Flags().StringVarP(&flagModel, "model", "m", "gpt-4o-mini", "LLM model name")
		cmd.Flags().StringVarP(&flagProvider, "provider", "p", "",
			"LLM provider (default: inferred from the model name); one of: "+strings.Join(llm.Identities(), ", "))
		cmd.Flags().StringVarP(&flagLanguage, "lang", "l", "English", "Language the summary is written in")
		cmd.Flags().StringVar(&flagSystemTemplate, "system-template", "", "Custom system prompt template file")
		cmd.Flags().StringVar(&flagUserTemplate, "user-template", "", "Custom user prompt template file")
	}
}

// buildOptions translates flags into pipeline options shared by the
// summarize and extract paths.
func buildOptions(input string) (pipeline.Options, error) {
	opts := pipeline.Options{
		Input:              input,
		Model:              flagModel,
		Language:           flagLanguage,
		SystemTemplatePath: flagSystemTemplate,
		UserTemplatePath:   flagUserTemplate,
		Workdir:            flagWorkdir,
	}

	mode, err := fetch.ParseMode(flagFetchMode)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.FetchMode = mode

	if flagExtKind != "" {
		kind, err := extract.ParseKind(flagExtKind)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.ForcedExtractor = kind
	}

	if flagProvider != "" {
		identity, err := llm.ParseIdentity(flagProvider)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Provider = identity
	}

	return opts, nil
}

// signalContext is cancelled on SIGINT or SIGTERM so a running stream shuts
// down cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSummarize(cmd *cobra.Command, args []string) error {
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
	opts.Out = out

	ctx, cancel := signalContext()
	defer cancel()

	if err := pipeline.New(cfg).Run(ctx, opts); err != nil {
		return err
	}
	// Summaries rarely end in a newline; add one so the shell prompt does
	// not glue onto the output.
	_, err = out.Write([]byte("\n"))
	return err
}
