// Package pipeline chains the stages of one summarization run: resolve the
// input, fetch it, pick and run an extractor, then stream a summary from
// the selected LLM provider.
package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ostier/recap/config"
	"github.com/ostier/recap/extract"
	"github.com/ostier/recap/fetch"
	"github.com/ostier/recap/llm"
	"github.com/ostier/recap/log"
	"github.com/ostier/recap/prompt"
	"github.com/ostier/recap/scheme"
)

// maxAttempts bounds both the fetch retry loop and the provider retry loop.
const maxAttempts = 3

// Options configures one run.
type Options struct {
	// Input is the URL or file path to summarize.
	Input string
	// FetchMode picks the remote strategy; ignored for local files.
	FetchMode fetch.Mode
	// ForcedExtractor overrides hint-based selection when non-empty.
	ForcedExtractor extract.Kind
	// Model is the LLM model name, e.g. "gpt-4o".
	Model string
	// Provider pins the provider; empty means infer from Model.
	Provider llm.Identity
	// Language is the language the summary is written in.
	Language string
	// SystemTemplatePath and UserTemplatePath override the built-in
	// prompt templates.
	SystemTemplatePath string
	UserTemplatePath   string
	// Workdir names a caller-owned scratch directory; empty means a
	// generated temp directory removed after the run.
	Workdir string
	// Out receives the summary (or extracted text) incrementally.
	Out io.Writer
}

// Pipeline executes runs against a fixed environment configuration.
type Pipeline struct {
	cfg config.Config
	log zerolog.Logger
}

func New(cfg config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: log.NewLogger("pipeline"),
	}
}

// Run performs a full summarization: fetch, extract, prompt, stream. Chunks
// are written to opts.Out as they arrive.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	// Resolve the provider first so a missing API key fails before any
	// fetch or network traffic.
	adapter, err := llm.Resolve(opts.Provider, opts.Model)
	if err != nil {
		return err
	}

	text, err := p.ExtractText(ctx, opts)
	if err != nil {
		return err
	}

	messages, err := prompt.Render(prompt.Options{
		SystemTemplatePath: opts.SystemTemplatePath,
		UserTemplatePath:   opts.UserTemplatePath,
	}, opts.Language, text)
	if err != nil {
		return err
	}

	return p.summarize(ctx, adapter, opts.Model, messages, opts.Out)
}

// ExtractText runs the pipeline up to and including extraction and returns
// the plain text. Used directly by the extract subcommand.
func (p *Pipeline) ExtractText(ctx context.Context, opts Options) (string, error) {
	ref, err := scheme.Resolve(opts.Input)
	if err != nil {
		return "", err
	}

	content, err := p.fetchWithRetry(ctx, ref, opts.FetchMode)
	if err != nil {
		return "", err
	}

	kind := extract.Select(content.MIME, content.Ext, opts.ForcedExtractor)
	if opts.ForcedExtractor != "" && extract.HintsMapped(content.MIME, content.Ext) {
		if auto := extract.Select(content.MIME, content.Ext, ""); auto != kind {
			p.log.Warn().
				Str("forced", string(kind)).
				Str("detected", string(auto)).
				Msg("forced extractor disagrees with content hints")
		}
	}
	p.log.Info().
		Str("extractor", string(kind)).
		Str("mime", content.MIME).
		Str("ext", content.Ext).
		Msg("selected extractor")

	workdir, err := newWorkdir(opts.Workdir)
	if err != nil {
		return "", err
	}
	defer workdir.Cleanup()

	extractor, err := extract.New(kind, extract.Config{
		WhisperModelPath: p.cfg.WhisperModelPath,
		Progress: func(pct int) {
			p.log.Info().Int("pct", pct).Msg("transcription progress")
		},
	})
	if err != nil {
		return "", err
	}

	text, err := extractor.Extract(ctx, extract.Source{
		Data: content.Data,
		MIME: content.MIME,
		Ext:  content.Ext,
	}, workdir.Path)
	if err != nil {
		return "", err
	}
	p.log.Debug().Int("chars", len(text)).Msg("extraction complete")
	return text, nil
}

// fetchWithRetry fetches ref, retrying transient transport failures with
// exponential backoff. Status and render errors fail immediately.
func (p *Pipeline) fetchWithRetry(ctx context.Context, ref scheme.Ref, mode fetch.Mode) (*fetch.Content, error) {
	fetcher, err := p.fetcher(ref, mode)
	if err != nil {
		return nil, err
	}

	var content *fetch.Content
	attempt := 0
	op := func() error {
		attempt++
		c, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			if !fetch.Retryable(err) {
				return backoff.Permanent(err)
			}
			p.log.Warn().Err(err).Int("attempt", attempt).Msg("fetch failed, will retry")
			return err
		}
		content = c
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return content, nil
}

func (p *Pipeline) fetcher(ref scheme.Ref, mode fetch.Mode) (fetch.Fetcher, error) {
	if !ref.Remote {
		return fetch.NewLocalFetcher(), nil
	}
	switch mode {
	case "", fetch.ModeGet:
		return fetch.NewHTTPFetcher(time.Duration(p.cfg.HTTPTimeoutSeconds)*time.Second, p.cfg.UserAgent), nil
	case fetch.ModeHeadless:
		return fetch.NewHeadlessFetcher(time.Duration(p.cfg.HeadlessTimeoutSeconds) * time.Second), nil
	default:
		return nil, errors.Errorf("unknown fetch mode %q", mode)
	}
}

// summarize streams the completion to out. A rate-limited request is
// retried, but only while nothing has been written: once output started a
// retry would duplicate text.
func (p *Pipeline) summarize(ctx context.Context, adapter llm.Adapter, model string, messages prompt.Messages, out io.Writer) error {
	wrote := false
	attempt := 0
	op := func() error {
		attempt++
		err := p.streamOnce(ctx, adapter, model, messages, out, &wrote)
		if err == nil {
			return nil
		}
		if errors.Is(err, llm.ErrRateLimited) && !wrote {
			p.log.Warn().Err(err).Int("attempt", attempt).Msg("rate limited, will retry")
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1), ctx)
	return backoff.Retry(op, policy)
}

func (p *Pipeline) streamOnce(ctx context.Context, adapter llm.Adapter, model string, messages prompt.Messages, out io.Writer, wrote *bool) error {
	stream, err := adapter.Complete(ctx, model, messages)
	if err != nil {
		return err
	}
	defer stream.Close()

	chunks := make(chan string)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)
		for stream.Next() {
			select {
			case chunks <- stream.Current():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return stream.Err()
	})

	g.Go(func() error {
		for chunk := range chunks {
			if _, err := io.WriteString(out, chunk); err != nil {
				return errors.Wrap(err, "failed to write summary chunk")
			}
			*wrote = true
		}
		return nil
	})

	return g.Wait()
}
