// Package download fetches ggml whisper model files from the whisper.cpp
// model repository on Hugging Face.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ostier/recap/log"
	"github.com/ostier/recap/util"
)

const repoBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// models is the set of ggml conversions published in the repository.
var models = []string{
	"tiny", "tiny.en",
	"base", "base.en",
	"small", "small.en",
	"medium", "medium.en",
	"large-v1", "large-v2", "large-v3", "large-v3-turbo",
}

// Models lists the downloadable model names.
func Models() []string {
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// IsValidModel reports whether name is a known model.
func IsValidModel(name string) bool {
	for _, m := range models {
		if m == name {
			return true
		}
	}
	return false
}

// FileName is the conventional on-disk name for a model.
func FileName(model string) string {
	return fmt.Sprintf("ggml-%s.bin", model)
}

// URLFor builds the download URL for a model.
func URLFor(model string) string {
	return fmt.Sprintf("%s/%s", repoBaseURL, FileName(model))
}

// Options configures one download.
type Options struct {
	// Model is one of Models().
	Model string
	// Dest is the target file path; empty means FileName(Model) in the
	// current directory.
	Dest string
	// Overwrite allows replacing an existing file.
	Overwrite bool
}

// Downloader fetches model files over HTTP.
type Downloader struct {
	client *http.Client
	log    zerolog.Logger
}

func New() *Downloader {
	return &Downloader{
		client: &http.Client{},
		log:    log.NewLogger("download"),
	}
}

// Download fetches the model and returns the path it was written to.
func (d *Downloader) Download(ctx context.Context, opts Options) (string, error) {
	if !IsValidModel(opts.Model) {
		return "", errors.Errorf("unknown model %q (available: %v)", opts.Model, models)
	}

	dest := opts.Dest
	if dest == "" {
		dest = FileName(opts.Model)
	}
	if _, err := os.Stat(dest); err == nil && !opts.Overwrite {
		return "", errors.Errorf("%s already exists, pass --overwrite to replace it", dest)
	}

	url := URLFor(opts.Model)
	d.log.Info().Str("model", opts.Model).Str("url", url).Msg("downloading model")

	path, err := d.fetch(ctx, url, dest)
	if err != nil {
		return "", err
	}

	d.log.Info().
		Str("path", path).
		Msgf("model ready, set WHISPER_MODEL_PATH=%s to use it", path)
	return path, nil
}

// fetch streams url into a staging file next to dest and renames it into
// place once the full body arrived, so an interrupted download never leaves
// a truncated model behind.
func (d *Downloader) fetch(ctx context.Context, url, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build download request")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download %q", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("download of %q returned status %d", url, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create destination directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".recap-download-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create staging file")
	}
	defer os.Remove(tmp.Name())

	written, err := io.Copy(tmp, &progressReader{
		r:     resp.Body,
		total: resp.ContentLength,
		log:   d.log,
	})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.Wrap(err, "download interrupted")
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return "", errors.Errorf("short download: got %d of %d bytes", written, resp.ContentLength)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", errors.Wrap(err, "failed to move model into place")
	}

	d.log.Debug().Str("size", util.FormatBytes(written)).Msg("download complete")
	return dest, nil
}

// progressReader logs a line every 10% of a sized body.
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	lastStep int64
	log      zerolog.Logger
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	p.read += int64(n)
	if p.total > 0 {
		if step := p.read * 10 / p.total; step > p.lastStep {
			p.lastStep = step
			p.log.Info().Int64("pct", step*10).Msg("download progress")
		}
	}
	return n, err
}
