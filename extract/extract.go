// Package extract converts raw fetched bytes into plain text through one of
// a closed set of backends: plain pass-through, HTML readability, PDF, the
// pandoc external converter, and whisper speech-to-text.
package extract

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies one extractor backend.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindHTML    Kind = "html"
	KindPDF     Kind = "pdf"
	KindPandoc  Kind = "pandoc"
	KindWhisper Kind = "whisper"
)

// ParseKind validates a user-supplied kind string (the --ext-kind flag).
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(s))
	switch kind {
	case KindPlain, KindHTML, KindPDF, KindPandoc, KindWhisper:
		return kind, nil
	default:
		return "", errors.Errorf("unknown extractor kind %q (want plain, html, pdf, pandoc or whisper)", s)
	}
}

// Source is the input to an extractor: raw bytes plus the hints gathered at
// fetch time. Backends that need a file on disk (pandoc, whisper) write the
// bytes into workdir themselves.
type Source struct {
	Data []byte
	MIME string
	Ext  string
}

// Extractor is the uniform capability implemented by every backend.
type Extractor interface {
	Extract(ctx context.Context, src Source, workdir string) (string, error)
}

// Extraction failure classes. Backends wrap these so callers can
// distinguish corrupt input from missing external dependencies.
var (
	// ErrCorrupt marks input the backend could not parse.
	ErrCorrupt = errors.New("content is corrupt or not the expected format")
	// ErrModelMissing marks a whisper run without a configured model.
	ErrModelMissing = errors.New("whisper model path is not configured")
	// ErrInference marks an audio decode or model inference failure.
	ErrInference = errors.New("transcription failed")
	// ErrEncoding marks bytes that are not valid text.
	ErrEncoding = errors.New("content is not valid UTF-8 text")
)

// Config carries backend construction settings.
type Config struct {
	// WhisperModelPath is the local ggml model file for the whisper backend.
	WhisperModelPath string
	// Progress, when set, receives coarse percentage updates from
	// long-running backends. Only whisper reports progress today.
	Progress func(pct int)
}

// New returns the backend for kind. The kind set is closed; New covers it
// exhaustively.
func New(kind Kind, cfg Config) (Extractor, error) {
	switch kind {
	case KindPlain:
		return &PlainExtractor{}, nil
	case KindHTML:
		return &HTMLExtractor{}, nil
	case KindPDF:
		return &PDFExtractor{}, nil
	case KindPandoc:
		return &PandocExtractor{}, nil
	case KindWhisper:
		return &WhisperExtractor{ModelPath: cfg.WhisperModelPath, Progress: cfg.Progress}, nil
	default:
		return nil, errors.Errorf("unknown extractor kind %q", kind)
	}
}
