// Package fetch retrieves the raw bytes of a classified input reference,
// together with best-effort MIME and extension hints.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/ostier/recap/scheme"
)

// Mode selects the strategy used for remote references.
type Mode string

const (
	// ModeGet issues a direct HTTP GET.
	ModeGet Mode = "get"
	// ModeHeadless renders the page in a headless browser.
	ModeHeadless Mode = "headless"
)

// ParseMode validates a user-supplied fetch mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeGet:
		return ModeGet, nil
	case ModeHeadless:
		return ModeHeadless, nil
	default:
		return "", errors.Errorf("unknown http fetch mode %q (want get or headless)", s)
	}
}

// Content is the result of a fetch. It is created once and read-only
// thereafter.
type Content struct {
	// Data holds the raw fetched bytes.
	Data []byte
	// MIME is the declared or sniffed media type, "" when unknown. Local
	// files never carry a MIME hint; their extension is authoritative.
	MIME string
	// Ext is the lowercase extension without the dot, "" when none.
	Ext string
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.Status)
}

// RenderError reports a headless render failure (timeout, crash, browser
// missing).
type RenderError struct {
	URL   string
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("headless render of %s failed: %v", e.URL, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// Fetcher retrieves content for one kind of input reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref scheme.Ref) (*Content, error)
}

// Retryable reports whether a fetch error is a transient transport failure
// worth retrying. Non-2xx statuses and render failures are not.
func Retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	var renderErr *RenderError
	return !errors.As(err, &renderErr)
}

// urlExtension extracts the lowercase path extension from a URL, if any.
func urlExtension(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(parsed.Path)), ".")
}
