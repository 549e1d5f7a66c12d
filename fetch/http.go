package fetch

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ostier/recap/log"
	"github.com/ostier/recap/scheme"
	"github.com/ostier/recap/util"
)

// HTTPFetcher issues a direct GET against a remote URL. Redirects are
// followed by the underlying client.
type HTTPFetcher struct {
	log       zerolog.Logger
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		log:       log.NewLogger("fetch.http"),
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref scheme.Ref) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build GET request for %q", ref.URL)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to GET %q", ref.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, URL: ref.URL}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response body from %q", ref.URL)
	}

	declared := declaredMIME(resp.Header.Get("Content-Type"))
	if declared == "" && len(data) > 0 {
		// No Content-Type header; sniff a best-effort hint from the bytes.
		declared = mimetype.Detect(data).String()
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			declared = parsed
		}
		f.log.Debug().Str("mime", declared).Msg("sniffed content type")
	}

	f.log.Debug().
		Str("url", ref.URL).
		Str("size", util.FormatBytes(int64(len(data)))).
		Msg("fetched")

	return &Content{
		Data: data,
		MIME: declared,
		Ext:  urlExtension(ref.URL),
	}, nil
}

// declaredMIME parses a Content-Type header down to its media type,
// dropping parameters like charset.
func declaredMIME(header string) string {
	if header == "" {
		return ""
	}
	parsed, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return parsed
}
