package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/ostier/recap/log"
	"github.com/ostier/recap/scheme"
)

// HeadlessFetcher renders a page in an isolated headless browser and
// captures the resulting document. The rendered document defaults to HTML
// when no better type is known.
type HeadlessFetcher struct {
	log     zerolog.Logger
	timeout time.Duration
}

func NewHeadlessFetcher(timeout time.Duration) *HeadlessFetcher {
	return &HeadlessFetcher{
		log:     log.NewLogger("fetch.headless"),
		timeout: timeout,
	}
}

func (f *HeadlessFetcher) Fetch(ctx context.Context, ref scheme.Ref) (*Content, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	f.log.Debug().Str("url", ref.URL).Msg("rendering page")

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(ref.URL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &RenderError{URL: ref.URL, Cause: err}
	}

	return &Content{
		Data: []byte(html),
		MIME: "text/html",
		Ext:  urlExtension(ref.URL),
	}, nil
}
