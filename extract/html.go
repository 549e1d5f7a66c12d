package extract

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/pkg/errors"

	"github.com/ostier/recap/log"
)

var htmlLog = log.NewLogger("extract.html")

// HTMLExtractor isolates the readable article content of a page and
// normalizes it to markdown text. Pages that readability cannot handle
// (very short documents, fragments) fall back to a plain tag-stripping
// walk so the extractor stays total over well-formed HTML.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(_ context.Context, src Source, _ string) (string, error) {
	base := &url.URL{Scheme: "http", Host: "localhost"}

	article, err := readability.FromReader(bytes.NewReader(src.Data), base)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		markdown, mdErr := htmltomarkdown.ConvertString(article.Content)
		if mdErr == nil && strings.TrimSpace(markdown) != "" {
			return strings.TrimSpace(markdown), nil
		}
		htmlLog.Debug().Err(mdErr).Msg("markdown conversion failed, falling back to text walk")
	}

	text, err := strippedText(src.Data)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.Wrap(ErrCorrupt, "no readable text in HTML content")
	}
	return text, nil
}

// strippedText drops script/style/noscript subtrees and joins the text of
// block elements with paragraph breaks.
func strippedText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(ErrCorrupt, err.Error())
	}

	doc.Find("script, style, noscript").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var parts []string
	root.Find("p, h1, h2, h3, h4, h5, h6, li, pre, blockquote, td").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		// No block elements; use whatever text the document carries.
		if text := strings.TrimSpace(root.Text()); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}
