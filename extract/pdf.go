package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/ostier/recap/log"
)

var pdfLog = log.NewLogger("extract.pdf")

// PDFExtractor concatenates per-page text in page order.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(ctx context.Context, src Source, _ string) (text string, err error) {
	// The pdf package panics on some malformed inputs; surface those as
	// corrupt-content errors instead of crashing the run.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = errors.Wrapf(ErrCorrupt, "PDF parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(src.Data), int64(len(src.Data)))
	if err != nil {
		return "", errors.Wrap(ErrCorrupt, err.Error())
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			pdfLog.Warn().Int("page", i).Err(err).Msg("skipping unreadable page")
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	text = strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.Wrap(ErrCorrupt, "no text content in PDF")
	}
	return text, nil
}
