package extract

import (
	"context"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// PlainExtractor is the identity transform: the bytes are returned as text
// verbatim. It fails only when the bytes are not valid UTF-8.
type PlainExtractor struct{}

func (e *PlainExtractor) Extract(_ context.Context, src Source, _ string) (string, error) {
	if !utf8.Valid(src.Data) {
		return "", errors.Wrap(ErrEncoding, "plain extraction")
	}
	return string(src.Data), nil
}
