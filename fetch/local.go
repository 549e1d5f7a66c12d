package fetch

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ostier/recap/scheme"
)

// LocalFetcher reads a local file. The MIME hint is left empty: for local
// inputs the extension is the authoritative hint.
type LocalFetcher struct{}

func NewLocalFetcher() *LocalFetcher {
	return &LocalFetcher{}
}

func (f *LocalFetcher) Fetch(_ context.Context, ref scheme.Ref) (*Content, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read local file %q", ref.Path)
	}

	return &Content{
		Data: data,
		Ext:  strings.TrimPrefix(strings.ToLower(filepath.Ext(ref.Path)), "."),
	}, nil
}
