package pipeline

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Workdir is the scratch directory extractors stage files into. A generated
// one lives under the system temp dir and is removed after the run; a
// caller-supplied directory is left in place.
type Workdir struct {
	Path string
	keep bool
}

// newWorkdir creates the scratch directory. explicit, when non-empty, names
// a directory the caller owns.
func newWorkdir(explicit string) (*Workdir, error) {
	if explicit != "" {
		if err := os.MkdirAll(explicit, 0o755); err != nil {
			return nil, errors.Wrapf(err, "failed to create workdir %q", explicit)
		}
		return &Workdir{Path: explicit, keep: true}, nil
	}

	path := filepath.Join(os.TempDir(), "recap", uuid.NewString())
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create workdir %q", path)
	}
	return &Workdir{Path: path}, nil
}

// Cleanup removes a generated workdir. Caller-supplied directories survive.
func (w *Workdir) Cleanup() {
	if w.keep {
		return
	}
	os.RemoveAll(w.Path)
}
