// Package scheme classifies an input string as a local path or a remote URL.
package scheme

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned when there is nothing to classify.
var ErrEmptyInput = errors.New("input is empty")

// Ref is a classified input reference. Exactly one of the two views is
// active, indicated by Remote.
type Ref struct {
	// Remote reports whether the input is an http(s) URL.
	Remote bool
	// URL is the remote URL when Remote is true.
	URL string
	// Path is the local filesystem path when Remote is false. Existence is
	// not checked here; that is deferred to the fetch stage.
	Path string
}

const filePrefix = "file://"

// Resolve classifies input. http:// and https:// prefixes yield a remote
// reference; a file:// prefix is stripped and everything else is taken as a
// local path verbatim.
func Resolve(input string) (Ref, error) {
	if strings.TrimSpace(input) == "" {
		return Ref{}, ErrEmptyInput
	}

	lower := strings.ToLower(input)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return Ref{Remote: true, URL: input}, nil
	case strings.HasPrefix(lower, filePrefix):
		return Ref{Path: input[len(filePrefix):]}, nil
	default:
		return Ref{Path: input}, nil
	}
}
