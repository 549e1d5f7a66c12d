// Package prompt renders the system and user messages sent to the LLM.
// Templates are plain key-to-value substitutions with no control flow; the
// system template exposes {{language}} and the user template {{content}}.
package prompt

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"github.com/valyala/fasttemplate"
)

//go:embed templates/system.tmpl
var defaultSystemTemplate string

//go:embed templates/user.tmpl
var defaultUserTemplate string

const (
	startTag = "{{"
	endTag   = "}}"
)

// Options selects the templates for one run. Empty paths mean the built-in
// defaults.
type Options struct {
	SystemTemplatePath string
	UserTemplatePath   string
}

// Messages is the rendered pair handed to a provider adapter.
type Messages struct {
	System string
	User   string
}

// Render loads the configured templates and substitutes the variables.
func Render(opts Options, language, content string) (Messages, error) {
	systemTmpl, err := loadTemplate(opts.SystemTemplatePath, defaultSystemTemplate)
	if err != nil {
		return Messages{}, errors.Wrap(err, "system template")
	}
	userTmpl, err := loadTemplate(opts.UserTemplatePath, defaultUserTemplate)
	if err != nil {
		return Messages{}, errors.Wrap(err, "user template")
	}

	return Messages{
		System: fasttemplate.ExecuteString(systemTmpl, startTag, endTag, map[string]interface{}{
			"language": language,
		}),
		User: fasttemplate.ExecuteString(userTmpl, startTag, endTag, map[string]interface{}{
			"content": content,
		}),
	}, nil
}

func loadTemplate(path, fallback string) (string, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read template file %q", path)
	}
	return string(data), nil
}
