package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ostier/recap/log"
	"github.com/ostier/recap/subproc"
)

// PandocInstallHint is surfaced when the pandoc binary is missing.
const PandocInstallHint = "install pandoc (https://pandoc.org/installing.html) and ensure it is on your PATH"

var pandocLog = log.NewLogger("extract.pandoc")

// PandocExtractor delegates office and markup formats to the pandoc CLI.
// The input bytes are staged as a file in the scoped workdir and pandoc's
// stdout is the extracted text.
//
// References:
// - https://pandoc.org/MANUAL.html#general-options
type PandocExtractor struct{}

// pandocInputFormat maps the hints to a pandoc --from value. Extension
// first, then MIME; empty when neither maps (pandoc then guesses from the
// staged file name).
func pandocInputFormat(mime, ext string) string {
	switch strings.ToLower(ext) {
	case "docx":
		return "docx"
	case "doc":
		return "doc"
	case "odt":
		return "odt"
	case "rtf":
		return "rtf"
	case "epub":
		return "epub"
	case "md":
		return "markdown"
	case "html", "htm", "xhtml":
		return "html"
	case "txt", "text":
		return "plain"
	case "tex", "latex":
		return "latex"
	}

	switch strings.ToLower(mime) {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return "docx"
	case "application/msword":
		return "doc"
	case "application/vnd.oasis.opendocument.text":
		return "odt"
	case "application/rtf", "text/rtf":
		return "rtf"
	case "application/epub+zip":
		return "epub"
	case "text/markdown":
		return "markdown"
	case "text/html", "application/xhtml+xml":
		return "html"
	case "text/plain":
		return "plain"
	case "text/latex", "application/x-tex", "text/x-tex":
		return "latex"
	}
	return ""
}

func (e *PandocExtractor) Extract(ctx context.Context, src Source, workdir string) (string, error) {
	if err := subproc.LookPath("pandoc"); err != nil {
		return "", errors.Wrap(err, PandocInstallHint)
	}

	staged := filepath.Join(workdir, stagedName("doc", src.Ext))
	if err := os.WriteFile(staged, src.Data, 0o600); err != nil {
		return "", errors.Wrap(err, "failed to stage content for pandoc")
	}

	from := ""
	if format := pandocInputFormat(src.MIME, src.Ext); format != "" {
		from = "--from=" + format
	}

	cmd := subproc.NewCommand("pandoc").
		ArgOpt(from).
		Args("--to", "plain", "--wrap=none", "--markdown-headings=atx").
		Arg(staged)
	pandocLog.Debug().Str("cmd", cmd.String()).Msg("running pandoc")

	out, err := cmd.Run(ctx)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(out) {
		return "", errors.Wrap(ErrEncoding, "pandoc output")
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", errors.Wrap(ErrCorrupt, "pandoc produced empty output")
	}
	return text, nil
}

// stagedName keeps the original extension on the staged file so pandoc can
// fall back to its own detection when no --from was inferred.
func stagedName(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + strings.ToLower(ext)
}
