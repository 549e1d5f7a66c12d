package extract

import "strings"

// mimeIndex maps declared media types to extractor kinds.
//
// References:
// - https://mimetype.io/all-types
var mimeIndex = map[string]Kind{
	"text/html":             KindHTML,
	"application/xhtml+xml": KindHTML,

	"application/pdf": KindPDF,

	"text/plain":    KindPlain,
	"text/markdown": KindPlain,

	// docx
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": KindPandoc,
	// doc
	"application/msword": KindPandoc,
	// odt
	"application/vnd.oasis.opendocument.text": KindPandoc,
	// rtf
	"application/rtf": KindPandoc,
	"text/rtf":        KindPandoc,
	// epub
	"application/epub+zip": KindPandoc,
	// latex
	"text/latex":        KindPandoc,
	"application/x-tex": KindPandoc,
	"text/x-tex":        KindPandoc,
}

// extIndex maps lowercase file extensions to extractor kinds.
var extIndex = map[string]Kind{
	"html":  KindHTML,
	"htm":   KindHTML,
	"xhtml": KindHTML,

	"pdf": KindPDF,

	"txt":  KindPlain,
	"text": KindPlain,
	"md":   KindPlain,

	"docx":  KindPandoc,
	"doc":   KindPandoc,
	"odt":   KindPandoc,
	"rtf":   KindPandoc,
	"epub":  KindPandoc,
	"tex":   KindPandoc,
	"latex": KindPandoc,

	"mp3": KindWhisper,
	"wav": KindWhisper,
	"mp4": KindWhisper,
	"m4a": KindWhisper,
}

// Select maps fetch-time hints to an extractor kind. A forced kind always
// wins, even when it contradicts the hints; this lets users reinterpret
// content on purpose. Otherwise the MIME hint is consulted first, then the
// extension, and when neither maps the safe universal fallback is plain
// text.
func Select(mime, ext string, forced Kind) Kind {
	if forced != "" {
		return forced
	}
	if kind, ok := byMIME(mime); ok {
		return kind
	}
	if kind, ok := extIndex[strings.ToLower(ext)]; ok {
		return kind
	}
	return KindPlain
}

// HintsMapped reports whether either hint maps to an extractor kind. When
// neither does, auto-selection is only the plain fallback and carries no
// signal worth contradicting.
func HintsMapped(mime, ext string) bool {
	if _, ok := byMIME(mime); ok {
		return true
	}
	_, ok := extIndex[strings.ToLower(ext)]
	return ok
}

func byMIME(mime string) (Kind, bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime == "" {
		return "", false
	}
	if kind, ok := mimeIndex[mime]; ok {
		return kind, true
	}
	// Any audio or video media type goes to transcription.
	if strings.HasPrefix(mime, "audio/") || strings.HasPrefix(mime, "video/") {
		return KindWhisper, true
	}
	return "", false
}
