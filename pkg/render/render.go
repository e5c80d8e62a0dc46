// Package render converts Markdown articles to HTML.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"mercator-hq/scribe/pkg/fallback"
)

// Format names an output format.
type Format string

// Output formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name. The empty string means Markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

var converter = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

// HTML converts Markdown to HTML. Raw HTML in the input is not passed
// through.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Convert returns markdown in the requested format.
func Convert(markdown string, f Format) (string, error) {
	if f == FormatHTML {
		return HTML(markdown)
	}
	return markdown, nil
}

// HTMLRenderer renders fallback documents as HTML.
type HTMLRenderer struct {
	Markdown fallback.MarkdownRenderer
}

// Render implements fallback.Renderer. It returns the Markdown form if
// HTML conversion fails.
func (r HTMLRenderer) Render(d fallback.Document) string {
	md := r.Markdown.Render(d)
	out, err := HTML(md)
	if err != nil {
		return md
	}
	return out
}
