// Package markdown converts author-supplied panel content to HTML. Content
// arrives either as a markdown file referenced from the spreadsheet or as
// text typed directly into a cell; both run the same pipeline: widget blocks
// first, then the extended image syntax, then goldmark.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer wraps a configured goldmark instance. Hard wraps are enabled so
// single line breaks in spreadsheet cells produce <br> tags, and raw HTML
// passes through because authors embed it deliberately.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns the shared renderer configuration.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
	}
}

// Render converts markdown to HTML. Conversion failures return the source
// text unchanged; a rendering hiccup must not lose author content.
func (r *Renderer) Render(src string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return strings.TrimSpace(buf.String())
}

var outerParagraph = regexp.MustCompile(`(?s)^<p>(.*)</p>$`)

// RenderInline converts a one-line markdown fragment (caption, credit) to
// HTML with the wrapping paragraph tag removed.
func (r *Renderer) RenderInline(src string) string {
	return outerParagraph.ReplaceAllString(r.Render(src), "$1")
}
