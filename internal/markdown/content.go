package markdown

import (
	"log/slog"
	"os"
	"strings"

	"github.com/veraarmas/telar/internal/logfields"
	"github.com/veraarmas/telar/internal/paths"
	"github.com/veraarmas/telar/internal/warnings"
)

// WidgetProcessor replaces fenced widget blocks with rendered HTML. It runs
// before markdown conversion; the context string names the content source
// for warning messages.
type WidgetProcessor interface {
	Process(text, context string, warn *warnings.List) string
}

// Content is one processed panel: an optional frontmatter title plus the
// rendered HTML body.
type Content struct {
	Title string
	HTML  string
}

// Processor turns panel content (file references or inline cell text) into
// Content, running widgets, extended images, and markdown in that order.
type Processor struct {
	renderer *Renderer
	widgets  WidgetProcessor
	textsDir string
	logger   *slog.Logger
}

// NewProcessor wires a content processor. widgets may be nil in contexts
// that forbid widget blocks.
func NewProcessor(textsDir string, widgets WidgetProcessor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		renderer: NewRenderer(),
		widgets:  widgets,
		textsDir: textsDir,
		logger:   logger,
	}
}

// Renderer exposes the shared markdown renderer.
func (p *Processor) Renderer() *Renderer { return p.renderer }

// ReadFile loads a markdown file relative to the texts directory with
// case-insensitive resolution, extracts the frontmatter title, and renders
// the body. It returns nil when the file cannot be found or read; the caller
// decides whether that warrants a warning.
func (p *Processor) ReadFile(rel string, warn *warnings.List) *Content {
	full, ok := paths.ResolveCaseInsensitive(p.textsDir, rel)
	if !ok {
		p.logger.Warn("markdown file not found", logfields.File(rel))
		return nil
	}

	raw, err := os.ReadFile(full)
	if err != nil {
		p.logger.Warn("could not read markdown file", logfields.File(full), logfields.Error(err))
		return nil
	}

	title := ""
	body := string(raw)
	if meta, rest, ok := SplitFrontmatter(body); ok {
		title = meta.String("title")
		body = rest
	}
	return &Content{Title: title, HTML: p.renderBody(body, rel, warn)}
}

// Inline processes text typed directly into a spreadsheet cell. Line endings
// are normalized first (spreadsheets export \r\n or bare \r). A leading
// frontmatter block is honored only when it carries a title key, so a "---"
// horizontal rule is not eaten. Returns nil for blank input.
func (p *Processor) Inline(text string, warn *warnings.List) *Content {
	content := strings.ReplaceAll(text, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	title := ""
	if meta, rest, ok := SplitFrontmatter(content); ok {
		if t := meta.String("title"); t != "" {
			title = t
			content = rest
		}
	}
	return &Content{Title: title, HTML: p.renderBody(content, "inline-content", warn)}
}

func (p *Processor) renderBody(body, context string, warn *warnings.List) string {
	if p.widgets != nil {
		body = p.widgets.Process(body, context, warn)
	}
	body = p.renderer.ProcessImages(body)
	return p.renderer.Render(body)
}
