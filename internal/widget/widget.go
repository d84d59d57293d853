// Package widget interprets the fenced widget syntax authors embed in panel
// content (:::carousel ... :::). Each block is parsed into a typed payload,
// validated against the widget type's structural constraints, and rendered
// through a site-provided template. Violations warn and degrade; they never
// abort a build.
package widget

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/veraarmas/telar/internal/markdown"
	"github.com/veraarmas/telar/internal/paths"
	"github.com/veraarmas/telar/internal/warnings"
)

// fencePattern matches :::type ... ::: blocks. Widget processing runs before
// markdown conversion, so the fences appear on their own lines in raw text.
var fencePattern = regexp.MustCompile(`(?s):::(\w+)\s*\n(.*?)\n:::`)

// Interpreter parses and renders widget blocks for one build invocation.
// The instance owns the widget ID counter, so IDs are unique within a build
// and reset across builds.
type Interpreter struct {
	counter   int
	templates *Templates
	renderer  *markdown.Renderer
	assetsDir string
	prober    *paths.Prober
}

// NewInterpreter wires an interpreter. templates may be nil when the site
// has no widget templates; every block then renders as an inline error.
func NewInterpreter(templates *Templates, renderer *markdown.Renderer, assetImagesDir string) *Interpreter {
	return &Interpreter{
		templates: templates,
		renderer:  renderer,
		assetsDir: assetImagesDir,
		prober:    paths.NewProber(assetImagesDir),
	}
}

// nextID returns a process-unique sequential widget identifier.
func (it *Interpreter) nextID() string {
	it.counter++
	return fmt.Sprintf("widget-%d", it.counter)
}

// Process replaces every widget block in text with rendered HTML. Unknown
// widget types produce a warning and an inline error marker; the surrounding
// document still renders.
func (it *Interpreter) Process(text, context string, warn *warnings.List) string {
	return fencePattern.ReplaceAllStringFunc(text, func(block string) string {
		m := fencePattern.FindStringSubmatch(block)
		widgetType := strings.ToLower(m[1])
		content := m[2]

		var data map[string]any
		switch widgetType {
		case "carousel":
			data = it.parseCarousel(content, warn)
		case "tabs":
			data = it.parseTabs(content, warn)
		case "accordion":
			data = it.parseAccordion(content, warn)
		default:
			warn.Add(warnings.Warning{
				Type:       warnings.CategoryWidget,
				WidgetType: widgetType,
				Message:    fmt.Sprintf("Unknown widget type: %s", widgetType),
			})
			return fmt.Sprintf(`<div class="telar-widget-error">Unknown widget type: %s</div>`, widgetType)
		}

		return it.render(widgetType, data)
	})
}

// render hands the payload to the site template for the widget type. A
// template failure degrades to a visible inline error element.
func (it *Interpreter) render(widgetType string, data map[string]any) string {
	data["widget_id"] = it.nextID()
	// Rewritten by the downstream renderer's own templating.
	data["base_url"] = "{{ site.baseurl }}"

	if it.templates == nil {
		return renderError(widgetType, fmt.Errorf("no widget templates loaded"))
	}
	html, err := it.templates.Render(widgetType, data)
	if err != nil {
		return renderError(widgetType, err)
	}
	return html
}

func renderError(widgetType string, err error) string {
	return fmt.Sprintf(`<div class="telar-widget-error">Widget rendering error (%s): %s</div>`, widgetType, err)
}

// parseKeyValueBlock extracts key: value pairs from a text block, skipping
// comment lines.
func parseKeyValueBlock(content string) map[string]string {
	data := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		data[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return data
}
