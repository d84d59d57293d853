package widget

import (
	"fmt"
	"strings"

	"github.com/veraarmas/telar/internal/warnings"
)

// Section bounds per widget type. Out-of-range counts warn but the widget
// still renders with whatever sections exist.
const (
	minSections      = 2
	maxTabSections   = 4
	maxPanelSections = 6
)

// parseSections splits content on second-level markdown headers. Each "## "
// line starts a new section; everything until the next header (or end of
// block) is the section body, markdown-rendered.
func (it *Interpreter) parseSections(content string) []map[string]any {
	var sections []map[string]any
	var title string
	var body []string
	flush := func() {
		if title == "" && body == nil {
			return
		}
		sections = append(sections, map[string]any{
			"title":        title,
			"content_html": it.renderer.Render(strings.TrimSpace(strings.Join(body, "\n"))),
		})
	}

	started := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") {
			if started {
				flush()
			}
			started = true
			title = strings.TrimSpace(line[3:])
			body = nil
			continue
		}
		if started {
			body = append(body, line)
		}
	}
	if started {
		flush()
	}
	return sections
}

func (it *Interpreter) parseTabs(content string, warn *warnings.List) map[string]any {
	sections := it.parseSections(content)
	validateSections(sections, "tabs", "tabs", maxTabSections, warn)
	return map[string]any{"tabs": sections}
}

func (it *Interpreter) parseAccordion(content string, warn *warnings.List) map[string]any {
	sections := it.parseSections(content)
	validateSections(sections, "accordion", "panels", maxPanelSections, warn)
	return map[string]any{"panels": sections}
}

// validateSections enforces the per-type section bounds and flags sections
// whose rendered body is empty. All findings are advisory.
func validateSections(sections []map[string]any, widgetType, noun string, max int, warn *warnings.List) {
	sectionWarning := func(msg string) warnings.Warning {
		return warnings.Warning{Type: warnings.CategoryWidget, WidgetType: widgetType, Message: msg}
	}

	if len(sections) < minSections {
		warn.Add(sectionWarning(fmt.Sprintf(
			"%s widget must have at least %d %s (found %d)",
			capitalize(widgetType), minSections, noun, len(sections))))
	} else if len(sections) > max {
		warn.Add(sectionWarning(fmt.Sprintf(
			"%s widget should have maximum %d %s (found %d)",
			capitalize(widgetType), max, noun, len(sections))))
	}

	for i, section := range sections {
		html, _ := section["content_html"].(string)
		if strings.TrimSpace(html) == "" {
			title, _ := section["title"].(string)
			warn.Add(sectionWarning(fmt.Sprintf(
				"%s %d %q has no content", sectionNoun(widgetType), i+1, title)))
		}
	}
}

func sectionNoun(widgetType string) string {
	if widgetType == "accordion" {
		return "Accordion panel"
	}
	return "Tab"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
