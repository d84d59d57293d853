package widget

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/Masterminds/sprig/v3"
)

// Templates holds the site's widget templates, one per widget type, loaded
// from the widget template directory ("<type>.html"). Templates get the
// sprig function map, matching what theme authors expect.
type Templates struct {
	root *template.Template
}

// LoadTemplates parses every *.html template in dir.
func LoadTemplates(dir string) (*Templates, error) {
	pattern := filepath.Join(dir, "*.html")
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("no widget templates at %s", pattern)
	}
	root, err := template.New("widgets").Funcs(sprig.HtmlFuncMap()).ParseFiles(matches...)
	if err != nil {
		return nil, fmt.Errorf("parse widget templates: %w", err)
	}
	return &Templates{root: root}, nil
}

// Render executes the template for widgetType with the parsed payload.
func (t *Templates) Render(widgetType string, data map[string]any) (string, error) {
	name := widgetType + ".html"
	tpl := t.root.Lookup(name)
	if tpl == nil {
		return "", fmt.Errorf("no template %s", name)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
