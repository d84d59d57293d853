// Package warnings holds the structured warning model shared by every
// processing stage. Warnings are author-facing: each one names the record it
// applies to, a category, and an actionable message. They never abort a build;
// the pipeline collects them into one ordered list and the renderer surfaces
// them in the story's intro panel.
package warnings

// Category classifies a warning by the subsystem that produced it.
type Category string

const (
	// CategoryViewer covers missing or sourceless viewer objects.
	CategoryViewer Category = "viewer"
	// CategoryPanel covers missing panel content files.
	CategoryPanel Category = "panel"
	// CategoryGlossary covers unresolved glossary term references.
	CategoryGlossary Category = "glossary"
	// CategoryWidget covers widget structure and asset problems.
	CategoryWidget Category = "widget"
	// CategoryObject covers object record validation (manifests, thumbnails, media).
	CategoryObject Category = "object"
)

// Warning is one author-facing diagnostic tied to a record.
type Warning struct {
	Step       string   `json:"step,omitempty"`
	Type       Category `json:"type"`
	Message    string   `json:"message"`
	TermID     string   `json:"term_id,omitempty"`
	Layer      string   `json:"layer,omitempty"`
	WidgetType string   `json:"widget_type,omitempty"`
}

// List accumulates warnings in emission order. The zero value is ready to use.
type List struct {
	items []Warning
}

// Add appends one warning.
func (l *List) Add(w Warning) { l.items = append(l.items, w) }

// Addf is shorthand for a category+message warning with no record context.
func (l *List) Addf(c Category, msg string) { l.Add(Warning{Type: c, Message: msg}) }

// Extend appends every warning from other, preserving order.
func (l *List) Extend(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Items returns the accumulated warnings in emission order.
func (l *List) Items() []Warning { return l.items }

// Len returns the number of accumulated warnings.
func (l *List) Len() int { return len(l.items) }
