// Package record defines the typed records the pipeline produces, one struct
// per content kind. Records are created once from a normalized table row,
// mutated in place during enrichment, and serialized once at the end of the
// build with the field names the downstream renderer expects.
package record

import "strings"

// ProjectEntry is one story listed in the project spreadsheet.
type ProjectEntry struct {
	Number    string `json:"number"`
	StoryID   string `json:"story_id,omitempty"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Byline    string `json:"byline,omitempty"`
	Protected bool   `json:"protected,omitempty"`
	Demo      bool   `json:"_demo,omitempty"`
}

// Project is the serialized project document.
type Project struct {
	Stories []ProjectEntry `json:"stories"`
}

// Object is one exhibition object: the visual artefact a story step points
// the viewer at, sourced from an external manifest or a local image.
type Object struct {
	ObjectID     string `json:"object_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	SourceURL    string `json:"source_url"`
	IIIFManifest string `json:"iiif_manifest"`
	Creator      string `json:"creator"`
	Period       string `json:"period"`
	Medium       string `json:"medium,omitempty"`
	Dimensions   string `json:"dimensions,omitempty"`
	Source       string `json:"source"`
	Credit       string `json:"credit"`
	Thumbnail    string `json:"thumbnail"`
	Year         string `json:"year,omitempty"`
	ObjectType   string `json:"object_type,omitempty"`
	Subjects     string `json:"subjects,omitempty"`
	Featured     string `json:"featured,omitempty"`

	// Warning carries the author-facing validation message for this object;
	// WarningShort is the condensed badge text shown in listings.
	Warning      string `json:"object_warning"`
	WarningShort string `json:"object_warning_short,omitempty"`

	IsFeaturedSample bool `json:"is_featured_sample"`
	Demo             bool `json:"_demo,omitempty"`
}

// ManifestURL returns the object's external manifest reference, preferring
// the current source_url column and falling back to the legacy
// iiif_manifest column.
func (o *Object) ManifestURL() string {
	if url := strings.TrimSpace(o.SourceURL); url != "" {
		return url
	}
	return strings.TrimSpace(o.IIIFManifest)
}

// Field is a named pointer to one mergeable record field, used by the
// metadata merge to apply the override hierarchy without reflection.
type Field struct {
	Name  string
	Value *string
}

// MergeableFields lists the fields external manifest metadata may populate.
// Author-entered values always win; the merge only fills blanks.
func (o *Object) MergeableFields() []Field {
	return []Field{
		{"title", &o.Title},
		{"description", &o.Description},
		{"creator", &o.Creator},
		{"period", &o.Period},
		{"source", &o.Source},
		{"credit", &o.Credit},
		{"year", &o.Year},
		{"object_type", &o.ObjectType},
		{"subjects", &o.Subjects},
	}
}

// StoryStep is one row of a story spreadsheet: the viewer position, the
// question/answer pair, and up to two layered content panels.
type StoryStep struct {
	Step     string `json:"step"`
	Object   string `json:"object"`
	X        string `json:"x"`
	Y        string `json:"y"`
	Zoom     string `json:"zoom"`
	Question string `json:"question"`
	Answer   string `json:"answer"`

	Layer1Button string `json:"layer1_button,omitempty"`
	Layer1Title  string `json:"layer1_title"`
	Layer1Text   string `json:"layer1_text"`
	Layer2Button string `json:"layer2_button,omitempty"`
	Layer2Title  string `json:"layer2_title"`
	Layer2Text   string `json:"layer2_text"`

	// Per-layer demo flags let the renderer badge demo panels inside a
	// mixed story.
	Layer1Demo bool `json:"layer1_demo,omitempty"`
	Layer2Demo bool `json:"layer2_demo,omitempty"`

	ViewerWarning string `json:"viewer_warning"`
	Demo          bool   `json:"_demo,omitempty"`
}

// GlossaryTerm is one glossary entry, from the glossary spreadsheet or a
// legacy per-term markdown file.
type GlossaryTerm struct {
	TermID       string `json:"term_id"`
	Title        string `json:"title"`
	Definition   string `json:"definition,omitempty"`
	RelatedTerms string `json:"related_terms,omitempty"`
	Content      string `json:"content,omitempty"`
	Demo         bool   `json:"_demo,omitempty"`
}
