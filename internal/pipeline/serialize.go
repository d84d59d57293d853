package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/warnings"
)

// storyMetadata is the envelope element prepended to a story document when
// the build produced warnings. The renderer shows these in the story's
// intro panel.
type storyMetadata struct {
	Metadata       bool               `json:"_metadata"`
	ViewerWarnings []warnings.Warning `json:"viewer_warnings"`
}

// storyDocument assembles the serialized story: the metadata envelope first
// when warnings exist, then the steps in spreadsheet order.
func storyDocument(steps []*record.StoryStep, warn *warnings.List) []any {
	doc := make([]any, 0, len(steps)+1)
	if warn.Len() > 0 {
		doc = append(doc, storyMetadata{Metadata: true, ViewerWarnings: warn.Items()})
	}
	for _, step := range steps {
		doc = append(doc, step)
	}
	return doc
}

// writeJSON serializes v with two-space indentation in one whole-file
// write, so a crashed build never leaves a half-written data file behind
// a successful one.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
