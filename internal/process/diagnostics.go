package process

import (
	"github.com/veraarmas/telar/internal/config"
	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/warnings"
)

// Christmas tree mode lights up every warning path at once so the intro
// panel's error display and all localized messages can be checked visually.
// Test records carry a tree emoji in their titles for easy identification.
const treeMarker = "\U0001F384"

// testObjects returns deliberately broken object records covering the
// manifest error paths: 404, 503, 500, 429, an invalid URL, and a missing
// local image.
func testObjects() []*record.Object {
	broken := []struct {
		id, title, desc, manifest string
	}{
		{"test-iiif-404", "Test - IIIF 404 Error",
			"Test object to trigger IIIF 404 error warning",
			"https://example.com/nonexistent/manifest.json"},
		{"test-iiif-503", "Test - IIIF 503 Service Unavailable",
			"Test object to trigger IIIF 503 error warning",
			"https://httpstat.us/503"},
		{"test-iiif-invalid", "Test - Invalid IIIF URL",
			"Test object to trigger invalid URL warning",
			"not-a-valid-url"},
		{"test-image-missing", "Test - Missing Image Source",
			"Test object with no IIIF manifest and no local image file",
			""},
		{"test-iiif-500", "Test - IIIF 500 Internal Server Error",
			"Test object to trigger IIIF 500 error warning",
			"https://httpstat.us/500"},
		{"test-iiif-429", "Test - IIIF 429 Rate Limiting",
			"Test object to trigger IIIF 429 rate limiting warning",
			"https://httpstat.us/429"},
	}

	objects := make([]*record.Object, 0, len(broken))
	for _, b := range broken {
		objects = append(objects, &record.Object{
			ObjectID:     b.id,
			Title:        treeMarker + " " + b.title,
			Description:  b.desc,
			SourceURL:    b.manifest,
			IIIFManifest: b.manifest,
			Creator:      "Test",
			Period:       "Test",
		})
	}
	return objects
}

// injectTestWarnings appends one fake warning per category so the intro
// panel shows every warning style at once.
func injectTestWarnings(warn *warnings.List, strs *config.Strings) {
	warn.Add(warnings.Warning{
		Step:    "1",
		Type:    warnings.CategoryViewer,
		Message: strs.Get("errors.object_warnings.missing_object_id"),
	})
	warn.Add(warnings.Warning{
		Step: "2",
		Type: warnings.CategoryPanel,
		Message: strs.Format("errors.object_warnings.content_file_missing",
			map[string]any{"file_ref": "missing-file.md"}),
	})
	warn.Add(warnings.Warning{
		Step:   "3",
		Type:   warnings.CategoryGlossary,
		TermID: "nonexistent-term",
		Message: strs.Format("errors.object_warnings.glossary_term_not_found",
			map[string]any{"term_id": "nonexistent-term"}),
	})
}
