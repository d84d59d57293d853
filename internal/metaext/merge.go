package metaext

import (
	"strings"

	"github.com/veraarmas/telar/internal/record"
)

// ApplyFallback merges extracted manifest metadata into an object record
// under the author-wins hierarchy: a non-blank spreadsheet value is never
// touched, blanks fill from the manifest, and fields empty on both sides
// stay empty. Returns the names of the fields that were auto-populated.
//
// The merge is idempotent: running it again with the same inputs changes
// nothing, because every filled field now reads as author-entered.
func ApplyFallback(obj *record.Object, extracted map[string]string) []string {
	var populated []string
	for _, field := range obj.MergeableFields() {
		if strings.TrimSpace(*field.Value) != "" {
			continue
		}
		if v := strings.TrimSpace(extracted[field.Name]); v != "" {
			*field.Value = v
			populated = append(populated, field.Name)
		}
	}
	return populated
}
