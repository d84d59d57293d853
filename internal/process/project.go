// Package process holds the per-content-type processors: project setup,
// object validation and enrichment, and story steps. Each processor takes a
// normalized table and produces typed records plus warnings; none of them
// abort the build on bad input.
package process

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/veraarmas/telar/internal/logfields"
	"github.com/veraarmas/telar/internal/record"
	"github.com/veraarmas/telar/internal/schema"
	"github.com/veraarmas/telar/internal/util/sets"
	"github.com/veraarmas/telar/internal/warnings"
)

// storyIDPattern is the allowed shape for semantic story identifiers.
var storyIDPattern = regexp.MustCompile(`^[a-z0-9\-_]+$`)

// affirmative values accepted in yes/no spreadsheet cells, both languages.
var affirmative = sets.New("yes", "true", "sí", "si", "1")

func isAffirmative(v string) bool {
	return affirmative.Has(strings.ToLower(strings.TrimSpace(v)))
}

// BuildProject converts the project table into the story list. Rows with an
// empty order cell are placeholders and skipped. Story IDs are validated for
// URL-safe characters and uniqueness; violations warn but the entry is kept,
// since the renderer falls back to the order number.
func BuildProject(table *schema.Table, logger *slog.Logger, warn *warnings.List) record.Project {
	project := record.Project{Stories: []record.ProjectEntry{}}
	seen := sets.New[string]()

	for row := range table.Rows {
		order := table.Cell(row, "order")
		if order == "" {
			continue
		}

		entry := record.ProjectEntry{
			Number:   order,
			Title:    table.Cell(row, "title"),
			Subtitle: table.Cell(row, "subtitle"),
			Byline:   table.Cell(row, "byline"),
		}

		if storyID := table.Cell(row, "story_id"); storyID != "" {
			if !storyIDPattern.MatchString(storyID) {
				logger.Warn("story_id contains invalid characters, use lowercase letters, numbers, hyphens, underscores only",
					logfields.StoryID(storyID))
				warn.Addf(warnings.CategoryViewer, "story_id '"+storyID+"' contains invalid characters")
			}
			if seen.Has(storyID) {
				logger.Warn("duplicate story_id in project spreadsheet", logfields.StoryID(storyID))
				warn.Addf(warnings.CategoryViewer, "Duplicate story_id '"+storyID+"' found in project spreadsheet")
			}
			seen.Add(storyID)
			entry.StoryID = storyID
		}

		if isAffirmative(table.Cell(row, "protected")) {
			entry.Protected = true
		}

		project.Stories = append(project.Stories, entry)
	}
	return project
}
