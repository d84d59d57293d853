// Package crossref resolves the [[term]] cross-reference syntax authors use
// in panel text. Terms resolve against a glossary index loaded from the
// glossary spreadsheet, or from legacy per-term markdown files when no
// spreadsheet exists. Unresolved references degrade to a visible error
// marker so broken links are obvious in the built site, not silent.
package crossref

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veraarmas/telar/internal/logfields"
	"github.com/veraarmas/telar/internal/markdown"
	"github.com/veraarmas/telar/internal/schema"
)

// Index maps term IDs to display titles. An empty index disables linking
// entirely: [[...]] text passes through untouched.
type Index map[string]string

// LoadIndex builds the glossary index. The glossary spreadsheet under
// structuresDir is the preferred source; legacy markdown files under
// textsDir/glossary are the fallback. When both exist the spreadsheet wins
// and the markdown files are ignored with a log line.
func LoadIndex(structuresDir, textsDir string, normalizer *schema.Normalizer, logger *slog.Logger) Index {
	csvPath := filepath.Join(structuresDir, "glossary.csv")
	mdDir := filepath.Join(textsDir, "glossary")

	if _, err := os.Stat(csvPath); err == nil {
		if hasMarkdownTerms(mdDir) {
			logger.Warn("glossary defined in both spreadsheet and markdown files, using spreadsheet",
				logfields.File(csvPath))
		}
		return loadFromCSV(csvPath, normalizer, logger)
	}

	if hasMarkdownTerms(mdDir) {
		return loadFromMarkdown(mdDir, logger)
	}
	return Index{}
}

func loadFromCSV(path string, normalizer *schema.Normalizer, logger *slog.Logger) Index {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("could not open glossary spreadsheet", logfields.File(path), logfields.Error(err))
		return Index{}
	}
	defer f.Close()

	table, err := schema.ReadCSV(f)
	if err != nil {
		logger.Warn("could not parse glossary spreadsheet", logfields.File(path), logfields.Error(err))
		return Index{}
	}
	normalizer.Normalize(table)

	if !table.HasColumn("term_id") || !table.HasColumn("title") {
		logger.Warn("glossary spreadsheet missing required columns (term_id, title)", logfields.File(path))
		return Index{}
	}

	index := Index{}
	for row := range table.Rows {
		termID := table.Cell(row, "term_id")
		title := table.Cell(row, "title")
		if termID != "" && title != "" {
			index[termID] = title
		}
	}
	return index
}

func loadFromMarkdown(dir string, logger *slog.Logger) Index {
	index := Index{}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.md"))
	sort.Strings(matches)
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("could not read glossary term file", logfields.File(path), logfields.Error(err))
			continue
		}
		fm, _, ok := markdown.SplitFrontmatter(string(data))
		if !ok {
			continue
		}
		termID := strings.TrimSpace(fm.String("term_id"))
		title := strings.TrimSpace(fm.String("title"))
		if termID != "" && title != "" {
			index[termID] = title
		}
	}
	return index
}

func hasMarkdownTerms(dir string) bool {
	matches, _ := filepath.Glob(filepath.Join(dir, "*.md"))
	return len(matches) > 0
}
