// Package schema canonicalizes raw spreadsheet tables before the per-type
// processors take over: bilingual column renames, duplicate-header-row
// detection, comment filtering, and cell sanitisation. Malformed rows are
// filtered, never fatal.
package schema

import (
	"log/slog"
	"strings"

	"github.com/veraarmas/telar/internal/logfields"
)

// HeaderMatchThreshold is the fraction of non-empty cells that must match
// known column names for a data row to be classified as a repeated header
// row. The value is inclusive: exactly 80% is a header.
const HeaderMatchThreshold = 0.8

// treeEmoji triggers the christmas-tree diagnostics mode when present in
// config; it is stripped from user data so a pasted cell cannot flip it on.
const treeEmoji = "\U0001F384"

// Normalizer applies the canonicalization pass to tables. Healing is silent
// apart from log lines; authors never see warnings for fixable input.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer returns a Normalizer logging through the given logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize runs the full canonicalization pass in place: comment filtering,
// duplicate-header removal, column renames, and cell sanitisation. The pass
// is idempotent: a normalized table passes through unchanged.
func (n *Normalizer) Normalize(t *Table) {
	n.filterComments(t)
	n.dropDuplicateHeader(t)
	n.renameColumns(t)
	sanitize(t)
}

// filterComments drops rows whose first-column value starts with "#" and
// columns whose header starts with "#". Only the leading character counts:
// hex color codes and markdown headers inside long text cells must survive.
func (n *Normalizer) filterComments(t *Table) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if len(row) > 0 && strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept

	var dropCols []int
	for i, h := range t.Headers {
		if strings.HasPrefix(h, "#") {
			dropCols = append(dropCols, i)
			n.logger.Info("dropping instruction column", logfields.Column(h))
		}
	}
	if len(dropCols) == 0 {
		return
	}
	drop := make(map[int]bool, len(dropCols))
	for _, i := range dropCols {
		drop[i] = true
	}
	t.Headers = removeIndexes(t.Headers, drop)
	for r, row := range t.Rows {
		t.Rows[r] = removeIndexes(row, drop)
	}
	t.reindex()
}

// dropDuplicateHeader removes the first data row when it repeats the column
// names, which happens in bilingual spreadsheets where row 2 carries the
// second-language headers.
func (n *Normalizer) dropDuplicateHeader(t *Table) {
	if len(t.Rows) == 0 {
		return
	}
	if IsHeaderRow(t.Rows[0]) {
		n.logger.Info("detected duplicate header row, skipping row 2")
		t.Rows = t.Rows[1:]
	}
}

// renameColumns applies the alias table case-insensitively, logging each
// rename so the build log shows what happened.
func (n *Normalizer) renameColumns(t *Table) {
	renamed := false
	for i, h := range t.Headers {
		if canonical, ok := CanonicalName(h); ok && h != canonical {
			n.logger.Info("normalized column", logfields.Column(h), slog.String("canonical", canonical))
			t.Headers[i] = canonical
			renamed = true
		}
	}
	if renamed {
		t.reindex()
	}
}

// IsHeaderRow reports whether the cells look like a repeated header row:
// at least HeaderMatchThreshold of the non-empty cells match a known column
// name (any language, any alias).
func IsHeaderRow(cells []string) bool {
	matches, total := 0, 0
	for _, cell := range cells {
		v := normalizeKey(cell)
		if v == "" {
			continue
		}
		total++
		if knownColumnNames.Has(v) {
			matches++
		}
	}
	return total > 0 && float64(matches)/float64(total) >= HeaderMatchThreshold
}

func sanitize(t *Table) {
	for _, row := range t.Rows {
		for i, cell := range row {
			if strings.Contains(cell, treeEmoji) {
				row[i] = strings.ReplaceAll(cell, treeEmoji, "")
			}
		}
	}
}

func removeIndexes(s []string, drop map[int]bool) []string {
	out := make([]string, 0, len(s))
	for i, v := range s {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}
