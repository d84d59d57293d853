package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed spreadsheet: one header row and zero or more data rows,
// all cells kept as strings. Rows are padded or truncated to the header
// width, so cell access never needs bounds checks.
type Table struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// ReadCSV parses CSV input into a Table. Ragged rows are tolerated: short
// rows are padded with empty cells, long rows truncated to the header width.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: no header row")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := &Table{Headers: headers}
	for _, row := range records[1:] {
		padded := make([]string, len(headers))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	t.reindex()
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, exists := t.index[h]; !exists {
			t.index[h] = i
		}
	}
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed value at (row, column name), or "" when the
// column does not exist.
func (t *Table) Cell(row int, name string) string {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// SetCell stores a value at (row, column name); it is a no-op for unknown
// columns.
func (t *Table) SetCell(row int, name, value string) {
	if i, ok := t.index[name]; ok && row >= 0 && row < len(t.Rows) {
		t.Rows[row][i] = value
	}
}

// IsEmptyRow reports whether every cell of the row is blank.
func (t *Table) IsEmptyRow(row int) bool {
	for _, cell := range t.Rows[row] {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
