package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTable(t *testing.T, csv string) *Table {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return table
}

func TestNormalizeRenamesBilingualColumns(t *testing.T) {
	table := readTable(t, "Paso,Objeto,Pregunta\n1,map,who?\n")
	NewNormalizer(nil).Normalize(table)

	assert.Equal(t, []string{"step", "object", "question"}, table.Headers)
	assert.Equal(t, "map", table.Cell(0, "object"))
}

func TestNormalizeDropsCommentRowsAndColumns(t *testing.T) {
	table := readTable(t, "step,#instructions,object\n# fill in below,ignore,ignore\n1,hint text,map\n")
	NewNormalizer(nil).Normalize(table)

	assert.Equal(t, []string{"step", "object"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "map", table.Cell(0, "object"))
}

func TestNormalizeKeepsHexColorsAndMarkdownHeaders(t *testing.T) {
	// Only a leading # in the first column marks a comment row. Hex colors
	// and markdown headers inside cells must survive.
	table := readTable(t, "step,answer\n1,#2c3e50\n2,## Section Title\n")
	NewNormalizer(nil).Normalize(table)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "#2c3e50", table.Cell(0, "answer"))
	assert.Equal(t, "## Section Title", table.Cell(1, "answer"))
}

func TestNormalizeDropsDuplicateHeaderRow(t *testing.T) {
	table := readTable(t, "step,object,question\npaso,objeto,pregunta\n1,map,who?\n")
	NewNormalizer(nil).Normalize(table)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "1", table.Cell(0, "step"))
}

func TestIsHeaderRowThresholdIsInclusive(t *testing.T) {
	// 4 of 5 non-empty cells match known names: exactly 80%, a header row.
	exactly80 := []string{"step", "object", "question", "answer", "not-a-column"}
	assert.True(t, IsHeaderRow(exactly80))

	// 4 of 6: about 67%, data.
	below := []string{"step", "object", "question", "answer", "free text", "more text"}
	assert.False(t, IsHeaderRow(below))
}

func TestIsHeaderRowIgnoresEmptyCells(t *testing.T) {
	assert.True(t, IsHeaderRow([]string{"step", "", "", "object", ""}))
	assert.False(t, IsHeaderRow([]string{"", "", ""}))
}

func TestNormalizeStripsTreeEmojiFromCells(t *testing.T) {
	table := readTable(t, "step,answer\n1,party \U0001F384 time\n")
	NewNormalizer(nil).Normalize(table)

	assert.Equal(t, "party  time", table.Cell(0, "answer"))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	table := readTable(t, "Paso,objeto\npaso,objeto\n1,map\n")
	n := NewNormalizer(nil)
	n.Normalize(table)
	headers := append([]string(nil), table.Headers...)
	rows := len(table.Rows)

	n.Normalize(table)
	assert.Equal(t, headers, table.Headers)
	assert.Equal(t, rows, len(table.Rows))
}

func TestReadCSVPadsRaggedRows(t *testing.T) {
	table := readTable(t, "a,b,c\n1\n1,2,3,4\n")
	assert.Equal(t, "", table.Cell(0, "b"))
	assert.Equal(t, "3", table.Cell(1, "c"))
}

func TestReadCSVStripsBOM(t *testing.T) {
	table := readTable(t, "\ufeffstep,object\n1,map\n")
	assert.True(t, table.HasColumn("step"))
}
