package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(id, text string) RawBlock {
	return RawBlock{ID: id, Type: BlockWord, Text: text, Page: 1}
}

func cell(id string, row, col int, childIDs ...string) RawBlock {
	return RawBlock{ID: id, Type: BlockCell, Page: 1, RowIndex: row, ColIndex: col, ChildIDs: childIDs}
}

func TestNormalizeLinesKeepSourceOrder(t *testing.T) {
	blocks := []RawBlock{
		{ID: "l1", Type: BlockLine, Text: "GENERAL NOTES", Page: 1},
		{ID: "l2", Type: BlockLine, Text: "SHEET NO. S-101", Page: 1},
		{ID: "l3", Type: BlockLine, Text: "", Page: 1},
	}

	doc := Normalize(blocks)
	assert.Equal(t, []string{"GENERAL NOTES", "SHEET NO. S-101"}, doc.Lines)
	assert.Empty(t, doc.Tables)
}

func TestNormalizeBuildsTableMatrix(t *testing.T) {
	blocks := []RawBlock{
		{ID: "t1", Type: BlockTable, Page: 1, ChildIDs: []string{"c11", "c12", "c21", "c22"}},
		cell("c11", 1, 1, "w1", "w2"),
		cell("c12", 1, 2, "w3"),
		cell("c21", 2, 1), // no text children -> empty string
		cell("c22", 2, 2, "w4", "sel"),
		word("w1", "Item"),
		word("w2", "Mark"),
		word("w3", "Qty"),
		word("w4", "2"),
		{ID: "sel", Type: BlockSelectionElement, Page: 1, Selection: SelectionSelected},
	}

	doc := Normalize(blocks)
	require.Len(t, doc.Tables, 1)
	require.Equal(t, [][]string{
		{"Item Mark", "Qty"},
		{"", "2 " + SelectedMarker},
	}, doc.Tables[0].Rows)
}

func TestNormalizeUnselectedCheckboxRendersNothing(t *testing.T) {
	blocks := []RawBlock{
		{ID: "t1", Type: BlockTable, Page: 1, ChildIDs: []string{"c11"}},
		cell("c11", 1, 1, "sel"),
		{ID: "sel", Type: BlockSelectionElement, Page: 1, Selection: SelectionNotSelected},
	}

	doc := Normalize(blocks)
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, [][]string{{""}}, doc.Tables[0].Rows)
}

func TestNormalizeSparseCellsPadWithEmptyStrings(t *testing.T) {
	// only the far corner cell exists; the grid still allocates to max indices
	blocks := []RawBlock{
		{ID: "t1", Type: BlockTable, Page: 1, ChildIDs: []string{"c33"}},
		cell("c33", 3, 3, "w1"),
		word("w1", "X"),
	}

	doc := Normalize(blocks)
	require.Len(t, doc.Tables, 1)
	rows := doc.Tables[0].Rows
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Len(t, r, 3)
	}
	assert.Equal(t, "X", rows[2][2])
	assert.Equal(t, "", rows[0][0])
}

func TestNormalizeMissingRelationshipsYieldEmptyTable(t *testing.T) {
	blocks := []RawBlock{
		{ID: "t1", Type: BlockTable, Page: 1}, // no children at all
		{ID: "t2", Type: BlockTable, Page: 1, ChildIDs: []string{"ghost"}},
	}

	doc := Normalize(blocks)
	require.Len(t, doc.Tables, 2)
	assert.Empty(t, doc.Tables[0].Rows)
	assert.Empty(t, doc.Tables[1].Rows)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	blocks := []RawBlock{
		{ID: "l1", Type: BlockLine, Text: "W12x26 BEAM", Page: 1},
		{ID: "t1", Type: BlockTable, Page: 1, ChildIDs: []string{"c11", "c12"}},
		cell("c11", 1, 1, "w1"),
		cell("c12", 1, 2, "w2"),
		word("w1", "Qty"),
		word("w2", "Description"),
	}

	first := Normalize(blocks)
	second := Normalize(blocks)
	assert.Equal(t, first, second)
}
