package ocr

import (
	"strings"
)

// SelectedMarker is the literal rendered for a selected checkbox inside a
// table cell.
const SelectedMarker = "☑"

// Table is a rectangular row/column matrix of cell text. Immutable after
// construction.
type Table struct {
	Rows [][]string
}

// Document is the normalized output consumed by the feature extractor and
// the takeoff builder.
type Document struct {
	Lines  []string
	Tables []Table
}

// Normalize converts a flat list of OCR blocks into plain text lines and
// table matrices. It never fails: malformed graphs degrade to empty
// collections.
func Normalize(blocks []RawBlock) Document {
	idx := indexBlocks(blocks)

	var doc Document
	for i := range blocks {
		switch blocks[i].Type {
		case BlockLine:
			if blocks[i].Text != "" {
				doc.Lines = append(doc.Lines, blocks[i].Text)
			}
		case BlockTable:
			doc.Tables = append(doc.Tables, buildTable(&blocks[i], idx))
		}
	}
	return doc
}

// buildTable assembles one TABLE block's CELL children into a rectangular
// grid. Cells with no text children yield empty strings; missing child ids
// are skipped; a table with no resolvable cells is empty, never an error.
func buildTable(table *RawBlock, idx blockIndex) Table {
	type placedCell struct {
		row, col int
		text     string
	}

	var cells []placedCell
	maxRow, maxCol := 0, 0
	for _, cid := range table.ChildIDs {
		cell, ok := idx[cid]
		if !ok || cell.Type != BlockCell {
			continue
		}
		row, col := cell.RowIndex, cell.ColIndex
		if row < 1 || col < 1 {
			continue
		}
		if row > maxRow {
			maxRow = row
		}
		if col > maxCol {
			maxCol = col
		}
		cells = append(cells, placedCell{row: row, col: col, text: cellText(cell, idx)})
	}

	if len(cells) == 0 {
		return Table{}
	}

	rows := make([][]string, maxRow)
	for r := range rows {
		rows[r] = make([]string, maxCol)
	}
	for _, c := range cells {
		rows[c.row-1][c.col-1] = c.text
	}
	return Table{Rows: rows}
}

// cellText concatenates a CELL's child WORD texts with single spaces. A
// selected checkbox renders as SelectedMarker; an unselected one renders as
// nothing.
func cellText(cell *RawBlock, idx blockIndex) string {
	var parts []string
	for _, cid := range cell.ChildIDs {
		child, ok := idx[cid]
		if !ok {
			continue
		}
		switch child.Type {
		case BlockWord:
			if child.Text != "" {
				parts = append(parts, child.Text)
			}
		case BlockSelectionElement:
			if child.Selection == SelectionSelected {
				parts = append(parts, SelectedMarker)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
