package ocr

// BlockType mirrors the block taxonomy emitted by the OCR engine.
type BlockType string

const (
	BlockWord             BlockType = "WORD"
	BlockLine             BlockType = "LINE"
	BlockTable            BlockType = "TABLE"
	BlockCell             BlockType = "CELL"
	BlockSelectionElement BlockType = "SELECTION_ELEMENT"
)

// SelectionStatus is only meaningful on SELECTION_ELEMENT blocks.
type SelectionStatus string

const (
	SelectionSelected    SelectionStatus = "SELECTED"
	SelectionNotSelected SelectionStatus = "NOT_SELECTED"
)

// RawBlock is one node of the OCR block graph. It is owned by the OCR
// adapter and consumed read-only by the normalizer.
type RawBlock struct {
	ID         string          `json:"id"`
	Type       BlockType       `json:"type"`
	Text       string          `json:"text,omitempty"`
	Page       int             `json:"page"`
	RowIndex   int             `json:"row_index,omitempty"` // 1-based, CELL only
	ColIndex   int             `json:"col_index,omitempty"` // 1-based, CELL only
	Confidence float64         `json:"confidence"`          // 0..1
	ChildIDs   []string        `json:"child_ids,omitempty"`
	Selection  SelectionStatus `json:"selection,omitempty"`
}

// blockIndex provides id -> block lookup over one document's blocks.
type blockIndex map[string]*RawBlock

func indexBlocks(blocks []RawBlock) blockIndex {
	idx := make(blockIndex, len(blocks))
	for i := range blocks {
		if blocks[i].ID != "" {
			idx[blocks[i].ID] = &blocks[i]
		}
	}
	return idx
}
