package extract

import (
	"github.com/structcost/takeoff/internal/ocr"
)

// TitleBlock holds the drawing's metadata fields. First match wins per
// field; later matches are ignored.
type TitleBlock struct {
	Sheet    string `json:"sheet,omitempty"`
	Revision string `json:"revision,omitempty"`
	Scale    string `json:"scale,omitempty"`
}

// Features is everything the pattern battery pulled out of one document's
// text lines, plus the tables passed through untouched. Hits are the literal
// matched substrings; numeric parsing is deferred to consumers.
type Features struct {
	TitleBlock       TitleBlock  `json:"title_block"`
	Dimensions       []string    `json:"dimensions,omitempty"`
	Diameters        []string    `json:"diameters,omitempty"`
	AreaHits         []string    `json:"area_hits,omitempty"`
	PolylineHits     []string    `json:"polyline_hits,omitempty"`
	MaterialTextHits []string    `json:"material_text_hits,omitempty"`
	WeldHits         []string    `json:"weld_hits,omitempty"`
	Tables           []ocr.Table `json:"-"`
}

// HitCounts summarizes per-rule hit volume for logging.
func (f Features) HitCounts() map[string]int {
	return map[string]int{
		"dimensions": len(f.Dimensions),
		"diameters":  len(f.Diameters),
		"areas":      len(f.AreaHits),
		"linear":     len(f.PolylineHits),
		"materials":  len(f.MaterialTextHits),
		"welds":      len(f.WeldHits),
		"tables":     len(f.Tables),
	}
}
