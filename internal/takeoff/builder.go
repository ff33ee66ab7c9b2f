package takeoff

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/extract"
	"github.com/structcost/takeoff/internal/ocr"
)

// columnKind is one of the semantic columns a BOM header can declare.
type columnKind int

const (
	colItem columnKind = iota
	colQty
	colDesc
	colMaterial
	colSize
	colLength
	colWeight
)

// headerSynonyms maps each column kind to the header spellings seen in
// drawing BOM tables. A cell matches a kind when its normalized text equals
// a synonym or starts with the synonym plus a space.
var headerSynonyms = map[columnKind][]string{
	colItem:     {"item", "mark", "tag", "piece", "pc", "part no", "id"},
	colQty:      {"qty", "quantity", "pcs", "count", "ea"},
	colDesc:     {"description", "desc", "member", "part", "remarks"},
	colMaterial: {"material", "matl", "mat", "grade", "spec"},
	colSize:     {"size", "profile", "section", "shape", "dim", "dimensions"},
	colLength:   {"length", "len", "lgth", "lf"},
	colWeight:   {"weight", "wt", "wgt", "lbs", "unit weight"},
}

// kindOrder fixes the match precedence so ambiguous header text ("part no"
// is both an item synonym and a desc prefix) resolves the same way every
// run.
var kindOrder = []columnKind{colItem, colQty, colDesc, colMaterial, colSize, colLength, colWeight}

var (
	reSymbols = regexp.MustCompile(`[^a-z0-9/ ]+`)
	reSpaces  = regexp.MustCompile(`\s+`)

	// size-shaped substrings used for backfill from descriptions
	reSizeNxM   = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:/\d+)?\s*[x×]\s*\d+(?:\.\d+)?(?:/\d+)?(?:\s*[x×]\s*\d+(?:\.\d+)?(?:/\d+)?)?\b`)
	reSizeShape = regexp.MustCompile(`(?i)\b[WCMLH]\s?\d+(?:\.\d+)?[x×]\d+(?:\.\d+)?(?:[x×]\d+(?:/\d+)?)?\b`)
	reSizeSched = regexp.MustCompile(`(?i)\bSCH(?:EDULE)?\.?\s*\d+\b`)
)

// normalizeCell lower-cases, strips symbols, and collapses whitespace.
func normalizeCell(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = reSymbols.ReplaceAllString(s, " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// matchKind reports which column kind a header cell declares, if any.
func matchKind(cell string) (columnKind, bool) {
	norm := normalizeCell(cell)
	if norm == "" {
		return 0, false
	}
	for _, kind := range kindOrder {
		for _, syn := range headerSynonyms[kind] {
			if norm == syn || strings.HasPrefix(norm, syn+" ") {
				return kind, true
			}
		}
	}
	return 0, false
}

// matchesAnyHeader reports whether a cell looks like header text of any kind.
// Used to skip repeated header rows inside the data region.
func matchesAnyHeader(cell string) bool {
	_, ok := matchKind(cell)
	return ok
}

// headerMap records, for one detected header row, which column index serves
// each semantic kind.
type headerMap struct {
	rowIdx int
	cols   map[columnKind]int
}

// detectHeader scores every row of a table and returns the best header row.
// A row qualifies when it matches at least two distinct column kinds; ties
// go to the earliest row (later rows replace only on strict improvement).
func detectHeader(t ocr.Table) (headerMap, bool) {
	best := headerMap{rowIdx: -1}
	bestScore := 0
	for r, row := range t.Rows {
		cols := make(map[columnKind]int)
		for c, cell := range row {
			kind, ok := matchKind(cell)
			if !ok {
				continue
			}
			if _, taken := cols[kind]; !taken {
				cols[kind] = c
			}
		}
		if len(cols) >= 2 && len(cols) > bestScore {
			bestScore = len(cols)
			best = headerMap{rowIdx: r, cols: cols}
		}
	}
	return best, best.rowIdx >= 0
}

// Builder converts extracted tables (or, failing that, measurement hints)
// into normalized takeoff items.
type Builder struct {
	logger *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger}
}

// Build runs the primary table path; only when it yields zero items does it
// fall back to the area/linear measurement hints.
func (b *Builder) Build(f extract.Features) []Item {
	items := b.fromTables(f.Tables)
	if len(items) > 0 {
		b.logger.Info("takeoff.build.tables", "items", len(items), "tables", len(f.Tables))
		return items
	}

	items = b.fromMeasurements(f)
	b.logger.Info("takeoff.build.fallback", "items", len(items),
		"areas", len(f.AreaHits), "linear", len(f.PolylineHits))
	return items
}

func (b *Builder) fromTables(tables []ocr.Table) []Item {
	var items []Item
	for _, t := range tables {
		hdr, ok := detectHeader(t)
		if !ok {
			continue
		}
		for r := hdr.rowIdx + 1; r < len(t.Rows); r++ {
			row := t.Rows[r]
			if rowBlank(row) || rowRepeatsHeader(row) {
				continue
			}
			items = append(items, parseRow(row, hdr))
		}
	}
	return items
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowRepeatsHeader is true when every non-empty cell reads as header text.
func rowRepeatsHeader(row []string) bool {
	any := false
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		any = true
		if !matchesAnyHeader(cell) {
			return false
		}
	}
	return any
}

func parseRow(row []string, hdr headerMap) Item {
	cell := func(kind columnKind) string {
		c, ok := hdr.cols[kind]
		if !ok || c >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[c])
	}

	it := Item{
		Item: cell(colItem),
		Desc: cell(colDesc),
		Size: cell(colSize),
		Qty:  1,
	}

	if qty, ok := ParseNumber(cell(colQty)); ok && qty > 0 {
		it.Qty = qty
	}
	if raw := cell(colMaterial); raw != "" {
		if m, ok := constants.CanonicalizeMaterial(raw); ok {
			it.Material = m
		} else {
			it.Material = constants.Material(strings.ToLower(raw))
		}
	}
	if raw := cell(colLength); raw != "" {
		if ft, ok := ParseFeetInches(raw); ok {
			it.LengthFt = &ft
		}
	}
	if raw := cell(colWeight); raw != "" {
		if wt, ok := ParseNumber(raw); ok {
			it.WeightLb = &wt
		}
	}

	backfill(&it)
	return it
}

// backfill infers material and size from the description when the table did
// not carry dedicated columns for them.
func backfill(it *Item) {
	if it.Material == "" && it.Desc != "" {
		if m, ok := constants.CanonicalizeMaterial(it.Desc); ok {
			it.Material = m
		}
	}
	if it.Size == "" && it.Desc != "" {
		for _, re := range []*regexp.Regexp{reSizeShape, reSizeNxM, reSizeSched} {
			if m := re.FindString(it.Desc); m != "" {
				it.Size = m
				break
			}
		}
	}
}

// fromMeasurements is the fallback path: one plate item per area hit, one
// linear member per linear hit, everything defaulted to steel with qty 1.
func (b *Builder) fromMeasurements(f extract.Features) []Item {
	var items []Item
	for _, hit := range f.AreaHits {
		area, ok := ParseNumber(hit)
		if !ok {
			continue
		}
		items = append(items, Item{
			Desc:     "Plate area " + hit,
			Qty:      1,
			Material: constants.Steel,
			Size:     fmt.Sprintf("%g sf", area),
		})
	}
	for _, hit := range f.PolylineHits {
		ft, ok := ParseFeetInches(hit)
		if !ok {
			continue
		}
		lengthFt := ft
		items = append(items, Item{
			Desc:     "Linear member " + hit,
			Qty:      1,
			Material: constants.Steel,
			LengthFt: &lengthFt,
		})
	}
	return items
}
