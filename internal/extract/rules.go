package extract

import (
	"regexp"
	"strings"

	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/ocr"
)

// The battery of pattern rules. Each rule matches independently; the rules
// are not mutually exclusive and none of them can fail — no hits means an
// empty collection.
var (
	// 12, 12.5, 1-1/2, 3/4 followed by a unit token or tick mark
	reDimension = regexp.MustCompile(`(?i)\b\d+(?:\s*-\s*\d+/\d+|\s+\d+/\d+|/\d+|\.\d+)?\s*(?:mm\b|cm\b|in\b|ft\b|"|”|')`)

	// Ø12.5", ⌀ 3/4, dia. 2 in
	reDiameter = regexp.MustCompile(`(?i)(?:[Ø⌀∅φ]|\bdia\.?)\s*\d+(?:\s*-\s*\d+/\d+|\s+\d+/\d+|/\d+|\.\d+)?\s*(?:mm\b|cm\b|in\b|ft\b|"|”|')?`)

	// 197.07 sf, 12 sq ft
	reArea = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:sf\b|sq\.?\s*ft\b)`)

	// 12'-6", 8' 0" foot-and-inch notation, or an explicit lf / lin ft suffix
	reFeetInches = regexp.MustCompile(`\b\d+'\s*-?\s*\d+(?:\s*\d+/\d+)?\s*(?:"|”)`)
	reLinear     = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:lf\b|lin\.?\s*ft\b)`)

	reSheetLabel = regexp.MustCompile(`(?i)\bSHEET\s*(?:NO\.?|#|:)?\s*([A-Za-z0-9.\-]+)`)
	reRevLabel   = regexp.MustCompile(`(?i)\bREV(?:ISION)?\s*[:#.]?\s*([A-Za-z0-9.\-]+)`)
	reScaleLabel = regexp.MustCompile(`(?i)\bSCALE\s*[:=]?\s*(\S+(?:\s*=\s*\S+)?)`)
)

// weldTokens flags probable weld callouts for the adjudicator feed.
var weldTokens = []string{"WELD", "FIL", "CJP", "PJP", "SEAM", "△", "▲"}

// digitNormalizer folds unicode sub/superscript digits into plain ASCII so
// the numeric rules see them.
var digitNormalizer = strings.NewReplacer(
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
)

// NormalizeDigits replaces unicode numerals with their ASCII equivalents.
func NormalizeDigits(s string) string {
	return digitNormalizer.Replace(s)
}

// Extract runs the full rule battery over the normalized document and
// returns the collected features. Absence of any pattern is not an error.
func Extract(doc ocr.Document) Features {
	lines := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = NormalizeDigits(l)
	}
	joined := strings.Join(lines, "\n")

	f := Features{
		Dimensions: reDimension.FindAllString(joined, -1),
		Diameters:  reDiameter.FindAllString(joined, -1),
		AreaHits:   reArea.FindAllString(joined, -1),
		Tables:     doc.Tables,
	}

	f.PolylineHits = append(f.PolylineHits, reFeetInches.FindAllString(joined, -1)...)
	f.PolylineHits = append(f.PolylineHits, reLinear.FindAllString(joined, -1)...)

	for _, line := range lines {
		if containsMaterialKeyword(line) {
			f.MaterialTextHits = append(f.MaterialTextHits, line)
		}
		if hit, ok := weldHit(line); ok {
			f.WeldHits = append(f.WeldHits, hit)
		}
		fillTitleBlock(&f.TitleBlock, line)
	}

	return f
}

func containsMaterialKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range constants.MaterialVocabulary {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func weldHit(line string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, tok := range weldTokens {
		if len(tok) <= 3 {
			// short tokens must stand alone to avoid matching inside words
			for _, word := range strings.Fields(upper) {
				if word == tok {
					return line, true
				}
			}
			continue
		}
		if strings.Contains(upper, tok) {
			return line, true
		}
	}
	return "", false
}

// fillTitleBlock populates empty title-block fields from a line. First match
// wins per field.
func fillTitleBlock(tb *TitleBlock, line string) {
	if tb.Sheet == "" {
		if m := reSheetLabel.FindStringSubmatch(line); m != nil {
			tb.Sheet = strings.TrimSpace(m[1])
		}
	}
	if tb.Revision == "" {
		if m := reRevLabel.FindStringSubmatch(line); m != nil {
			tb.Revision = strings.TrimSpace(m[1])
		}
	}
	if tb.Scale == "" {
		if m := reScaleLabel.FindStringSubmatch(line); m != nil {
			tb.Scale = strings.TrimSpace(m[1])
		}
	}
}
