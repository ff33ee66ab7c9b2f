package weight

import (
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/structcost/takeoff/internal/takeoff"
)

// SteelDensityLbPerIn3 is the fallback density when the sheet table carries
// no row for the requested thickness.
const SteelDensityLbPerIn3 = 0.2836

// DefaultSheetThicknessIn is assumed when an item carries no thickness.
const DefaultSheetThicknessIn = 0.25

const sizeEpsilon = 1e-3

var (
	rePipeSize      = regexp.MustCompile(`(\d+(?:-\d+/\d+)?(?:\.\d+)?|\d+/\d+)\s*(?:"|”|in\b)?`)
	reSchedExplicit = regexp.MustCompile(`sch(?:edule)?\.?\s*(\d+)`)
	reSchedBare     = regexp.MustCompile(`\b(40|80)\b`)
	reShapeDesig    = regexp.MustCompile(`\b([wcmlh])\s?(\d+(?:\.\d+)?[x×]\d+(?:\.\d+)?(?:[x×]\d+(?:/\d+)?(?:\.\d+)?)?)\b`)
	reThickness     = regexp.MustCompile(`(\d+/\d+|\d*\.\d+)\s*(?:"|”)?\s*(?:thk|thick|pl\b|plate)`)
)

// Engine resolves a takeoff item's per-unit weight against the reference
// datasets. ComputeWeight is pure for fixed datasets: same item in, same
// result out. Quantity is never applied here; that is the estimator's job.
type Engine struct {
	datasets *Datasets
	logger   *slog.Logger
}

func NewEngine(datasets *Datasets, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{datasets: datasets, logger: logger}
}

// ComputeWeight tries the matchers in fixed priority order — pipe, shape,
// sheet — and returns the first positive, finite result. A false return
// means "unknown weight", not an error: the estimator treats such items as
// zero-weight.
func (e *Engine) ComputeWeight(it takeoff.Item) (float64, bool) {
	for _, match := range []func(takeoff.Item) (float64, bool){
		e.matchPipe,
		e.matchShape,
		e.matchSheet,
	} {
		if w, ok := match(it); ok && w > 0 && !math.IsNaN(w) && !math.IsInf(w, 0) {
			return w, true
		}
	}
	return 0, false
}

// matchPipe handles schedule pipe. Applies only when the item text mentions
// pipe or a schedule. Result is weight-per-foot times the item's length.
func (e *Engine) matchPipe(it takeoff.Item) (float64, bool) {
	text := it.SearchText()
	if !strings.Contains(text, "pipe") && !strings.Contains(text, "sch") {
		return 0, false
	}

	sched := ""
	if m := reSchedExplicit.FindStringSubmatch(text); m != nil {
		sched = m[1]
		// keep the schedule number out of the size search
		text = reSchedExplicit.ReplaceAllString(text, " ")
	} else if m := reSchedBare.FindStringSubmatch(text); m != nil {
		sched = m[1]
		text = strings.Replace(text, m[0], " ", 1)
	} else {
		sched = "40"
	}

	m := rePipeSize.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	sizeIn, ok := parseSizeInches(m[1])
	if !ok {
		return 0, false
	}

	row, found := e.lookupPipe(sizeIn, sched)
	if !found {
		return 0, false
	}
	if it.LengthFt == nil {
		return 0, false
	}
	return row.WeightPerFt * (*it.LengthFt), true
}

// lookupPipe finds the row with exactly matching size and schedule. When the
// requested schedule is 40 and no exact row exists, any row whose schedule
// text contains "40" (e.g. "STD/40") is accepted.
func (e *Engine) lookupPipe(sizeIn float64, sched string) (PipeRow, bool) {
	for _, row := range e.datasets.Pipes() {
		rowSize, ok := parseSizeInches(row.SizeIn)
		if !ok || math.Abs(rowSize-sizeIn) > sizeEpsilon {
			continue
		}
		if strings.TrimSpace(row.Schedule) == sched {
			return row, true
		}
	}
	if sched == "40" {
		for _, row := range e.datasets.Pipes() {
			rowSize, ok := parseSizeInches(row.SizeIn)
			if !ok || math.Abs(rowSize-sizeIn) > sizeEpsilon {
				continue
			}
			if strings.Contains(row.Schedule, "40") {
				return row, true
			}
		}
	}
	return PipeRow{}, false
}

// matchShape handles structural designators of the form W12x26, C8x18.75,
// L3x3x1/4 and friends. Both lookup branches return per-unit weight; the
// historical full-name branch no longer multiplies by quantity.
func (e *Engine) matchShape(it takeoff.Item) (float64, bool) {
	text := it.SearchText()
	m := reShapeDesig.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	desig := normalizeDesignator(m[1] + m[2])

	var row ShapeRow
	found := false
	for _, r := range e.datasets.Shapes() {
		if strings.Contains(normalizeDesignator(r.Material), desig) {
			row, found = r, true
			break
		}
	}
	if !found {
		// fall back to an exact full-name match, e.g. "C8x18 Channel"
		full := normalizeDesignator(it.Size)
		if full == "" {
			full = normalizeDesignator(it.Desc)
		}
		for _, r := range e.datasets.Shapes() {
			if normalizeDesignator(r.Material) == full && full != "" {
				row, found = r, true
				break
			}
		}
	}
	if !found || it.LengthFt == nil {
		return 0, false
	}
	return row.WeightPerFt * (*it.LengthFt), true
}

// matchSheet handles plate/sheet items sized in square feet. Weight comes
// out directly (no per-length semantics): sf × 144 × thickness × density.
func (e *Engine) matchSheet(it takeoff.Item) (float64, bool) {
	size := strings.ToLower(it.Size)
	if !strings.Contains(size, "sf") {
		return 0, false
	}
	areaSf, ok := takeoff.ParseNumber(it.Size)
	if !ok || areaSf <= 0 {
		return 0, false
	}

	thickness := DefaultSheetThicknessIn
	if m := reThickness.FindStringSubmatch(it.SearchText()); m != nil {
		if t, ok := takeoff.ParseInches(m[1]); ok && t > 0 {
			thickness = t
		}
	}

	density := SteelDensityLbPerIn3
	for _, row := range e.datasets.Sheets() {
		if math.Abs(row.ThicknessIn-thickness) <= sizeEpsilon {
			density = row.DensityLbPerI3
			break
		}
	}

	return areaSf * 144.0 * thickness * density, true
}

// parseSizeInches accepts decimal ("2.5") and mixed-fraction ("1-1/2",
// "3/4") size tokens.
func parseSizeInches(s string) (float64, bool) {
	return takeoff.ParseInches(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

var reDesigStrip = regexp.MustCompile(`[^a-z0-9/.x]+`)

func normalizeDesignator(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "×", "x")
	return reDesigStrip.ReplaceAllString(s, "")
}
