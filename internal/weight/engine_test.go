package weight

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structcost/takeoff/internal/takeoff"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		PipeTable: writeCSV(t, dir, "pipes.csv",
			"size_in,schedule,weight_per_ft,material\n"+
				"1-1/2,40,2.72,steel\n"+
				"2,40,3.65,steel\n"+
				"2,80,5.02,steel\n"+
				"3,STD/40,7.58,steel\n"),
		ShapeTable: writeCSV(t, dir, "shapes.csv",
			"material,weight_per_ft\n"+
				"W12x26 Wide Flange,26\n"+
				"C8x18.75 Channel,18.75\n"+
				"L3x3x1/4 Angle,4.9\n"),
		SheetTable: writeCSV(t, dir, "sheets.csv",
			"thickness_in,density_lb_per_in3\n"+
				"0.25,0.2836\n"+
				"0.5,0.2836\n"),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(NewDatasets(paths, logger), logger)
}

func ftPtr(v float64) *float64 { return &v }

func TestComputeWeightPipeExplicitSchedule(t *testing.T) {
	e := newTestEngine(t)

	w, ok := e.ComputeWeight(takeoff.Item{Desc: `2" SCH 40 PIPE`, LengthFt: ftPtr(12)})
	require.True(t, ok)
	assert.InDelta(t, 43.8, w, 1e-9)

	w, ok = e.ComputeWeight(takeoff.Item{Desc: "2 in SCHEDULE 80 PIPE", LengthFt: ftPtr(10)})
	require.True(t, ok)
	assert.InDelta(t, 50.2, w, 1e-9)
}

func TestComputeWeightPipeDefaultsToSchedule40(t *testing.T) {
	e := newTestEngine(t)
	w, ok := e.ComputeWeight(takeoff.Item{
		Desc:     "PIPE HANDRAIL",
		Size:     `1-1/2"`,
		LengthFt: ftPtr(10),
	})
	require.True(t, ok)
	assert.InDelta(t, 27.2, w, 1e-9)
}

func TestComputeWeightPipeMatchesCombinedScheduleLabel(t *testing.T) {
	e := newTestEngine(t)
	// no exact "40" row for 3"; the STD/40 row is accepted for schedule 40
	w, ok := e.ComputeWeight(takeoff.Item{Desc: `3" PIPE`, LengthFt: ftPtr(2)})
	require.True(t, ok)
	assert.InDelta(t, 15.16, w, 1e-9)
}

func TestComputeWeightPipeWithoutLengthIsUnknown(t *testing.T) {
	e := newTestEngine(t)
	_, ok := e.ComputeWeight(takeoff.Item{Desc: `2" SCH 40 PIPE`})
	assert.False(t, ok)
}

func TestComputeWeightShapeDesignator(t *testing.T) {
	e := newTestEngine(t)

	w, ok := e.ComputeWeight(takeoff.Item{Desc: "W12x26 BEAM", LengthFt: ftPtr(12.5)})
	require.True(t, ok)
	assert.InDelta(t, 325.0, w, 1e-9)

	w, ok = e.ComputeWeight(takeoff.Item{Size: "L3x3x1/4", LengthFt: ftPtr(10)})
	require.True(t, ok)
	assert.InDelta(t, 49.0, w, 1e-9)
}

func TestComputeWeightShapeIsPerUnit(t *testing.T) {
	e := newTestEngine(t)
	base := takeoff.Item{Desc: "W12x26 BEAM", LengthFt: ftPtr(12.5)}

	single := base
	single.Qty = 1
	bulk := base
	bulk.Qty = 4

	w1, ok1 := e.ComputeWeight(single)
	w4, ok4 := e.ComputeWeight(bulk)
	require.True(t, ok1)
	require.True(t, ok4)
	assert.Equal(t, w1, w4, "quantity must not leak into per-unit weight")
}

func TestComputeWeightSheetDefaults(t *testing.T) {
	e := newTestEngine(t)
	w, ok := e.ComputeWeight(takeoff.Item{Desc: "Plate area 197.07 sf", Size: "197.07 sf"})
	require.True(t, ok)
	assert.InDelta(t, 197.07*144.0*DefaultSheetThicknessIn*SteelDensityLbPerIn3, w, 1e-6)
}

func TestComputeWeightSheetReadsThicknessCallout(t *testing.T) {
	e := newTestEngine(t)
	w, ok := e.ComputeWeight(takeoff.Item{Desc: `1/2" THK PLATE`, Size: "10 sf"})
	require.True(t, ok)
	assert.InDelta(t, 10*144.0*0.5*0.2836, w, 1e-9)
}

func TestComputeWeightUnknownItem(t *testing.T) {
	e := newTestEngine(t)
	w, ok := e.ComputeWeight(takeoff.Item{Desc: "MISC BRACKET", Qty: 3})
	assert.False(t, ok)
	assert.Zero(t, w)
}

func TestComputeWeightIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	it := takeoff.Item{Desc: `2" SCH 40 PIPE`, LengthFt: ftPtr(12)}
	w1, _ := e.ComputeWeight(it)
	w2, _ := e.ComputeWeight(it)
	assert.Equal(t, w1, w2)
}

func TestMissingDatasetFilesDegradeNotFail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewEngine(NewDatasets(Paths{
		PipeTable:  "/nonexistent/pipes.csv",
		ShapeTable: "/nonexistent/shapes.csv",
		SheetTable: "/nonexistent/sheets.csv",
	}, logger), logger)

	// pipe and shape matchers go dark without their tables
	_, ok := e.ComputeWeight(takeoff.Item{Desc: `2" SCH 40 PIPE`, LengthFt: ftPtr(12)})
	assert.False(t, ok)
	_, ok = e.ComputeWeight(takeoff.Item{Desc: "W12x26 BEAM", LengthFt: ftPtr(10)})
	assert.False(t, ok)

	// the sheet matcher still works off its built-in constants
	w, ok := e.ComputeWeight(takeoff.Item{Size: "50 sf"})
	require.True(t, ok)
	assert.InDelta(t, 50*144.0*DefaultSheetThicknessIn*SteelDensityLbPerIn3, w, 1e-6)
}
