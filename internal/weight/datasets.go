package weight

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// PipeRow is one pipe-schedule weight entry.
type PipeRow struct {
	SizeIn      string
	Schedule    string
	WeightPerFt float64
	Material    string
}

// ShapeRow is one structural-shape weight entry. Material carries the full
// designator name, e.g. "W12x26 Wide Flange".
type ShapeRow struct {
	Material    string
	WeightPerFt float64
}

// SheetRow is one sheet-stock density entry.
type SheetRow struct {
	ThicknessIn    float64
	DensityLbPerI3 float64
}

// Paths locates the three reference tables on disk.
type Paths struct {
	PipeTable  string
	ShapeTable string
	SheetTable string
}

// Datasets is the injected, read-only repository of reference material data.
// Load happens exactly once; a missing file degrades that matcher only and
// never fails the load.
type Datasets struct {
	paths  Paths
	logger *slog.Logger

	once   sync.Once
	pipes  []PipeRow
	shapes []ShapeRow
	sheets []SheetRow
}

func NewDatasets(paths Paths, logger *slog.Logger) *Datasets {
	if logger == nil {
		logger = slog.Default()
	}
	return &Datasets{paths: paths, logger: logger}
}

// load reads all three tables on first use.
func (d *Datasets) load() {
	d.once.Do(func() {
		d.pipes = d.loadPipes(d.paths.PipeTable)
		d.shapes = d.loadShapes(d.paths.ShapeTable)
		d.sheets = d.loadSheets(d.paths.SheetTable)
		d.logger.Info("datasets.loaded",
			"pipes", len(d.pipes), "shapes", len(d.shapes), "sheets", len(d.sheets))
	})
}

func (d *Datasets) Pipes() []PipeRow {
	d.load()
	return d.pipes
}

func (d *Datasets) Shapes() []ShapeRow {
	d.load()
	return d.shapes
}

func (d *Datasets) Sheets() []SheetRow {
	d.load()
	return d.sheets
}

// readTable reads a CSV with a header row and returns records as column-name
// keyed maps. Column names from the header are consumed verbatim
// (lower-cased, trimmed).
func readTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (d *Datasets) loadPipes(path string) []PipeRow {
	recs, err := readTable(path)
	if err != nil {
		d.logger.Warn("datasets.pipes.unavailable", "path", path, "error", err)
		return nil
	}
	rows := make([]PipeRow, 0, len(recs))
	for _, rec := range recs {
		wpf, err := strconv.ParseFloat(rec["weight_per_ft"], 64)
		if err != nil {
			continue
		}
		rows = append(rows, PipeRow{
			SizeIn:      rec["size_in"],
			Schedule:    rec["schedule"],
			WeightPerFt: wpf,
			Material:    rec["material"],
		})
	}
	return rows
}

func (d *Datasets) loadShapes(path string) []ShapeRow {
	recs, err := readTable(path)
	if err != nil {
		d.logger.Warn("datasets.shapes.unavailable", "path", path, "error", err)
		return nil
	}
	rows := make([]ShapeRow, 0, len(recs))
	for _, rec := range recs {
		wpf, err := strconv.ParseFloat(rec["weight_per_ft"], 64)
		if err != nil {
			continue
		}
		rows = append(rows, ShapeRow{
			Material:    rec["material"],
			WeightPerFt: wpf,
		})
	}
	return rows
}

func (d *Datasets) loadSheets(path string) []SheetRow {
	recs, err := readTable(path)
	if err != nil {
		d.logger.Warn("datasets.sheets.unavailable", "path", path, "error", err)
		return nil
	}
	rows := make([]SheetRow, 0, len(recs))
	for _, rec := range recs {
		thk, err1 := strconv.ParseFloat(rec["thickness_in"], 64)
		den, err2 := strconv.ParseFloat(rec["density_lb_per_in3"], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		rows = append(rows, SheetRow{ThicknessIn: thk, DensityLbPerI3: den})
	}
	return rows
}
