package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/adjudicate"
	"github.com/structcost/takeoff/internal/common"
	"github.com/structcost/takeoff/internal/estimate"
	"github.com/structcost/takeoff/internal/ocr"
	"github.com/structcost/takeoff/internal/pipeline"
	"github.com/structcost/takeoff/internal/takeoff"
	"github.com/structcost/takeoff/internal/weight"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		blocksPath = flag.String("blocks", "", "path to OCR blocks JSON (single-document mode)")
		xlsxPath   = flag.String("xlsx", "", "optional path to write the estimate workbook (single-document mode)")
		candsPath  = flag.String("candidates", "", "optional path to write the adjudicator candidate file (single-document mode)")
		docID      = flag.String("doc", "", "document id (defaults to a new UUID)")
		workers    = flag.Int("workers", 4, "concurrent documents in batch mode")
	)
	flag.Parse()

	paths := flag.Args()
	if *blocksPath != "" {
		paths = append([]string{*blocksPath}, paths...)
	}
	if len(paths) == 0 {
		logger.Error("usage", "cmd", "takeoff [-blocks <blocks.json>] [-xlsx out.xlsx] [-doc id] [blocks2.json ...]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	book, err := estimate.LoadPriceBook(cfg.Pricing.PriceBookPath)
	if err != nil {
		logger.Error("load price book", "path", cfg.Pricing.PriceBookPath, "error", err)
		os.Exit(1)
	}

	datasets := weight.NewDatasets(weight.Paths{
		PipeTable:  cfg.Datasets.PipeTablePath,
		ShapeTable: cfg.Datasets.ShapeTablePath,
		SheetTable: cfg.Datasets.SheetTablePath,
	}, logger)
	engine := weight.NewEngine(datasets, logger)
	builder := takeoff.NewBuilder(logger)
	estimator := estimate.NewEstimator(engine, book, logger)

	p := pipeline.NewProcessor(logger, builder, engine, estimator, estimate.Params{
		LaborRatePerHour: cfg.Pricing.LaborRatePerHour,
		HistoricalFactor: cfg.Pricing.HistoricalFactor,
		Region:           cfg.Pricing.Region,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if len(paths) == 1 {
		runSingle(ctx, logger, p, paths[0], *docID, *xlsxPath, *candsPath)
		return
	}
	runBatch(ctx, logger, p, paths, *workers)
}

func readBlocks(path string) ([]ocr.RawBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var blocks []ocr.RawBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func runSingle(ctx context.Context, logger *slog.Logger, p *pipeline.Processor, path, docID, xlsxPath, candsPath string) {
	if docID == "" {
		docID = uuid.NewString()
	}

	blocks, err := readBlocks(path)
	if err != nil {
		logger.Error("read blocks", "path", path, "error", err)
		os.Exit(1)
	}

	start := time.Now()
	res := p.ProcessBlocks(ctx, docID, blocks)
	logger.Info("pipeline done",
		"doc_id", docID,
		"items", len(res.Items),
		"total", res.Estimate.Total,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if candsPath != "" {
		af := adjudicate.AdapterFile{
			Source:     constants.SourceTextract,
			Candidates: pipeline.CandidatesFromFeatures(res.Features, 1, 0.5),
		}
		data, err := json.MarshalIndent(af, "", "  ")
		if err != nil {
			logger.Error("encode candidates", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(candsPath, data, 0o644); err != nil {
			logger.Error("write candidates", "path", candsPath, "error", err)
			os.Exit(1)
		}
		logger.Info("candidates written",
			"doc_id", docID, "path", candsPath, "count", len(af.Candidates))
	}

	if xlsxPath != "" {
		wb, err := estimate.ExportXLSX(res.Estimate, logger)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(xlsxPath, wb, 0o644); err != nil {
			logger.Error("write xlsx", "path", xlsxPath, "error", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Estimate); err != nil {
		logger.Error("encode estimate", "error", err)
		os.Exit(1)
	}
}

// batchLine is one document's summary in batch output.
type batchLine struct {
	DocID string          `json:"doc_id"`
	Items int             `json:"items"`
	Total float64         `json:"total"`
	Est   estimate.Output `json:"estimate"`
}

func runBatch(ctx context.Context, logger *slog.Logger, p *pipeline.Processor, paths []string, workers int) {
	var mu sync.Mutex
	var lines []batchLine

	q := pipeline.NewQueue(p, logger,
		pipeline.WithWorkers(workers),
		pipeline.WithResultHandler(func(job pipeline.Job, res pipeline.Result) {
			mu.Lock()
			lines = append(lines, batchLine{
				DocID: job.DocID,
				Items: len(res.Items),
				Total: res.Estimate.Total,
				Est:   res.Estimate,
			})
			mu.Unlock()
		}),
	)

	for _, path := range paths {
		blocks, err := readBlocks(path)
		if err != nil {
			logger.Error("read blocks", "path", path, "error", err)
			continue
		}
		docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := q.Enqueue(ctx, pipeline.NewJob(docID, blocks)); err != nil {
			logger.Error("enqueue", "doc_id", docID, "error", err)
		}
	}
	q.Shutdown(ctx)

	sort.Slice(lines, func(i, j int) bool { return lines[i].DocID < lines[j].DocID })
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lines); err != nil {
		logger.Error("encode batch results", "error", err)
		os.Exit(1)
	}
}
