package pipeline

import (
	"context"
	"log/slog"

	"github.com/structcost/takeoff/internal/common"
	"github.com/structcost/takeoff/internal/estimate"
	"github.com/structcost/takeoff/internal/extract"
	"github.com/structcost/takeoff/internal/ocr"
	"github.com/structcost/takeoff/internal/takeoff"
	"github.com/structcost/takeoff/internal/weight"
)

// Result bundles everything one document run produced.
type Result struct {
	Features extract.Features
	Items    []takeoff.Item
	Estimate estimate.Output
}

// Processor coordinates the per-document pipeline: normalize blocks, extract
// features, build the takeoff, resolve weights, price the estimate. Each
// stage is a pure transformation, so independent documents can run on
// concurrent goroutines against the same Processor.
type Processor struct {
	Logger    *slog.Logger
	Builder   *takeoff.Builder
	Engine    *weight.Engine
	Estimator *estimate.Estimator
	Params    estimate.Params
}

func NewProcessor(logger *slog.Logger, builder *takeoff.Builder, engine *weight.Engine, estimator *estimate.Estimator, params estimate.Params) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Builder:   builder,
		Engine:    engine,
		Estimator: estimator,
		Params:    params,
	}
}

// ProcessBlocks runs the full pipeline over one document's OCR blocks.
// Missing input degrades to an empty estimate; it never fails the document.
func (p *Processor) ProcessBlocks(ctx context.Context, docID string, blocks []ocr.RawBlock) Result {
	ctx = common.WithDocID(ctx, docID)

	doc := ocr.Normalize(blocks)
	p.Logger.Info("processor.normalize.ok",
		"doc_id", docID, "request_id", common.RequestIDFromContext(ctx),
		"lines", len(doc.Lines), "tables", len(doc.Tables))

	features := extract.Extract(doc)
	p.Logger.Info("processor.extract.ok", "doc_id", docID, "hits", features.HitCounts())

	items := p.Builder.Build(features)
	for i := range items {
		if items[i].WeightLb != nil {
			continue
		}
		if w, ok := p.Engine.ComputeWeight(items[i]); ok {
			items[i].WeightLb = &w
		}
	}
	p.Logger.Info("processor.takeoff.ok", "doc_id", docID, "items", len(items))

	out := p.Estimator.Estimate(ctx, items, p.Params)
	p.Logger.Info("processor.estimate.ok",
		"doc_id", docID, "lines", len(out.Lines), "total", out.Total)

	return Result{Features: features, Items: items, Estimate: out}
}
