package estimate

import (
	"context"
	"log/slog"
	"math"

	"github.com/structcost/takeoff/internal/common"
	"github.com/structcost/takeoff/internal/takeoff"
	"github.com/structcost/takeoff/internal/weight"
)

// Labor heuristic constants: a fixed setup allowance per unit plus handling
// time proportional to unit weight.
const (
	setupHours   = 0.25
	minutesPerLb = 0.8
)

// Line is one priced estimate row. All monetary and weight fields are
// rounded to 2 decimals at assignment.
type Line struct {
	Desc         string  `json:"desc"`
	Qty          float64 `json:"qty"`
	WeightLb     float64 `json:"weight_lb"`
	PricePerLb   float64 `json:"price_per_lb"`
	MaterialCost float64 `json:"material_cost"`
	LaborHours   float64 `json:"labor_hours"`
	LaborCost    float64 `json:"labor_cost"`
}

// Output is the full priced breakdown. Subtotals are the rounded sums of the
// already-rounded per-line fields, and Total is the rounded sum of the two
// subtotals.
type Output struct {
	MaterialSubtotal float64 `json:"material_subtotal"`
	LaborSubtotal    float64 `json:"labor_subtotal"`
	Total            float64 `json:"total"`
	Lines            []Line  `json:"lines"`
}

// Params are the per-run estimation knobs.
type Params struct {
	LaborRatePerHour float64
	HistoricalFactor float64 // defaults to 1.0
	Region           string
}

// Estimator combines resolved weights, quantities, the pricing provider and
// the labor heuristic into a priced estimate.
type Estimator struct {
	engine  *weight.Engine
	pricing PriceProvider
	logger  *slog.Logger
}

func NewEstimator(engine *weight.Engine, pricing PriceProvider, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{engine: engine, pricing: pricing, logger: logger}
}

// Estimate prices the given items. Items with unknown weight contribute zero
// material cost but still accrue setup labor; a pricing failure zeroes that
// one item's price and never aborts the run.
func (e *Estimator) Estimate(ctx context.Context, items []takeoff.Item, p Params) Output {
	if p.HistoricalFactor <= 0 {
		p.HistoricalFactor = 1.0
	}

	out := Output{Lines: make([]Line, 0, len(items))}
	var materialSum, laborSum float64

	for _, it := range items {
		perUnitWeight := 0.0
		if it.WeightLb != nil {
			perUnitWeight = *it.WeightLb
		} else if w, ok := e.engine.ComputeWeight(it); ok {
			perUnitWeight = w
		}

		qty := it.Qty
		if qty <= 0 {
			qty = 1
		}

		pricePerLb := 0.0
		price, err := e.pricing.GetPricePerPound(ctx, string(it.Material), p.Region)
		if err != nil {
			e.logger.Warn("estimate.pricing.failed",
				"doc_id", common.DocIDFromContext(ctx),
				"material", string(it.Material), "region", p.Region, "error", err)
		} else {
			pricePerLb = price
		}

		totalWeight := perUnitWeight * qty

		perUnitHours := setupHours + perUnitWeight*(minutesPerLb/60.0)
		if it.LaborHoursHint != nil && *it.LaborHoursHint > perUnitHours {
			perUnitHours = *it.LaborHoursHint
		}
		perUnitHours *= p.HistoricalFactor
		laborHours := perUnitHours * qty

		line := Line{
			Desc:         lineDesc(it),
			Qty:          qty,
			WeightLb:     round2(totalWeight),
			PricePerLb:   round2(pricePerLb),
			MaterialCost: round2(totalWeight * pricePerLb),
			LaborHours:   round2(laborHours),
			LaborCost:    round2(laborHours * p.LaborRatePerHour),
		}
		out.Lines = append(out.Lines, line)

		materialSum += line.MaterialCost
		laborSum += line.LaborCost
	}

	out.MaterialSubtotal = round2(materialSum)
	out.LaborSubtotal = round2(laborSum)
	out.Total = round2(out.MaterialSubtotal + out.LaborSubtotal)

	e.logger.Info("estimate.done",
		"lines", len(out.Lines),
		"material_subtotal", out.MaterialSubtotal,
		"labor_subtotal", out.LaborSubtotal,
		"total", out.Total,
	)
	return out
}

func lineDesc(it takeoff.Item) string {
	switch {
	case it.Desc != "":
		return it.Desc
	case it.Item != "":
		return it.Item
	case it.Size != "":
		return it.Size
	}
	return "unidentified item"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
