package pipeline

import (
	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/adjudicate"
	"github.com/structcost/takeoff/internal/extract"
)

// CandidatesFromFeatures converts one extraction run into labeled candidate
// fields for the adjudicator. The text-rule extractor reports with moderate
// confidence; ML adapters feed the same builder with their own scores.
func CandidatesFromFeatures(f extract.Features, page int, confidence float64) []adjudicate.Candidate {
	if confidence <= 0 || confidence > 1 {
		confidence = 0.5
	}

	var out []adjudicate.Candidate
	add := func(field constants.FieldKind, hits []string) {
		for _, raw := range hits {
			out = append(out, adjudicate.Candidate{
				Field:      field,
				Raw:        raw,
				Page:       page,
				Confidence: confidence,
			})
		}
	}

	add(constants.FieldDimValue, f.Dimensions)
	add(constants.FieldDimValue, f.Diameters)
	add(constants.FieldMaterial, f.MaterialTextHits)
	add(constants.FieldWeldSymbol, f.WeldHits)
	return out
}
