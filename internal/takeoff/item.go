package takeoff

import (
	"strings"

	"github.com/structcost/takeoff/constants"
)

// Item is one normalized takeoff line. String fields use "" for absent;
// numeric optionals are nil pointers so "unknown" never collapses to zero.
// Qty defaults to 1 at construction. WeightLb and LaborHoursHint are filled
// in by later stages.
type Item struct {
	Item           string             `json:"item,omitempty"`
	Desc           string             `json:"desc,omitempty"`
	Qty            float64            `json:"qty"`
	Material       constants.Material `json:"material,omitempty"`
	Size           string             `json:"size,omitempty"`
	LengthFt       *float64           `json:"length_ft,omitempty"`
	WeightLb       *float64           `json:"weight_lb,omitempty"`
	LaborHoursHint *float64           `json:"labor_hours_hint,omitempty"`
}

// SearchText is the combined text the weight matchers scan.
func (it Item) SearchText() string {
	return strings.ToLower(strings.TrimSpace(it.Item + " " + it.Desc + " " + string(it.Material) + " " + it.Size))
}
