package adjudicate

import (
	"github.com/structcost/takeoff/constants"
)

// AdapterFile is the on-disk exchange shape one adapter emits for a single
// document: the adapter's source label plus the candidates it proposes.
type AdapterFile struct {
	Source     constants.AdapterSource `json:"source"`
	Candidates []Candidate             `json:"candidates"`
	Notes      []string                `json:"notes,omitempty"`
}

// Merge feeds the file's candidates and notes into the builder, stamping the
// file's source on every candidate.
func (f AdapterFile) Merge(b *Builder) {
	b.Add(f.Source, f.Candidates...)
	for _, n := range f.Notes {
		b.AddNote(n)
	}
}
