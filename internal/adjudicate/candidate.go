package adjudicate

import (
	"fmt"
	"sort"

	"github.com/structcost/takeoff/constants"
)

// Candidate is one adapter's labeled guess at a field value, prior to
// adjudication.
type Candidate struct {
	Field      constants.FieldKind     `json:"field"`
	Raw        string                  `json:"raw"`
	Page       int                     `json:"page"`
	Confidence float64                 `json:"conf"`
	Source     constants.AdapterSource `json:"source"`
}

// ParsedPayload is the canonical merged payload for one document, persisted
// as an immutable snapshot once finalized.
type ParsedPayload struct {
	DocID      string      `json:"doc_id"`
	Pages      []int       `json:"pages"`
	Candidates []Candidate `json:"candidates"`
	Notes      []string    `json:"notes"`
}

// Builder accumulates candidates from multiple adapters for a single
// document id. Candidates keep append order; pages come out sorted and
// distinct at finalize. Finalize materializes exactly once — later calls
// return the same snapshot.
type Builder struct {
	docID          string
	sourcePriority map[constants.AdapterSource]int
	candidates     []Candidate
	pages          map[int]struct{}
	notes          []string
	snapshot       *ParsedPayload
}

// NewBuilder creates an empty payload builder. sourcePriority fixes the
// confidence tie-break order; nil means constants.DefaultSourcePriority.
func NewBuilder(docID string, sourcePriority []constants.AdapterSource) *Builder {
	if len(sourcePriority) == 0 {
		sourcePriority = constants.DefaultSourcePriority
	}
	prio := make(map[constants.AdapterSource]int, len(sourcePriority))
	for i, s := range sourcePriority {
		prio[s] = i
	}
	return &Builder{
		docID:          docID,
		sourcePriority: prio,
		pages:          make(map[int]struct{}),
	}
}

// Add appends one adapter call's candidates. Confidence is clamped to
// [0,1]; a candidate with a negative page is dropped with a note rather
// than corrupting the page set.
func (b *Builder) Add(source constants.AdapterSource, candidates ...Candidate) {
	if b.snapshot != nil {
		b.notes = append(b.notes, fmt.Sprintf("add after finalize ignored: %s", source))
		return
	}
	for _, c := range candidates {
		c.Source = source
		if c.Page < 0 {
			b.notes = append(b.notes, fmt.Sprintf("dropped %s candidate with negative page %d", c.Field, c.Page))
			continue
		}
		if c.Confidence < 0 {
			c.Confidence = 0
		}
		if c.Confidence > 1 {
			c.Confidence = 1
		}
		b.candidates = append(b.candidates, c)
		if c.Page > 0 {
			b.pages[c.Page] = struct{}{}
		}
	}
}

// AddNote records free-form provenance for downstream consumers.
func (b *Builder) AddNote(note string) {
	if b.snapshot != nil {
		return
	}
	b.notes = append(b.notes, note)
}

// Finalize materializes the immutable payload snapshot.
func (b *Builder) Finalize() *ParsedPayload {
	if b.snapshot != nil {
		return b.snapshot
	}

	pages := make([]int, 0, len(b.pages))
	for p := range b.pages {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	candidates := make([]Candidate, len(b.candidates))
	copy(candidates, b.candidates)
	notes := make([]string, len(b.notes))
	copy(notes, b.notes)

	b.snapshot = &ParsedPayload{
		DocID:      b.docID,
		Pages:      pages,
		Candidates: candidates,
		Notes:      notes,
	}
	return b.snapshot
}

// Best returns the winning candidate for a field: highest confidence first,
// then earlier source in the priority order, then earlier append order.
func (p *ParsedPayload) Best(field constants.FieldKind, sourcePriority []constants.AdapterSource) (Candidate, bool) {
	if len(sourcePriority) == 0 {
		sourcePriority = constants.DefaultSourcePriority
	}
	prio := make(map[constants.AdapterSource]int, len(sourcePriority))
	for i, s := range sourcePriority {
		prio[s] = i
	}
	rank := func(s constants.AdapterSource) int {
		if r, ok := prio[s]; ok {
			return r
		}
		return len(prio)
	}

	var best Candidate
	found := false
	for _, c := range p.Candidates {
		if c.Field != field {
			continue
		}
		if !found {
			best, found = c, true
			continue
		}
		if c.Confidence > best.Confidence {
			best = c
			continue
		}
		if c.Confidence == best.Confidence && rank(c.Source) < rank(best.Source) {
			best = c
		}
	}
	return best, found
}
