package constants

// FieldKind labels a candidate value reported by an OCR/ML adapter prior to
// adjudication.
type FieldKind string

const (
	FieldDimValue   FieldKind = "DIM_VALUE"
	FieldUnit       FieldKind = "UNIT"
	FieldMaterial   FieldKind = "MATERIAL"
	FieldWeldSymbol FieldKind = "WELD_SYMBOL"
	FieldNote       FieldKind = "NOTE"
)

// AdapterSource identifies which adapter reported a candidate.
type AdapterSource string

const (
	SourceTextract AdapterSource = "textract"
	SourceLayout   AdapterSource = "layoutlmv3"
	SourceDonut    AdapterSource = "donut"
)

// DefaultSourcePriority is the tie-break order applied when candidates for
// the same field carry equal confidence. Earlier wins.
var DefaultSourcePriority = []AdapterSource{
	SourceTextract,
	SourceLayout,
	SourceDonut,
}
