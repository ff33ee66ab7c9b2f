package constants

import (
	"strings"
)

// Material is the canonical material label carried on takeoff items and used
// as the pricing key.
type Material string

const (
	Steel     Material = "steel"
	Stainless Material = "stainless"
	Aluminum  Material = "aluminum"
	Unknown   Material = "unknown"
)

var allMaterials = []Material{
	Steel,
	Stainless,
	Aluminum,
	Unknown,
}

// CanonicalizeMaterial maps free text from a drawing onto a canonical
// material. Grade designators count as synonyms (304/316 are stainless
// grades, A36/A572/A992 are structural steel grades).
func CanonicalizeMaterial(input string) (Material, bool) {
	if input == "" {
		return Unknown, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	if m, ok := materialSynonyms[normalized]; ok {
		return m, true
	}

	for _, m := range allMaterials {
		if normalized == string(m) {
			return m, true
		}
	}

	// substring sniffing, most specific first
	switch {
	case strings.Contains(normalized, "stainless"),
		strings.Contains(normalized, "304"),
		strings.Contains(normalized, "316"):
		return Stainless, true
	case strings.Contains(normalized, "alum"):
		return Aluminum, true
	case strings.Contains(normalized, "steel"),
		strings.Contains(normalized, "a36"),
		strings.Contains(normalized, "a572"),
		strings.Contains(normalized, "a992"):
		return Steel, true
	}

	return Unknown, false
}

var materialSynonyms = map[string]Material{
	"ss":        Stainless,
	"sst":       Stainless,
	"304":       Stainless,
	"316":       Stainless,
	"304l":      Stainless,
	"316l":      Stainless,
	"alum":      Aluminum,
	"al":        Aluminum,
	"aluminium": Aluminum,
	"a36":       Steel,
	"a572":      Steel,
	"a992":      Steel,
	"cs":        Steel,
	"ms":        Steel,
}

// MaterialVocabulary is the fixed keyword list the feature extractor uses to
// flag a text line as material-bearing.
var MaterialVocabulary = []string{
	"steel",
	"stainless",
	"aluminum",
	"pipe",
	"tube",
	"plate",
	"sheet",
	"gauge",
	"schedule",
	"thickness",
}
