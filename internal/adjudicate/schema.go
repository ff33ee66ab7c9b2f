package adjudicate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/structcost/takeoff/constants"
)

// BuildPayloadJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Finalized payloads are validated against it before any store
// write.
func BuildPayloadJSONSchema() map[string]any {
	fieldEnum := []string{
		string(constants.FieldDimValue),
		string(constants.FieldUnit),
		string(constants.FieldMaterial),
		string(constants.FieldWeldSymbol),
		string(constants.FieldNote),
	}

	candidate := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"field":  map[string]any{"type": "string", "enum": fieldEnum},
			"raw":    map[string]any{"type": "string"},
			"page":   map[string]any{"type": "integer", "minimum": 0},
			"conf":   map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"source": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"field", "raw", "page", "conf", "source"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"doc_id": map[string]any{"type": "string", "minLength": 1},
			"pages": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer", "minimum": 1},
			},
			"candidates": map[string]any{
				"type":  "array",
				"items": candidate,
			},
			"notes": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"doc_id", "pages", "candidates", "notes"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// MarshalPayload serializes a payload and checks it against the schema.
func MarshalPayload(p *ParsedPayload) ([]byte, error) {
	// normalize nil slices so the wire shape always carries arrays
	if p.Pages == nil {
		p.Pages = []int{}
	}
	if p.Candidates == nil {
		p.Candidates = []Candidate{}
	}
	if p.Notes == nil {
		p.Notes = []string{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildPayloadJSONSchema(), data); err != nil {
		return nil, err
	}
	return data, nil
}
