package adjudicate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structcost/takeoff/constants"
)

func TestAdapterFileMerge(t *testing.T) {
	var textractFile, layoutFile AdapterFile
	require.NoError(t, json.Unmarshal([]byte(`{
		"source": "textract",
		"candidates": [
			{"field":"DIM_VALUE","raw":"12\"","page":1,"conf":0.5},
			{"field":"MATERIAL","raw":"ALL MEMBERS A36 STEEL U.N.O.","page":1,"conf":0.5}
		],
		"notes": ["rule extraction"]
	}`), &textractFile))
	require.NoError(t, json.Unmarshal([]byte(`{
		"source": "layoutlmv3",
		"candidates": [
			{"field":"DIM_VALUE","raw":"12\"","page":1,"conf":0.9}
		]
	}`), &layoutFile))

	b := NewBuilder("doc-1", nil)
	textractFile.Merge(b)
	layoutFile.Merge(b)
	p := b.Finalize()

	require.Len(t, p.Candidates, 3)
	assert.Equal(t, constants.SourceTextract, p.Candidates[0].Source)
	assert.Equal(t, constants.SourceLayout, p.Candidates[2].Source)
	assert.Equal(t, []int{1}, p.Pages)
	assert.Equal(t, []string{"rule extraction"}, p.Notes)

	best, ok := p.Best(constants.FieldDimValue, nil)
	require.True(t, ok)
	assert.Equal(t, constants.SourceLayout, best.Source, "higher confidence wins across files")
}

func TestAdapterFileRoundTrip(t *testing.T) {
	af := AdapterFile{
		Source: constants.SourceDonut,
		Candidates: []Candidate{
			{Field: constants.FieldWeldSymbol, Raw: "CJP AT SPLICE", Page: 2, Confidence: 0.6},
		},
	}
	data, err := json.Marshal(af)
	require.NoError(t, err)

	var decoded AdapterFile
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, af, decoded)
}
