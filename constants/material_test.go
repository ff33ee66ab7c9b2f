package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeMaterial(t *testing.T) {
	tests := []struct {
		in   string
		want Material
		ok   bool
	}{
		{"steel", Steel, true},
		{"A36", Steel, true},
		{"a992", Steel, true},
		{"CS", Steel, true},
		{"SS", Stainless, true},
		{"304L", Stainless, true},
		{"TYPE 316 SST", Stainless, true},
		{"alum", Aluminum, true},
		{"ALUMINIUM", Aluminum, true},
		{"6061 aluminum plate", Aluminum, true},
		{"ALL MEMBERS A36 STEEL U.N.O.", Steel, true},
		{"rubber", Unknown, false},
		{"", Unknown, false},
	}
	for _, tc := range tests {
		got, ok := CanonicalizeMaterial(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
	}
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusQueued.Terminal())
	assert.False(t, JobStatusRunning.Terminal())
	assert.True(t, JobStatusSucceeded.Terminal())
	assert.True(t, JobStatusPartial.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
	assert.False(t, JobStatus("BOGUS").Terminal())
}
