package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOPS(t *testing.T) {
	tests := []struct {
		obp, slg, want float64
	}{
		{0.380, 0.552, 0.932},
		{0, 0, 0},
		{1, 1, 2},
		{0.333, 0.333, 0.666},
		{0.1, 0.2, 0.3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeOPS(tt.obp, tt.slg), "obp=%v slg=%v", tt.obp, tt.slg)
	}
}

func TestApplyRecomputesOPS(t *testing.T) {
	r := &PlayerRecord{ID: "p1", OwnerID: "a1", OPS: 9.999}
	r.Apply(PlayerStats{Name: "Ortiz", Position: PositionDesignatedHitter, AVG: 0.285, OBP: 0.380, SLG: 0.552})

	assert.Equal(t, 0.932, r.OPS)
	assert.Equal(t, PlayerRecordID("p1"), r.ID)
	assert.Equal(t, AccountID("a1"), r.OwnerID)
}

func TestParsePosition(t *testing.T) {
	p, ok := ParsePosition("cf")
	assert.True(t, ok)
	assert.Equal(t, PositionCenterField, p)

	_, ok = ParsePosition("OF")
	assert.False(t, ok)
}
