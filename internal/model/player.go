package model

import (
	"strings"
	"time"
)

// PlayerRecordID uniquely identifies a tracked player record
type PlayerRecordID string

// Position is a fielding position
type Position string

const (
	PositionCatcher          Position = "C"
	PositionFirstBase        Position = "1B"
	PositionSecondBase       Position = "2B"
	PositionThirdBase        Position = "3B"
	PositionShortstop        Position = "SS"
	PositionLeftField        Position = "LF"
	PositionCenterField      Position = "CF"
	PositionRightField       Position = "RF"
	PositionDesignatedHitter Position = "DH"
	PositionPitcher          Position = "P"
)

var positions = []Position{
	PositionCatcher,
	PositionFirstBase,
	PositionSecondBase,
	PositionThirdBase,
	PositionShortstop,
	PositionLeftField,
	PositionCenterField,
	PositionRightField,
	PositionDesignatedHitter,
	PositionPitcher,
}

// Positions returns every valid position in display order
func Positions() []Position {
	out := make([]Position, len(positions))
	copy(out, positions)
	return out
}

// ParsePosition normalizes s (trimmed, upper-cased) and reports whether it
// names a valid position
func ParsePosition(s string) (Position, bool) {
	candidate := Position(strings.ToUpper(strings.TrimSpace(s)))
	for _, p := range positions {
		if p == candidate {
			return p, true
		}
	}
	return "", false
}

// PlayerRecord is one tracked player's batting statistics, owned by an account
type PlayerRecord struct {
	ID        PlayerRecordID `json:"id"`
	OwnerID   AccountID      `json:"userId"`
	Name      string         `json:"name"`
	Position  Position       `json:"position"`
	AVG       float64        `json:"avg"`
	OBP       float64        `json:"obp"`
	SLG       float64        `json:"slg"`
	OPS       float64        `json:"ops"` // always ComputeOPS(OBP, SLG)
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// Apply replaces the record's stat fields with validated stats and
// recomputes OPS. Identity, owner and timestamps are left alone.
func (r *PlayerRecord) Apply(stats PlayerStats) {
	r.Name = stats.Name
	r.Position = stats.Position
	r.AVG = stats.AVG
	r.OBP = stats.OBP
	r.SLG = stats.SLG
	r.OPS = ComputeOPS(stats.OBP, stats.SLG)
}

// Clone returns a deep copy of the record
func (r *PlayerRecord) Clone() *PlayerRecord {
	c := *r
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
