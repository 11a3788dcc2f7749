package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Draft field names, as they appear on the wire
const (
	FieldName     = "name"
	FieldPosition = "position"
	FieldAVG      = "avg"
	FieldOBP      = "obp"
	FieldSLG      = "slg"
)

// PlayerDraft is the raw, unvalidated input for creating or updating a
// player record. Numeric fields hold the caller's text verbatim.
type PlayerDraft struct {
	Name     string
	Position string
	AVG      string
	OBP      string
	SLG      string
}

// PlayerStats is a validated draft
type PlayerStats struct {
	Name     string
	Position Position
	AVG      float64
	OBP      float64
	SLG      float64
}

// ValidationError names every offending draft field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the draft and returns the parsed stats. Rates are rounded
// to three decimal places after the range check.
func (d PlayerDraft) Validate() (PlayerStats, error) {
	fields := make(map[string]string)
	var stats PlayerStats

	stats.Name = strings.TrimSpace(d.Name)
	if stats.Name == "" {
		fields[FieldName] = "is required"
	}

	if pos, ok := ParsePosition(d.Position); ok {
		stats.Position = pos
	} else if strings.TrimSpace(d.Position) == "" {
		fields[FieldPosition] = "is required"
	} else {
		fields[FieldPosition] = "must be one of C, 1B, 2B, 3B, SS, LF, CF, RF, DH, P"
	}

	stats.AVG = parseRate(d.AVG, FieldAVG, fields)
	stats.OBP = parseRate(d.OBP, FieldOBP, fields)
	stats.SLG = parseRate(d.SLG, FieldSLG, fields)

	if len(fields) > 0 {
		return PlayerStats{}, &ValidationError{Fields: fields}
	}
	return stats, nil
}

func parseRate(raw, field string, fields map[string]string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fields[field] = "is required"
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		fields[field] = "must be a number"
		return 0
	}
	if v < 0 || v > 1 {
		fields[field] = "must be between 0.000 and 1.000"
		return 0
	}
	return RoundRate(v)
}
