package models

import (
	"time"

	"github.com/stitts-dev/golf-caddy/internal/decay"
)

// MinPatternConfidence is the decayed confidence below which a pattern is noise.
const MinPatternConfidence = 0.01

// MissPattern is an aggregated tendency to miss in one direction.
//
// BaseConfidence is the frequency ratio at LastOccurrence and never changes once produced.
// Confidence is the decayed value as of the last time it was computed (aggregation or read);
// callers comparing patterns should use DecayedConfidence with their own clock.
type MissPattern struct {
	ID              string           `json:"id"`
	Direction       MissDirection    `json:"direction"`
	Club            *Club            `json:"club,omitempty"`
	Frequency       int              `json:"frequency"`
	BaseConfidence  float64          `json:"base_confidence"`
	Confidence      float64          `json:"confidence"`
	PressureContext *PressureContext `json:"pressure_context,omitempty"`
	LastOccurrence  time.Time        `json:"last_occurrence"`
}

// NewMissPattern clamps confidence into [0,1] and rejects non-positive frequencies.
func NewMissPattern(id string, direction MissDirection, frequency int, baseConfidence float64, last time.Time, now time.Time) (MissPattern, bool) {
	if frequency <= 0 || !direction.IsMiss() {
		return MissPattern{}, false
	}
	base := clampUnit(baseConfidence)
	return MissPattern{
		ID:             id,
		Direction:      direction,
		Frequency:      frequency,
		BaseConfidence: base,
		Confidence:     decay.Since(base, last, now, decay.PatternHalfLifeDays),
		LastOccurrence: last,
	}, true
}

// DecayedConfidence ages the base confidence to now.
func (p MissPattern) DecayedConfidence(now time.Time) float64 {
	return clampUnit(decay.Since(p.BaseConfidence, p.LastOccurrence, now, decay.PatternHalfLifeDays))
}

// AsOf returns a copy whose Confidence reflects now.
func (p MissPattern) AsOf(now time.Time) MissPattern {
	p.Confidence = p.DecayedConfidence(now)
	return p
}

// IsSignificant reports whether the pattern is still above the noise floor at now.
func (p MissPattern) IsSignificant(now time.Time) bool {
	return p.DecayedConfidence(now) >= MinPatternConfidence
}

func clampUnit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
