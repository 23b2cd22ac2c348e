// Package decay implements exponential half-life decay used to age pattern confidence.
package decay

import (
	"math"
	"time"
)

// PatternHalfLifeDays is the half-life applied to miss pattern confidence.
const PatternHalfLifeDays = 14.0

// Decay returns base * 0.5^(elapsedDays/halfLifeDays).
//
// Negative elapsed time (a timestamp after "now") is treated as zero so the result never
// exceeds base. A non-positive or NaN half-life disables decay and returns base unchanged.
func Decay(base, elapsedDays, halfLifeDays float64) float64 {
	if math.IsNaN(base) || base <= 0 {
		return 0
	}
	if math.IsNaN(halfLifeDays) || halfLifeDays <= 0 {
		return base
	}
	if math.IsNaN(elapsedDays) || elapsedDays < 0 {
		elapsedDays = 0
	}
	return base * math.Pow(0.5, elapsedDays/halfLifeDays)
}

// ElapsedDays returns the fractional days between from and to, floored at zero.
func ElapsedDays(from, to time.Time) float64 {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return d.Hours() / 24
}

// Since decays base by the time elapsed between lastOccurrence and now.
func Since(base float64, lastOccurrence, now time.Time, halfLifeDays float64) float64 {
	return Decay(base, ElapsedDays(lastOccurrence, now), halfLifeDays)
}
