// Package patterns aggregates shot history into decayed miss patterns.
package patterns

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stitts-dev/golf-caddy/internal/models"
)

const (
	// MinFrequencyThreshold is the share of windowed shots a direction needs to become a pattern.
	MinFrequencyThreshold = 0.3
	// MinShots is the smallest window that can produce patterns.
	MinShots = 3

	DefaultWindowDays  = 30
	DefaultWindowShots = 50
)

// Window bounds the history considered: the last Days days, capped at MaxShots most recent shots.
type Window struct {
	Days     int
	MaxShots int
}

func DefaultWindow() Window {
	return Window{Days: DefaultWindowDays, MaxShots: DefaultWindowShots}
}

// Aggregator groups shots by miss direction. It holds no mutable state.
type Aggregator struct {
	window Window
	newID  func() string
}

func NewAggregator(window Window) *Aggregator {
	if window.Days <= 0 {
		window.Days = DefaultWindowDays
	}
	if window.MaxShots <= 0 {
		window.MaxShots = DefaultWindowShots
	}
	return &Aggregator{window: window, newID: uuid.NewString}
}

// WithIDGenerator replaces the pattern id source, mainly for deterministic tests.
func (a *Aggregator) WithIDGenerator(gen func() string) *Aggregator {
	cp := *a
	cp.newID = gen
	return &cp
}

func (a *Aggregator) Window() Window {
	return a.window
}

// Bound applies the rolling window, returning at most MaxShots shots newer than now-Days,
// most recent first.
func (a *Aggregator) Bound(shots []models.Shot, now time.Time) []models.Shot {
	cutoff := now.AddDate(0, 0, -a.window.Days)
	bounded := make([]models.Shot, 0, len(shots))
	for _, s := range shots {
		if s.Timestamp.After(cutoff) {
			bounded = append(bounded, s)
		}
	}
	sort.SliceStable(bounded, func(i, j int) bool {
		return bounded[i].Timestamp.After(bounded[j].Timestamp)
	})
	if len(bounded) > a.window.MaxShots {
		bounded = bounded[:a.window.MaxShots]
	}
	return bounded
}

// Aggregate produces patterns from the windowed shots, sorted by confidence descending.
// It returns nothing for fewer than MinShots shots or when no shot missed.
func (a *Aggregator) Aggregate(shots []models.Shot, now time.Time) []models.MissPattern {
	window := a.Bound(shots, now)
	if len(window) < MinShots {
		return nil
	}

	type group struct {
		count int
		last  time.Time
	}
	groups := make(map[models.MissDirection]*group)
	for _, s := range window {
		if !s.MissDirection.IsMiss() {
			continue
		}
		g, ok := groups[s.MissDirection]
		if !ok {
			g = &group{}
			groups[s.MissDirection] = g
		}
		g.count++
		if s.Timestamp.After(g.last) {
			g.last = s.Timestamp
		}
	}
	if len(groups) == 0 {
		return nil
	}

	total := float64(len(window))
	patterns := make([]models.MissPattern, 0, len(groups))
	for direction, g := range groups {
		ratio := float64(g.count) / total
		if ratio < MinFrequencyThreshold {
			continue
		}
		if p, ok := models.NewMissPattern(a.newID(), direction, g.count, ratio, g.last, now); ok {
			patterns = append(patterns, p)
		}
	}

	SortByConfidence(patterns)
	return patterns
}

// AggregateForClub aggregates only shots hit with club and tags the patterns with it.
func (a *Aggregator) AggregateForClub(shots []models.Shot, club models.Club, now time.Time) []models.MissPattern {
	subset := make([]models.Shot, 0, len(shots))
	for _, s := range shots {
		if s.Club.ID == club.ID {
			subset = append(subset, s)
		}
	}
	patterns := a.Aggregate(subset, now)
	for i := range patterns {
		c := club
		patterns[i].Club = &c
	}
	return patterns
}

// AggregateUnderPressure aggregates only pressure shots and tags the patterns with the
// combined pressure context of the window.
func (a *Aggregator) AggregateUnderPressure(shots []models.Shot, now time.Time) []models.MissPattern {
	subset := make([]models.Shot, 0, len(shots))
	var ctx models.PressureContext
	for _, s := range shots {
		if !s.PressureContext.HasPressure() {
			continue
		}
		subset = append(subset, s)
		ctx.IsUserTagged = ctx.IsUserTagged || s.PressureContext.IsUserTagged
		ctx.IsInferred = ctx.IsInferred || s.PressureContext.IsInferred
		if ctx.ScoringContext == nil && s.PressureContext.ScoringContext != nil {
			sc := *s.PressureContext.ScoringContext
			ctx.ScoringContext = &sc
		}
	}
	patterns := a.Aggregate(subset, now)
	for i := range patterns {
		pc := ctx
		patterns[i].PressureContext = &pc
	}
	return patterns
}

// Current re-decays stored patterns to now, drops those below the noise floor and sorts
// the rest by confidence descending.
func Current(stored []models.MissPattern, now time.Time) []models.MissPattern {
	current := make([]models.MissPattern, 0, len(stored))
	for _, p := range stored {
		p = p.AsOf(now)
		if p.Confidence < models.MinPatternConfidence {
			continue
		}
		current = append(current, p)
	}
	SortByConfidence(current)
	return current
}

// SortByConfidence orders by confidence, then frequency, then recency, then direction.
func SortByConfidence(patterns []models.MissPattern) {
	sort.SliceStable(patterns, func(i, j int) bool {
		a, b := patterns[i], patterns[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Frequency != b.Frequency {
			return a.Frequency > b.Frequency
		}
		if !a.LastOccurrence.Equal(b.LastOccurrence) {
			return a.LastOccurrence.After(b.LastOccurrence)
		}
		return a.Direction < b.Direction
	})
}
