package models

import (
	"time"

	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// ReadinessSource records where a readiness score came from
type ReadinessSource string

const (
	SourceWearableSync ReadinessSource = "WEARABLE_SYNC"
	SourceManualEntry  ReadinessSource = "MANUAL_ENTRY"
)

// DefaultReadinessOverall is used when no persisted score exists.
const DefaultReadinessOverall = 70

// MetricScore is one normalized component of readiness
type MetricScore struct {
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

func NewMetricScore(value, weight float64) (MetricScore, error) {
	if value < 0 || value > 100 || value != value {
		return MetricScore{}, utils.InvalidInput("metric value %.2f outside [0,100]", value)
	}
	if weight < 0 || weight > 1 || weight != weight {
		return MetricScore{}, utils.InvalidInput("metric weight %.2f outside [0,1]", weight)
	}
	return MetricScore{Value: value, Weight: weight}, nil
}

// ReadinessBreakdown holds only the metrics that were actually measured
type ReadinessBreakdown struct {
	HRV          *MetricScore `json:"hrv,omitempty"`
	SleepQuality *MetricScore `json:"sleep_quality,omitempty"`
	StressLevel  *MetricScore `json:"stress_level,omitempty"`
}

// ReadinessScore is a 0-100 composite of recovery state
type ReadinessScore struct {
	Overall   int                `json:"overall"`
	Breakdown ReadinessBreakdown `json:"breakdown"`
	Timestamp time.Time          `json:"timestamp"`
	Source    ReadinessSource    `json:"source"`
}

// DefaultReadiness is the neutral fallback when nothing has been recorded.
func DefaultReadiness(now time.Time) ReadinessScore {
	return ReadinessScore{
		Overall:   DefaultReadinessOverall,
		Timestamp: now,
		Source:    SourceManualEntry,
	}
}

// AdjustmentFactor maps overall readiness to a risk-tolerance multiplier in [0.5, 1.0].
func (r ReadinessScore) AdjustmentFactor() float64 {
	switch {
	case r.Overall >= 60:
		return 1.0
	case r.Overall <= 40:
		return 0.5
	default:
		return 0.5 + (float64(r.Overall-40)/20.0)*0.5
	}
}

func (r ReadinessScore) Validate() error {
	if r.Overall < 0 || r.Overall > 100 {
		return utils.InvalidInput("readiness %d outside [0,100]", r.Overall)
	}
	if r.Source != SourceWearableSync && r.Source != SourceManualEntry {
		return utils.InvalidInput("unknown readiness source %q", r.Source)
	}
	return nil
}
