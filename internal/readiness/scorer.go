// Package readiness turns physiological metrics into a 0-100 readiness score.
package readiness

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const (
	HRVWeight    = 0.4
	SleepWeight  = 0.4
	StressWeight = 0.2

	// NeutralComponent stands in for a metric that was not measured.
	NeutralComponent = 50.0

	hrvFloorMs   = 20.0
	hrvCeilingMs = 100.0

	sleepOptimalMin  = 360
	sleepOptimalMax  = 540
	sleepOptimalPeak = 450
	sleepBandScore   = 75.0
)

// Input carries whichever metrics were available. Nil means not measured.
type Input struct {
	HRVMs        *float64
	SleepMinutes *int
	SleepQuality *float64 // explicit 0-100 score, wins over SleepMinutes
	StressLevel  *float64 // 0-100, higher is worse
	Source       models.ReadinessSource
	Timestamp    time.Time
}

// Score computes the composite readiness score.
func Score(in Input) (models.ReadinessScore, error) {
	if in.Source == "" {
		in.Source = models.SourceManualEntry
	}

	var breakdown models.ReadinessBreakdown
	hrv, sleep, stress := NeutralComponent, NeutralComponent, NeutralComponent

	if in.HRVMs != nil {
		if *in.HRVMs < 0 || math.IsNaN(*in.HRVMs) {
			return models.ReadinessScore{}, utils.InvalidInput("hrv %.1f ms must be >= 0", *in.HRVMs)
		}
		hrv = HRVScore(*in.HRVMs)
		m, err := models.NewMetricScore(hrv, HRVWeight)
		if err != nil {
			return models.ReadinessScore{}, err
		}
		breakdown.HRV = &m
	}

	switch {
	case in.SleepQuality != nil:
		m, err := models.NewMetricScore(*in.SleepQuality, SleepWeight)
		if err != nil {
			return models.ReadinessScore{}, err
		}
		sleep = m.Value
		breakdown.SleepQuality = &m
	case in.SleepMinutes != nil:
		if *in.SleepMinutes < 0 {
			return models.ReadinessScore{}, utils.InvalidInput("sleep duration %d must be >= 0", *in.SleepMinutes)
		}
		sleep = SleepScoreFromDuration(*in.SleepMinutes)
		m, err := models.NewMetricScore(sleep, SleepWeight)
		if err != nil {
			return models.ReadinessScore{}, err
		}
		breakdown.SleepQuality = &m
	}

	if in.StressLevel != nil {
		m, err := models.NewMetricScore(*in.StressLevel, StressWeight)
		if err != nil {
			return models.ReadinessScore{}, err
		}
		breakdown.StressLevel = &m
		stress = m.Value
	}

	return models.ReadinessScore{
		Overall:   Overall(hrv, sleep, stress),
		Breakdown: breakdown,
		Timestamp: in.Timestamp,
		Source:    in.Source,
	}, nil
}

// Overall combines normalized components with fixed weights. Stress is inverted first.
func Overall(hrv, sleep, stress float64) int {
	values := []float64{hrv, sleep, 100 - stress}
	weights := []float64{HRVWeight, SleepWeight, StressWeight}
	overall := int(math.Round(stat.Mean(values, weights)))
	if overall < 0 {
		return 0
	}
	if overall > 100 {
		return 100
	}
	return overall
}

// HRVScore maps HRV in milliseconds linearly onto 0-100 between 20 ms and 100 ms.
func HRVScore(ms float64) float64 {
	if ms <= hrvFloorMs {
		return 0
	}
	if ms >= hrvCeilingMs {
		return 100
	}
	return (ms - hrvFloorMs) / (hrvCeilingMs - hrvFloorMs) * 100
}

// SleepScoreFromDuration scores sleep length. 6-9 hours scores at least 75, peaking at 7.5 hours;
// both short and long sleep lose points outside the band.
func SleepScoreFromDuration(minutes int) float64 {
	m := float64(minutes)
	switch {
	case minutes <= 0:
		return 0
	case minutes < sleepOptimalMin:
		return sleepBandScore * m / sleepOptimalMin
	case minutes <= sleepOptimalMax:
		halfBand := float64(sleepOptimalMax-sleepOptimalMin) / 2
		return sleepBandScore + (100-sleepBandScore)*(1-math.Abs(m-sleepOptimalPeak)/halfBand)
	default:
		return math.Max(0, sleepBandScore-(m-sleepOptimalMax)*0.25)
	}
}
