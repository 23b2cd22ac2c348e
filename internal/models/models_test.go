package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

func TestReadinessScore_AdjustmentFactor(t *testing.T) {
	for overall := 0; overall <= 100; overall++ {
		factor := ReadinessScore{Overall: overall}.AdjustmentFactor()
		switch {
		case overall >= 60:
			assert.Equal(t, 1.0, factor, "overall %d", overall)
		case overall <= 40:
			assert.Equal(t, 0.5, factor, "overall %d", overall)
		default:
			assert.Greater(t, factor, 0.5, "overall %d", overall)
			assert.Less(t, factor, 1.0, "overall %d", overall)
		}
	}
	assert.InDelta(t, 0.75, ReadinessScore{Overall: 50}.AdjustmentFactor(), 1e-12)
}

func TestDefaultReadiness(t *testing.T) {
	now := time.Now()
	r := DefaultReadiness(now)
	assert.Equal(t, 70, r.Overall)
	assert.Equal(t, SourceManualEntry, r.Source)
	assert.Equal(t, 1.0, r.AdjustmentFactor())
	assert.NoError(t, r.Validate())
}

func TestNewMetricScore_RejectsOutOfRange(t *testing.T) {
	_, err := NewMetricScore(101, 0.4)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	_, err = NewMetricScore(50, 1.2)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)

	m, err := NewMetricScore(80, 0.4)
	require.NoError(t, err)
	assert.Equal(t, MetricScore{Value: 80, Weight: 0.4}, m)
}

func TestNewMissPattern(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("clamps confidence", func(t *testing.T) {
		p, ok := NewMissPattern("p1", MissSlice, 3, 1.7, now, now)
		require.True(t, ok)
		assert.Equal(t, 1.0, p.BaseConfidence)
		assert.Equal(t, 1.0, p.Confidence)
	})

	t.Run("rejects non-positive frequency", func(t *testing.T) {
		_, ok := NewMissPattern("p1", MissSlice, 0, 0.5, now, now)
		assert.False(t, ok)
	})

	t.Run("rejects straight", func(t *testing.T) {
		_, ok := NewMissPattern("p1", MissStraight, 4, 0.5, now, now)
		assert.False(t, ok)
	})

	t.Run("decays relative to caller clock", func(t *testing.T) {
		p, ok := NewMissPattern("p1", MissHook, 4, 0.6, now, now)
		require.True(t, ok)
		later := now.Add(14 * 24 * time.Hour)
		assert.InDelta(t, 0.3, p.DecayedConfidence(later), 1e-12)
		assert.InDelta(t, 0.3, p.AsOf(later).Confidence, 1e-12)
		assert.Equal(t, 0.6, p.BaseConfidence)
		assert.True(t, p.IsSignificant(later))
		assert.False(t, p.IsSignificant(now.Add(200*24*time.Hour)))
	})
}

func TestMissDirection(t *testing.T) {
	assert.True(t, MissNone.Valid())
	assert.False(t, MissNone.IsMiss())
	assert.False(t, MissStraight.IsMiss())
	assert.True(t, MissFat.IsMiss())
	assert.False(t, MissDirection("SHANK").Valid())
}

func TestWeatherData_Validate(t *testing.T) {
	valid := WeatherData{WindSpeedMps: 4, WindDegrees: 270, TemperatureCelsius: 12, Humidity: 60, Timestamp: time.Unix(1700000000, 0)}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.WindDegrees = 360
	assert.ErrorIs(t, bad.Validate(), utils.ErrInvalidInput)

	bad = valid
	bad.WindSpeedMps = -1
	assert.ErrorIs(t, bad.Validate(), utils.ErrInvalidInput)

	bad = valid
	bad.Timestamp = time.Time{}
	assert.ErrorIs(t, bad.Validate(), utils.ErrInvalidInput)
}

func TestCourseHole_Validate(t *testing.T) {
	assert.NoError(t, CourseHole{Number: 1, Par: 4, LengthMeters: 360}.Validate())
	assert.ErrorIs(t, CourseHole{Number: 1, Par: 6, LengthMeters: 500}.Validate(), utils.ErrInvalidInput)
	assert.ErrorIs(t, CourseHole{Number: 1, Par: 3, LengthMeters: 0}.Validate(), utils.ErrInvalidInput)
}

func TestHazardSeverity(t *testing.T) {
	assert.Greater(t, HazardWater.Severity(), HazardBunker.Severity())
	assert.Equal(t, HazardWater.Severity(), HazardOB.Severity())
	assert.Equal(t, HazardTrees.Severity(), HazardPenaltyRough.Severity())
}

func TestParsedIntent_Validate(t *testing.T) {
	assert.Len(t, AllIntentTypes, 15)
	assert.NoError(t, ParsedIntent{IntentType: IntentFeedback, Confidence: 0.9}.Validate())
	assert.ErrorIs(t, ParsedIntent{IntentType: "DANCE", Confidence: 0.9}.Validate(), utils.ErrInvalidInput)
	assert.ErrorIs(t, ParsedIntent{IntentType: IntentFeedback, Confidence: 1.1}.Validate(), utils.ErrInvalidInput)
}

func TestShot_Validate(t *testing.T) {
	shot := Shot{ID: "s1", Club: Club{ID: "7i"}, Lie: LieFairway, MissDirection: MissSlice, HoleNumber: 3, Timestamp: time.Now()}
	assert.NoError(t, shot.Validate())

	shot.Lie = "CART_PATH"
	assert.ErrorIs(t, shot.Validate(), utils.ErrInvalidInput)
}
