package strategy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-caddy/internal/conditions"
	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/patterns"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

var now = time.Date(2026, 5, 2, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

func readiness(overall int) models.ReadinessScore {
	return models.ReadinessScore{Overall: overall, Timestamp: now, Source: models.SourceManualEntry}
}

func pattern(dir models.MissDirection, base float64, age time.Duration) models.MissPattern {
	p, _ := models.NewMissPattern(string(dir), dir, 4, base, now.Add(-age), now)
	return p
}

func hazard(t models.HazardType, side models.HazardSide, penalty int, misses ...models.MissDirection) models.HazardZone {
	return models.HazardZone{
		Type:           t,
		Location:       models.HazardLocation{Side: side, DistanceRange: models.DistanceRange{From: 180, To: 230}},
		PenaltyStrokes: penalty,
		AffectedMisses: misses,
	}
}

func par4(length int, hazards ...models.HazardZone) models.CourseHole {
	return models.CourseHole{Number: 7, Par: 4, LengthMeters: length, Hazards: hazards}
}

func TestCompute_EndToEndSliceScenario(t *testing.T) {
	var history []models.Shot
	for i := 0; i < 6; i++ {
		history = append(history, models.Shot{ID: fmt.Sprintf("s%d", i), MissDirection: models.MissStraight, Timestamp: now.Add(-4 * 24 * time.Hour)})
	}
	for i := 0; i < 4; i++ {
		history = append(history, models.Shot{ID: fmt.Sprintf("m%d", i), MissDirection: models.MissSlice, Timestamp: now.Add(-48*time.Hour + time.Duration(i)*time.Hour)})
	}
	found := patterns.NewAggregator(patterns.DefaultWindow()).Aggregate(history, now)
	require.Len(t, found, 1)

	s, err := NewEngine(fixedClock).Compute(Input{
		Hole:      par4(360),
		Handicap:  9,
		Readiness: readiness(62),
		Patterns:  found,
	})
	require.NoError(t, err)

	assert.Equal(t, models.MissSlice, s.PersonalizedFor.DominantMiss)
	assert.Equal(t, 252, s.RecommendedLandingZone.IdealDistance)
	assert.Equal(t, 18.0, s.RecommendedLandingZone.SafetyMargin)
	assert.Less(t, s.RecommendedLandingZone.TargetLine, 180.0)
	assert.Contains(t, s.RecommendedLandingZone.VisualCue, "left")
	assert.Empty(t, s.PersonalizedFor.ClubDistances)
	assert.Nil(t, s.Conditions)
}

func TestSafetyMargin(t *testing.T) {
	tests := []struct {
		name      string
		handicap  int
		readiness int
		expected  float64
	}{
		{"full readiness", 12, 100, 24},
		{"threshold readiness", 12, 60, 24},
		{"low readiness doubles", 12, 40, 48},
		{"exhausted", 7, 0, 28},
		{"mid band", 10, 50, 20 / 0.75},
		{"scratch golfer", 0, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SafetyMargin(tt.handicap, readiness(tt.readiness)), 1e-9)
		})
	}
}

func TestIdealDistance(t *testing.T) {
	assert.Equal(t, 165, IdealDistance(models.CourseHole{Par: 3, LengthMeters: 165}))
	assert.Equal(t, 252, IdealDistance(models.CourseHole{Par: 4, LengthMeters: 360}))
	assert.Equal(t, 336, IdealDistance(models.CourseHole{Par: 5, LengthMeters: 480}))
}

func TestDominantMiss_RecencyBeatsRawConfidence(t *testing.T) {
	old := pattern(models.MissHook, 0.9, 60*24*time.Hour)
	recent := pattern(models.MissSlice, 0.4, 24*time.Hour)

	miss, conf := DominantMiss([]models.MissPattern{old, recent}, now)

	assert.Equal(t, models.MissSlice, miss)
	assert.InDelta(t, recent.DecayedConfidence(now), conf, 1e-12)
}

func TestDominantMiss_DefaultsToStraight(t *testing.T) {
	miss, conf := DominantMiss(nil, now)
	assert.Equal(t, models.MissStraight, miss)
	assert.Zero(t, conf)
}

func TestTargetLine(t *testing.T) {
	assert.Less(t, TargetLine(models.MissSlice, 0.5), StraightLine)
	assert.Greater(t, TargetLine(models.MissHook, 0.5), StraightLine)
	assert.Equal(t, StraightLine, TargetLine(models.MissStraight, 0))
	assert.Equal(t, StraightLine, TargetLine(models.MissFat, 0.9))
	assert.Equal(t, StraightLine-maxAimBias, TargetLine(models.MissSlice, 1))

	for _, c := range []float64{0, 0.3, 0.7, 1} {
		line := TargetLine(models.MissHook, c)
		assert.GreaterOrEqual(t, line, 0.0)
		assert.Less(t, line, 360.0)
	}
}

func TestCompute_HookAimsRight(t *testing.T) {
	s, err := NewEngine(fixedClock).Compute(Input{
		Hole:      models.CourseHole{Number: 3, Par: 3, LengthMeters: 150},
		Handicap:  5,
		Readiness: readiness(80),
		Patterns:  []models.MissPattern{pattern(models.MissHook, 0.6, time.Hour)},
	})
	require.NoError(t, err)

	assert.Greater(t, s.RecommendedLandingZone.TargetLine, 180.0)
	assert.Contains(t, s.RecommendedLandingZone.VisualCue, "right")
	assert.Contains(t, s.RecommendedLandingZone.VisualCue, "the green")
	assert.Equal(t, 150, s.RecommendedLandingZone.IdealDistance)
}

func TestCompute_HazardFiltering(t *testing.T) {
	water := hazard(models.HazardWater, models.SideRight, 1, models.MissSlice, models.MissPush)
	bunker := hazard(models.HazardBunker, models.SideLeft, 0, models.MissHook)
	trees := hazard(models.HazardTrees, models.SideRight, 0, models.MissSlice)

	s, err := NewEngine(fixedClock).Compute(Input{
		Hole:      par4(380, bunker, water, trees),
		Handicap:  14,
		Readiness: readiness(70),
		Patterns:  []models.MissPattern{pattern(models.MissSlice, 0.5, time.Hour)},
	})
	require.NoError(t, err)

	require.Len(t, s.DangerZones, 2)
	for _, z := range s.DangerZones {
		assert.True(t, z.Affects(models.MissSlice))
		assert.NotEqual(t, models.HazardBunker, z.Type)
	}
	require.Len(t, s.RiskCallouts, 2)
	assert.Equal(t, "Water right at 180-230m is in play for your slice (+1)", s.RiskCallouts[0])
	assert.Equal(t, "Trees right at 180-230m is in play for your slice", s.RiskCallouts[1])
}

func TestCompute_NoPatternsExcludesEveryMissHazard(t *testing.T) {
	s, err := NewEngine(fixedClock).Compute(Input{
		Hole:      par4(350, hazard(models.HazardOB, models.SideLeft, 2, models.MissHook)),
		Handicap:  20,
		Readiness: readiness(90),
	})
	require.NoError(t, err)

	assert.Equal(t, models.MissStraight, s.PersonalizedFor.DominantMiss)
	assert.Empty(t, s.DangerZones)
	assert.Empty(t, s.RiskCallouts)
	assert.Equal(t, StraightLine, s.RecommendedLandingZone.TargetLine)
	assert.NotNil(t, s.PersonalizedFor.ClubDistances)
}

func TestRiskCallouts_CappedAndSeverityOrdered(t *testing.T) {
	dangers := []models.HazardZone{
		hazard(models.HazardBunker, models.SideRight, 0, models.MissSlice),
		hazard(models.HazardPenaltyRough, models.SideRight, 0, models.MissSlice),
		hazard(models.HazardOB, models.SideRight, 2, models.MissSlice),
		hazard(models.HazardTrees, models.SideRight, 0, models.MissSlice),
		hazard(models.HazardWater, models.SideRight, 1, models.MissSlice),
	}

	callouts := RiskCallouts(dangers, models.MissSlice)

	require.Len(t, callouts, MaxRiskCallouts)
	assert.Contains(t, callouts[0], "Out of bounds")
	assert.Contains(t, callouts[1], "Water")
	assert.Contains(t, callouts[2], "Bunker")
	for _, c := range callouts {
		assert.Contains(t, c, "slice")
	}
	assert.Contains(t, RiskCallouts(dangers[1:2], models.MissSlice)[0], "Penalty Rough")
}

func TestCompute_ClubDistancesScaledByConditions(t *testing.T) {
	clubs := []models.Club{
		{ID: "dr", Name: "Driver", Type: models.ClubDriver, EstimatedCarry: 230},
		{ID: "7i", Name: "7 Iron", Type: models.ClubIron, EstimatedCarry: 150},
	}
	adj, err := conditions.Adjust(models.WeatherData{WindSpeedMps: 5, WindDegrees: 180, TemperatureCelsius: 15, Humidity: 40, Timestamp: now}, 0, 150)
	require.NoError(t, err)

	engine := NewEngine(fixedClock)
	plain, err := engine.Compute(Input{Hole: par4(400), Handicap: 10, Readiness: readiness(70), Clubs: clubs})
	require.NoError(t, err)
	adjusted, err := engine.Compute(Input{Hole: par4(400), Handicap: 10, Readiness: readiness(70), Clubs: clubs, Conditions: &adj})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Driver": 230, "7 Iron": 150}, plain.PersonalizedFor.ClubDistances)
	assert.Less(t, adjusted.PersonalizedFor.ClubDistances["Driver"], 230)
	assert.Less(t, adjusted.PersonalizedFor.ClubDistances["7 Iron"], 150)
	require.NotNil(t, adjusted.Conditions)
	assert.Equal(t, adj.CarryModifier, adjusted.Conditions.CarryModifier)
}

func TestCompute_Preconditions(t *testing.T) {
	engine := NewEngine(fixedClock)
	tests := []struct {
		name  string
		input Input
	}{
		{"par two", Input{Hole: models.CourseHole{Par: 2, LengthMeters: 100}, Readiness: readiness(70)}},
		{"par six", Input{Hole: models.CourseHole{Par: 6, LengthMeters: 600}, Readiness: readiness(70)}},
		{"zero length", Input{Hole: models.CourseHole{Par: 4}, Readiness: readiness(70)}},
		{"negative handicap", Input{Hole: par4(360), Handicap: -1, Readiness: readiness(70)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Compute(tt.input)
			assert.ErrorIs(t, err, utils.ErrInvalidInput)
		})
	}
}
