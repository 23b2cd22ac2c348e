package conditions

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

func weather(speed float64, degrees int, tempC float64) models.WeatherData {
	return models.WeatherData{
		WindSpeedMps:       speed,
		WindDegrees:        degrees,
		TemperatureCelsius: tempC,
		Humidity:           55,
		Timestamp:          time.Unix(1760000000, 0),
	}
}

func TestWindComponents(t *testing.T) {
	for _, bearing := range []int{0, 45, 180, 300} {
		head, cross := WindComponents(6, bearing, bearing)
		assert.InDelta(t, 6, head, 1e-9, "following wind at bearing %d", bearing)
		assert.InDelta(t, 0, cross, 1e-9)

		head, cross = WindComponents(6, (bearing+180)%360, bearing)
		assert.InDelta(t, -6, head, 1e-9, "into wind at bearing %d", bearing)
		assert.InDelta(t, 0, cross, 1e-9)

		head, cross = WindComponents(6, (bearing+90)%360, bearing)
		assert.InDelta(t, 0, head, 1e-9)
		assert.InDelta(t, 6, math.Abs(cross), 1e-9)

		head, cross = WindComponents(6, (bearing+270)%360, bearing)
		assert.InDelta(t, 0, head, 1e-9)
		assert.InDelta(t, 6, math.Abs(cross), 1e-9)
	}
}

func TestAdjust_CarryModifier(t *testing.T) {
	tests := []struct {
		name     string
		weather  models.WeatherData
		bearing  int
		expected float64
		delta    float64
	}{
		{"direct headwind at 15C", weather(5, 180, 15), 0, 0.95, 0.02},
		{"direct tailwind at 15C", weather(5, 0, 15), 0, 1.05, 0.02},
		{"cold calm air", weather(0, 0, 0), 90, 0.953, 0.01},
		{"pure crosswind has no carry effect", weather(8, 90, 15), 0, 1.0, 1e-9},
		{"reference conditions", weather(0, 0, 15), 0, 1.0, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := Adjust(tt.weather, tt.bearing, 150)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, adj.CarryModifier, tt.delta)
			assert.InDelta(t, 150*adj.CarryModifier, adj.AdjustedCarry, 1e-9)
		})
	}
}

func TestAdjust_ColdAirComponents(t *testing.T) {
	adj, err := Adjust(weather(0, 0, 0), 0, 200)
	require.NoError(t, err)

	assert.Greater(t, adj.AirDensity, 1.0)
	assert.Less(t, adj.TempEffect, 1.0)
	assert.InDelta(t, 1.03*0.925, adj.CarryModifier, 1e-12)
}

func TestAdjust_ColdHeadwindReducesCarry(t *testing.T) {
	adj, err := Adjust(weather(5, 180, 0), 0, 200)
	require.NoError(t, err)

	reduction := 1 - adj.CarryModifier
	assert.InDelta(t, 0.095, reduction, 0.01)
}

func TestAdjust_Reason(t *testing.T) {
	tests := []struct {
		name     string
		weather  models.WeatherData
		expected string
	}{
		{"headwind", weather(5, 180, 15), "5.0 m/s headwind: -10m"},
		{"tailwind", weather(5, 0, 15), "5.0 m/s tailwind: +10m"},
		{"cold air", weather(0, 0, 0), "Cold air (0°C): -9m"},
		{"calm", weather(0, 0, 15), "Neutral conditions: +0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := Adjust(tt.weather, 0, 200)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, adj.Reason)
		})
	}
}

func TestAdjust_ReasonOrdersDominantFactorFirst(t *testing.T) {
	// 8 m/s into the wind outweighs mildly cool air
	adj, err := Adjust(weather(8, 180, 8), 0, 200)
	require.NoError(t, err)

	assert.Regexp(t, `^8\.0 m/s headwind, cold air \(8°C\): -\d+m$`, adj.Reason)
}

func TestAdjust_Validation(t *testing.T) {
	tests := []struct {
		name    string
		bearing int
		carry   float64
	}{
		{"bearing above range", 361, 150},
		{"bearing 360", 360, 150},
		{"negative bearing", -1, 150},
		{"negative carry", 90, -10},
		{"zero carry", 90, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Adjust(weather(3, 0, 15), tt.bearing, tt.carry)
			assert.ErrorIs(t, err, utils.ErrInvalidInput)
		})
	}
}
