// Package conditions adjusts carry distance for wind and air temperature.
package conditions

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const (
	referenceTempC      = 15.0
	airDensityPerDegree = 0.002
	tempCarryPerDegree  = 0.005
	windCarryPerMps     = 0.01

	coldThresholdC = 10.0
	warmThresholdC = 25.0
	windNoticeMps  = 0.5
)

// Adjustment is the carry effect of one weather snapshot on one shot
type Adjustment struct {
	CarryModifier float64 `json:"carry_modifier"`
	BaseCarry     float64 `json:"base_carry"`
	AdjustedCarry float64 `json:"adjusted_carry"`
	CarryDelta    int     `json:"carry_delta"`
	// Headwind is positive when the wind follows the shot and adds carry.
	Headwind   float64 `json:"headwind"`
	Crosswind  float64 `json:"crosswind"`
	AirDensity float64 `json:"air_density"`
	TempEffect float64 `json:"temp_effect"`
	WindEffect float64 `json:"wind_effect"`
	Reason     string  `json:"reason"`
}

// WindComponents splits wind into along-line and cross-line components relative to the
// target bearing. Wind reported from the target bearing yields +speed along the line.
func WindComponents(speedMps float64, windDegrees, targetBearing int) (headwind, crosswind float64) {
	angle := float64(windDegrees-targetBearing) * math.Pi / 180
	return speedMps * math.Cos(angle), speedMps * math.Sin(angle)
}

// AirDensity is a proxy relative to 15°C; colder air is denser.
func AirDensity(tempC float64) float64 {
	return 1.0 + (referenceTempC-tempC)*airDensityPerDegree
}

// TemperatureEffect is the carry multiplier from temperature; colder air carries shorter.
func TemperatureEffect(tempC float64) float64 {
	return 1.0 - (referenceTempC-tempC)*tempCarryPerDegree
}

// WindEffect is the carry multiplier from the along-line wind component.
func WindEffect(headwind float64) float64 {
	return 1.0 + headwind*windCarryPerMps
}

// Adjust computes the carry modifier for a shot at targetBearing with baseCarry meters.
func Adjust(weather models.WeatherData, targetBearing int, baseCarry float64) (Adjustment, error) {
	if targetBearing < 0 || targetBearing > 359 {
		return Adjustment{}, utils.InvalidInput("target bearing %d outside [0,359]", targetBearing)
	}
	if baseCarry <= 0 || math.IsNaN(baseCarry) || math.IsInf(baseCarry, 0) {
		return Adjustment{}, utils.InvalidInput("base carry %.1f must be positive", baseCarry)
	}
	if err := weather.Validate(); err != nil {
		return Adjustment{}, err
	}

	headwind, crosswind := WindComponents(weather.WindSpeedMps, weather.WindDegrees, targetBearing)
	air := AirDensity(weather.TemperatureCelsius)
	temp := TemperatureEffect(weather.TemperatureCelsius)
	wind := WindEffect(headwind)
	modifier := air * temp * wind
	adjusted := baseCarry * modifier

	adj := Adjustment{
		CarryModifier: modifier,
		BaseCarry:     baseCarry,
		AdjustedCarry: adjusted,
		CarryDelta:    int(math.Round(adjusted - baseCarry)),
		Headwind:      headwind,
		Crosswind:     crosswind,
		AirDensity:    air,
		TempEffect:    temp,
		WindEffect:    wind,
	}
	adj.Reason = describe(weather.TemperatureCelsius, headwind, air*temp, wind, adj.CarryDelta)
	return adj, nil
}

type factor struct {
	text   string
	weight float64
}

func describe(tempC, headwind, thermal, wind float64, delta int) string {
	var factors []factor
	switch {
	case tempC < coldThresholdC:
		factors = append(factors, factor{fmt.Sprintf("cold air (%.0f°C)", tempC), math.Abs(thermal - 1)})
	case tempC > warmThresholdC:
		factors = append(factors, factor{fmt.Sprintf("warm air (%.0f°C)", tempC), math.Abs(thermal - 1)})
	}
	switch {
	case headwind <= -windNoticeMps:
		factors = append(factors, factor{fmt.Sprintf("%.1f m/s headwind", -headwind), math.Abs(wind - 1)})
	case headwind >= windNoticeMps:
		factors = append(factors, factor{fmt.Sprintf("%.1f m/s tailwind", headwind), math.Abs(wind - 1)})
	}
	sort.SliceStable(factors, func(i, j int) bool { return factors[i].weight > factors[j].weight })

	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, f.text)
	}
	summary := "neutral conditions"
	if len(parts) > 0 {
		summary = strings.Join(parts, ", ")
	}
	summary = strings.ToUpper(summary[:1]) + summary[1:]

	sign := "+"
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	return fmt.Sprintf("%s: %s%dm", summary, sign, delta)
}
