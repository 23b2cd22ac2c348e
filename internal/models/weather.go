package models

import (
	"time"

	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// Location identifies where weather is requested for
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Name      string  `json:"name,omitempty" yaml:"name,omitempty"`
}

// WeatherData is an immutable snapshot fetched per request
type WeatherData struct {
	WindSpeedMps       float64   `json:"wind_speed_mps"`
	WindDegrees        int       `json:"wind_degrees"`
	TemperatureCelsius float64   `json:"temperature_celsius"`
	Humidity           int       `json:"humidity"`
	Timestamp          time.Time `json:"timestamp"`
	Location           Location  `json:"location"`
}

func (w WeatherData) Validate() error {
	if w.WindSpeedMps < 0 || w.WindSpeedMps != w.WindSpeedMps {
		return utils.InvalidInput("wind speed %.2f must be >= 0", w.WindSpeedMps)
	}
	if w.WindDegrees < 0 || w.WindDegrees > 359 {
		return utils.InvalidInput("wind degrees %d outside [0,359]", w.WindDegrees)
	}
	if w.Humidity < 0 || w.Humidity > 100 {
		return utils.InvalidInput("humidity %d outside [0,100]", w.Humidity)
	}
	if w.Timestamp.IsZero() || w.Timestamp.Unix() <= 0 {
		return utils.InvalidInput("weather timestamp must be positive")
	}
	return nil
}
