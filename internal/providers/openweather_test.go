package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const weatherBody = `{
	"dt": 1781971200,
	"main": {"temp": 24.5, "humidity": 61},
	"wind": {"speed": 6.2, "deg": 370},
	"name": "Monterey"
}`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newWeatherServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestOpenWeather_GetCurrentWeather(t *testing.T) {
	srv, hits := newWeatherServer(t, http.StatusOK, weatherBody)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	p := NewOpenWeatherProvider(OpenWeatherConfig{APIKey: "test-key", BaseURL: srv.URL, CacheTTL: time.Minute}, rdb, quietLogger())
	loc := models.Location{Latitude: 36.5681, Longitude: -121.9487}

	w, err := p.GetCurrentWeather(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, 6.2, w.WindSpeedMps)
	assert.Equal(t, 10, w.WindDegrees)
	assert.Equal(t, 24.5, w.TemperatureCelsius)
	assert.Equal(t, 61, w.Humidity)
	assert.Equal(t, time.Unix(1781971200, 0).UTC(), w.Timestamp)
	assert.Equal(t, "Monterey", w.Location.Name)

	assert.True(t, mr.Exists(WeatherCacheKey(loc)))
	assert.Equal(t, time.Minute, mr.TTL(WeatherCacheKey(loc)))

	cached, err := p.GetCurrentWeather(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, w.WindSpeedMps, cached.WindSpeedMps)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestOpenWeather_NoCache(t *testing.T) {
	srv, hits := newWeatherServer(t, http.StatusOK, weatherBody)
	p := NewOpenWeatherProvider(OpenWeatherConfig{APIKey: "test-key", BaseURL: srv.URL}, nil, quietLogger())

	for i := 0; i < 2; i++ {
		_, err := p.GetCurrentWeather(context.Background(), models.Location{Latitude: 1, Longitude: 2})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestOpenWeather_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		loc      models.Location
		expected error
	}{
		{"server error", http.StatusInternalServerError, `{}`, models.Location{Latitude: 1, Longitude: 1}, utils.ErrUnavailable},
		{"implausible humidity", http.StatusOK, `{"dt": 1781971200, "main": {"temp": 20, "humidity": 140}, "wind": {"speed": 1, "deg": 10}}`, models.Location{Latitude: 1, Longitude: 1}, utils.ErrInvalidInput},
		{"bad latitude", http.StatusOK, weatherBody, models.Location{Latitude: 91, Longitude: 0}, utils.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newWeatherServer(t, tt.status, tt.body)
			p := NewOpenWeatherProvider(OpenWeatherConfig{APIKey: "test-key", BaseURL: srv.URL}, nil, quietLogger())

			_, err := p.GetCurrentWeather(context.Background(), tt.loc)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestOpenWeather_CircuitOpens(t *testing.T) {
	srv, hits := newWeatherServer(t, http.StatusBadGateway, `{}`)
	p := NewOpenWeatherProvider(OpenWeatherConfig{APIKey: "test-key", BaseURL: srv.URL, BreakerThreshold: 2}, nil, quietLogger())
	loc := models.Location{Latitude: 10, Longitude: 10}

	for i := 0; i < 2; i++ {
		_, err := p.GetCurrentWeather(context.Background(), loc)
		require.Error(t, err)
	}

	_, err := p.GetCurrentWeather(context.Background(), loc)
	assert.ErrorIs(t, err, utils.ErrUnavailable)
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}
