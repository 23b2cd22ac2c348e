package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// OpenWeatherConfig configures the OpenWeatherMap client
type OpenWeatherConfig struct {
	APIKey           string
	BaseURL          string
	CacheTTL         time.Duration
	Timeout          time.Duration
	RequestsPerMin   int
	BreakerThreshold int
}

// OpenWeatherProvider fetches current conditions from OpenWeatherMap in metric units
type OpenWeatherProvider struct {
	client      *http.Client
	redisClient *redis.Client
	apiKey      string
	baseURL     string
	cacheTTL    time.Duration
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	logger      *logrus.Logger
	now         func() time.Time
}

type openWeatherResponse struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Name string `json:"name"`
}

// NewOpenWeatherProvider creates a client. redisClient may be nil to disable caching.
func NewOpenWeatherProvider(cfg OpenWeatherConfig, redisClient *redis.Client, logger *logrus.Logger) *OpenWeatherProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.RequestsPerMin <= 0 {
		cfg.RequestsPerMin = 60
	}

	return &OpenWeatherProvider{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		redisClient: redisClient,
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		cacheTTL:    cfg.CacheTTL,
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMin)), cfg.RequestsPerMin),
		breaker:     newBreaker("openweather", cfg.BreakerThreshold, 30*time.Second, logger),
		logger:      logger,
		now:         time.Now,
	}
}

// WeatherCacheKey is the redis key for a location's current conditions.
func WeatherCacheKey(loc models.Location) string {
	return fmt.Sprintf("weather:%.4f,%.4f", loc.Latitude, loc.Longitude)
}

// GetCurrentWeather returns current conditions, served from cache when fresh.
func (p *OpenWeatherProvider) GetCurrentWeather(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return models.WeatherData{}, utils.InvalidInput("coordinates %.4f,%.4f out of range", loc.Latitude, loc.Longitude)
	}

	cacheKey := WeatherCacheKey(loc)
	if cached, ok := p.getCached(ctx, cacheKey); ok {
		return cached, nil
	}

	if !p.limiter.Allow() {
		return models.WeatherData{}, fmt.Errorf("%w: weather API rate limit exceeded", utils.ErrUnavailable)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetch(ctx, loc)
	})
	if err != nil {
		return models.WeatherData{}, breakerErr("openweather", err)
	}
	weather := result.(models.WeatherData)

	p.cache(ctx, cacheKey, weather)
	return weather, nil
}

func (p *OpenWeatherProvider) fetch(ctx context.Context, loc models.Location) (models.WeatherData, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', 6, 64))
	params.Set("appid", p.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("%w: failed to fetch weather data: %v", utils.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.WeatherData{}, fmt.Errorf("%w: weather API returned status %d", utils.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to read weather response: %w", err)
	}

	var weatherResp openWeatherResponse
	if err := json.Unmarshal(body, &weatherResp); err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to parse weather response: %w", err)
	}

	weather := p.convert(weatherResp, loc)
	if err := weather.Validate(); err != nil {
		return models.WeatherData{}, fmt.Errorf("weather API returned bad data: %w", err)
	}
	return weather, nil
}

func (p *OpenWeatherProvider) convert(resp openWeatherResponse, loc models.Location) models.WeatherData {
	ts := p.now().UTC()
	if resp.Dt > 0 {
		ts = time.Unix(resp.Dt, 0).UTC()
	}
	if loc.Name == "" {
		loc.Name = resp.Name
	}
	return models.WeatherData{
		WindSpeedMps:       resp.Wind.Speed,
		WindDegrees:        ((resp.Wind.Deg % 360) + 360) % 360,
		TemperatureCelsius: resp.Main.Temp,
		Humidity:           resp.Main.Humidity,
		Timestamp:          ts,
		Location:           loc,
	}
}

func (p *OpenWeatherProvider) getCached(ctx context.Context, key string) (models.WeatherData, bool) {
	if p.redisClient == nil {
		return models.WeatherData{}, false
	}
	data, err := p.redisClient.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.WithError(err).Debug("Weather cache read failed")
		}
		return models.WeatherData{}, false
	}

	var weather models.WeatherData
	if err := json.Unmarshal([]byte(data), &weather); err != nil {
		return models.WeatherData{}, false
	}
	return weather, true
}

func (p *OpenWeatherProvider) cache(ctx context.Context, key string, weather models.WeatherData) {
	if p.redisClient == nil {
		return
	}
	data, err := json.Marshal(weather)
	if err != nil {
		return
	}
	if err := p.redisClient.Set(ctx, key, data, p.cacheTTL).Err(); err != nil {
		// Log error but don't fail the request
		p.logger.WithError(err).Warn("Failed to cache weather data")
	}
}
