package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-caddy/internal/api"
	"github.com/stitts-dev/golf-caddy/internal/patterns"
	"github.com/stitts-dev/golf-caddy/internal/providers"
	"github.com/stitts-dev/golf-caddy/internal/repository"
	"github.com/stitts-dev/golf-caddy/internal/routing"
	"github.com/stitts-dev/golf-caddy/internal/services"
	"github.com/stitts-dev/golf-caddy/pkg/config"
	"github.com/stitts-dev/golf-caddy/pkg/database"
	"github.com/stitts-dev/golf-caddy/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.Migrate(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis only backs caches, so the server runs without it.
	var redisClient *redis.Client
	var cacheService *services.CacheService
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		log.WithError(err).Warn("Invalid Redis URL, caching disabled")
	} else {
		redisClient = redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.WithError(err).Warn("Redis unreachable, caching disabled")
			redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
			cacheService = services.NewCacheService(redisClient)
		}
	}

	now := time.Now
	shots := repository.NewShotRepository(db, now, cfg.ShotRetentionDays)
	patternRepo := repository.NewPatternRepository(db, now, cfg.ShotRetentionDays)
	readiness := repository.NewReadinessRepository(db)
	bags := repository.NewBagRepository(db)
	rounds := repository.NewRoundRepository(db, now)
	courses := repository.NewCourseRepository(db)

	deps := services.CaddyDeps{
		Shots:        shots,
		Patterns:     patternRepo,
		Readiness:    readiness,
		Bags:         bags,
		Rounds:       rounds,
		Courses:      courses,
		Orchestrator: routing.NewOrchestrator(repository.NewPrerequisiteChecker(readiness, rounds, bags)),
		Aggregator: patterns.NewAggregator(patterns.Window{
			Days:     cfg.PatternWindowDays,
			MaxShots: cfg.PatternWindowShots,
		}),
		Cache: cacheService,
	}

	if cfg.OpenWeatherAPIKey != "" {
		deps.Weather = providers.NewOpenWeatherProvider(providers.OpenWeatherConfig{
			APIKey:           cfg.OpenWeatherAPIKey,
			BaseURL:          cfg.OpenWeatherBaseURL,
			CacheTTL:         cfg.WeatherCacheTTL,
			Timeout:          cfg.ExternalAPITimeout,
			BreakerThreshold: cfg.CircuitBreakerThreshold,
		}, redisClient, log)
	} else {
		log.Warn("OPENWEATHER_API_KEY not set, strategies will not include conditions")
	}

	if cfg.AnthropicAPIKey != "" {
		deps.Classifier = providers.NewClaudeClassifier(providers.ClaudeConfig{
			APIKey:           cfg.AnthropicAPIKey,
			Model:            cfg.ClaudeModel,
			BaseURL:          cfg.ClaudeBaseURL,
			Timeout:          cfg.ExternalAPITimeout,
			RequestsPerMin:   cfg.AIRateLimit,
			BreakerThreshold: cfg.CircuitBreakerThreshold,
		}, log)
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, utterance routing disabled")
	}

	caddy := services.NewCaddyService(deps, cfg.DefaultHandicap, log, now)

	retention := services.NewRetentionScheduler(shots, patternRepo, cfg.RetentionSchedule, log)
	if err := retention.Start(); err != nil {
		log.Errorf("Failed to start retention scheduler: %v", err)
	}
	defer retention.Stop()

	router := api.NewRouter(db, cacheService, caddy, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
