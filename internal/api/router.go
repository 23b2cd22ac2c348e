package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-caddy/internal/api/handlers"
	"github.com/stitts-dev/golf-caddy/internal/api/middleware"
	"github.com/stitts-dev/golf-caddy/internal/services"
	"github.com/stitts-dev/golf-caddy/pkg/database"
)

// NewRouter builds the gin engine with middleware, health and versioned API routes.
func NewRouter(db *database.DB, cache *services.CacheService, caddy *services.CaddyService, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))

	health := handlers.NewHealthHandler(db, cache)
	router.GET("/health", health.GetHealth)

	SetupRoutes(router.Group("/api/v1"), caddy, logger)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, caddy *services.CaddyService, logger *logrus.Logger) {
	caddyHandler := handlers.NewCaddyHandler(caddy, logger)

	caddyGroup := group.Group("/caddy")
	{
		caddyGroup.POST("/utterance", caddyHandler.HandleUtterance)
		caddyGroup.POST("/strategy", caddyHandler.GetStrategy)
		caddyGroup.GET("/patterns", caddyHandler.GetPatterns)
		caddyGroup.POST("/patterns/refresh", caddyHandler.RefreshPatterns)
	}

	group.POST("/shots", caddyHandler.RecordShot)

	group.GET("/readiness", caddyHandler.GetReadiness)
	group.POST("/readiness", caddyHandler.RecordReadiness)

	group.POST("/rounds", caddyHandler.StartRound)
	group.POST("/rounds/:id/end", caddyHandler.EndRound)

	group.PUT("/bag", caddyHandler.SaveBag)
}
