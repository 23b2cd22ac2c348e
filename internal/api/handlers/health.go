package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/golf-caddy/internal/services"
	"github.com/stitts-dev/golf-caddy/pkg/database"
)

type HealthHandler struct {
	db    *database.DB
	cache *services.CacheService
}

// NewHealthHandler creates a health handler. cache may be nil when redis is disabled.
func NewHealthHandler(db *database.DB, cache *services.CacheService) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// GetHealth reports database and cache reachability
func (h *HealthHandler) GetHealth(c *gin.Context) {
	checks := gin.H{"database": "ok"}
	status := http.StatusOK

	if err := h.db.HealthCheck(); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if h.cache == nil {
		checks["cache"] = "disabled"
	} else if err := h.cache.Ping(c.Request.Context()); err != nil {
		// The cache is optional; report it without failing the probe.
		checks["cache"] = err.Error()
	} else {
		checks["cache"] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"service": "golf-caddy",
		"time":    time.Now().UTC(),
		"checks":  checks,
	})
}
