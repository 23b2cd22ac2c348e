package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/navigation"
	"github.com/stitts-dev/golf-caddy/internal/readiness"
	"github.com/stitts-dev/golf-caddy/internal/routing"
	"github.com/stitts-dev/golf-caddy/internal/services"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// CaddyHandler exposes the caddy decision core over HTTP
type CaddyHandler struct {
	caddy  *services.CaddyService
	logger *logrus.Logger
}

func NewCaddyHandler(caddy *services.CaddyService, logger *logrus.Logger) *CaddyHandler {
	return &CaddyHandler{
		caddy:  caddy,
		logger: logger,
	}
}

type utteranceRequest struct {
	Text string `json:"text" binding:"required"`
}

type utteranceResponse struct {
	Classification string            `json:"classification"`
	Routing        string            `json:"routing"`
	Action         string            `json:"action"`
	Detail         navigation.Action `json:"detail"`
}

// HandleUtterance classifies free text and returns the resulting action
// POST /api/v1/caddy/utterance
func (h *CaddyHandler) HandleUtterance(c *gin.Context) {
	var req utteranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		utils.SendValidationError(c, "Text is required", "")
		return
	}

	result, err := h.caddy.HandleUtterance(c.Request.Context(), req.Text)
	if err != nil {
		utils.SendDomainError(c, "Could not handle request", err)
		return
	}

	utils.SendSuccess(c, utteranceResponse{
		Classification: routing.ClassificationKind(result.Classification),
		Routing:        routing.Kind(result.Routing),
		Action:         result.Action.Kind(),
		Detail:         result.Action,
	})
}

// GetStrategy computes the plan for one hole
// POST /api/v1/caddy/strategy
func (h *CaddyHandler) GetStrategy(c *gin.Context) {
	var req services.StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	plan, err := h.caddy.ShotStrategy(c.Request.Context(), req)
	if err != nil {
		utils.SendDomainError(c, "Failed to compute strategy", err)
		return
	}
	utils.SendSuccess(c, plan)
}

// GetPatterns returns the current significant miss patterns
// GET /api/v1/caddy/patterns
func (h *CaddyHandler) GetPatterns(c *gin.Context) {
	patterns := h.caddy.CurrentPatterns(c.Request.Context())
	if patterns == nil {
		patterns = []models.MissPattern{}
	}
	utils.SendSuccess(c, patterns)
}

// RefreshPatterns re-aggregates patterns from recent shots
// POST /api/v1/caddy/patterns/refresh
func (h *CaddyHandler) RefreshPatterns(c *gin.Context) {
	patterns, err := h.caddy.RefreshPatterns(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Pattern refresh failed")
		utils.SendDomainError(c, "Failed to refresh patterns", err)
		return
	}
	if patterns == nil {
		patterns = []models.MissPattern{}
	}
	utils.SendSuccess(c, patterns)
}

// RecordShot logs one shot
// POST /api/v1/shots
func (h *CaddyHandler) RecordShot(c *gin.Context) {
	var shot models.Shot
	if err := c.ShouldBindJSON(&shot); err != nil {
		utils.SendValidationError(c, "Invalid shot", err.Error())
		return
	}

	saved, err := h.caddy.RecordShot(c.Request.Context(), shot)
	if err != nil {
		utils.SendDomainError(c, "Failed to record shot", err)
		return
	}
	utils.SendCreated(c, saved)
}

type readinessRequest struct {
	HRVMs        *float64               `json:"hrv_ms"`
	SleepMinutes *int                   `json:"sleep_minutes"`
	SleepQuality *float64               `json:"sleep_quality"`
	StressLevel  *float64               `json:"stress_level"`
	Source       models.ReadinessSource `json:"source"`
}

// RecordReadiness scores and stores recovery metrics
// POST /api/v1/readiness
func (h *CaddyHandler) RecordReadiness(c *gin.Context) {
	var req readinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid readiness metrics", err.Error())
		return
	}

	score, err := h.caddy.RecordReadiness(c.Request.Context(), readiness.Input{
		HRVMs:        req.HRVMs,
		SleepMinutes: req.SleepMinutes,
		SleepQuality: req.SleepQuality,
		StressLevel:  req.StressLevel,
		Source:       req.Source,
	})
	if err != nil {
		utils.SendDomainError(c, "Failed to record readiness", err)
		return
	}
	utils.SendCreated(c, score)
}

// GetReadiness returns the latest readiness, or the default when none is stored
// GET /api/v1/readiness
func (h *CaddyHandler) GetReadiness(c *gin.Context) {
	utils.SendSuccess(c, h.caddy.Readiness(c.Request.Context()))
}

type startRoundRequest struct {
	CourseID string `json:"course_id"`
}

// StartRound begins a round, closing any open one
// POST /api/v1/rounds
func (h *CaddyHandler) StartRound(c *gin.Context) {
	var req startRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	round, err := h.caddy.StartRound(c.Request.Context(), req.CourseID)
	if err != nil {
		utils.SendDomainError(c, "Failed to start round", err)
		return
	}
	utils.SendCreated(c, round)
}

// EndRound closes a round
// POST /api/v1/rounds/:id/end
func (h *CaddyHandler) EndRound(c *gin.Context) {
	if err := h.caddy.EndRound(c.Request.Context(), c.Param("id")); err != nil {
		utils.SendDomainError(c, "Failed to end round", err)
		return
	}
	utils.SendSuccess(c, gin.H{"ended": true})
}

type saveBagRequest struct {
	Name  string        `json:"name" binding:"required"`
	Clubs []models.Club `json:"clubs" binding:"required"`
}

// SaveBag replaces the active bag
// PUT /api/v1/bag
func (h *CaddyHandler) SaveBag(c *gin.Context) {
	var req saveBagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid bag", err.Error())
		return
	}

	bag, err := h.caddy.SaveBag(c.Request.Context(), models.BagProfile{Name: req.Name, IsActive: true}, req.Clubs)
	if err != nil {
		utils.SendDomainError(c, "Failed to save bag", err)
		return
	}
	utils.SendSuccess(c, bag)
}
