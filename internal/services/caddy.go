package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/golf-caddy/internal/conditions"
	"github.com/stitts-dev/golf-caddy/internal/course"
	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/navigation"
	"github.com/stitts-dev/golf-caddy/internal/patterns"
	"github.com/stitts-dev/golf-caddy/internal/readiness"
	"github.com/stitts-dev/golf-caddy/internal/routing"
	"github.com/stitts-dev/golf-caddy/internal/strategy"
	"github.com/stitts-dev/golf-caddy/pkg/logger"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const courseCacheTTL = time.Hour

type ShotStore interface {
	RecordShot(ctx context.Context, shot models.Shot) (models.Shot, error)
	GetRecentShots(ctx context.Context, days int) ([]models.Shot, error)
	GetShotsByClub(ctx context.Context, clubID string) ([]models.Shot, error)
	GetShotsWithPressure(ctx context.Context) ([]models.Shot, error)
}

type PatternStore interface {
	GetMissPatterns(ctx context.Context) ([]models.MissPattern, error)
	UpdatePattern(ctx context.Context, p models.MissPattern) error
}

type ReadinessStore interface {
	GetMostRecent(ctx context.Context) (*models.ReadinessScore, error)
	SaveReadiness(ctx context.Context, score models.ReadinessScore) error
}

type BagStore interface {
	GetActiveBag(ctx context.Context) (*models.BagProfile, error)
	GetClubsForBag(ctx context.Context, bagID string) ([]models.Club, error)
	SaveBag(ctx context.Context, bag models.BagProfile, clubs []models.Club) (models.BagProfile, error)
}

type RoundStore interface {
	GetActiveRound(ctx context.Context) (*models.Round, error)
	StartRound(ctx context.Context, courseID string) (models.Round, error)
	EndRound(ctx context.Context, roundID string) error
}

type CourseStore interface {
	GetCourse(ctx context.Context, id string) (models.Course, error)
}

// WeatherSource supplies current conditions; failures are treated as "no weather".
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, loc models.Location) (models.WeatherData, error)
}

// CaddyDeps groups the collaborators of CaddyService. Weather, Classifier and Cache are optional.
type CaddyDeps struct {
	Shots        ShotStore
	Patterns     PatternStore
	Readiness    ReadinessStore
	Bags         BagStore
	Rounds       RoundStore
	Courses      CourseStore
	Weather      WeatherSource
	Classifier   routing.IntentClassifier
	Orchestrator *routing.Orchestrator
	Executor     *navigation.Executor
	Aggregator   *patterns.Aggregator
	Engine       *strategy.Engine
	Cache        *CacheService
}

// CaddyService is the boundary between the host application and the decision core.
// It gathers inputs, applies fallbacks for missing data and calls the pure engines.
type CaddyService struct {
	deps            CaddyDeps
	defaultHandicap int
	logger          *logrus.Logger
	now             func() time.Time
}

func NewCaddyService(deps CaddyDeps, defaultHandicap int, log *logrus.Logger, now func() time.Time) *CaddyService {
	if now == nil {
		now = time.Now
	}
	if deps.Aggregator == nil {
		deps.Aggregator = patterns.NewAggregator(patterns.DefaultWindow())
	}
	if deps.Engine == nil {
		deps.Engine = strategy.NewEngine(now)
	}
	if deps.Orchestrator == nil {
		deps.Orchestrator = routing.NewOrchestrator(nil)
	}
	if deps.Executor == nil {
		deps.Executor = navigation.NewExecutor()
	}
	return &CaddyService{
		deps:            deps,
		defaultHandicap: defaultHandicap,
		logger:          log,
		now:             now,
	}
}

func (s *CaddyService) log() *logrus.Entry {
	return logger.WithComponent(s.logger, "caddy_service")
}

// RecordShot persists one logged shot.
func (s *CaddyService) RecordShot(ctx context.Context, shot models.Shot) (models.Shot, error) {
	if shot.Timestamp.IsZero() {
		shot.Timestamp = s.now()
	}
	saved, err := s.deps.Shots.RecordShot(ctx, shot)
	if err != nil {
		return models.Shot{}, err
	}
	s.log().WithFields(logrus.Fields{
		"shot_id":   saved.ID,
		"club_id":   saved.Club.ID,
		"miss":      saved.MissDirection,
		"hole":      saved.HoleNumber,
		"pressured": saved.PressureContext.HasPressure(),
	}).Debug("Recorded shot")
	return saved, nil
}

// RefreshPatterns re-aggregates the shot window overall, per club seen in the window and
// under pressure, upserts every emitted pattern and returns the current significant set.
func (s *CaddyService) RefreshPatterns(ctx context.Context) ([]models.MissPattern, error) {
	window := s.deps.Aggregator.Window()
	now := s.now()

	var shots, pressured []models.Shot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.deps.Shots.GetRecentShots(gctx, window.Days)
		if err != nil {
			return fmt.Errorf("failed to load recent shots: %w", err)
		}
		shots = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.deps.Shots.GetShotsWithPressure(gctx)
		if err != nil {
			return fmt.Errorf("failed to load pressure shots: %w", err)
		}
		pressured = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	emitted := s.deps.Aggregator.Aggregate(shots, now)
	for _, club := range distinctClubs(shots) {
		// the club history is not limited to the recent window; Aggregate bounds it
		byClub, err := s.deps.Shots.GetShotsByClub(ctx, club.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load shots for club %s: %w", club.ID, err)
		}
		emitted = append(emitted, s.deps.Aggregator.AggregateForClub(byClub, club, now)...)
	}
	emitted = append(emitted, s.deps.Aggregator.AggregateUnderPressure(pressured, now)...)

	for _, p := range emitted {
		if err := s.deps.Patterns.UpdatePattern(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to store %s pattern: %w", p.Direction, err)
		}
	}

	s.log().WithFields(logrus.Fields{
		"shots":     len(shots),
		"pressured": len(pressured),
		"emitted":   len(emitted),
	}).Info("Refreshed miss patterns")

	return patterns.Current(emitted, now), nil
}

func distinctClubs(shots []models.Shot) []models.Club {
	seen := make(map[string]bool)
	var clubs []models.Club
	for _, s := range shots {
		if s.Club.ID == "" || seen[s.Club.ID] {
			continue
		}
		seen[s.Club.ID] = true
		clubs = append(clubs, s.Club)
	}
	return clubs
}

// CurrentPatterns returns stored significant patterns, or none when the store is unavailable.
func (s *CaddyService) CurrentPatterns(ctx context.Context) []models.MissPattern {
	stored, err := s.deps.Patterns.GetMissPatterns(ctx)
	if err != nil {
		s.log().WithError(err).Warn("Miss patterns unavailable, planning without them")
		return nil
	}
	return stored
}

// Readiness returns the latest score, or the neutral default when none is available.
func (s *CaddyService) Readiness(ctx context.Context) models.ReadinessScore {
	score, err := s.deps.Readiness.GetMostRecent(ctx)
	if err != nil {
		s.log().WithError(err).Warn("Readiness unavailable, using default")
		return models.DefaultReadiness(s.now())
	}
	if score == nil {
		return models.DefaultReadiness(s.now())
	}
	return *score
}

// RecordReadiness scores the supplied metrics and persists the result.
func (s *CaddyService) RecordReadiness(ctx context.Context, in readiness.Input) (models.ReadinessScore, error) {
	if in.Timestamp.IsZero() {
		in.Timestamp = s.now()
	}
	score, err := readiness.Score(in)
	if err != nil {
		return models.ReadinessScore{}, err
	}
	if err := s.deps.Readiness.SaveReadiness(ctx, score); err != nil {
		return models.ReadinessScore{}, err
	}
	s.log().WithFields(logrus.Fields{
		"overall": score.Overall,
		"source":  score.Source,
	}).Info("Recorded readiness")
	return score, nil
}

// StrategyRequest identifies the hole to plan.
type StrategyRequest struct {
	CourseID   string           `json:"course_id" binding:"required"`
	HoleNumber int              `json:"hole_number" binding:"required"`
	Handicap   *int             `json:"handicap,omitempty"`
	Location   *models.Location `json:"location,omitempty"`
	// TargetBearing overrides the tee to pin bearing from the course data.
	TargetBearing *int `json:"target_bearing,omitempty"`
}

// ShotStrategy gathers readiness, patterns, clubs and weather concurrently and computes the
// hole strategy. A missing hole or an out of range bearing override is fatal; every other
// input falls back.
func (s *CaddyService) ShotStrategy(ctx context.Context, req StrategyRequest) (strategy.Strategy, error) {
	if b := req.TargetBearing; b != nil && (*b < 0 || *b > 359) {
		return strategy.Strategy{}, utils.InvalidInput("target bearing %d outside [0,359]", *b)
	}

	c, err := s.course(ctx, req.CourseID)
	if err != nil {
		return strategy.Strategy{}, err
	}
	hole, ok := findHole(c, req.HoleNumber)
	if !ok {
		return strategy.Strategy{}, fmt.Errorf("%w: hole %d on course %s", utils.ErrNotFound, req.HoleNumber, req.CourseID)
	}

	handicap := s.defaultHandicap
	if req.Handicap != nil {
		handicap = *req.Handicap
	}
	loc := c.Location
	if req.Location != nil {
		loc = *req.Location
	}

	var (
		score   models.ReadinessScore
		current []models.MissPattern
		clubs   []models.Club
		weather *models.WeatherData
	)

	// Each branch swallows its own error so one failure does not cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		score = s.Readiness(gctx)
		return nil
	})
	g.Go(func() error {
		current = s.CurrentPatterns(gctx)
		return nil
	})
	g.Go(func() error {
		clubs = s.activeClubs(gctx)
		return nil
	})
	g.Go(func() error {
		weather = s.currentWeather(gctx, loc)
		return nil
	})
	_ = g.Wait()

	in := strategy.Input{
		Hole:      hole,
		Handicap:  handicap,
		Readiness: score,
		Patterns:  current,
		Clubs:     clubs,
	}
	if weather != nil {
		in.Conditions = s.adjustment(*weather, hole, req.TargetBearing)
	}

	plan, err := s.deps.Engine.Compute(in)
	if err != nil {
		return strategy.Strategy{}, err
	}

	s.log().WithFields(logrus.Fields{
		"course_id":     req.CourseID,
		"hole":          hole.Number,
		"dominant_miss": plan.PersonalizedFor.DominantMiss,
		"readiness":     score.Overall,
		"has_weather":   plan.Conditions != nil,
	}).Info("Computed shot strategy")

	return plan, nil
}

func (s *CaddyService) course(ctx context.Context, courseID string) (models.Course, error) {
	if s.deps.Cache == nil {
		return s.deps.Courses.GetCourse(ctx, courseID)
	}

	var c models.Course
	hit, err := s.deps.Cache.Remember(ctx, CourseCacheKey(courseID), courseCacheTTL, &c, func() (interface{}, error) {
		return s.deps.Courses.GetCourse(ctx, courseID)
	})
	if err != nil {
		return models.Course{}, err
	}
	s.log().WithFields(logrus.Fields{"course_id": courseID, "cache_hit": hit}).Debug("Loaded course")
	return c, nil
}

func findHole(c models.Course, number int) (models.CourseHole, bool) {
	for _, h := range c.Holes {
		if h.Number == number {
			return h, true
		}
	}
	return models.CourseHole{}, false
}

func (s *CaddyService) activeClubs(ctx context.Context) []models.Club {
	bag, err := s.deps.Bags.GetActiveBag(ctx)
	if err != nil {
		s.log().WithError(err).Warn("Bag unavailable, planning without club distances")
		return nil
	}
	if bag == nil {
		return nil
	}
	clubs, err := s.deps.Bags.GetClubsForBag(ctx, bag.ID)
	if err != nil {
		s.log().WithError(err).Warn("Clubs unavailable, planning without club distances")
		return nil
	}
	return clubs
}

func (s *CaddyService) currentWeather(ctx context.Context, loc models.Location) *models.WeatherData {
	if s.deps.Weather == nil {
		return nil
	}
	w, err := s.deps.Weather.GetCurrentWeather(ctx, loc)
	if err != nil {
		s.log().WithError(err).Warn("Weather unavailable, planning without conditions")
		return nil
	}
	return &w
}

func (s *CaddyService) adjustment(w models.WeatherData, hole models.CourseHole, override *int) *conditions.Adjustment {
	bearing, ok := course.HoleBearing(hole)
	if override != nil {
		bearing, ok = *override, true
	}
	if !ok {
		s.log().WithField("hole", hole.Number).Debug("No target bearing, skipping conditions")
		return nil
	}

	adj, err := conditions.Adjust(w, bearing, float64(strategy.IdealDistance(hole)))
	if err != nil {
		s.log().WithError(err).Warn("Could not adjust for conditions")
		return nil
	}
	return &adj
}

// UtteranceResult is everything produced while handling one utterance.
type UtteranceResult struct {
	Classification routing.ClassificationResult `json:"-"`
	Routing        routing.RoutingResult        `json:"-"`
	Action         navigation.Action            `json:"-"`
}

// HandleUtterance classifies free text, applies prerequisite gates and resolves the action.
func (s *CaddyService) HandleUtterance(ctx context.Context, input string) (UtteranceResult, error) {
	if s.deps.Classifier == nil {
		return UtteranceResult{}, fmt.Errorf("%w: no intent classifier configured", utils.ErrUnavailable)
	}

	classification := s.deps.Classifier.Classify(ctx, input, s.classificationContext(ctx))
	if failed, ok := classification.(routing.ClassificationFailed); ok {
		s.log().WithError(failed.Cause).Warn("Classification failed")
	}
	if r, ok := classification.(routing.Route); ok {
		logger.WithIntentContext(r.Intent.IntentID, string(r.Intent.IntentType), r.Intent.Confidence).
			Debug("Routing intent")
	}

	routed := s.deps.Orchestrator.Route(ctx, classification)
	action := s.deps.Executor.Execute(routed)

	if nf, ok := action.(navigation.NavigationFailed); ok {
		s.log().WithError(nf.Err).Error("Navigation failed")
	}

	return UtteranceResult{
		Classification: classification,
		Routing:        routed,
		Action:         action,
	}, nil
}

func (s *CaddyService) classificationContext(ctx context.Context) routing.ClassificationContext {
	var cc routing.ClassificationContext

	if round, err := s.deps.Rounds.GetActiveRound(ctx); err == nil && round != nil {
		cc.RoundActive = true
		if round.CourseID != "" {
			if c, err := s.course(ctx, round.CourseID); err == nil {
				cc.CourseName = c.Name
			}
		}
	}
	if bag, err := s.deps.Bags.GetActiveBag(ctx); err == nil && bag != nil {
		if clubs, err := s.deps.Bags.GetClubsForBag(ctx, bag.ID); err == nil {
			cc.BagConfigured = len(clubs) > 0
		}
	}
	if score, err := s.deps.Readiness.GetMostRecent(ctx); err == nil {
		cc.HasRecoveryLog = score != nil
	}
	return cc
}

// StartRound ends any open round and starts a new one.
func (s *CaddyService) StartRound(ctx context.Context, courseID string) (models.Round, error) {
	if courseID != "" {
		if _, err := s.course(ctx, courseID); err != nil {
			return models.Round{}, err
		}
	}
	round, err := s.deps.Rounds.StartRound(ctx, courseID)
	if err != nil {
		return models.Round{}, err
	}
	logger.WithPlayerContext(round.ID, 0).Info("Round started")
	return round, nil
}

func (s *CaddyService) EndRound(ctx context.Context, roundID string) error {
	return s.deps.Rounds.EndRound(ctx, roundID)
}

// SaveBag replaces the active bag.
func (s *CaddyService) SaveBag(ctx context.Context, bag models.BagProfile, clubs []models.Club) (models.BagProfile, error) {
	if len(clubs) == 0 {
		return models.BagProfile{}, utils.InvalidInput("a bag needs at least one club")
	}
	return s.deps.Bags.SaveBag(ctx, bag, clubs)
}
