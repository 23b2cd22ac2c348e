package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ShotPurger interface {
	EnforceRetentionPolicy(ctx context.Context) (int64, error)
}

type PatternPurger interface {
	DeleteStalePatterns(ctx context.Context) (int64, error)
}

// RetentionScheduler periodically purges old shots and stale patterns
type RetentionScheduler struct {
	shots     ShotPurger
	patterns  PatternPurger
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	timeout   time.Duration
	mu        sync.Mutex
	isRunning bool
}

func NewRetentionScheduler(shots ShotPurger, patterns PatternPurger, schedule string, logger *logrus.Logger) *RetentionScheduler {
	return &RetentionScheduler{
		shots:    shots,
		patterns: patterns,
		logger:   logger,
		cron:     cron.New(cron.WithLogger(cron.VerbosePrintfLogger(logger))),
		schedule: schedule,
		timeout:  5 * time.Minute,
	}
}

// Start schedules the retention job
func (s *RetentionScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("retention scheduler is already running")
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, _, err := s.RunOnce(ctx); err != nil {
			s.logger.WithError(err).Error("Retention run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention job %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithField("schedule", s.schedule).Info("Retention scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Retention scheduler stopped")
}

// RunOnce purges shots outside retention, then stale patterns.
func (s *RetentionScheduler) RunOnce(ctx context.Context) (shots int64, patterns int64, err error) {
	shots, err = s.shots.EnforceRetentionPolicy(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to enforce shot retention: %w", err)
	}
	patterns, err = s.patterns.DeleteStalePatterns(ctx)
	if err != nil {
		return shots, 0, fmt.Errorf("failed to delete stale patterns: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"shots_purged":    shots,
		"patterns_purged": patterns,
	}).Info("Retention run complete")
	return shots, patterns, nil
}
