package repository

import (
	"context"
	"fmt"

	"github.com/stitts-dev/golf-caddy/internal/models"
)

// PrerequisiteChecker answers prerequisite queries from the stored data.
// A course counts as selected when the active round is on a course.
type PrerequisiteChecker struct {
	readiness *ReadinessRepository
	rounds    *RoundRepository
	bags      *BagRepository
}

func NewPrerequisiteChecker(readiness *ReadinessRepository, rounds *RoundRepository, bags *BagRepository) *PrerequisiteChecker {
	return &PrerequisiteChecker{readiness: readiness, rounds: rounds, bags: bags}
}

// CheckAll returns the unmet subset of required, in the order given.
func (c *PrerequisiteChecker) CheckAll(ctx context.Context, required []models.Prerequisite) ([]models.Prerequisite, error) {
	var missing []models.Prerequisite
	var round *models.Round
	roundLoaded := false

	loadRound := func() (*models.Round, error) {
		if roundLoaded {
			return round, nil
		}
		r, err := c.rounds.GetActiveRound(ctx)
		if err != nil {
			return nil, err
		}
		round, roundLoaded = r, true
		return round, nil
	}

	for _, p := range required {
		met, err := c.check(ctx, p, loadRound)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", p, err)
		}
		if !met {
			missing = append(missing, p)
		}
	}
	return missing, nil
}

func (c *PrerequisiteChecker) check(ctx context.Context, p models.Prerequisite, loadRound func() (*models.Round, error)) (bool, error) {
	switch p {
	case models.PrereqRecoveryData:
		score, err := c.readiness.GetMostRecent(ctx)
		return score != nil, err
	case models.PrereqRoundActive:
		round, err := loadRound()
		return round != nil && round.IsActive(), err
	case models.PrereqCourseSelected:
		round, err := loadRound()
		return round != nil && round.CourseID != "", err
	case models.PrereqBagConfigured:
		bag, err := c.bags.GetActiveBag(ctx)
		if err != nil || bag == nil {
			return false, err
		}
		clubs, err := c.bags.GetClubsForBag(ctx, bag.ID)
		return len(clubs) > 0, err
	default:
		return false, fmt.Errorf("unknown prerequisite %q", p)
	}
}
