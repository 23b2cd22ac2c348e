package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/database"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

type BagRepository struct {
	db *database.DB
}

func NewBagRepository(db *database.DB) *BagRepository {
	return &BagRepository{db: db}
}

// GetActiveBag returns the active bag, or nil when none is configured.
func (r *BagRepository) GetActiveBag(ctx context.Context) (*models.BagProfile, error) {
	var rec BagRecord
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("updated_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active bag: %w", err)
	}
	return &models.BagProfile{ID: rec.ID, Name: rec.Name, IsActive: rec.IsActive}, nil
}

// GetClubsForBag returns the bag's clubs, longest carry first.
func (r *BagRepository) GetClubsForBag(ctx context.Context, bagID string) ([]models.Club, error) {
	var recs []ClubRecord
	err := r.db.WithContext(ctx).
		Where("bag_id = ?", bagID).
		Order("estimated_carry DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load clubs for bag %s: %w", bagID, err)
	}
	clubs := make([]models.Club, 0, len(recs))
	for _, rec := range recs {
		clubs = append(clubs, models.Club{
			ID:             rec.ID,
			Name:           rec.Name,
			Type:           models.ClubType(rec.Type),
			EstimatedCarry: rec.EstimatedCarry,
		})
	}
	return clubs, nil
}

// SaveBag replaces a bag and its clubs. An active bag deactivates every other bag.
func (r *BagRepository) SaveBag(ctx context.Context, bag models.BagProfile, clubs []models.Club) (models.BagProfile, error) {
	if bag.Name == "" {
		return models.BagProfile{}, utils.InvalidInput("bag name is required")
	}
	if bag.ID == "" {
		bag.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if bag.IsActive {
			if err := tx.Model(&BagRecord{}).Where("id <> ?", bag.ID).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		rec := BagRecord{ID: bag.ID, Name: bag.Name, IsActive: bag.IsActive}
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := tx.Where("bag_id = ?", bag.ID).Delete(&ClubRecord{}).Error; err != nil {
			return err
		}
		for _, c := range clubs {
			club := ClubRecord{ID: c.ID, BagID: bag.ID, Name: c.Name, Type: string(c.Type), EstimatedCarry: c.EstimatedCarry}
			if club.ID == "" {
				club.ID = uuid.NewString()
			}
			if err := tx.Create(&club).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.BagProfile{}, fmt.Errorf("failed to save bag: %w", err)
	}
	return bag, nil
}

type RoundRepository struct {
	db  *database.DB
	now func() time.Time
}

func NewRoundRepository(db *database.DB, now func() time.Time) *RoundRepository {
	if now == nil {
		now = time.Now
	}
	return &RoundRepository{db: db, now: now}
}

// GetActiveRound returns the most recently started unfinished round, or nil.
func (r *RoundRepository) GetActiveRound(ctx context.Context) (*models.Round, error) {
	var rec RoundRecord
	err := r.db.WithContext(ctx).Where("ended_at IS NULL").Order("started_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active round: %w", err)
	}
	round := rec.toModel()
	return &round, nil
}

// StartRound ends any open round and starts a new one on courseID.
func (r *RoundRepository) StartRound(ctx context.Context, courseID string) (models.Round, error) {
	now := r.now().UTC()
	rec := RoundRecord{ID: uuid.NewString(), CourseID: courseID, StartedAt: now}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&RoundRecord{}).Where("ended_at IS NULL").Update("ended_at", now).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return models.Round{}, fmt.Errorf("failed to start round: %w", err)
	}
	return rec.toModel(), nil
}

func (r *RoundRepository) EndRound(ctx context.Context, roundID string) error {
	result := r.db.WithContext(ctx).Model(&RoundRecord{}).
		Where("id = ? AND ended_at IS NULL", roundID).
		Update("ended_at", r.now().UTC())
	if result.Error != nil {
		return fmt.Errorf("failed to end round: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: no open round %s", utils.ErrNotFound, roundID)
	}
	return nil
}
