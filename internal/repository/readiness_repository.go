package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/database"
)

type ReadinessRepository struct {
	db *database.DB
}

func NewReadinessRepository(db *database.DB) *ReadinessRepository {
	return &ReadinessRepository{db: db}
}

// GetMostRecent returns the latest score, or nil when none has been recorded.
func (r *ReadinessRepository) GetMostRecent(ctx context.Context) (*models.ReadinessScore, error) {
	var rec ReadinessRecord
	err := r.db.WithContext(ctx).Order("timestamp DESC").Order("id DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load readiness: %w", err)
	}
	score := rec.toModel()
	return &score, nil
}

func (r *ReadinessRepository) SaveReadiness(ctx context.Context, score models.ReadinessScore) error {
	if err := score.Validate(); err != nil {
		return err
	}
	rec := ReadinessRecord{
		Overall:   score.Overall,
		Breakdown: datatypes.NewJSONType(score.Breakdown),
		Source:    string(score.Source),
		Timestamp: score.Timestamp.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save readiness: %w", err)
	}
	return nil
}
