package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/database"
)

// DefaultRetentionDays is how long shots and patterns are kept.
const DefaultRetentionDays = 90

type ShotRepository struct {
	db            *database.DB
	now           func() time.Time
	retentionDays int
}

func NewShotRepository(db *database.DB, now func() time.Time, retentionDays int) *ShotRepository {
	if now == nil {
		now = time.Now
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &ShotRepository{db: db, now: now, retentionDays: retentionDays}
}

// RecordShot validates and stores a shot. Shots are immutable, so an existing id is an error.
func (r *ShotRepository) RecordShot(ctx context.Context, shot models.Shot) (models.Shot, error) {
	if shot.ID == "" {
		shot.ID = uuid.NewString()
	}
	if err := shot.Validate(); err != nil {
		return models.Shot{}, err
	}
	rec := shotRecordFrom(shot)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Shot{}, fmt.Errorf("failed to record shot: %w", err)
	}
	return rec.toModel(), nil
}

// GetRecentShots returns shots from the last days days, newest first.
func (r *ShotRepository) GetRecentShots(ctx context.Context, days int) ([]models.Shot, error) {
	cutoff := r.now().AddDate(0, 0, -days).UTC()
	var recs []ShotRecord
	err := r.db.WithContext(ctx).
		Where("timestamp > ?", cutoff).
		Order("timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent shots: %w", err)
	}
	return toShots(recs), nil
}

func (r *ShotRepository) GetShotsByClub(ctx context.Context, clubID string) ([]models.Shot, error) {
	var recs []ShotRecord
	err := r.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shots for club %s: %w", clubID, err)
	}
	return toShots(recs), nil
}

func (r *ShotRepository) GetShotsWithPressure(ctx context.Context) ([]models.Shot, error) {
	var recs []ShotRecord
	err := r.db.WithContext(ctx).
		Where("is_user_tagged = ? OR is_inferred = ?", true, true).
		Order("timestamp DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pressure shots: %w", err)
	}
	return toShots(recs), nil
}

// EnforceRetentionPolicy deletes shots older than the retention window and returns how many.
func (r *ShotRepository) EnforceRetentionPolicy(ctx context.Context) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -r.retentionDays).UTC()
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&ShotRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to enforce shot retention: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toShots(recs []ShotRecord) []models.Shot {
	shots := make([]models.Shot, 0, len(recs))
	for _, rec := range recs {
		shots = append(shots, rec.toModel())
	}
	return shots
}
