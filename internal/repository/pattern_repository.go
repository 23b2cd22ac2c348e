package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/patterns"
	"github.com/stitts-dev/golf-caddy/pkg/database"
)

type PatternRepository struct {
	db            *database.DB
	now           func() time.Time
	retentionDays int
}

func NewPatternRepository(db *database.DB, now func() time.Time, retentionDays int) *PatternRepository {
	if now == nil {
		now = time.Now
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &PatternRepository{db: db, now: now, retentionDays: retentionDays}
}

// GetMissPatterns returns stored patterns decayed to now, noise removed, strongest first.
func (r *PatternRepository) GetMissPatterns(ctx context.Context) ([]models.MissPattern, error) {
	var recs []PatternRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load miss patterns: %w", err)
	}
	now := r.now()
	stored := make([]models.MissPattern, 0, len(recs))
	for _, rec := range recs {
		stored = append(stored, rec.toModel(now))
	}
	return patterns.Current(stored, now), nil
}

// UpdatePattern upserts by direction, club and pressure. The stored id of an existing
// pattern wins over the incoming one.
func (r *PatternRepository) UpdatePattern(ctx context.Context, p models.MissPattern) error {
	if !p.Direction.IsMiss() {
		return fmt.Errorf("failed to update pattern: direction %q is not a miss", p.Direction)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	rec := patternRecordFrom(p)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "direction"}, {Name: "club_key"}, {Name: "pressure_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"club_name", "club_type", "frequency", "base_confidence",
			"pressure_tagged", "pressure_inferred", "scoring_context",
			"last_occurrence", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to update pattern: %w", err)
	}
	return nil
}

// DeleteStalePatterns removes patterns that decayed below significance or whose last
// occurrence fell out of retention.
func (r *PatternRepository) DeleteStalePatterns(ctx context.Context) (int64, error) {
	var recs []PatternRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		return 0, fmt.Errorf("failed to load miss patterns: %w", err)
	}

	now := r.now()
	cutoff := now.AddDate(0, 0, -r.retentionDays)
	var stale []string
	for _, rec := range recs {
		p := rec.toModel(now)
		if !p.IsSignificant(now) || p.LastOccurrence.Before(cutoff) {
			stale = append(stale, rec.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", stale).Delete(&PatternRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale patterns: %w", result.Error)
	}
	return result.RowsAffected, nil
}
