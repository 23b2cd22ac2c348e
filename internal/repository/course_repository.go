package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/database"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

type CourseRepository struct {
	db *database.DB
}

func NewCourseRepository(db *database.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// SaveCourse upserts a course and all of its holes.
func (r *CourseRepository) SaveCourse(ctx context.Context, course models.Course) error {
	if course.ID == "" {
		return utils.InvalidInput("course id is required")
	}
	for _, h := range course.Holes {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("course %s hole %d: %w", course.ID, h.Number, err)
		}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := CourseRecord{
			ID:           course.ID,
			Name:         course.Name,
			Latitude:     course.Location.Latitude,
			Longitude:    course.Location.Longitude,
			LocationName: course.Location.Name,
		}
		if err := tx.Omit("Holes").Save(&rec).Error; err != nil {
			return err
		}
		for _, h := range course.Holes {
			hole := holeRecordFrom(course.ID, h)
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "course_id"}, {Name: "number"}},
				DoUpdates: clause.AssignmentColumns([]string{"par", "length_meters", "hazards", "tee_lat", "tee_lng", "pin_lat", "pin_lng"}),
			}).Create(&hole).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save course %s: %w", course.ID, err)
	}
	return nil
}

func (r *CourseRepository) GetCourse(ctx context.Context, id string) (models.Course, error) {
	var rec CourseRecord
	err := r.db.WithContext(ctx).
		Preload("Holes", func(db *gorm.DB) *gorm.DB { return db.Order("number ASC") }).
		First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Course{}, fmt.Errorf("%w: course %s", utils.ErrNotFound, id)
	}
	if err != nil {
		return models.Course{}, fmt.Errorf("failed to load course %s: %w", id, err)
	}

	course := models.Course{
		ID:   rec.ID,
		Name: rec.Name,
		Location: models.Location{
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Name:      rec.LocationName,
		},
		Holes: make([]models.CourseHole, 0, len(rec.Holes)),
	}
	for _, h := range rec.Holes {
		course.Holes = append(course.Holes, h.toModel())
	}
	return course, nil
}

func (r *CourseRepository) GetHole(ctx context.Context, courseID string, number int) (models.CourseHole, error) {
	var rec HoleRecord
	err := r.db.WithContext(ctx).Where("course_id = ? AND number = ?", courseID, number).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.CourseHole{}, fmt.Errorf("%w: hole %d of course %s", utils.ErrNotFound, number, courseID)
	}
	if err != nil {
		return models.CourseHole{}, fmt.Errorf("failed to load hole: %w", err)
	}
	return rec.toModel(), nil
}
