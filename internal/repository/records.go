// Package repository persists caddy data with gorm.
package repository

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/stitts-dev/golf-caddy/internal/models"
)

// ShotRecord is the stored form of models.Shot
type ShotRecord struct {
	ID             string    `gorm:"primaryKey;size:36"`
	ClubID         string    `gorm:"size:64;not null;index"`
	ClubName       string    `gorm:"size:100"`
	ClubType       string    `gorm:"size:20"`
	Lie            string    `gorm:"size:20;not null"`
	MissDirection  string    `gorm:"size:20"`
	HoleNumber     int       `gorm:"not null"`
	IsUserTagged   bool      `gorm:"default:false;index:idx_shot_pressure"`
	IsInferred     bool      `gorm:"default:false;index:idx_shot_pressure"`
	ScoringContext *string   `gorm:"type:text"`
	Timestamp      time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
}

func (ShotRecord) TableName() string {
	return "shots"
}

func shotRecordFrom(s models.Shot) ShotRecord {
	return ShotRecord{
		ID:             s.ID,
		ClubID:         s.Club.ID,
		ClubName:       s.Club.Name,
		ClubType:       string(s.Club.Type),
		Lie:            string(s.Lie),
		MissDirection:  string(s.MissDirection),
		HoleNumber:     s.HoleNumber,
		IsUserTagged:   s.PressureContext.IsUserTagged,
		IsInferred:     s.PressureContext.IsInferred,
		ScoringContext: s.PressureContext.ScoringContext,
		Timestamp:      s.Timestamp.UTC(),
	}
}

func (r ShotRecord) toModel() models.Shot {
	return models.Shot{
		ID:            r.ID,
		Club:          models.Club{ID: r.ClubID, Name: r.ClubName, Type: models.ClubType(r.ClubType)},
		Lie:           models.Lie(r.Lie),
		MissDirection: models.MissDirection(r.MissDirection),
		HoleNumber:    r.HoleNumber,
		PressureContext: models.PressureContext{
			IsUserTagged:   r.IsUserTagged,
			IsInferred:     r.IsInferred,
			ScoringContext: r.ScoringContext,
		},
		Timestamp: r.Timestamp.UTC(),
	}
}

// PatternRecord stores the undecayed base confidence. ClubKey and PressureKey identify the
// aggregation a pattern came from and are empty for the overall aggregation.
type PatternRecord struct {
	ID               string    `gorm:"primaryKey;size:36"`
	Direction        string    `gorm:"size:20;not null;uniqueIndex:idx_pattern_key"`
	ClubKey          string    `gorm:"size:64;not null;default:'';uniqueIndex:idx_pattern_key"`
	PressureKey      string    `gorm:"size:16;not null;default:'';uniqueIndex:idx_pattern_key"`
	ClubName         string    `gorm:"size:100"`
	ClubType         string    `gorm:"size:20"`
	Frequency        int       `gorm:"not null"`
	BaseConfidence   float64   `gorm:"not null"`
	PressureTagged   bool      `gorm:"default:false"`
	PressureInferred bool      `gorm:"default:false"`
	ScoringContext   *string   `gorm:"type:text"`
	LastOccurrence   time.Time `gorm:"not null;index"`
	UpdatedAt        time.Time
}

func (PatternRecord) TableName() string {
	return "miss_patterns"
}

const pressureKey = "pressure"

func patternRecordFrom(p models.MissPattern) PatternRecord {
	rec := PatternRecord{
		ID:             p.ID,
		Direction:      string(p.Direction),
		Frequency:      p.Frequency,
		BaseConfidence: p.BaseConfidence,
		LastOccurrence: p.LastOccurrence.UTC(),
	}
	if p.Club != nil {
		rec.ClubKey = p.Club.ID
		rec.ClubName = p.Club.Name
		rec.ClubType = string(p.Club.Type)
	}
	if p.PressureContext != nil {
		rec.PressureKey = pressureKey
		rec.PressureTagged = p.PressureContext.IsUserTagged
		rec.PressureInferred = p.PressureContext.IsInferred
		rec.ScoringContext = p.PressureContext.ScoringContext
	}
	return rec
}

// toModel rebuilds the pattern with its confidence decayed to now.
func (r PatternRecord) toModel(now time.Time) models.MissPattern {
	p := models.MissPattern{
		ID:             r.ID,
		Direction:      models.MissDirection(r.Direction),
		Frequency:      r.Frequency,
		BaseConfidence: r.BaseConfidence,
		LastOccurrence: r.LastOccurrence.UTC(),
	}
	if r.ClubKey != "" {
		p.Club = &models.Club{ID: r.ClubKey, Name: r.ClubName, Type: models.ClubType(r.ClubType)}
	}
	if r.PressureKey != "" {
		p.PressureContext = &models.PressureContext{
			IsUserTagged:   r.PressureTagged,
			IsInferred:     r.PressureInferred,
			ScoringContext: r.ScoringContext,
		}
	}
	return p.AsOf(now)
}

// ReadinessRecord keeps the breakdown as JSON since its components are optional
type ReadinessRecord struct {
	ID        uint                                          `gorm:"primaryKey"`
	Overall   int                                           `gorm:"not null"`
	Breakdown datatypes.JSONType[models.ReadinessBreakdown] `gorm:"type:json"`
	Source    string                                        `gorm:"size:20;not null"`
	Timestamp time.Time                                     `gorm:"not null;index"`
	CreatedAt time.Time
}

func (ReadinessRecord) TableName() string {
	return "readiness_scores"
}

func (r ReadinessRecord) toModel() models.ReadinessScore {
	return models.ReadinessScore{
		Overall:   r.Overall,
		Breakdown: r.Breakdown.Data(),
		Timestamp: r.Timestamp.UTC(),
		Source:    models.ReadinessSource(r.Source),
	}
}

type BagRecord struct {
	ID        string       `gorm:"primaryKey;size:36"`
	Name      string       `gorm:"size:100;not null"`
	IsActive  bool         `gorm:"default:false;index"`
	Clubs     []ClubRecord `gorm:"foreignKey:BagID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BagRecord) TableName() string {
	return "bags"
}

// ClubRecord is keyed by (bag_id, id) so the same club ids can appear in every bag.
type ClubRecord struct {
	BagID          string `gorm:"primaryKey;size:36"`
	ID             string `gorm:"primaryKey;size:64"`
	Name           string `gorm:"size:100;not null"`
	Type           string `gorm:"size:20;not null"`
	EstimatedCarry int
}

func (ClubRecord) TableName() string {
	return "clubs"
}

type RoundRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	CourseID  string `gorm:"size:64;index"`
	StartedAt time.Time
	EndedAt   *time.Time `gorm:"index"`
}

func (RoundRecord) TableName() string {
	return "rounds"
}

func (r RoundRecord) toModel() models.Round {
	round := models.Round{ID: r.ID, CourseID: r.CourseID, StartedAt: r.StartedAt.UTC()}
	if r.EndedAt != nil {
		ended := r.EndedAt.UTC()
		round.EndedAt = &ended
	}
	return round
}

type CourseRecord struct {
	ID           string `gorm:"primaryKey;size:64"`
	Name         string `gorm:"size:200;not null"`
	Latitude     float64
	Longitude    float64
	LocationName string       `gorm:"size:200"`
	Holes        []HoleRecord `gorm:"foreignKey:CourseID"`
	UpdatedAt    time.Time
}

func (CourseRecord) TableName() string {
	return "courses"
}

type HoleRecord struct {
	ID           uint                                    `gorm:"primaryKey"`
	CourseID     string                                  `gorm:"size:64;not null;uniqueIndex:idx_course_hole"`
	Number       int                                     `gorm:"not null;uniqueIndex:idx_course_hole"`
	Par          int                                     `gorm:"not null"`
	LengthMeters int                                     `gorm:"not null"`
	Hazards      datatypes.JSONType[[]models.HazardZone] `gorm:"type:json"`
	TeeLat       *float64
	TeeLng       *float64
	PinLat       *float64
	PinLng       *float64
}

func (HoleRecord) TableName() string {
	return "course_holes"
}

func holeRecordFrom(courseID string, h models.CourseHole) HoleRecord {
	rec := HoleRecord{
		CourseID:     courseID,
		Number:       h.Number,
		Par:          h.Par,
		LengthMeters: h.LengthMeters,
		Hazards:      datatypes.NewJSONType(h.Hazards),
	}
	if h.Tee != nil {
		rec.TeeLat, rec.TeeLng = &h.Tee.Latitude, &h.Tee.Longitude
	}
	if h.PinPosition != nil {
		rec.PinLat, rec.PinLng = &h.PinPosition.Latitude, &h.PinPosition.Longitude
	}
	return rec
}

func (r HoleRecord) toModel() models.CourseHole {
	hole := models.CourseHole{
		CourseID:     r.CourseID,
		Number:       r.Number,
		Par:          r.Par,
		LengthMeters: r.LengthMeters,
		Hazards:      r.Hazards.Data(),
	}
	if r.TeeLat != nil && r.TeeLng != nil {
		hole.Tee = &models.Location{Latitude: *r.TeeLat, Longitude: *r.TeeLng}
	}
	if r.PinLat != nil && r.PinLng != nil {
		hole.PinPosition = &models.Location{Latitude: *r.PinLat, Longitude: *r.PinLng}
	}
	return hole
}

// AllRecords lists every table owned by this package, in migration order.
func AllRecords() []interface{} {
	return []interface{}{
		&ShotRecord{},
		&PatternRecord{},
		&ReadinessRecord{},
		&BagRecord{},
		&ClubRecord{},
		&RoundRecord{},
		&CourseRecord{},
		&HoleRecord{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllRecords()...)
}
