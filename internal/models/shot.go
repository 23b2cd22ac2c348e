package models

import (
	"time"

	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// ClubType groups clubs by family
type ClubType string

const (
	ClubDriver ClubType = "DRIVER"
	ClubWood   ClubType = "WOOD"
	ClubHybrid ClubType = "HYBRID"
	ClubIron   ClubType = "IRON"
	ClubWedge  ClubType = "WEDGE"
	ClubPutter ClubType = "PUTTER"
)

// Club is one club in a player's bag
type Club struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           ClubType `json:"type"`
	EstimatedCarry int      `json:"estimated_carry,omitempty"` // meters
}

// Lie is where the ball was played from
type Lie string

const (
	LieTee     Lie = "TEE"
	LieFairway Lie = "FAIRWAY"
	LieRough   Lie = "ROUGH"
	LieBunker  Lie = "BUNKER"
	LieGreen   Lie = "GREEN"
	LieFringe  Lie = "FRINGE"
	LieHazard  Lie = "HAZARD"
)

// MissDirection describes how a shot missed its target
type MissDirection string

const (
	MissNone     MissDirection = ""
	MissPush     MissDirection = "PUSH"
	MissPull     MissDirection = "PULL"
	MissSlice    MissDirection = "SLICE"
	MissHook     MissDirection = "HOOK"
	MissFat      MissDirection = "FAT"
	MissThin     MissDirection = "THIN"
	MissStraight MissDirection = "STRAIGHT"
)

var missDirections = map[MissDirection]bool{
	MissPush: true, MissPull: true, MissSlice: true, MissHook: true,
	MissFat: true, MissThin: true, MissStraight: true,
}

// Valid reports whether d is a known direction. MissNone is valid for shots.
func (d MissDirection) Valid() bool {
	return d == MissNone || missDirections[d]
}

// IsMiss reports whether d counts as a miss for pattern purposes.
func (d MissDirection) IsMiss() bool {
	return d != MissNone && d != MissStraight && missDirections[d]
}

// PressureContext records whether a shot was hit under pressure
type PressureContext struct {
	IsUserTagged   bool    `json:"is_user_tagged"`
	IsInferred     bool    `json:"is_inferred"`
	ScoringContext *string `json:"scoring_context,omitempty"`
}

func (p PressureContext) HasPressure() bool {
	return p.IsUserTagged || p.IsInferred
}

// Shot is an immutable record of one logged shot
type Shot struct {
	ID              string          `json:"id"`
	Club            Club            `json:"club"`
	Lie             Lie             `json:"lie"`
	MissDirection   MissDirection   `json:"miss_direction,omitempty"`
	HoleNumber      int             `json:"hole_number"`
	PressureContext PressureContext `json:"pressure_context"`
	Timestamp       time.Time       `json:"timestamp"`
}

func (s Shot) Validate() error {
	if s.Club.ID == "" {
		return utils.InvalidInput("shot club id is required")
	}
	switch s.Lie {
	case LieTee, LieFairway, LieRough, LieBunker, LieGreen, LieFringe, LieHazard:
	default:
		return utils.InvalidInput("unknown lie %q", s.Lie)
	}
	if !s.MissDirection.Valid() {
		return utils.InvalidInput("unknown miss direction %q", s.MissDirection)
	}
	if s.HoleNumber < 1 || s.HoleNumber > 18 {
		return utils.InvalidInput("hole number %d outside [1,18]", s.HoleNumber)
	}
	if s.Timestamp.IsZero() {
		return utils.InvalidInput("shot timestamp is required")
	}
	return nil
}
