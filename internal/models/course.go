package models

import (
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// HazardType classifies a hazard on a hole
type HazardType string

const (
	HazardWater        HazardType = "WATER"
	HazardBunker       HazardType = "BUNKER"
	HazardOB           HazardType = "OB"
	HazardPenaltyRough HazardType = "PENALTY_ROUGH"
	HazardTrees        HazardType = "TREES"
	HazardWasteArea    HazardType = "WASTE_AREA"
)

// Severity ranks hazards for callout ordering. Higher is worse.
func (h HazardType) Severity() int {
	switch h {
	case HazardWater, HazardOB:
		return 2
	case HazardBunker, HazardPenaltyRough, HazardTrees, HazardWasteArea:
		return 1
	default:
		return 0
	}
}

// HazardSide is where the hazard sits relative to the line of play
type HazardSide string

const (
	SideLeft   HazardSide = "LEFT"
	SideRight  HazardSide = "RIGHT"
	SideCenter HazardSide = "CENTER"
	SideShort  HazardSide = "SHORT"
	SideLong   HazardSide = "LONG"
)

// DistanceRange is measured in meters from the tee
type DistanceRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

type HazardLocation struct {
	Side          HazardSide    `json:"side" yaml:"side"`
	DistanceRange DistanceRange `json:"distance_range" yaml:"distance_range"`
}

// HazardZone is static reference data for one hazard
type HazardZone struct {
	Type           HazardType      `json:"type" yaml:"type"`
	Location       HazardLocation  `json:"location" yaml:"location"`
	PenaltyStrokes int             `json:"penalty_strokes" yaml:"penalty_strokes"`
	AffectedMisses []MissDirection `json:"affected_misses" yaml:"affected_misses"`
}

// Affects reports whether a miss in direction d brings the hazard into play.
func (h HazardZone) Affects(d MissDirection) bool {
	for _, m := range h.AffectedMisses {
		if m == d {
			return true
		}
	}
	return false
}

// CourseHole describes one hole's geometry
type CourseHole struct {
	CourseID     string       `json:"course_id,omitempty" yaml:"-"`
	Number       int          `json:"number" yaml:"number"`
	Par          int          `json:"par" yaml:"par"`
	LengthMeters int          `json:"length_meters" yaml:"length_meters"`
	Hazards      []HazardZone `json:"hazards" yaml:"hazards"`
	Tee          *Location    `json:"tee,omitempty" yaml:"tee,omitempty"`
	PinPosition  *Location    `json:"pin_position,omitempty" yaml:"pin_position,omitempty"`
}

func (h CourseHole) Validate() error {
	if h.Par < 3 || h.Par > 5 {
		return utils.InvalidInput("par %d not in {3,4,5}", h.Par)
	}
	if h.LengthMeters <= 0 {
		return utils.InvalidInput("hole length %d must be positive", h.LengthMeters)
	}
	if h.Number < 1 || h.Number > 18 {
		return utils.InvalidInput("hole number %d outside [1,18]", h.Number)
	}
	return nil
}

// Course groups holes under a name and a weather location
type Course struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Location Location     `json:"location" yaml:"location"`
	Holes    []CourseHole `json:"holes" yaml:"holes"`
}
