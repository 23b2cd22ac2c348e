package models

import (
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// IntentType is the fixed set of things a player can ask the caddy for
type IntentType string

const (
	IntentShotRecommendation IntentType = "SHOT_RECOMMENDATION"
	IntentClubAdjustment     IntentType = "CLUB_ADJUSTMENT"
	IntentRecoveryCheck      IntentType = "RECOVERY_CHECK"
	IntentScoreEntry         IntentType = "SCORE_ENTRY"
	IntentRoundStart         IntentType = "ROUND_START"
	IntentRoundEnd           IntentType = "ROUND_END"
	IntentCourseInfo         IntentType = "COURSE_INFO"
	IntentWeatherCheck       IntentType = "WEATHER_CHECK"
	IntentStatsLookup        IntentType = "STATS_LOOKUP"
	IntentDrillRequest       IntentType = "DRILL_REQUEST"
	IntentEquipmentInfo      IntentType = "EQUIPMENT_INFO"
	IntentSettingsChange     IntentType = "SETTINGS_CHANGE"
	IntentPatternQuery       IntentType = "PATTERN_QUERY"
	IntentHelpRequest        IntentType = "HELP_REQUEST"
	IntentFeedback           IntentType = "FEEDBACK"
)

// AllIntentTypes lists every intent type in declaration order.
var AllIntentTypes = []IntentType{
	IntentShotRecommendation, IntentClubAdjustment, IntentRecoveryCheck, IntentScoreEntry,
	IntentRoundStart, IntentRoundEnd, IntentCourseInfo, IntentWeatherCheck, IntentStatsLookup,
	IntentDrillRequest, IntentEquipmentInfo, IntentSettingsChange, IntentPatternQuery,
	IntentHelpRequest, IntentFeedback,
}

func (t IntentType) Valid() bool {
	for _, known := range AllIntentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Module is a top-level area of the host application
type Module string

const (
	ModuleCaddy    Module = "CADDY"
	ModuleCoach    Module = "COACH"
	ModuleRecovery Module = "RECOVERY"
	ModuleSettings Module = "SETTINGS"
)

// RoutingTarget names a destination screen and its parameters
type RoutingTarget struct {
	Module     Module                 `json:"module"`
	Screen     string                 `json:"screen"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// ParsedIntent is produced once per classification call
type ParsedIntent struct {
	IntentID      string            `json:"intent_id"`
	IntentType    IntentType        `json:"intent_type"`
	Confidence    float64           `json:"confidence"`
	Entities      map[string]string `json:"entities,omitempty"`
	UserGoal      string            `json:"user_goal,omitempty"`
	RoutingTarget *RoutingTarget    `json:"routing_target,omitempty"`
}

func (p ParsedIntent) Validate() error {
	if !p.IntentType.Valid() {
		return utils.InvalidInput("unknown intent type %q", p.IntentType)
	}
	if p.Confidence < 0 || p.Confidence > 1 || p.Confidence != p.Confidence {
		return utils.InvalidInput("confidence %.3f outside [0,1]", p.Confidence)
	}
	return nil
}

// Prerequisite is a data-availability condition gating navigation
type Prerequisite string

const (
	PrereqRecoveryData   Prerequisite = "RECOVERY_DATA"
	PrereqRoundActive    Prerequisite = "ROUND_ACTIVE"
	PrereqBagConfigured  Prerequisite = "BAG_CONFIGURED"
	PrereqCourseSelected Prerequisite = "COURSE_SELECTED"
)

// PrerequisitePriority is the order used to pick which missing prerequisite to explain first.
var PrerequisitePriority = []Prerequisite{
	PrereqRecoveryData, PrereqRoundActive, PrereqBagConfigured, PrereqCourseSelected,
}
