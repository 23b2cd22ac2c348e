package routing

import (
	"github.com/stitts-dev/golf-caddy/internal/models"
)

// Screen names understood by the navigation executor.
const (
	ScreenShotRecommendation = "shot_recommendation"
	ScreenClubSelection      = "club_selection"
	ScreenScoreEntry         = "score_entry"
	ScreenRoundStart         = "round_start"
	ScreenRoundSummary       = "round_summary"
	ScreenCourseOverview     = "course_overview"
	ScreenConditions         = "conditions"
	ScreenRecoveryOverview   = "recovery_overview"
	ScreenStats              = "stats"
	ScreenDrills             = "drills"
	ScreenMissPatterns       = "miss_patterns"
	ScreenBag                = "bag"
	ScreenPreferences        = "preferences"
	ScreenHelp               = "help"
	ScreenFeedback           = "feedback"
)

// noNavigationIntents are answered inline, never navigated.
var noNavigationIntents = map[models.IntentType]string{
	models.IntentPatternQuery: "Here's what your recent misses are telling us. Ask for a shot plan and I'll aim you away from them.",
	models.IntentHelpRequest:  "I can plan your next shot, check your readiness, log a score, or tell you about the hole. Just ask.",
	models.IntentFeedback:     "Thanks, that helps me caddie better for you.",
}

// requiredPrerequisites lists what each intent needs before it can navigate.
var requiredPrerequisites = map[models.IntentType][]models.Prerequisite{
	models.IntentRecoveryCheck:      {models.PrereqRecoveryData},
	models.IntentScoreEntry:         {models.PrereqRoundActive},
	models.IntentRoundEnd:           {models.PrereqRoundActive},
	models.IntentClubAdjustment:     {models.PrereqBagConfigured},
	models.IntentShotRecommendation: {models.PrereqBagConfigured},
	models.IntentCourseInfo:         {models.PrereqCourseSelected},
}

var prerequisiteMessages = map[models.Prerequisite]string{
	models.PrereqRecoveryData:   "I don't have any recovery data yet. Sync your wearable or log how you slept first.",
	models.PrereqRoundActive:    "There's no round in progress. Start a round and I'll keep score for you.",
	models.PrereqBagConfigured:  "Set up your bag first so I know your club distances.",
	models.PrereqCourseSelected: "Pick a course first and I'll walk you through it.",
}

var defaultTargets = map[models.IntentType]models.RoutingTarget{
	models.IntentShotRecommendation: {Module: models.ModuleCaddy, Screen: ScreenShotRecommendation},
	models.IntentClubAdjustment:     {Module: models.ModuleCaddy, Screen: ScreenClubSelection},
	models.IntentRecoveryCheck:      {Module: models.ModuleRecovery, Screen: ScreenRecoveryOverview},
	models.IntentScoreEntry:         {Module: models.ModuleCaddy, Screen: ScreenScoreEntry},
	models.IntentRoundStart:         {Module: models.ModuleCaddy, Screen: ScreenRoundStart},
	models.IntentRoundEnd:           {Module: models.ModuleCaddy, Screen: ScreenRoundSummary},
	models.IntentCourseInfo:         {Module: models.ModuleCaddy, Screen: ScreenCourseOverview},
	models.IntentWeatherCheck:       {Module: models.ModuleCaddy, Screen: ScreenConditions},
	models.IntentStatsLookup:        {Module: models.ModuleCoach, Screen: ScreenStats},
	models.IntentDrillRequest:       {Module: models.ModuleCoach, Screen: ScreenDrills},
	models.IntentEquipmentInfo:      {Module: models.ModuleSettings, Screen: ScreenBag},
	models.IntentSettingsChange:     {Module: models.ModuleSettings, Screen: ScreenPreferences},
	models.IntentPatternQuery:       {Module: models.ModuleCoach, Screen: ScreenMissPatterns},
	models.IntentHelpRequest:        {Module: models.ModuleSettings, Screen: ScreenHelp},
	models.IntentFeedback:           {Module: models.ModuleSettings, Screen: ScreenFeedback},
}

// intentPhrases complete "Did you want to ...?" and label clarification suggestions.
var intentPhrases = map[models.IntentType]string{
	models.IntentShotRecommendation: "get a plan for this shot",
	models.IntentClubAdjustment:     "adjust your club choice",
	models.IntentRecoveryCheck:      "check your readiness",
	models.IntentScoreEntry:         "enter a score",
	models.IntentRoundStart:         "start a round",
	models.IntentRoundEnd:           "finish your round",
	models.IntentCourseInfo:         "hear about the course",
	models.IntentWeatherCheck:       "check the conditions",
	models.IntentStatsLookup:        "look at your stats",
	models.IntentDrillRequest:       "find a practice drill",
	models.IntentEquipmentInfo:      "review your bag",
	models.IntentSettingsChange:     "change your settings",
	models.IntentPatternQuery:       "see your miss patterns",
	models.IntentHelpRequest:        "see what I can do",
	models.IntentFeedback:           "leave feedback",
}

// fallbackSuggestions pad a clarification when the classifier's guess is not enough.
var fallbackSuggestions = []models.IntentType{
	models.IntentShotRecommendation,
	models.IntentRecoveryCheck,
	models.IntentHelpRequest,
}

const (
	clarifyMessage = "Sorry, I didn't quite catch that. Did you mean one of these?"
	failureMessage = "I'm having trouble understanding right now. Try again in a moment."
)

// RequiredPrerequisites returns a copy of the prerequisites an intent needs.
func RequiredPrerequisites(t models.IntentType) []models.Prerequisite {
	required := requiredPrerequisites[t]
	out := make([]models.Prerequisite, len(required))
	copy(out, required)
	return out
}

// DefaultTarget returns the screen an intent opens when the classifier names none.
func DefaultTarget(t models.IntentType) (models.RoutingTarget, bool) {
	target, ok := defaultTargets[t]
	return target, ok
}

// IsInline reports whether an intent is always answered without navigating.
func IsInline(t models.IntentType) bool {
	_, ok := noNavigationIntents[t]
	return ok
}
