package routing

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stitts-dev/golf-caddy/internal/models"
)

// Confidence bands: at or above RouteThreshold routes, at or above ConfirmThreshold
// confirms, anything lower asks for clarification.
const (
	RouteThreshold   = 0.75
	ConfirmThreshold = 0.50
	MaxSuggestions   = 3
)

// ClassificationContext is what the host knows about the player when classifying.
type ClassificationContext struct {
	RoundActive    bool                `json:"round_active"`
	CurrentHole    int                 `json:"current_hole,omitempty"`
	CourseName     string              `json:"course_name,omitempty"`
	RecentIntents  []models.IntentType `json:"recent_intents,omitempty"`
	BagConfigured  bool                `json:"bag_configured"`
	HasRecoveryLog bool                `json:"has_recovery_log"`
}

// IntentClassifier turns free text into a classification. Implementations never return
// a Go error; upstream failures arrive as ClassificationFailed.
type IntentClassifier interface {
	Classify(ctx context.Context, input string, cc ClassificationContext) ClassificationResult
}

// Classify applies the confidence bands to a parsed intent.
func Classify(intent models.ParsedIntent, input string) ClassificationResult {
	if err := intent.Validate(); err != nil {
		return Failed(err)
	}

	switch {
	case intent.Confidence >= RouteThreshold:
		target := resolveTarget(intent)
		intent.RoutingTarget = &target
		return Route{Intent: intent, Target: target}
	case intent.Confidence >= ConfirmThreshold:
		return Confirm{Intent: intent, Message: ConfirmationPrompt(intent.IntentType)}
	default:
		return Clarify{
			Suggestions:   Suggestions(intent.IntentType),
			Message:       clarifyMessage,
			OriginalInput: input,
		}
	}
}

// ConfirmationPrompt is the question asked for a mid-confidence intent.
func ConfirmationPrompt(t models.IntentType) string {
	return fmt.Sprintf("Did you want to %s?", intentPhrases[t])
}

// Suggestions lists up to MaxSuggestions phrases, the best guess first.
func Suggestions(guess models.IntentType) []string {
	suggestions := make([]string, 0, MaxSuggestions)
	seen := make(map[models.IntentType]bool, MaxSuggestions)
	add := func(t models.IntentType) {
		phrase, ok := intentPhrases[t]
		if !ok || seen[t] || len(suggestions) == MaxSuggestions {
			return
		}
		seen[t] = true
		suggestions = append(suggestions, capitalize(phrase))
	}
	add(guess)
	for _, t := range fallbackSuggestions {
		add(t)
	}
	return suggestions
}

// resolveTarget prefers the classifier's target and falls back to the intent's default
// screen, carrying extracted entities as parameters.
func resolveTarget(intent models.ParsedIntent) models.RoutingTarget {
	if intent.RoutingTarget != nil && intent.RoutingTarget.Screen != "" {
		return *intent.RoutingTarget
	}
	target := defaultTargets[intent.IntentType]
	if len(intent.Entities) > 0 {
		target.Parameters = make(map[string]interface{}, len(intent.Entities))
		for k, v := range intent.Entities {
			target.Parameters[k] = v
		}
	}
	return target
}

// capitalize title-cases the first word only and leaves the rest of the phrase untouched.
func capitalize(s string) string {
	word, rest, found := strings.Cut(s, " ")
	word = cases.Title(language.English, cases.NoLower).String(word)
	if !found {
		return word
	}
	return word + " " + rest
}
