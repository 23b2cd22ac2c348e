package routing

import (
	"context"

	"github.com/stitts-dev/golf-caddy/internal/models"
)

// PrerequisiteChecker returns the unmet subset of the requested prerequisites.
type PrerequisiteChecker interface {
	CheckAll(ctx context.Context, required []models.Prerequisite) ([]models.Prerequisite, error)
}

// Orchestrator is the routing state machine. It keeps no state between calls.
type Orchestrator struct {
	checker PrerequisiteChecker
}

func NewOrchestrator(checker PrerequisiteChecker) *Orchestrator {
	return &Orchestrator{checker: checker}
}

// Route maps a classification to a routing decision.
func (o *Orchestrator) Route(ctx context.Context, result ClassificationResult) RoutingResult {
	switch r := result.(type) {
	case Route:
		return o.routeIntent(ctx, r)
	case Confirm:
		return ConfirmationRequired{Intent: r.Intent, Message: r.Message}
	case Clarify:
		return NoNavigation{Response: r.Message}
	case ClassificationFailed:
		return NoNavigation{Response: r.Message}
	default:
		return NoNavigation{Response: failureMessage}
	}
}

func (o *Orchestrator) routeIntent(ctx context.Context, r Route) RoutingResult {
	if response, ok := noNavigationIntents[r.Intent.IntentType]; ok {
		intent := r.Intent
		return NoNavigation{Intent: &intent, Response: response}
	}

	required := RequiredPrerequisites(r.Intent.IntentType)
	if len(required) > 0 {
		missing := o.unmet(ctx, required)
		if len(missing) > 0 {
			return PrerequisiteMissing{
				Intent:  r.Intent,
				Missing: missing,
				Message: prerequisiteMessages[missing[0]],
			}
		}
	}

	return Navigate{Target: r.Target, Intent: r.Intent}
}

// unmet asks the checker once for all required prerequisites and returns the unmet ones in
// priority order. A checker failure counts every requirement as unmet.
func (o *Orchestrator) unmet(ctx context.Context, required []models.Prerequisite) []models.Prerequisite {
	if o.checker == nil {
		return required
	}
	missing, err := o.checker.CheckAll(ctx, required)
	if err != nil {
		missing = required
	}

	requested := make(map[models.Prerequisite]bool, len(required))
	for _, p := range required {
		requested[p] = true
	}
	unmet := make(map[models.Prerequisite]bool, len(missing))
	for _, p := range missing {
		if requested[p] {
			unmet[p] = true
		}
	}

	ordered := make([]models.Prerequisite, 0, len(unmet))
	for _, p := range models.PrerequisitePriority {
		if unmet[p] {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
