// Package routing decides what to do with a classified utterance: navigate, confirm,
// or answer inline.
package routing

import (
	"github.com/stitts-dev/golf-caddy/internal/models"
)

// ClassificationResult is what an intent classifier hands to the router.
// Implementations: Route, Confirm, Clarify, ClassificationFailed.
type ClassificationResult interface {
	classification()
}

// Route is a high-confidence intent with a destination.
type Route struct {
	Intent models.ParsedIntent  `json:"intent"`
	Target models.RoutingTarget `json:"target"`
}

// Confirm asks the player to confirm a mid-confidence intent.
type Confirm struct {
	Intent  models.ParsedIntent `json:"intent"`
	Message string              `json:"message"`
}

// Clarify offers up to three suggestions when the classifier is unsure.
type Clarify struct {
	Suggestions   []string `json:"suggestions"`
	Message       string   `json:"message"`
	OriginalInput string   `json:"original_input"`
}

// ClassificationFailed wraps an upstream classifier or transport error.
type ClassificationFailed struct {
	Cause   error  `json:"-"`
	Message string `json:"message"`
}

// Failed wraps cause with the user-facing failure message.
func Failed(cause error) ClassificationFailed {
	return ClassificationFailed{Cause: cause, Message: failureMessage}
}

func (Route) classification()                {}
func (Confirm) classification()              {}
func (Clarify) classification()              {}
func (ClassificationFailed) classification() {}

// RoutingResult is the router's decision.
// Implementations: Navigate, NoNavigation, PrerequisiteMissing, ConfirmationRequired.
type RoutingResult interface {
	routing()
}

type Navigate struct {
	Target models.RoutingTarget `json:"target"`
	Intent models.ParsedIntent  `json:"intent"`
}

// NoNavigation answers inline. Intent is nil for clarifications and errors.
type NoNavigation struct {
	Intent   *models.ParsedIntent `json:"intent,omitempty"`
	Response string               `json:"response"`
}

type PrerequisiteMissing struct {
	Intent  models.ParsedIntent   `json:"intent"`
	Missing []models.Prerequisite `json:"missing"`
	Message string                `json:"message"`
}

type ConfirmationRequired struct {
	Intent  models.ParsedIntent `json:"intent"`
	Message string              `json:"message"`
}

func (Navigate) routing()             {}
func (NoNavigation) routing()         {}
func (PrerequisiteMissing) routing()  {}
func (ConfirmationRequired) routing() {}

// Kind names a routing result for logs and API payloads.
func Kind(r RoutingResult) string {
	switch r.(type) {
	case Navigate:
		return "NAVIGATE"
	case NoNavigation:
		return "NO_NAVIGATION"
	case PrerequisiteMissing:
		return "PREREQUISITE_MISSING"
	case ConfirmationRequired:
		return "CONFIRMATION_REQUIRED"
	default:
		return "UNKNOWN"
	}
}

// ClassificationKind names a classification variant for logs and API responses.
func ClassificationKind(c ClassificationResult) string {
	switch c.(type) {
	case Route:
		return "ROUTE"
	case Confirm:
		return "CONFIRM"
	case Clarify:
		return "CLARIFY"
	case ClassificationFailed:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
