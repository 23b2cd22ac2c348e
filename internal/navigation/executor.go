// Package navigation turns routing decisions into actions the host app can perform.
package navigation

import (
	"fmt"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/routing"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// Destination is a concrete screen in the host application.
type Destination struct {
	Route      string                 `json:"route"`
	Title      string                 `json:"title"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// Action is the executor's output.
// Implementations: Navigated, ShowInlineResponse, PromptPrerequisites, RequestConfirmation,
// NavigationFailed.
type Action interface {
	Kind() string
	action()
}

type Navigated struct {
	Destination Destination `json:"destination"`
}

type ShowInlineResponse struct {
	Text string `json:"text"`
}

type PromptPrerequisites struct {
	Message string                `json:"message"`
	Missing []models.Prerequisite `json:"missing"`
}

type RequestConfirmation struct {
	Message string              `json:"message"`
	Intent  models.ParsedIntent `json:"intent"`
}

// NavigationFailed reports a routing target with no known destination. Err wraps
// utils.ErrNavigationFailed.
type NavigationFailed struct {
	Err    error                `json:"-"`
	Reason string               `json:"error"`
	Target models.RoutingTarget `json:"target"`
}

func navigationFailed(err error, target models.RoutingTarget) NavigationFailed {
	return NavigationFailed{Err: err, Reason: err.Error(), Target: target}
}

func (Navigated) Kind() string           { return "NAVIGATED" }
func (ShowInlineResponse) Kind() string  { return "SHOW_INLINE_RESPONSE" }
func (PromptPrerequisites) Kind() string { return "PROMPT_PREREQUISITES" }
func (RequestConfirmation) Kind() string { return "REQUEST_CONFIRMATION" }
func (NavigationFailed) Kind() string    { return "NAVIGATION_FAILED" }

func (Navigated) action()           {}
func (ShowInlineResponse) action()  {}
func (PromptPrerequisites) action() {}
func (RequestConfirmation) action() {}
func (NavigationFailed) action()    {}

func (f NavigationFailed) Error() string {
	return f.Err.Error()
}

func (f NavigationFailed) Unwrap() error {
	return f.Err
}

type screenKey struct {
	module models.Module
	screen string
}

var destinations = map[screenKey]Destination{
	{models.ModuleCaddy, routing.ScreenShotRecommendation}:  {Route: "/caddy/shot", Title: "Shot Plan"},
	{models.ModuleCaddy, routing.ScreenClubSelection}:       {Route: "/caddy/clubs", Title: "Club Selection"},
	{models.ModuleCaddy, routing.ScreenScoreEntry}:          {Route: "/caddy/score", Title: "Score Entry"},
	{models.ModuleCaddy, routing.ScreenRoundStart}:          {Route: "/caddy/round/start", Title: "Start Round"},
	{models.ModuleCaddy, routing.ScreenRoundSummary}:        {Route: "/caddy/round/summary", Title: "Round Summary"},
	{models.ModuleCaddy, routing.ScreenCourseOverview}:      {Route: "/caddy/course", Title: "Course Overview"},
	{models.ModuleCaddy, routing.ScreenConditions}:          {Route: "/caddy/conditions", Title: "Conditions"},
	{models.ModuleRecovery, routing.ScreenRecoveryOverview}: {Route: "/recovery", Title: "Readiness"},
	{models.ModuleCoach, routing.ScreenStats}:               {Route: "/coach/stats", Title: "Stats"},
	{models.ModuleCoach, routing.ScreenDrills}:              {Route: "/coach/drills", Title: "Drills"},
	{models.ModuleCoach, routing.ScreenMissPatterns}:        {Route: "/coach/patterns", Title: "Miss Patterns"},
	{models.ModuleSettings, routing.ScreenBag}:              {Route: "/settings/bag", Title: "My Bag"},
	{models.ModuleSettings, routing.ScreenPreferences}:      {Route: "/settings", Title: "Settings"},
	{models.ModuleSettings, routing.ScreenHelp}:             {Route: "/settings/help", Title: "Help"},
	{models.ModuleSettings, routing.ScreenFeedback}:         {Route: "/settings/feedback", Title: "Feedback"},
}

// Lookup resolves a routing target to a destination carrying the target's parameters.
func Lookup(target models.RoutingTarget) (Destination, error) {
	dest, ok := destinations[screenKey{target.Module, target.Screen}]
	if !ok {
		return Destination{}, fmt.Errorf("%w: no destination for %s/%s", utils.ErrNavigationFailed, target.Module, target.Screen)
	}
	if len(target.Parameters) > 0 {
		dest.Parameters = make(map[string]interface{}, len(target.Parameters))
		for k, v := range target.Parameters {
			dest.Parameters[k] = v
		}
	}
	return dest, nil
}

// Executor maps routing results to navigation actions.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

// Execute converts a routing result. An unknown destination yields NavigationFailed rather
// than a silent no-op.
func (e *Executor) Execute(result routing.RoutingResult) Action {
	switch r := result.(type) {
	case routing.Navigate:
		dest, err := Lookup(r.Target)
		if err != nil {
			return navigationFailed(err, r.Target)
		}
		return Navigated{Destination: dest}
	case routing.NoNavigation:
		return ShowInlineResponse{Text: r.Response}
	case routing.PrerequisiteMissing:
		return PromptPrerequisites{Message: r.Message, Missing: r.Missing}
	case routing.ConfirmationRequired:
		return RequestConfirmation{Message: r.Message, Intent: r.Intent}
	default:
		return navigationFailed(
			fmt.Errorf("%w: unsupported routing result %T", utils.ErrNavigationFailed, result),
			models.RoutingTarget{},
		)
	}
}
