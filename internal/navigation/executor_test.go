package navigation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/internal/routing"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

func TestExecute_Variants(t *testing.T) {
	in := models.ParsedIntent{IntentID: "i-1", IntentType: models.IntentClubAdjustment, Confidence: 0.6}
	exec := NewExecutor()

	tests := []struct {
		name     string
		result   routing.RoutingResult
		expected Action
	}{
		{
			name:     "inline response",
			result:   routing.NoNavigation{Response: "thanks"},
			expected: ShowInlineResponse{Text: "thanks"},
		},
		{
			name: "prerequisites",
			result: routing.PrerequisiteMissing{
				Intent: in, Missing: []models.Prerequisite{models.PrereqBagConfigured}, Message: "set up your bag",
			},
			expected: PromptPrerequisites{Message: "set up your bag", Missing: []models.Prerequisite{models.PrereqBagConfigured}},
		},
		{
			name:     "confirmation",
			result:   routing.ConfirmationRequired{Intent: in, Message: "club up?"},
			expected: RequestConfirmation{Message: "club up?", Intent: in},
		},
		{
			name: "navigate",
			result: routing.Navigate{
				Intent: in,
				Target: models.RoutingTarget{Module: models.ModuleCaddy, Screen: routing.ScreenClubSelection, Parameters: map[string]interface{}{"club": "7i"}},
			},
			expected: Navigated{Destination: Destination{Route: "/caddy/clubs", Title: "Club Selection", Parameters: map[string]interface{}{"club": "7i"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exec.Execute(tt.result))
		})
	}
}

func TestExecute_UnknownDestinationFails(t *testing.T) {
	target := models.RoutingTarget{Module: models.ModuleCoach, Screen: "swing_video"}

	action := NewExecutor().Execute(routing.Navigate{Target: target})

	failed, ok := action.(NavigationFailed)
	require.True(t, ok, "got %T", action)
	assert.Equal(t, target, failed.Target)
	assert.ErrorIs(t, failed, utils.ErrNavigationFailed)
	assert.Contains(t, failed.Error(), "COACH/swing_video")
	assert.Equal(t, "NAVIGATION_FAILED", failed.Kind())
}

func TestExecute_FailureReasonIsSerialized(t *testing.T) {
	target := models.RoutingTarget{Module: models.ModuleCoach, Screen: "swing_video"}
	action := NewExecutor().Execute(routing.Navigate{Target: target})

	body, err := json.Marshal(action)
	require.NoError(t, err)

	var decoded struct {
		Error  string              `json:"error"`
		Target models.RoutingTarget `json:"target"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded.Error, "navigation failed")
	assert.Contains(t, decoded.Error, "COACH/swing_video")
	assert.Equal(t, target.Screen, decoded.Target.Screen)
}

func TestExecute_ScreenUnderWrongModuleFails(t *testing.T) {
	action := NewExecutor().Execute(routing.Navigate{
		Target: models.RoutingTarget{Module: models.ModuleSettings, Screen: routing.ScreenShotRecommendation},
	})
	var failed NavigationFailed
	require.True(t, errors.As(action.(error), &failed))
}

func TestLookup_EveryDefaultTargetResolves(t *testing.T) {
	for _, it := range models.AllIntentTypes {
		target, ok := routing.DefaultTarget(it)
		require.True(t, ok)
		_, err := Lookup(target)
		assert.NoError(t, err, "intent %s", it)
	}
}

func TestLookup_CopiesParameters(t *testing.T) {
	params := map[string]interface{}{"hole": 7}
	dest, err := Lookup(models.RoutingTarget{Module: models.ModuleCaddy, Screen: routing.ScreenCourseOverview, Parameters: params})
	require.NoError(t, err)

	params["hole"] = 8
	assert.Equal(t, 7, dest.Parameters["hole"])
}
