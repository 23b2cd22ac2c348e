// Package strategy turns miss patterns, readiness and hole geometry into a shot plan.
package strategy

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stitts-dev/golf-caddy/internal/conditions"
	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const (
	// StraightLine is the bearing of the direct line to the target in the strategy frame.
	StraightLine = 180.0

	MarginPerHandicap = 2.0
	LayupFraction     = 0.70
	MaxRiskCallouts   = 3

	baseAimBias    = 5.0
	aimBiasPerConf = 10.0
	maxAimBias     = 15.0
)

// LandingZone is where the player should aim and how much room to leave.
type LandingZone struct {
	TargetLine    float64 `json:"target_line"`
	IdealDistance int     `json:"ideal_distance"`
	SafetyMargin  float64 `json:"safety_margin"`
	VisualCue     string  `json:"visual_cue"`
}

type PersonalizedFor struct {
	DominantMiss  models.MissDirection `json:"dominant_miss"`
	ClubDistances map[string]int       `json:"club_distances"`
}

// Strategy is the PinSeeker recommendation for one hole
type Strategy struct {
	RecommendedLandingZone LandingZone            `json:"recommended_landing_zone"`
	DangerZones            []models.HazardZone    `json:"danger_zones"`
	RiskCallouts           []string               `json:"risk_callouts"`
	PersonalizedFor        PersonalizedFor        `json:"personalized_for"`
	Conditions             *conditions.Adjustment `json:"conditions"`
}

// Input gathers everything the engine needs. Patterns, Clubs and Conditions may be empty.
type Input struct {
	Hole       models.CourseHole
	Handicap   int
	Readiness  models.ReadinessScore
	Patterns   []models.MissPattern
	Clubs      []models.Club
	Conditions *conditions.Adjustment
}

// Engine is stateless apart from its clock and may be shared between goroutines.
type Engine struct {
	now func() time.Time
}

func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Compute builds the strategy. Missing patterns or clubs degrade to straight/no-bias defaults;
// an invalid par or negative handicap is rejected.
func (e *Engine) Compute(in Input) (Strategy, error) {
	if in.Hole.Par < 3 || in.Hole.Par > 5 {
		return Strategy{}, utils.InvalidInput("par %d not in {3,4,5}", in.Hole.Par)
	}
	if in.Hole.LengthMeters <= 0 {
		return Strategy{}, utils.InvalidInput("hole length %d must be positive", in.Hole.LengthMeters)
	}
	if in.Handicap < 0 {
		return Strategy{}, utils.InvalidInput("handicap %d must not be negative", in.Handicap)
	}

	now := e.now()
	miss, confidence := DominantMiss(in.Patterns, now)

	margin := SafetyMargin(in.Handicap, in.Readiness)
	distance := IdealDistance(in.Hole)
	line := TargetLine(miss, confidence)

	dangers := FilterHazards(in.Hole.Hazards, miss)

	return Strategy{
		RecommendedLandingZone: LandingZone{
			TargetLine:    line,
			IdealDistance: distance,
			SafetyMargin:  margin,
			VisualCue:     visualCue(line, distance, in.Hole.Par),
		},
		DangerZones:  dangers,
		RiskCallouts: RiskCallouts(dangers, miss),
		PersonalizedFor: PersonalizedFor{
			DominantMiss:  miss,
			ClubDistances: clubDistances(in.Clubs, in.Conditions),
		},
		Conditions: in.Conditions,
	}, nil
}

// DominantMiss picks the direction with the highest confidence decayed to now.
// Ties go to the more frequent, then the more recent pattern. No patterns means STRAIGHT.
func DominantMiss(patterns []models.MissPattern, now time.Time) (models.MissDirection, float64) {
	best := -1
	bestConf := 0.0
	for i, p := range patterns {
		if !p.Direction.IsMiss() {
			continue
		}
		c := p.DecayedConfidence(now)
		if best < 0 || outranks(p, c, patterns[best], bestConf) {
			best, bestConf = i, c
		}
	}
	if best < 0 {
		return models.MissStraight, 0
	}
	return patterns[best].Direction, bestConf
}

func outranks(p models.MissPattern, c float64, q models.MissPattern, qc float64) bool {
	if c != qc {
		return c > qc
	}
	if p.Frequency != q.Frequency {
		return p.Frequency > q.Frequency
	}
	if !p.LastOccurrence.Equal(q.LastOccurrence) {
		return p.LastOccurrence.After(q.LastOccurrence)
	}
	return p.Direction < q.Direction
}

// SafetyMargin is handicap*2 meters widened by low readiness.
func SafetyMargin(handicap int, readiness models.ReadinessScore) float64 {
	return float64(handicap) * MarginPerHandicap / readiness.AdjustmentFactor()
}

// IdealDistance aims at the green on par 3s and lays up to 70% of the hole otherwise.
func IdealDistance(hole models.CourseHole) int {
	if hole.Par == 3 {
		return hole.LengthMeters
	}
	return int(math.Round(LayupFraction * float64(hole.LengthMeters)))
}

// TargetLine biases the aim away from the dominant miss. Lines below 180 aim left.
func TargetLine(miss models.MissDirection, confidence float64) float64 {
	bias := math.Min(baseAimBias+aimBiasPerConf*confidence, maxAimBias)
	switch miss {
	case models.MissSlice:
		return StraightLine - bias
	case models.MissHook:
		return StraightLine + bias
	case models.MissPush:
		return StraightLine - bias/2
	case models.MissPull:
		return StraightLine + bias/2
	default:
		return StraightLine
	}
}

// FilterHazards keeps only hazards the dominant miss brings into play.
func FilterHazards(hazards []models.HazardZone, miss models.MissDirection) []models.HazardZone {
	dangers := make([]models.HazardZone, 0, len(hazards))
	for _, h := range hazards {
		if h.Affects(miss) {
			dangers = append(dangers, h)
		}
	}
	return dangers
}

func visualCue(line float64, distance, par int) string {
	target := "the landing area"
	if par == 3 {
		target = "the green"
	}
	offset := math.Round(math.Abs(line - StraightLine))
	switch {
	case line < StraightLine:
		return fmt.Sprintf("Aim %.0f° left, land it %dm at %s", offset, distance, target)
	case line > StraightLine:
		return fmt.Sprintf("Aim %.0f° right, land it %dm at %s", offset, distance, target)
	default:
		return fmt.Sprintf("Aim straight, land it %dm at %s", distance, target)
	}
}

// RiskCallouts describes up to three danger zones, worst hazard first.
func RiskCallouts(dangers []models.HazardZone, miss models.MissDirection) []string {
	ranked := make([]models.HazardZone, len(dangers))
	copy(ranked, dangers)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Type.Severity(), ranked[j].Type.Severity()
		if si != sj {
			return si > sj
		}
		return ranked[i].PenaltyStrokes > ranked[j].PenaltyStrokes
	})
	if len(ranked) > MaxRiskCallouts {
		ranked = ranked[:MaxRiskCallouts]
	}

	// Casers carry state, so one per call.
	title := cases.Title(language.English)
	callouts := make([]string, 0, len(ranked))
	missName := strings.ToLower(string(miss))
	for _, h := range ranked {
		name := title.String(strings.ReplaceAll(strings.ToLower(string(h.Type)), "_", " "))
		if h.Type == models.HazardOB {
			name = "Out of bounds"
		}
		callout := fmt.Sprintf("%s %s at %d-%dm is in play for your %s",
			name, strings.ToLower(string(h.Location.Side)),
			h.Location.DistanceRange.From, h.Location.DistanceRange.To, missName)
		if h.PenaltyStrokes > 0 {
			callout += fmt.Sprintf(" (+%d)", h.PenaltyStrokes)
		}
		callouts = append(callouts, callout)
	}
	return callouts
}

// clubDistances maps club name to carry, scaled by the carry modifier when conditions are known.
func clubDistances(clubs []models.Club, adj *conditions.Adjustment) map[string]int {
	distances := make(map[string]int, len(clubs))
	for _, c := range clubs {
		carry := float64(c.EstimatedCarry)
		if adj != nil {
			carry *= adj.CarryModifier
		}
		distances[c.Name] = int(math.Round(carry))
	}
	return distances
}
