package course

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

const sampleCatalog = `
courses:
  - id: test-course
    name: Test Course
    location: {latitude: 40.0, longitude: -75.0, name: Somewhere}
    holes:
      - number: 1
        par: 4
        length_meters: 360
        tee: {latitude: 40.0, longitude: -75.0}
        pin_position: {latitude: 40.00324, longitude: -75.0}
        hazards:
          - type: WATER
            location:
              side: RIGHT
              distance_range: {from: 200, to: 240}
            penalty_strokes: 1
            affected_misses: [SLICE, PUSH]
      - number: 2
        par: 3
        length_meters: 150
`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, cat.Courses, 1)

	c, ok := cat.Find("test-course")
	require.True(t, ok)
	assert.Equal(t, "Somewhere", c.Location.Name)
	require.Len(t, c.Holes, 2)

	hole := c.Holes[0]
	assert.Equal(t, "test-course", hole.CourseID)
	require.Len(t, hole.Hazards, 1)
	assert.Equal(t, models.HazardWater, hole.Hazards[0].Type)
	assert.Equal(t, models.SideRight, hole.Hazards[0].Location.Side)
	assert.Equal(t, 240, hole.Hazards[0].Location.DistanceRange.To)
	assert.Equal(t, []models.MissDirection{models.MissSlice, models.MissPush}, hole.Hazards[0].AffectedMisses)
	assert.Nil(t, c.Holes[1].Tee)

	_, ok = cat.Find("missing")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "courses:\n  - id: a\n    name: A\n    slope: 130\n"},
		{"missing id", "courses:\n  - name: A\n"},
		{"duplicate course", "courses:\n  - id: a\n    name: A\n  - id: a\n    name: B\n"},
		{"bad par", "courses:\n  - id: a\n    name: A\n    holes:\n      - {number: 1, par: 6, length_meters: 500}\n"},
		{"duplicate hole", "courses:\n  - id: a\n    name: A\n    holes:\n      - {number: 1, par: 4, length_meters: 300}\n      - {number: 1, par: 3, length_meters: 150}\n"},
		{"unknown hazard", "courses:\n  - id: a\n    name: A\n    holes:\n      - number: 1\n        par: 4\n        length_meters: 300\n        hazards:\n          - {type: LAVA, affected_misses: [SLICE]}\n"},
		{"straight is not a miss", "courses:\n  - id: a\n    name: A\n    holes:\n      - number: 1\n        par: 4\n        length_meters: 300\n        hazards:\n          - {type: BUNKER, affected_misses: [STRAIGHT]}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, utils.ErrInvalidInput)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cat, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cat.Courses)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, cat.Courses, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_ShippedCatalog(t *testing.T) {
	cat, err := LoadFile(filepath.Join("..", "..", "config", "courses.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, cat.Courses)
	for _, c := range cat.Courses {
		for _, h := range c.Holes {
			_, ok := HoleBearing(h)
			assert.True(t, ok, "%s hole %d has no bearing", c.ID, h.Number)
		}
	}
}

func TestBearing(t *testing.T) {
	origin := models.Location{Latitude: 40, Longitude: -75}
	tests := []struct {
		name     string
		to       models.Location
		expected float64
	}{
		{"north", models.Location{Latitude: 40.01, Longitude: -75}, 0},
		{"east", models.Location{Latitude: 40, Longitude: -74.99}, 90},
		{"south", models.Location{Latitude: 39.99, Longitude: -75}, 180},
		{"west", models.Location{Latitude: 40, Longitude: -75.01}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(origin, tt.to), 0.01)
		})
	}
}

func TestTargetBearing(t *testing.T) {
	tee := models.Location{Latitude: 40, Longitude: -75}

	b, err := TargetBearing(tee, models.Location{Latitude: 40.0001, Longitude: -75.00001})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b, 0)
	assert.LessOrEqual(t, b, 359)

	_, err = TargetBearing(tee, tee)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestDistance(t *testing.T) {
	tee := models.Location{Latitude: 40, Longitude: -75}
	pin := models.Location{Latitude: 40.00324, Longitude: -75}
	assert.InDelta(t, 360, Distance(tee, pin), 1)
}

func TestHoleBearing(t *testing.T) {
	cat, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	b, ok := HoleBearing(cat.Courses[0].Holes[0])
	require.True(t, ok)
	assert.Equal(t, 0, b)

	_, ok = HoleBearing(cat.Courses[0].Holes[1])
	assert.False(t, ok)
}
