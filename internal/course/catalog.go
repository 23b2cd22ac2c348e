// Package course loads course reference data and derives hole geometry.
package course

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stitts-dev/golf-caddy/internal/models"
	"github.com/stitts-dev/golf-caddy/pkg/utils"
)

// Catalog is the on-disk course list
type Catalog struct {
	Courses []models.Course `yaml:"courses"`
}

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read course catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a catalog, rejecting unknown fields.
func Parse(data []byte) (Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil && !errors.Is(err, io.EOF) {
		return Catalog{}, fmt.Errorf("%w: course catalog: %v", utils.ErrInvalidInput, err)
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	for i := range cat.Courses {
		for j := range cat.Courses[i].Holes {
			cat.Courses[i].Holes[j].CourseID = cat.Courses[i].ID
		}
	}
	return cat, nil
}

func (c Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Courses))
	for _, course := range c.Courses {
		if course.ID == "" {
			return utils.InvalidInput("course %q has no id", course.Name)
		}
		if seen[course.ID] {
			return utils.InvalidInput("duplicate course id %q", course.ID)
		}
		seen[course.ID] = true

		holes := make(map[int]bool, len(course.Holes))
		for _, h := range course.Holes {
			if err := h.Validate(); err != nil {
				return fmt.Errorf("course %s: %w", course.ID, err)
			}
			if holes[h.Number] {
				return utils.InvalidInput("course %s: duplicate hole %d", course.ID, h.Number)
			}
			holes[h.Number] = true
			for _, hz := range h.Hazards {
				if hz.Type.Severity() == 0 {
					return utils.InvalidInput("course %s hole %d: unknown hazard type %q", course.ID, h.Number, hz.Type)
				}
				for _, m := range hz.AffectedMisses {
					if !m.IsMiss() {
						return utils.InvalidInput("course %s hole %d: %q is not a miss direction", course.ID, h.Number, m)
					}
				}
			}
		}
	}
	return nil
}

// Find returns the course with id.
func (c Catalog) Find(id string) (models.Course, bool) {
	for _, course := range c.Courses {
		if course.ID == id {
			return course, true
		}
	}
	return models.Course{}, false
}
