package models

import "time"

// BagProfile is a named set of clubs; one bag is active at a time
type BagProfile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Round is a round in progress or completed
type Round struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"course_id,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func (r Round) IsActive() bool {
	return r.EndedAt == nil
}
