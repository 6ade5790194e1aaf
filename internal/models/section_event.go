package models

import "time"

// Section event types published on section changes.
const (
	SectionCreated = "section.created"
	SectionUpdated = "section.updated"
	SectionDeleted = "section.deleted"
)

// SectionEvent describes a change to a section.
type SectionEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SectionID  uint      `json:"section_id"`
	UserID     uint      `json:"user_id"`
	Title      string    `json:"title"`
	OccurredAt time.Time `json:"occurred_at"`
}
