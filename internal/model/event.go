package model

import (
	"time"

	"gorm.io/datatypes"
)

// Known event type values reported by the boards. The ingestion boundary does
// not reject other strings; only EventTypeOpen drives the status projection.
const (
	EventTypeOpen         = "open"
	EventTypeClose        = "close"
	EventTypeAuthorized   = "authorized"
	EventTypeUnauthorized = "unauthorized"
	EventTypeForced       = "forced"
)

// Event is an immutable record of something a board observed or a human
// manually asserted. Rows are append-only; they are removed only by the
// retention cleanup endpoint.
type Event struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	BoardName       string            `gorm:"size:128;not null;index" json:"board_name"`
	Location        string            `gorm:"size:128;not null;index" json:"location"`
	EventType       string            `gorm:"size:32;not null" json:"event_type"`
	Authorized      bool              `gorm:"not null" json:"authorized"`
	Details         datatypes.JSONMap `json:"details"`
	Timestamp       time.Time         `gorm:"not null;index" json:"timestamp"`
	DurationSeconds *int              `json:"duration_seconds"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Note returns the optional human note carried in the details payload.
func (e *Event) Note() string {
	if e.Details == nil {
		return ""
	}
	if note, ok := e.Details["note"].(string); ok {
		return note
	}
	return ""
}

// IsAlert reports whether this event counts as an alert in the statistics.
func (e *Event) IsAlert() bool {
	return e.EventType == EventTypeForced || e.EventType == EventTypeUnauthorized
}
