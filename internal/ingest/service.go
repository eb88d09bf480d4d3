package ingest

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"door-monitor-backend/internal/model"
	"door-monitor-backend/internal/notification"
	"door-monitor-backend/internal/store"
)

// Alerter receives alert jobs for asynchronous delivery.
type Alerter interface {
	Dispatch(alert notification.Alert)
}

// Service orchestrates event recording: append to the event log, refresh the
// door status projection, and queue the alert fan-out.
type Service struct {
	store  store.Store
	alerts Alerter
}

// NewService creates a new ingestion service.
func NewService(s store.Store, alerts Alerter) *Service {
	return &Service{store: s, alerts: alerts}
}

// EventRequest is an inbound event report from a board or a manual entry.
type EventRequest struct {
	BoardName  string
	Location   string
	EventType  string
	Authorized bool
	Details    datatypes.JSONMap
}

// RecordEvent appends the event and updates the projection. Both writes are
// fatal on failure; they are intentionally not wrapped in one transaction, so
// a failed status upsert can leave a persisted event with a stale projection
// until the next event for that door corrects it. The alert dispatch at the
// end is best-effort and never affects the result.
func (s *Service) RecordEvent(ctx context.Context, req EventRequest) (*model.Event, error) {
	now := time.Now().UTC()

	details := req.Details
	if details == nil {
		details = datatypes.JSONMap{}
	}

	event := &model.Event{
		BoardName:  req.BoardName,
		Location:   req.Location,
		EventType:  req.EventType,
		Authorized: req.Authorized,
		Details:    details,
		Timestamp:  now,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	isOpen := req.EventType == model.EventTypeOpen
	status := &model.DoorStatus{
		DoorID:      model.DoorID(req.BoardName, req.Location),
		BoardName:   req.BoardName,
		Location:    req.Location,
		IsOpen:      isOpen,
		LastUpdated: now,
		LastEventID: &event.ID,
	}
	if isOpen {
		status.EventStartTime = &now
	}
	if err := s.store.UpsertDoorStatus(ctx, status); err != nil {
		// The event row is already persisted at this point; the projection
		// will catch up on the next event for this door.
		return nil, err
	}

	s.alerts.Dispatch(notification.Alert{
		Message:   AlertMessage(req.EventType, req.Location, req.BoardName, event.Note()),
		EventType: req.EventType,
		Location:  req.Location,
		BoardName: req.BoardName,
	})

	return event, nil
}

// eventLabels maps event types to the human-readable alert labels shown in
// SMS messages. Unknown types pass through as-is.
var eventLabels = map[string]string{
	model.EventTypeOpen:         "Apertura",
	model.EventTypeClose:        "Cierre",
	model.EventTypeAuthorized:   "Acceso Autorizado",
	model.EventTypeUnauthorized: "Acceso No Autorizado",
	model.EventTypeForced:       "Apertura Forzada",
}

// AlertMessage formats the alert text for an event.
func AlertMessage(eventType, location, boardName, note string) string {
	label, ok := eventLabels[eventType]
	if !ok {
		label = eventType
	}
	message := fmt.Sprintf("%s en %s - %s", label, location, boardName)
	if note != "" {
		message += " - " + note
	}
	return message
}
