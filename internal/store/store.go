package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"door-monitor-backend/internal/model"
)

// Store defines the interface for the database operations used by the
// ingestion, notification and reporting paths. Plain CRUD handlers work
// against DB() directly.
type Store interface {
	DB() *gorm.DB

	CreateEvent(ctx context.Context, event *model.Event) error
	UpsertDoorStatus(ctx context.Context, status *model.DoorStatus) error
	ListEvents(ctx context.Context, location string, limit int) ([]model.Event, error)
	EventStats(ctx context.Context, location string) (*Stats, error)
	DeleteEventsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteAllEvents(ctx context.Context) (int64, error)

	ListDoorStatuses(ctx context.Context) ([]model.DoorStatus, error)
	ClearDoorStatuses(ctx context.Context) (int64, error)

	ListActiveAssets(ctx context.Context) ([]model.Asset, error)
	ListActiveContacts(ctx context.Context) ([]model.AlertContact, error)

	ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeletePushSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// CreateEvent appends a new event to the log. The ID is generated here when
// the caller has not set one; events are never updated afterwards.
func (s *gormStore) CreateEvent(ctx context.Context, event *model.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// UpsertDoorStatus writes the projection row for a door, replacing every
// derived field when a row for the door_id already exists. The database's
// conflict-on-key semantics serialize concurrent upserts to the same door.
func (s *gormStore) UpsertDoorStatus(ctx context.Context, status *model.DoorStatus) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "door_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"board_name", "location", "is_open", "last_updated", "last_event_id", "event_start_time",
		}),
	}).Create(status).Error
	if err != nil {
		return fmt.Errorf("failed to upsert door status for %s: %w", status.DoorID, err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first, optionally
// filtered by exact location match.
func (s *gormStore) ListEvents(ctx context.Context, location string, limit int) ([]model.Event, error) {
	query := s.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if location != "" {
		query = query.Where("location = ?", location)
	}

	var events []model.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// EventStats aggregates the event log, optionally filtered by location.
func (s *gormStore) EventStats(ctx context.Context, location string) (*Stats, error) {
	query := s.db.WithContext(ctx).Model(&model.Event{}).
		Select("event_type", "location", "duration_seconds")
	if location != "" && location != "all" {
		query = query.Where("location = ?", location)
	}

	var rows []model.Event
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query event stats: %w", err)
	}

	stats := &Stats{
		ByType:     make(map[string]int),
		ByLocation: make(map[string]int),
	}

	var totalDuration, durationCount int
	for i := range rows {
		event := &rows[i]
		stats.TotalEvents++
		stats.ByType[event.EventType]++
		stats.ByLocation[event.Location]++
		if event.DurationSeconds != nil {
			totalDuration += *event.DurationSeconds
			durationCount++
		}
		if event.IsAlert() {
			stats.TotalAlerts++
		}
	}
	if durationCount > 0 {
		stats.AvgDuration = int(math.Round(float64(totalDuration) / float64(durationCount)))
	}
	return stats, nil
}

// DeleteEventsOlderThan removes events with a timestamp before the cutoff.
// Door status rows referencing a to-be-deleted event have their back
// references nulled first so the projection never dangles.
func (s *gormStore) DeleteEventsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eventIDs []string
		if err := tx.Model(&model.Event{}).
			Where("timestamp < ?", cutoff).
			Pluck("id", &eventIDs).Error; err != nil {
			return fmt.Errorf("failed to collect events to delete: %w", err)
		}
		if len(eventIDs) == 0 {
			return nil
		}

		if err := tx.Model(&model.DoorStatus{}).
			Where("last_event_id IN ?", eventIDs).
			Updates(map[string]any{"last_event_id": nil, "event_start_time": nil}).Error; err != nil {
			return fmt.Errorf("failed to clear door status references: %w", err)
		}

		result := tx.Where("timestamp < ?", cutoff).Delete(&model.Event{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete old events: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// DeleteAllEvents empties the event log after nulling every door status back
// reference. Contacts, assets and users are untouched.
func (s *gormStore) DeleteAllEvents(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.DoorStatus{}).
			Where("last_event_id IS NOT NULL").
			Updates(map[string]any{"last_event_id": nil, "event_start_time": nil}).Error; err != nil {
			return fmt.Errorf("failed to clear door status references: %w", err)
		}

		result := tx.Where("1 = 1").Delete(&model.Event{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete events: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// ListDoorStatuses returns every stored projection row, most recently
// updated first.
func (s *gormStore) ListDoorStatuses(ctx context.Context) ([]model.DoorStatus, error) {
	var statuses []model.DoorStatus
	if err := s.db.WithContext(ctx).Order("last_updated DESC").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("failed to list door statuses: %w", err)
	}
	return statuses, nil
}

// ClearDoorStatuses removes all projection rows. Events are never touched;
// the projection rebuilds itself as new events arrive.
func (s *gormStore) ClearDoorStatuses(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.DoorStatus{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear door statuses: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListActiveAssets returns the assets shown on the dashboard, ordered by
// display name.
func (s *gormStore) ListActiveAssets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("custom_name").
		Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to list active assets: %w", err)
	}
	return assets, nil
}

// ListActiveContacts returns the contacts currently eligible for alerts.
// Called fresh on every dispatch; never cached.
func (s *gormStore) ListActiveContacts(ctx context.Context) ([]model.AlertContact, error) {
	var contacts []model.AlertContact
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list active contacts: %w", err)
	}
	return contacts, nil
}

func (s *gormStore) ListPushSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list push subscriptions: %w", err)
	}
	return subs, nil
}

func (s *gormStore) DeletePushSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}
