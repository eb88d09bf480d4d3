package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"door-monitor-backend/internal/model"
	"door-monitor-backend/internal/notification"
	"door-monitor-backend/internal/store"
)

// captureAlerter records dispatched alerts instead of delivering them.
type captureAlerter struct {
	alerts []notification.Alert
}

func (c *captureAlerter) Dispatch(alert notification.Alert) {
	c.alerts = append(c.alerts, alert)
}

func newTestService(t *testing.T) (*Service, store.Store, *captureAlerter) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Event{}, &model.DoorStatus{}))

	s := store.NewGormStore(db)
	alerter := &captureAlerter{}
	return NewService(s, alerter), s, alerter
}

func TestRecordEventOpenSetsStatus(t *testing.T) {
	svc, s, alerter := newTestService(t)
	ctx := context.Background()

	event, err := svc.RecordEvent(ctx, EventRequest{
		BoardName: "ESP32-1",
		Location:  "Santiago",
		EventType: "open",
	})
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)
	assert.Equal(t, "open", event.EventType)
	assert.False(t, event.Authorized)
	assert.NotNil(t, event.Details)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 5*time.Second)

	statuses, err := s.ListDoorStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.Equal(t, "ESP32-1_Santiago", status.DoorID)
	assert.True(t, status.IsOpen)
	require.NotNil(t, status.LastEventID)
	assert.Equal(t, event.ID, *status.LastEventID)
	require.NotNil(t, status.EventStartTime)
	assert.Equal(t, event.Timestamp.Unix(), status.EventStartTime.Unix())

	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, "Apertura en Santiago - ESP32-1", alerter.alerts[0].Message)
	assert.Equal(t, "open", alerter.alerts[0].EventType)
}

func TestRecordEventCloseClearsStartTime(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, EventRequest{
		BoardName: "ESP32-1", Location: "Santiago", EventType: "open",
	})
	require.NoError(t, err)

	closeEvent, err := svc.RecordEvent(ctx, EventRequest{
		BoardName: "ESP32-1", Location: "Santiago", EventType: "close",
	})
	require.NoError(t, err)

	statuses, err := s.ListDoorStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1, "same door must keep a single status row")

	status := statuses[0]
	assert.False(t, status.IsOpen)
	assert.Nil(t, status.EventStartTime)
	require.NotNil(t, status.LastEventID)
	assert.Equal(t, closeEvent.ID, *status.LastEventID)
}

func TestRecordEventDistinctDoors(t *testing.T) {
	svc, s, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, EventRequest{
		BoardName: "ESP32-1", Location: "Santiago", EventType: "open",
	})
	require.NoError(t, err)
	_, err = svc.RecordEvent(ctx, EventRequest{
		BoardName: "ESP32-2", Location: "Santiago", EventType: "open",
	})
	require.NoError(t, err)

	statuses, err := s.ListDoorStatuses(ctx)
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}

func TestRecordEventAcceptsUnknownType(t *testing.T) {
	svc, s, alerter := newTestService(t)
	ctx := context.Background()

	event, err := svc.RecordEvent(ctx, EventRequest{
		BoardName: "ESP32-1", Location: "Santiago", EventType: "tamper",
	})
	require.NoError(t, err)
	assert.Equal(t, "tamper", event.EventType)

	statuses, err := s.ListDoorStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].IsOpen, "only the literal open type opens a door")
	assert.Nil(t, statuses[0].EventStartTime)

	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, "tamper en Santiago - ESP32-1", alerter.alerts[0].Message, "unknown types pass through as labels")
}

func TestRecordEventNoteInAlertMessage(t *testing.T) {
	svc, _, alerter := newTestService(t)

	_, err := svc.RecordEvent(context.Background(), EventRequest{
		BoardName: "ESP32-1",
		Location:  "Santiago",
		EventType: "unauthorized",
		Details:   datatypes.JSONMap{"note": "ingreso manual"},
	})
	require.NoError(t, err)

	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, "Acceso No Autorizado en Santiago - ESP32-1 - ingreso manual", alerter.alerts[0].Message)
}

func TestAlertMessage(t *testing.T) {
	testCases := []struct {
		name      string
		eventType string
		note      string
		expected  string
	}{
		{"open", "open", "", "Apertura en Santiago - ESP32-1"},
		{"close", "close", "", "Cierre en Santiago - ESP32-1"},
		{"authorized", "authorized", "", "Acceso Autorizado en Santiago - ESP32-1"},
		{"unauthorized", "unauthorized", "", "Acceso No Autorizado en Santiago - ESP32-1"},
		{"forced", "forced", "", "Apertura Forzada en Santiago - ESP32-1"},
		{"unknown passes through", "test", "", "test en Santiago - ESP32-1"},
		{"note appended", "open", "revisar", "Apertura en Santiago - ESP32-1 - revisar"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AlertMessage(tc.eventType, "Santiago", "ESP32-1", tc.note))
		})
	}
}
