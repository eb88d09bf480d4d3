package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"door-monitor-backend/config"
	"door-monitor-backend/internal/api"
	"door-monitor-backend/internal/db"
	"door-monitor-backend/internal/ingest"
	"door-monitor-backend/internal/notification"
	"door-monitor-backend/internal/store"
)

// TestEventLifecycle walks a door through open and close events over the
// HTTP surface and verifies the event log, the status projection and the
// cleanup endpoints at each step.
func TestEventLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.WorkerPool.Size = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(testDB)
	// SMS credentials are deliberately absent: delivery must be skipped
	// without affecting any of the responses below.
	dispatcher := notification.NewDispatcher(cfg, appStore, nil)
	dispatcher.Start(ctx)
	ingestSvc := ingest.NewService(appStore, dispatcher)
	router := api.NewRouter(cfg, appStore, ingestSvc, dispatcher)

	doJSON := func(method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		w := httptest.NewRecorder()
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("")
		} else {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, path, reader)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		var decoded map[string]any
		if w.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(w.Body.String()), "{") {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
		}
		return w, decoded
	}

	// Register the asset that gives the door its dashboard identity.
	w, _ := doJSON(http.MethodPost, "/api/assets",
		`{"door_id":"ESP32-1_Santiago","custom_name":"Porton Principal","location":"Santiago","board_name":"ESP32-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("open event sets projection", func(t *testing.T) {
		w, body := doJSON(http.MethodPost, "/api/events",
			`{"board_name":"ESP32-1","location":"Santiago","event_type":"open"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, true, body["success"])

		event, ok := body["event"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "open", event["event_type"])
		assert.NotEmpty(t, event["id"])

		w = httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/door-status", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var views []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "ESP32-1_Santiago", views[0]["door_id"])
		assert.Equal(t, true, views[0]["is_open"])
		assert.Equal(t, "Porton Principal", views[0]["custom_name"])
		assert.NotNil(t, views[0]["event_start_time"])
		assert.Equal(t, event["id"], views[0]["last_event_id"])
	})

	t.Run("close event clears start time", func(t *testing.T) {
		w, body := doJSON(http.MethodPost, "/api/events",
			`{"board_name":"ESP32-1","location":"Santiago","event_type":"close"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		closeEvent := body["event"].(map[string]any)

		w = httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/door-status", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var views []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Equal(t, false, views[0]["is_open"])
		assert.Nil(t, views[0]["event_start_time"])
		assert.Equal(t, closeEvent["id"], views[0]["last_event_id"])
	})

	t.Run("event list is newest first and filterable", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/events?location=Santiago", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var events []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
		require.Len(t, events, 2)
		assert.Equal(t, "close", events[0]["event_type"])
		assert.Equal(t, "open", events[1]["event_type"])

		w = httptest.NewRecorder()
		req, _ = http.NewRequest(http.MethodGet, "/api/events?location=Valparaiso", nil)
		router.ServeHTTP(w, req)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
		assert.Empty(t, events)
	})

	t.Run("stats aggregate the log", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/stats", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var stats map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, float64(2), stats["total_events"])
		assert.Equal(t, float64(0), stats["total_alerts"])

		byType := stats["by_type"].(map[string]any)
		assert.Equal(t, float64(1), byType["open"])
		assert.Equal(t, float64(1), byType["close"])
	})

	t.Run("notify without provider credentials is a distinct error", func(t *testing.T) {
		w, body := doJSON(http.MethodPost, "/api/notify",
			`{"message":"Mensaje de prueba","event_type":"test"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, body["error"], "Twilio")
	})

	t.Run("retention cleanup with no old events", func(t *testing.T) {
		w, body := doJSON(http.MethodDelete, "/api/events?type=old&days=30", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(0), body["deleted"])
	})

	t.Run("full cleanup clears log and references", func(t *testing.T) {
		w, body := doJSON(http.MethodDelete, "/api/events?type=all", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["deleted"])

		// The projection row survives with its back references nulled.
		w2 := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/door-status", nil)
		router.ServeHTTP(w2, req)
		var views []map[string]any
		require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &views))
		require.Len(t, views, 1)
		assert.Nil(t, views[0]["last_event_id"])
		assert.Nil(t, views[0]["event_start_time"])
	})

	t.Run("status reset synthesizes defaults from assets", func(t *testing.T) {
		w, body := doJSON(http.MethodDelete, "/api/door-status", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(1), body["deleted_count"])

		w2 := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/api/door-status", nil)
		router.ServeHTTP(w2, req)
		require.Equal(t, http.StatusOK, w2.Code)

		var views []map[string]any
		require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &views))
		require.Len(t, views, 1, "every active asset yields exactly one row")
		assert.Equal(t, false, views[0]["is_open"])
		assert.Nil(t, views[0]["last_event_id"])
		assert.Nil(t, views[0]["event_start_time"])
		assert.Equal(t, "Porton Principal", views[0]["custom_name"])
	})

	// Allow the async alert workers to drain before the test tears down.
	time.Sleep(50 * time.Millisecond)
}

// TestOrphanStatusExcludedFromView verifies that status rows without a
// matching active asset never appear in the dashboard view.
func TestOrphanStatusExcludedFromView(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:orphan?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.WorkerPool.Size = 1

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(testDB)
	dispatcher := notification.NewDispatcher(cfg, appStore, nil)
	dispatcher.Start(ctx)
	ingestSvc := ingest.NewService(appStore, dispatcher)
	router := api.NewRouter(cfg, appStore, ingestSvc, dispatcher)

	// An event for a door with no registered asset creates an orphan status.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/events",
		strings.NewReader(`{"board_name":"ESP32-9","location":"Bodega","event_type":"open"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	statuses, err := appStore.ListDoorStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1, "orphan status row is stored")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/door-status", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	assert.Empty(t, views, "orphan status rows are excluded from the view")
}
