package api

import (
	"door-monitor-backend/internal/ingest"
	"door-monitor-backend/internal/notification"
	"door-monitor-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store         store.Store
	ingest        *ingest.Service
	dispatcher    *notification.Dispatcher
	pushPublicKey string
}

// NewHandler creates a new API handler. pushPublicKey may be empty when the
// push channel is disabled.
func NewHandler(s store.Store, ingestSvc *ingest.Service, dispatcher *notification.Dispatcher, pushPublicKey string) *Handler {
	return &Handler{
		store:         s,
		ingest:        ingestSvc,
		dispatcher:    dispatcher,
		pushPublicKey: pushPublicKey,
	}
}
