package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"door-monitor-backend/internal/ingest"
)

const eventListLimit = 100

type postEventRequest struct {
	BoardName  string            `json:"board_name" binding:"required"`
	Location   string            `json:"location" binding:"required"`
	EventType  string            `json:"event_type" binding:"required"`
	Authorized bool              `json:"authorized"`
	Details    datatypes.JSONMap `json:"details"`
}

// PostEvent handles POST /api/events: the board-facing ingestion endpoint.
func (h *Handler) PostEvent(c *gin.Context) {
	var req postEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.ingest.RecordEvent(c.Request.Context(), ingest.EventRequest{
		BoardName:  req.BoardName,
		Location:   req.Location,
		EventType:  req.EventType,
		Authorized: req.Authorized,
		Details:    req.Details,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
}

// GetEvents handles GET /api/events: the most recent events, newest first,
// optionally filtered by exact location.
func (h *Handler) GetEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c.Request.Context(), c.Query("location"), eventListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// CleanupEvents handles DELETE /api/events?type=old|all&days=n, the retention
// cleanup. Door status back references are nulled before events are deleted
// so the projection never points at a missing event.
func (h *Handler) CleanupEvents(c *gin.Context) {
	ctx := c.Request.Context()

	switch c.Query("type") {
	case "all":
		deleted, err := h.store.DeleteAllEvents(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al limpiar eventos", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"deleted": deleted,
			"message": fmt.Sprintf("Se eliminaron %d eventos exitosamente.", deleted),
		})

	case "old":
		days, err := strconv.Atoi(c.Query("days"))
		if err != nil || days < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Número de días inválido"})
			return
		}

		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		deleted, err := h.store.DeleteEventsOlderThan(ctx, cutoff)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al limpiar eventos", "details": err.Error()})
			return
		}

		message := fmt.Sprintf("Se eliminaron %d eventos con más de %d días de antigüedad.", deleted, days)
		if deleted == 0 {
			message = fmt.Sprintf("No hay eventos con más de %d días de antigüedad.", days)
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted, "message": message})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de limpieza no especificado o inválido"})
	}
}
