package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"door-monitor-backend/internal/notification"
)

type notifyRequest struct {
	Message   string `json:"message" binding:"required"`
	EventType string `json:"event_type"`
	Location  string `json:"location"`
	BoardName string `json:"board_name"`
}

// PostNotify handles POST /api/notify: synchronous SMS fan-out to the active
// contacts, used both by real event alerts and manual test sends. Partial
// delivery failure is reported in the result body, never as an HTTP error.
func (h *Handler) PostNotify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.dispatcher.Notify(c.Request.Context(), req.Message)
	if err != nil {
		if errors.Is(err, notification.ErrProviderNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Twilio no configurado correctamente"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error obteniendo contactos", "details": err.Error()})
		return
	}

	if result.TotalContacts == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No hay contactos activos",
			"sent_to": 0,
			"results": result.Results,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Alertas procesadas",
		"sent_to":          result.SentTo,
		"total_contacts":   result.TotalContacts,
		"unverified_count": result.UnverifiedCount,
		"results":          result.Results,
	})
}
