package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats handles GET /api/stats?location=. Aggregates the event log for
// the dashboard's report cards.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.store.EventStats(c.Request.Context(), c.Query("location"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
