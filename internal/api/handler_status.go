package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"door-monitor-backend/internal/model"
)

// doorStatusView is a stored door status decorated with the asset's display
// fields, or a synthesized default for assets with no recorded events yet.
type doorStatusView struct {
	DoorID           string     `json:"door_id"`
	BoardName        string     `json:"board_name"`
	Location         string     `json:"location"`
	IsOpen           bool       `json:"is_open"`
	LastUpdated      time.Time  `json:"last_updated"`
	LastEventID      *string    `json:"last_event_id"`
	EventStartTime   *time.Time `json:"event_start_time"`
	CustomName       string     `json:"custom_name"`
	AssetLocation    string     `json:"asset_location"`
	AssetDescription string     `json:"asset_description"`
}

// GetDoorStatuses handles GET /api/door-status. One row per active asset:
// the stored projection when present, a closed default otherwise. Orphan
// status rows without a matching asset are not reported. This is a pure
// read-time merge; nothing is written back.
func (h *Handler) GetDoorStatuses(c *gin.Context) {
	ctx := c.Request.Context()

	assets, err := h.store.ListActiveAssets(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching door status"})
		return
	}

	statuses, err := h.store.ListDoorStatuses(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching door status"})
		return
	}

	statusMap := make(map[string]model.DoorStatus, len(statuses))
	for _, s := range statuses {
		statusMap[s.DoorID] = s
	}

	views := make([]doorStatusView, 0, len(assets))
	for _, asset := range assets {
		if status, ok := statusMap[asset.DoorID]; ok {
			views = append(views, doorStatusView{
				DoorID:           status.DoorID,
				BoardName:        status.BoardName,
				Location:         status.Location,
				IsOpen:           status.IsOpen,
				LastUpdated:      status.LastUpdated,
				LastEventID:      status.LastEventID,
				EventStartTime:   status.EventStartTime,
				CustomName:       asset.CustomName,
				AssetLocation:    asset.Location,
				AssetDescription: asset.Description,
			})
		} else {
			lastUpdated := asset.UpdatedAt
			if lastUpdated.IsZero() {
				lastUpdated = asset.CreatedAt
			}
			views = append(views, doorStatusView{
				DoorID:           asset.DoorID,
				BoardName:        asset.BoardName,
				Location:         asset.Location,
				IsOpen:           false,
				LastUpdated:      lastUpdated,
				CustomName:       asset.CustomName,
				AssetLocation:    asset.Location,
				AssetDescription: asset.Description,
			})
		}
	}

	c.JSON(http.StatusOK, views)
}

// ClearDoorStatuses handles DELETE /api/door-status, the administrative
// reset. Events are untouched; the read path reconstructs a closed default
// for every asset until new events arrive.
func (h *Handler) ClearDoorStatuses(c *gin.Context) {
	deleted, err := h.store.ClearDoorStatuses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al limpiar estado de puertas", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Estado de puertas limpiado exitosamente",
		"deleted_count": deleted,
	})
}
