package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"door-monitor-backend/internal/model"
)

// GetAssets handles GET /api/assets.
func GetAssets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var assets []model.Asset
		if err := db.Order("location").Order("custom_name").Find(&assets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, assets)
	}
}

type createAssetRequest struct {
	DoorID      string `json:"door_id" binding:"required"`
	CustomName  string `json:"custom_name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	BoardName   string `json:"board_name"`
	Description string `json:"description"`
}

// CreateAsset handles POST /api/assets.
func CreateAsset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createAssetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan campos requeridos"})
			return
		}

		asset := model.Asset{
			ID:          uuid.NewString(),
			DoorID:      req.DoorID,
			CustomName:  req.CustomName,
			Location:    req.Location,
			BoardName:   req.BoardName,
			Description: req.Description,
			Active:      true,
		}
		if err := db.Create(&asset).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, asset)
	}
}

type updateAssetRequest struct {
	CustomName  *string `json:"custom_name"`
	Location    *string `json:"location"`
	BoardName   *string `json:"board_name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// UpdateAsset handles PUT /api/assets/:id. Only the provided fields change.
func UpdateAsset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateAssetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]any{}
		if req.CustomName != nil {
			updates["custom_name"] = *req.CustomName
		}
		if req.Location != nil {
			updates["location"] = *req.Location
		}
		if req.BoardName != nil {
			updates["board_name"] = *req.BoardName
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Active != nil {
			updates["active"] = *req.Active
		}

		var asset model.Asset
		if err := db.First(&asset, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		if len(updates) > 0 {
			if err := db.Model(&asset).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, asset)
	}
}

// DeleteAsset handles DELETE /api/assets/:id.
func DeleteAsset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&model.Asset{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
