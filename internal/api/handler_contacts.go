package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"door-monitor-backend/internal/model"
)

// GetAlertContacts handles GET /api/alert-contacts.
func GetAlertContacts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contacts []model.AlertContact
		if err := db.Order("name").Find(&contacts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching contacts"})
			return
		}
		c.JSON(http.StatusOK, contacts)
	}
}

type createContactRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Active      *bool  `json:"active"`
}

// CreateAlertContact handles POST /api/alert-contacts.
func CreateAlertContact(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		contact := model.AlertContact{
			ID:          uuid.NewString(),
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
			Active:      req.Active == nil || *req.Active,
		}
		if err := db.Create(&contact).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating contact"})
			return
		}
		c.JSON(http.StatusCreated, contact)
	}
}

type updateContactRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number"`
	Active      *bool   `json:"active"`
}

// UpdateAlertContact handles PUT /api/alert-contacts/:id.
func UpdateAlertContact(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]any{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.PhoneNumber != nil {
			updates["phone_number"] = *req.PhoneNumber
		}
		if req.Active != nil {
			updates["active"] = *req.Active
		}

		var contact model.AlertContact
		if err := db.First(&contact, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating contact"})
			}
			return
		}

		if len(updates) > 0 {
			if err := db.Model(&contact).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating contact"})
				return
			}
		}
		c.JSON(http.StatusOK, contact)
	}
}

// DeleteAlertContact handles DELETE /api/alert-contacts/:id.
func DeleteAlertContact(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&model.AlertContact{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting contact"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
