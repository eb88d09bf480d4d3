package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"door-monitor-backend/internal/model"
)

// GetAuthorizedUsers handles GET /api/authorized-users.
func GetAuthorizedUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []model.AuthorizedUser
		if err := db.Order("nombre").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

type createUserRequest struct {
	FirstName           string         `json:"nombre" binding:"required"`
	LastName            string         `json:"apellido"`
	Email               string         `json:"email"`
	Phone               string         `json:"telefono"`
	Role                string         `json:"cargo"`
	Department          string         `json:"departamento"`
	RFIDUID             string         `json:"rfid_uid"`
	AuthorizedLocations datatypes.JSON `json:"ubicaciones_autorizadas"`
	Active              *bool          `json:"activo"`
}

// CreateAuthorizedUser handles POST /api/authorized-users.
func CreateAuthorizedUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		locations := req.AuthorizedLocations
		if locations == nil {
			locations = datatypes.JSON([]byte("[]"))
		}

		user := model.AuthorizedUser{
			ID:                  uuid.NewString(),
			FirstName:           req.FirstName,
			LastName:            req.LastName,
			Email:               req.Email,
			Phone:               req.Phone,
			Role:                req.Role,
			Department:          req.Department,
			RFIDUID:             req.RFIDUID,
			AuthorizedLocations: locations,
			Active:              req.Active == nil || *req.Active,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

type updateUserRequest struct {
	FirstName           *string        `json:"nombre"`
	LastName            *string        `json:"apellido"`
	Email               *string        `json:"email"`
	Phone               *string        `json:"telefono"`
	Role                *string        `json:"cargo"`
	Department          *string        `json:"departamento"`
	RFIDUID             *string        `json:"rfid_uid"`
	AuthorizedLocations datatypes.JSON `json:"ubicaciones_autorizadas"`
	Active              *bool          `json:"activo"`
}

// UpdateAuthorizedUser handles PUT /api/authorized-users/:id.
func UpdateAuthorizedUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := map[string]any{}
		if req.FirstName != nil {
			updates["nombre"] = *req.FirstName
		}
		if req.LastName != nil {
			updates["apellido"] = *req.LastName
		}
		if req.Email != nil {
			updates["email"] = *req.Email
		}
		if req.Phone != nil {
			updates["telefono"] = *req.Phone
		}
		if req.Role != nil {
			updates["cargo"] = *req.Role
		}
		if req.Department != nil {
			updates["departamento"] = *req.Department
		}
		if req.RFIDUID != nil {
			updates["rfid_uid"] = *req.RFIDUID
		}
		if req.AuthorizedLocations != nil {
			updates["ubicaciones_autorizadas"] = req.AuthorizedLocations
		}
		if req.Active != nil {
			updates["activo"] = *req.Active
		}

		var user model.AuthorizedUser
		if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
			}
			return
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
				return
			}
		}
		c.JSON(http.StatusOK, user)
	}
}

// DeleteAuthorizedUser handles DELETE /api/authorized-users/:id.
func DeleteAuthorizedUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&model.AuthorizedUser{}, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
