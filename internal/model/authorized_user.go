package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuthorizedUser is a person allowed to access monitored doors. Column and
// JSON names stay in Spanish for compatibility with the existing dashboard
// frontend.
type AuthorizedUser struct {
	ID                  string         `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName           string         `gorm:"column:nombre;size:128;not null" json:"nombre"`
	LastName            string         `gorm:"column:apellido;size:128" json:"apellido"`
	Email               string         `gorm:"column:email;size:256" json:"email"`
	Phone               string         `gorm:"column:telefono;size:32" json:"telefono"`
	Role                string         `gorm:"column:cargo;size:128" json:"cargo"`
	Department          string         `gorm:"column:departamento;size:128" json:"departamento"`
	RFIDUID             string         `gorm:"column:rfid_uid;size:64" json:"rfid_uid"`
	AuthorizedLocations datatypes.JSON `gorm:"column:ubicaciones_autorizadas" json:"ubicaciones_autorizadas"`
	Active              bool           `gorm:"column:activo;not null" json:"activo"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
