package model

import "time"

// AlertContact is a person eligible to receive SMS alerts. Only contacts
// with Active set receive notifications; the active set is re-read on every
// dispatch so deactivations take effect immediately.
type AlertContact struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	PhoneNumber string    `gorm:"size:32;not null" json:"phone_number"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
