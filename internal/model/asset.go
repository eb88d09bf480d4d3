package model

import "time"

// Asset gives a monitored door a human-friendly identity on the dashboard.
// One asset maps to one door_id; door status rows carry no foreign key back,
// so orphan statuses without an asset are tolerated on read.
type Asset struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	DoorID      string    `gorm:"size:260;uniqueIndex;not null" json:"door_id"`
	CustomName  string    `gorm:"size:128;not null" json:"custom_name"`
	Location    string    `gorm:"size:128;not null" json:"location"`
	BoardName   string    `gorm:"size:128" json:"board_name"`
	Description string    `gorm:"size:512" json:"description"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
