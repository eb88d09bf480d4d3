package model

import "time"

// DoorStatus is the latest derived state for a logical door, a projection
// over the event log keyed by door_id. It is upserted on every ingested
// event and is fully reconstructable by replaying events for the door in
// timestamp order.
type DoorStatus struct {
	DoorID         string     `gorm:"primaryKey;size:260" json:"door_id"`
	BoardName      string     `gorm:"size:128;not null" json:"board_name"`
	Location       string     `gorm:"size:128;not null" json:"location"`
	IsOpen         bool       `gorm:"not null" json:"is_open"`
	LastUpdated    time.Time  `gorm:"not null" json:"last_updated"`
	LastEventID    *string    `gorm:"type:uuid" json:"last_event_id"`
	EventStartTime *time.Time `json:"event_start_time"`
}

// DoorID derives the stable door key from the reporting board and its
// physical site. Distinct board+location pairs map to distinct doors as long
// as neither field contains the separator itself.
func DoorID(boardName, location string) string {
	return boardName + "_" + location
}
