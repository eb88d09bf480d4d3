package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Every subscription receives every alert broadcast; expired subscriptions
// are pruned when the push service reports 410 Gone.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey" json:"endpoint"`
	P256DH    string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string    `gorm:"not null" json:"auth"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
