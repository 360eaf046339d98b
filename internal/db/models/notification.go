package models

import "time"

// Notification is an append-only message shown in the admin activity feed.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"size:1024;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the database table name for the Notification model.
func (Notification) TableName() string {
	return "notifications"
}
