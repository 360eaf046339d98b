package models

import "time"

// Permission represents a single grantable right, for example "view_users".
// Permissions are attached to roles through the role_permissions join table.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique permission identifier. The unique index is what makes
	// default seeding idempotent under concurrent first requests.
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255" json:"description"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
