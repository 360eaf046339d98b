package models

import "time"

// Role is a named collection of permissions which is assigned to users.
// The Permissions slice is a view over role_permissions and is only filled
// when preloaded.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the display name of the role (e.g. "Editor").
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// Permissions granted by this role.
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
