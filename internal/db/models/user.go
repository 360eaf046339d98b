package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// UserStatus is the account state of a user.
type UserStatus string

const (
	// UserStatusActive marks an enabled account.
	UserStatusActive UserStatus = "Active"
	// UserStatusInactive marks a disabled account.
	UserStatusInactive UserStatus = "Inactive"
)

// ErrInvalidUserStatus is returned by ParseUserStatus for anything besides Active or Inactive.
var ErrInvalidUserStatus = errors.New("user status must be Active or Inactive")

// ParseUserStatus normalizes s case-insensitively to one of the known statuses.
func ParseUserStatus(s string) (UserStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return UserStatusActive, nil
	case "inactive":
		return UserStatusInactive, nil
	default:
		return "", ErrInvalidUserStatus
	}
}

// User represents an account managed through the admin dashboard.
// Each user holds at most one role.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the display name of the user.
	Name string `gorm:"size:100;not null" json:"name"`
	// Email is the user's unique email address.
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	// Password is the Argon2id hash of the password. It is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`
	// RoleID is the ID of the role assigned to this user, nil if none.
	RoleID *uint `gorm:"column:role_id;index" json:"role_id"`
	// Role is the assigned role, embedded in responses under "roles" as a RoleSummary.
	Role *Role `gorm:"foreignKey:RoleID;references:ID" json:"roles,omitempty"`
	// Status is either Active or Inactive.
	Status UserStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	// LastLogin is the time of the last successful login, nil if never.
	LastLogin *time.Time `json:"last_login"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updated_at"`
}

// RoleSummary is the role as embedded in user responses.
type RoleSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MarshalJSON renders the assigned role as a RoleSummary.
func (u User) MarshalJSON() ([]byte, error) {
	type user User

	out := struct {
		user
		Role *RoleSummary `json:"roles,omitempty"`
	}{user: user(u)}

	if u.Role != nil {
		out.Role = &RoleSummary{ID: u.Role.ID, Name: u.Role.Name}
	}

	return json.Marshal(out) //nolint:wrapcheck
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hash
// in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
