// Package auth resolves the effective permissions a user holds through their role.
package auth

import (
	"fmt"

	"gorm.io/gorm"
)

// Service provides authorization lookups over the RBAC tables.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if the user's role grants the named permission.
func (s *Service) HasPermission(userID uint, permission string) (bool, error) {
	var count int64

	err := s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ? AND permissions.name = ?", userID, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	return count > 0, nil
}

// GetUserPermissions returns the names of all permissions granted to the user,
// sorted by name. A user without a role has none.
func (s *Service) GetUserPermissions(userID uint) ([]string, error) {
	permissions := make([]string, 0)

	err := s.db.Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ?", userID).
		Order("permissions.name").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}
