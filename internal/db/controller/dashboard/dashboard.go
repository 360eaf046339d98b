// Package dashboard aggregates the counters shown on the admin overview page.
package dashboard

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

// RecentLimit is the number of users listed as recent activity.
const RecentLimit = 5

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// RoleCount is the number of users holding a role.
type RoleCount struct {
	RoleID uint   `json:"role_id"`
	Name   string `json:"name"`
	Users  int64  `json:"users"`
}

// Stats is the dashboard overview.
type Stats struct {
	TotalUsers    int64         `json:"total_users"`
	ActiveUsers   int64         `json:"active_users"`
	InactiveUsers int64         `json:"inactive_users"`
	TotalRoles    int64         `json:"total_roles"`
	Roles         []RoleCount   `json:"roles"`
	RecentUsers   []models.User `json:"recent_users"`
}

// Collect computes the dashboard overview. Roles without users are reported with a zero count.
func Collect(db *gorm.DB) (*Stats, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	stats := Stats{
		Roles:       make([]RoleCount, 0),
		RecentUsers: make([]models.User, 0),
	}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if err := db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

	if err := db.Model(&models.Role{}).Count(&stats.TotalRoles).Error; err != nil {
		return nil, fmt.Errorf("failed to count roles: %w", err)
	}

	err := db.Table("roles").
		Select("roles.id AS role_id, roles.name AS name, COUNT(users.id) AS users").
		Joins("LEFT JOIN users ON users.role_id = roles.id").
		Group("roles.id, roles.name").
		Order("roles.id").
		Scan(&stats.Roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users per role: %w", err)
	}

	err = db.Preload("Role").Order("created_at DESC").Order("id DESC").
		Limit(RecentLimit).Find(&stats.RecentUsers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}

	return &stats, nil
}
