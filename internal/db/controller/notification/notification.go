// Package notification stores and lists the admin activity feed.
package notification

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

// DefaultLimit is the number of notifications returned by the API.
const DefaultLimit = 50

var (
	// ErrMessageEmpty is returned when creating a notification without a message.
	ErrMessageEmpty = errors.New("notification message cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// List returns at most limit notifications, newest first. A limit <= 0 falls back to DefaultLimit.
func List(db *gorm.DB, limit int) ([]models.Notification, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	notifications := make([]models.Notification, 0)

	err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// Create appends a notification to the feed.
func Create(db *gorm.DB, message string) (*models.Notification, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(message) == "" {
		return nil, ErrMessageEmpty
	}

	notification := models.Notification{Message: message}
	if err := db.Create(&notification).Error; err != nil {
		return nil, err
	}

	return &notification, nil
}
