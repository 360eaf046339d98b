// Package user provides CRUD operations for dashboard users.
package user

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound is returned when the referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrPasswordEmpty is returned when creating a user without a password.
	ErrPasswordEmpty = errors.New("password cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// CreateInput holds the fields of a new user. Password is plaintext and is
// hashed before it reaches the database.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	RoleID   *uint
	Status   string
}

// UpdateInput holds the fields to change on a user. Nil fields are left untouched.
// A RoleID pointing to 0 removes the role.
type UpdateInput struct {
	Name   *string
	Email  *string
	RoleID *uint
	Status *string
}

func withRole(db *gorm.DB) *gorm.DB {
	return db.Preload("Role")
}

// List returns all users with their role, newest first.
func List(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	users := make([]models.User, 0)
	if err := withRole(db).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Get retrieves a user by ID together with the assigned role.
func Get(db *gorm.DB, id uint) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	if err := withRole(db).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}

// Create hashes the password and stores a new user. An empty status defaults to Active.
func Create(db *gorm.DB, in CreateInput) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if in.Password == "" {
		return nil, ErrPasswordEmpty
	}

	status := models.UserStatusActive

	if in.Status != "" {
		parsed, err := models.ParseUserStatus(in.Status)
		if err != nil {
			return nil, err
		}

		status = parsed
	}

	roleID, err := resolveRole(db, in.RoleID)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashedPassword,
		RoleID:   roleID,
		Status:   status,
	}

	if err = db.Omit(clause.Associations).Create(&user).Error; err != nil {
		return nil, err
	}

	return Get(db, user.ID)
}

// Update changes the given fields of a user.
func Update(db *gorm.DB, id uint, in UpdateInput) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	updates := map[string]any{}

	if in.Name != nil {
		updates["name"] = *in.Name
	}

	if in.Email != nil {
		updates["email"] = *in.Email
	}

	if in.Status != nil {
		status, err := models.ParseUserStatus(*in.Status)
		if err != nil {
			return nil, err
		}

		updates["status"] = status
	}

	if in.RoleID != nil {
		roleID, err := resolveRole(db, in.RoleID)
		if err != nil {
			return nil, err
		}

		updates["role_id"] = roleID
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return Get(db, id)
}

// Delete hard deletes a user. Deleting a missing user is not an error.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where("id = ?", id).Delete(&models.User{}).Error
}

// resolveRole maps a requested role id to the value stored in users.role_id.
// nil and 0 mean no role; any other id must exist.
func resolveRole(db *gorm.DB, roleID *uint) (*uint, error) {
	if roleID == nil || *roleID == 0 {
		return nil, nil //nolint:nilnil
	}

	var count int64
	if err := db.Model(&models.Role{}).Where("id = ?", *roleID).Count(&count).Error; err != nil {
		return nil, err
	}

	if count == 0 {
		return nil, ErrRoleNotFound
	}

	id := *roleID

	return &id, nil
}
