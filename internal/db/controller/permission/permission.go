// Package permission provides CRUD operations for permissions, including the
// lazy seeding of the default permission set.
package permission

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbacadmin/rbac-admin/internal/auth"
	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

const (
	idQueryPattern = "id = ?"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionNameEmpty is returned when creating or renaming a permission to an empty name.
	ErrPermissionNameEmpty = errors.New("permission name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Defaults returns the permissions created when the permissions table is empty.
func Defaults() []models.Permission {
	return []models.Permission{
		{Name: auth.PermViewUsers, Description: "Can view user list"},
		{Name: auth.PermCreateUsers, Description: "Can create new users"},
		{Name: auth.PermEditUsers, Description: "Can edit user information"},
		{Name: auth.PermDeleteUsers, Description: "Can delete users"},
		{Name: auth.PermViewRoles, Description: "Can view role list"},
		{Name: auth.PermCreateRoles, Description: "Can create new roles"},
		{Name: auth.PermEditRoles, Description: "Can edit role information"},
		{Name: auth.PermDeleteRoles, Description: "Can delete roles"},
		{Name: auth.PermAssignPermissions, Description: "Can assign permissions to roles"},
	}
}

// Seed inserts the default permissions. Rows whose name already exists are
// skipped, so concurrent callers never produce duplicates.
func Seed(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	defaults := Defaults()

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&defaults).Error
	if err != nil {
		return fmt.Errorf("failed to seed default permissions: %w", err)
	}

	return nil
}

// List returns all permissions ordered by id. An empty table is seeded with
// the defaults first.
func List(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var count int64
	if err := db.Model(&models.Permission{}).Count(&count).Error; err != nil {
		return nil, err
	}

	if count == 0 {
		if err := Seed(db); err != nil {
			return nil, err
		}
	}

	permissions := make([]models.Permission, 0)
	if err := db.Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}

	return permissions, nil
}

// Get retrieves a permission by its ID.
func Get(db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var permission models.Permission
	if err := db.First(&permission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}

		return nil, err
	}

	return &permission, nil
}

// Create creates a new permission.
func Create(db *gorm.DB, name, description string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	permission := &models.Permission{
		Name:        name,
		Description: description,
	}

	if err := db.Create(permission).Error; err != nil {
		return nil, err
	}

	return permission, nil
}

// Update changes the given fields of a permission. Nil fields are left untouched.
func Update(db *gorm.DB, id uint, name, description *string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name != nil && *name == "" {
		return nil, ErrPermissionNameEmpty
	}

	permission, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name != nil {
		updates["name"] = *name
	}

	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err = db.Model(permission).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return Get(db, id)
}

// Delete removes a permission and every role assignment of it.
// Deleting a missing permission is not an error.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&models.RolePermission{}).Error; err != nil {
			return fmt.Errorf("failed to remove role assignments: %w", err)
		}

		return tx.Where(idQueryPattern, id).Delete(&models.Permission{}).Error
	})
}
