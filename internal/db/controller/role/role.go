// Package role provides CRUD operations for roles and keeps the role_permissions
// join table in sync with the permission set of each role.
package role

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

const (
	idQueryPattern     = "id = ?"
	roleIDQueryPattern = "role_id = ?"
)

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when creating or renaming a role to an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrUnknownPermission is returned when a permission id does not reference an existing permission.
	ErrUnknownPermission = errors.New("unknown permission id")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// CreateInput holds the fields of a new role.
type CreateInput struct {
	Name          string
	Description   string
	PermissionIDs []uint
}

// UpdateInput holds the fields to change on a role. Nil fields are left untouched.
// A non-nil PermissionIDs replaces the whole permission set, an empty slice revokes all.
type UpdateInput struct {
	Name          *string
	Description   *string
	PermissionIDs *[]uint
}

func withPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload("Permissions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("permissions.id")
	})
}

func normalize(role *models.Role) {
	if role.Permissions == nil {
		role.Permissions = make([]models.Permission, 0)
	}
}

// List returns all roles with their permissions, ordered by id.
func List(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	roles := make([]models.Role, 0)
	if err := withPermissions(db).Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}

	for i := range roles {
		normalize(&roles[i])
	}

	return roles, nil
}

// Get retrieves a role by its ID together with its permissions.
func Get(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	if err := withPermissions(db).First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, err
	}

	normalize(&role)

	return &role, nil
}

// Create inserts a role and its permission assignments in one transaction.
func Create(db *gorm.DB, in CreateInput) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if in.Name == "" {
		return nil, ErrRoleNameEmpty
	}

	role := models.Role{
		Name:        in.Name,
		Description: in.Description,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&role).Error; err != nil {
			return err
		}

		return replacePermissions(tx, role.ID, in.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, role.ID)
}

// Update changes the given fields of a role and, when requested, replaces its
// permission set, all in one transaction.
func Update(db *gorm.DB, id uint, in UpdateInput) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if in.Name != nil && *in.Name == "" {
		return nil, ErrRoleNameEmpty
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}

			return err
		}

		updates := map[string]any{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}

		if in.Description != nil {
			updates["description"] = *in.Description
		}

		if len(updates) > 0 {
			if err := tx.Model(&role).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.PermissionIDs == nil {
			return nil
		}

		return replacePermissions(tx, id, *in.PermissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// SetPermissions replaces the permission set of a role with permissionIDs and
// returns the role with its resulting permissions. The delete and insert run in
// one transaction, so concurrent calls for the same role never interleave and a
// failed call leaves the previous set in place.
func SetPermissions(db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Role{}).Where(idQueryPattern, id).Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			return ErrRoleNotFound
		}

		return replacePermissions(tx, id, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete removes a role, its permission assignments and its reference on users.
// Deleting a missing role is not an error.
func Delete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(roleIDQueryPattern, id).Delete(&models.RolePermission{}).Error; err != nil {
			return fmt.Errorf("failed to remove permission assignments: %w", err)
		}

		if err := tx.Model(&models.User{}).Where(roleIDQueryPattern, id).Update("role_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign users: %w", err)
		}

		return tx.Where(idQueryPattern, id).Delete(&models.Role{}).Error
	})
}

// replacePermissions deletes every join row of the role and inserts one row per
// distinct permission id. Must run inside a transaction.
func replacePermissions(tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	ids := dedupe(permissionIDs)

	if err := tx.Where(roleIDQueryPattern, roleID).Delete(&models.RolePermission{}).Error; err != nil {
		return fmt.Errorf("failed to clear role permissions: %w", err)
	}

	if len(ids) == 0 {
		return nil
	}

	var found int64
	if err := tx.Model(&models.Permission{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
		return err
	}

	if found != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d ids do not exist", ErrUnknownPermission, int64(len(ids))-found, len(ids))
	}

	rows := make([]models.RolePermission, 0, len(ids))
	for _, permissionID := range ids {
		rows = append(rows, models.RolePermission{RoleID: roleID, PermissionID: permissionID})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert role permissions: %w", err)
	}

	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
