package models

// RolePermission is the join row between a role and a permission.
// The set of rows for one role_id is the only source of truth for the
// permissions that role grants; it is always replaced as a whole.
type RolePermission struct {
	// RoleID is the ID of the role in this mapping.
	RoleID uint `gorm:"primaryKey;column:role_id;autoIncrement:false"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uint `gorm:"primaryKey;column:permission_id;autoIncrement:false"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}
