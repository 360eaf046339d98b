package models

// All returns every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&Notification{},
	}
}
