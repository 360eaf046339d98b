package auth

// Permission names seeded into an empty permissions table.
// Roles grant these to users of the dashboard.
const (
	// PermViewUsers allows listing users.
	PermViewUsers = "view_users"
	// PermCreateUsers allows creating users.
	PermCreateUsers = "create_users"
	// PermEditUsers allows editing user information.
	PermEditUsers = "edit_users"
	// PermDeleteUsers allows deleting users.
	PermDeleteUsers = "delete_users"

	// PermViewRoles allows listing roles.
	PermViewRoles = "view_roles"
	// PermCreateRoles allows creating roles.
	PermCreateRoles = "create_roles"
	// PermEditRoles allows editing role information.
	PermEditRoles = "edit_roles"
	// PermDeleteRoles allows deleting roles.
	PermDeleteRoles = "delete_roles"

	// PermAssignPermissions allows changing the permission set of a role.
	PermAssignPermissions = "assign_permissions"
)
