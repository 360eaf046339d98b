// Package models contains the gorm models of the RBAC data store:
// users, roles, permissions, the role_permissions join table and notifications.
package models
