// Package main provides the entry point of rbac-admin, the backend of a role
// based access control admin dashboard. It serves a JSON API built on fiber
// for users, roles, permissions, the permission matrix and notifications, and
// persists them with gorm on PostgreSQL, MySQL or SQLite.
package main
