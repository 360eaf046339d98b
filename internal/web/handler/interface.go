package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
)

// Service is the interface for a web handler service registering its routes on router.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB)
}
