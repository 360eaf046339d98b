// Package permission provides the JSON handlers for permissions.
package permission

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	controller "github.com/rbacadmin/rbac-admin/internal/db/controller/permission"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
)

// Path is the base path for permissions below the api prefix.
const Path = "/permissions"

// Service provides CRUD handlers for permissions.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.Validator
}

type createRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

type updateRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) {
	if router == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = handler.NewValidator()

	router.Get(Path, s.List)
	router.Post(Path, s.Create)
	router.Get(Path+handler.IDPath, s.Get)
	router.Put(Path+handler.IDPath, s.Update)
	router.Delete(Path+handler.IDPath, s.Delete)
}

// List returns all permissions, seeding the defaults into an empty table first.
func (s *Service) List(c *fiber.Ctx) error {
	permissions, err := controller.List(handler.DB(c, s.db))
	if err != nil {
		return handler.InternalError(c, err, "Error fetching permissions")
	}

	return c.JSON(permissions)
}

// Get returns a single permission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	permission, err := controller.Get(handler.DB(c, s.db), id)
	if err != nil {
		if errors.Is(err, controller.ErrPermissionNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "Permission not found")
		}

		return handler.InternalError(c, err, "Error fetching permission")
	}

	return c.JSON(permission)
}

// Create adds a permission.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	permission, err := controller.Create(handler.DB(c, s.db), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, controller.ErrPermissionNameEmpty) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error creating permission")
	}

	return c.JSON(permission)
}

// Update changes the given fields of a permission.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	var req updateRequest
	if err = s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	permission, err := controller.Update(handler.DB(c, s.db), id, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, controller.ErrPermissionNameEmpty) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error updating permission")
	}

	return c.JSON(permission)
}

// Delete removes a permission and revokes it from every role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	if err = controller.Delete(handler.DB(c, s.db), id); err != nil {
		return handler.InternalError(c, err, "Error deleting permission")
	}

	return handler.Message(c, "Permission deleted successfully")
}
