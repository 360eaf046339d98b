// Package user provides the JSON handlers for managing dashboard users.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/auth"
	"github.com/rbacadmin/rbac-admin/internal/config"
	controller "github.com/rbacadmin/rbac-admin/internal/db/controller/user"
	"github.com/rbacadmin/rbac-admin/internal/db/models"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
)

const (
	// Path is the base path for users below the api prefix.
	Path = "/users"

	paramPermission = "name"
)

// PermissionCheck is the result of a single permission lookup.
type PermissionCheck struct {
	Permission string `json:"permission"`
	Granted    bool   `json:"granted"`
}

// Service provides CRUD handlers for users.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.Validator
}

// roleRef accepts the embedded role shape {"roles": {"id": 1}} sent by clients.
type roleRef struct {
	ID *uint `json:"id"`
}

type createRequest struct {
	Name     string   `json:"name"     validate:"required,max=100"`
	Email    string   `json:"email"    validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required"`
	RoleID   *uint    `json:"role_id"`
	Roles    *roleRef `json:"roles"`
	Status   string   `json:"status"   validate:"omitempty,userstatus"`
}

type updateRequest struct {
	Name   *string  `json:"name"    validate:"omitempty,min=1,max=100"`
	Email  *string  `json:"email"   validate:"omitempty,email,max=255"`
	RoleID *uint    `json:"role_id"`
	Roles  *roleRef `json:"roles"`
	Status *string  `json:"status"  validate:"omitempty,userstatus"`
}

// roleID prefers role_id over the embedded role.
func roleID(id *uint, ref *roleRef) *uint {
	if id != nil {
		return id
	}

	if ref != nil {
		return ref.ID
	}

	return nil
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
	router.Get(Path+handler.IDPath+"/permissions", s.Permissions)
	router.Get(Path+handler.IDPath+"/permissions/:"+paramPermission, s.HasPermission)
}

// List returns all users with their role, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := controller.List(handler.DB(c, s.db))
	if err != nil {
		return handler.InternalError(c, err, "Error fetching users")
	}

	return c.JSON(users)
}

// Get returns a single user.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	user, err := controller.Get(handler.DB(c, s.db), id)
	if err != nil {
		if errors.Is(err, controller.ErrUserNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "User not found")
		}

		return handler.InternalError(c, err, "Error fetching user")
	}

	return c.JSON(user)
}

// Create adds a user. The password is hashed before storage and never returned.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	user, err := controller.Create(handler.DB(c, s.db), controller.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   roleID(req.RoleID, req.Roles),
		Status:   req.Status,
	})
	if err != nil {
		if isInputError(err) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error creating user")
	}

	return c.JSON(user)
}

// Update changes the given fields of a user.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	var req updateRequest
	if err = s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	user, err := controller.Update(handler.DB(c, s.db), id, controller.UpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		RoleID: roleID(req.RoleID, req.Roles),
		Status: req.Status,
	})
	if err != nil {
		if isInputError(err) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error updating user")
	}

	return c.JSON(user)
}

// Delete removes a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	if err = controller.Delete(handler.DB(c, s.db), id); err != nil {
		return handler.InternalError(c, err, "Error deleting user")
	}

	return handler.Message(c, "User deleted successfully")
}

// Permissions returns the names of the permissions the user holds through their role.
func (s *Service) Permissions(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	db := handler.DB(c, s.db)

	if _, err = controller.Get(db, id); err != nil {
		if errors.Is(err, controller.ErrUserNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "User not found")
		}

		return handler.InternalError(c, err, "Error fetching user")
	}

	permissions, err := auth.NewService(db).GetUserPermissions(id)
	if err != nil {
		return handler.InternalError(c, err, "Error fetching user permissions")
	}

	return c.JSON(permissions)
}

// HasPermission reports whether the user's role grants the named permission.
func (s *Service) HasPermission(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	db := handler.DB(c, s.db)

	if _, err = controller.Get(db, id); err != nil {
		if errors.Is(err, controller.ErrUserNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "User not found")
		}

		return handler.InternalError(c, err, "Error fetching user")
	}

	name := c.Params(paramPermission)

	granted, err := auth.NewService(db).HasPermission(id, name)
	if err != nil {
		return handler.InternalError(c, err, "Error checking user permission")
	}

	return c.JSON(PermissionCheck{Permission: name, Granted: granted})
}

func isInputError(err error) bool {
	return errors.Is(err, controller.ErrRoleNotFound) ||
		errors.Is(err, controller.ErrPasswordEmpty) ||
		errors.Is(err, models.ErrInvalidUserStatus)
}
