// Package role provides the JSON handlers for roles and their permission matrix.
package role

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	controller "github.com/rbacadmin/rbac-admin/internal/db/controller/role"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
)

// Path is the base path for roles below the api prefix.
const Path = "/roles"

// Service provides CRUD handlers for roles.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.Validator
}

// permissionRef accepts the matrix shape {"permissions": [{"id": 1}]}.
type permissionRef struct {
	ID uint `json:"id" validate:"required"`
}

type createRequest struct {
	Name          string          `json:"name"          validate:"required,max=100"`
	Description   string          `json:"description"   validate:"max=255"`
	PermissionIDs []uint          `json:"permissionIds" validate:"dive,required"`
	Permissions   []permissionRef `json:"permissions"   validate:"dive"`
}

type updateRequest struct {
	Name          *string          `json:"name"          validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description"   validate:"omitempty,max=255"`
	PermissionIDs *[]uint          `json:"permissionIds" validate:"omitempty,dive,required"`
	Permissions   *[]permissionRef `json:"permissions"   validate:"omitempty,dive"`
}

type permissionsRequest struct {
	PermissionIDs []uint          `json:"permissionIds" validate:"dive,required"`
	Permissions   []permissionRef `json:"permissions"   validate:"dive"`
}

// mergeIDs combines both accepted shapes of a permission list.
func mergeIDs(ids []uint, refs []permissionRef) []uint {
	out := make([]uint, 0, len(ids)+len(refs))
	out = append(out, ids...)

	for _, ref := range refs {
		out = append(out, ref.ID)
	}

	return out
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
	router.Put(Path+handler.IDPath+"/permissions", s.SetPermissions)
}

// List returns all roles with their permissions.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := controller.List(handler.DB(c, s.db))
	if err != nil {
		return handler.InternalError(c, err, "Error fetching roles")
	}

	return c.JSON(roles)
}

// Get returns a single role with its permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	role, err := controller.Get(handler.DB(c, s.db), id)
	if err != nil {
		if errors.Is(err, controller.ErrRoleNotFound) {
			return handler.Error(c, fiber.StatusNotFound, "Role not found")
		}

		return handler.InternalError(c, err, "Error fetching role")
	}

	return c.JSON(role)
}

// Create adds a role together with its permission assignments.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	role, err := controller.Create(handler.DB(c, s.db), controller.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		PermissionIDs: mergeIDs(req.PermissionIDs, req.Permissions),
	})
	if err != nil {
		if isInputError(err) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error creating role")
	}

	return c.JSON(role)
}

// Update changes name and description. A permission list in the body, even an
// empty one, replaces the role's permission set; without one the set is kept.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	var req updateRequest
	if err = s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	in := controller.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	}

	if req.PermissionIDs != nil || req.Permissions != nil {
		var (
			ids  []uint
			refs []permissionRef
		)

		if req.PermissionIDs != nil {
			ids = *req.PermissionIDs
		}

		if req.Permissions != nil {
			refs = *req.Permissions
		}

		merged := mergeIDs(ids, refs)
		in.PermissionIDs = &merged
	}

	role, err := controller.Update(handler.DB(c, s.db), id, in)
	if err != nil {
		if isInputError(err) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error updating role")
	}

	return c.JSON(role)
}

// SetPermissions replaces the permission set of a role.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	var req permissionsRequest
	if err = s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	role, err := controller.SetPermissions(handler.DB(c, s.db), id, mergeIDs(req.PermissionIDs, req.Permissions))
	if err != nil {
		if isInputError(err) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error updating role")
	}

	return c.JSON(role)
}

// Delete removes a role; its users keep existing without a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	if err = controller.Delete(handler.DB(c, s.db), id); err != nil {
		return handler.InternalError(c, err, "Error deleting role")
	}

	return handler.Message(c, "Role deleted successfully")
}

func isInputError(err error) bool {
	return errors.Is(err, controller.ErrUnknownPermission) ||
		errors.Is(err, controller.ErrRoleNameEmpty)
}
