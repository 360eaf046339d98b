// Package notification provides the JSON handlers for the activity feed.
package notification

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	controller "github.com/rbacadmin/rbac-admin/internal/db/controller/notification"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
)

// Path is the base path for notifications below the api prefix.
const Path = "/notifications"

// Service provides list and create handlers for notifications.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *handler.Validator
}

type createRequest struct {
	Message string `json:"message" validate:"required,max=1024"`
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
}

// List returns the newest notifications.
func (s *Service) List(c *fiber.Ctx) error {
	notifications, err := controller.List(handler.DB(c, s.db), controller.DefaultLimit)
	if err != nil {
		return handler.InternalError(c, err, "Error fetching notifications")
	}

	return c.JSON(notifications)
}

// Create appends a notification.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.validator.Bind(c, &req); err != nil {
		return handler.BadRequest(c, err)
	}

	notification, err := controller.Create(handler.DB(c, s.db), req.Message)
	if err != nil {
		if errors.Is(err, controller.ErrMessageEmpty) {
			return handler.BadRequest(c, err)
		}

		return handler.InternalError(c, err, "Error creating notification")
	}

	return c.JSON(notification)
}
