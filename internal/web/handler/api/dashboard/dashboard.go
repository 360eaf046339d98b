// Package dashboard provides the overview counters of the admin start page.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	controller "github.com/rbacadmin/rbac-admin/internal/db/controller/dashboard"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
)

// Path is the dashboard route below the api prefix.
const Path = "/dashboard"

// Service serves the dashboard statistics.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) {
	if router == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db

	router.Get(Path, s.Get)
}

// Get returns the dashboard statistics.
func (s *Service) Get(c *fiber.Ctx) error {
	stats, err := controller.Collect(handler.DB(c, s.db))
	if err != nil {
		return handler.InternalError(c, err, "Error fetching dashboard")
	}

	return c.JSON(stats)
}
