// Package web wires the fiber app: middleware, liveness and metrics endpoints
// and the JSON api handlers.
package web

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	fiberlogger "github.com/rbacadmin/rbac-admin/internal/logger/adapter/fiber"
	"github.com/rbacadmin/rbac-admin/internal/web/handler"
	"github.com/rbacadmin/rbac-admin/internal/web/handler/api/dashboard"
	"github.com/rbacadmin/rbac-admin/internal/web/handler/api/notification"
	"github.com/rbacadmin/rbac-admin/internal/web/handler/api/permission"
	"github.com/rbacadmin/rbac-admin/internal/web/handler/api/role"
	"github.com/rbacadmin/rbac-admin/internal/web/handler/api/user"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Addr is the listen address from the webserver config.
func (s *Service) Addr() string {
	return net.JoinHostPort(s.cfg.Webserver.Host, strconv.Itoa(s.cfg.Webserver.Port))
}

// Start listens on the configured address and blocks until the server stops.
func (s *Service) Start() error {
	s.alive.Store(true)

	log.Info().Str("addr", s.Addr()).Msg("starting http server")

	if err := s.App.Listen(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("fiber listen error: %w", err)
	}

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and then stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown reports not alive for ShutDownTime seconds, so load balancers can
// drain this instance, and then stops the http server.
func (s *Service) Shutdown() {
	s.alive.Store(false)

	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this instance from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while the service accepts traffic and 503 during shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			AppName:               cfg.Title,
			CaseSensitive:         true,
			Immutable:             true,
			DisableStartupMessage: !cfg.DevMode,
			ErrorHandler:          handler.ErrorHandler,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		db:           db,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Log:           cfg.Log,
		CheckAliveURI: cfg.Webserver.CheckAliveURI,
	}))

	if cfg.Webserver.CheckAliveURI != "" {
		app.Get(cfg.Webserver.CheckAliveURI, service.CheckAlive)
	}

	if cfg.Webserver.MetricsURI != "" {
		app.Get(cfg.Webserver.MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group(cfg.Webserver.APIPrefix)

	for _, h := range []handler.Service{
		&user.Service{},
		&role.Service{},
		&permission.Service{},
		&notification.Service{},
		&dashboard.Service{},
	} {
		h.Init(api, cfg, db)
	}

	return service
}
