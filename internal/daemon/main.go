// Package daemon assembles the database and the web service and runs them.
package daemon

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rbacadmin/rbac-admin/internal/config"
	"github.com/rbacadmin/rbac-admin/internal/db"
	"github.com/rbacadmin/rbac-admin/internal/db/controller/permission"
	"github.com/rbacadmin/rbac-admin/internal/web"
)

// ErrConfigNil is returned by New without a configuration.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	db         *gorm.DB
	webService *web.Service
}

// New opens and migrates the database, seeds the default permissions when
// DB.SeedOnStart is set and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	return setup(cfg, conn)
}

func setup(cfg *config.Config, conn *gorm.DB) (*Daemon, error) {
	if err := db.Migrate(conn); err != nil {
		return nil, err
	}

	if cfg.DB.SeedOnStart {
		if err := permission.Seed(conn); err != nil {
			return nil, fmt.Errorf("failed to seed permissions: %w", err)
		}

		log.Info().Msg("default permissions seeded")
	}

	return &Daemon{
		db:         conn,
		webService: web.New(cfg, conn),
	}, nil
}

// Start runs the web service until SIGINT or SIGTERM and closes the database afterwards.
func (d *Daemon) Start() error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- d.webService.Start()
	}()

	go d.webService.WaitShutdown()

	err := <-errCh

	if sqlDB, dbErr := d.db.DB(); dbErr == nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close database")
		}
	}

	return err
}
