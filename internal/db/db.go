// Package db opens the gorm connection for the configured engine and owns the schema migration.
package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rbacadmin/rbac-admin/internal/config"
	"github.com/rbacadmin/rbac-admin/internal/db/dsn"
	"github.com/rbacadmin/rbac-admin/internal/db/models"
)

// ErrUnknownEngine is returned when DB.GormEngine names no supported driver.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg)), nil
	case config.EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg)), nil
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// Open connects to the database and applies the pool settings.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logMode := gormlogger.Silent
	if cfg.DevMode {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}

	log.Info().Str("engine", cfg.DB.GormEngine).Msg("database connection established")

	return db, nil
}

// Migrate registers the role_permissions join model and migrates every table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Role{}, "Permissions", &models.RolePermission{}); err != nil {
		return fmt.Errorf("failed to setup role_permissions join table: %w", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
