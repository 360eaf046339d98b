// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/rbacadmin/rbac-admin/internal/config"
)

// Create builds the Data Source Name for the configured gorm engine.
func Create(dbCfg *config.Config) string {
	c := dbCfg.DB

	switch c.GormEngine {
	case config.EnginePostgres:
		return strings.TrimSpace(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
			c.Host,
			c.Port,
			c.User,
			c.Password,
			c.Name,
			c.Extras,
		))
	case config.EngineSQLite:
		if c.Extras == "" {
			return c.Path
		}

		return c.Path + "?" + c.Extras
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			c.User,
			c.Password,
			c.Host,
			c.Port,
			c.Name,
			c.Extras,
		)
	}
}
