package config

import (
	"github.com/rbacadmin/rbac-admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	Host           string // listening address, empty for all interfaces
	Port           int    // listening port for the webserver
	ShutDownTime   int    // seconds to wait for in flight requests on shutdown
	DisableRecover bool   // disable recover middleware
	CheckAliveURI  string // liveness endpoint, empty disables it
	MetricsURI     string // prometheus endpoint, empty disables it
	APIPrefix      string // group prefix of the JSON api
}
