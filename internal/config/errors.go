package config

import (
	"errors"
)

var (
	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if db.gormengine is neither postgres, mysql nor sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be postgres, mysql or sqlite")

	// ErrEmptySQLitePath error if the sqlite engine is selected without db.path.
	ErrEmptySQLitePath = errors.New("toml config db.path can not be empty for sqlite")

	// ErrAPIPrefixNotAbsolute error if webserver.apiprefix does not start with a slash.
	ErrAPIPrefixNotAbsolute = errors.New("toml config webserver.apiprefix must start with /")
)
