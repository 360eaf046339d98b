// Package config reads etc/main.toml with environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultPath is the directory searched for main.toml when none is given.
	DefaultPath = "./etc/"
	// EnvPrefix prefixes single key overrides, e.g. RBAC_ADMIN_WEBSERVER_PORT.
	EnvPrefix = "RBAC_ADMIN"
	// EnvConfigJSON holds a JSON document merged over the file and env settings.
	EnvConfigJSON = "RBAC_ADMIN_CONFIG_JSON"

	fileName = "main.toml"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "RBAC Admin")
	v.SetDefault("devmode", false)

	v.SetDefault("db.gormengine", EngineSQLite)
	v.SetDefault("db.path", "rbac-admin.db")
	v.SetDefault("db.seedonstart", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.servicename", "rbac-admin")
	v.SetDefault("log.console.enabled", true)

	v.SetDefault("webserver.port", 8080)      //nolint:mnd
	v.SetDefault("webserver.shutdowntime", 5) //nolint:mnd
	v.SetDefault("webserver.checkaliveuri", "/checkalive")
	v.SetDefault("webserver.metricsuri", "/metrics")
	v.SetDefault("webserver.apiprefix", "/api")
}

// ReadConfig reads main.toml from path, applies RBAC_ADMIN_* environment
// overrides and finally the RBAC_ADMIN_CONFIG_JSON document.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	// bind every Config field so env vars apply to keys absent from main.toml
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigFile(filepath.Join(path, fileName))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if configJSON := os.Getenv(EnvConfigJSON); configJSON != "" {
		var err error
		if c, err = decodeAndMergeConfig(c, configJSON); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrapf(err, "failed to decode %s", EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode config as toml")
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config as json")
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon cannot start without and fills in
// runtime defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case EnginePostgres, EngineMySQL:
	case EngineSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrEmptySQLitePath, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Webserver.APIPrefix != "" && !strings.HasPrefix(c.Webserver.APIPrefix, "/") {
		return errors.Wrap(ErrAPIPrefixNotAbsolute, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // seconds
	}

	return nil
}
