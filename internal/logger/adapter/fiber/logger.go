// Package fiber provides the zerolog access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rbacadmin/rbac-admin/internal/logger"
)

// HeaderResponseTime carries the handling time in seconds.
const HeaderResponseTime = "X-Response-Time"

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Log decides which outputs receive the access log.
	Log logger.Log

	// CheckAliveURI is not logged when Log.SkipCheckAlive is set.
	CheckAliveURI string

	// Output replaces the outputs derived from Log when set.
	Output io.Writer
}

func (cfg *Config) writer() io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}

	var writers []io.Writer

	if cfg.Log.File.Enabled && cfg.Log.File.Access.File != "" {
		if err := os.MkdirAll(cfg.Log.File.Dir, 0o750); err != nil { //nolint:mnd
			log.Error().Err(err).Str("path", cfg.Log.File.Dir).Msg("can't create log directory")
		} else {
			writers = append(writers, logger.RotatingFile(cfg.Log.File.Dir, cfg.Log.File.Access))
		}
	}

	if cfg.Log.Console.Enabled && cfg.Log.AccessLogToConsole {
		if cfg.Log.Console.Pretty {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	return zerolog.MultiLevelWriter(writers...)
}

// New creates a fiber access logging middleware using zerolog.
// Errors returned by the chain are rendered through the app's ErrorHandler
// first, so the logged status is the one sent to the client.
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	var (
		accessLog  = zerolog.New(cfg.writer()).With().Timestamp().Logger().Level(zerolog.NoLevel)
		once       sync.Once
		errHandler fiber.ErrorHandler
	)

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		once.Do(func() {
			errHandler = c.App().ErrorHandler
		})

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := errHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		c.Set(HeaderResponseTime, strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64))

		if cfg.Log.SkipCheckAlive && cfg.CheckAliveURI != "" && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes the request URI, c.Path() keeps the original path
		uri := c.Path()
		if query := c.Request().URI().QueryString(); len(query) > 0 {
			uri += "?" + string(query)
		}

		event := accessLog.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", elapsed).
			Str("URI", uri).
			Str("method", c.Method()).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent))

		if chainErr != nil {
			event = event.Err(chainErr)
		}

		event.Send()

		return nil
	}
}
