// Package logger configures the global zerolog logger: console output, rotated
// files split by level and a prometheus counter of log statements.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes an event to the writer of its level bucket.
// A nil bucket drops the event.
type LevelWriter struct {
	Error io.Writer // error and above
	Warn  io.Writer
	Info  io.Writer // info and debug
	Trace io.Writer
}

// Write implements io.Writer for events without a level.
func (lw *LevelWriter) Write(p []byte) (int, error) {
	return lw.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return len(p), nil
	case l == zerolog.TraceLevel:
		w = lw.Trace
	case l == zerolog.WarnLevel:
		w = lw.Warn
	case l > zerolog.WarnLevel && l != zerolog.NoLevel:
		w = lw.Error
	default:
		w = lw.Info
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global logger from cfg with console output on os.Stdout and os.Stderr.
func Init(cfg Log) error {
	l, level, err := New(cfg, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}

	zerolog.ErrorHandler = ErrorHandler //nolint:reassign
	zerolog.SetGlobalLevel(level)

	log.Logger = l

	return nil
}

// New builds a logger from cfg writing console output to stdout (info and below)
// and stderr (warn and above). It returns the parsed level alongside.
// An empty level means info.
func New(cfg Log, stdout, stderr io.Writer) (zerolog.Logger, zerolog.Level, error) {
	if cfg.ServiceName == "" {
		return zerolog.Nop(), zerolog.Disabled, ErrServiceNameIsEmpty
	}

	level := zerolog.InfoLevel

	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), zerolog.Disabled, errors.Wrapf(err, "loglevel %s is not supported", cfg.Level)
		}

		level = parsed
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, consoleWriter(cfg.Console, stdout, stderr))
	}

	if cfg.File.Enabled {
		fw, err := fileWriter(cfg.File)
		if err != nil {
			return zerolog.Nop(), zerolog.Disabled, err
		}

		writers = append(writers, fw)
	}

	c := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName)

	if level == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		c = c.Stack()
	}

	if cfg.ReportCaller {
		c = c.Caller()
	}

	return c.Logger(), level, nil
}

func consoleWriter(cfg Console, stdout, stderr io.Writer) *LevelWriter {
	wrap := func(w io.Writer) io.Writer {
		if !cfg.Pretty {
			return w
		}

		return zerolog.ConsoleWriter{Out: w, TimeFormat: zerolog.TimeFieldFormat}
	}

	out, errOut := wrap(stdout), wrap(stderr)

	return &LevelWriter{Error: errOut, Warn: errOut, Info: out, Trace: errOut}
}

func fileWriter(cfg Files) (*LevelWriter, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrapf(err, "can't create log directory %s", cfg.Dir)
	}

	return &LevelWriter{
		Error: RotatingFile(cfg.Dir, cfg.Error),
		Warn:  RotatingFile(cfg.Dir, cfg.Warn),
		Info:  RotatingFile(cfg.Dir, cfg.Info),
		Trace: RotatingFile(cfg.Dir, cfg.Trace),
	}, nil
}

// RotatingFile returns a lumberjack writer for r inside dir, nil if r names no file.
func RotatingFile(dir string, r Rotation) io.Writer {
	if r.File == "" {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, r.File),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
		Compress:   r.Compress,
	}
}
