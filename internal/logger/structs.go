package logger

// Console configures logging to stdout and stderr.
type Console struct {
	Enabled bool
	Pretty  bool // human readable zerolog.ConsoleWriter instead of JSON lines
}

// Rotation configures one lumberjack rotated log file.
type Rotation struct {
	File       string // file name inside Files.Dir
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Files configures file based logging, one file per level bucket plus the access log.
type Files struct {
	Enabled bool
	Dir     string

	Access Rotation
	Error  Rotation // error, fatal and panic
	Warn   Rotation
	Info   Rotation // info and debug
	Trace  Rotation
}

// Log implements the logger config.
type Log struct {
	Level       string // trace, debug, info, warn, error
	ServiceName string

	ReportCaller bool

	// AccessLogToConsole mirrors the access log to stdout. Has no effect while Console.Enabled is false.
	AccessLogToConsole bool
	// SkipCheckAlive drops access log lines of the liveness endpoint.
	SkipCheckAlive bool

	Console Console
	File    Files
}
