// Package logging owns the process-wide logger for mdstream. Everything the
// tool reports — command failures, configuration resolution, and the splitter
// telemetry wired through stream.Observer (finalized blocks, degraded parses,
// rejected component URLs) — goes through loggers created here.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// The default logger is shared by every command in the process; commands
// adjust its level rather than constructing their own.
//
//nolint:gochecknoglobals // Single process-wide logger, lazily built.
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New("info")
	})
	return defaultLogger
}

// New returns a logger writing to stderr at the given level (debug, info,
// warn, or error; anything else means info). Timestamps are omitted: block
// telemetry is ordered by the stream itself, and the CLI output stays diffable.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})

	applyLevel(logger, level)

	return logger
}

func applyLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// Default returns the shared process logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault replaces the shared process logger.
func SetDefault(logger *log.Logger) {
	defaultLogger = logger
}

// SetLevel changes the shared logger's level, accepting the same names as
// New. The --debug flag and the log_level config setting both land here.
func SetLevel(level string) {
	applyLevel(getDefaultLogger(), level)
}
