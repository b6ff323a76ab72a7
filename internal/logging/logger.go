// Package logging wraps charmbracelet/log for the CLI and the HTTP service.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // process-wide default logger
var (
	defaultMu     sync.RWMutex
	defaultLogger *log.Logger
)

// Log output formats for service loggers.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

// New creates a stderr logger without timestamps.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// NewInteractive creates the logger used by interactive commands: info
// level with a short prefix.
func NewInteractive() *log.Logger {
	logger := New("info")
	logger.SetPrefix("richdraft")
	return logger
}

// NewService creates a timestamped logger for long-running processes.
// format is one of FormatText, FormatJSON or FormatLogfmt.
func NewService(w io.Writer, level, format string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	logger.SetLevel(ParseLevel(level))

	switch strings.ToLower(format) {
	case FormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case FormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New("info")
	}
	return defaultLogger
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// SetLevel updates the level of the default logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
