// Package logging configures structured logging with zerolog.
//
// The TUI owns the terminal, so interactive runs log to a file under the
// state directory instead of stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as written in config files and flags:
// debug, info, warn (or warning) and error. Anything else means info.
type LogLevel string

// Level names accepted by Setup
const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// Config selects the level, format and destination of log output
type Config struct {
	Level LogLevel

	// Pretty writes uncolored console lines instead of JSON
	Pretty bool

	// Output defaults to stderr
	Output io.Writer
}

// Setup installs a timestamped global logger built from cfg and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return log.Logger
}

// parseLevel maps a level name onto zerolog, falling back to info for
// unknown names and for levels below debug or above error.
func parseLevel(level LogLevel) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(string(level)))
	if name == "warning" {
		name = "warn"
	}

	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl < zerolog.DebugLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewLogger returns a child of the global logger tagged with component.
// Loggers created before Setup keep the previous global configuration.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// DefaultLogFile returns the log file used when none is configured
func DefaultLogFile() string {
	// Check XDG_STATE_HOME first
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "scrollfeed", "scrollfeed.log")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "scrollfeed.log")
	}

	return filepath.Join(home, ".local", "state", "scrollfeed", "scrollfeed.log")
}

// OpenFile opens path for appending, creating its directory if needed.
// The caller closes the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	// #nosec G304 -- path comes from the user's own config or flags
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

// Log Level Guidelines:
//
// Debug: page requests that succeeded, skipped fetches, geometry recomputes
// Info: startup, data source address, metrics listener
// Warn: fetch failures absorbed by the pager, malformed requests to serve
// Error: listener failures, unusable configuration
//
// Context Fields:
//   - component: pager, api, serve, tui
//   - offset, limit: requested page range
//   - items: number of items received
//   - duration: request duration
