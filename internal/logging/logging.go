// Package logging provides the configured zerolog logger shared by all
// timespan components. Log output goes to stderr so it never mixes with
// command output or JSON exports on stdout.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger for a component. The level defaults to warn so
// normal CLI runs stay quiet; TIMESPAN_LOG_LEVEL raises or lowers it.
func New(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(levelFromEnv()).
		With().
		Str("component", component).
		Timestamp().
		Logger()
}

func levelFromEnv() zerolog.Level {
	return ParseLevel(os.Getenv("TIMESPAN_LOG_LEVEL"))
}

// ParseLevel maps a level name to a zerolog level, defaulting to warn.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning", "":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
