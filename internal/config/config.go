// Package config loads timespan configuration from TIMESPAN_-prefixed
// environment variables and resolves the standard data paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime settings. Every field has a working default so a
// fresh install needs no environment at all.
type Config struct {
	// DatabasePath overrides the SQLite database location
	// (TIMESPAN_DATABASE_PATH). Empty means ~/.timespan/timespan.db.
	DatabasePath string `envconfig:"DATABASE_PATH" default:""`

	// LogLevel sets log verbosity (TIMESPAN_LOG_LEVEL).
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`

	// ClientsDir is the default root scanned by project discovery
	// (TIMESPAN_CLIENTS_DIR). Empty means the scan root must be given
	// on the command line.
	ClientsDir string `envconfig:"CLIENTS_DIR" default:""`

	// NoColor disables colored output (TIMESPAN_NO_COLOR).
	NoColor bool `envconfig:"NO_COLOR" default:"false"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("TIMESPAN", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(GetPaths().Home, "timespan.db")
	}
	return &cfg, nil
}

// Paths holds the standard timespan directory layout under the user's
// home directory.
type Paths struct {
	// Home is the timespan home directory (~/.timespan)
	Home string

	// Backups is where database snapshots are written (~/.timespan/backups)
	Backups string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		tsHome := filepath.Join(home, ".timespan")

		paths = &Paths{
			Home:    tsHome,
			Backups: filepath.Join(tsHome, "backups"),
		}
	})
	return paths
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
