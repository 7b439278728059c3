// Package main provides the timespan CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wenzel/timespan/internal/config"
	"github.com/wenzel/timespan/internal/render"
	"github.com/wenzel/timespan/internal/store"
)

var (
	version = "0.1.0"

	cfg  *config.Config
	repo *store.SQLite
	out  *render.Renderer
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "timespan",
		Short: "Personal time tracking from the command line",
		Long: `timespan tracks work time per project with a single active timer.

Common usage:
  timespan start <project> [--task "..."]   Start tracking
  timespan stop                             Stop and record the entry
  timespan status                           Show the running timer
  timespan report daily [--json]            Summarize today's work

Projects can be registered by hand ('timespan project create') or
discovered from a clients directory ('timespan project discover').
'timespan git import' estimates effort from commit history.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			os.Setenv("TIMESPAN_LOG_LEVEL", cfg.LogLevel)
			out = render.New(cfg.NoColor)

			repo, err = store.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if repo != nil {
				repo.Close()
			}
		},
	}

	rootCmd.AddCommand(
		startCmd(),
		stopCmd(),
		statusCmd(),
		tagCmd(),
		projectCmd(),
		reportCmd(),
		gitCmd(),
		backupCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}
