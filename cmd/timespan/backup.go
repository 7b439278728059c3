package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/wenzel/timespan/internal/backup"
	"github.com/wenzel/timespan/internal/config"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot and restore tracked data",
		Long: `Export projects and time entries to a compressed archive, or
restore them from one. Restoring merges: existing projects and
entries are left untouched.`,
	}

	cmd.AddCommand(
		backupExportCmd(),
		backupRestoreCmd(),
		backupListCmd(),
	)
	return cmd
}

func backupExportCmd() *cobra.Command {
	var (
		output      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot archive",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if output == "" {
				dir := config.GetPaths().Backups
				if err := config.EnsureDir(dir); err != nil {
					fail(err)
				}
				output = filepath.Join(dir, fmt.Sprintf("timespan-%s.tar.gz", time.Now().Format("20060102-150405")))
			}

			mgr := backup.NewManager(repo)
			meta, err := mgr.Export(cmd.Context(), output, description)
			if err != nil {
				fail(err)
			}

			fmt.Printf("Backup created: %s\n", output)
			fmt.Printf("  projects:     %d\n", meta.Counts["projects"])
			fmt.Printf("  time entries: %d\n", meta.Counts["time_entries"])
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Snapshot description")
	return cmd
}

func backupRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore from a snapshot archive",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mgr := backup.NewManager(repo)
			meta, err := mgr.Restore(cmd.Context(), args[0])
			if err != nil {
				fail(err)
			}

			fmt.Printf("Restored from %s (created %s)\n", args[0], meta.CreatedAt.Format(time.RFC3339))
			if meta.Description != "" {
				fmt.Printf("Description: %s\n", meta.Description)
			}
		},
	}
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "Show a snapshot's contents without restoring",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			mgr := backup.NewManager(repo)
			meta, err := mgr.List(args[0])
			if err != nil {
				fail(err)
			}

			fmt.Printf("Version:     %s\n", meta.Version)
			fmt.Printf("Created:     %s\n", meta.CreatedAt.Format(time.RFC3339))
			if meta.Description != "" {
				fmt.Printf("Description: %s\n", meta.Description)
			}
			for name, count := range meta.Counts {
				fmt.Printf("  %-12s %d\n", name+":", count)
			}
		},
	}
}
