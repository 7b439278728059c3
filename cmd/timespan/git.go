package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wenzel/timespan/internal/gitscan"
	"github.com/wenzel/timespan/internal/render"
)

func gitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Estimate effort from commit history",
		Long: `Read local git history and estimate the time behind each commit
from its message, change volume, and file types.

'analyze' shows the per-commit estimates; 'import' records them as
time entries tagged "` + gitscan.ImportTag + `"; 'status' shows which
project a repository maps to.`,
	}

	cmd.AddCommand(
		gitAnalyzeCmd(),
		gitStatusCmd(),
		gitImportCmd(),
	)
	return cmd
}

func gitAnalyzeCmd() *cobra.Command {
	var (
		days  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Show effort estimates for recent commits",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := workingDirOrArg(args)
			svc := gitscan.NewService(repo)

			analyses, err := svc.AnalyzeRepository(cmd.Context(), path, sinceFlag(days), limit)
			if err != nil {
				fail(err)
			}
			fmt.Print(out.CommitAnalyses(analyses))
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "How many days of history to analyze")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum commits to analyze (0 = no limit)")
	return cmd
}

func gitStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [path]",
		Short: "Show which project a repository maps to",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := workingDirOrArg(args)
			svc := gitscan.NewService(repo)

			if !gitscan.NewLogReader(path).IsRepository(cmd.Context()) {
				fmt.Printf("%s is not a git repository\n", path)
				return
			}

			name, err := svc.DetectProject(cmd.Context(), path)
			if err != nil {
				fail(err)
			}
			fmt.Printf("Repository: %s\nProject:    %s\n", path, name)
		},
	}
}

func gitImportCmd() *cobra.Command {
	var (
		projectName string
		days        int
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "import [path]",
		Short: "Record estimated commit effort as time entries",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := workingDirOrArg(args)
			svc := gitscan.NewService(repo)

			name := projectName
			if name == "" {
				detected, err := svc.DetectProject(cmd.Context(), path)
				if err != nil {
					fail(err)
				}
				name = detected
			}

			result, err := svc.Import(cmd.Context(), path, name, sinceFlag(days), limit)
			if err != nil {
				fail(err)
			}

			fmt.Printf("Imported %d entries for %s (estimated %s)\n",
				len(result.Imported), result.ProjectName,
				render.FormatDuration(result.TotalEstimated))
		},
	}

	cmd.Flags().StringVarP(&projectName, "project", "p", "", "Project to record entries against (default: detected)")
	cmd.Flags().IntVar(&days, "days", 30, "How many days of history to import")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum commits to import (0 = no limit)")
	return cmd
}

func workingDirOrArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	wd, err := os.Getwd()
	if err != nil {
		fail(err)
	}
	return wd
}

func sinceFlag(days int) *time.Time {
	if days <= 0 {
		return nil
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	return &since
}
