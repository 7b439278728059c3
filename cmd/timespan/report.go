package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize tracked time",
		Long: `Fold recorded time entries into per-project totals.

'daily' and 'weekly' window by UTC date; 'project' covers a project's
full history. --json emits the report on stdout for machine use.`,
	}

	cmd.AddCommand(
		reportDailyCmd(),
		reportWeeklyCmd(),
		reportProjectCmd(),
	)
	return cmd
}

func reportDailyCmd() *cobra.Command {
	var (
		asJSON  bool
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Report on a single day (default today)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			date := parseDateFlag(dateStr)
			svc := report.NewService(repo)
			r, err := svc.Daily(cmd.Context(), date)
			if err != nil {
				fail(err)
			}
			printReport("Daily Report", r, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&dateStr, "date", "", "Day to report on (YYYY-MM-DD, default today)")
	return cmd
}

func reportWeeklyCmd() *cobra.Command {
	var (
		asJSON  bool
		dateStr string
	)

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Report on a Monday-anchored week (default this week)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			date := parseDateFlag(dateStr)
			svc := report.NewService(repo)
			r, err := svc.Weekly(cmd.Context(), date)
			if err != nil {
				fail(err)
			}
			printReport("Weekly Report", r, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&dateStr, "date", "", "Any day inside the week (YYYY-MM-DD, default today)")
	return cmd
}

func reportProjectCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "project <name>",
		Short: "Report on a project's full history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc := report.NewService(repo)
			r, err := svc.Project(cmd.Context(), args[0])
			if err != nil {
				fail(err)
			}
			printReport("Project Report: "+args[0], r, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func parseDateFlag(dateStr string) time.Time {
	if dateStr == "" {
		return time.Now().UTC()
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid date %q, expected YYYY-MM-DD\n", dateStr)
		os.Exit(1)
	}
	return date
}

func printReport(title string, r *domain.TimeReport, asJSON bool) {
	if asJSON {
		data, err := report.ExportJSON(r)
		if err != nil {
			fail(err)
		}
		fmt.Println(data)
		return
	}
	fmt.Print(out.Report(title, r))
}
