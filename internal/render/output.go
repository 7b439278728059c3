package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/wenzel/timespan/internal/discovery"
	"github.com/wenzel/timespan/internal/domain"
)

// TimerStarted formats the confirmation after starting a timer.
func (r *Renderer) TimerStarted(t *domain.Timer) string {
	if t.TaskDescription != "" {
		return fmt.Sprintf("Started timer for %s - %s", r.highlight(t.ProjectName), t.TaskDescription)
	}
	return fmt.Sprintf("Started timer for %s", r.highlight(t.ProjectName))
}

// TimerStopped formats the summary of a finalized entry.
func (r *Renderer) TimerStopped(e *domain.TimeEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Stopped timer for %s (%s)", r.highlight(e.ProjectName), FormatDuration(*e.Duration))
	if e.TaskDescription != "" {
		fmt.Fprintf(&sb, " - %s", e.TaskDescription)
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(e.Tags, ", "))
	}
	return sb.String()
}

// Projects formats the project list.
func (r *Renderer) Projects(projects []domain.Project) string {
	if len(projects) == 0 {
		return "No projects found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Projects\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	for _, p := range projects {
		if r.pretty {
			fmt.Fprintf(&sb, "  %s", p.Name)
			if p.Description != "" {
				fmt.Fprintf(&sb, " %s", color.HiBlackString("— "+Truncate(p.Description, 50)))
			}
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "%s\n", p.Name)
		}
	}
	return sb.String()
}

// Report formats a time report for the terminal.
func (r *Renderer) Report(title string, report *domain.TimeReport) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString(title + "\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	} else {
		sb.WriteString(title + "\n")
	}

	fmt.Fprintf(&sb, "%s — %s\n",
		report.DateRange.Start.Format("2006-01-02"),
		report.DateRange.End.Format("2006-01-02"))

	if len(report.Entries) == 0 {
		sb.WriteString("No time entries in this period\n")
		return sb.String()
	}

	for _, s := range report.ProjectSummaries {
		if r.pretty {
			fmt.Fprintf(&sb, "  %-32s %s  (%d %s)\n",
				Truncate(s.ProjectName, 32),
				r.highlight(FormatDuration(s.TotalDuration)),
				s.EntryCount, pluralize("entry", "entries", s.EntryCount))
		} else {
			fmt.Fprintf(&sb, "%s\t%s\t%d\n", s.ProjectName, FormatDuration(s.TotalDuration), s.EntryCount)
		}
	}

	fmt.Fprintf(&sb, "Total: %s\n", r.highlight(FormatDuration(report.TotalDuration)))
	return sb.String()
}

// Discovery formats the outcome of a discovery run.
func (r *Renderer) Discovery(result *discovery.Result, dryRun bool) string {
	var sb strings.Builder

	if r.pretty {
		sb.WriteString(color.CyanString("Client Discovery\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	fmt.Fprintf(&sb, "Discovered %d directories\n", len(result.Discovered))
	for _, dir := range result.Discovered {
		marker := ""
		if dir.IsGitRepo {
			marker = " (git)"
		}
		fmt.Fprintf(&sb, "  %s%s\n", dir.Name, marker)
	}

	if dryRun {
		sb.WriteString("Dry run: no projects were created or updated\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Created: %d, Updated: %d, Skipped: %d\n",
		len(result.Created), len(result.Updated), len(result.Skipped))
	for _, e := range result.Errors {
		if r.pretty {
			fmt.Fprintf(&sb, "  %s\n", color.RedString(e))
		} else {
			fmt.Fprintf(&sb, "  error: %s\n", e)
		}
	}
	return sb.String()
}

// CommitAnalyses formats per-commit effort estimates.
func (r *Renderer) CommitAnalyses(analyses []domain.CommitAnalysis) string {
	if len(analyses) == 0 {
		return "No commits found"
	}

	var sb strings.Builder
	if r.pretty {
		sb.WriteString(color.CyanString("Commit Analysis\n"))
		sb.WriteString(strings.Repeat("─", 60) + "\n")
	}

	var total time.Duration
	for i := range analyses {
		a := &analyses[i]
		total += a.EstimatedDuration

		short := a.Commit.Hash
		if len(short) > 8 {
			short = short[:8]
		}
		if r.pretty {
			fmt.Fprintf(&sb, "  %s %-10s %-7s conf %.1f  %s\n",
				color.HiBlackString(short),
				a.CommitType,
				FormatDuration(a.EstimatedDuration),
				a.ConfidenceScore,
				Truncate(a.Commit.Message, 40))
		} else {
			fmt.Fprintf(&sb, "%s\t%s\t%s\t%.1f\t%s\n",
				short, a.CommitType, FormatDuration(a.EstimatedDuration),
				a.ConfidenceScore, a.Commit.Message)
		}
	}

	fmt.Fprintf(&sb, "Estimated total: %s over %d commits\n", r.highlight(FormatDuration(total)), len(analyses))
	return sb.String()
}

func (r *Renderer) highlight(s string) string {
	if r.pretty {
		return color.GreenString(s)
	}
	return s
}

func pluralize(singular, plural string, n int) string {
	if n == 1 {
		return singular
	}
	return plural
}
