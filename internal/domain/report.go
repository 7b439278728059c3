package domain

import "time"

// DateRange is the inclusive window a report covers.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProjectSummary aggregates the entries for a single project.
type ProjectSummary struct {
	ProjectName   string        `json:"project_name"`
	TotalDuration time.Duration `json:"-"`
	EntryCount    int           `json:"entry_count"`
}

// TimeReport is a derived, non-persisted aggregate over a set of time
// entries and a date range.
type TimeReport struct {
	TotalDuration    time.Duration    `json:"-"`
	Entries          []TimeEntry      `json:"entries"`
	ProjectSummaries []ProjectSummary `json:"project_summaries"`
	DateRange        DateRange        `json:"date_range"`
}

// NewTimeReport folds entries into per-project summaries. Entries without
// a duration (still running) contribute zero to the totals but are still
// counted. Summaries are keyed by the denormalized project name.
func NewTimeReport(entries []TimeEntry, start, end time.Time) *TimeReport {
	var total time.Duration
	byProject := make(map[string]*ProjectSummary)

	for i := range entries {
		e := &entries[i]
		summary, ok := byProject[e.ProjectName]
		if !ok {
			summary = &ProjectSummary{ProjectName: e.ProjectName}
			byProject[e.ProjectName] = summary
		}
		if e.Duration != nil {
			total += *e.Duration
			summary.TotalDuration += *e.Duration
		}
		summary.EntryCount++
	}

	summaries := make([]ProjectSummary, 0, len(byProject))
	for _, s := range byProject {
		summaries = append(summaries, *s)
	}

	return &TimeReport{
		TotalDuration:    total,
		Entries:          entries,
		ProjectSummaries: summaries,
		DateRange:        DateRange{Start: start, End: end},
	}
}
