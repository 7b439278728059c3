// Package report windows time entries by date range and folds them into
// per-project totals.
package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
	"github.com/wenzel/timespan/internal/store"
)

// Service builds reports from stored time entries.
type Service struct {
	repo store.Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a reporting service backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logging.New("report"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Daily reports on the UTC calendar day containing date, covering
// 00:00:00 through 23:59:59 inclusive.
func (s *Service) Daily(ctx context.Context, date time.Time) (*domain.TimeReport, error) {
	start, end := DayWindow(date)
	entries, err := s.repo.GetTimeEntriesByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return domain.NewTimeReport(entries, start, end), nil
}

// Weekly reports on the Monday-anchored week containing date, covering
// Monday 00:00:00 through Sunday 23:59:59 inclusive.
func (s *Service) Weekly(ctx context.Context, date time.Time) (*domain.TimeReport, error) {
	start, end := WeekWindow(date)
	entries, err := s.repo.GetTimeEntriesByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return domain.NewTimeReport(entries, start, end), nil
}

// Project reports on every entry recorded for the named project. The
// date range is derived from the earliest start and latest end observed;
// an empty entry set collapses the range to now.
func (s *Service) Project(ctx context.Context, name string) (*domain.TimeReport, error) {
	p, err := s.repo.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.ProjectNotFoundError{Name: name}
	}

	entries, err := s.repo.GetTimeEntriesByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	start := s.now()
	var end time.Time
	for i := range entries {
		e := &entries[i]
		if i == 0 || e.StartTime.Before(start) {
			start = e.StartTime
		}
		if e.EndTime != nil && e.EndTime.After(end) {
			end = *e.EndTime
		}
	}
	// Only a still-running or empty history has no end time to anchor on.
	if end.IsZero() {
		end = s.now()
	}

	return domain.NewTimeReport(entries, start, end), nil
}

// DayWindow returns the inclusive [00:00:00, 23:59:59] UTC window of the
// day containing t.
func DayWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Second)
}

// WeekWindow returns the inclusive Monday-through-Sunday UTC window of
// the week containing t.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	// time.Weekday counts Sunday as 0; shift so Monday is the anchor.
	offset := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -offset)
	return monday, monday.Add(7*24*time.Hour - time.Second)
}

// Wire types for the JSON export. Durations are emitted as integer
// seconds to match the persisted representation.

type reportJSON struct {
	TotalDuration    int64         `json:"total_duration"`
	Entries          []entryJSON   `json:"entries"`
	ProjectSummaries []summaryJSON `json:"project_summaries"`
	DateRange        rangeJSON     `json:"date_range"`
}

type entryJSON struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	ProjectName     string     `json:"project_name"`
	TaskDescription string     `json:"task_description,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Duration        *int64     `json:"duration,omitempty"`
	Tags            []string   `json:"tags"`
}

type summaryJSON struct {
	ProjectName   string `json:"project_name"`
	TotalDuration int64  `json:"total_duration"`
	EntryCount    int    `json:"entry_count"`
}

type rangeJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ExportJSON serializes a report for machine consumption.
func ExportJSON(r *domain.TimeReport) (string, error) {
	out := reportJSON{
		TotalDuration:    int64(r.TotalDuration.Seconds()),
		Entries:          make([]entryJSON, 0, len(r.Entries)),
		ProjectSummaries: make([]summaryJSON, 0, len(r.ProjectSummaries)),
		DateRange:        rangeJSON{Start: r.DateRange.Start, End: r.DateRange.End},
	}

	for i := range r.Entries {
		e := &r.Entries[i]
		we := entryJSON{
			ID:              e.ID,
			ProjectID:       e.ProjectID.String(),
			ProjectName:     e.ProjectName,
			TaskDescription: e.TaskDescription,
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			Tags:            e.Tags,
		}
		if e.Duration != nil {
			secs := int64(e.Duration.Seconds())
			we.Duration = &secs
		}
		out.Entries = append(out.Entries, we)
	}

	for _, s := range r.ProjectSummaries {
		out.ProjectSummaries = append(out.ProjectSummaries, summaryJSON{
			ProjectName:   s.ProjectName,
			TotalDuration: int64(s.TotalDuration.Seconds()),
			EntryCount:    s.EntryCount,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", &domain.InvalidDurationError{Reason: "report serialization failed: " + err.Error()}
	}
	return string(data), nil
}
