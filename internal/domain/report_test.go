package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedEntry(t *testing.T, project string, start time.Time, d time.Duration) TimeEntry {
	t.Helper()
	e := NewTimeEntry(uuid.New(), project, "", start)
	require.NoError(t, e.Stop(start.Add(d)))
	return *e
}

func TestNewTimeReportTotals(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	entries := []TimeEntry{
		finishedEntry(t, "alpha", day.Add(9*time.Hour), 2*time.Hour),
		finishedEntry(t, "alpha", day.Add(13*time.Hour), 90*time.Minute),
		finishedEntry(t, "beta", day.Add(15*time.Hour), time.Hour),
	}

	report := NewTimeReport(entries, day, day.Add(24*time.Hour-time.Second))

	assert.Equal(t, 4*time.Hour+30*time.Minute, report.TotalDuration)
	assert.Len(t, report.Entries, 3)
	require.Len(t, report.ProjectSummaries, 2)

	byName := make(map[string]ProjectSummary)
	for _, s := range report.ProjectSummaries {
		byName[s.ProjectName] = s
	}
	assert.Equal(t, 3*time.Hour+30*time.Minute, byName["alpha"].TotalDuration)
	assert.Equal(t, 2, byName["alpha"].EntryCount)
	assert.Equal(t, time.Hour, byName["beta"].TotalDuration)
	assert.Equal(t, 1, byName["beta"].EntryCount)
}

func TestNewTimeReportRunningEntryCountsButAddsNothing(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	running := *NewTimeEntry(uuid.New(), "alpha", "", day.Add(9*time.Hour))

	report := NewTimeReport([]TimeEntry{running}, day, day.Add(24*time.Hour-time.Second))

	assert.Equal(t, time.Duration(0), report.TotalDuration)
	require.Len(t, report.ProjectSummaries, 1)
	assert.Equal(t, 1, report.ProjectSummaries[0].EntryCount)
	assert.Equal(t, time.Duration(0), report.ProjectSummaries[0].TotalDuration)
}

func TestNewTimeReportEmpty(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Second)

	report := NewTimeReport(nil, start, end)

	assert.Equal(t, time.Duration(0), report.TotalDuration)
	assert.Empty(t, report.Entries)
	assert.Empty(t, report.ProjectSummaries)
	assert.Equal(t, start, report.DateRange.Start)
	assert.Equal(t, end, report.DateRange.End)
}
