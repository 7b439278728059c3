package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzel/timespan/internal/domain"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute))
	assert.Equal(t, "1h 0m", FormatDuration(time.Hour))
	assert.Equal(t, "2h 35m", FormatDuration(2*time.Hour+35*time.Minute))
	assert.Equal(t, "0m", FormatDuration(-time.Minute))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "long st...", Truncate("long string here", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestTimerStopped(t *testing.T) {
	r := NewPlain()
	p := domain.NewProject("Acme", "")
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	e := domain.NewTimeEntry(p.ID, p.Name, "design", start)
	e.AddTag("focus")
	require.NoError(t, e.Stop(start.Add(90*time.Minute)))

	out := r.TimerStopped(e)
	assert.Equal(t, "Stopped timer for Acme (1h 30m) - design [focus]", out)
}

func TestProjectsEmpty(t *testing.T) {
	r := NewPlain()
	assert.Equal(t, "No projects found", r.Projects(nil))
}

func TestProjectsPlain(t *testing.T) {
	r := NewPlain()
	out := r.Projects([]domain.Project{
		*domain.NewProject("alpha", "first"),
		*domain.NewProject("beta", ""),
	})
	assert.Equal(t, "alpha\nbeta\n", out)
}

func TestReportPlain(t *testing.T) {
	r := NewPlain()
	p := domain.NewProject("Acme", "")
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	e := domain.NewTimeEntry(p.ID, p.Name, "", start)
	require.NoError(t, e.Stop(start.Add(2*time.Hour)))

	report := domain.NewTimeReport([]domain.TimeEntry{*e},
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 23, 59, 59, 0, time.UTC))

	out := r.Report("Daily Report", report)
	assert.Contains(t, out, "Daily Report")
	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "Acme\t2h 0m\t1")
	assert.Contains(t, out, "Total: 2h 0m")
}

func TestReportEmpty(t *testing.T) {
	r := NewPlain()
	report := domain.NewTimeReport(nil,
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 4, 23, 59, 59, 0, time.UTC))

	out := r.Report("Daily Report", report)
	assert.Contains(t, out, "No time entries in this period")
}
