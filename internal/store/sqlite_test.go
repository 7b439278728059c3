package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzel/timespan/internal/domain"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := t.TempDir() + "/nested/data/timespan.db"
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.CreateProject(context.Background(), domain.NewProject("Acme", "")))
}

func TestProjectRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "client work")
	require.NoError(t, s.CreateProject(ctx, p))

	got, err := s.GetProjectByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "client work", got.Description)
	assert.False(t, got.IsClientProject)

	byID, err := s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, p.Name, byID.Name)
}

func TestGetProjectAbsence(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetProjectByName(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateProjectDuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProject(ctx, domain.NewProject("Acme", "")))
	err := s.CreateProject(ctx, domain.NewProject("Acme", ""))

	// The store maps the unique-name constraint to the domain error, so
	// a duplicate create surfaces properly even without the service's
	// pre-check read.
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectExists)

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestDeleteProjectWithEntriesBlocked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))
	e := domain.NewTimeEntry(p.ID, p.Name, "", time.Now().UTC())
	require.NoError(t, s.CreateTimeEntry(ctx, e))

	err := s.DeleteProject(ctx, p.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectHasEntries)

	// Project and entry both survive the blocked delete.
	got, err := s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	gotE, err := s.GetTimeEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotE)
}

func TestListProjectsOrderedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.CreateProject(ctx, domain.NewProject(name, "")))
	}

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, "alpha", projects[0].Name)
	assert.Equal(t, "mid", projects[1].Name)
	assert.Equal(t, "zeta", projects[2].Name)
}

func TestUpdateProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	p.UpdateDescription("updated")
	require.NoError(t, s.UpdateProject(ctx, p))

	got, err := s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)
}

func TestDeleteProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))
	require.NoError(t, s.DeleteProject(ctx, p.ID))

	got, err := s.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTimeEntryRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	e := domain.NewTimeEntry(p.ID, p.Name, "design review", start)
	e.AddTag("dev")
	require.NoError(t, e.Stop(start.Add(90*time.Minute)))
	require.NoError(t, s.CreateTimeEntry(ctx, e))

	got, err := s.GetTimeEntryByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ProjectID)
	assert.Equal(t, "Acme", got.ProjectName)
	assert.Equal(t, "design review", got.TaskDescription)
	assert.True(t, got.StartTime.Equal(start))
	require.NotNil(t, got.EndTime)
	assert.True(t, got.EndTime.Equal(start.Add(90*time.Minute)))
	require.NotNil(t, got.Duration)
	assert.Equal(t, 90*time.Minute, *got.Duration)
	assert.Equal(t, []string{"dev"}, got.Tags)
}

func TestRunningTimeEntryHasNullEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	e := domain.NewTimeEntry(p.ID, p.Name, "", time.Now().UTC())
	require.NoError(t, s.CreateTimeEntry(ctx, e))

	got, err := s.GetTimeEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndTime)
	assert.Nil(t, got.Duration)
	assert.True(t, got.IsRunning())
}

func TestGetTimeEntriesByProjectNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := domain.NewTimeEntry(p.ID, p.Name, "", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, e.Stop(base.Add(time.Duration(i)*time.Hour+30*time.Minute)))
		require.NoError(t, s.CreateTimeEntry(ctx, e))
	}

	entries, err := s.GetTimeEntriesByProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].StartTime.After(entries[1].StartTime))
	assert.True(t, entries[1].StartTime.After(entries[2].StartTime))
}

func TestGetTimeEntriesByDateRangeInclusive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	inside := domain.NewTimeEntry(p.ID, p.Name, "", day.Add(9*time.Hour))
	boundary := domain.NewTimeEntry(p.ID, p.Name, "", day)
	outside := domain.NewTimeEntry(p.ID, p.Name, "", day.Add(-time.Minute))
	for _, e := range []*domain.TimeEntry{inside, boundary, outside} {
		require.NoError(t, s.CreateTimeEntry(ctx, e))
	}

	entries, err := s.GetTimeEntriesByDateRange(ctx, day, day.Add(24*time.Hour-time.Second))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Oldest first.
	assert.Equal(t, boundary.ID, entries[0].ID)
	assert.Equal(t, inside.ID, entries[1].ID)
}

func TestGetActiveTimeEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	got, err := s.GetActiveTimeEntry(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	finished := domain.NewTimeEntry(p.ID, p.Name, "", base)
	require.NoError(t, finished.Stop(base.Add(time.Hour)))
	require.NoError(t, s.CreateTimeEntry(ctx, finished))

	older := domain.NewTimeEntry(p.ID, p.Name, "older", base.Add(2*time.Hour))
	newer := domain.NewTimeEntry(p.ID, p.Name, "newer", base.Add(3*time.Hour))
	require.NoError(t, s.CreateTimeEntry(ctx, older))
	require.NoError(t, s.CreateTimeEntry(ctx, newer))

	got, err = s.GetActiveTimeEntry(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
	assert.True(t, got.IsRunning())
}

func TestCountTimeEntriesForProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := domain.NewProject("Acme", "")
	beta := domain.NewProject("Beta", "")
	require.NoError(t, s.CreateProject(ctx, acme))
	require.NoError(t, s.CreateProject(ctx, beta))

	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		e := domain.NewTimeEntry(acme.ID, acme.Name, "", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, s.CreateTimeEntry(ctx, e))
	}

	n, err := s.CountTimeEntriesForProject(ctx, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountTimeEntriesForProject(ctx, beta.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUpdateTimeEntryTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	e := domain.NewTimeEntry(p.ID, p.Name, "", time.Now().UTC())
	require.NoError(t, s.CreateTimeEntry(ctx, e))

	e.AddTag("billing")
	require.NoError(t, s.UpdateTimeEntry(ctx, e))

	got, err := s.GetTimeEntryByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"billing"}, got.Tags)
}

func TestActiveTimerLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	timer := domain.NewTimer(p.ID, p.Name, "standup", start)
	require.NoError(t, s.InsertActiveTimer(ctx, timer))

	got, err = s.GetActiveTimer(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, timer.ID, got.ID)
	assert.Equal(t, "Acme", got.ProjectName)
	assert.Equal(t, "standup", got.TaskDescription)
	assert.True(t, got.StartTime.Equal(start))

	require.NoError(t, s.ClearActiveTimer(ctx))
	got, err = s.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertActiveTimerRejectsSecond(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	first := domain.NewTimer(p.ID, p.Name, "", time.Now().UTC())
	require.NoError(t, s.InsertActiveTimer(ctx, first))

	second := domain.NewTimer(p.ID, p.Name, "", time.Now().UTC())
	err := s.InsertActiveTimer(ctx, second)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimerRunning)

	// The running timer is untouched.
	got, err := s.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestSaveActiveTimerOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	timer := domain.NewTimer(p.ID, p.Name, "", time.Now().UTC())
	require.NoError(t, s.InsertActiveTimer(ctx, timer))

	timer.AddTag("deep-work")
	require.NoError(t, s.SaveActiveTimer(ctx, timer))

	got, err := s.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"deep-work"}, got.Tags)
}

func TestFinalizeActiveTimer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := domain.NewProject("Acme", "")
	require.NoError(t, s.CreateProject(ctx, p))

	start := time.Now().UTC().Add(-time.Hour)
	timer := domain.NewTimer(p.ID, p.Name, "deep work", start)
	require.NoError(t, s.InsertActiveTimer(ctx, timer))

	entry := domain.NewTimeEntry(timer.ProjectID, timer.ProjectName, timer.TaskDescription, timer.StartTime)
	require.NoError(t, entry.Stop(time.Now().UTC()))
	require.NoError(t, s.FinalizeActiveTimer(ctx, entry))

	// Timer slot cleared and entry persisted atomically.
	active, err := s.GetActiveTimer(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	got, err := s.GetTimeEntryByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsRunning())
}
