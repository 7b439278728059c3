package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/store"
)

func newTracker(t *testing.T) (*Service, *store.SQLite) {
	t.Helper()
	repo, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return NewService(repo), repo
}

func seedProject(t *testing.T, repo *store.SQLite, name string) *domain.Project {
	t.Helper()
	p := domain.NewProject(name, "")
	require.NoError(t, repo.CreateProject(context.Background(), p))
	return p
}

func TestStartTimer(t *testing.T) {
	svc, repo := newTracker(t)
	ctx := context.Background()
	seedProject(t, repo, "Acme")

	timer, err := svc.Start(ctx, "Acme", "design")
	require.NoError(t, err)
	assert.Equal(t, "Acme", timer.ProjectName)
	assert.Equal(t, "design", timer.TaskDescription)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, timer.ID, active.ID)
}

func TestStartTimerUnknownProject(t *testing.T) {
	svc, _ := newTracker(t)

	_, err := svc.Start(context.Background(), "ghost", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestStartTimerWhileRunning(t *testing.T) {
	svc, repo := newTracker(t)
	ctx := context.Background()
	seedProject(t, repo, "Acme")
	seedProject(t, repo, "Beta")

	_, err := svc.Start(ctx, "Acme", "")
	require.NoError(t, err)

	_, err = svc.Start(ctx, "Beta", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimerRunning)
	assert.Contains(t, err.Error(), "Acme")

	// The original timer survives the rejected start.
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", active.ProjectName)
}

func TestStopTimer(t *testing.T) {
	svc, repo := newTracker(t)
	ctx := context.Background()
	seedProject(t, repo, "Acme")

	started := time.Now().UTC().Add(-time.Hour)
	svc.now = func() time.Time { return started }
	timer, err := svc.Start(ctx, "Acme", "deep work")
	require.NoError(t, err)
	_, err = svc.AddTag(ctx, "focus")
	require.NoError(t, err)

	svc.now = func() time.Time { return started.Add(time.Hour) }
	entry, err := svc.Stop(ctx)
	require.NoError(t, err)

	assert.Equal(t, timer.ProjectID, entry.ProjectID)
	assert.Equal(t, "deep work", entry.TaskDescription)
	require.NotNil(t, entry.Duration)
	assert.Equal(t, time.Hour, *entry.Duration)
	assert.Equal(t, []string{"focus"}, entry.Tags)

	// Slot is free again and the entry is persisted.
	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	got, err := repo.GetTimeEntryByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Hour, *got.Duration)
}

func TestStopWithoutTimer(t *testing.T) {
	svc, _ := newTracker(t)

	_, err := svc.Stop(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoActiveTimer)
}

func TestStatusIdle(t *testing.T) {
	svc, _ := newTracker(t)

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "No active timer", status)
}

func TestStatusRunning(t *testing.T) {
	svc, repo := newTracker(t)
	ctx := context.Background()
	seedProject(t, repo, "Acme")

	started := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started }
	_, err := svc.Start(ctx, "Acme", "standup")
	require.NoError(t, err)

	svc.now = func() time.Time { return started.Add(95 * time.Minute) }
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme (1h 35m) - standup", status)
}

func TestStatusRunningNoTask(t *testing.T) {
	svc, repo := newTracker(t)
	ctx := context.Background()
	seedProject(t, repo, "Acme")

	started := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started }
	_, err := svc.Start(ctx, "Acme", "")
	require.NoError(t, err)

	svc.now = func() time.Time { return started.Add(25 * time.Minute) }
	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme (25m)", status)
}

func TestAddTagWithoutTimer(t *testing.T) {
	svc, _ := newTracker(t)

	_, err := svc.AddTag(context.Background(), "focus")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoActiveTimer)
}

func TestAddTagDedupAcrossPersist(t *testing.T) {
	svc, repo := newTracker(t)
	ctx := context.Background()
	seedProject(t, repo, "Acme")

	_, err := svc.Start(ctx, "Acme", "")
	require.NoError(t, err)

	_, err = svc.AddTag(ctx, "focus")
	require.NoError(t, err)
	timer, err := svc.AddTag(ctx, "focus")
	require.NoError(t, err)
	assert.Equal(t, []string{"focus"}, timer.Tags)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0m", formatElapsed(0))
	assert.Equal(t, "45m", formatElapsed(45*time.Minute))
	assert.Equal(t, "2h 5m", formatElapsed(2*time.Hour+5*time.Minute))
	assert.Equal(t, "0m", formatElapsed(-time.Minute))
}
