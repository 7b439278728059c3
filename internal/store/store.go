// Package store persists projects, time entries, and the single active
// timer in an embedded SQLite database.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wenzel/timespan/internal/domain"
)

// Repository is the persistence gateway the services depend on. Lookups
// report absence as (nil, nil); errors are reserved for storage failures.
type Repository interface {
	// CreateProject inserts; a name collision fails with
	// ProjectExistsError rather than a storage error.
	CreateProject(ctx context.Context, p *domain.Project) error

	GetProjectByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetProjectByName(ctx context.Context, name string) (*domain.Project, error)
	ListProjects(ctx context.Context) ([]domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) error

	// DeleteProject removes the row; it fails with
	// ProjectHasEntriesError while time entries reference it.
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CreateTimeEntry(ctx context.Context, e *domain.TimeEntry) error
	GetTimeEntryByID(ctx context.Context, id string) (*domain.TimeEntry, error)

	// GetActiveTimeEntry returns the most recently started entry without
	// an end time, or nil when every entry is finished.
	GetActiveTimeEntry(ctx context.Context) (*domain.TimeEntry, error)

	GetTimeEntriesByProject(ctx context.Context, projectID uuid.UUID) ([]domain.TimeEntry, error)
	GetTimeEntriesByDateRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error)
	CountTimeEntriesForProject(ctx context.Context, projectID uuid.UUID) (int, error)
	UpdateTimeEntry(ctx context.Context, e *domain.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, id string) error

	// GetActiveTimer returns the singleton timer, or nil when idle.
	GetActiveTimer(ctx context.Context) (*domain.Timer, error)

	// InsertActiveTimer claims the singleton timer slot. It fails with a
	// TimerRunningError when the slot is already occupied, without
	// disturbing the running timer.
	InsertActiveTimer(ctx context.Context, t *domain.Timer) error

	// SaveActiveTimer overwrites the singleton timer slot. Used to
	// re-persist a timer after mutating it (tags), not to start one.
	SaveActiveTimer(ctx context.Context, t *domain.Timer) error

	// FinalizeActiveTimer inserts the finished entry and clears the timer
	// slot in one transaction, so a crash between the two cannot leave
	// both the entry and the timer behind.
	FinalizeActiveTimer(ctx context.Context, e *domain.TimeEntry) error

	ClearActiveTimer(ctx context.Context) error

	Close() error
}
