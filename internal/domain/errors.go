package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure kinds the services report. Typed
// wrappers below carry the offending name and unwrap to these.
var (
	// ErrProjectNotFound indicates a lookup by an unknown project name.
	ErrProjectNotFound = errors.New("project not found")

	// ErrProjectExists indicates a create with a name already in the store.
	ErrProjectExists = errors.New("project already exists")

	// ErrProjectHasEntries indicates a delete blocked by time entries.
	ErrProjectHasEntries = errors.New("project has time entries")

	// ErrTimerRunning indicates a start while a timer is already active.
	ErrTimerRunning = errors.New("timer already running")

	// ErrNoActiveTimer indicates a stop or tag-add with no timer active.
	ErrNoActiveTimer = errors.New("no active timer")

	// ErrInvalidDuration indicates a non-positive duration, a malformed
	// input path, or a serialization failure.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrStorage indicates a failure in the underlying store.
	ErrStorage = errors.New("storage error")
)

// ProjectNotFoundError carries the name that failed to resolve.
type ProjectNotFoundError struct {
	Name string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.Name)
}

func (e *ProjectNotFoundError) Unwrap() error { return ErrProjectNotFound }

// ProjectExistsError carries the colliding project name.
type ProjectExistsError struct {
	Name string
}

func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project already exists: %s", e.Name)
}

func (e *ProjectExistsError) Unwrap() error { return ErrProjectExists }

// ProjectHasEntriesError carries the name of the project whose deletion
// was blocked.
type ProjectHasEntriesError struct {
	Name string
}

func (e *ProjectHasEntriesError) Error() string {
	return fmt.Sprintf("cannot delete project with time entries: %s", e.Name)
}

func (e *ProjectHasEntriesError) Unwrap() error { return ErrProjectHasEntries }

// TimerRunningError carries the project the active timer is tracking.
type TimerRunningError struct {
	Project string
}

func (e *TimerRunningError) Error() string {
	return fmt.Sprintf("timer is already running for project: %s", e.Project)
}

func (e *TimerRunningError) Unwrap() error { return ErrTimerRunning }

// InvalidDurationError carries the reason a duration or input was rejected.
type InvalidDurationError struct {
	Reason string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %s", e.Reason)
}

func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// StorageError wraps a failure from the embedded store or filesystem.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return ErrStorage }

// IsDomainError reports whether err is one of the domain failure kinds
// that is safe to show to the user verbatim. Storage and IO failures are
// not; the CLI substitutes a generic message for those.
func IsDomainError(err error) bool {
	for _, sentinel := range []error{
		ErrProjectNotFound,
		ErrProjectExists,
		ErrProjectHasEntries,
		ErrTimerRunning,
		ErrNoActiveTimer,
		ErrInvalidDuration,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
