// Package domain defines the core records tracked by timespan:
// projects, finalized time entries, and the single active timer.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Project is a named unit of work that time entries are attributed to.
type Project struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DirectoryPath   string    `json:"directory_path,omitempty"`
	IsClientProject bool      `json:"is_client_project"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProject creates a project with a fresh ID and creation timestamps.
func NewProject(name, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewClientProject creates a project flagged as discovered from a
// client directory.
func NewClientProject(name, description, directoryPath string) *Project {
	p := NewProject(name, description)
	p.DirectoryPath = directoryPath
	p.IsClientProject = true
	return p
}

// UpdateDescription overwrites the description and bumps UpdatedAt.
func (p *Project) UpdateDescription(description string) {
	p.Description = description
	p.UpdatedAt = time.Now().UTC()
}

// TimeEntry is a finalized record of a tracked interval. An entry with no
// end time is still running; Duration is set if and only if EndTime is.
type TimeEntry struct {
	ID              string         `json:"id"`
	ProjectID       uuid.UUID      `json:"project_id"`
	ProjectName     string         `json:"project_name"`
	TaskDescription string         `json:"task_description,omitempty"`
	StartTime       time.Time      `json:"start_time"`
	EndTime         *time.Time     `json:"end_time,omitempty"`
	Duration        *time.Duration `json:"-"`
	Tags            []string       `json:"tags"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// NewTimeEntry creates a running entry. ProjectName is captured here so
// historical reports stay stable if the project is later renamed.
func NewTimeEntry(projectID uuid.UUID, projectName, taskDescription string, startTime time.Time) *TimeEntry {
	now := time.Now().UTC()
	return &TimeEntry{
		ID:              ulid.Make().String(),
		ProjectID:       projectID,
		ProjectName:     projectName,
		TaskDescription: taskDescription,
		StartTime:       startTime,
		Tags:            []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Stop finalizes the entry. The end time must be strictly after the start
// time, otherwise the entry is left unchanged.
func (e *TimeEntry) Stop(endTime time.Time) error {
	if !endTime.After(e.StartTime) {
		return &InvalidDurationError{Reason: "end time must be after start time"}
	}
	d := endTime.Sub(e.StartTime)
	e.EndTime = &endTime
	e.Duration = &d
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// AddTag appends a tag unless it is already present.
func (e *TimeEntry) AddTag(tag string) {
	for _, t := range e.Tags {
		if t == tag {
			return
		}
	}
	e.Tags = append(e.Tags, tag)
	e.UpdatedAt = time.Now().UTC()
}

// RemoveTag drops all occurrences of a tag.
func (e *TimeEntry) RemoveTag(tag string) {
	kept := e.Tags[:0]
	for _, t := range e.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	e.Tags = kept
	e.UpdatedAt = time.Now().UTC()
}

// IsRunning reports whether the entry has not been stopped yet.
func (e *TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// CurrentDuration returns the recorded duration, or elapsed wall-clock
// time for a running entry.
func (e *TimeEntry) CurrentDuration() time.Duration {
	if e.EndTime != nil {
		return e.EndTime.Sub(e.StartTime)
	}
	return time.Since(e.StartTime)
}

// Timer is the in-flight representation of a time entry before it is
// finalized. At most one exists at any time.
type Timer struct {
	ID              string    `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
	ProjectName     string    `json:"project_name"`
	TaskDescription string    `json:"task_description,omitempty"`
	StartTime       time.Time `json:"start_time"`
	Tags            []string  `json:"tags"`
}

// NewTimer creates a timer against a resolved project.
func NewTimer(projectID uuid.UUID, projectName, taskDescription string, startTime time.Time) *Timer {
	return &Timer{
		ID:              ulid.Make().String(),
		ProjectID:       projectID,
		ProjectName:     projectName,
		TaskDescription: taskDescription,
		StartTime:       startTime,
		Tags:            []string{},
	}
}

// Elapsed returns wall-clock time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.StartTime)
}

// AddTag appends a tag unless it is already present.
func (t *Timer) AddTag(tag string) {
	for _, existing := range t.Tags {
		if existing == tag {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
}
