// Package tracker implements the single-active-timer state machine:
// at most one timer runs at any moment, and stopping it produces a
// finalized time entry.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
	"github.com/wenzel/timespan/internal/store"
)

// Service drives the active timer lifecycle against the store.
type Service struct {
	repo store.Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService creates a tracker backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logging.New("tracker"),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Start begins tracking time against a project. The project must exist
// and no timer may be running; the store enforces the latter atomically,
// so two concurrent starts cannot both win.
func (s *Service) Start(ctx context.Context, projectName, taskDescription string) (*domain.Timer, error) {
	p, err := s.repo.GetProjectByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.ProjectNotFoundError{Name: projectName}
	}

	timer := domain.NewTimer(p.ID, p.Name, taskDescription, s.now())
	if err := s.repo.InsertActiveTimer(ctx, timer); err != nil {
		return nil, err
	}

	s.log.Debug().Str("project", p.Name).Time("start", timer.StartTime).Msg("timer started")
	return timer, nil
}

// Stop finalizes the running timer into a time entry and clears the
// timer slot in one transaction.
func (s *Service) Stop(ctx context.Context) (*domain.TimeEntry, error) {
	timer, err := s.repo.GetActiveTimer(ctx)
	if err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, domain.ErrNoActiveTimer
	}

	entry := domain.NewTimeEntry(timer.ProjectID, timer.ProjectName, timer.TaskDescription, timer.StartTime)
	entry.Tags = append([]string{}, timer.Tags...)
	if err := entry.Stop(s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.FinalizeActiveTimer(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Debug().Str("project", entry.ProjectName).Dur("duration", *entry.Duration).Msg("timer stopped")
	return entry, nil
}

// Active returns the running timer, or nil when idle.
func (s *Service) Active(ctx context.Context) (*domain.Timer, error) {
	return s.repo.GetActiveTimer(ctx)
}

// Status describes the running timer as a one-line summary.
func (s *Service) Status(ctx context.Context) (string, error) {
	timer, err := s.repo.GetActiveTimer(ctx)
	if err != nil {
		return "", err
	}
	if timer == nil {
		return "No active timer", nil
	}

	elapsed := s.now().Sub(timer.StartTime)
	if timer.TaskDescription != "" {
		return fmt.Sprintf("%s (%s) - %s", timer.ProjectName, formatElapsed(elapsed), timer.TaskDescription), nil
	}
	return fmt.Sprintf("%s (%s)", timer.ProjectName, formatElapsed(elapsed)), nil
}

// AddTag attaches a tag to the running timer. Duplicate tags are ignored.
func (s *Service) AddTag(ctx context.Context, tag string) (*domain.Timer, error) {
	timer, err := s.repo.GetActiveTimer(ctx)
	if err != nil {
		return nil, err
	}
	if timer == nil {
		return nil, domain.ErrNoActiveTimer
	}

	timer.AddTag(tag)
	if err := s.repo.SaveActiveTimer(ctx, timer); err != nil {
		return nil, err
	}
	return timer, nil
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
