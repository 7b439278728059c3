// Package project manages the project registry: named units of work
// that time entries are attributed to.
package project

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
	"github.com/wenzel/timespan/internal/store"
)

// Service exposes registry operations keyed by project name.
type Service struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewService creates a registry backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logging.New("project"),
	}
}

// Create registers a new project. The name must be non-empty and unique.
func (s *Service) Create(ctx context.Context, name, description string) (*domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &domain.InvalidDurationError{Reason: "project name cannot be empty"}
	}

	existing, err := s.repo.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ProjectExistsError{Name: name}
	}

	p := domain.NewProject(name, description)
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.log.Debug().Str("project", p.Name).Str("id", p.ID.String()).Msg("project created")
	return p, nil
}

// Get resolves a project by name.
func (s *Service) Get(ctx context.Context, name string) (*domain.Project, error) {
	p, err := s.repo.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.ProjectNotFoundError{Name: name}
	}
	return p, nil
}

// List returns all projects ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.ListProjects(ctx)
}

// UpdateDescription replaces a project's description.
func (s *Service) UpdateDescription(ctx context.Context, name, description string) (*domain.Project, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	p.UpdateDescription(description)
	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project by name. A project with recorded time entries
// cannot be deleted; the entries keep their history.
func (s *Service) Delete(ctx context.Context, name string) error {
	p, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	count, err := s.repo.CountTimeEntriesForProject(ctx, p.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.ProjectHasEntriesError{Name: name}
	}

	if err := s.repo.DeleteProject(ctx, p.ID); err != nil {
		return err
	}
	s.log.Debug().Str("project", name).Msg("project deleted")
	return nil
}

// Entries returns the recorded time entries for a project, newest first.
func (s *Service) Entries(ctx context.Context, name string) ([]domain.TimeEntry, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.repo.GetTimeEntriesByProject(ctx, p.ID)
}
