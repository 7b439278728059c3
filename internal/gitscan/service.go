package gitscan

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
	"github.com/wenzel/timespan/internal/store"
)

// ImportTag marks time entries synthesized from commit history, so
// reports can tell them apart from hand-tracked time.
const ImportTag = "git-import"

// Service analyzes repositories and imports estimated effort as time
// entries.
type Service struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewService creates a git analysis service backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logging.New("gitscan"),
	}
}

// Commits reads commit history from the repository at path.
func (s *Service) Commits(ctx context.Context, path string, since *time.Time, limit int) ([]domain.Commit, error) {
	return NewLogReader(path).Commits(ctx, since, limit)
}

// AnalyzeRepository reads and scores the recent history of a repository.
func (s *Service) AnalyzeRepository(ctx context.Context, path string, since *time.Time, limit int) ([]domain.CommitAnalysis, error) {
	commits, err := s.Commits(ctx, path, since, limit)
	if err != nil {
		return nil, err
	}

	analyses := make([]domain.CommitAnalysis, 0, len(commits))
	for i := range commits {
		analyses = append(analyses, Analyze(&commits[i]))
	}
	return analyses, nil
}

// DetectProject maps a repository path to a registered project name.
// It tries the directory name, then the client-prefixed variant, then
// the origin remote's repository name, and falls back to the bare
// directory name when nothing is registered.
func (s *Service) DetectProject(ctx context.Context, path string) (string, error) {
	dirName := filepath.Base(path)

	if p, err := s.repo.GetProjectByName(ctx, dirName); err != nil {
		return "", err
	} else if p != nil {
		return dirName, nil
	}

	clientName := "[CLIENT] " + dirName
	if p, err := s.repo.GetProjectByName(ctx, clientName); err != nil {
		return "", err
	} else if p != nil {
		return clientName, nil
	}

	if repoName := NewLogReader(path).OriginRepoName(ctx); repoName != "" {
		if p, err := s.repo.GetProjectByName(ctx, repoName); err != nil {
			return "", err
		} else if p != nil {
			return repoName, nil
		}
	}

	return dirName, nil
}

// ImportResult summarizes an import run.
type ImportResult struct {
	ProjectName    string
	Imported       []domain.TimeEntry
	TotalEstimated time.Duration
}

// Import turns the analyzed history of a repository into time entries
// for the named project. Each entry ends at the commit timestamp and
// runs backwards for the estimated duration, tagged so reports can
// distinguish imported effort.
func (s *Service) Import(ctx context.Context, path, projectName string, since *time.Time, limit int) (*ImportResult, error) {
	p, err := s.repo.GetProjectByName(ctx, projectName)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.ProjectNotFoundError{Name: projectName}
	}

	analyses, err := s.AnalyzeRepository(ctx, path, since, limit)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{ProjectName: p.Name}
	for i := range analyses {
		a := &analyses[i]
		end := a.Commit.Timestamp
		start := end.Add(-a.EstimatedDuration)

		entry := domain.NewTimeEntry(p.ID, p.Name, a.Commit.Message, start)
		entry.AddTag(ImportTag)
		if err := entry.Stop(end); err != nil {
			continue
		}
		if err := s.repo.CreateTimeEntry(ctx, entry); err != nil {
			return nil, err
		}

		result.Imported = append(result.Imported, *entry)
		result.TotalEstimated += a.EstimatedDuration
	}

	s.log.Debug().
		Str("project", p.Name).
		Int("imported", len(result.Imported)).
		Dur("total", result.TotalEstimated).
		Msg("git import finished")
	return result, nil
}
