// Package discovery scans a client directory tree and registers each
// surviving subdirectory as a project.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
	"github.com/wenzel/timespan/internal/store"
)

// DefaultExcludes filters out hidden directories, common junk, and
// editor state so only real client directories become projects.
var DefaultExcludes = []string{
	".DS_Store",
	".git",
	".*",
	"*.pdf",
	"*.mp4",
	"*.zip",
	"*.whisper",
	"*.html",
	"*.mht",
	"*.pages",
	"*.md",
	".vscode",
	".idea",
	".cursor",
	".atom",
	".sublime-text",
	".vim",
	".emacs.d",
}

// DefaultPrefix marks discovered projects in the registry.
const DefaultPrefix = "[CLIENT]"

// Options controls a discovery run.
type Options struct {
	BasePath        string
	ExcludePatterns []string
	ProjectPrefix   string
	DryRun          bool
}

// DefaultOptions returns the standard options for scanning basePath.
func DefaultOptions(basePath string) Options {
	return Options{
		BasePath:        basePath,
		ExcludePatterns: DefaultExcludes,
		ProjectPrefix:   DefaultPrefix,
	}
}

// ClientDirectory is one candidate found during a scan.
type ClientDirectory struct {
	Name                 string
	Path                 string
	IsGitRepo            bool
	LastModified         time.Time
	SuggestedDescription string
}

// Result summarizes a discovery run. Per-directory failures land in
// Errors; they never abort the rest of the scan.
type Result struct {
	Discovered []ClientDirectory
	Created    []domain.Project
	Updated    []domain.Project
	Skipped    []string
	Errors     []string
}

// Service performs discovery runs against the project registry.
type Service struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewService creates a discovery service backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{
		repo: repo,
		log:  logging.New("discovery"),
	}
}

// Discover scans the base path and creates or updates one project per
// surviving directory. With DryRun set, directories are enumerated but
// the registry is left untouched.
func (s *Service) Discover(ctx context.Context, opts Options) (*Result, error) {
	dirs, err := s.scan(opts.BasePath, opts.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	result := &Result{Discovered: dirs}
	for _, dir := range dirs {
		if err := s.process(ctx, dir, opts, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error processing %s: %v", dir.Name, err))
		}
	}

	s.log.Debug().
		Int("discovered", len(result.Discovered)).
		Int("created", len(result.Created)).
		Int("updated", len(result.Updated)).
		Msg("discovery run finished")
	return result, nil
}

func (s *Service) scan(basePath string, excludePatterns []string) ([]ClientDirectory, error) {
	if _, err := os.Stat(basePath); err != nil {
		return nil, &domain.InvalidDurationError{Reason: fmt.Sprintf("base path does not exist: %s", basePath)}
	}

	entries, err := os.ReadDir(basePath)
	if err != nil {
		return nil, &domain.StorageError{Op: "read clients dir", Err: err}
	}

	var dirs []ClientDirectory
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if Excluded(name, excludePatterns) {
			continue
		}
		dirs = append(dirs, analyzeDirectory(name, filepath.Join(basePath, name)))
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	return dirs, nil
}

// Excluded reports whether a directory name matches any exclude pattern.
func Excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func analyzeDirectory(name, path string) ClientDirectory {
	dir := ClientDirectory{Name: name, Path: path}

	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		dir.IsGitRepo = true
	}
	if info, err := os.Stat(path); err == nil {
		dir.LastModified = info.ModTime()
	}

	parts := []string{"Client project"}
	if dir.IsGitRepo {
		parts = append(parts, "(Git repository)")
	}
	parts = append(parts, "Location: "+path)
	dir.SuggestedDescription = strings.Join(parts, " ")
	return dir
}

func (s *Service) process(ctx context.Context, dir ClientDirectory, opts Options, result *Result) error {
	projectName := dir.Name
	if opts.ProjectPrefix != "" {
		projectName = opts.ProjectPrefix + " " + dir.Name
	}

	existing, err := s.repo.GetProjectByName(ctx, projectName)
	if err != nil {
		return err
	}

	if existing != nil {
		if opts.DryRun {
			return nil
		}
		if existing.DirectoryPath != dir.Path {
			existing.DirectoryPath = dir.Path
			existing.IsClientProject = true
			existing.UpdatedAt = time.Now().UTC()
			if err := s.repo.UpdateProject(ctx, existing); err != nil {
				return err
			}
			result.Updated = append(result.Updated, *existing)
		} else {
			result.Skipped = append(result.Skipped, projectName+" (already exists)")
		}
		return nil
	}

	if opts.DryRun {
		return nil
	}

	p := domain.NewClientProject(projectName, dir.SuggestedDescription, dir.Path)
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return err
	}
	result.Created = append(result.Created, *p)
	return nil
}

// ListClientProjects returns registered projects that came from
// directory discovery.
func (s *Service) ListClientProjects(ctx context.Context) ([]domain.Project, error) {
	all, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	var clients []domain.Project
	for _, p := range all {
		if p.IsClientProject {
			clients = append(clients, p)
		}
	}
	return clients, nil
}
