// Package backup exports and restores tracked data as compressed
// archives: projects and time entries as JSON inside a tar.gz, plus a
// metadata file describing the snapshot.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wenzel/timespan/internal/domain"
	"github.com/wenzel/timespan/internal/logging"
	"github.com/wenzel/timespan/internal/store"
)

// Metadata describes one backup archive.
type Metadata struct {
	Version     string         `json:"version"`
	CreatedAt   time.Time      `json:"created_at"`
	Description string         `json:"description"`
	Counts      map[string]int `json:"counts"`
}

// Manager handles backup operations against the store.
type Manager struct {
	repo store.Repository
	log  zerolog.Logger
}

// NewManager creates a backup manager backed by repo.
func NewManager(repo store.Repository) *Manager {
	return &Manager{
		repo: repo,
		log:  logging.New("backup"),
	}
}

// snapshot is the archived wire form. The active timer is transient
// state and deliberately not included.
type snapshot struct {
	Projects []domain.Project   `json:"projects"`
	Entries  []domain.TimeEntry `json:"time_entries"`
}

// Export writes a compressed snapshot of all projects and time entries.
func (m *Manager) Export(ctx context.Context, outputPath, description string) (*Metadata, error) {
	snap, err := m.collect(ctx)
	if err != nil {
		return nil, err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating backup file: %w", err)
	}
	defer file.Close()

	gzw := gzip.NewWriter(file)
	defer gzw.Close()
	tw := tar.NewWriter(gzw)
	defer tw.Close()

	metadata := &Metadata{
		Version:     "1.0",
		CreatedAt:   time.Now().UTC(),
		Description: description,
		Counts: map[string]int{
			"projects":     len(snap.Projects),
			"time_entries": len(snap.Entries),
		},
	}

	projectsJSON, err := json.MarshalIndent(snap.Projects, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal projects: %w", err)
	}
	if err := addToTar(tw, "projects.json", projectsJSON); err != nil {
		return nil, fmt.Errorf("adding projects to tar: %w", err)
	}

	entriesJSON, err := json.MarshalIndent(entriesWire(snap.Entries), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal time entries: %w", err)
	}
	if err := addToTar(tw, "time_entries.json", entriesJSON); err != nil {
		return nil, fmt.Errorf("adding time entries to tar: %w", err)
	}

	metaJSON, _ := json.MarshalIndent(metadata, "", "  ")
	if err := addToTar(tw, "metadata.json", metaJSON); err != nil {
		return nil, fmt.Errorf("adding metadata: %w", err)
	}

	m.log.Debug().Str("path", outputPath).Int("projects", len(snap.Projects)).Int("entries", len(snap.Entries)).Msg("backup written")
	return metadata, nil
}

// Restore imports an archive. Existing projects (by name) and entries
// (by id) are left alone, so restoring into a non-empty store merges.
func (m *Manager) Restore(ctx context.Context, inputPath string) (*Metadata, error) {
	metadata, files, err := readArchive(inputPath)
	if err != nil {
		return nil, err
	}

	var projects []domain.Project
	if data, ok := files["projects.json"]; ok {
		if err := json.Unmarshal(data, &projects); err != nil {
			return nil, fmt.Errorf("parsing projects: %w", err)
		}
	}
	var entries []wireEntry
	if data, ok := files["time_entries.json"]; ok {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parsing time entries: %w", err)
		}
	}

	// A project already registered under the same name keeps its own ID,
	// which can differ from the archived one. Entries are remapped onto
	// the surviving ID so the merge attaches them to the right project
	// instead of tripping the foreign key.
	idMap := make(map[uuid.UUID]uuid.UUID, len(projects))
	for i := range projects {
		p := &projects[i]
		existing, err := m.repo.GetProjectByName(ctx, p.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			idMap[p.ID] = existing.ID
			continue
		}
		if err := m.repo.CreateProject(ctx, p); err != nil {
			return nil, err
		}
		idMap[p.ID] = p.ID
	}

	for i := range entries {
		e := entries[i].toDomain()
		if mapped, ok := idMap[e.ProjectID]; ok {
			e.ProjectID = mapped
		}
		existing, err := m.repo.GetTimeEntryByID(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		if err := m.repo.CreateTimeEntry(ctx, e); err != nil {
			return nil, err
		}
	}

	return metadata, nil
}

// List shows the metadata of a backup without importing it.
func (m *Manager) List(inputPath string) (*Metadata, error) {
	metadata, _, err := readArchive(inputPath)
	return metadata, err
}

func (m *Manager) collect(ctx context.Context) (*snapshot, error) {
	projects, err := m.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{Projects: projects}
	for _, p := range projects {
		entries, err := m.repo.GetTimeEntriesByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		snap.Entries = append(snap.Entries, entries...)
	}
	return snap, nil
}

// wireEntry carries the duration explicitly since domain.TimeEntry does
// not serialize it.
type wireEntry struct {
	domain.TimeEntry
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

func entriesWire(entries []domain.TimeEntry) []wireEntry {
	out := make([]wireEntry, 0, len(entries))
	for _, e := range entries {
		we := wireEntry{TimeEntry: e}
		if e.Duration != nil {
			secs := int64(e.Duration.Seconds())
			we.DurationSeconds = &secs
		}
		out = append(out, we)
	}
	return out
}

func (w *wireEntry) toDomain() *domain.TimeEntry {
	e := w.TimeEntry
	if w.DurationSeconds != nil {
		d := time.Duration(*w.DurationSeconds) * time.Second
		e.Duration = &d
	}
	return &e
}

func readArchive(inputPath string) (*Metadata, map[string][]byte, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening backup: %w", err)
	}
	defer file.Close()

	gzr, err := gzip.NewReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	var metadata *Metadata
	files := make(map[string][]byte)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading tar: %w", err)
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", header.Name, err)
		}

		if header.Name == "metadata.json" {
			metadata = &Metadata{}
			if err := json.Unmarshal(data, metadata); err != nil {
				return nil, nil, fmt.Errorf("parsing metadata: %w", err)
			}
		} else {
			files[header.Name] = data
		}
	}

	if metadata == nil {
		return nil, nil, fmt.Errorf("backup missing metadata")
	}
	return metadata, files, nil
}

func addToTar(tw *tar.Writer, name string, data []byte) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}
