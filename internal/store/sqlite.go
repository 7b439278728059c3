package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/wenzel/timespan/internal/domain"
)

// SQLite is the embedded-database implementation of Repository. A single
// mutex serializes all operations; the connection pool is pinned to one
// connection so in-memory databases see a single coherent store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

var _ Repository = (*SQLite)(nil)

// Open opens (or creates) the database at path and applies the schema.
// Parent directories are created as needed.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &domain.StorageError{Op: "create data dir", Err: err}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_fk=on")
	if err != nil {
		return nil, &domain.StorageError{Op: "open database", Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &domain.StorageError{Op: "migrate", Err: err}
	}
	return s, nil
}

// OpenInMemory opens a private in-memory database. Used by tests.
func OpenInMemory() (*SQLite, error) {
	db, err := sql.Open("sqlite3", ":memory:?_fk=on")
	if err != nil {
		return nil, &domain.StorageError{Op: "open database", Err: err}
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &domain.StorageError{Op: "migrate", Err: err}
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		directory_path TEXT,
		is_client_project INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		project_name TEXT NOT NULL,
		task_description TEXT,
		start_time TEXT NOT NULL,
		end_time TEXT,
		duration_seconds INTEGER,
		tags TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id)
	);

	CREATE INDEX IF NOT EXISTS idx_time_entries_project ON time_entries(project_id);
	CREATE INDEX IF NOT EXISTS idx_time_entries_start ON time_entries(start_time);

	CREATE TABLE IF NOT EXISTS active_timer (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		timer_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		project_name TEXT NOT NULL,
		task_description TEXT,
		start_time TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]'
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Timestamps are stored as RFC 3339 UTC strings so rows stay readable
// and lexicographic order matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func marshalTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

func unmarshalTags(raw string) []string {
	tags := []string{}
	if raw != "" {
		json.Unmarshal([]byte(raw), &tags)
	}
	return tags
}

// Project operations

func (s *SQLite) CreateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, directory_path, is_client_project, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID.String(), p.Name, nullString(p.Description), nullString(p.DirectoryPath),
		boolToInt(p.IsClientProject), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		// Only the name carries a UNIQUE constraint.
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return &domain.ProjectExistsError{Name: p.Name}
		}
		return &domain.StorageError{Op: "create project", Err: err}
	}
	return nil
}

func (s *SQLite) GetProjectByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, directory_path, is_client_project, created_at, updated_at
		FROM projects WHERE id = ?
	`, id.String())
	return scanProject(row)
}

func (s *SQLite) GetProjectByName(ctx context.Context, name string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, directory_path, is_client_project, created_at, updated_at
		FROM projects WHERE name = ?
	`, name)
	return scanProject(row)
}

func (s *SQLite) ListProjects(ctx context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, directory_path, is_client_project, created_at, updated_at
		FROM projects ORDER BY name ASC
	`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list projects", Err: err}
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list projects", Err: err}
	}
	return projects, nil
}

func (s *SQLite) UpdateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, directory_path = ?, is_client_project = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, nullString(p.Description), nullString(p.DirectoryPath),
		boolToInt(p.IsClientProject), formatTime(p.UpdatedAt), p.ID.String())
	if err != nil {
		return &domain.StorageError{Op: "update project", Err: err}
	}
	return nil
}

func (s *SQLite) DeleteProject(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var name string
	s.db.QueryRowContext(ctx, `SELECT name FROM projects WHERE id = ?`, id.String()).Scan(&name)

	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		// time_entries.project_id references projects.id; the constraint
		// fires when entries still point at the row.
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return &domain.ProjectHasEntriesError{Name: name}
		}
		return &domain.StorageError{Op: "delete project", Err: err}
	}
	return nil
}

// Time entry operations

func (s *SQLite) CreateTimeEntry(ctx context.Context, e *domain.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertTimeEntry(ctx, s.db, e)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLite) insertTimeEntry(ctx context.Context, db execer, e *domain.TimeEntry) error {
	var endTime, duration any
	if e.EndTime != nil {
		endTime = formatTime(*e.EndTime)
	}
	if e.Duration != nil {
		duration = int64(e.Duration.Seconds())
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO time_entries (id, project_id, project_name, task_description, start_time, end_time, duration_seconds, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ProjectID.String(), e.ProjectName, nullString(e.TaskDescription),
		formatTime(e.StartTime), endTime, duration, marshalTags(e.Tags),
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return &domain.StorageError{Op: "create time entry", Err: err}
	}
	return nil
}

func (s *SQLite) GetTimeEntryByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, project_name, task_description, start_time, end_time, duration_seconds, tags, created_at, updated_at
		FROM time_entries WHERE id = ?
	`, id)
	return scanTimeEntry(row)
}

func (s *SQLite) GetActiveTimeEntry(ctx context.Context) (*domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, project_name, task_description, start_time, end_time, duration_seconds, tags, created_at, updated_at
		FROM time_entries WHERE end_time IS NULL ORDER BY start_time DESC LIMIT 1
	`)
	return scanTimeEntry(row)
}

func (s *SQLite) CountTimeEntriesForProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM time_entries WHERE project_id = ?
	`, projectID.String()).Scan(&n)
	if err != nil {
		return 0, &domain.StorageError{Op: "count entries for project", Err: err}
	}
	return n, nil
}

func (s *SQLite) GetTimeEntriesByProject(ctx context.Context, projectID uuid.UUID) ([]domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, project_name, task_description, start_time, end_time, duration_seconds, tags, created_at, updated_at
		FROM time_entries WHERE project_id = ? ORDER BY start_time DESC
	`, projectID.String())
	if err != nil {
		return nil, &domain.StorageError{Op: "list entries by project", Err: err}
	}
	return collectTimeEntries(rows)
}

// GetTimeEntriesByDateRange returns entries whose start time falls in
// [start, end], oldest first.
func (s *SQLite) GetTimeEntriesByDateRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, project_name, task_description, start_time, end_time, duration_seconds, tags, created_at, updated_at
		FROM time_entries WHERE start_time >= ? AND start_time <= ? ORDER BY start_time ASC
	`, formatTime(start), formatTime(end))
	if err != nil {
		return nil, &domain.StorageError{Op: "list entries by date range", Err: err}
	}
	return collectTimeEntries(rows)
}

func (s *SQLite) UpdateTimeEntry(ctx context.Context, e *domain.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endTime, duration any
	if e.EndTime != nil {
		endTime = formatTime(*e.EndTime)
	}
	if e.Duration != nil {
		duration = int64(e.Duration.Seconds())
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE time_entries SET task_description = ?, start_time = ?, end_time = ?, duration_seconds = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, nullString(e.TaskDescription), formatTime(e.StartTime), endTime, duration,
		marshalTags(e.Tags), formatTime(e.UpdatedAt), e.ID)
	if err != nil {
		return &domain.StorageError{Op: "update time entry", Err: err}
	}
	return nil
}

func (s *SQLite) DeleteTimeEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete time entry", Err: err}
	}
	return nil
}

// Active timer operations

func (s *SQLite) GetActiveTimer(ctx context.Context) (*domain.Timer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getActiveTimerLocked(ctx)
}

func (s *SQLite) getActiveTimerLocked(ctx context.Context) (*domain.Timer, error) {
	var (
		t         domain.Timer
		projectID string
		task      sql.NullString
		startRaw  string
		tagsRaw   string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT timer_id, project_id, project_name, task_description, start_time, tags
		FROM active_timer WHERE id = 1
	`).Scan(&t.ID, &projectID, &t.ProjectName, &task, &startRaw, &tagsRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get active timer", Err: err}
	}

	t.ProjectID, err = uuid.Parse(projectID)
	if err != nil {
		return nil, &domain.StorageError{Op: "get active timer", Err: err}
	}
	t.StartTime, err = parseTime(startRaw)
	if err != nil {
		return nil, &domain.StorageError{Op: "get active timer", Err: err}
	}
	t.TaskDescription = task.String
	t.Tags = unmarshalTags(tagsRaw)
	return &t, nil
}

func (s *SQLite) InsertActiveTimer(ctx context.Context, t *domain.Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO active_timer (id, timer_id, project_id, project_name, task_description, start_time, tags)
		VALUES (1, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ProjectID.String(), t.ProjectName, nullString(t.TaskDescription),
		formatTime(t.StartTime), marshalTags(t.Tags))
	if err != nil {
		return &domain.StorageError{Op: "insert active timer", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "insert active timer", Err: err}
	}
	if n == 0 {
		running, err := s.getActiveTimerLocked(ctx)
		if err != nil {
			return err
		}
		project := ""
		if running != nil {
			project = running.ProjectName
		}
		return &domain.TimerRunningError{Project: project}
	}
	return nil
}

func (s *SQLite) SaveActiveTimer(ctx context.Context, t *domain.Timer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO active_timer (id, timer_id, project_id, project_name, task_description, start_time, tags)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timer_id = excluded.timer_id,
			project_id = excluded.project_id,
			project_name = excluded.project_name,
			task_description = excluded.task_description,
			start_time = excluded.start_time,
			tags = excluded.tags
	`, t.ID, t.ProjectID.String(), t.ProjectName, nullString(t.TaskDescription),
		formatTime(t.StartTime), marshalTags(t.Tags))
	if err != nil {
		return &domain.StorageError{Op: "save active timer", Err: err}
	}
	return nil
}

func (s *SQLite) FinalizeActiveTimer(ctx context.Context, e *domain.TimeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "finalize timer", Err: err}
	}
	defer tx.Rollback()

	if err := s.insertTimeEntry(ctx, tx, e); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM active_timer WHERE id = 1`); err != nil {
		return &domain.StorageError{Op: "finalize timer", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "finalize timer", Err: err}
	}
	return nil
}

func (s *SQLite) ClearActiveTimer(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM active_timer WHERE id = 1`)
	if err != nil {
		return &domain.StorageError{Op: "clear active timer", Err: err}
	}
	return nil
}

// Scan helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p           domain.Project
		id          string
		description sql.NullString
		dirPath     sql.NullString
		isClient    int
		createdRaw  string
		updatedRaw  string
	)
	err := row.Scan(&id, &p.Name, &description, &dirPath, &isClient, &createdRaw, &updatedRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "scan project", Err: err}
	}

	p.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, &domain.StorageError{Op: "scan project", Err: err}
	}
	p.Description = description.String
	p.DirectoryPath = dirPath.String
	p.IsClientProject = isClient != 0
	if p.CreatedAt, err = parseTime(createdRaw); err != nil {
		return nil, &domain.StorageError{Op: "scan project", Err: err}
	}
	if p.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return nil, &domain.StorageError{Op: "scan project", Err: err}
	}
	return &p, nil
}

func scanTimeEntry(row rowScanner) (*domain.TimeEntry, error) {
	var (
		e          domain.TimeEntry
		projectID  string
		task       sql.NullString
		startRaw   string
		endRaw     sql.NullString
		duration   sql.NullInt64
		tagsRaw    string
		createdRaw string
		updatedRaw string
	)
	err := row.Scan(&e.ID, &projectID, &e.ProjectName, &task, &startRaw, &endRaw, &duration, &tagsRaw, &createdRaw, &updatedRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "scan time entry", Err: err}
	}

	e.ProjectID, err = uuid.Parse(projectID)
	if err != nil {
		return nil, &domain.StorageError{Op: "scan time entry", Err: err}
	}
	e.TaskDescription = task.String
	if e.StartTime, err = parseTime(startRaw); err != nil {
		return nil, &domain.StorageError{Op: "scan time entry", Err: err}
	}
	if endRaw.Valid {
		end, err := parseTime(endRaw.String)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan time entry", Err: err}
		}
		e.EndTime = &end
	}
	if duration.Valid {
		d := time.Duration(duration.Int64) * time.Second
		e.Duration = &d
	}
	e.Tags = unmarshalTags(tagsRaw)
	if e.CreatedAt, err = parseTime(createdRaw); err != nil {
		return nil, &domain.StorageError{Op: "scan time entry", Err: err}
	}
	if e.UpdatedAt, err = parseTime(updatedRaw); err != nil {
		return nil, &domain.StorageError{Op: "scan time entry", Err: err}
	}
	return &e, nil
}

func collectTimeEntries(rows *sql.Rows) ([]domain.TimeEntry, error) {
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "scan time entries", Err: err}
	}
	return entries, nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == code
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
