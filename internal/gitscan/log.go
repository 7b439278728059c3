// Package gitscan reads local git history and estimates the effort
// behind each commit from its message and change volume.
package gitscan

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/wenzel/timespan/internal/domain"
)

// LogReader reads commit history from a local repository via the git
// binary. No network access; a missing or non-git path fails outright.
type LogReader struct {
	repoPath string
}

// NewLogReader creates a reader for the repository at path.
func NewLogReader(path string) *LogReader {
	return &LogReader{repoPath: path}
}

// Commits reads up to limit commits, newest first, optionally bounded
// by a since timestamp. A limit of 0 means no bound.
func (r *LogReader) Commits(ctx context.Context, since *time.Time, limit int) ([]domain.Commit, error) {
	args := []string{"-C", r.repoPath, "log",
		"--format=%H|%an|%ae|%at|%s",
		"--numstat",
	}
	if limit > 0 {
		args = append(args, fmt.Sprintf("--max-count=%d", limit))
	}
	if since != nil {
		args = append(args, "--since="+since.UTC().Format(time.RFC3339))
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, &domain.StorageError{Op: "git log " + r.repoPath, Err: err}
	}

	return parseLog(string(output), r.repoPath), nil
}

// parseLog walks the interleaved header/numstat output. Header lines
// carry five pipe-separated fields; numstat lines carry insertions,
// deletions, and a path separated by tabs ("-" for binary files).
func parseLog(output, repoPath string) []domain.Commit {
	var commits []domain.Commit
	var current *domain.Commit

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Count(line, "|") >= 4 {
			if current != nil {
				commits = append(commits, *current)
			}

			parts := strings.SplitN(line, "|", 5)
			ts, _ := strconv.ParseInt(parts[3], 10, 64)
			current = &domain.Commit{
				Hash:           parts[0],
				Author:         parts[1],
				AuthorEmail:    parts[2],
				Timestamp:      time.Unix(ts, 0).UTC(),
				Message:        parts[4],
				RepositoryPath: repoPath,
			}
			continue
		}

		if current == nil || strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		if ins, err := strconv.Atoi(fields[0]); err == nil {
			current.Insertions += ins
		}
		if del, err := strconv.Atoi(fields[1]); err == nil {
			current.Deletions += del
		}
		current.FilesChanged = append(current.FilesChanged, fields[2])
	}

	if current != nil {
		commits = append(commits, *current)
	}
	return commits
}

// OriginRepoName resolves the repository name from the origin remote
// URL, or "" when there is no origin.
func (r *LogReader) OriginRepoName(ctx context.Context) string {
	cmd := exec.CommandContext(ctx, "git", "-C", r.repoPath, "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return repoNameFromURL(strings.TrimSpace(string(output)))
}

func repoNameFromURL(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return strings.TrimSuffix(parts[len(parts)-1], ".git")
}

// IsRepository reports whether the reader's path is inside a git
// work tree.
func (r *LogReader) IsRepository(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "-C", r.repoPath, "rev-parse", "--is-inside-work-tree")
	return cmd.Run() == nil
}
