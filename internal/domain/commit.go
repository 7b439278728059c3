package domain

import (
	"strings"
	"time"
)

// CommitType categorizes a commit by its message.
type CommitType string

const (
	CommitFeature       CommitType = "feature"
	CommitBugFix        CommitType = "bugfix"
	CommitRefactor      CommitType = "refactor"
	CommitDocumentation CommitType = "documentation"
	CommitTest          CommitType = "test"
	CommitChore         CommitType = "chore"
	CommitOther         CommitType = "other"
)

// Commit is a single record read from local git history.
type Commit struct {
	Hash           string    `json:"hash"`
	Message        string    `json:"message"`
	Author         string    `json:"author"`
	AuthorEmail    string    `json:"author_email"`
	Timestamp      time.Time `json:"timestamp"`
	FilesChanged   []string  `json:"files_changed,omitempty"`
	Insertions     int       `json:"insertions"`
	Deletions      int       `json:"deletions"`
	RepositoryPath string    `json:"repository_path"`
}

// TotalChanges returns insertions plus deletions.
func (c *Commit) TotalChanges() int {
	return c.Insertions + c.Deletions
}

// DetectType classifies the commit by message-prefix heuristics.
func (c *Commit) DetectType() CommitType {
	msg := strings.ToLower(c.Message)

	switch {
	case strings.HasPrefix(msg, "feat") || strings.Contains(msg, "feature") || strings.Contains(msg, "add"):
		return CommitFeature
	case strings.HasPrefix(msg, "fix") || strings.Contains(msg, "bug") || strings.Contains(msg, "error"):
		return CommitBugFix
	case strings.Contains(msg, "refactor"):
		return CommitRefactor
	case strings.HasPrefix(msg, "docs") || strings.Contains(msg, "documentation"):
		return CommitDocumentation
	case strings.Contains(msg, "test"):
		return CommitTest
	case strings.Contains(msg, "chore"):
		return CommitChore
	default:
		return CommitOther
	}
}

// CommitAnalysis is the heuristic effort estimate for one commit.
type CommitAnalysis struct {
	Commit            Commit             `json:"commit"`
	CommitType        CommitType         `json:"commit_type"`
	ComplexityScore   float64            `json:"complexity_score"`
	FileTypeWeights   map[string]float64 `json:"file_type_weights,omitempty"`
	EstimatedDuration time.Duration      `json:"-"`
	ConfidenceScore   float64            `json:"confidence_score"`
}
