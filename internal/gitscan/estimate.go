package gitscan

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/wenzel/timespan/internal/domain"
)

// Effort estimation is a pure function of the commit metadata: message
// keywords pick a base time, change volume and file types scale it.
// Everything here is store- and filesystem-free so it can be tested in
// isolation.

const maxEstimate = 4 * time.Hour

var baseMinutes = map[domain.CommitType]int{
	domain.CommitFeature:       45,
	domain.CommitBugFix:        60,
	domain.CommitRefactor:      30,
	domain.CommitDocumentation: 15,
	domain.CommitTest:          25,
	domain.CommitChore:         10,
	domain.CommitOther:         20,
}

// Analyze scores a commit: type classification, complexity, estimated
// duration, and a confidence score for the estimate.
func Analyze(c *domain.Commit) domain.CommitAnalysis {
	commitType := c.DetectType()
	complexity := ComplexityScore(c)

	return domain.CommitAnalysis{
		Commit:            *c,
		CommitType:        commitType,
		ComplexityScore:   complexity,
		FileTypeWeights:   FileTypeWeights(c.FilesChanged),
		EstimatedDuration: EstimateDuration(c, commitType, complexity),
		ConfidenceScore:   ConfidenceScore(c, commitType),
	}
}

// ComplexityScore rates a commit from its change volume: lines changed
// (capped at 3.0 per hundred lines) and files touched (capped at 2.0
// per ten files), averaged.
func ComplexityScore(c *domain.Commit) float64 {
	linesScore := min(float64(c.TotalChanges())/100.0, 3.0)
	filesScore := min(float64(len(c.FilesChanged))/10.0, 2.0)
	return (linesScore + filesScore) / 2.0
}

// FileTypeWeights accumulates a per-extension weight over the changed
// files, rating source code above markup and config.
func FileTypeWeights(files []string) map[string]float64 {
	weights := make(map[string]float64)
	for _, file := range files {
		ext := strings.TrimPrefix(filepath.Ext(file), ".")
		if ext == "" {
			ext = "unknown"
		}

		var w float64
		switch ext {
		case "go", "rs":
			w = 1.5
		case "py":
			w = 1.3
		case "js", "ts":
			w = 1.2
		case "java", "cpp", "c":
			w = 1.4
		case "md", "txt":
			w = 0.5
		case "json", "toml", "yaml", "yml":
			w = 0.3
		case "html", "css":
			w = 0.7
		default:
			w = 1.0
		}
		weights[ext] += w
	}
	return weights
}

// EstimateDuration turns a commit into an estimated effort: a base time
// per commit type, scaled by complexity, plus change-volume and
// file-type bonuses, capped at four hours.
func EstimateDuration(c *domain.Commit, commitType domain.CommitType, complexity float64) time.Duration {
	base := baseMinutes[commitType]

	multiplier := 1.0 + complexity*0.5
	minutes := int64(float64(base) * multiplier)

	changesFactor := min(float64(c.TotalChanges())/50.0, 3.0)
	minutes += int64(changesFactor * 10.0)

	for _, file := range c.FilesChanged {
		switch strings.TrimPrefix(filepath.Ext(file), ".") {
		case "go", "rs":
			minutes += 5
		case "js", "ts":
			minutes += 3
		case "md":
			minutes++
		}
	}

	estimate := time.Duration(minutes) * time.Minute
	if estimate > maxEstimate {
		estimate = maxEstimate
	}
	return estimate
}

// ConfidenceScore rates how trustworthy an estimate is, on [0.1, 1.0].
// Commits with a message and a moderate change volume score higher;
// huge commits (likely merges or bulk changes) score lower.
func ConfidenceScore(c *domain.Commit, commitType domain.CommitType) float64 {
	score := 0.5

	if strings.TrimSpace(c.Message) != "" {
		score += 0.2
	}

	changes := c.TotalChanges()
	if changes > 10 && changes < 500 {
		score += 0.2
	}
	if changes > 1000 {
		score -= 0.3
	}

	if commitType == domain.CommitFeature || commitType == domain.CommitBugFix {
		score += 0.1
	}

	return max(0.1, min(score, 1.0))
}
