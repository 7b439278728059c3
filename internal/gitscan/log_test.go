package gitscan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `a1b2c3|Jo Dev|jo@example.com|1709550000|feat: add reports

12	3	internal/report/report.go
45	0	internal/report/report_test.go
d4e5f6|Jo Dev|jo@example.com|1709540000|chore: bump deps

2	2	go.mod
-	-	assets/logo.png
`

func TestParseLog(t *testing.T) {
	commits := parseLog(sampleLog, "/repos/timespan")
	require.Len(t, commits, 2)

	first := commits[0]
	assert.Equal(t, "a1b2c3", first.Hash)
	assert.Equal(t, "Jo Dev", first.Author)
	assert.Equal(t, "jo@example.com", first.AuthorEmail)
	assert.Equal(t, "feat: add reports", first.Message)
	assert.Equal(t, time.Unix(1709550000, 0).UTC(), first.Timestamp)
	assert.Equal(t, 57, first.Insertions)
	assert.Equal(t, 3, first.Deletions)
	assert.Equal(t, []string{"internal/report/report.go", "internal/report/report_test.go"}, first.FilesChanged)
	assert.Equal(t, "/repos/timespan", first.RepositoryPath)

	second := commits[1]
	assert.Equal(t, "d4e5f6", second.Hash)
	assert.Equal(t, 2, second.Insertions)
	assert.Equal(t, 2, second.Deletions)
	// Binary files count as changed but contribute no line counts.
	assert.Equal(t, []string{"go.mod", "assets/logo.png"}, second.FilesChanged)
}

func TestParseLogEmpty(t *testing.T) {
	assert.Empty(t, parseLog("", "/repos/empty"))
}

func TestParseLogMessageWithPipes(t *testing.T) {
	// Pipes in the subject line stay part of the message.
	out := "abc|Jo|jo@x.com|1709550000|fix: handle a|b|c case\n"
	commits := parseLog(out, "/r")
	require.Len(t, commits, 1)
	assert.Equal(t, "fix: handle a|b|c case", commits[0].Message)
}

func TestRepoNameFromURL(t *testing.T) {
	assert.Equal(t, "timespan", repoNameFromURL("git@github.com:wenzel/timespan.git"))
	assert.Equal(t, "timespan", repoNameFromURL("https://github.com/wenzel/timespan.git"))
	assert.Equal(t, "timespan", repoNameFromURL("https://github.com/wenzel/timespan"))
	assert.Equal(t, "", repoNameFromURL(""))
}
