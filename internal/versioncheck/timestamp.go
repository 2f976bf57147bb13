package versioncheck

import (
	"fmt"
	"regexp"
	"time"
)

// Accepted timestamp shapes: git's committer date ("%ci") and the UTC form
// the GitHub API returns.
var (
	gitDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} [+-]\d{4}$`)
	githubDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
)

const (
	gitDateLayout    = "2006-01-02 15:04:05 -0700"
	githubDateLayout = "2006-01-02T15:04:05Z"
	displayLayout    = "2006-01-02 15:04:05+00:00"
)

// FixTimestamp normalises a git or GitHub timestamp to UTC in the form
// "2006-01-02 15:04:05+00:00". Any other shape is an error.
func FixTimestamp(ts string) (string, error) {
	var (
		t   time.Time
		err error
	)
	switch {
	case gitDatePattern.MatchString(ts):
		t, err = time.Parse(gitDateLayout, ts)
	case githubDatePattern.MatchString(ts):
		t, err = time.Parse(githubDateLayout, ts)
	default:
		return "", fmt.Errorf("unrecognised timestamp %q", ts)
	}
	if err != nil {
		return "", fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	return t.UTC().Format(displayLayout), nil
}

// Pluralize appends "s" to word unless n is 1 or -1.
func Pluralize(word string, n int) string {
	if n != 1 && n != -1 {
		return word + "s"
	}
	return word
}
