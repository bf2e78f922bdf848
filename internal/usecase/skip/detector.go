// Package skip detects requests to bypass review. A [skip code-review] or
// [skip-code-review] marker (case-insensitive) in a commit message, the PR
// title, or the PR description turns the run into a no-op.
package skip

import (
	"regexp"
	"strings"
)

var triggerPattern = regexp.MustCompile(`(?i)\[skip[ -]code-review\]`)

// ContainsSkipTrigger reports whether text carries a skip marker.
func ContainsSkipTrigger(text string) bool {
	return triggerPattern.MatchString(text)
}

// CheckRequest is the material searched for skip markers. All fields are
// optional; empty sources never match.
type CheckRequest struct {
	CommitMessages []string
	PRTitle        string
	PRDescription  string
}

// CheckResult reports whether to skip and which source carried the marker.
type CheckResult struct {
	ShouldSkip bool
	Reason     string
}

// Check searches commit messages, then the PR title, then the PR
// description, and reports the first marker found.
func Check(req CheckRequest) CheckResult {
	for _, msg := range req.CommitMessages {
		if ContainsSkipTrigger(msg) {
			return CheckResult{ShouldSkip: true, Reason: "commit message"}
		}
	}

	if ContainsSkipTrigger(strings.TrimSpace(req.PRTitle)) {
		return CheckResult{ShouldSkip: true, Reason: "PR title"}
	}

	if ContainsSkipTrigger(req.PRDescription) {
		return CheckResult{ShouldSkip: true, Reason: "PR description"}
	}

	return CheckResult{}
}
