package github_test

import (
	"strings"
	"testing"

	"github.com/reviewbotdev/reviewbot/internal/adapter/github"
	"github.com/reviewbotdev/reviewbot/internal/diff"
	"github.com/reviewbotdev/reviewbot/internal/domain"
)

func TestBuildReviewComments(t *testing.T) {
	findings := []github.PositionedFinding{
		{
			Finding:      domain.Finding{File: "internal/api/server.go", LineStart: 48, LineEnd: 48, Severity: "high", Description: "Response body never closed"},
			DiffPosition: diff.IntPtr(6),
		},
		{
			Finding:      domain.Finding{File: "internal/api/router.go", LineStart: 12, LineEnd: 12, Severity: "medium", Description: "Stale route comment"},
			DiffPosition: nil, // outside the diff, no inline comment possible
		},
		{
			Finding:      domain.Finding{File: "internal/api/server.go", LineStart: 101, LineEnd: 104, Severity: "low", Description: "Shadowed err"},
			DiffPosition: diff.IntPtr(21),
		},
	}

	comments := github.BuildReviewComments(findings)

	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if comments[0].GetPath() != "internal/api/server.go" || comments[0].GetPosition() != 6 {
		t.Errorf("first comment at %s:%d, want internal/api/server.go:6", comments[0].GetPath(), comments[0].GetPosition())
	}
	if comments[1].GetPosition() != 21 {
		t.Errorf("second comment position = %d, want 21", comments[1].GetPosition())
	}
	if body := comments[0].GetBody(); !strings.Contains(body, "Response body never closed") {
		t.Errorf("comment body missing description: %q", body)
	}
}

func TestBuildReviewComments_NothingInDiff(t *testing.T) {
	if got := github.BuildReviewComments(nil); len(got) != 0 {
		t.Errorf("nil findings produced %d comments", len(got))
	}

	findings := []github.PositionedFinding{
		{Finding: domain.Finding{File: "a.go", LineStart: 1, Severity: "critical"}},
		{Finding: domain.Finding{File: "b.go", LineStart: 2, Severity: "high"}},
	}
	if got := github.BuildReviewComments(findings); len(got) != 0 {
		t.Errorf("out-of-diff findings produced %d comments", len(got))
	}
}

func TestFormatFindingComment(t *testing.T) {
	comment := github.FormatFindingComment(domain.Finding{
		File:        "internal/store/query.go",
		LineStart:   10,
		LineEnd:     15,
		Severity:    "high",
		Category:    "security",
		Description: "SQL injection in query builder",
		Suggestion:  "Use parameterized queries",
	})

	want := "**Severity:** high | **Category:** security\n\n" +
		"📍 Lines 10-15\n\n" +
		"SQL injection in query builder\n\n" +
		"**Suggestion:** Use parameterized queries\n"
	if comment != want {
		t.Errorf("comment = %q, want %q", comment, want)
	}
}

func TestFormatFindingComment_OptionalParts(t *testing.T) {
	comment := github.FormatFindingComment(domain.Finding{
		File:        "main.go",
		LineStart:   42,
		LineEnd:     42,
		Severity:    "low",
		Description: "Minor style issue",
	})

	if strings.Contains(comment, "**Category:**") {
		t.Errorf("empty category rendered: %q", comment)
	}
	if strings.Contains(comment, "**Suggestion:**") {
		t.Errorf("empty suggestion rendered: %q", comment)
	}
}

func TestFormatFindingComment_LineLabel(t *testing.T) {
	tests := []struct {
		name               string
		lineStart, lineEnd int
		want               string
	}{
		{"single line", 42, 42, "📍 Line 42"},
		{"missing end line", 42, 0, "📍 Line 42"},
		{"line range", 10, 15, "📍 Lines 10-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment := github.FormatFindingComment(domain.Finding{
				File:        "main.go",
				LineStart:   tt.lineStart,
				LineEnd:     tt.lineEnd,
				Severity:    "medium",
				Description: "example",
			})
			if !strings.Contains(comment, tt.want+"\n") {
				t.Errorf("comment %q missing %q", comment, tt.want)
			}
		})
	}
}

func TestCountInDiffFindings(t *testing.T) {
	findings := []github.PositionedFinding{
		{Finding: domain.Finding{File: "a.go"}, DiffPosition: diff.IntPtr(1)},
		{Finding: domain.Finding{File: "b.go"}},
		{Finding: domain.Finding{File: "c.go"}, DiffPosition: diff.IntPtr(3)},
	}

	if got := github.CountInDiffFindings(findings); got != 2 {
		t.Errorf("CountInDiffFindings() = %d, want 2", got)
	}
	if got := github.CountInDiffFindings(nil); got != 0 {
		t.Errorf("CountInDiffFindings(nil) = %d, want 0", got)
	}
}
