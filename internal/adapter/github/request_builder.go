package github

import (
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// BuildReviewComments converts positioned findings into draft review
// comments for the review API. Findings without an in-diff position are
// skipped; callers surface those in the review body.
func BuildReviewComments(findings []PositionedFinding) []*gogithub.DraftReviewComment {
	var comments []*gogithub.DraftReviewComment

	for _, pf := range findings {
		if !pf.InDiff() {
			continue
		}

		comments = append(comments, &gogithub.DraftReviewComment{
			Path:     gogithub.String(pf.Finding.File),
			Position: gogithub.Int(*pf.DiffPosition),
			Body:     gogithub.String(FormatFindingComment(pf.Finding)),
		})
	}

	return comments
}

// FormatFindingComment renders a finding as a GitHub-flavored Markdown
// comment body.
func FormatFindingComment(f domain.Finding) string {
	lineRef := fmt.Sprintf("Line %d", f.LineStart)
	if f.LineEnd != 0 && f.LineEnd != f.LineStart {
		lineRef = fmt.Sprintf("Lines %d-%d", f.LineStart, f.LineEnd)
	}

	var sb strings.Builder
	sb.WriteString("**Severity:** ")
	sb.WriteString(f.Severity)
	if f.Category != "" {
		sb.WriteString(" | **Category:** ")
		sb.WriteString(f.Category)
	}
	sb.WriteString("\n\n📍 ")
	sb.WriteString(lineRef)
	sb.WriteString("\n\n")
	sb.WriteString(f.Description)
	sb.WriteString("\n")

	if f.Suggestion != "" {
		sb.WriteString("\n**Suggestion:** ")
		sb.WriteString(f.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// CountInDiffFindings returns how many findings carry a diff position.
func CountInDiffFindings(findings []PositionedFinding) int {
	count := 0
	for _, pf := range findings {
		if pf.InDiff() {
			count++
		}
	}
	return count
}

// filterInDiff returns only the findings that carry a diff position.
func filterInDiff(findings []PositionedFinding) []PositionedFinding {
	var result []PositionedFinding
	for _, pf := range findings {
		if pf.InDiff() {
			result = append(result, pf)
		}
	}
	return result
}
