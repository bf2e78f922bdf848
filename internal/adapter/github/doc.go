// Package github adapts the review pipeline to the GitHub REST API.
//
// It wraps the go-github SDK behind a small client surface (diffs, pull
// request metadata, reviews, issue comments) and keeps the GitHub-specific
// mechanics out of the domain layer:
//
//   - Client: authenticated API access with retry and typed error mapping
//   - PositionedFinding: wraps domain.Finding with a unified diff position
//   - MapFindings: resolves findings to diff positions for inline comments
//   - DetermineReviewEventWithActions: picks APPROVE/COMMENT/REQUEST_CHANGES
//     from finding severities and configured actions
//
// Findings whose lines fall outside the submitted diff cannot carry inline
// comments; the summary builders fold them into the review body instead.
package github
