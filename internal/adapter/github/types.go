package github

import "github.com/reviewbotdev/reviewbot/internal/domain"

// PositionedFinding pairs a domain.Finding with its position in the
// submitted unified diff. The position is what the review API uses to
// attach inline comments.
type PositionedFinding struct {
	Finding domain.Finding

	// DiffPosition counts lines from the first @@ hunk header of the
	// file's patch, 1-indexed. nil means the finding's line is not part
	// of the diff and can only appear in the review body.
	DiffPosition *int
}

// InDiff reports whether the finding can receive an inline comment.
func (pf PositionedFinding) InDiff() bool {
	return pf.DiffPosition != nil
}
