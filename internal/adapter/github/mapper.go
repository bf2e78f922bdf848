package github

import (
	"github.com/reviewbotdev/reviewbot/internal/diff"
	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// MapFindings resolves each finding to its position in the unified diff.
// Findings on lines outside the diff, in binary files, or in files the
// diff does not touch get a nil position and are surfaced in the review
// body instead of as inline comments.
//
// Renamed files are indexed under both paths since models sometimes report
// findings against the old name.
func MapFindings(findings []domain.Finding, d domain.Diff) []PositionedFinding {
	if len(findings) == 0 {
		return []PositionedFinding{}
	}

	parsedDiffs := make(map[string]diff.ParsedDiff, len(d.Files))
	for _, fileDiff := range d.Files {
		if fileDiff.IsBinary {
			continue
		}

		parsed, err := diff.Parse(fileDiff.Patch)
		if err != nil {
			// Unparseable patches cannot yield positions.
			continue
		}

		parsedDiffs[fileDiff.Path] = parsed
		if fileDiff.OldPath != "" && fileDiff.OldPath != fileDiff.Path {
			parsedDiffs[fileDiff.OldPath] = parsed
		}
	}

	result := make([]PositionedFinding, len(findings))
	for i, finding := range findings {
		pf := PositionedFinding{Finding: finding}

		if parsed, ok := parsedDiffs[finding.File]; ok {
			pf.DiffPosition = parsed.FindPosition(finding.LineStart)
		}

		result[i] = pf
	}

	return result
}
