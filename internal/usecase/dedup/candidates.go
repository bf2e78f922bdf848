package dedup

import (
	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// FindCandidates pairs new findings with existing findings that could be
// the same issue: same file, line ranges overlapping or within
// lineThreshold lines of each other. Pairing stops once maxCandidates
// pairs exist; new findings that only matched past that point are
// returned as overflow so the caller can keep them rather than drop them
// unverified.
func FindCandidates(
	newFindings []domain.Finding,
	existing []ExistingFinding,
	lineThreshold int,
	maxCandidates int,
) (candidates []CandidatePair, overflow []domain.Finding) {
	if len(existing) == 0 {
		return nil, nil
	}

	existingByFile := make(map[string][]ExistingFinding, len(existing))
	for _, ef := range existing {
		existingByFile[ef.File] = append(existingByFile[ef.File], ef)
	}

	paired := make(map[int]bool, len(newFindings))
	for i, nf := range newFindings {
		for _, ef := range existingByFile[nf.File] {
			if !linesOverlap(nf.LineStart, nf.LineEnd, ef.LineStart, ef.LineEnd, lineThreshold) {
				continue
			}

			if len(candidates) >= maxCandidates {
				if !paired[i] {
					overflow = append(overflow, nf)
					paired[i] = true
				}
				continue
			}

			candidates = append(candidates, CandidatePair{Existing: ef, New: nf})
			paired[i] = true
		}
	}

	return candidates, overflow
}

// linesOverlap reports whether the ranges [a1, a2] and [b1, b2] overlap
// directly or sit within threshold lines of each other.
func linesOverlap(a1, a2, b1, b2, threshold int) bool {
	if a1 <= b2 && b1 <= a2 {
		return true
	}

	var gap int
	if a2 < b1 {
		gap = b1 - a2
	} else {
		gap = a1 - b2
	}
	return gap <= threshold
}
