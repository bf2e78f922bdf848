// Package dedup drops review findings that repeat feedback already posted
// on a pull request. It runs two stages:
//   - Fingerprint matching: exact identity against fingerprints recorded in
//     the tracking state, plus repeats within the current run.
//   - Text similarity: findings near a previously posted comment in the same
//     file are compared by word-level diff ratio, so a reworded report of a
//     known issue is still recognized.
package dedup

import (
	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// Match reasons recorded on DuplicateMatch.
const (
	ReasonFingerprint = "fingerprint"
	ReasonRepeat      = "repeat"
	ReasonSimilarity  = "similarity"
)

// ExistingFinding is feedback already posted on the pull request, typically
// reconstructed from inline review comments. Fingerprint may be empty when
// the comment predates fingerprint tracking.
type ExistingFinding struct {
	Fingerprint domain.FindingFingerprint
	File        string
	LineStart   int
	LineEnd     int
	Description string
}

// CandidatePair is a new finding paired with a nearby existing finding that
// could be the same issue.
type CandidatePair struct {
	Existing ExistingFinding
	New      domain.Finding
}

// DuplicateMatch records a dropped finding and what it duplicated.
type DuplicateMatch struct {
	Finding             domain.Finding
	ExistingFingerprint domain.FindingFingerprint

	// Similarity is the diff ratio for similarity matches and 1 for
	// fingerprint matches.
	Similarity float64
	Reason     string
}

// Result partitions a run's findings into those worth posting and those
// that duplicate earlier feedback.
type Result struct {
	Unique     []domain.Finding
	Duplicates []DuplicateMatch
}

// Config tunes the deduplication stages.
type Config struct {
	// SimilarityThreshold is the minimum diff ratio, in [0, 1], for two
	// descriptions to count as the same issue. Zero disables the
	// similarity stage.
	SimilarityThreshold float64

	// LineThreshold is the maximum line distance for pairing a new finding
	// with an existing one.
	LineThreshold int

	// MaxCandidates bounds the number of pairs compared per run.
	MaxCandidates int
}

// DefaultConfig returns the deduplication settings used when the config
// file does not override them.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.85,
		LineThreshold:       10,
		MaxCandidates:       200,
	}
}

// Deduplicate filters findings against the fingerprints recorded in the
// tracking state and the feedback already visible on the pull request.
// Order is preserved, and anything the similarity stage cannot verify is
// kept rather than dropped.
func Deduplicate(findings []domain.Finding, known map[domain.FindingFingerprint]bool, existing []ExistingFinding, cfg Config) Result {
	var result Result

	seen := make(map[domain.FindingFingerprint]bool, len(findings))
	survivors := make([]domain.Finding, 0, len(findings))
	for _, finding := range findings {
		fp := finding.Fingerprint()
		switch {
		case known[fp]:
			result.Duplicates = append(result.Duplicates, DuplicateMatch{
				Finding:             finding,
				ExistingFingerprint: fp,
				Similarity:          1,
				Reason:              ReasonFingerprint,
			})
		case seen[fp]:
			result.Duplicates = append(result.Duplicates, DuplicateMatch{
				Finding:             finding,
				ExistingFingerprint: fp,
				Similarity:          1,
				Reason:              ReasonRepeat,
			})
		default:
			seen[fp] = true
			survivors = append(survivors, finding)
		}
	}

	// A zero threshold would mark every paired finding as a duplicate, so
	// it disables the similarity stage instead.
	if cfg.SimilarityThreshold <= 0 || len(survivors) == 0 || len(existing) == 0 {
		result.Unique = append(result.Unique, survivors...)
		return result
	}

	// Overflow beyond MaxCandidates is never compared, so it falls through
	// to Unique below.
	candidates, _ := FindCandidates(survivors, existing, cfg.LineThreshold, cfg.MaxCandidates)

	type match struct {
		existing ExistingFinding
		score    float64
	}
	best := make(map[domain.FindingFingerprint]match, len(candidates))
	for _, pair := range candidates {
		fp := pair.New.Fingerprint()
		score := Similarity(pair.New.Description, pair.Existing.Description)
		if score > best[fp].score {
			best[fp] = match{existing: pair.Existing, score: score}
		}
	}

	for _, finding := range survivors {
		m, ok := best[finding.Fingerprint()]
		if ok && m.score >= cfg.SimilarityThreshold {
			result.Duplicates = append(result.Duplicates, DuplicateMatch{
				Finding:             finding,
				ExistingFingerprint: m.existing.Fingerprint,
				Similarity:          m.score,
				Reason:              ReasonSimilarity,
			})
			continue
		}
		result.Unique = append(result.Unique, finding)
	}

	return result
}
