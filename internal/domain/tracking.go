package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// FindingFingerprint uniquely identifies a finding across reviews.
// It's stable across line number changes if the code intent remains the same.
type FindingFingerprint string

// NewFindingFingerprint creates a stable identifier for a finding.
// Uses file path + category + severity + normalized description prefix.
// Line numbers are intentionally excluded so the fingerprint remains stable
// when code shifts due to unrelated changes.
func NewFindingFingerprint(file, category, severity, description string) FindingFingerprint {
	// Use first 100 chars of description to allow minor wording changes
	descPrefix := description
	if len(descPrefix) > 100 {
		descPrefix = descPrefix[:100]
	}

	payload := fmt.Sprintf("%s|%s|%s|%s", file, category, severity, descPrefix)
	sum := sha256.Sum256([]byte(payload))
	return FindingFingerprint(hex.EncodeToString(sum[:16])) // 32 hex chars
}

// FingerprintFromFinding creates a fingerprint from an existing Finding.
func FingerprintFromFinding(f Finding) FindingFingerprint {
	return NewFindingFingerprint(f.File, f.Category, f.Severity, f.Description)
}

// Fingerprint returns the stable cross-review identifier for this finding.
func (f Finding) Fingerprint() FindingFingerprint {
	return FingerprintFromFinding(f)
}

// ReviewState is the per-PR state carried between runs in a hidden
// pull request comment. It lets synchronize events review only the
// commits pushed since the last run and suppresses repeat findings.
type ReviewState struct {
	Repository      string    `json:"repository"`
	PRNumber        int       `json:"prNumber"`
	LastReviewedSHA string    `json:"lastReviewedSHA"`
	Fingerprints    []string  `json:"fingerprints"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewReviewState constructs the state recorded after a successful review.
func NewReviewState(pr PullRequest, fingerprints []FindingFingerprint, at time.Time) ReviewState {
	fps := make([]string, 0, len(fingerprints))
	for _, fp := range fingerprints {
		fps = append(fps, string(fp))
	}
	return ReviewState{
		Repository:      pr.FullName(),
		PRNumber:        pr.Number,
		LastReviewedSHA: pr.HeadSHA,
		Fingerprints:    fps,
		UpdatedAt:       at,
	}
}

// KnownFingerprints returns the recorded fingerprints as a lookup set.
func (s ReviewState) KnownFingerprints() map[FindingFingerprint]bool {
	known := make(map[FindingFingerprint]bool, len(s.Fingerprints))
	for _, fp := range s.Fingerprints {
		known[FindingFingerprint(fp)] = true
	}
	return known
}

// MergeFingerprints returns the union of recorded and newly posted
// fingerprints, preserving first-seen order.
func (s ReviewState) MergeFingerprints(posted []FindingFingerprint) []string {
	seen := make(map[string]bool, len(s.Fingerprints)+len(posted))
	merged := make([]string, 0, len(s.Fingerprints)+len(posted))
	for _, fp := range s.Fingerprints {
		if !seen[fp] {
			seen[fp] = true
			merged = append(merged, fp)
		}
	}
	for _, fp := range posted {
		if !seen[string(fp)] {
			seen[string(fp)] = true
			merged = append(merged, string(fp))
		}
	}
	return merged
}
