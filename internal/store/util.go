package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// GenerateRunID creates a time-ordered run ID of the form
// run-20251021T143052Z-a3f9c2. The UTC timestamp prefix keeps IDs sortable;
// the short hash over the refs and nanoseconds keeps them unique.
func GenerateRunID(timestamp time.Time, baseRef, targetRef string) string {
	seed := fmt.Sprintf("%s|%s|%d", baseRef, targetRef, timestamp.UnixNano())
	digest := sha256.Sum256([]byte(seed))

	return "run-" + timestamp.UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(digest[:3])
}

// GenerateReviewID creates the ID for a provider's review within a run,
// of the form review-<runID>-<provider>.
func GenerateReviewID(runID, provider string) string {
	return "review-" + runID + "-" + provider
}

// GenerateFindingID creates the ID for a finding within a review, of the
// form finding-<reviewID>-<index>. The index is zero-padded to four digits
// so IDs sort in finding order.
func GenerateFindingID(reviewID string, index int) string {
	return fmt.Sprintf("finding-%s-%04d", reviewID, index)
}

// GenerateFindingHash creates a deterministic content hash for a finding.
// Findings with the same hash are considered duplicates. The description is
// lowercased and whitespace-collapsed first so cosmetic rewording still
// matches.
func GenerateFindingHash(file string, lineStart, lineEnd int, description string) string {
	desc := strings.Join(strings.Fields(strings.ToLower(description)), " ")
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%d-%d:%s", file, lineStart, lineEnd, desc)))

	return hex.EncodeToString(digest[:])
}

// CalculateConfigHash hashes a JSON-serializable configuration so each run
// records which settings produced it. Go's JSON marshaling sorts map keys,
// which keeps the hash deterministic.
func CalculateConfigHash(config any) (string, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:]), nil
}
