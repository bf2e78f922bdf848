package review

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// calculateConfigHash fingerprints the settings that shaped a run so stored
// results can be traced back to the configuration that produced them. Eight
// hash bytes are plenty for telling configurations apart.
func calculateConfigHash(opts Options, baseRef, targetRef string) string {
	settings := fmt.Sprintf("%s|%s|%s|%d|%d|%d",
		baseRef, targetRef, strings.Join(opts.Exclude, ","),
		opts.MaxFilesPerReview, opts.ChunkTokenBudget, opts.Workers)

	digest := sha256.Sum256([]byte(settings))
	return hex.EncodeToString(digest[:8])
}

// The ID helpers below mirror internal/store/util.go, which documents the
// scheme. The store adapter implements the Store port this package defines,
// so importing it here would invert the dependency;
// TestIDGenerationMatchesStorePackage keeps the two implementations in sync
// instead.

func generateRunID(timestamp time.Time, baseRef, targetRef string) string {
	seed := fmt.Sprintf("%s|%s|%d", baseRef, targetRef, timestamp.UnixNano())
	digest := sha256.Sum256([]byte(seed))

	return "run-" + timestamp.UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(digest[:3])
}

func generateReviewID(runID, provider string) string {
	return "review-" + runID + "-" + provider
}

func generateFindingID(reviewID string, index int) string {
	return fmt.Sprintf("finding-%s-%04d", reviewID, index)
}

func generateFindingHash(file string, lineStart, lineEnd int, description string) string {
	desc := strings.Join(strings.Fields(strings.ToLower(description)), " ")
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%d-%d:%s", file, lineStart, lineEnd, desc)))

	return hex.EncodeToString(digest[:])
}

// SaveReviewToStore persists a review and its findings to the history store.
// Exported for testing.
func (o *Orchestrator) SaveReviewToStore(ctx context.Context, runID string, review domain.Review) error {
	if o.deps.Store == nil {
		return nil
	}

	reviewID := generateReviewID(runID, review.ProviderName)
	rec := StoreReview{
		ReviewID:  reviewID,
		RunID:     runID,
		Provider:  review.ProviderName,
		Model:     review.ModelName,
		Summary:   review.Summary,
		CreatedAt: time.Now(),
	}
	if err := o.deps.Store.SaveReview(ctx, rec); err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}

	if len(review.Findings) == 0 {
		return nil
	}
	if err := o.deps.Store.SaveFindings(ctx, findingRecords(reviewID, review.Findings)); err != nil {
		return fmt.Errorf("failed to save findings: %w", err)
	}
	return nil
}

// findingRecords converts domain findings into store records, giving each a
// positional ID and a content hash.
func findingRecords(reviewID string, findings []domain.Finding) []StoreFinding {
	records := make([]StoreFinding, len(findings))
	for i, f := range findings {
		records[i] = StoreFinding{
			FindingID:   generateFindingID(reviewID, i),
			ReviewID:    reviewID,
			FindingHash: generateFindingHash(f.File, f.LineStart, f.LineEnd, f.Description),
			File:        f.File,
			LineStart:   f.LineStart,
			LineEnd:     f.LineEnd,
			Category:    f.Category,
			Severity:    f.Severity,
			Description: f.Description,
			Suggestion:  f.Suggestion,
			Evidence:    f.Evidence,
		}
	}
	return records
}
