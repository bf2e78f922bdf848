package review

import (
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// MergeChunkReviews combines per-chunk reviews into one. Summaries join in
// chunk order, findings concatenate, and costs sum, so the merged review is
// deterministic for a fixed chunking.
func MergeChunkReviews(reviews []domain.Review) domain.Review {
	if len(reviews) == 0 {
		return domain.Review{}
	}
	if len(reviews) == 1 {
		return reviews[0]
	}

	var merged domain.Review
	var summaries []string
	for _, r := range reviews {
		if merged.ProviderName == "" {
			merged.ProviderName = r.ProviderName
		}
		if merged.ModelName == "" {
			merged.ModelName = r.ModelName
		}
		if s := strings.TrimSpace(r.Summary); s != "" {
			summaries = append(summaries, s)
		}
		merged.Findings = append(merged.Findings, r.Findings...)
		merged.Cost += r.Cost
	}
	merged.Summary = strings.Join(summaries, "\n\n")
	return merged
}
