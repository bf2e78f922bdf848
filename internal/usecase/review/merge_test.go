package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

func TestMergeChunkReviews_Empty(t *testing.T) {
	merged := review.MergeChunkReviews(nil)
	assert.Equal(t, domain.Review{}, merged)
}

func TestMergeChunkReviews_SinglePassthrough(t *testing.T) {
	in := domain.Review{
		ProviderName: "openai",
		ModelName:    "gpt-4",
		Summary:      "All good.",
		Cost:         0.01,
	}
	assert.Equal(t, in, review.MergeChunkReviews([]domain.Review{in}))
}

func TestMergeChunkReviews_JoinsInOrder(t *testing.T) {
	merged := review.MergeChunkReviews([]domain.Review{
		{ProviderName: "openai", ModelName: "gpt-4", Summary: "First chunk.", Cost: 0.01,
			Findings: []domain.Finding{{File: "a.go", Description: "issue a"}}},
		{ProviderName: "openai", ModelName: "gpt-4", Summary: "Second chunk.", Cost: 0.02,
			Findings: []domain.Finding{{File: "b.go", Description: "issue b"}}},
	})

	assert.Equal(t, "openai", merged.ProviderName)
	assert.Equal(t, "gpt-4", merged.ModelName)
	assert.Equal(t, "First chunk.\n\nSecond chunk.", merged.Summary)
	assert.Len(t, merged.Findings, 2)
	assert.Equal(t, "a.go", merged.Findings[0].File)
	assert.Equal(t, "b.go", merged.Findings[1].File)
	assert.InDelta(t, 0.03, merged.Cost, 1e-9)
}

func TestMergeChunkReviews_SkipsBlankSummaries(t *testing.T) {
	merged := review.MergeChunkReviews([]domain.Review{
		{Summary: "Substance."},
		{Summary: "   "},
		{Summary: ""},
	})
	assert.Equal(t, "Substance.", merged.Summary)
}

func TestMergeChunkReviews_FillsProviderFromLaterChunk(t *testing.T) {
	merged := review.MergeChunkReviews([]domain.Review{
		{Summary: "degraded chunk"},
		{ProviderName: "anthropic", ModelName: "claude-3-5-sonnet-20241022", Summary: "ok"},
	})
	assert.Equal(t, "anthropic", merged.ProviderName)
	assert.Equal(t, "claude-3-5-sonnet-20241022", merged.ModelName)
}
