package review_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/store"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

func storeTestOrchestrator(s review.Store) *review.Orchestrator {
	deps := testDeps(&mockProvider{}, &mockFetcher{}, &mockPoster{})
	deps.Store = s
	return review.NewOrchestrator(deps, review.Options{})
}

func TestOrchestrator_SaveReviewToStore(t *testing.T) {
	t.Run("saves review and findings", func(t *testing.T) {
		s := &mockStore{}
		orch := storeTestOrchestrator(s)

		domainReview := domain.Review{
			ProviderName: "openai",
			ModelName:    "gpt-4",
			Summary:      "Test summary",
			Findings: []domain.Finding{
				{
					File:        "main.go",
					LineStart:   10,
					LineEnd:     15,
					Category:    "security",
					Severity:    "high",
					Description: "SQL injection vulnerability",
					Suggestion:  "Use parameterized queries",
					Evidence:    true,
				},
			},
		}

		err := orch.SaveReviewToStore(context.Background(), "run-test-123", domainReview)
		require.NoError(t, err)

		require.Len(t, s.reviews, 1)
		assert.Equal(t, "review-run-test-123-openai", s.reviews[0].ReviewID)
		assert.Equal(t, "run-test-123", s.reviews[0].RunID)
		assert.Equal(t, "openai", s.reviews[0].Provider)
		assert.Equal(t, "gpt-4", s.reviews[0].Model)
		assert.Equal(t, "Test summary", s.reviews[0].Summary)

		require.Len(t, s.findings, 1)
		assert.Equal(t, "finding-review-run-test-123-openai-0000", s.findings[0].FindingID)
		assert.Equal(t, "review-run-test-123-openai", s.findings[0].ReviewID)
		assert.Equal(t, "main.go", s.findings[0].File)
		assert.Equal(t, 10, s.findings[0].LineStart)
		assert.Equal(t, 15, s.findings[0].LineEnd)
		assert.Equal(t, "security", s.findings[0].Category)
		assert.Equal(t, "high", s.findings[0].Severity)
		assert.NotEmpty(t, s.findings[0].FindingHash)
	})

	t.Run("empty findings list saves only the review", func(t *testing.T) {
		s := &mockStore{}
		orch := storeTestOrchestrator(s)

		err := orch.SaveReviewToStore(context.Background(), "run-test-123", domain.Review{
			ProviderName: "openai",
			Summary:      "No issues found",
		})
		require.NoError(t, err)
		require.Len(t, s.reviews, 1)
		assert.Empty(t, s.findings)
	})

	t.Run("returns error on save failure", func(t *testing.T) {
		s := &mockStore{saveErr: errors.New("database error")}
		orch := storeTestOrchestrator(s)

		err := orch.SaveReviewToStore(context.Background(), "run-test-123", domain.Review{ProviderName: "openai"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save review")
	})

	t.Run("nil store is a no-op", func(t *testing.T) {
		orch := storeTestOrchestrator(nil)
		err := orch.SaveReviewToStore(context.Background(), "run-test-123", domain.Review{ProviderName: "openai"})
		assert.NoError(t, err)
	})

	t.Run("finding hash is deterministic", func(t *testing.T) {
		s := &mockStore{}
		orch := storeTestOrchestrator(s)

		domainReview := domain.Review{
			ProviderName: "openai",
			Findings: []domain.Finding{
				{File: "main.go", LineStart: 10, LineEnd: 15, Description: "Test Finding"},
			},
		}

		require.NoError(t, orch.SaveReviewToStore(context.Background(), "run-test-123", domainReview))
		hash1 := s.findings[0].FindingHash

		s.findings = nil
		require.NoError(t, orch.SaveReviewToStore(context.Background(), "run-test-123", domainReview))
		assert.Equal(t, hash1, s.findings[0].FindingHash)
	})
}

// The use case duplicates the store package's ID generation because it
// defines the Store port the adapter implements. This test pins the two
// implementations together.
func TestIDGenerationMatchesStorePackage(t *testing.T) {
	s := &mockStore{}
	orch := storeTestOrchestrator(s)

	ts := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)
	runID := store.GenerateRunID(ts, "main", "feature/x")
	reviewID := store.GenerateReviewID(runID, "openai")

	domainReview := domain.Review{
		ProviderName: "openai",
		Findings: []domain.Finding{
			{File: "pkg/a.go", LineStart: 3, LineEnd: 9, Description: "  Mixed   Spacing  description "},
		},
	}
	require.NoError(t, orch.SaveReviewToStore(context.Background(), runID, domainReview))

	require.Len(t, s.reviews, 1)
	assert.Equal(t, reviewID, s.reviews[0].ReviewID)

	require.Len(t, s.findings, 1)
	assert.Equal(t, store.GenerateFindingID(reviewID, 0), s.findings[0].FindingID)
	assert.Equal(t,
		store.GenerateFindingHash("pkg/a.go", 3, 9, "  Mixed   Spacing  description "),
		s.findings[0].FindingHash)
}
