package store_test

import (
	"context"
	"testing"
	"time"

	storeadapter "github.com/reviewbotdev/reviewbot/internal/adapter/store"
	"github.com/reviewbotdev/reviewbot/internal/store"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore records what the bridge forwards to it.
type mockStore struct {
	runs     []store.Run
	costs    map[string]float64
	reviews  []store.ReviewRecord
	findings []store.FindingRecord
	closed   bool
}

func (m *mockStore) CreateRun(ctx context.Context, run store.Run) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockStore) UpdateRunCost(ctx context.Context, runID string, totalCost float64) error {
	if m.costs == nil {
		m.costs = make(map[string]float64)
	}
	m.costs[runID] = totalCost
	return nil
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (store.Run, error) {
	return store.Run{}, store.ErrNotFound
}

func (m *mockStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	return nil, nil
}

func (m *mockStore) SaveReview(ctx context.Context, r store.ReviewRecord) error {
	m.reviews = append(m.reviews, r)
	return nil
}

func (m *mockStore) GetReviewsByRun(ctx context.Context, runID string) ([]store.ReviewRecord, error) {
	return nil, nil
}

func (m *mockStore) SaveFindings(ctx context.Context, findings []store.FindingRecord) error {
	m.findings = append(m.findings, findings...)
	return nil
}

func (m *mockStore) GetFindingsByReview(ctx context.Context, reviewID string) ([]store.FindingRecord, error) {
	return nil, nil
}

func (m *mockStore) Close() error {
	m.closed = true
	return nil
}

func TestBridge_CreateRun(t *testing.T) {
	mock := &mockStore{}
	bridge := storeadapter.NewBridge(mock)

	now := time.Now()
	err := bridge.CreateRun(context.Background(), review.StoreRun{
		RunID:      "run-123",
		Timestamp:  now,
		Scope:      "main..feature",
		ConfigHash: "abc123",
		TotalCost:  0.5,
		BaseRef:    "main",
		TargetRef:  "feature",
		Repository: "acme/widgets",
	})
	require.NoError(t, err)

	require.Len(t, mock.runs, 1)
	saved := mock.runs[0]
	assert.Equal(t, "run-123", saved.RunID)
	assert.True(t, now.Equal(saved.Timestamp))
	assert.Equal(t, "main..feature", saved.Scope)
	assert.Equal(t, "abc123", saved.ConfigHash)
	assert.Equal(t, 0.5, saved.TotalCost)
	assert.Equal(t, "main", saved.BaseRef)
	assert.Equal(t, "feature", saved.TargetRef)
	assert.Equal(t, "acme/widgets", saved.Repository)
}

func TestBridge_UpdateRunCost(t *testing.T) {
	mock := &mockStore{}
	bridge := storeadapter.NewBridge(mock)

	err := bridge.UpdateRunCost(context.Background(), "run-123", 1.23)
	require.NoError(t, err)

	assert.Equal(t, 1.23, mock.costs["run-123"])
}

func TestBridge_SaveReview(t *testing.T) {
	mock := &mockStore{}
	bridge := storeadapter.NewBridge(mock)

	now := time.Now()
	err := bridge.SaveReview(context.Background(), review.StoreReview{
		ReviewID:  "review-123",
		RunID:     "run-123",
		Provider:  "openai",
		Model:     "gpt-4",
		Summary:   "Test summary",
		CreatedAt: now,
	})
	require.NoError(t, err)

	require.Len(t, mock.reviews, 1)
	saved := mock.reviews[0]
	assert.Equal(t, "review-123", saved.ReviewID)
	assert.Equal(t, "run-123", saved.RunID)
	assert.Equal(t, "openai", saved.Provider)
	assert.Equal(t, "gpt-4", saved.Model)
	assert.Equal(t, "Test summary", saved.Summary)
	assert.True(t, now.Equal(saved.CreatedAt))
}

func TestBridge_SaveFindings(t *testing.T) {
	mock := &mockStore{}
	bridge := storeadapter.NewBridge(mock)

	findings := []review.StoreFinding{
		{
			FindingID:   "finding-1",
			ReviewID:    "review-123",
			FindingHash: "hash1",
			File:        "main.go",
			LineStart:   10,
			LineEnd:     15,
			Category:    "security",
			Severity:    "high",
			Description: "SQL injection",
			Suggestion:  "Use parameterized queries",
			Evidence:    true,
		},
		{
			FindingID: "finding-2",
			ReviewID:  "review-123",
			File:      "utils.go",
			Severity:  "medium",
		},
	}

	err := bridge.SaveFindings(context.Background(), findings)
	require.NoError(t, err)

	require.Len(t, mock.findings, 2)

	first := mock.findings[0]
	assert.Equal(t, "finding-1", first.FindingID)
	assert.Equal(t, "review-123", first.ReviewID)
	assert.Equal(t, "hash1", first.FindingHash)
	assert.Equal(t, "main.go", first.File)
	assert.Equal(t, 10, first.LineStart)
	assert.Equal(t, 15, first.LineEnd)
	assert.Equal(t, "security", first.Category)
	assert.Equal(t, "high", first.Severity)
	assert.Equal(t, "SQL injection", first.Description)
	assert.Equal(t, "Use parameterized queries", first.Suggestion)
	assert.True(t, first.Evidence)

	assert.Equal(t, "finding-2", mock.findings[1].FindingID)
	assert.False(t, mock.findings[1].Evidence)
}

func TestBridge_SaveFindings_Empty(t *testing.T) {
	mock := &mockStore{}
	bridge := storeadapter.NewBridge(mock)

	require.NoError(t, bridge.SaveFindings(context.Background(), []review.StoreFinding{}))
	assert.Empty(t, mock.findings)
}

func TestBridge_Close(t *testing.T) {
	mock := &mockStore{}
	bridge := storeadapter.NewBridge(mock)

	require.NoError(t, bridge.Close())
	assert.True(t, mock.closed)
}
