package static

import (
	"context"
	"testing"

	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Review(t *testing.T) {
	provider := NewProvider("static-v1")

	got, err := provider.Review(context.Background(), review.ProviderRequest{
		Prompt:  "Review the following diff.",
		Seed:    12345,
		MaxSize: 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, providerName, got.ProviderName)
	assert.Equal(t, "static-v1", got.ModelName)
	assert.Equal(t, "Offline review of a 26 character prompt (seed 12345). No API call was made.", got.Summary)
	assert.Zero(t, got.Cost)

	require.Len(t, got.Findings, 1)
	finding := got.Findings[0]
	assert.NotEmpty(t, finding.ID)
	assert.Equal(t, "internal/adapter/llm/static/provider.go", finding.File)
	assert.Equal(t, "low", finding.Severity)
	assert.Equal(t, "style", finding.Category)
	assert.True(t, finding.Evidence)
}

func TestProvider_Review_IsDeterministic(t *testing.T) {
	provider := NewProvider("static-v1")
	req := review.ProviderRequest{Prompt: "anything", Seed: 7, MaxSize: 64}

	first, err := provider.Review(context.Background(), req)
	require.NoError(t, err)
	second, err := provider.Review(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second, "static reviews must be byte-stable across runs")
}
