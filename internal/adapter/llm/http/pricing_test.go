package http_test

import (
	"testing"

	"github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/stretchr/testify/assert"
)

func TestDefaultPricing_KnownModels(t *testing.T) {
	pricing := http.NewDefaultPricing()

	tests := []struct {
		name      string
		provider  string
		model     string
		tokensIn  int
		tokensOut int
		wantCost  float64
	}{
		// gpt-4 at $30/$60 per 1M tokens.
		{"gpt-4 default action model", "openai", "gpt-4", 1000, 500, 0.060},
		// gpt-4o-mini at $0.15/$0.60.
		{"gpt-4o-mini cheap run", "openai", "gpt-4o-mini", 100_000, 10_000, 0.021},
		// gpt-4o at $2.50/$10.00.
		{"gpt-4o", "openai", "gpt-4o", 1_000_000, 0, 2.50},
		// Alias and dated name must price identically.
		{"gpt-5.2 alias", "openai", "gpt-5.2", 100_000, 10_000, 0.315},
		{"gpt-5.2 dated", "openai", "gpt-5.2-2025-12-11", 100_000, 10_000, 0.315},
		// o1 at $15/$60.
		{"o1 reasoning model", "openai", "o1", 10_000, 20_000, 1.35},
		// claude-3-5-sonnet at $3/$15.
		{"claude 3.5 sonnet", "anthropic", "claude-3-5-sonnet-20241022", 200_000, 20_000, 0.90},
		// claude-3-5-haiku at $0.80/$4.00.
		{"claude 3.5 haiku", "anthropic", "claude-3-5-haiku-20241022", 500_000, 50_000, 0.60},
		// claude-opus-4-5 at $5/$25.
		{"claude opus 4.5", "anthropic", "claude-opus-4-5-20251101", 100_000, 10_000, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.GetCost(tt.provider, tt.model, tt.tokensIn, tt.tokensOut)
			assert.InDelta(t, tt.wantCost, got, 1e-6)
		})
	}
}

func TestDefaultPricing_UnknownEntriesAreFree(t *testing.T) {
	pricing := http.NewDefaultPricing()

	tests := []struct {
		name     string
		provider string
		model    string
	}{
		{"unknown provider", "mistral", "mistral-large"},
		{"unknown openai model", "openai", "gpt-99-ultra"},
		{"static provider has no priced models", "static", "static-v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Missing table entries must not block a review with an error:
			// they just report zero cost.
			assert.Zero(t, pricing.GetCost(tt.provider, tt.model, 50_000, 5_000))
		})
	}
}

func TestDefaultPricing_TokenEdgeCases(t *testing.T) {
	pricing := http.NewDefaultPricing()

	assert.Zero(t, pricing.GetCost("openai", "gpt-4", 0, 0))

	// Input-only and output-only calls price one side.
	assert.InDelta(t, 0.030, pricing.GetCost("openai", "gpt-4", 1000, 0), 1e-6)
	assert.InDelta(t, 0.030, pricing.GetCost("openai", "gpt-4", 0, 500), 1e-6)

	// A month of heavy usage stays in float range.
	cost := pricing.GetCost("anthropic", "claude-3-5-sonnet-20241022", 500_000_000, 50_000_000)
	assert.InDelta(t, 2250.0, cost, 1e-3)
}
