package static

import (
	"context"
	"fmt"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

const providerName = "static"

// Provider implements the usecase Provider port without any network I/O.
type Provider struct {
	model string
}

// NewProvider constructs a static Provider.
func NewProvider(model string) *Provider {
	return &Provider{
		model: model,
	}
}

// Review returns a canned review. The summary reflects the request so
// pipeline wiring problems (empty prompts, dropped seeds) stay visible,
// but the output for a given request never varies between runs.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (domain.Review, error) {
	finding := domain.NewFinding(domain.FindingInput{
		File:        "internal/adapter/llm/static/provider.go",
		LineStart:   1,
		LineEnd:     5,
		Severity:    "low",
		Category:    "style",
		Description: "Canned finding from the offline provider.",
		Suggestion:  "Configure a real provider to get actual review feedback.",
		Evidence:    true,
	})

	summary := fmt.Sprintf("Offline review of a %d character prompt (seed %d). No API call was made.",
		len(req.Prompt), req.Seed)

	return domain.Review{
		ProviderName: providerName,
		ModelName:    p.model,
		Summary:      summary,
		Findings:     []domain.Finding{finding},
	}, nil
}
