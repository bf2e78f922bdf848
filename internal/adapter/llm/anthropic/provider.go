package anthropic

import (
	"context"
	"errors"

	"github.com/reviewbotdev/reviewbot/internal/adapter/llm"
	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

const providerName = "anthropic"

// Client is the slice of the HTTP client the provider needs.
type Client interface {
	CreateReview(ctx context.Context, req Request) (llm.ProviderResponse, error)
}

// Request carries one review prompt to the Messages API.
type Request struct {
	Model     string
	Prompt    string
	Seed      uint64
	MaxTokens int
}

// Provider translates provider-agnostic review requests into Anthropic calls.
type Provider struct {
	model  string
	client Client
}

// NewProvider constructs a Provider for the supplied model.
func NewProvider(model string, client Client) *Provider {
	return &Provider{model: model, client: client}
}

// Review sends the prompt to Anthropic and maps the response onto the domain.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (domain.Review, error) {
	if p.client == nil {
		return domain.Review{}, errors.New("anthropic client missing")
	}

	resp, err := p.client.CreateReview(ctx, Request{
		Model:     p.model,
		Prompt:    req.Prompt,
		Seed:      req.Seed,
		MaxTokens: req.MaxSize,
	})
	if err != nil {
		return domain.Review{}, err
	}

	return resp.ToReview(providerName), nil
}
