package openai

import (
	"context"
	"errors"

	"github.com/reviewbotdev/reviewbot/internal/adapter/llm"
	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

const providerName = "openai"

// Client is the part of the HTTP client this provider calls.
type Client interface {
	CreateReview(ctx context.Context, req Request) (llm.ProviderResponse, error)
}

// Request is one review prompt bound for the chat completions API.
type Request struct {
	Model     string
	Prompt    string
	Seed      uint64
	MaxTokens int
}

// Provider adapts the review Provider port to OpenAI.
type Provider struct {
	model  string
	client Client
}

// NewProvider constructs a Provider for the supplied model.
func NewProvider(model string, client Client) *Provider {
	return &Provider{model: model, client: client}
}

// Review sends the prompt to OpenAI and maps the response onto the domain.
func (p *Provider) Review(ctx context.Context, req review.ProviderRequest) (domain.Review, error) {
	if p.client == nil {
		return domain.Review{}, errors.New("openai client missing")
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
