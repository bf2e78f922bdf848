package llm

import "github.com/reviewbotdev/reviewbot/internal/domain"

// UsageMetadata carries token and cost accounting for one API call.
type UsageMetadata struct {
	TokensIn  int
	TokensOut int
	Cost      float64 // USD
}

// ProviderResponse is the normalized result every provider client returns,
// whatever its wire format looked like.
type ProviderResponse struct {
	Model    string
	Summary  string
	Findings []domain.Finding
	Usage    UsageMetadata
}

// ToReview converts the response into a domain review attributed to the
// named provider.
func (r ProviderResponse) ToReview(provider string) domain.Review {
	return domain.Review{
		ProviderName: provider,
		ModelName:    r.Model,
		Summary:      r.Summary,
		Findings:     r.Findings,
		Cost:         r.Usage.Cost,
	}
}
