package review

import (
	"context"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// TrackingStore persists review state between runs so a synchronize event
// reviews only the commits pushed since the last run and findings that are
// already posted are not repeated. The GitHub implementation keeps the state
// in a hidden marker comment on the pull request.
type TrackingStore interface {
	// Load retrieves the saved state for a pull request. The boolean is
	// false when no state exists yet. Implementations should treat corrupt
	// state as absent rather than failing the review.
	Load(ctx context.Context, pr domain.PullRequest) (domain.ReviewState, bool, error)

	// Save persists state for a pull request, replacing any prior state.
	Save(ctx context.Context, pr domain.PullRequest, state domain.ReviewState) error
}
