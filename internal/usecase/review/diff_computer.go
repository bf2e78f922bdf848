package review

import (
	"context"
	"log"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// DiffComputer decides between a full and an incremental pull request diff.
type DiffComputer struct {
	fetcher PullRequestFetcher
	logger  Logger
}

// NewDiffComputer creates a DiffComputer backed by the given fetcher.
func NewDiffComputer(fetcher PullRequestFetcher) *DiffComputer {
	return &DiffComputer{fetcher: fetcher}
}

// WithLogger sets an optional logger for fallback warnings.
func (dc *DiffComputer) WithLogger(logger Logger) *DiffComputer {
	dc.logger = logger
	return dc
}

// ComputeDiff returns the changes to review for a pull request.
//
// Decision logic:
//   - No saved state and a fresh PR event: full diff
//   - Saved state, or a synchronize event carrying a before SHA: incremental
//     diff from the last reviewed commit to the current head
//   - Last reviewed commit equals the current head: empty diff
//   - Incremental fetch failure (force push, expired SHA): full diff
//
// The saved state takes precedence over the event's before SHA because runs
// can be skipped; the state records what was actually reviewed.
func (dc *DiffComputer) ComputeDiff(ctx context.Context, pr domain.PullRequest, state *domain.ReviewState) (domain.Diff, error) {
	since := ""
	if state != nil && state.LastReviewedSHA != "" {
		since = state.LastReviewedSHA
	} else if pr.IsIncremental() {
		since = pr.BeforeSHA
	}

	if since == "" {
		return dc.fetcher.FetchDiff(ctx, pr)
	}
	if since == pr.HeadSHA {
		return domain.Diff{
			FromCommitHash: since,
			ToCommitHash:   pr.HeadSHA,
			Files:          []domain.FileDiff{},
		}, nil
	}

	diff, err := dc.fetcher.FetchDiffSince(ctx, pr, since)
	if err != nil {
		dc.logWarning(ctx, "incremental diff failed, falling back to full diff", map[string]interface{}{
			"repository": pr.FullName(),
			"pr":         pr.Number,
			"since":      since,
			"error":      err.Error(),
		})
		return dc.fetcher.FetchDiff(ctx, pr)
	}
	return diff, nil
}

func (dc *DiffComputer) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if dc.logger != nil {
		dc.logger.LogWarning(ctx, message, fields)
		return
	}
	log.Printf("warning: %s %v", message, fields)
}
