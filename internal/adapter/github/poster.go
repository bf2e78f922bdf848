package github

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// Review states reported by the API. Dismissed reviews stay dismissed and
// pending reviews were never submitted, so neither is a dismissal target.
const (
	stateDismissed = "DISMISSED"
	statePending   = "PENDING"
)

// dismissalMessage is attached to stale reviews when a newer one replaces
// them.
const dismissalMessage = "Superseded by a newer review."

// Poster submits finished reviews to pull requests and retires the bot's
// previous ones. The severity action table and bot identity are fixed at
// construction, keeping the review pipeline free of GitHub policy.
type Poster struct {
	client      *Client
	actions     ReviewActions
	botUsername string
}

var _ review.ReviewPoster = (*Poster)(nil)

// NewPoster creates a Poster. botUsername identifies the bot's own reviews
// for stale dismissal; when empty, no reviews are dismissed.
func NewPoster(client *Client, actions ReviewActions, botUsername string) *Poster {
	return &Poster{
		client:      client,
		actions:     actions,
		botUsername: botUsername,
	}
}

// PostReview maps findings to diff positions, resolves the review event from
// the configured severity actions, and submits one review with inline
// comments for in-diff findings and everything else folded into the body.
// After the new review lands, previous bot reviews are dismissed so the pull
// request carries a single current verdict. Posting the review first means a
// failed run never strips the existing review signal; dismissal failures are
// logged and do not fail the post.
func (p *Poster) PostReview(ctx context.Context, req review.PostRequest) (review.PostResult, error) {
	positioned := MapFindings(req.Review.Findings, req.Diff)

	event := DetermineReviewEventWithActions(positioned, p.actions)
	body := BuildReviewBody(req.Review, positioned, req.Diff, p.actions, req.SkippedFiles)

	summary, err := p.client.CreateReview(ctx, CreateReviewInput{
		Owner:      req.PR.Owner,
		Repo:       req.PR.Repo,
		PullNumber: req.PR.Number,
		CommitSHA:  req.PR.HeadSHA,
		Event:      event,
		Summary:    body,
		Findings:   positioned,
	})
	if err != nil {
		return review.PostResult{}, fmt.Errorf("failed to create review: %w", err)
	}

	inDiff := CountInDiffFindings(positioned)
	result := review.PostResult{
		ReviewID:        summary.ID,
		Event:           string(event),
		CommentsPosted:  inDiff,
		CommentsSkipped: len(positioned) - inDiff,
		HTMLURL:         summary.HTMLURL,
	}

	if p.botUsername != "" {
		result.DismissedCount = p.dismissStaleReviews(ctx, req.PR, summary.ID)
	}

	return result, nil
}

// dismissStaleReviews dismisses the bot's earlier reviews on the pull
// request, skipping the just-created review. Returns the number dismissed.
func (p *Poster) dismissStaleReviews(ctx context.Context, pr domain.PullRequest, excludeReviewID int64) int {
	reviews, err := p.client.ListReviews(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		log.Printf("warning: failed to list reviews for dismissal: %v", err)
		return 0
	}

	dismissed := 0
	for _, r := range reviews {
		if r.ID == excludeReviewID || !p.shouldDismiss(r) {
			continue
		}

		if err := p.client.DismissReview(ctx, pr.Owner, pr.Repo, pr.Number, r.ID, dismissalMessage); err != nil {
			log.Printf("warning: failed to dismiss review %d: %v", r.ID, err)
			continue
		}
		dismissed++
	}

	return dismissed
}

// shouldDismiss reports whether a review is a stale bot review. GitHub
// usernames are case-insensitive.
func (p *Poster) shouldDismiss(r ReviewSummary) bool {
	if !strings.EqualFold(r.User, p.botUsername) {
		return false
	}

	switch r.State {
	case stateDismissed, statePending:
		return false
	}

	return true
}
