package tracking

import (
	"context"
	"fmt"
	"log"

	"github.com/reviewbotdev/reviewbot/internal/adapter/github"
	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// GitHubStore keeps review state in a PR issue comment. Creates the comment
// on first save and updates it in place afterwards.
type GitHubStore struct {
	client *github.Client
}

var _ review.TrackingStore = (*GitHubStore)(nil)

// NewGitHubStore creates a comment-backed tracking store.
func NewGitHubStore(client *github.Client) *GitHubStore {
	return &GitHubStore{client: client}
}

// Load retrieves the review state from the PR's state comment. found is
// false when no comment exists or its payload is unreadable; unreadable
// state is logged and treated as absent so the run degrades to a full
// review instead of failing.
func (s *GitHubStore) Load(ctx context.Context, pr domain.PullRequest) (domain.ReviewState, bool, error) {
	comment, found, err := s.findStateComment(ctx, pr)
	if err != nil {
		return domain.ReviewState{}, false, fmt.Errorf("failed to find state comment: %w", err)
	}
	if !found {
		return domain.ReviewState{}, false, nil
	}

	state, err := ParseStateComment(comment.Body)
	if err != nil {
		log.Printf("warning: ignoring unreadable review state in comment %d: %v", comment.ID, err)
		return domain.ReviewState{}, false, nil
	}

	// A state block pasted in from another pull request must not narrow
	// this one's diff.
	if state.Repository != pr.FullName() || state.PRNumber != pr.Number {
		log.Printf("warning: review state in comment %d belongs to %s#%d, ignoring",
			comment.ID, state.Repository, state.PRNumber)
		return domain.ReviewState{}, false, nil
	}

	return state, true, nil
}

// Save persists the review state, updating the existing state comment or
// creating one.
func (s *GitHubStore) Save(ctx context.Context, pr domain.PullRequest, state domain.ReviewState) error {
	body, err := RenderStateComment(state)
	if err != nil {
		return err
	}

	comment, found, err := s.findStateComment(ctx, pr)
	if err != nil {
		return fmt.Errorf("failed to find state comment: %w", err)
	}

	if found {
		if _, err := s.client.UpdateIssueComment(ctx, pr.Owner, pr.Repo, comment.ID, body); err != nil {
			return fmt.Errorf("failed to update state comment: %w", err)
		}
		return nil
	}

	if _, err := s.client.CreateIssueComment(ctx, pr.Owner, pr.Repo, pr.Number, body); err != nil {
		return fmt.Errorf("failed to create state comment: %w", err)
	}
	return nil
}

// findStateComment scans the PR's conversation for the state comment.
// Comments arrive most recently updated first, so when stale duplicates
// exist the first match is the live one.
func (s *GitHubStore) findStateComment(ctx context.Context, pr domain.PullRequest) (github.IssueComment, bool, error) {
	comments, err := s.client.ListIssueComments(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return github.IssueComment{}, false, err
	}

	for _, c := range comments {
		if IsStateComment(c.Body) {
			return c, true, nil
		}
	}

	return github.IssueComment{}, false, nil
}
