package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gogithub "github.com/google/go-github/v68/github"

	llmhttp "github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/reviewbotdev/reviewbot/internal/config"
)

const (
	// perPage is the page size for list endpoints. 100 is the API maximum.
	perPage = 100

	// maxPages bounds pagination loops so a pathological PR cannot make us
	// walk the API forever. 10 pages at 100 items covers any realistic PR.
	maxPages = 10
)

// Client provides authenticated access to the GitHub API with retry and
// typed error mapping. All methods honor context cancellation.
type Client struct {
	gh    *gogithub.Client
	retry llmhttp.RetryConfig
}

// NewClient creates a client that authenticates with a personal access token
// or Actions-provided GITHUB_TOKEN.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	return &Client{
		gh:    gogithub.NewClient(nil).WithAuthToken(token),
		retry: llmhttp.DefaultRetryConfig(),
	}, nil
}

// NewAppClient creates a client that authenticates as a GitHub App
// installation using a private key on disk. Installation tokens are minted
// and refreshed by the transport as needed.
func NewAppClient(appID, installationID int64, privateKeyPath string) (*Client, error) {
	if appID == 0 || installationID == 0 || privateKeyPath == "" {
		return nil, fmt.Errorf("app auth requires appID, installationID, and privateKeyPath")
	}

	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load app private key: %w", err)
	}

	return &Client{
		gh:    gogithub.NewClient(&http.Client{Transport: itr}),
		retry: llmhttp.DefaultRetryConfig(),
	}, nil
}

// NewFromConfig builds a client from configuration, preferring App
// installation auth when fully configured and falling back to token auth.
func NewFromConfig(cfg config.GitHubConfig) (*Client, error) {
	var (
		client *Client
		err    error
	)

	if cfg.UsesAppAuth() {
		client, err = NewAppClient(cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
	} else {
		client, err = NewClient(cfg.Token)
	}
	if err != nil {
		return nil, err
	}

	if cfg.APIBaseURL != "" {
		if err := client.SetBaseURL(cfg.APIBaseURL); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// SetBaseURL overrides the API endpoint, e.g. for GitHub Enterprise Server
// or a test server. The SDK requires a trailing slash.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}

	c.gh.BaseURL = u
	return nil
}

// SetRetryConfig overrides the default retry behavior.
func (c *Client) SetRetryConfig(retry llmhttp.RetryConfig) {
	c.retry = retry
}

// PullRequestDetails is the subset of pull request metadata the review
// pipeline needs.
type PullRequestDetails struct {
	Number      int
	Title       string
	Description string
	Author      string
	HeadSHA     string
	BaseSHA     string
	HeadRef     string
	BaseRef     string
	Draft       bool
}

// ChangedFile describes one file in a pull request, as reported by the
// files endpoint. Status is GitHub's own value (added, modified, removed,
// renamed, etc.).
type ChangedFile struct {
	Path         string
	PreviousPath string
	Status       string
	Additions    int
	Deletions    int
}

// ReviewSummary describes an existing pull request review.
type ReviewSummary struct {
	ID          int64
	User        string
	Body        string
	State       string
	CommitID    string
	HTMLURL     string
	SubmittedAt time.Time
}

// ReviewComment describes an inline review comment anchored to a file and
// line. StartLine is zero for single-line comments.
type ReviewComment struct {
	ID        int64
	User      string
	Path      string
	Line      int
	StartLine int
	Body      string
}

// IssueComment describes a top-level PR conversation comment.
type IssueComment struct {
	ID        int64
	User      string
	Body      string
	UpdatedAt time.Time
}

// CreateReviewInput contains everything needed to post a PR review.
type CreateReviewInput struct {
	Owner      string
	Repo       string
	PullNumber int

	// CommitSHA anchors the review to a specific head commit.
	CommitSHA string

	// Event is the review action: COMMENT, APPROVE, or REQUEST_CHANGES.
	Event ReviewEvent

	// Summary is the review body text.
	Summary string

	// Findings become inline comments. Only findings with an in-diff
	// position are attached; callers fold the rest into Summary.
	Findings []PositionedFinding
}

// run executes a single API call under the retry policy, converting SDK
// errors into typed errors so the policy can tell transient from permanent.
func (c *Client) run(ctx context.Context, operation string, call func(ctx context.Context) error) error {
	return llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		if err := call(ctx); err != nil {
			return mapAPIError(operation, err)
		}
		return nil
	}, c.retry)
}

// GetPullRequest fetches pull request metadata.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequestDetails, error) {
	var details PullRequestDetails

	err := c.run(ctx, "get pull request", func(ctx context.Context) error {
		pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
		if err != nil {
			return err
		}

		details = PullRequestDetails{
			Number:      pr.GetNumber(),
			Title:       pr.GetTitle(),
			Description: pr.GetBody(),
			Author:      pr.GetUser().GetLogin(),
			HeadSHA:     pr.GetHead().GetSHA(),
			BaseSHA:     pr.GetBase().GetSHA(),
			HeadRef:     pr.GetHead().GetRef(),
			BaseRef:     pr.GetBase().GetRef(),
			Draft:       pr.GetDraft(),
		}
		return nil
	})

	return details, err
}

// GetPullRequestDiff fetches the full unified diff for a pull request.
func (c *Client) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	var raw string

	err := c.run(ctx, "get pull request diff", func(ctx context.Context) error {
		diff, _, err := c.gh.PullRequests.GetRaw(ctx, owner, repo, number, gogithub.RawOptions{Type: gogithub.Diff})
		if err != nil {
			return err
		}
		raw = diff
		return nil
	})

	return raw, err
}

// CompareDiff fetches the unified diff between two commits, used for
// incremental reviews of only the commits pushed since the last run.
func (c *Client) CompareDiff(ctx context.Context, owner, repo, base, head string) (string, error) {
	var raw string

	err := c.run(ctx, "compare commits", func(ctx context.Context) error {
		diff, _, err := c.gh.Repositories.CompareCommitsRaw(ctx, owner, repo, base, head, gogithub.RawOptions{Type: gogithub.Diff})
		if err != nil {
			return err
		}
		raw = diff
		return nil
	})

	return raw, err
}

// ListChangedFiles pages through the files endpoint for a pull request.
// The API reports authoritative per-file statuses (including renames with
// previous paths) that raw diff parsing can miss.
func (c *Client) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	var files []ChangedFile

	opts := &gogithub.ListOptions{PerPage: perPage}
	for page := 0; page < maxPages; page++ {
		var (
			batch []*gogithub.CommitFile
			next  int
		)

		err := c.run(ctx, "list pull request files", func(ctx context.Context) error {
			result, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
			if err != nil {
				return err
			}
			batch = result
			next = resp.NextPage
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, f := range batch {
			files = append(files, ChangedFile{
				Path:         f.GetFilename(),
				PreviousPath: f.GetPreviousFilename(),
				Status:       f.GetStatus(),
				Additions:    f.GetAdditions(),
				Deletions:    f.GetDeletions(),
			})
		}

		if next == 0 {
			break
		}
		opts.Page = next
	}

	return files, nil
}

// ListCommitMessages returns the commit messages of a pull request in
// chronological order. Used to detect skip triggers.
func (c *Client) ListCommitMessages(ctx context.Context, owner, repo string, number int) ([]string, error) {
	var messages []string

	opts := &gogithub.ListOptions{PerPage: perPage}
	for page := 0; page < maxPages; page++ {
		var (
			batch []*gogithub.RepositoryCommit
			next  int
		)

		err := c.run(ctx, "list pull request commits", func(ctx context.Context) error {
			result, resp, err := c.gh.PullRequests.ListCommits(ctx, owner, repo, number, opts)
			if err != nil {
				return err
			}
			batch = result
			next = resp.NextPage
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, commit := range batch {
			messages = append(messages, commit.GetCommit().GetMessage())
		}

		if next == 0 {
			break
		}
		opts.Page = next
	}

	return messages, nil
}

// CreateReview posts a pull request review with inline comments for every
// in-diff finding. Out-of-diff findings are the caller's responsibility.
func (c *Client) CreateReview(ctx context.Context, input CreateReviewInput) (ReviewSummary, error) {
	request := &gogithub.PullRequestReviewRequest{
		CommitID: gogithub.String(input.CommitSHA),
		Body:     gogithub.String(input.Summary),
		Event:    gogithub.String(string(input.Event)),
		Comments: BuildReviewComments(input.Findings),
	}

	var summary ReviewSummary
	err := c.run(ctx, "create review", func(ctx context.Context) error {
		review, _, err := c.gh.PullRequests.CreateReview(ctx, input.Owner, input.Repo, input.PullNumber, request)
		if err != nil {
			return err
		}
		summary = toReviewSummary(review)
		return nil
	})

	return summary, err
}

// ListReviews pages through the existing reviews on a pull request.
func (c *Client) ListReviews(ctx context.Context, owner, repo string, number int) ([]ReviewSummary, error) {
	var reviews []ReviewSummary

	opts := &gogithub.ListOptions{PerPage: perPage}
	for page := 0; page < maxPages; page++ {
		var (
			batch []*gogithub.PullRequestReview
			next  int
		)

		err := c.run(ctx, "list reviews", func(ctx context.Context) error {
			result, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
			if err != nil {
				return err
			}
			batch = result
			next = resp.NextPage
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, review := range batch {
			reviews = append(reviews, toReviewSummary(review))
		}

		if next == 0 {
			break
		}
		opts.Page = next
	}

	return reviews, nil
}

// ListReviewComments pages through the inline review comments on a pull
// request. Feeds deduplication so a re-review does not repeat feedback
// that is already posted.
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]ReviewComment, error) {
	var comments []ReviewComment

	opts := &gogithub.PullRequestListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}
	for page := 0; page < maxPages; page++ {
		var (
			batch []*gogithub.PullRequestComment
			next  int
		)

		err := c.run(ctx, "list review comments", func(ctx context.Context) error {
			result, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, opts)
			if err != nil {
				return err
			}
			batch = result
			next = resp.NextPage
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, comment := range batch {
			comments = append(comments, ReviewComment{
				ID:        comment.GetID(),
				User:      comment.GetUser().GetLogin(),
				Path:      comment.GetPath(),
				Line:      comment.GetLine(),
				StartLine: comment.GetStartLine(),
				Body:      comment.GetBody(),
			})
		}

		if next == 0 {
			break
		}
		opts.Page = next
	}

	return comments, nil
}

// DismissReview dismisses a previously submitted review. Only reviews in
// the CHANGES_REQUESTED or APPROVED state can be dismissed.
func (c *Client) DismissReview(ctx context.Context, owner, repo string, number int, reviewID int64, message string) error {
	request := &gogithub.PullRequestReviewDismissalRequest{
		Message: gogithub.String(message),
	}

	return c.run(ctx, "dismiss review", func(ctx context.Context) error {
		_, _, err := c.gh.PullRequests.DismissReview(ctx, owner, repo, number, reviewID, request)
		return err
	})
}

// ListIssueComments pages through the top-level conversation comments on a
// pull request, most recently updated first.
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]IssueComment, error) {
	var comments []IssueComment

	opts := &gogithub.IssueListCommentsOptions{
		Sort:        gogithub.String("updated"),
		Direction:   gogithub.String("desc"),
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	}
	for page := 0; page < maxPages; page++ {
		var (
			batch []*gogithub.IssueComment
			next  int
		)

		err := c.run(ctx, "list issue comments", func(ctx context.Context) error {
			result, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
			if err != nil {
				return err
			}
			batch = result
			next = resp.NextPage
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, comment := range batch {
			comments = append(comments, toIssueComment(comment))
		}

		if next == 0 {
			break
		}
		opts.Page = next
	}

	return comments, nil
}

// CreateIssueComment posts a new top-level comment on a pull request.
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) (IssueComment, error) {
	var created IssueComment

	err := c.run(ctx, "create issue comment", func(ctx context.Context) error {
		comment, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gogithub.IssueComment{
			Body: gogithub.String(body),
		})
		if err != nil {
			return err
		}
		created = toIssueComment(comment)
		return nil
	})

	return created, err
}

// UpdateIssueComment replaces the body of an existing comment.
func (c *Client) UpdateIssueComment(ctx context.Context, owner, repo string, commentID int64, body string) (IssueComment, error) {
	var updated IssueComment

	err := c.run(ctx, "update issue comment", func(ctx context.Context) error {
		comment, _, err := c.gh.Issues.EditComment(ctx, owner, repo, commentID, &gogithub.IssueComment{
			Body: gogithub.String(body),
		})
		if err != nil {
			return err
		}
		updated = toIssueComment(comment)
		return nil
	})

	return updated, err
}

func toReviewSummary(review *gogithub.PullRequestReview) ReviewSummary {
	return ReviewSummary{
		ID:          review.GetID(),
		User:        review.GetUser().GetLogin(),
		Body:        review.GetBody(),
		State:       review.GetState(),
		CommitID:    review.GetCommitID(),
		HTMLURL:     review.GetHTMLURL(),
		SubmittedAt: review.GetSubmittedAt().Time,
	}
}

func toIssueComment(comment *gogithub.IssueComment) IssueComment {
	return IssueComment{
		ID:        comment.GetID(),
		User:      comment.GetUser().GetLogin(),
		Body:      comment.GetBody(),
		UpdatedAt: comment.GetUpdatedAt().Time,
	}
}
