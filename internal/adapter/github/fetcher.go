package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/diff"
	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/dedup"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// Fetcher retrieves pull request diffs and the bot's previously posted
// findings for the review pipeline.
type Fetcher struct {
	client      *Client
	botUsername string
}

var _ review.PullRequestFetcher = (*Fetcher)(nil)

// NewFetcher creates a Fetcher. botUsername selects which review comments
// count as the bot's own when collecting existing findings.
func NewFetcher(client *Client, botUsername string) *Fetcher {
	return &Fetcher{
		client:      client,
		botUsername: botUsername,
	}
}

// FetchDiff returns the full diff of the pull request.
func (f *Fetcher) FetchDiff(ctx context.Context, pr domain.PullRequest) (domain.Diff, error) {
	raw, err := f.client.GetPullRequestDiff(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to fetch pull request diff: %w", err)
	}

	files, err := diff.SplitFiles(raw)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to parse pull request diff: %w", err)
	}

	return domain.Diff{
		FromCommitHash: pr.BaseSHA,
		ToCommitHash:   pr.HeadSHA,
		Files:          files,
	}, nil
}

// FetchDiffSince returns the changes between a previously reviewed commit
// and the current head. Fails when sinceSHA is gone, for example after a
// force push; callers fall back to the full diff.
func (f *Fetcher) FetchDiffSince(ctx context.Context, pr domain.PullRequest, sinceSHA string) (domain.Diff, error) {
	raw, err := f.client.CompareDiff(ctx, pr.Owner, pr.Repo, sinceSHA, pr.HeadSHA)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to fetch diff since %s: %w", sinceSHA, err)
	}

	files, err := diff.SplitFiles(raw)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to parse diff since %s: %w", sinceSHA, err)
	}

	return domain.Diff{
		FromCommitHash: sinceSHA,
		ToCommitHash:   pr.HeadSHA,
		Files:          files,
	}, nil
}

// FetchExistingFindings collects the findings the bot has already posted as
// inline review comments, reconstructed from the comment bodies. Comments
// from other users and comments the bot did not format as findings are
// ignored.
func (f *Fetcher) FetchExistingFindings(ctx context.Context, pr domain.PullRequest) ([]dedup.ExistingFinding, error) {
	comments, err := f.client.ListReviewComments(ctx, pr.Owner, pr.Repo, pr.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to list review comments: %w", err)
	}

	var existing []dedup.ExistingFinding
	for _, c := range comments {
		if !strings.EqualFold(c.User, f.botUsername) {
			continue
		}

		finding, ok := toExistingFinding(c)
		if !ok {
			continue
		}
		existing = append(existing, finding)
	}

	return existing, nil
}

// toExistingFinding rebuilds a finding from one of the bot's inline
// comments. The comment's file path and line anchors are authoritative; the
// severity, category, and description come from the parsed body.
func toExistingFinding(c ReviewComment) (dedup.ExistingFinding, bool) {
	severity, category, description, ok := ParseFindingComment(c.Body)
	if !ok {
		return dedup.ExistingFinding{}, false
	}

	lineStart := c.StartLine
	if lineStart == 0 {
		lineStart = c.Line
	}

	return dedup.ExistingFinding{
		Fingerprint: domain.NewFindingFingerprint(c.Path, category, severity, description),
		File:        c.Path,
		LineStart:   lineStart,
		LineEnd:     c.Line,
		Description: description,
	}, true
}

// ParseFindingComment recovers the severity, category, and description that
// FormatFindingComment encoded in a comment body. ok is false when the body
// does not look like one of the bot's finding comments.
func ParseFindingComment(body string) (severity, category, description string, ok bool) {
	lines := strings.Split(body, "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "**Severity:**") {
		return "", "", "", false
	}

	header := lines[0]
	if idx := strings.Index(header, "| **Category:**"); idx >= 0 {
		category = strings.TrimSpace(header[idx+len("| **Category:**"):])
		header = header[:idx]
	}
	severity = strings.TrimSpace(strings.TrimPrefix(header, "**Severity:**"))

	var descLines []string
	for _, line := range lines[1:] {
		// Covers both "📍 Line N" and "📍 Lines N-M".
		if strings.HasPrefix(line, "📍 Line") {
			continue
		}
		if strings.HasPrefix(line, "**Suggestion:**") {
			break
		}
		descLines = append(descLines, line)
	}
	description = strings.TrimSpace(strings.Join(descLines, "\n"))

	return severity, category, description, true
}
