package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reviewbotdev/reviewbot/internal/event"
	"github.com/reviewbotdev/reviewbot/internal/usecase/skip"
)

// ErrShouldReview is returned when no skip trigger is found,
// indicating the review should proceed. Use this as a sentinel
// error in the GitHub Action workflow.
var ErrShouldReview = errors.New("should review")

// checkSkipCommand creates the check-skip subcommand.
//
// Exit codes:
//   - 0: Skip trigger found, review should be skipped
//   - 1: No skip trigger, review should proceed
func checkSkipCommand(deps Dependencies) *cobra.Command {
	var commitMessages []string
	var prTitle string
	var prDescription string

	cmd := &cobra.Command{
		Use:   "check-skip",
		Short: "Check if code review should be skipped",
		Long: `Check commit messages and PR metadata for skip triggers.

Supported skip trigger patterns:
  [skip code-review]
  [skip-code-review]

Patterns are case-insensitive and can appear anywhere in the text.

With no flags, the pull request is loaded from $GITHUB_EVENT_PATH and its
title, description, and commit messages are checked.

Exit codes:
  0 - Skip trigger found, review should be skipped
  1 - No skip trigger, review should proceed

Example usage in GitHub Actions:
  if reviewbot check-skip; then
    echo "Skipping code review"
    exit 0
  fi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := skip.CheckRequest{
				CommitMessages: commitMessages,
				PRTitle:        prTitle,
				PRDescription:  prDescription,
			}

			// Explicit flags win; otherwise fall back to the event payload.
			if len(commitMessages) == 0 && prTitle == "" && prDescription == "" {
				req = requestFromEvent(cmd, deps)
			}

			result := skip.Check(req)

			if result.ShouldSkip {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skip: %s\n", result.Reason)
				return nil // Exit 0
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "review: no skip trigger found")
			return ErrShouldReview // Exit 1
		},
	}

	cmd.Flags().StringArrayVar(&commitMessages, "commit-message", nil, "Commit message(s) to check (can be repeated)")
	cmd.Flags().StringVar(&prTitle, "pr-title", "", "PR title to check")
	cmd.Flags().StringVar(&prDescription, "pr-description", "", "PR description/body to check")

	return cmd
}

// requestFromEvent assembles the skip check material from the Actions event
// payload. Failures degrade to an empty request with a warning on stderr,
// so the run falls through to the review outcome.
func requestFromEvent(cmd *cobra.Command, deps Dependencies) skip.CheckRequest {
	path := os.Getenv(event.EnvEventPath)
	if path == "" {
		return skip.CheckRequest{}
	}

	pr, err := deps.ReadEvent(path)
	if err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: cannot read event payload: %v\n", err)
		return skip.CheckRequest{}
	}

	req := skip.CheckRequest{
		PRTitle:       pr.Title,
		PRDescription: pr.Description,
	}

	if deps.Commits != nil {
		messages, err := deps.Commits.ListCommitMessages(cmd.Context(), pr.Owner, pr.Repo, pr.Number)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: cannot list pull request commits: %v\n", err)
		} else {
			req.CommitMessages = messages
		}
	}

	return req
}
