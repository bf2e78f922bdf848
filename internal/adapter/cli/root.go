// Package cli wires the review pipeline into cobra commands: review for
// action mode, local for branch reviews, and check-skip for workflow
// gating.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/event"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Reviewer drives the review pipeline in both operating modes.
type Reviewer interface {
	ReviewPullRequest(ctx context.Context, req review.PullRequestRequest) (review.Result, error)
	ReviewLocal(ctx context.Context, req review.LocalRequest) (review.Result, error)
}

// CommitLister fetches the commit messages of a pull request. check-skip
// searches them for skip triggers when running off an event payload.
type CommitLister interface {
	ListCommitMessages(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Reviewer Reviewer

	// Commits is optional; without it check-skip examines only the PR
	// title and description.
	Commits CommitLister

	// ReadEvent loads a pull request from an Actions event payload file.
	// Nil defaults to the event package reader.
	ReadEvent func(path string) (domain.PullRequest, error)

	Args          Arguments
	DefaultOutput string
	DefaultRepo   string

	// Color enables ANSI colors in local mode output.
	Color bool

	Version string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}
	if deps.ReadEvent == nil {
		deps.ReadEvent = event.Read
	}

	root := &cobra.Command{
		Use:   "reviewbot",
		Short: "AI code review for GitHub pull requests",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(reviewCommand(deps))
	root.AddCommand(localCommand(deps))
	root.AddCommand(checkSkipCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

// reviewCommand reviews the pull request described by the Actions event
// payload and posts the result back to GitHub.
func reviewCommand(deps Dependencies) *cobra.Command {
	var eventPath string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review the pull request from the GitHub Actions event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := eventPath
			if path == "" {
				path = os.Getenv(event.EnvEventPath)
			}
			if path == "" {
				return fmt.Errorf("%s is not set; pass --event-path when running outside GitHub Actions", event.EnvEventPath)
			}

			pr, err := deps.ReadEvent(path)
			if err != nil {
				// Events the reviewer does not handle (closed, labeled,
				// ...) are a no-op, not a failure.
				if errors.Is(err, event.ErrUnsupportedAction) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "nothing to review: %v\n", err)
					return nil
				}
				return err
			}

			res, err := deps.Reviewer.ReviewPullRequest(cmd.Context(), review.PullRequestRequest{
				PR:        pr,
				OutputDir: outputDir,
			})
			if err != nil {
				return err
			}

			writeActionResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&eventPath, "event-path", "", "Path to the event payload (default $GITHUB_EVENT_PATH)")
	cmd.Flags().StringVar(&outputDir, "output", deps.DefaultOutput, "Directory for review artifacts; empty disables them")

	return cmd
}

// localCommand reviews a branch against a base reference in the local
// checkout. Nothing is posted; artifacts are the only output.
func localCommand(deps Dependencies) *cobra.Command {
	var baseRef string
	var targetRef string
	var outputDir string
	var repository string
	var includeUncommitted bool

	defaultOutput := deps.DefaultOutput
	if defaultOutput == "" {
		defaultOutput = "out"
	}

	cmd := &cobra.Command{
		Use:   "local [target]",
		Short: "Review a branch in the local checkout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				targetRef = args[0]
			}

			res, err := deps.Reviewer.ReviewLocal(cmd.Context(), review.LocalRequest{
				Repository:         repository,
				BaseRef:            baseRef,
				TargetRef:          targetRef,
				OutputDir:          outputDir,
				IncludeUncommitted: includeUncommitted,
			})
			if err != nil {
				return err
			}

			writeLocalResult(cmd.OutOrStdout(), res, deps.Color)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseRef, "base", "main", "Base reference to diff against")
	cmd.Flags().StringVar(&targetRef, "target", "", "Target branch to review (overrides positional; default: current branch)")
	cmd.Flags().StringVar(&outputDir, "output", defaultOutput, "Directory to write review artifacts")
	cmd.Flags().StringVar(&repository, "repository", deps.DefaultRepo, "Repository name recorded in artifacts and history")
	cmd.Flags().BoolVar(&includeUncommitted, "include-uncommitted", false, "Include uncommitted changes on the target branch")

	return cmd
}

func writeActionResult(w io.Writer, res review.Result) {
	switch {
	case res.Skipped:
		_, _ = fmt.Fprintf(w, "skip: %s\n", res.SkipReason)
	case res.NoChanges:
		_, _ = fmt.Fprintln(w, "no reviewable changes")
	default:
		if p := res.Posted; p != nil {
			_, _ = fmt.Fprintf(w, "posted %s review: %d inline comments, %d folded into body\n",
				strings.ToLower(p.Event), p.CommentsPosted, p.CommentsSkipped)
			if p.DismissedCount > 0 {
				_, _ = fmt.Fprintf(w, "dismissed %d stale reviews\n", p.DismissedCount)
			}
			if p.HTMLURL != "" {
				_, _ = fmt.Fprintln(w, p.HTMLURL)
			}
		}
		if res.DuplicatesSkipped > 0 {
			_, _ = fmt.Fprintf(w, "%d duplicate findings suppressed\n", res.DuplicatesSkipped)
		}
	}
}

func writeLocalResult(w io.Writer, res review.Result, color bool) {
	if res.NoChanges {
		_, _ = fmt.Fprintln(w, "no reviewable changes")
		return
	}

	rev := res.Review
	heading := fmt.Sprintf("%d findings from %s (%s)", len(rev.Findings), rev.ProviderName, rev.ModelName)
	if color {
		heading = ansiBold + heading + ansiReset
	}
	_, _ = fmt.Fprintln(w, heading)

	for _, f := range rev.Findings {
		location := fmt.Sprintf("%s:%d", f.File, f.LineStart)
		if f.LineEnd > f.LineStart {
			location = fmt.Sprintf("%s:%d-%d", f.File, f.LineStart, f.LineEnd)
		}
		// Pad before coloring so escape codes do not skew the column.
		severity := fmt.Sprintf("%-8s", strings.ToLower(f.Severity))
		if color {
			severity = severityColor(f.Severity) + severity + ansiReset
		}
		_, _ = fmt.Fprintf(w, "  %s %s  %s\n", severity, location, f.Description)
	}

	if rev.Summary != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", rev.Summary)
	}
	if res.DuplicatesSkipped > 0 {
		_, _ = fmt.Fprintf(w, "\n%d duplicate findings suppressed\n", res.DuplicatesSkipped)
	}
	if len(res.SkippedFiles) > 0 {
		_, _ = fmt.Fprintf(w, "%d files skipped by the max-files cap\n", len(res.SkippedFiles))
	}
	if res.MarkdownPath != "" {
		_, _ = fmt.Fprintf(w, "\nmarkdown: %s\n", res.MarkdownPath)
	}
	if res.JSONPath != "" {
		_, _ = fmt.Fprintf(w, "json: %s\n", res.JSONPath)
	}
}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

func severityColor(severity string) string {
	switch strings.ToLower(severity) {
	case "critical", "high":
		return ansiRed
	case "medium":
		return ansiYellow
	default:
		return ansiCyan
	}
}
