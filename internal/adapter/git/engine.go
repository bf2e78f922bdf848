// Package git computes branch diffs from a local repository for review
// runs that never touch the GitHub API.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	formatdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/reviewbotdev/reviewbot/internal/diff"
	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// Engine reads diffs out of a local repository with go-git. Diffing the
// working tree against an arbitrary base is the one operation go-git cannot
// do, so uncommitted changes shell out to the git CLI.
type Engine struct {
	repoDir string
}

var _ review.GitEngine = (*Engine)(nil)

// NewEngine creates an engine for the repository at or above repoDir.
func NewEngine(repoDir string) *Engine {
	return &Engine{repoDir: repoDir}
}

// GetCumulativeDiff returns the diff between two refs. With
// includeUncommitted, staged and unstaged changes are diffed against
// baseRef instead; untracked files never appear in git diff output and are
// not reviewed.
func (e *Engine) GetCumulativeDiff(ctx context.Context, baseRef, targetRef string, includeUncommitted bool) (domain.Diff, error) {
	repo, err := e.open()
	if err != nil {
		return domain.Diff{}, err
	}

	base, err := resolveCommit(repo, baseRef)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to resolve base ref %q: %w", baseRef, err)
	}
	target, err := resolveCommit(repo, targetRef)
	if err != nil {
		return domain.Diff{}, fmt.Errorf("failed to resolve target ref %q: %w", targetRef, err)
	}

	var files []domain.FileDiff
	if includeUncommitted {
		files, err = e.diffWorkingTree(ctx, baseRef)
	} else {
		files, err = diffCommits(base, target)
	}
	if err != nil {
		return domain.Diff{}, err
	}

	return domain.Diff{
		FromCommitHash: base.Hash.String(),
		ToCommitHash:   target.Hash.String(),
		Files:          files,
	}, nil
}

// CurrentBranch returns the name of the checked-out branch.
func (e *Engine) CurrentBranch(ctx context.Context) (string, error) {
	repo, err := e.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	if name := head.Name(); name.IsBranch() {
		return name.Short(), nil
	}
	return "", fmt.Errorf("detached HEAD")
}

func (e *Engine) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(e.repoDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", e.repoDir, err)
	}
	return repo, nil
}

// diffCommits renders the patch between two commits file by file.
func diffCommits(base, target *object.Commit) ([]domain.FileDiff, error) {
	patch, err := base.Patch(target)
	if err != nil {
		return nil, fmt.Errorf("failed to compute patch: %w", err)
	}

	filePatches := patch.FilePatches()
	files := make([]domain.FileDiff, 0, len(filePatches))
	for _, fp := range filePatches {
		path, oldPath, status := classifyPatch(fp)

		text, err := renderPatch(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to render patch for %s: %w", path, err)
		}

		files = append(files, domain.FileDiff{
			Path:     path,
			OldPath:  oldPath,
			Status:   status,
			Patch:    text,
			IsBinary: fp.IsBinary(),
		})
	}

	return files, nil
}

// diffWorkingTree diffs the working tree against baseRef with a single git
// invocation and splits the output into per-file diffs.
func (e *Engine) diffWorkingTree(ctx context.Context, baseRef string) ([]domain.FileDiff, error) {
	out, err := e.runGit(ctx, "diff", baseRef)
	if err != nil {
		return nil, fmt.Errorf("failed to diff working tree: %w", err)
	}

	files, err := diff.SplitFiles(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse working tree diff: %w", err)
	}
	if files == nil {
		files = []domain.FileDiff{}
	}
	return files, nil
}

// resolveCommit resolves a revision to a commit, trying the spelling as
// given, then as a local branch, then as an origin branch.
func resolveCommit(repo *gogit.Repository, ref string) (*object.Commit, error) {
	candidates := []string{
		ref,
		"refs/heads/" + ref,
		"refs/remotes/origin/" + ref,
	}

	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err != nil {
			lastErr = err
			continue
		}
		return repo.CommitObject(*hash)
	}

	return nil, lastErr
}

// classifyPatch derives the path, previous path, and change status from
// which sides of the file patch exist.
func classifyPatch(fp formatdiff.FilePatch) (path, oldPath, status string) {
	from, to := fp.Files()

	switch {
	case from == nil && to == nil:
		return "", "", domain.FileStatusModified
	case from == nil:
		return to.Path(), "", domain.FileStatusAdded
	case to == nil:
		return from.Path(), "", domain.FileStatusDeleted
	case from.Path() != to.Path():
		return to.Path(), from.Path(), domain.FileStatusRenamed
	default:
		return to.Path(), "", domain.FileStatusModified
	}
}

// renderPatch encodes one file patch as unified diff text, git header
// included so position mapping can re-parse it.
func renderPatch(fp formatdiff.FilePatch) (string, error) {
	var buf bytes.Buffer
	encoder := formatdiff.NewUnifiedEncoder(&buf, formatdiff.DefaultContextLines)
	if err := encoder.Encode(filePatchOnly{fp}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// filePatchOnly adapts a single FilePatch to the Patch interface the
// unified encoder consumes.
type filePatchOnly struct {
	fp formatdiff.FilePatch
}

func (p filePatchOnly) FilePatches() []formatdiff.FilePatch { return []formatdiff.FilePatch{p.fp} }
func (p filePatchOnly) Message() string                     { return "" }

func (e *Engine) runGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", e.repoDir}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}
