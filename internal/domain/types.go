// Package domain holds the core review types shared by every adapter:
// pull requests, diffs, findings, and the artifacts produced from them.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// File statuses as reported in a parsed diff.
const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusDeleted  = "deleted"
	FileStatusRenamed  = "renamed"
)

// Pull request actions delivered by the GitHub Actions event payload.
const (
	ActionOpened      = "opened"
	ActionReopened    = "reopened"
	ActionSynchronize = "synchronize"
)

// PullRequest identifies the pull request under review together with the
// metadata included in review prompts.
type PullRequest struct {
	Owner       string
	Repo        string
	Number      int
	Title       string
	Description string
	BaseSHA     string
	HeadSHA     string
	// BeforeSHA is the prior head for synchronize events; empty otherwise.
	BeforeSHA string
	Action    string
}

// FullName returns the "owner/repo" slug.
func (pr PullRequest) FullName() string {
	return pr.Owner + "/" + pr.Repo
}

// IsIncremental reports whether only the commits pushed since the last
// review should be considered.
func (pr PullRequest) IsIncremental() bool {
	return pr.Action == ActionSynchronize && pr.BeforeSHA != ""
}

// Diff is the cumulative change between two refs.
type Diff struct {
	FromCommitHash string
	ToCommitHash   string
	Files          []FileDiff
}

// FileDiff is the change to a single file within a Diff.
type FileDiff struct {
	Path     string
	OldPath  string // Previous path for renames, otherwise empty
	Status   string
	Patch    string
	IsBinary bool
}

// Review is one provider's verdict on a diff.
type Review struct {
	ProviderName string    `json:"providerName"`
	ModelName    string    `json:"modelName"`
	Summary      string    `json:"summary"`
	Findings     []Finding `json:"findings"`
	Cost         float64   `json:"cost"` // Cost in USD
}

// Finding is a single issue reported by a provider. The ID is derived
// from the finding's content, so the same issue hashes to the same ID
// across runs.
type Finding struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	LineStart   int    `json:"lineStart"`
	LineEnd     int    `json:"lineEnd"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	Evidence    bool   `json:"evidence"`
}

// FindingInput carries the fields needed to construct a Finding.
type FindingInput struct {
	File        string
	LineStart   int
	LineEnd     int
	Severity    string
	Category    string
	Description string
	Suggestion  string
	Evidence    bool
}

// NewFinding builds a Finding and assigns its content-derived ID.
// The suggestion stays out of the ID so rewording the advice does not
// mint a new finding.
func NewFinding(in FindingInput) Finding {
	f := Finding{
		File:        in.File,
		LineStart:   in.LineStart,
		LineEnd:     in.LineEnd,
		Severity:    in.Severity,
		Category:    in.Category,
		Description: in.Description,
		Suggestion:  in.Suggestion,
		Evidence:    in.Evidence,
	}
	f.ID = findingID(f)
	return f
}

func findingID(f Finding) string {
	payload := fmt.Sprintf("%s|%d|%d|%s|%s|%s|%t",
		f.File, f.LineStart, f.LineEnd, f.Severity, f.Category, f.Description, f.Evidence)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// MarkdownArtifact carries the inputs for the Markdown report writer.
type MarkdownArtifact struct {
	OutputDir    string
	Repository   string
	BaseRef      string
	TargetRef    string
	Diff         Diff
	Review       Review
	ProviderName string
}

// JSONArtifact carries the inputs for the JSON report writer.
type JSONArtifact struct {
	OutputDir    string
	Repository   string
	BaseRef      string
	TargetRef    string
	Review       Review
	ProviderName string
}
