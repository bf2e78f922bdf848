// Package event reads the GitHub Actions pull_request event payload and
// extracts the pull request details the review pipeline needs.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// EnvEventPath is the environment variable GitHub Actions sets to the
// location of the JSON event payload.
const EnvEventPath = "GITHUB_EVENT_PATH"

// ErrUnsupportedAction reports an event action the reviewer does not handle.
// Callers treat it as "nothing to do", not as a failure.
var ErrUnsupportedAction = errors.New("unsupported event action")

// ref is a branch pointer inside the payload.
type ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// payload mirrors the slice of the pull_request event document we consume.
type payload struct {
	Action      string `json:"action"`
	Number      int    `json:"number"`
	Before      string `json:"before"`
	After       string `json:"after"`
	PullRequest struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		Head   ref    `json:"head"`
		Base   ref    `json:"base"`
	} `json:"pull_request"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// ReadFromEnv loads the event payload from $GITHUB_EVENT_PATH.
func ReadFromEnv() (domain.PullRequest, error) {
	path := os.Getenv(EnvEventPath)
	if path == "" {
		return domain.PullRequest{}, fmt.Errorf("%s is not set", EnvEventPath)
	}
	return Read(path)
}

// Read parses the event payload file at path.
func Read(path string) (domain.PullRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PullRequest{}, fmt.Errorf("no GitHub event file found at %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a pull_request event document into PR details.
func Parse(data []byte) (domain.PullRequest, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.PullRequest{}, fmt.Errorf("failed to parse event payload: %w", err)
	}

	switch p.Action {
	case domain.ActionOpened, domain.ActionReopened, domain.ActionSynchronize:
	default:
		return domain.PullRequest{}, fmt.Errorf("%w: %q", ErrUnsupportedAction, p.Action)
	}

	// The PR number lives at the top level for pull_request events, but
	// fall back to the nested object for payloads written by other tools.
	number := p.Number
	if number == 0 {
		number = p.PullRequest.Number
	}
	if number == 0 {
		return domain.PullRequest{}, fmt.Errorf("event payload has no pull request number")
	}

	if p.Repository.Owner.Login == "" || p.Repository.Name == "" {
		return domain.PullRequest{}, fmt.Errorf("event payload has no repository identity")
	}

	pr := domain.PullRequest{
		Owner:       p.Repository.Owner.Login,
		Repo:        p.Repository.Name,
		Number:      number,
		Title:       p.PullRequest.Title,
		Description: p.PullRequest.Body,
		BaseSHA:     p.PullRequest.Base.SHA,
		HeadSHA:     p.PullRequest.Head.SHA,
		Action:      p.Action,
	}

	if p.Action == domain.ActionSynchronize {
		pr.BeforeSHA = p.Before
		// after and head.sha agree on real payloads; prefer after when set
		if p.After != "" {
			pr.HeadSHA = p.After
		}
	}

	return pr, nil
}
