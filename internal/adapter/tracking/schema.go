// Package tracking persists per-PR review state as a marker comment on the
// pull request, so synchronize runs can review only new commits and skip
// findings that were already posted.
package tracking

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// stateMarkerStart opens the hidden block carrying the JSON state. The
// payload holds only SHAs, fingerprints, and timestamps, never free text,
// so raw JSON cannot collide with the comment terminator.
const stateMarkerStart = "<!-- reviewbot:state"

// stateMarkerEnd closes the hidden block.
const stateMarkerEnd = "-->"

// stateVersion is bumped when the payload shape changes. Payloads from a
// newer version are treated as unreadable, which degrades to a full review.
const stateVersion = 1

// maxStateSize bounds the payload. GitHub caps comments at ~65k characters,
// so anything larger is corrupt.
const maxStateSize = 64 * 1024

// statePayload is the wire form of the review state.
type statePayload struct {
	Version int `json:"version"`
	domain.ReviewState
}

// IsStateComment reports whether a comment body carries review state.
func IsStateComment(body string) bool {
	return strings.Contains(body, stateMarkerStart)
}

// RenderStateComment builds the comment body: a short visible header and
// the hidden state block.
func RenderStateComment(state domain.ReviewState) (string, error) {
	payload, err := json.MarshalIndent(statePayload{Version: stateVersion, ReviewState: state}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize review state: %w", err)
	}

	var sb strings.Builder

	sb.WriteString("🤖 **Incremental review state** — do not edit, reviewbot maintains this comment.\n\n")
	sb.WriteString(fmt.Sprintf("Last reviewed commit: `%s`, tracking %d finding(s).\n",
		shortSHA(state.LastReviewedSHA), len(state.Fingerprints)))
	if !state.UpdatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("*Updated: %s*\n", state.UpdatedAt.Format(time.RFC3339)))
	}

	sb.WriteString("\n")
	sb.WriteString(stateMarkerStart)
	sb.WriteString("\n")
	sb.Write(payload)
	sb.WriteString("\n")
	sb.WriteString(stateMarkerEnd)

	return sb.String(), nil
}

// ParseStateComment extracts the review state from a comment body. Callers
// treat any error as state being absent.
func ParseStateComment(body string) (domain.ReviewState, error) {
	startIdx := strings.Index(body, stateMarkerStart)
	if startIdx == -1 {
		return domain.ReviewState{}, fmt.Errorf("state marker not found")
	}

	remaining := body[startIdx+len(stateMarkerStart):]
	endIdx := strings.Index(remaining, stateMarkerEnd)
	if endIdx == -1 {
		return domain.ReviewState{}, fmt.Errorf("state block not terminated")
	}

	content := strings.TrimSpace(remaining[:endIdx])
	if content == "" {
		return domain.ReviewState{}, fmt.Errorf("empty state payload")
	}
	if len(content) > maxStateSize {
		return domain.ReviewState{}, fmt.Errorf("state payload too large: %d bytes (max %d)", len(content), maxStateSize)
	}

	var payload statePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return domain.ReviewState{}, fmt.Errorf("failed to parse state payload: %w", err)
	}

	if payload.Version != stateVersion {
		return domain.ReviewState{}, fmt.Errorf("unsupported state version %d", payload.Version)
	}

	state := payload.ReviewState
	if state.Fingerprints == nil {
		state.Fingerprints = []string{}
	}

	return state, nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
