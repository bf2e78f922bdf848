package github

import (
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/config"
)

// ReviewEvent is the action submitted with a pull request review.
type ReviewEvent string

const (
	// EventComment submits general feedback without explicit approval.
	EventComment ReviewEvent = "COMMENT"

	// EventApprove submits an approving review.
	EventApprove ReviewEvent = "APPROVE"

	// EventRequestChanges submits a review requesting changes, which can
	// block merging depending on branch protection rules.
	EventRequestChanges ReviewEvent = "REQUEST_CHANGES"
)

// ReviewActions maps finding severities to configured review actions.
type ReviewActions = config.ReviewActions

// NormalizeAction parses a configured action string into a ReviewEvent.
// Matching is case-insensitive and accepts underscore or hyphen separators.
// Returns false for empty or unrecognized values.
func NormalizeAction(action string) (ReviewEvent, bool) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve":
		return EventApprove, true
	case "comment":
		return EventComment, true
	case "request_changes", "request-changes":
		return EventRequestChanges, true
	default:
		return "", false
	}
}

// eventForSeverity resolves the review event a finding of the given
// severity calls for, falling back to defaults when the configured action
// is absent or unrecognized: critical and high request changes, everything
// else comments.
func eventForSeverity(severity string, actions ReviewActions) ReviewEvent {
	var configured string
	switch strings.ToLower(severity) {
	case "critical":
		configured = actions.OnCritical
	case "high":
		configured = actions.OnHigh
	case "medium":
		configured = actions.OnMedium
	case "low":
		configured = actions.OnLow
	}

	if event, ok := NormalizeAction(configured); ok {
		return event
	}

	switch strings.ToLower(severity) {
	case "critical", "high":
		return EventRequestChanges
	default:
		return EventComment
	}
}

// HasBlockingFindings reports whether any in-diff finding maps to
// REQUEST_CHANGES under the configured actions. Out-of-diff findings never
// block since they cannot carry inline comments.
func HasBlockingFindings(findings []PositionedFinding, actions ReviewActions) bool {
	for _, pf := range findings {
		if !pf.InDiff() {
			continue
		}
		if eventForSeverity(pf.Finding.Severity, actions) == EventRequestChanges {
			return true
		}
	}
	return false
}

// DetermineReviewEventWithActions resolves the review event for a set of
// positioned findings under the configured severity actions:
//
//   - no in-diff findings: the clean action (default APPROVE)
//   - any blocking finding: REQUEST_CHANGES
//   - otherwise: the configured non-blocking action, or the action of the
//     worst surviving severity (defaults: medium/low comment)
func DetermineReviewEventWithActions(findings []PositionedFinding, actions ReviewActions) ReviewEvent {
	inDiff := filterInDiff(findings)
	if len(inDiff) == 0 {
		if event, ok := NormalizeAction(actions.OnClean); ok {
			return event
		}
		return EventApprove
	}

	if HasBlockingFindings(findings, actions) {
		return EventRequestChanges
	}

	return resolveNonBlockingEvent(inDiff, actions)
}

// DetermineReviewEvent resolves the review event using default severity
// actions only.
func DetermineReviewEvent(findings []PositionedFinding) ReviewEvent {
	return DetermineReviewEventWithActions(findings, ReviewActions{})
}

// resolveNonBlockingEvent picks the event for reviews whose findings are
// all non-blocking. A configured onNonBlocking action takes precedence;
// otherwise the worst surviving severity decides.
func resolveNonBlockingEvent(inDiff []PositionedFinding, actions ReviewActions) ReviewEvent {
	if event, ok := NormalizeAction(actions.OnNonBlocking); ok {
		return event
	}
	return eventForSeverity(worstSeverity(inDiff), actions)
}

// worstSeverity returns the highest-ranking severity present. Unknown
// severities rank lowest.
func worstSeverity(findings []PositionedFinding) string {
	present := make(map[string]bool, len(findings))
	for _, pf := range findings {
		present[strings.ToLower(pf.Finding.Severity)] = true
	}

	for _, severity := range severityOrder {
		if present[severity] {
			return severity
		}
	}
	return "low"
}

// getAttentionSeverities returns the severities that map to
// REQUEST_CHANGES under the configured actions, used to highlight files
// requiring attention in summaries.
func getAttentionSeverities(actions ReviewActions) map[string]bool {
	attention := make(map[string]bool, 4)
	for _, severity := range severityOrder {
		if eventForSeverity(severity, actions) == EventRequestChanges {
			attention[severity] = true
		}
	}
	return attention
}
