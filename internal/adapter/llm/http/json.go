package http

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// jsonBlockRegex matches greedily from the first code fence to the LAST
// closing fence. Greedy matching is required for nested code blocks: when a
// finding suggestion contains example code fenced with backticks, the outer
// JSON fence still closes at the last ``` in the response.
//
// Assumption: models are instructed to return a single JSON code block. With
// multiple separate blocks the greedy match spans them all, which may fail to
// decode; that falls into the degrade-to-summary path upstream.
var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")

// ExtractJSONFromMarkdown extracts JSON from a markdown code block.
// Supports both ```json and plain ``` fences. Returns the trimmed original
// text if no code block is found (the response may be raw JSON).
func ExtractJSONFromMarkdown(text string) string {
	matches := jsonBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

// findingPayload tolerates the field spellings different models produce.
// camelCase is canonical; some models emit snake_case line fields instead.
type findingPayload struct {
	File           string `json:"file"`
	LineStart      int    `json:"lineStart"`
	LineEnd        int    `json:"lineEnd"`
	LineStartSnake int    `json:"line_start"`
	LineEndSnake   int    `json:"line_end"`
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	Suggestion     string `json:"suggestion"`
	Evidence       bool   `json:"evidence"`
}

// ParseReviewResponse parses a model response into a summary and findings.
// Handles markdown-wrapped and raw JSON. Model output varies in shape: the
// summary may be an object instead of a string, line fields may be
// snake_case, and the findings array may be absent. All of those are
// normalized; only text the JSON decoder rejects outright is an error.
// Findings are assigned deterministic IDs. The returned slice is never nil.
func ParseReviewResponse(text string) (summary string, findings []domain.Finding, err error) {
	jsonText := ExtractJSONFromMarkdown(text)

	var payload struct {
		Summary  json.RawMessage  `json:"summary"`
		Findings []findingPayload `json:"findings"`
	}

	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return "", nil, fmt.Errorf("failed to parse JSON review: %w", err)
	}

	findings = make([]domain.Finding, 0, len(payload.Findings))
	for _, f := range payload.Findings {
		lineStart := f.LineStart
		if lineStart == 0 {
			lineStart = f.LineStartSnake
		}
		lineEnd := f.LineEnd
		if lineEnd == 0 {
			lineEnd = f.LineEndSnake
		}

		findings = append(findings, domain.NewFinding(domain.FindingInput{
			File:        f.File,
			LineStart:   lineStart,
			LineEnd:     lineEnd,
			Severity:    f.Severity,
			Category:    f.Category,
			Description: f.Description,
			Suggestion:  f.Suggestion,
			Evidence:    f.Evidence,
		}))
	}

	if len(payload.Summary) > 0 {
		// Non-string summaries (objects, numbers) are dropped and synthesized below
		if err := json.Unmarshal(payload.Summary, &summary); err != nil {
			summary = ""
		}
	}
	if summary == "" {
		summary = fmt.Sprintf("Code review completed with %d finding(s).", len(findings))
	}

	return summary, findings, nil
}
