package review

import (
	"fmt"
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// defaultMaxTokens caps provider output tokens. 64000 stays within the output
// limits of every supported model while leaving reasoning models enough
// budget to think before emitting the JSON body; a low cap can make them
// exhaust the budget on reasoning alone and return nothing.
const defaultMaxTokens = 64000

// PromptInput carries the pull request context rendered into a chunk prompt.
// Title and Description may be empty for local reviews.
type PromptInput struct {
	Title              string
	Description        string
	CustomInstructions string
	Files              []domain.FileDiff
}

// BuildPrompt renders the review prompt for one chunk of files.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder
	b.WriteString("You are an expert software engineer reviewing a pull request.\n\n")
	b.WriteString("Instructions:\n")
	b.WriteString(`- Respond with a single JSON object: {"summary": "<overall assessment>", "findings": [{"file": "<path>", "lineStart": <int>, "lineEnd": <int>, "severity": "<critical|high|medium|low>", "category": "<bug|security|performance|maintainability|other>", "description": "<the problem>", "suggestion": "<how to fix it>"}]}`)
	b.WriteString("\n")
	b.WriteString("- Line numbers refer to the new side of the diff.\n")
	b.WriteString("- Report genuine problems only. Do not give positive comments or compliments.\n")
	b.WriteString("- Never suggest adding code comments.\n")
	b.WriteString(`- If the changes look good, return {"summary": "<assessment>", "findings": []}.`)
	b.WriteString("\n")

	if in.CustomInstructions != "" {
		b.WriteString("\nAdditional instructions:\n")
		b.WriteString(strings.TrimSpace(in.CustomInstructions))
		b.WriteString("\n")
	}

	if in.Title != "" {
		b.WriteString(fmt.Sprintf("\nPull request title: %s\n", in.Title))
	}
	if in.Description != "" {
		b.WriteString("\nPull request description:\n---\n")
		b.WriteString(strings.TrimSpace(in.Description))
		b.WriteString("\n---\n")
	}

	b.WriteString("\nDiff to review:\n")
	for _, f := range in.Files {
		b.WriteString(fmt.Sprintf("\nFile: %s (%s)\n", f.Path, f.Status))
		if f.OldPath != "" && f.OldPath != f.Path {
			b.WriteString(fmt.Sprintf("Renamed from: %s\n", f.OldPath))
		}
		b.WriteString("```diff\n")
		b.WriteString(strings.TrimRight(f.Patch, "\n"))
		b.WriteString("\n```\n")
	}
	return b.String()
}
