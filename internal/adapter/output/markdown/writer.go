// Package markdown renders reviews into Markdown report files.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

type clock func() string

// Writer renders reviews into Markdown files, one per provider and run.
type Writer struct {
	now clock
}

var _ review.MarkdownWriter = (*Writer)(nil)

// NewWriter constructs a Markdown writer with a timestamp supplier.
func NewWriter(now clock) *Writer {
	return &Writer{now: now}
}

// Write persists a Markdown artifact to disk and returns its path.
func (w *Writer) Write(ctx context.Context, artifact domain.MarkdownArtifact) (string, error) {
	if err := os.MkdirAll(artifact.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := strings.Join([]string{
		sanitise(artifact.Repository),
		sanitise(artifact.TargetRef),
		sanitise(artifact.ProviderName),
		w.now(),
	}, "_") + ".md"
	path := filepath.Join(artifact.OutputDir, name)

	if err := os.WriteFile(path, []byte(render(artifact)), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	return path, nil
}

func render(artifact domain.MarkdownArtifact) string {
	var b strings.Builder

	b.WriteString("# Code Review Report\n\n")
	fmt.Fprintf(&b, "- Provider: %s (%s)\n", artifact.Review.ProviderName, artifact.Review.ModelName)
	fmt.Fprintf(&b, "- Repository: %s\n", artifact.Repository)
	fmt.Fprintf(&b, "- Base: %s\n", artifact.BaseRef)
	fmt.Fprintf(&b, "- Target: %s\n", artifact.TargetRef)
	fmt.Fprintf(&b, "- Files reviewed: %d\n", len(artifact.Diff.Files))
	fmt.Fprintf(&b, "- Cost: $%.4f\n\n", artifact.Review.Cost)

	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", artifact.Review.Summary)

	if len(artifact.Review.Findings) == 0 {
		b.WriteString("No findings reported.\n")
		return b.String()
	}

	b.WriteString("## Findings\n\n")
	caser := cases.Title(language.English)
	for _, f := range artifact.Review.Findings {
		writeFinding(&b, f, caser)
	}

	return b.String()
}

func writeFinding(b *strings.Builder, f domain.Finding, caser cases.Caser) {
	fmt.Fprintf(b, "### %s (%s)\n", f.Description, caser.String(f.Severity))
	fmt.Fprintf(b, "- File: %s\n", lineRef(f))
	fmt.Fprintf(b, "- Category: %s\n", f.Category)
	if f.Suggestion != "" {
		fmt.Fprintf(b, "- Suggestion: %s\n", f.Suggestion)
	}

	evidence := "Not provided"
	if f.Evidence {
		evidence = "Provided"
	}
	fmt.Fprintf(b, "- Evidence: %s\n\n", evidence)
}

// lineRef renders main.go:10-12, collapsing single-line findings to main.go:10.
func lineRef(f domain.Finding) string {
	if f.LineEnd > f.LineStart {
		return fmt.Sprintf("%s:%d-%d", f.File, f.LineStart, f.LineEnd)
	}
	return fmt.Sprintf("%s:%d", f.File, f.LineStart)
}

var filenameSafe = strings.NewReplacer("/", "-", " ", "-")

// sanitise lowercases a filename segment and replaces separators so refs
// like feature/login do not introduce directories.
func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	return filenameSafe.Replace(strings.ToLower(value))
}
