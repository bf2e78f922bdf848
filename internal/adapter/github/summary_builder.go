package github

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

// maxReviewBodyChars keeps review bodies under the API's 65536-character
// comment limit with headroom for the closing fence GitHub adds to
// truncated markdown.
const maxReviewBodyChars = 65000

// severityOrder is the display order for severity levels, highest first.
var severityOrder = []string{"critical", "high", "medium", "low"}

// BuildReviewBody assembles the complete review body: programmatic
// statistics, the model's prose summary, a notice for files skipped by
// size limits, and appendix sections for findings that cannot carry
// inline comments.
func BuildReviewBody(r domain.Review, findings []PositionedFinding, d domain.Diff, actions ReviewActions, skippedFiles []string) string {
	var sb strings.Builder

	sb.WriteString(BuildProgrammaticSummary(findings, d, actions))

	if summary := strings.TrimSpace(r.Summary); summary != "" {
		sb.WriteString("\n\n")
		sb.WriteString(summary)
	}

	if notice := FormatSkippedFilesNotice(skippedFiles); notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(notice)
	}

	body := AppendSections(sb.String(), BuildSummaryAppendix(findings, d))

	if r.ProviderName != "" && r.ModelName != "" {
		body += fmt.Sprintf("\n\n---\n*Automated review by %s (%s).*", r.ProviderName, r.ModelName)
	}

	return clampBody(body)
}

// BuildSummaryAppendix creates appendix sections for review aspects that
// inline comments cannot express. Returns an empty string when there is
// nothing to report. Sections cover:
//   - findings on lines outside the diff
//   - binary files excluded from review
//   - renamed files
func BuildSummaryAppendix(findings []PositionedFinding, d domain.Diff) string {
	var sections []string

	outOfDiff := FilterOutOfDiff(findings)
	if len(outOfDiff) > 0 {
		sections = append(sections, formatOutOfDiffSection(outOfDiff))
	}

	binaryFiles := FilterBinaryFiles(d.Files)
	if len(binaryFiles) > 0 {
		sections = append(sections, formatBinaryFilesSection(binaryFiles))
	}

	renamedFiles := FilterRenamedFiles(d.Files)
	if len(renamedFiles) > 0 {
		sections = append(sections, formatRenamedFilesSection(renamedFiles))
	}

	if len(sections) == 0 {
		return ""
	}

	return "\n\n---\n\n" + strings.Join(sections, "\n\n")
}

// AppendSections appends the appendix to a summary, leaving the summary
// unchanged when the appendix is empty.
func AppendSections(originalSummary, appendix string) string {
	if appendix == "" {
		return originalSummary
	}
	return originalSummary + appendix
}

// FilterOutOfDiff returns findings without a diff position.
func FilterOutOfDiff(findings []PositionedFinding) []PositionedFinding {
	var result []PositionedFinding
	for _, pf := range findings {
		if !pf.InDiff() {
			result = append(result, pf)
		}
	}
	return result
}

// FilterBinaryFiles returns the binary files in a diff.
func FilterBinaryFiles(files []domain.FileDiff) []domain.FileDiff {
	var result []domain.FileDiff
	for _, f := range files {
		if f.IsBinary {
			result = append(result, f)
		}
	}
	return result
}

// FilterRenamedFiles returns the renamed files in a diff.
func FilterRenamedFiles(files []domain.FileDiff) []domain.FileDiff {
	var result []domain.FileDiff
	for _, f := range files {
		if f.Status == domain.FileStatusRenamed {
			result = append(result, f)
		}
	}
	return result
}

func formatOutOfDiffSection(findings []PositionedFinding) string {
	var sb strings.Builder

	sb.WriteString("## Findings Outside Diff\n\n")
	sb.WriteString("The following findings are on lines not included in this diff ")
	sb.WriteString("(e.g., deleted lines or unchanged context):\n\n")

	for _, pf := range findings {
		f := pf.Finding
		sb.WriteString(fmt.Sprintf("- **%s** in `%s` (line %d): %s\n",
			f.Severity, escapeMarkdownInlineCode(f.File), f.LineStart, f.Description))
	}

	return sb.String()
}

func formatBinaryFilesSection(files []domain.FileDiff) string {
	var sb strings.Builder

	sb.WriteString("## Binary Files Changed\n\n")
	sb.WriteString("The following binary files were changed and excluded from review:\n\n")

	for _, f := range files {
		sb.WriteString(fmt.Sprintf("- `%s` (%s)\n", escapeMarkdownInlineCode(f.Path), f.Status))
	}

	return sb.String()
}

func formatRenamedFilesSection(files []domain.FileDiff) string {
	var sb strings.Builder

	sb.WriteString("## Files Renamed\n\n")

	for _, f := range files {
		sb.WriteString(fmt.Sprintf("- `%s` → `%s`\n", escapeMarkdownInlineCode(f.OldPath), escapeMarkdownInlineCode(f.Path)))
	}

	return sb.String()
}

// FormatSkippedFilesNotice creates a warning section listing files that
// were dropped from the review by the per-review file cap or token budget.
// Returns an empty string when nothing was skipped.
func FormatSkippedFilesNotice(skipped []string) string {
	if len(skipped) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## ⚠️ Incomplete Review\n\n")
	sb.WriteString("> **Warning:** This PR exceeded the review size limits. ")
	sb.WriteString("The following files were not reviewed:\n\n")
	for _, f := range skipped {
		sb.WriteString(fmt.Sprintf("- `%s`\n", escapeMarkdownInlineCode(f)))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// BuildProgrammaticSummary generates the structured header of the review
// body from finding counts: a badge line, the files requiring attention,
// and a findings-by-category table. Only in-diff findings are counted.
//
// When findings exist but none would trigger REQUEST_CHANGES, the header
// opens with "Approved with suggestions" provided the non-blocking action
// actually resolves to APPROVE.
func BuildProgrammaticSummary(findings []PositionedFinding, d domain.Diff, actions ReviewActions) string {
	fileCount := len(d.Files)
	inDiffFindings := filterInDiff(findings)

	counts := countBySeverity(inDiffFindings)
	totalFindings := counts["critical"] + counts["high"] + counts["medium"] + counts["low"]

	if totalFindings == 0 {
		return fmt.Sprintf("✅ **No issues found.** Reviewed %d files.", fileCount)
	}

	var sb strings.Builder

	if DetermineReviewEventWithActions(findings, actions) == EventApprove {
		sb.WriteString("✅ **Approved with suggestions.** ")
	}

	sb.WriteString(formatBadgeLine(fileCount, counts))
	sb.WriteString("\n\n")

	if section := formatFilesRequiringAttention(inDiffFindings, getAttentionSeverities(actions)); section != "" {
		sb.WriteString(section)
		sb.WriteString("\n")
	}

	if table := formatCategoryTable(groupByCategory(inDiffFindings)); table != "" {
		sb.WriteString(table)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// countBySeverity tallies findings for each known severity level.
func countBySeverity(findings []PositionedFinding) map[string]int {
	counts := map[string]int{"critical": 0, "high": 0, "medium": 0, "low": 0}
	for _, pf := range findings {
		severity := strings.ToLower(pf.Finding.Severity)
		if _, ok := counts[severity]; ok {
			counts[severity]++
		}
	}
	return counts
}

// formatBadgeLine renders the counts line, e.g.
// 📊 **Reviewed 12 files** | 🔴 2 critical | 🟠 5 high | 🟡 3 medium | 🟢 1 low
func formatBadgeLine(fileCount int, counts map[string]int) string {
	parts := []string{
		fmt.Sprintf("📊 **Reviewed %d files**", fileCount),
		fmt.Sprintf("🔴 %d critical", counts["critical"]),
		fmt.Sprintf("🟠 %d high", counts["high"]),
		fmt.Sprintf("🟡 %d medium", counts["medium"]),
		fmt.Sprintf("🟢 %d low", counts["low"]),
	}
	return strings.Join(parts, " | ")
}

// formatFilesRequiringAttention lists files with findings at blocking
// severities, sorted by path for deterministic output.
func formatFilesRequiringAttention(findings []PositionedFinding, attentionSeverities map[string]bool) string {
	if len(attentionSeverities) == 0 {
		return ""
	}

	fileFindings := make(map[string]map[string]int)
	for _, pf := range findings {
		severity := strings.ToLower(pf.Finding.Severity)
		if !attentionSeverities[severity] {
			continue
		}

		if fileFindings[pf.Finding.File] == nil {
			fileFindings[pf.Finding.File] = make(map[string]int)
		}
		fileFindings[pf.Finding.File][severity]++
	}

	if len(fileFindings) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Files Requiring Attention\n\n")

	files := make([]string, 0, len(fileFindings))
	for file := range fileFindings {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		counts := fileFindings[file]

		var badges []string
		for _, severity := range severityOrder {
			if count := counts[severity]; count > 0 {
				badges = append(badges, fmt.Sprintf("%d %s", count, severity))
			}
		}

		sb.WriteString(fmt.Sprintf("- `%s` (%s)\n", escapeMarkdownInlineCode(file), strings.Join(badges, ", ")))
	}

	return sb.String()
}

// groupByCategory tallies findings by category, defaulting to "general".
func groupByCategory(findings []PositionedFinding) map[string]int {
	groups := make(map[string]int)
	for _, pf := range findings {
		category := pf.Finding.Category
		if category == "" {
			category = "general"
		}
		groups[category]++
	}
	return groups
}

// formatCategoryTable renders the findings-by-category table, sorted by
// category for deterministic output.
func formatCategoryTable(categoryCounts map[string]int) string {
	if len(categoryCounts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Findings by Category\n\n")
	sb.WriteString("| Category | Count |\n")
	sb.WriteString("|----------|-------|\n")

	categories := make([]string, 0, len(categoryCounts))
	for cat := range categoryCounts {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", escapeMarkdownTableCell(cat), categoryCounts[cat]))
	}

	return sb.String()
}

// escapeMarkdownInlineCode neutralizes characters that would break
// `code` spans.
func escapeMarkdownInlineCode(s string) string {
	s = strings.ReplaceAll(s, "`", "\\`")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// escapeMarkdownTableCell neutralizes characters that would break
// | cell | structure.
func escapeMarkdownTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}

// clampBody truncates a review body that would exceed the API limit,
// keeping the head where the statistics and summary live.
func clampBody(body string) string {
	if len(body) <= maxReviewBodyChars {
		return body
	}
	return body[:maxReviewBodyChars] + "\n\n*(review body truncated)*"
}
