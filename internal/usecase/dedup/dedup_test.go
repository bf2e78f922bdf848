package dedup

import (
	"testing"

	"github.com/reviewbotdev/reviewbot/internal/domain"
)

func makeFinding(file string, start, end int, severity, category, description string) domain.Finding {
	return domain.Finding{
		File:        file,
		LineStart:   start,
		LineEnd:     end,
		Severity:    severity,
		Category:    category,
		Description: description,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SimilarityThreshold != 0.85 {
		t.Errorf("SimilarityThreshold = %v, want 0.85", cfg.SimilarityThreshold)
	}
	if cfg.LineThreshold != 10 {
		t.Errorf("LineThreshold = %d, want 10", cfg.LineThreshold)
	}
	if cfg.MaxCandidates != 200 {
		t.Errorf("MaxCandidates = %d, want 200", cfg.MaxCandidates)
	}
}

func TestDeduplicate_FingerprintMatch(t *testing.T) {
	posted := makeFinding("handler.go", 10, 12, "high", "security", "SQL injection in query builder")
	fresh := makeFinding("handler.go", 40, 41, "low", "style", "inconsistent receiver name")

	known := map[domain.FindingFingerprint]bool{
		posted.Fingerprint(): true,
	}

	result := Deduplicate([]domain.Finding{posted, fresh}, known, nil, DefaultConfig())

	if len(result.Unique) != 1 || result.Unique[0].Description != fresh.Description {
		t.Fatalf("Unique = %+v, want only the fresh finding", result.Unique)
	}
	if len(result.Duplicates) != 1 {
		t.Fatalf("Duplicates = %+v, want one match", result.Duplicates)
	}

	dup := result.Duplicates[0]
	if dup.Reason != ReasonFingerprint {
		t.Errorf("Reason = %q, want %q", dup.Reason, ReasonFingerprint)
	}
	if dup.ExistingFingerprint != posted.Fingerprint() {
		t.Errorf("ExistingFingerprint = %q, want %q", dup.ExistingFingerprint, posted.Fingerprint())
	}
	if dup.Similarity != 1 {
		t.Errorf("Similarity = %v, want 1", dup.Similarity)
	}
}

func TestDeduplicate_RepeatWithinRun(t *testing.T) {
	// Same issue reported twice at different lines. Fingerprints ignore
	// line numbers, so the second report is a repeat.
	first := makeFinding("handler.go", 10, 12, "high", "security", "SQL injection in query builder")
	second := makeFinding("handler.go", 95, 97, "high", "security", "SQL injection in query builder")

	result := Deduplicate([]domain.Finding{first, second}, nil, nil, DefaultConfig())

	if len(result.Unique) != 1 || result.Unique[0].LineStart != 10 {
		t.Fatalf("Unique = %+v, want only the first report", result.Unique)
	}
	if len(result.Duplicates) != 1 || result.Duplicates[0].Reason != ReasonRepeat {
		t.Fatalf("Duplicates = %+v, want one repeat match", result.Duplicates)
	}
}

func TestDeduplicate_SimilarityThresholdBoundary(t *testing.T) {
	// "one two three four" vs "one two three five" has a diff ratio of
	// exactly 0.75: six matched tokens out of eight.
	existing := []ExistingFinding{
		{
			Fingerprint: "abc123",
			File:        "io.go",
			LineStart:   10,
			LineEnd:     12,
			Description: "one two three four",
		},
	}
	fresh := makeFinding("io.go", 11, 13, "medium", "correctness", "one two three five")

	tests := []struct {
		name      string
		threshold float64
		wantDup   bool
	}{
		{name: "at threshold", threshold: 0.75, wantDup: true},
		{name: "just above threshold", threshold: 0.7501, wantDup: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				SimilarityThreshold: tt.threshold,
				LineThreshold:       10,
				MaxCandidates:       50,
			}

			result := Deduplicate([]domain.Finding{fresh}, nil, existing, cfg)

			if tt.wantDup {
				if len(result.Duplicates) != 1 {
					t.Fatalf("Duplicates = %+v, want one similarity match", result.Duplicates)
				}
				dup := result.Duplicates[0]
				if dup.Reason != ReasonSimilarity {
					t.Errorf("Reason = %q, want %q", dup.Reason, ReasonSimilarity)
				}
				if dup.ExistingFingerprint != "abc123" {
					t.Errorf("ExistingFingerprint = %q, want abc123", dup.ExistingFingerprint)
				}
				if dup.Similarity != 0.75 {
					t.Errorf("Similarity = %v, want 0.75", dup.Similarity)
				}
				return
			}

			if len(result.Unique) != 1 || len(result.Duplicates) != 0 {
				t.Fatalf("result = %+v, want the finding kept", result)
			}
		})
	}
}

func TestDeduplicate_DifferentFileStaysUnique(t *testing.T) {
	existing := []ExistingFinding{
		{File: "other.go", LineStart: 10, LineEnd: 12, Description: "unchecked error return"},
	}
	fresh := makeFinding("io.go", 10, 12, "medium", "correctness", "unchecked error return")

	result := Deduplicate([]domain.Finding{fresh}, nil, existing, DefaultConfig())

	if len(result.Unique) != 1 || len(result.Duplicates) != 0 {
		t.Fatalf("result = %+v, want the finding kept", result)
	}
}

func TestDeduplicate_FarLinesStayUnique(t *testing.T) {
	// Identical wording hundreds of lines apart is likely a distinct
	// instance of the same mistake, not a repeat of old feedback.
	existing := []ExistingFinding{
		{File: "io.go", LineStart: 10, LineEnd: 12, Description: "unchecked error return"},
	}
	fresh := makeFinding("io.go", 400, 402, "medium", "correctness", "unchecked error return")

	result := Deduplicate([]domain.Finding{fresh}, nil, existing, DefaultConfig())

	if len(result.Unique) != 1 || len(result.Duplicates) != 0 {
		t.Fatalf("result = %+v, want the finding kept", result)
	}
}

func TestDeduplicate_BestMatchWins(t *testing.T) {
	existing := []ExistingFinding{
		{Fingerprint: "weak", File: "io.go", LineStart: 8, LineEnd: 9, Description: "one two three four five six seven eight"},
		{Fingerprint: "strong", File: "io.go", LineStart: 14, LineEnd: 15, Description: "response body is never closed"},
	}
	fresh := makeFinding("io.go", 10, 12, "high", "correctness", "response body is never closed")

	result := Deduplicate([]domain.Finding{fresh}, nil, existing, DefaultConfig())

	if len(result.Duplicates) != 1 {
		t.Fatalf("Duplicates = %+v, want one match", result.Duplicates)
	}
	if got := result.Duplicates[0].ExistingFingerprint; got != "strong" {
		t.Errorf("ExistingFingerprint = %q, want the closest match", got)
	}
	if result.Duplicates[0].Similarity != 1 {
		t.Errorf("Similarity = %v, want 1", result.Duplicates[0].Similarity)
	}
}

func TestDeduplicate_ZeroThresholdDisablesSimilarity(t *testing.T) {
	existing := []ExistingFinding{
		{File: "io.go", LineStart: 10, LineEnd: 12, Description: "unchecked error return"},
	}
	fresh := makeFinding("io.go", 10, 12, "medium", "correctness", "unchecked error return")

	cfg := Config{SimilarityThreshold: 0, LineThreshold: 10, MaxCandidates: 50}
	result := Deduplicate([]domain.Finding{fresh}, nil, existing, cfg)

	if len(result.Unique) != 1 || len(result.Duplicates) != 0 {
		t.Fatalf("result = %+v, want similarity stage disabled", result)
	}
}

func TestDeduplicate_OverflowKept(t *testing.T) {
	existing := []ExistingFinding{
		{File: "a.go", LineStart: 10, LineEnd: 10, Description: "duplicate alpha"},
		{File: "a.go", LineStart: 50, LineEnd: 50, Description: "duplicate beta"},
	}
	findings := []domain.Finding{
		makeFinding("a.go", 10, 10, "low", "style", "duplicate alpha"),
		makeFinding("a.go", 50, 50, "low", "style", "duplicate beta"),
	}

	cfg := Config{SimilarityThreshold: 0.85, LineThreshold: 10, MaxCandidates: 1}
	result := Deduplicate(findings, nil, existing, cfg)

	if len(result.Duplicates) != 1 || result.Duplicates[0].Finding.Description != "duplicate alpha" {
		t.Fatalf("Duplicates = %+v, want only the first finding matched", result.Duplicates)
	}
	if len(result.Unique) != 1 || result.Unique[0].Description != "duplicate beta" {
		t.Fatalf("Unique = %+v, want the overflow finding kept", result.Unique)
	}
}

func TestDeduplicate_PreservesOrder(t *testing.T) {
	findings := []domain.Finding{
		makeFinding("a.go", 10, 10, "high", "security", "finding alpha"),
		makeFinding("b.go", 20, 20, "low", "style", "finding beta"),
		makeFinding("c.go", 30, 30, "medium", "performance", "finding gamma"),
	}

	result := Deduplicate(findings, nil, nil, DefaultConfig())

	if len(result.Unique) != 3 {
		t.Fatalf("Unique = %+v, want all findings kept", result.Unique)
	}
	for i, want := range []string{"finding alpha", "finding beta", "finding gamma"} {
		if result.Unique[i].Description != want {
			t.Errorf("Unique[%d].Description = %q, want %q", i, result.Unique[i].Description, want)
		}
	}
}

func TestDeduplicate_EmptyInput(t *testing.T) {
	result := Deduplicate(nil, nil, nil, DefaultConfig())

	if len(result.Unique) != 0 || len(result.Duplicates) != 0 {
		t.Fatalf("result = %+v, want empty", result)
	}
}
