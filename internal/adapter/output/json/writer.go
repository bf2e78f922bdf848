// Package json writes machine-readable review artifacts.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewbotdev/reviewbot/internal/domain"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// Writer persists reviews as JSON files grouped by run.
type Writer struct {
	now func() string
}

var _ review.JSONWriter = (*Writer)(nil)

// NewWriter creates a new JSON writer with a timestamp supplier.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// document is the artifact schema. The review is wrapped with the refs that
// produced it so a file found later says what it reviewed.
type document struct {
	Repository  string        `json:"repository"`
	BaseRef     string        `json:"baseRef"`
	TargetRef   string        `json:"targetRef"`
	GeneratedAt string        `json:"generatedAt"`
	Review      domain.Review `json:"review"`
}

// Write persists a review to disk as a JSON file and returns its path.
func (w *Writer) Write(ctx context.Context, artifact domain.JSONArtifact) (string, error) {
	timestamp := w.now()

	runDir := fmt.Sprintf("%s_%s", sanitise(artifact.Repository), sanitise(artifact.TargetRef))
	outputDir := filepath.Join(artifact.OutputDir, runDir, timestamp)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("review-%s.json", sanitise(artifact.ProviderName)))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	doc := document{
		Repository:  artifact.Repository,
		BaseRef:     artifact.BaseRef,
		TargetRef:   artifact.TargetRef,
		GeneratedAt: timestamp,
		Review:      artifact.Review,
	}
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode review to json: %w", err)
	}

	return path, nil
}

func sanitise(value string) string {
	if value == "" {
		return "unknown"
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "/", "-")
	value = strings.ReplaceAll(value, " ", "-")
	return value
}
