// Package observability wires the shared logging backend into the ports the
// rest of the pipeline consumes.
package observability

import (
	"context"

	llmhttp "github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/reviewbotdev/reviewbot/internal/config"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// StructuredLogger is the slice of the logging backend the orchestrator uses.
type StructuredLogger interface {
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}

// ReviewLogger adapts the structured logger to the review.Logger port so the
// pipeline and the LLM HTTP clients log through one backend.
type ReviewLogger struct {
	logger StructuredLogger
}

var _ review.Logger = (*ReviewLogger)(nil)

// NewReviewLogger creates a new review logger adapter.
func NewReviewLogger(logger StructuredLogger) *ReviewLogger {
	return &ReviewLogger{logger: logger}
}

// LogWarning records a recoverable problem with structured fields.
func (l *ReviewLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogInfo records pipeline progress with structured fields.
func (l *ReviewLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}

// NewLoggerFromConfig builds the process-wide structured logger from the
// observability settings. Returns nil when logging is disabled; consumers
// treat a nil logger as off.
func NewLoggerFromConfig(cfg config.LoggingConfig) *llmhttp.DefaultLogger {
	if !cfg.Enabled {
		return nil
	}

	level := llmhttp.LogLevelInfo
	switch cfg.Level {
	case "debug":
		level = llmhttp.LogLevelDebug
	case "error":
		level = llmhttp.LogLevelError
	}

	format := llmhttp.LogFormatHuman
	if cfg.Format == "json" {
		format = llmhttp.LogFormatJSON
	}

	return llmhttp.NewDefaultLogger(level, format, cfg.RedactAPIKeys)
}
