package review

import "context"

// Logger provides structured logging for the review pipeline without tying
// the use case to a concrete logging implementation. The observability
// adapter bridges this to the real logger.
type Logger interface {
	// LogWarning records a recoverable problem with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo records pipeline progress with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}
