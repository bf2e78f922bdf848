package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"
)

// Logger receives structured records for each provider API call.
type Logger interface {
	LogRequest(ctx context.Context, req RequestLog)
	LogResponse(ctx context.Context, resp ResponseLog)
	LogError(ctx context.Context, err ErrorLog)
}

// RequestLog describes an outgoing API request.
type RequestLog struct {
	Provider    string
	Model       string
	Timestamp   time.Time
	PromptChars int
	APIKey      string // reduced to its last 4 characters before logging
}

// ResponseLog describes a completed API call.
type ResponseLog struct {
	Provider     string
	Model        string
	Timestamp    time.Time
	Duration     time.Duration
	TokensIn     int
	TokensOut    int
	Cost         float64
	StatusCode   int
	FinishReason string
}

// ErrorLog describes a failed API call.
type ErrorLog struct {
	Provider   string
	Model      string
	Timestamp  time.Time
	Duration   time.Duration
	Error      error
	ErrorType  ErrorType
	StatusCode int
	Retryable  bool
}

// LogLevel sets the minimum severity that gets emitted.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat selects between human-readable and JSON lines.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes through the standard log package, one line per event.
type DefaultLogger struct {
	level      LogLevel
	redactKeys bool
	format     LogFormat
}

// NewDefaultLogger creates a logger with the given level, format, and key
// redaction setting.
func NewDefaultLogger(level LogLevel, format LogFormat, redactKeys bool) *DefaultLogger {
	return &DefaultLogger{level: level, format: format, redactKeys: redactKeys}
}

// SetRedaction enables or disables API key redaction.
func (l *DefaultLogger) SetRedaction(enabled bool) {
	l.redactKeys = enabled
}

// LogRequest emits a debug-level record for an outgoing request.
func (l *DefaultLogger) LogRequest(ctx context.Context, req RequestLog) {
	if l.level > LogLevelDebug {
		return
	}

	key := l.RedactAPIKey(req.APIKey)
	if l.format == LogFormatJSON {
		l.emitJSON(map[string]any{
			"level":        "debug",
			"type":         "request",
			"provider":     req.Provider,
			"model":        req.Model,
			"timestamp":    req.Timestamp.Format(time.RFC3339),
			"prompt_chars": req.PromptChars,
			"api_key":      key,
		})
		return
	}
	log.Printf("[DEBUG] %s/%s: Request sent (prompt=%d chars, key=%s)",
		req.Provider, req.Model, req.PromptChars, key)
}

// LogResponse emits an info-level record with timing, tokens, and cost.
func (l *DefaultLogger) LogResponse(ctx context.Context, resp ResponseLog) {
	if l.level > LogLevelInfo {
		return
	}

	if l.format == LogFormatJSON {
		l.emitJSON(map[string]any{
			"level":         "info",
			"type":          "response",
			"provider":      resp.Provider,
			"model":         resp.Model,
			"timestamp":     resp.Timestamp.Format(time.RFC3339),
			"duration_ms":   resp.Duration.Milliseconds(),
			"tokens_in":     resp.TokensIn,
			"tokens_out":    resp.TokensOut,
			"cost":          resp.Cost,
			"status_code":   resp.StatusCode,
			"finish_reason": resp.FinishReason,
		})
		return
	}
	log.Printf("[INFO] %s/%s: Response received (duration=%.1fs, tokens=%d/%d, cost=$%.4f)",
		resp.Provider, resp.Model, resp.Duration.Seconds(),
		resp.TokensIn, resp.TokensOut, resp.Cost)
}

// LogError emits an error-level record. The message is capped because
// provider errors can echo response bodies.
func (l *DefaultLogger) LogError(ctx context.Context, entry ErrorLog) {
	if l.level > LogLevelError {
		return
	}

	msg := TruncateForLogging(entry.Error.Error())
	if l.format == LogFormatJSON {
		l.emitJSON(map[string]any{
			"level":       "error",
			"type":        "error",
			"provider":    entry.Provider,
			"model":       entry.Model,
			"timestamp":   entry.Timestamp.Format(time.RFC3339),
			"duration_ms": entry.Duration.Milliseconds(),
			"error":       msg,
			"error_type":  int(entry.ErrorType),
			"status_code": entry.StatusCode,
			"retryable":   entry.Retryable,
		})
		return
	}

	retryable := "non-retryable"
	if entry.Retryable {
		retryable = "retryable"
	}
	log.Printf("[ERROR] %s/%s: API call failed (status=%d, %s): %s",
		entry.Provider, entry.Model, entry.StatusCode, retryable, msg)
}

// LogWarning logs a warning with structured fields. Suppressed when the
// level is errors only.
func (l *DefaultLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.logEvent("warning", "[WARN]", message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *DefaultLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.logEvent("info", "[INFO]", message, fields)
}

func (l *DefaultLogger) logEvent(level, prefix, message string, fields map[string]interface{}) {
	if l.format == LogFormatJSON {
		payload := make(map[string]any, len(fields)+3)
		maps.Copy(payload, fields)
		payload["level"] = level
		payload["message"] = message
		payload["timestamp"] = time.Now().Format(time.RFC3339)
		l.emitJSON(payload)
		return
	}

	line := prefix + " " + message
	if len(fields) > 0 {
		// Sorted keys keep human output stable across runs.
		pairs := make([]string, 0, len(fields))
		for _, k := range slices.Sorted(maps.Keys(fields)) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		line += " " + strings.Join(pairs, " ")
	}
	log.Print(line)
}

func (l *DefaultLogger) emitJSON(payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf(`{"level":"error","message":"failed to marshal log entry"}`)
		return
	}
	log.Printf("%s", data)
}

// RedactAPIKey keeps only the last 4 characters of a key. Keys too short to
// sample safely are fully masked.
func (l *DefaultLogger) RedactAPIKey(key string) string {
	if !l.redactKeys {
		return key
	}
	if len(key) <= 4 {
		return "[REDACTED]"
	}
	return "[REDACTED-" + key[len(key)-4:] + "]"
}
