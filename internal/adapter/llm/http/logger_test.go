package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog redirects the standard logger to a buffer for the duration
// of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

// decodeLogJSON strips the log package's date prefix and unmarshals the
// remaining JSON payload.
func decodeLogJSON(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	start := strings.Index(line, "{")
	require.NotEqual(t, -1, start, "log line carries no JSON payload: %q", line)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line[start:]), &payload))
	return payload
}

func TestDefaultLogger_RedactAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"openai key", "sk-proj-fake1234567890wxyz", "[REDACTED-wxyz]"},
		{"anthropic key", "sk-ant-api03-fake890abcd", "[REDACTED-abcd]"},
		{"github token", "ghp_fake567890token4321", "[REDACTED-4321]"},
		{"too short to sample", "abc", "[REDACTED]"},
		{"exactly four chars", "abcd", "[REDACTED]"},
		{"empty", "", "[REDACTED]"},
	}

	logger := http.NewDefaultLogger(http.LogLevelDebug, http.LogFormatHuman, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.RedactAPIKey(tt.key))
		})
	}
}

func TestDefaultLogger_RedactionDisabled(t *testing.T) {
	logger := http.NewDefaultLogger(http.LogLevelDebug, http.LogFormatHuman, false)
	assert.Equal(t, "sk-proj-fake1234", logger.RedactAPIKey("sk-proj-fake1234"))

	logger.SetRedaction(true)
	assert.Equal(t, "[REDACTED-1234]", logger.RedactAPIKey("sk-proj-fake1234"))
}

func TestDefaultLogger_LogRequest_Human(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelDebug, http.LogFormatHuman, true)
	logger.LogRequest(context.Background(), http.RequestLog{
		Provider:    "anthropic",
		Model:       "claude-3-5-sonnet-20241022",
		Timestamp:   time.Now(),
		PromptChars: 18432,
		APIKey:      "sk-ant-api03-fake890abcd",
	})

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] anthropic/claude-3-5-sonnet-20241022")
	assert.Contains(t, out, "prompt=18432 chars")
	assert.Contains(t, out, "[REDACTED-abcd]")
	assert.NotContains(t, out, "sk-ant-api03-fake890abcd")
}

func TestDefaultLogger_LogRequest_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelDebug, http.LogFormatJSON, true)
	logger.LogRequest(context.Background(), http.RequestLog{
		Provider:    "openai",
		Model:       "gpt-4",
		Timestamp:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		PromptChars: 7301,
		APIKey:      "sk-proj-fake1234567890wxyz",
	})

	payload := decodeLogJSON(t, buf.String())
	assert.Equal(t, "debug", payload["level"])
	assert.Equal(t, "request", payload["type"])
	assert.Equal(t, "openai", payload["provider"])
	assert.Equal(t, "gpt-4", payload["model"])
	assert.Equal(t, float64(7301), payload["prompt_chars"])
	assert.Equal(t, "[REDACTED-wxyz]", payload["api_key"])
}

func TestDefaultLogger_LogResponse_Human(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatHuman, true)
	logger.LogResponse(context.Background(), http.ResponseLog{
		Provider:     "openai",
		Model:        "gpt-4o-mini",
		Timestamp:    time.Now(),
		Duration:     2300 * time.Millisecond,
		TokensIn:     5120,
		TokensOut:    840,
		Cost:         0.0013,
		StatusCode:   200,
		FinishReason: "stop",
	})

	out := buf.String()
	assert.Contains(t, out, "[INFO] openai/gpt-4o-mini")
	assert.Contains(t, out, "duration=2.3s")
	assert.Contains(t, out, "tokens=5120/840")
	assert.Contains(t, out, "cost=$0.0013")
}

func TestDefaultLogger_LogResponse_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatJSON, true)
	logger.LogResponse(context.Background(), http.ResponseLog{
		Provider:     "anthropic",
		Model:        "claude-3-5-haiku-20241022",
		Timestamp:    time.Date(2026, 3, 14, 9, 0, 2, 0, time.UTC),
		Duration:     1750 * time.Millisecond,
		TokensIn:     2048,
		TokensOut:    512,
		Cost:         0.00368,
		StatusCode:   200,
		FinishReason: "end_turn",
	})

	payload := decodeLogJSON(t, buf.String())
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "response", payload["type"])
	assert.Equal(t, float64(1750), payload["duration_ms"])
	assert.Equal(t, float64(2048), payload["tokens_in"])
	assert.Equal(t, float64(512), payload["tokens_out"])
	assert.Equal(t, float64(200), payload["status_code"])
	assert.Equal(t, "end_turn", payload["finish_reason"])
	assert.InDelta(t, 0.00368, payload["cost"].(float64), 1e-9)
}

func TestDefaultLogger_LogError_Human(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelError, http.LogFormatHuman, true)
	logger.LogError(context.Background(), http.ErrorLog{
		Provider:   "openai",
		Model:      "gpt-4",
		Timestamp:  time.Now(),
		Duration:   31 * time.Second,
		Error:      errors.New("request timed out"),
		ErrorType:  http.ErrTypeTimeout,
		StatusCode: 0,
		Retryable:  true,
	})

	out := buf.String()
	assert.Contains(t, out, "[ERROR] openai/gpt-4")
	assert.Contains(t, out, "retryable")
	assert.NotContains(t, out, "non-retryable")
	assert.Contains(t, out, "request timed out")
}

func TestDefaultLogger_LogError_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelError, http.LogFormatJSON, true)
	logger.LogError(context.Background(), http.ErrorLog{
		Provider:   "anthropic",
		Model:      "claude-3-5-sonnet-20241022",
		Timestamp:  time.Date(2026, 3, 14, 9, 1, 0, 0, time.UTC),
		Duration:   400 * time.Millisecond,
		Error:      errors.New("overloaded_error"),
		ErrorType:  http.ErrTypeRateLimit,
		StatusCode: 529,
		Retryable:  true,
	})

	payload := decodeLogJSON(t, buf.String())
	assert.Equal(t, "error", payload["level"])
	assert.Equal(t, "overloaded_error", payload["error"])
	assert.Equal(t, float64(529), payload["status_code"])
	assert.Equal(t, true, payload["retryable"])
}

func TestDefaultLogger_LevelGates(t *testing.T) {
	request := http.RequestLog{Provider: "openai", Model: "gpt-4", APIKey: "sk-x"}
	response := http.ResponseLog{Provider: "openai", Model: "gpt-4"}
	errLog := http.ErrorLog{Provider: "openai", Model: "gpt-4", Error: errors.New("boom")}

	tests := []struct {
		name  string
		level http.LogLevel
		emit  func(l *http.DefaultLogger)
		want  bool
	}{
		{"request at debug", http.LogLevelDebug, func(l *http.DefaultLogger) { l.LogRequest(context.Background(), request) }, true},
		{"request suppressed at info", http.LogLevelInfo, func(l *http.DefaultLogger) { l.LogRequest(context.Background(), request) }, false},
		{"response at info", http.LogLevelInfo, func(l *http.DefaultLogger) { l.LogResponse(context.Background(), response) }, true},
		{"response suppressed at error", http.LogLevelError, func(l *http.DefaultLogger) { l.LogResponse(context.Background(), response) }, false},
		{"error always emitted", http.LogLevelError, func(l *http.DefaultLogger) { l.LogError(context.Background(), errLog) }, true},
		{"warning suppressed at error", http.LogLevelError, func(l *http.DefaultLogger) {
			l.LogWarning(context.Background(), "tracking update failed", nil)
		}, false},
		{"info suppressed at error", http.LogLevelError, func(l *http.DefaultLogger) {
			l.LogInfo(context.Background(), "review complete", nil)
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			tt.emit(http.NewDefaultLogger(tt.level, http.LogFormatHuman, true))
			if tt.want {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestDefaultLogger_LogWarning_Human(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatHuman, true)
	logger.LogWarning(context.Background(), "stale review dismissal failed", map[string]interface{}{
		"pr":     42,
		"repo":   "acme/widgets",
		"reason": "HTTP 422",
	})

	out := buf.String()
	assert.Contains(t, out, "[WARN] stale review dismissal failed")
	// Field order is sorted for stable output.
	assert.Contains(t, out, "pr=42 reason=HTTP 422 repo=acme/widgets")
}

func TestDefaultLogger_LogWarning_Human_NoFields(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatHuman, true)
	logger.LogWarning(context.Background(), "store unavailable", nil)

	out := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(out, "[WARN] store unavailable"),
		"unexpected line: %q", out)
}

func TestDefaultLogger_LogInfo_Human(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatHuman, true)
	logger.LogInfo(context.Background(), "review posted", map[string]interface{}{
		"findings": 3,
		"event":    "COMMENT",
	})

	out := buf.String()
	assert.Contains(t, out, "[INFO] review posted")
	assert.Contains(t, out, "event=COMMENT findings=3")
}

func TestDefaultLogger_LogWarning_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatJSON, true)
	logger.LogWarning(context.Background(), "chunk review failed", map[string]interface{}{
		"chunk": 2,
		"error": "status 500",
	})

	payload := decodeLogJSON(t, buf.String())
	assert.Equal(t, "warning", payload["level"])
	assert.Equal(t, "chunk review failed", payload["message"])
	assert.Equal(t, float64(2), payload["chunk"])
	assert.Equal(t, "status 500", payload["error"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestDefaultLogger_LogInfo_JSON(t *testing.T) {
	buf := captureLog(t)

	logger := http.NewDefaultLogger(http.LogLevelInfo, http.LogFormatJSON, true)
	logger.LogInfo(context.Background(), "artifacts written", map[string]interface{}{
		"markdown": "out/review.md",
		"json":     "out/review.json",
	})

	payload := decodeLogJSON(t, buf.String())
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "artifacts written", payload["message"])
	assert.Equal(t, "out/review.md", payload["markdown"])
	assert.Equal(t, "out/review.json", payload["json"])
}
