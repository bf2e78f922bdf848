package observability_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"
	"time"

	llmhttp "github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/reviewbotdev/reviewbot/internal/adapter/observability"
	"github.com/reviewbotdev/reviewbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestReviewLogger_LogWarning(t *testing.T) {
	buf := captureLog(t)

	backend := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	logger := observability.NewReviewLogger(backend)

	logger.LogWarning(context.Background(), "failed to save review", map[string]interface{}{
		"runID":    "run-123",
		"provider": "openai",
		"error":    "database connection failed",
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "failed to save review")
	assert.Contains(t, output, "runID=run-123")
	assert.Contains(t, output, "provider=openai")
	assert.Contains(t, output, "error=database connection failed")
}

func TestReviewLogger_LogInfo(t *testing.T) {
	buf := captureLog(t)

	backend := llmhttp.NewDefaultLogger(llmhttp.LogLevelInfo, llmhttp.LogFormatHuman, true)
	logger := observability.NewReviewLogger(backend)

	logger.LogInfo(context.Background(), "review completed", map[string]interface{}{
		"runID":     "run-456",
		"provider":  "anthropic",
		"totalCost": 0.05,
	})

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "review completed")
	assert.Contains(t, output, "runID=run-456")
	assert.Contains(t, output, "totalCost=0.05")
}

func TestNewLoggerFromConfig_Disabled(t *testing.T) {
	logger := observability.NewLoggerFromConfig(config.LoggingConfig{Enabled: false})
	assert.Nil(t, logger)
}

func TestNewLoggerFromConfig_ErrorLevelSuppressesInfo(t *testing.T) {
	buf := captureLog(t)

	logger := observability.NewLoggerFromConfig(config.LoggingConfig{
		Enabled: true,
		Level:   "error",
		Format:  "human",
	})
	require.NotNil(t, logger)

	logger.LogInfo(context.Background(), "should not appear", nil)
	assert.Empty(t, buf.String())
}

func TestNewLoggerFromConfig_DebugJSON(t *testing.T) {
	buf := captureLog(t)

	logger := observability.NewLoggerFromConfig(config.LoggingConfig{
		Enabled:       true,
		Level:         "debug",
		Format:        "json",
		RedactAPIKeys: true,
	})
	require.NotNil(t, logger)

	logger.LogRequest(context.Background(), llmhttp.RequestLog{
		Provider:    "openai",
		Model:       "gpt-4",
		Timestamp:   time.Now(),
		PromptChars: 42,
		APIKey:      "sk-secret-key-1234",
	})

	output := buf.String()
	assert.Contains(t, output, `"level":"debug"`)
	assert.Contains(t, output, `"provider":"openai"`)
	assert.Contains(t, output, "[REDACTED-1234]")
	assert.NotContains(t, output, "sk-secret-key-1234")
}

func TestNewLoggerFromConfig_UnknownLevelDefaultsToInfo(t *testing.T) {
	buf := captureLog(t)

	logger := observability.NewLoggerFromConfig(config.LoggingConfig{
		Enabled: true,
		Level:   "verbose",
		Format:  "human",
	})
	require.NotNil(t, logger)

	logger.LogInfo(context.Background(), "info still logs", nil)
	assert.Contains(t, buf.String(), "info still logs")
}
