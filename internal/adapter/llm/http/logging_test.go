package http_test

import (
	"strings"
	"testing"

	"github.com/reviewbotdev/reviewbot/internal/adapter/llm/http"
	"github.com/stretchr/testify/assert"
)

func TestTruncateForLogging(t *testing.T) {
	atLimit := strings.Repeat("x", http.MaxLoggedResponseLength)

	tests := []struct {
		name      string
		input     string
		truncated bool
	}{
		{"empty", "", false},
		{"short review response", `{"summary": "fine", "findings": []}`, false},
		{"exactly at the limit", atLimit, false},
		{"one past the limit", atLimit + "x", true},
		{"full model response", strings.Repeat("finding detail ", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := http.TruncateForLogging(tt.input)

			if !tt.truncated {
				assert.Equal(t, tt.input, got)
				return
			}

			assert.True(t, strings.HasPrefix(got, tt.input[:http.MaxLoggedResponseLength]))
			assert.Contains(t, got, "truncated")
			assert.Contains(t, got, "total length=")
		})
	}
}

func TestTruncateForLogging_ReportsOriginalLength(t *testing.T) {
	got := http.TruncateForLogging(strings.Repeat("y", 500))
	assert.Contains(t, got, "total length=500 bytes")
}

func TestTruncateForLogging_CutsTrailingSecrets(t *testing.T) {
	// Diff content echoed by the model sits past the truncation point and
	// must not reach the logs.
	response := strings.Repeat("z", http.MaxLoggedResponseLength) +
		`password := "hunter2-not-a-real-password"`

	got := http.TruncateForLogging(response)
	assert.NotContains(t, got, "hunter2")
}

func TestRedactURLSecrets(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantGone    []string
		wantPresent []string
	}{
		{
			name:        "key query parameter",
			input:       "https://gateway.example.net/v1/chat/completions?key=sk-proj-fakekeyfakekeyfake01",
			wantGone:    []string{"sk-proj-fakekeyfakekeyfake01"},
			wantPresent: []string{"key=[REDACTED]", "gateway.example.net"},
		},
		{
			name:        "mixed sensitive and plain parameters",
			input:       "https://api.example.com/review?key=fake-one&page=2&apiKey=fake-two",
			wantGone:    []string{"fake-one", "fake-two"},
			wantPresent: []string{"page=2", "key=[REDACTED]", "apiKey=[REDACTED]"},
		},
		{
			name:        "access token",
			input:       "https://api.github.example/repos/acme/widgets/pulls?access_token=ghs_faketoken2912E7710c8383",
			wantGone:    []string{"ghs_faketoken2912E7710c8383"},
			wantPresent: []string{"access_token=[REDACTED]"},
		},
		{
			name:        "wrapped go http error",
			input:       `Post "https://gateway.example.net/v1/messages?key=sk-ant-fakefakefake": context deadline exceeded`,
			wantGone:    []string{"sk-ant-fakefakefake"},
			wantPresent: []string{"key=[REDACTED]", "context deadline exceeded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := http.RedactURLSecrets(tt.input)
			for _, s := range tt.wantGone {
				assert.NotContains(t, got, s)
			}
			for _, s := range tt.wantPresent {
				assert.Contains(t, got, s)
			}
		})
	}
}

func TestRedactURLSecrets_LeavesCleanTextAlone(t *testing.T) {
	for _, input := range []string{
		"",
		"https://api.example.com/healthz",
		"https://api.example.com/search?q=golang&page=3",
	} {
		assert.Equal(t, input, http.RedactURLSecrets(input))
	}
}
