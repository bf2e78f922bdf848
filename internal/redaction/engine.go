// Package redaction strips secrets out of diff content before it
// leaves the process for an LLM provider.
package redaction

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

const placeholderPrefix = "<REDACTED:"

// secretPatterns are applied in declaration order, each against the
// output of the previous one, so redaction is deterministic for a
// given input.
var secretPatterns = []*regexp.Regexp{
	// OpenAI style API keys, length kept flexible for test keys
	regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-]{20,}`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret keys: a quoted 40-char base64ish blob near "aws"
	regexp.MustCompile(`aws.{0,20}?['\"][0-9a-zA-Z/+]{40}['\"]`),
	// GitHub tokens (classic and fine-grained)
	regexp.MustCompile(`gh[posr]_[a-zA-Z0-9]{20,}`),
	regexp.MustCompile(`github_pat_[a-zA-Z0-9_]{36,}`),
	// Google API keys
	regexp.MustCompile(`AIza[0-9A-Za-z\-_]{35}`),
	// JWTs
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
	// PEM private key blocks
	regexp.MustCompile(`-----BEGIN\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----[\s\S]*?-----END\s+(?:RSA|EC|OPENSSH|DSA|ENCRYPTED)\s+PRIVATE\s+KEY-----`),
	// Slack tokens
	regexp.MustCompile(`xox[baprs]-[a-zA-Z0-9\-]{10,}`),
	// Anything presented as a bearer credential
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_\-\.]+`),
}

// Engine performs regex-based secret detection and redaction.
type Engine struct {
	patterns []*regexp.Regexp
}

// NewEngine returns an engine carrying the default secret patterns.
func NewEngine() *Engine {
	return &Engine{patterns: secretPatterns}
}

// Redact replaces every detected secret with a stable placeholder.
// The placeholder is derived from the secret itself, so repeated
// occurrences collapse to the same token and reruns produce identical
// output.
func (e *Engine) Redact(input string) (string, error) {
	out := input
	seen := make(map[string]string)

	for _, pattern := range e.patterns {
		out = pattern.ReplaceAllStringFunc(out, func(secret string) string {
			placeholder, ok := seen[secret]
			if !ok {
				placeholder = placeholderFor(secret)
				seen[secret] = placeholder
			}
			return placeholder
		})
	}

	return out, nil
}

// IsRedacted reports whether content carries redaction placeholders.
func (e *Engine) IsRedacted(content string) bool {
	return strings.Contains(content, placeholderPrefix)
}

func placeholderFor(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return placeholderPrefix + hex.EncodeToString(sum[:])[:8] + ">"
}
