// Package static provides a no-network LLM provider that always returns
// the same canned review. It exists so the review pipeline can be
// exercised end to end (in CI and locally) without API keys or cost.
package static
