package http

import (
	"time"

	"github.com/reviewbotdev/reviewbot/internal/config"
)

// ParseTimeout resolves the request timeout from the provider override, the
// global HTTP setting, and the built-in default, in that order. The result
// is never negative; http.Client treats negative timeouts as invalid.
func ParseTimeout(providerOverride *string, globalTimeout string, defaultVal time.Duration) time.Duration {
	if defaultVal < 0 {
		defaultVal = 60 * time.Second
	}
	return durationOr(defaultVal, deref(providerOverride), globalTimeout)
}

// BuildRetryConfig assembles retry settings, letting per-provider overrides
// shadow the global HTTP config.
func BuildRetryConfig(provider config.ProviderConfig, httpCfg config.HTTPConfig) RetryConfig {
	maxRetries := httpCfg.MaxRetries
	if provider.MaxRetries != nil {
		maxRetries = *provider.MaxRetries
	}

	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: durationOr(2*time.Second, deref(provider.InitialBackoff), httpCfg.InitialBackoff),
		MaxBackoff:     durationOr(32*time.Second, deref(provider.MaxBackoff), httpCfg.MaxBackoff),
		Multiplier:     httpCfg.BackoffMultiplier,
	}
}

// durationOr returns the first candidate that parses as a non-negative
// duration, or fallback when none does. Empty and malformed candidates are
// skipped rather than treated as errors; config strings come from files and
// environment variables.
func durationOr(fallback time.Duration, candidates ...string) time.Duration {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if d, err := time.ParseDuration(c); err == nil && d >= 0 {
			return d
		}
	}
	return fallback
}

// deref unwraps an optional config string, treating nil as unset.
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
