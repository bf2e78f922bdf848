package http

import (
	"maps"
	"sync"
	"time"
)

// Metrics aggregates API call statistics across providers. Implementations
// must be safe for concurrent use; chunk workers record from many goroutines.
type Metrics interface {
	RecordRequest(provider, model string)
	RecordDuration(provider, model string, duration time.Duration)
	RecordTokens(provider, model string, tokensIn, tokensOut int)
	RecordCost(provider, model string, cost float64)
	RecordError(provider, model string, errType ErrorType)
	GetStats() Stats
}

// Stats holds totals across all providers plus a per-provider breakdown.
type Stats struct {
	TotalRequests  int
	TotalTokensIn  int
	TotalTokensOut int
	TotalCost      float64
	TotalDuration  time.Duration
	ErrorCount     int
	ByProvider     map[string]ProviderStats
}

// ProviderStats holds one provider's share of the totals.
type ProviderStats struct {
	Requests  int
	TokensIn  int
	TokensOut int
	Cost      float64
	Duration  time.Duration
	Errors    int
}

// DefaultMetrics is an in-memory Metrics implementation guarded by a mutex.
type DefaultMetrics struct {
	mu    sync.RWMutex
	stats Stats
}

// NewDefaultMetrics creates an empty metrics tracker.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{stats: Stats{ByProvider: make(map[string]ProviderStats)}}
}

// update applies fn to the totals and to the provider's bucket under the
// write lock. Buckets are map values, so each is copied out and written back.
func (m *DefaultMetrics) update(provider string, fn func(total *Stats, ps *ProviderStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps := m.stats.ByProvider[provider]
	fn(&m.stats, &ps)
	m.stats.ByProvider[provider] = ps
}

func (m *DefaultMetrics) RecordRequest(provider, model string) {
	m.update(provider, func(total *Stats, ps *ProviderStats) {
		total.TotalRequests++
		ps.Requests++
	})
}

func (m *DefaultMetrics) RecordDuration(provider, model string, duration time.Duration) {
	m.update(provider, func(total *Stats, ps *ProviderStats) {
		total.TotalDuration += duration
		ps.Duration += duration
	})
}

func (m *DefaultMetrics) RecordTokens(provider, model string, tokensIn, tokensOut int) {
	m.update(provider, func(total *Stats, ps *ProviderStats) {
		total.TotalTokensIn += tokensIn
		total.TotalTokensOut += tokensOut
		ps.TokensIn += tokensIn
		ps.TokensOut += tokensOut
	})
}

func (m *DefaultMetrics) RecordCost(provider, model string, cost float64) {
	m.update(provider, func(total *Stats, ps *ProviderStats) {
		total.TotalCost += cost
		ps.Cost += cost
	})
}

func (m *DefaultMetrics) RecordError(provider, model string, errType ErrorType) {
	m.update(provider, func(total *Stats, ps *ProviderStats) {
		total.ErrorCount++
		ps.Errors++
	})
}

// GetStats returns a snapshot of the current totals. The ByProvider map is
// cloned so callers cannot race with later updates.
func (m *DefaultMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.stats
	out.ByProvider = maps.Clone(m.stats.ByProvider)
	return out
}
