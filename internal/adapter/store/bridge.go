// Package store adapts the history store to the orchestrator's port.
package store

import (
	"context"

	"github.com/reviewbotdev/reviewbot/internal/store"
	"github.com/reviewbotdev/reviewbot/internal/usecase/review"
)

// Bridge adapts store.Store to the review.Store port. The usecase
// declares its own record types so it never imports the storage layer.
// Both sets of types are field-identical, which keeps the conversions
// below direct and compiler-checked: if either side drifts, this
// package stops compiling.
type Bridge struct {
	store store.Store
}

var _ review.Store = (*Bridge)(nil)

// NewBridge wraps a storage implementation in the usecase port.
func NewBridge(s store.Store) *Bridge {
	return &Bridge{store: s}
}

func (b *Bridge) CreateRun(ctx context.Context, run review.StoreRun) error {
	return b.store.CreateRun(ctx, store.Run(run))
}

func (b *Bridge) UpdateRunCost(ctx context.Context, runID string, totalCost float64) error {
	return b.store.UpdateRunCost(ctx, runID, totalCost)
}

func (b *Bridge) SaveReview(ctx context.Context, rec review.StoreReview) error {
	return b.store.SaveReview(ctx, store.ReviewRecord(rec))
}

func (b *Bridge) SaveFindings(ctx context.Context, findings []review.StoreFinding) error {
	records := make([]store.FindingRecord, len(findings))
	for i, f := range findings {
		records[i] = store.FindingRecord(f)
	}
	return b.store.SaveFindings(ctx, records)
}

// Close closes the underlying store.
func (b *Bridge) Close() error {
	return b.store.Close()
}
