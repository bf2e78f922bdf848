// Package store defines the review history persistence contract and the
// ID scheme shared by every implementation.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store persists review runs and their findings. A run owns its
// reviews and a review owns its findings; implementations cascade
// deletes down that chain.
type Store interface {
	CreateRun(ctx context.Context, run Run) error
	UpdateRunCost(ctx context.Context, runID string, totalCost float64) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	SaveReview(ctx context.Context, review ReviewRecord) error
	GetReviewsByRun(ctx context.Context, runID string) ([]ReviewRecord, error)

	SaveFindings(ctx context.Context, findings []FindingRecord) error
	GetFindingsByReview(ctx context.Context, reviewID string) ([]FindingRecord, error)

	Close() error
}

// Run represents a single review execution.
type Run struct {
	RunID      string
	Timestamp  time.Time
	Scope      string // "base..target" as reviewed
	ConfigHash string // hash of the effective config, for reproducibility checks
	TotalCost  float64
	BaseRef    string
	TargetRef  string
	Repository string
}

// ReviewRecord stores metadata about the review a provider produced in a run.
type ReviewRecord struct {
	ReviewID  string
	RunID     string
	Provider  string
	Model     string
	Summary   string
	CreatedAt time.Time
}

// FindingRecord represents a single finding with all its metadata.
type FindingRecord struct {
	FindingID   string
	ReviewID    string
	FindingHash string // content fingerprint, stable across line shifts
	File        string
	LineStart   int
	LineEnd     int
	Category    string
	Severity    string
	Description string
	Suggestion  string
	Evidence    bool // provider cited concrete evidence from the diff
}
