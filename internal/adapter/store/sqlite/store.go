// Package sqlite persists review history in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/reviewbotdev/reviewbot/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

// Column lists shared between INSERT and SELECT statements so the two
// cannot drift apart.
const (
	runColumns     = "run_id, timestamp, scope, config_hash, total_cost, base_ref, target_ref, repository"
	reviewColumns  = "review_id, run_id, provider, model, summary, created_at"
	findingColumns = "finding_id, review_id, finding_hash, file, line_start, line_end, category, severity, description, suggestion, evidence"
)

// schemaStatements runs in order on every open. Each statement is
// idempotent, so reopening an existing database leaves it untouched.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		scope TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		total_cost REAL DEFAULT 0.0,
		base_ref TEXT NOT NULL,
		target_ref TEXT NOT NULL,
		repository TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		review_id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		summary TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS findings (
		finding_id TEXT PRIMARY KEY,
		review_id TEXT NOT NULL,
		finding_hash TEXT NOT NULL,
		file TEXT NOT NULL,
		line_start INTEGER NOT NULL,
		line_end INTEGER NOT NULL,
		category TEXT NOT NULL,
		severity TEXT NOT NULL,
		description TEXT NOT NULL,
		suggestion TEXT,
		evidence INTEGER DEFAULT 0,
		FOREIGN KEY (review_id) REFERENCES reviews(review_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_run ON reviews(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_findings_review ON findings(review_id)`,
	`CREATE INDEX IF NOT EXISTS idx_findings_hash ON findings(finding_hash)`,
}

// Store implements store.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// NewStore opens the database at dbPath, creating it and the schema as
// needed. Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The foreign_keys pragma is per connection, and an in-memory
	// database disappears when its connection closes. One pooled
	// connection makes both hold for the life of the store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (store.Run, error) {
	var run store.Run
	var ts int64
	if err := sc.Scan(&run.RunID, &ts, &run.Scope, &run.ConfigHash,
		&run.TotalCost, &run.BaseRef, &run.TargetRef, &run.Repository); err != nil {
		return store.Run{}, err
	}
	run.Timestamp = time.Unix(ts, 0)
	return run, nil
}

func scanReview(sc scanner) (store.ReviewRecord, error) {
	var rec store.ReviewRecord
	var created int64
	if err := sc.Scan(&rec.ReviewID, &rec.RunID, &rec.Provider,
		&rec.Model, &rec.Summary, &created); err != nil {
		return store.ReviewRecord{}, err
	}
	rec.CreatedAt = time.Unix(created, 0)
	return rec, nil
}

func scanFinding(sc scanner) (store.FindingRecord, error) {
	var rec store.FindingRecord
	var evidence int
	if err := sc.Scan(&rec.FindingID, &rec.ReviewID, &rec.FindingHash,
		&rec.File, &rec.LineStart, &rec.LineEnd, &rec.Category,
		&rec.Severity, &rec.Description, &rec.Suggestion, &evidence); err != nil {
		return store.FindingRecord{}, err
	}
	rec.Evidence = evidence != 0
	return rec, nil
}

// CreateRun stores a new review run. Timestamps are kept at second
// resolution.
func (s *Store) CreateRun(ctx context.Context, run store.Run) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs ("+runColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		run.RunID, run.Timestamp.Unix(), run.Scope, run.ConfigHash,
		run.TotalCost, run.BaseRef, run.TargetRef, run.Repository,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// UpdateRunCost records the final cost of a run once all reviews finish.
func (s *Store) UpdateRunCost(ctx context.Context, runID string, totalCost float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET total_cost = ? WHERE run_id = ?", totalCost, runID)
	if err != nil {
		return fmt.Errorf("failed to update run cost: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %q: %w", runID, store.ErrNotFound)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %q: %w", runID, store.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY timestamp DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveReview stores a review record.
func (s *Store) SaveReview(ctx context.Context, review store.ReviewRecord) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reviews ("+reviewColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		review.ReviewID, review.RunID, review.Provider,
		review.Model, review.Summary, review.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// GetReviewsByRun retrieves all reviews for a run, oldest first.
func (s *Store) GetReviewsByRun(ctx context.Context, runID string) ([]store.ReviewRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+reviewColumns+" FROM reviews WHERE run_id = ? ORDER BY created_at ASC", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews by run: %w", err)
	}
	defer rows.Close()

	var reviews []store.ReviewRecord
	for rows.Next() {
		rec, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rec)
	}
	return reviews, rows.Err()
}

// SaveFindings stores the findings of a review in a single transaction.
func (s *Store) SaveFindings(ctx context.Context, findings []store.FindingRecord) error {
	if len(findings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO findings ("+findingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range findings {
		if _, err := stmt.ExecContext(ctx,
			rec.FindingID, rec.ReviewID, rec.FindingHash, rec.File,
			rec.LineStart, rec.LineEnd, rec.Category, rec.Severity,
			rec.Description, rec.Suggestion, boolToInt(rec.Evidence),
		); err != nil {
			return fmt.Errorf("failed to insert finding %s: %w", rec.FindingID, err)
		}
	}

	return tx.Commit()
}

// GetFindingsByReview retrieves all findings for a review, ordered by
// file and line.
func (s *Store) GetFindingsByReview(ctx context.Context, reviewID string) ([]store.FindingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+findingColumns+" FROM findings WHERE review_id = ? ORDER BY file ASC, line_start ASC", reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get findings by review: %w", err)
	}
	defer rows.Close()

	var findings []store.FindingRecord
	for rows.Next() {
		rec, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, rec)
	}
	return findings, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
