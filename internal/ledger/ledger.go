// Package ledger persists the set of issues already notified.
//
// The ledger is an append-only set keyed by (issue_id, repository). A row is
// written exactly once, after a notification is confirmed sent; it is never
// updated or deleted. Unbounded growth is accepted (retention is out of
// scope).
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Ledger tracks (issue_id, repository) pairs that have been notified.
type Ledger struct {
	db *sql.DB
}

// New creates a Ledger over an already-bootstrapped database.
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Contains reports whether the issue has already been notified.
func (l *Ledger) Contains(ctx context.Context, issueID int64, repository string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		"SELECT 1 FROM tracked_issues WHERE issue_id = ? AND repository = ?;",
		issueID, repository,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read tracked issue: %w", err)
	}
	return true, nil
}

// Insert records the issue as notified. Inserting an already-present key is a
// no-op, not an error: two near-simultaneous deliveries that both succeed must
// not fail on the second write.
func (l *Ledger) Insert(ctx context.Context, issueID int64, repository, createdAt string) error {
	trackedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tracked_issues (issue_id, repository, created_at, tracked_at)
		 VALUES (?, ?, ?, ?);`,
		issueID, repository, createdAt, trackedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tracked issue: %w", err)
	}
	return nil
}
