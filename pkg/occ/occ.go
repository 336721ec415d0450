// Package occ implements the optimistic concurrency protocol shared by all
// versioned entities (profile sections, business cards).
//
// Every mutation on a versioned row is issued as a single conditional UPDATE:
//
//	UPDATE <table>
//	SET <patch>, version = version + 1, updated_at = now()
//	WHERE id = $1 AND user_id = $2 AND version = $3
//	RETURNING version
//
// The version check and the increment happen in one atomic statement at the
// database, so two concurrent editors can never both win the same version.
// A read-then-write sequence from the application would reintroduce exactly
// the race this package exists to close, so no repository does that.
package occ

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when the target row does not exist or is not owned
// by the caller. The two cases are deliberately indistinguishable: revealing
// "exists but not yours" would leak other users' entity IDs.
var ErrNotFound = errors.New("record not found or not owned by caller")

// ConflictError reports a stale expected version. CurrentVersion is the
// version stored at the time the conflict was detected so the client can
// re-fetch and decide whether to retry.
type ConflictError struct {
	CurrentVersion int
	Message        string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("version conflict: record is at version %d", e.CurrentVersion)
}

// IsConflict reports whether err is (or wraps) a version conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// AsConflict unwraps a ConflictError if present.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Querier matches both *pgxpool.Pool and pgx.Tx, and lets tests drive the
// resolution logic without a live database.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ResolveUpdate interprets the outcome of a conditional version-checked
// UPDATE whose RETURNING clause was scanned into newVersion.
//
// On success scanErr is nil and the new version is returned. When the WHERE
// clause matched nothing, pgx reports pgx.ErrNoRows; the row is then re-read
// (id + owner scoped) to tell a stale version apart from a missing or
// foreign row. The re-read is diagnostic only; the losing UPDATE already
// mutated nothing.
func ResolveUpdate(ctx context.Context, q Querier, scanErr error, newVersion int, table string, id, ownerID any) (int, error) {
	if scanErr == nil {
		return newVersion, nil
	}
	if !errors.Is(scanErr, pgx.ErrNoRows) {
		return 0, scanErr
	}

	var current int
	query := fmt.Sprintf(`SELECT version FROM %s WHERE id = $1 AND user_id = $2`, table)
	err := q.QueryRow(ctx, query, id, ownerID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolve update on %s: %w", table, err)
	}

	return 0, &ConflictError{
		CurrentVersion: current,
		Message:        fmt.Sprintf("version conflict: %s was modified by another session (current version %d)", table, current),
	}
}
