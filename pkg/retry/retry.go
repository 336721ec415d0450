// Package retry provides a bounded retry-with-backoff executor for store
// operations that fail on contention: serialization failures, deadlocks,
// unique-index races and optimistic-lock version conflicts. Call sites wrap
// the whole read-mutate-write sequence in Do/DoResult instead of hand-rolling
// their own loops.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"bizcard-backend/pkg/logger"
	"bizcard-backend/pkg/occ"
)

// Postgres error codes considered transient.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Policy controls the retry loop. Delay before attempt n+1 is
// min(InitialDelay * Factor^(n-1), MaxDelay).
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
}

// DefaultPolicy is used for plain database operations.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Factor:       2,
	}
}

// OptimisticLockPolicy is used by callers that opt in to automatic re-fetch
// and retry on version conflicts. More attempts at a finer backoff, since
// conflicts resolve as soon as the loser re-reads the fresh version.
func OptimisticLockPolicy() Policy {
	return Policy{
		MaxAttempts:  5,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
		Factor:       1.5,
	}
}

type terminalError struct{ err error }

func (e *terminalError) Error() string { return e.err.Error() }
func (e *terminalError) Unwrap() error { return e.err }

// Terminal marks err as not worth retrying even if it would otherwise
// classify as transient. Callers use it when re-running cannot change the
// outcome, e.g. a version conflict against a fixed client-supplied version.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// IsTransient classifies err. Transient errors are worth retrying; anything
// else is terminal and must propagate to the caller unchanged.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *terminalError
	if errors.As(err, &te) {
		return false
	}

	if occ.IsConflict(err) {
		return true
	}

	// Single-row lookups racing a concurrent delete/insert surface as no
	// rows; by the next attempt the row is usually visible.
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
			return true
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"version conflict",
		"unique constraint",
		"deadlock",
		"serialization failure",
		"could not serialize",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}

// Do invokes fn up to policy.MaxAttempts times. A terminal error, or a
// transient error on the final attempt, is returned as-is, never swallowed.
// The backoff sleep respects ctx cancellation.
func Do(ctx context.Context, name string, policy Policy, fn func(ctx context.Context) error) error {
	delay := policy.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == policy.MaxAttempts || !IsTransient(lastErr) {
			return lastErr
		}

		logger.Warn("Retrying operation after transient error", map[string]interface{}{
			"operation": name,
			"attempt":   attempt,
			"max":       policy.MaxAttempts,
			"delay_ms":  delay.Milliseconds(),
			"error":     lastErr.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * policy.Factor)
		if delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}
	}

	return lastErr
}

// DoResult is Do for operations that produce a value.
func DoResult[T any](ctx context.Context, name string, policy Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := Do(ctx, name, policy, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
