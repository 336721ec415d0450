package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizcard-backend/pkg/occ"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Factor:       2,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fastPolicy(5), func(ctx context.Context) error {
		calls++
		if calls <= 2 {
			return &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "two transient failures then success should take exactly 3 attempts")
}

func TestDoTerminalErrorNotRetried(t *testing.T) {
	terminal := errors.New("column does not exist")

	calls := 0
	err := Do(context.Background(), "test", fastPolicy(5), func(ctx context.Context) error {
		calls++
		return terminal
	})

	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls, "non-transient errors must propagate after a single attempt")
}

func TestTerminalPinsTransientError(t *testing.T) {
	conflict := &occ.ConflictError{CurrentVersion: 7}

	calls := 0
	err := Do(context.Background(), "test", fastPolicy(5), func(ctx context.Context) error {
		calls++
		return Terminal(conflict)
	})

	assert.Equal(t, 1, calls, "Terminal must stop the loop on the first attempt")

	ce, ok := occ.AsConflict(err)
	require.True(t, ok, "the wrapped conflict must still unwrap for the handler")
	assert.Equal(t, 7, ce.CurrentVersion)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), "test", fastPolicy(3), func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr, "the last classified error must surface unchanged")
	assert.Equal(t, "40P01", pgErr.Code)
}

func TestDoResultReturnsValue(t *testing.T) {
	calls := 0
	got, err := DoResult(context.Background(), "test", fastPolicy(3), func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, &occ.ConflictError{CurrentVersion: 4}
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := Do(ctx, "test", Policy{MaxAttempts: 5, InitialDelay: time.Minute, MaxDelay: time.Minute, Factor: 2},
		func(ctx context.Context) error {
			calls++
			cancel()
			return &pgconn.PgError{Code: "40001"}
		})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation during backoff must stop the loop")
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"version conflict", &occ.ConflictError{CurrentVersion: 2}, true},
		{"wrapped version conflict", errors.New("save profile: version conflict: record is at version 2"), true},
		{"no rows", pgx.ErrNoRows, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"deadlock message only", errors.New("deadlock detected while waiting"), true},
		{"could not serialize message", errors.New("ERROR: could not serialize access due to concurrent update"), true},
		{"unique constraint message", errors.New(`duplicate key value violates unique constraint "cards_slug_key"`), true},
		{"permission denied", &pgconn.PgError{Code: "42501"}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestBackoffDelaySequence(t *testing.T) {
	// Delay grows by Factor each attempt and is capped at MaxDelay. Verified
	// through wall-clock lower bound: 1ms + 2ms + 4ms + 5ms(cap) = 12ms floor
	// for 5 attempts.
	policy := Policy{MaxAttempts: 5, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Factor: 2}

	start := time.Now()
	calls := 0
	_ = Do(context.Background(), "test", policy, func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})
	elapsed := time.Since(start)

	assert.Equal(t, 5, calls)
	assert.GreaterOrEqual(t, elapsed, 12*time.Millisecond)
}

func TestPolicyDefaults(t *testing.T) {
	def := DefaultPolicy()
	assert.Equal(t, 3, def.MaxAttempts)
	assert.Equal(t, float64(2), def.Factor)

	lock := OptimisticLockPolicy()
	assert.Equal(t, 5, lock.MaxAttempts)
	assert.Equal(t, 1.5, lock.Factor)
	assert.Equal(t, 50*time.Millisecond, lock.InitialDelay)
}
