package occ

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow satisfies pgx.Row with a scripted version or error.
type fakeRow struct {
	version int
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.version
	return nil
}

// fakeQuerier serves the diagnostic re-read in ResolveUpdate.
type fakeQuerier struct {
	row     fakeRow
	queries int
	lastSQL string
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.queries++
	q.lastSQL = sql
	return q.row
}

func TestResolveUpdateSuccessSkipsReRead(t *testing.T) {
	q := &fakeQuerier{}

	got, err := ResolveUpdate(context.Background(), q, nil, 5, "personal_info", uuid.New(), uuid.New())

	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Zero(t, q.queries, "a successful update needs no diagnostic read")
}

func TestResolveUpdateStaleVersionReportsConflict(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{version: 7}}

	_, err := ResolveUpdate(context.Background(), q, pgx.ErrNoRows, 0, "business_cards", uuid.New(), uuid.New())

	ce, ok := AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, 7, ce.CurrentVersion)
	assert.Equal(t, 1, q.queries)
	assert.Contains(t, q.lastSQL, "business_cards")
}

func TestResolveUpdateMissingRowReportsNotFound(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := ResolveUpdate(context.Background(), q, pgx.ErrNoRows, 0, "education", uuid.New(), uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveUpdatePassesThroughOtherErrors(t *testing.T) {
	q := &fakeQuerier{}
	cause := errors.New("connection reset")

	_, err := ResolveUpdate(context.Background(), q, cause, 0, "awards", uuid.New(), uuid.New())

	assert.ErrorIs(t, err, cause)
	assert.Zero(t, q.queries, "only a zero-row update triggers the re-read")
}

func TestConflictDetectionThroughWrapping(t *testing.T) {
	inner := &ConflictError{CurrentVersion: 3}
	wrapped := fmt.Errorf("save section: %w", inner)

	assert.True(t, IsConflict(wrapped))

	ce, ok := AsConflict(wrapped)
	require.True(t, ok)
	assert.Equal(t, 3, ce.CurrentVersion)

	assert.False(t, IsConflict(errors.New("plain")))
}

func TestConflictErrorMessage(t *testing.T) {
	assert.Equal(t, "version conflict: record is at version 4",
		(&ConflictError{CurrentVersion: 4}).Error())
	assert.Equal(t, "custom", (&ConflictError{CurrentVersion: 4, Message: "custom"}).Error())
}
