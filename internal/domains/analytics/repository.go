package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines analytics data access. View events are system-owned
// telemetry, so unlike every other repository the writes are not scoped to a
// calling user; the read side scopes by card ownership instead.
type Repository interface {
	// InsertBatch writes a flushed buffer in one round trip.
	InsertBatch(ctx context.Context, events []ViewEvent) error

	CountByCard(ctx context.Context, ownerID uuid.UUID) ([]CardViewSummary, error)
	RecentViews(ctx context.Context, ownerID uuid.UUID, limit int) ([]ViewEvent, error)

	// RollupDaily upserts per-card daily counts for the given day. Run by the
	// nightly worker job; re-running a day is safe.
	RollupDaily(ctx context.Context, day time.Time) (int64, error)
}
