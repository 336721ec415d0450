package analytics

import (
	"context"

	"github.com/google/uuid"
)

// Tracker is the buffered telemetry pipeline. Track is fire-and-forget and
// never returns an error: a lost view event must not break a page view.
type Tracker interface {
	Track(req TrackRequest)

	// Flush drains the current buffer to storage. Single-flight; a call that
	// finds a flush already running returns immediately.
	Flush(ctx context.Context) error

	// ForceFlush drains synchronously at shutdown, with a bounded number of
	// attempts. Events still buffered after the last attempt are lost.
	ForceFlush(ctx context.Context)

	Start()
	Stop()
}

// Service serves the owner dashboard.
type Service interface {
	Summary(ctx context.Context, ownerID uuid.UUID) (*Summary, error)
}
