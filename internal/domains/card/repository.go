package card

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines card data access. Update and SetActive follow the
// optimistic-concurrency contract (see pkg/occ): new version on success,
// occ.ConflictError on a stale version, occ.ErrNotFound otherwise.
type Repository interface {
	// CreateWithSlug inserts the card at version 1, resolving a free slug from
	// baseSlug (suffix loop) inside one transaction. A concurrent reservation
	// of the same candidate still surfaces as a unique violation; callers
	// absorb that with the retry executor.
	CreateWithSlug(ctx context.Context, c *BusinessCard, baseSlug string) error

	GetByID(ctx context.Context, id, userID uuid.UUID) (*BusinessCard, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]BusinessCard, error)

	// GetActiveBySlug is the public lookup; inactive cards are invisible.
	GetActiveBySlug(ctx context.Context, slug string) (*BusinessCard, error)

	Update(ctx context.Context, c *BusinessCard, expectedVersion int) (int, error)
	SetActive(ctx context.Context, id, userID uuid.UUID, active bool, expectedVersion int) (int, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
