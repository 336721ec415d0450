package card

import (
	"context"

	"github.com/google/uuid"
)

// Service defines card business logic.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateCardRequest) (*BusinessCard, error)
	List(ctx context.Context, userID uuid.UUID) ([]BusinessCard, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*BusinessCard, error)
	Update(ctx context.Context, id, userID uuid.UUID, req UpdateCardRequest) (*BusinessCard, error)
	SetActive(ctx context.Context, id, userID uuid.UUID, req SetActiveRequest) (*BusinessCard, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// ViewBySlug serves the public card page: cache-first lookup plus a
	// fire-and-forget view event. It never fails because of telemetry.
	ViewBySlug(ctx context.Context, slug string, view ViewContext) (*PublicCard, error)
}
