package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"bizcard-backend/internal/domains/analytics"
	card "bizcard-backend/internal/domains/card"
	"bizcard-backend/internal/shared/utils"
	"bizcard-backend/pkg/cache"
	"bizcard-backend/pkg/logger"
	"bizcard-backend/pkg/occ"
	"bizcard-backend/pkg/retry"
)

const publicCardKeyPrefix = "card:public:"

type cardService struct {
	repo     card.Repository
	cache    cache.Cache
	tracker  analytics.Tracker
	cacheTTL time.Duration
}

func NewCardService(repo card.Repository, c cache.Cache, tracker analytics.Tracker, cacheTTL time.Duration) card.Service {
	return &cardService{
		repo:     repo,
		cache:    c,
		tracker:  tracker,
		cacheTTL: cacheTTL,
	}
}

// Create slugifies the name and inserts at version 1. Two users creating
// "Anna's Design Studio" at the same instant can both pass the in-transaction
// slug check; the loser's unique violation is transient and the retry re-runs
// the whole reservation.
func (s *cardService) Create(ctx context.Context, userID uuid.UUID, req card.CreateCardRequest) (*card.BusinessCard, error) {
	baseSlug := utils.GenerateSlug(req.Name)
	if !utils.IsValidSlug(baseSlug) {
		return nil, card.ErrInvalidName
	}

	now := time.Now()
	c := &card.BusinessCard{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Title:     req.Title,
		Theme:     req.Theme,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := retry.Do(ctx, "card.create", retry.DefaultPolicy(), func(ctx context.Context) error {
		return s.repo.CreateWithSlug(ctx, c, baseSlug)
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *cardService) List(ctx context.Context, userID uuid.UUID) ([]card.BusinessCard, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *cardService) Get(ctx context.Context, id, userID uuid.UUID) (*card.BusinessCard, error) {
	return s.repo.GetByID(ctx, id, userID)
}

// Update applies an OCC patch. A stale expected version is terminal here:
// the client sent a fixed version, so re-running cannot change the outcome.
func (s *cardService) Update(ctx context.Context, id, userID uuid.UUID, req card.UpdateCardRequest) (*card.BusinessCard, error) {
	existing, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Title = req.Title
	existing.Theme = req.Theme

	newVersion, err := s.repo.Update(ctx, existing, req.ExpectedVersion)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	existing.Version = newVersion
	existing.UpdatedAt = time.Now()
	s.invalidatePublic(ctx, existing.Slug)
	return existing, nil
}

func (s *cardService) SetActive(ctx context.Context, id, userID uuid.UUID, req card.SetActiveRequest) (*card.BusinessCard, error) {
	existing, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	newVersion, err := s.repo.SetActive(ctx, id, userID, req.Active, req.ExpectedVersion)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	existing.IsActive = req.Active
	existing.Version = newVersion
	existing.UpdatedAt = time.Now()
	s.invalidatePublic(ctx, existing.Slug)
	return existing, nil
}

func (s *cardService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.invalidatePublic(ctx, existing.Slug)
	return nil
}

// ViewBySlug is the public read path. Cache first, then the active-only
// lookup; the view event is recorded after the card is known to exist, and
// never affects the response.
func (s *cardService) ViewBySlug(ctx context.Context, slug string, view card.ViewContext) (*card.PublicCard, error) {
	key := publicCardKeyPrefix + slug

	var cached card.PublicCard
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		// Cache trouble degrades to a database read.
		logger.Warn("Public card cache read failed", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}
	if found {
		s.trackView(cached.ID, view)
		return &cached, nil
	}

	c, err := s.repo.GetActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	public := c.Public()
	if err := s.cache.Set(ctx, key, public, s.cacheTTL); err != nil {
		logger.Warn("Public card cache write failed", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}

	s.trackView(public.ID, view)
	return public, nil
}

func (s *cardService) trackView(cardID uuid.UUID, view card.ViewContext) {
	s.tracker.Track(analytics.TrackRequest{
		CardID:    cardID,
		IPAddress: view.IPAddress,
		UserAgent: view.UserAgent,
		Referrer:  view.Referrer,
	})
}

func (s *cardService) invalidatePublic(ctx context.Context, slug string) {
	if err := s.cache.Delete(ctx, publicCardKeyPrefix+slug); err != nil {
		logger.Warn("Public card cache invalidation failed", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}
}

// mapNotFound translates the occ sentinel to the domain's; conflicts pass
// through untouched so the handler can report the current version.
func (s *cardService) mapNotFound(err error) error {
	if errors.Is(err, occ.ErrNotFound) {
		return card.ErrCardNotFound
	}
	return err
}
