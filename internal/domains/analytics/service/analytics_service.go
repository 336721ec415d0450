package service

import (
	"context"

	"github.com/google/uuid"

	"bizcard-backend/internal/domains/analytics"
)

// recentViewLimit caps the recent-views list on the dashboard.
const recentViewLimit = 20

type analyticsService struct {
	repo analytics.Repository
}

func NewAnalyticsService(repo analytics.Repository) analytics.Service {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) Summary(ctx context.Context, ownerID uuid.UUID) (*analytics.Summary, error) {
	cards, err := s.repo.CountByCard(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.RecentViews(ctx, ownerID, recentViewLimit)
	if err != nil {
		return nil, err
	}

	return &analytics.Summary{
		Cards:       cards,
		RecentViews: recent,
	}, nil
}
