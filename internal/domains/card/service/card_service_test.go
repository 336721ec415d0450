package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizcard-backend/internal/domains/analytics"
	card "bizcard-backend/internal/domains/card"
	"bizcard-backend/pkg/occ"
)

type fakeCardRepository struct {
	createWithSlug  func(ctx context.Context, c *card.BusinessCard, baseSlug string) error
	getByID         func(ctx context.Context, id, userID uuid.UUID) (*card.BusinessCard, error)
	getActiveBySlug func(ctx context.Context, slug string) (*card.BusinessCard, error)
	update          func(ctx context.Context, c *card.BusinessCard, expectedVersion int) (int, error)

	activeBySlugCalls int
}

func (f *fakeCardRepository) CreateWithSlug(ctx context.Context, c *card.BusinessCard, baseSlug string) error {
	if f.createWithSlug != nil {
		return f.createWithSlug(ctx, c, baseSlug)
	}
	c.Slug = baseSlug
	c.Version = 1
	return nil
}

func (f *fakeCardRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*card.BusinessCard, error) {
	if f.getByID != nil {
		return f.getByID(ctx, id, userID)
	}
	return nil, card.ErrCardNotFound
}

func (f *fakeCardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]card.BusinessCard, error) {
	return nil, nil
}

func (f *fakeCardRepository) GetActiveBySlug(ctx context.Context, slug string) (*card.BusinessCard, error) {
	f.activeBySlugCalls++
	if f.getActiveBySlug != nil {
		return f.getActiveBySlug(ctx, slug)
	}
	return nil, card.ErrCardNotFound
}

func (f *fakeCardRepository) Update(ctx context.Context, c *card.BusinessCard, expectedVersion int) (int, error) {
	if f.update != nil {
		return f.update(ctx, c, expectedVersion)
	}
	return expectedVersion + 1, nil
}

func (f *fakeCardRepository) SetActive(ctx context.Context, id, userID uuid.UUID, active bool, expectedVersion int) (int, error) {
	return expectedVersion + 1, nil
}

func (f *fakeCardRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

// memoryCache is a minimal in-process cache.Cache for tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func (m *memoryCache) Increment(ctx context.Context, key string) (int64, error) { return 1, nil }

func (m *memoryCache) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }

func (m *memoryCache) TTL(ctx context.Context, key string) (time.Duration, error) { return 0, nil }

type fakeTracker struct {
	mu       sync.Mutex
	requests []analytics.TrackRequest
}

func (f *fakeTracker) Track(req analytics.TrackRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *fakeTracker) Flush(ctx context.Context) error { return nil }
func (f *fakeTracker) ForceFlush(ctx context.Context)  {}
func (f *fakeTracker) Start()                          {}
func (f *fakeTracker) Stop()                           {}

func (f *fakeTracker) tracked() []analytics.TrackRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]analytics.TrackRequest(nil), f.requests...)
}

func newTestService(repo *fakeCardRepository) (card.Service, *memoryCache, *fakeTracker) {
	c := newMemoryCache()
	tr := &fakeTracker{}
	return NewCardService(repo, c, tr, 5*time.Minute), c, tr
}

func TestCreateSlugifiesName(t *testing.T) {
	svc, _, _ := newTestService(&fakeCardRepository{})

	created, err := svc.Create(context.Background(), uuid.New(), card.CreateCardRequest{
		Name: "Anna's Design Studio",
	})

	require.NoError(t, err)
	assert.Equal(t, "annas-design-studio", created.Slug)
	assert.Equal(t, 1, created.Version)
	assert.True(t, created.IsActive, "new cards start published")
}

func TestCreateRetriesSlugRace(t *testing.T) {
	attempts := 0
	repo := &fakeCardRepository{
		createWithSlug: func(ctx context.Context, c *card.BusinessCard, baseSlug string) error {
			attempts++
			if attempts == 1 {
				return fmt.Errorf("%w: unique constraint on %q", card.ErrSlugTaken, baseSlug)
			}
			c.Slug = baseSlug + "-2"
			c.Version = 1
			return nil
		},
	}

	svc, _, _ := newTestService(repo)
	created, err := svc.Create(context.Background(), uuid.New(), card.CreateCardRequest{Name: "Acme"})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "a lost slug race must re-run the reservation")
	assert.Equal(t, "acme-2", created.Slug)
}

func TestCreateRejectsUnsluggableName(t *testing.T) {
	svc, _, _ := newTestService(&fakeCardRepository{})

	_, err := svc.Create(context.Background(), uuid.New(), card.CreateCardRequest{Name: "!!!"})

	assert.ErrorIs(t, err, card.ErrInvalidName)
}

func TestViewBySlugCachesAndTracks(t *testing.T) {
	cardID := uuid.New()
	repo := &fakeCardRepository{
		getActiveBySlug: func(ctx context.Context, slug string) (*card.BusinessCard, error) {
			return &card.BusinessCard{ID: cardID, Name: "Acme", Slug: slug, IsActive: true, Version: 1}, nil
		},
	}

	svc, _, tr := newTestService(repo)
	view := card.ViewContext{IPAddress: "192.168.1.0", UserAgent: "test-agent"}

	first, err := svc.ViewBySlug(context.Background(), "acme", view)
	require.NoError(t, err)
	assert.Equal(t, cardID, first.ID)

	second, err := svc.ViewBySlug(context.Background(), "acme", view)
	require.NoError(t, err)
	assert.Equal(t, cardID, second.ID)

	assert.Equal(t, 1, repo.activeBySlugCalls, "the second view must be served from cache")

	tracked := tr.tracked()
	require.Len(t, tracked, 2, "cache hits still record a view")
	assert.Equal(t, cardID, tracked[0].CardID)
	assert.Equal(t, "test-agent", tracked[1].UserAgent)
}

func TestViewBySlugMissingCardDoesNotTrack(t *testing.T) {
	svc, _, tr := newTestService(&fakeCardRepository{})

	_, err := svc.ViewBySlug(context.Background(), "ghost", card.ViewContext{})

	assert.ErrorIs(t, err, card.ErrCardNotFound)
	assert.Empty(t, tr.tracked(), "views of nonexistent cards are not telemetry")
}

func TestUpdateConflictSurfacesCurrentVersion(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	repo := &fakeCardRepository{
		getByID: func(ctx context.Context, _, _ uuid.UUID) (*card.BusinessCard, error) {
			return &card.BusinessCard{ID: id, UserID: userID, Name: "Acme", Slug: "acme", Version: 3}, nil
		},
		update: func(ctx context.Context, _ *card.BusinessCard, expectedVersion int) (int, error) {
			return 0, &occ.ConflictError{CurrentVersion: 3}
		},
	}

	svc, _, _ := newTestService(repo)
	_, err := svc.Update(context.Background(), id, userID, card.UpdateCardRequest{
		Name:            "Acme Renamed",
		ExpectedVersion: 2,
	})

	ce, ok := occ.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, 3, ce.CurrentVersion)
}

func TestUpdateInvalidatesPublicCache(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	repo := &fakeCardRepository{
		getByID: func(ctx context.Context, _, _ uuid.UUID) (*card.BusinessCard, error) {
			return &card.BusinessCard{ID: id, UserID: userID, Name: "Acme", Slug: "acme", Version: 1}, nil
		},
	}

	svc, mc, _ := newTestService(repo)
	_, err := svc.Update(context.Background(), id, userID, card.UpdateCardRequest{
		Name:            "Acme Renamed",
		ExpectedVersion: 1,
	})

	require.NoError(t, err)
	assert.Contains(t, mc.deleted, "card:public:acme")
}
