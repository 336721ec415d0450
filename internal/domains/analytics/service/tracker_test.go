package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizcard-backend/internal/domains/analytics"
)

// fakeAnalyticsRepo captures flushed batches and can be scripted to fail or
// block so the single-flight and requeue paths can be exercised.
type fakeAnalyticsRepo struct {
	mu        sync.Mutex
	batches   [][]analytics.ViewEvent
	failNext  int
	blockOn   chan struct{}
	flushed   chan int
	callCount int
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{flushed: make(chan int, 16)}
}

func (f *fakeAnalyticsRepo) InsertBatch(ctx context.Context, events []analytics.ViewEvent) error {
	f.mu.Lock()
	f.callCount++
	shouldFail := f.failNext > 0
	if shouldFail {
		f.failNext--
	}
	block := f.blockOn
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	if shouldFail {
		return errors.New("storage unavailable")
	}

	f.mu.Lock()
	batch := append([]analytics.ViewEvent(nil), events...)
	f.batches = append(f.batches, batch)
	f.mu.Unlock()

	select {
	case f.flushed <- len(events):
	default:
	}
	return nil
}

func (f *fakeAnalyticsRepo) CountByCard(ctx context.Context, ownerID uuid.UUID) ([]analytics.CardViewSummary, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) RecentViews(ctx context.Context, ownerID uuid.UUID, limit int) ([]analytics.ViewEvent, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) RollupDaily(ctx context.Context, day time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callCount
}

func (f *fakeAnalyticsRepo) allBatches() [][]analytics.ViewEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]analytics.ViewEvent(nil), f.batches...)
}

func testConfig(bufferSize int) TrackerConfig {
	return TrackerConfig{
		BufferSize:         bufferSize,
		FlushInterval:      time.Hour, // ticker effectively off unless Start is under test
		ForceFlushAttempts: 3,
		ForceFlushDelay:    time.Millisecond,
	}
}

func newTestTracker(repo analytics.Repository, cfg TrackerConfig) *tracker {
	return NewTracker(repo, cfg).(*tracker)
}

func track(t *tracker, n int) {
	cardID := uuid.New()
	for i := 0; i < n; i++ {
		t.Track(analytics.TrackRequest{CardID: cardID, IPAddress: "203.0.113.99", UserAgent: "ua"})
	}
}

func TestTrackAnonymizesBeforeBuffering(t *testing.T) {
	tr := newTestTracker(newFakeAnalyticsRepo(), testConfig(100))

	tr.Track(analytics.TrackRequest{
		CardID:    uuid.New(),
		IPAddress: "192.168.1.57",
	})
	tr.Track(analytics.TrackRequest{
		CardID:    uuid.New(),
		IPAddress: "2001:db8:85a3:8d3:1319:8a2e:370:7348",
	})

	tr.mu.Lock()
	defer tr.mu.Unlock()
	require.Len(t, tr.buffer, 2)
	assert.Equal(t, "192.168.1.0", tr.buffer[0].IPAddress)
	assert.Equal(t, "2001:db8:85a3:8d3::", tr.buffer[1].IPAddress)
	assert.False(t, tr.buffer[0].ViewedAt.IsZero())
}

func TestThresholdTriggersFlush(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	tr := newTestTracker(repo, testConfig(5))

	track(tr, 5)

	select {
	case n := <-repo.flushed:
		assert.Equal(t, 5, n)
	case <-time.After(2 * time.Second):
		t.Fatal("reaching the buffer threshold must trigger a flush")
	}

	assert.Eventually(t, func() bool { return tr.buffered() == 0 },
		time.Second, 5*time.Millisecond)
}

func TestFlushIsSingleFlight(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	release := make(chan struct{})
	repo.blockOn = release

	tr := newTestTracker(repo, testConfig(100))
	track(tr, 3)

	firstDone := make(chan error, 1)
	go func() { firstDone <- tr.Flush(context.Background()) }()

	// Wait until the first flush holds the flag inside InsertBatch.
	assert.Eventually(t, func() bool { return repo.calls() == 1 },
		time.Second, time.Millisecond)

	// Anything tracked now belongs to the next batch, and a second Flush is
	// a no-op while the first is in flight.
	track(tr, 2)
	require.NoError(t, tr.Flush(context.Background()))
	assert.Equal(t, 1, repo.calls(), "concurrent flush must not start a second insert")

	close(release)
	require.NoError(t, <-firstDone)

	batches := repo.allBatches()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3, "events tracked during the flush stay out of the detached batch")
	assert.Equal(t, 2, tr.buffered())
}

func TestFailedFlushRequeuesInOrder(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.failNext = 1

	tr := newTestTracker(repo, testConfig(100))
	cardA, cardB := uuid.New(), uuid.New()
	tr.Track(analytics.TrackRequest{CardID: cardA, IPAddress: "10.0.0.1"})
	tr.Track(analytics.TrackRequest{CardID: cardB, IPAddress: "10.0.0.2"})

	require.Error(t, tr.Flush(context.Background()))
	assert.Equal(t, 2, tr.buffered(), "a failed batch goes back into the buffer")

	require.NoError(t, tr.Flush(context.Background()))

	batches := repo.allBatches()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, cardA, batches[0][0].CardID, "requeue must preserve event order")
	assert.Equal(t, cardB, batches[0][1].CardID)
}

func TestFailedFlushDropsBatchPastOverflowCap(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	cfg := testConfig(100)
	tr := newTestTracker(repo, cfg)

	// Simulate a detached batch whose requeue would push the buffer past
	// twice the threshold.
	batch := make([]analytics.ViewEvent, 150)
	tr.mu.Lock()
	tr.buffer = make([]analytics.ViewEvent, 60)
	tr.mu.Unlock()

	tr.requeue(batch, errors.New("storage unavailable"))

	assert.Equal(t, 60, tr.buffered(), "an overflowing failed batch is dropped, not requeued")
}

func TestForceFlushStopsAfterBoundedAttempts(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.failNext = 100 // storage stays down

	tr := newTestTracker(repo, testConfig(100))
	track(tr, 4)

	tr.ForceFlush(context.Background())

	assert.Equal(t, 3, repo.calls(), "shutdown flushing gives up after the configured attempts")
	assert.Equal(t, 4, tr.buffered(), "undelivered events remain buffered until process exit")
}

func TestForceFlushDrainsOnRecovery(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	repo.failNext = 1 // first attempt fails, second succeeds

	tr := newTestTracker(repo, testConfig(100))
	track(tr, 4)

	tr.ForceFlush(context.Background())

	assert.Equal(t, 0, tr.buffered())
	assert.Equal(t, 2, repo.calls())
}

func TestPeriodicFlush(t *testing.T) {
	repo := newFakeAnalyticsRepo()
	cfg := testConfig(100)
	cfg.FlushInterval = 10 * time.Millisecond

	tr := newTestTracker(repo, cfg)
	tr.Start()
	defer tr.Stop()

	track(tr, 2)

	select {
	case n := <-repo.flushed:
		assert.Equal(t, 2, n)
	case <-time.After(2 * time.Second):
		t.Fatal("the ticker must flush a below-threshold buffer")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	tr := newTestTracker(newFakeAnalyticsRepo(), testConfig(100))
	tr.Start()

	tr.Stop()
	tr.Stop()
}
