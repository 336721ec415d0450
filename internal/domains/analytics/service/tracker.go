package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bizcard-backend/internal/domains/analytics"
	"bizcard-backend/internal/shared/utils"
	"bizcard-backend/pkg/logger"
)

// TrackerConfig tunes the buffered pipeline.
type TrackerConfig struct {
	// BufferSize is the flush threshold, not a hard cap; the buffer may hold
	// up to twice this many events while a failed flush is being retried.
	BufferSize         int
	FlushInterval      time.Duration
	ForceFlushAttempts int
	ForceFlushDelay    time.Duration
}

// tracker buffers view events in memory and flushes them in batches, either
// when the buffer reaches the threshold or on the periodic ticker. Losing an
// event is acceptable; slowing down or failing a page view is not.
type tracker struct {
	repo analytics.Repository
	cfg  TrackerConfig

	mu       sync.Mutex
	buffer   []analytics.ViewEvent
	flushing bool

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func NewTracker(repo analytics.Repository, cfg TrackerConfig) analytics.Tracker {
	return &tracker{
		repo:   repo,
		cfg:    cfg,
		buffer: make([]analytics.ViewEvent, 0, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

// Track buffers one view. The IP is anonymized here, before the event exists
// anywhere, so no code path ever sees a raw address past this point.
func (t *tracker) Track(req analytics.TrackRequest) {
	event := analytics.ViewEvent{
		ID:        uuid.New(),
		CardID:    req.CardID,
		ViewedAt:  time.Now(),
		IPAddress: utils.AnonymizeIP(req.IPAddress),
		UserAgent: req.UserAgent,
		Referrer:  req.Referrer,
	}

	t.mu.Lock()
	t.buffer = append(t.buffer, event)
	reached := len(t.buffer) >= t.cfg.BufferSize
	t.mu.Unlock()

	if reached {
		go func() {
			if err := t.Flush(context.Background()); err != nil {
				logger.Warn("Threshold flush failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
	}
}

// Flush drains the buffer to storage. Single-flight: the flushing flag makes
// concurrent callers (threshold goroutine, ticker, shutdown) no-ops while one
// flush is in progress. The buffer is detached and cleared in one step under
// the mutex, so events tracked during the database write land in a fresh
// buffer instead of being double-flushed.
func (t *tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	if t.flushing || len(t.buffer) == 0 {
		t.mu.Unlock()
		return nil
	}
	t.flushing = true
	batch := t.buffer
	t.buffer = make([]analytics.ViewEvent, 0, t.cfg.BufferSize)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.flushing = false
		t.mu.Unlock()
	}()

	if err := t.repo.InsertBatch(ctx, batch); err != nil {
		t.requeue(batch, err)
		return err
	}

	logger.DebugFields("Flushed view events", map[string]interface{}{
		"count": len(batch),
	})
	return nil
}

// requeue puts a failed batch back at the front of the buffer so event order
// survives the retry. If storage has been down long enough that the combined
// buffer would pass twice the threshold, the failed batch is dropped instead
// of growing memory without bound.
func (t *tracker) requeue(batch []analytics.ViewEvent, cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(batch)+len(t.buffer) > 2*t.cfg.BufferSize {
		logger.Warn("Dropping view events after failed flush", map[string]interface{}{
			"dropped":  len(batch),
			"buffered": len(t.buffer),
			"error":    cause.Error(),
		})
		return
	}

	t.buffer = append(batch, t.buffer...)
}

// ForceFlush drains what it can before shutdown: a bounded number of flush
// attempts with a pause between them. Whatever is left after the last
// attempt is logged and lost.
func (t *tracker) ForceFlush(ctx context.Context) {
attempts:
	for attempt := 1; attempt <= t.cfg.ForceFlushAttempts; attempt++ {
		if t.buffered() == 0 {
			return
		}

		if err := t.Flush(ctx); err != nil {
			logger.Warn("Shutdown flush attempt failed", map[string]interface{}{
				"attempt": attempt,
				"max":     t.cfg.ForceFlushAttempts,
				"error":   err.Error(),
			})
		}

		if t.buffered() == 0 || attempt == t.cfg.ForceFlushAttempts {
			break
		}

		select {
		case <-ctx.Done():
			break attempts
		case <-time.After(t.cfg.ForceFlushDelay):
		}
	}

	if remaining := t.buffered(); remaining > 0 {
		logger.Warn("View events lost at shutdown", map[string]interface{}{
			"count": remaining,
		})
	}
}

// Start launches the periodic flush. Safe to call once.
func (t *tracker) Start() {
	t.ticker = time.NewTicker(t.cfg.FlushInterval)
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				if err := t.Flush(context.Background()); err != nil {
					logger.Warn("Periodic flush failed", map[string]interface{}{
						"error": err.Error(),
					})
				}
			}
		}
	}()
}

// Stop halts the ticker. It does not flush; callers run ForceFlush as a
// shutdown hook after Stop.
func (t *tracker) Stop() {
	t.stopOnce.Do(func() {
		if t.ticker != nil {
			t.ticker.Stop()
		}
		close(t.done)
	})
}

func (t *tracker) buffered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buffer)
}
