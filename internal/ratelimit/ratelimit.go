package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/careerpath/internal/model"
)

// BackendLimiter enforces a minimum delay between requests to the same job
// board backend (greenhouse, lever).
type BackendLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: backend name
	minDelay time.Duration
}

// NewBackendLimiter creates a limiter that enforces minDelay between
// consecutive requests to the same backend.
func NewBackendLimiter(minDelay time.Duration) *BackendLimiter {
	return &BackendLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to backend.
// Returns an error if the context is cancelled while waiting.
func (r *BackendLimiter) Wait(ctx context.Context, backend string) error {
	r.mu.Lock()
	last, ok := r.lastCall[backend]
	now := time.Now()

	if !ok || now.Sub(last) >= r.minDelay {
		r.lastCall[backend] = now
		r.mu.Unlock()
		return nil
	}

	remaining := r.minDelay - now.Sub(last)
	// Reserve the slot so concurrent callers queue behind this one.
	r.lastCall[backend] = last.Add(r.minDelay)
	r.mu.Unlock()

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", backend, ctx.Err())
	case <-timer.C:
	}
	return nil
}

// RateLimitedBoard is a decorator that enforces backend-level rate limiting
// before delegating to the wrapped board.
type RateLimitedBoard struct {
	inner   model.JobBoard
	limiter *BackendLimiter
	backend string
}

// NewRateLimitedBoard wraps a board with backend-level rate limiting.
// All boards on the same backend should share the same limiter instance.
func NewRateLimitedBoard(inner model.JobBoard, limiter *BackendLimiter, backend string) *RateLimitedBoard {
	return &RateLimitedBoard{
		inner:   inner,
		limiter: limiter,
		backend: backend,
	}
}

func (b *RateLimitedBoard) Name() string {
	return b.inner.Name()
}

// FetchListings waits for the limiter, then delegates to the wrapped board.
func (b *RateLimitedBoard) FetchListings(ctx context.Context) ([]model.JobListing, error) {
	if err := b.limiter.Wait(ctx, b.backend); err != nil {
		return nil, err
	}
	return b.inner.FetchListings(ctx)
}
