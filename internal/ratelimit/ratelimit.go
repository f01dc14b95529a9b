package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmerrick/jobscout/internal/model"
)

// SourceLimiter paces outbound calls per source provider: calls to the same
// source are spaced at least minDelay apart, while independent sources
// proceed concurrently.
type SourceLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewSourceLimiter creates a limiter enforcing minDelay between consecutive
// requests to the same source. Per-source overrides take precedence.
func NewSourceLimiter(minDelay time.Duration, overrides map[string]time.Duration) *SourceLimiter {
	return &SourceLimiter{
		limiters:  make(map[string]*rate.Limiter),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (l *SourceLimiter) limiterFor(source string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[source]; ok {
		return lim
	}

	delay := l.minDelay
	if d, ok := l.overrides[source]; ok {
		delay = d
	}

	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	lim := rate.NewLimiter(limit, 1)
	l.limiters[source] = lim
	return lim
}

// Wait blocks until the source's pacing allows another call, or the context
// is cancelled.
func (l *SourceLimiter) Wait(ctx context.Context, source string) error {
	if err := l.limiterFor(source).Wait(ctx); err != nil {
		return fmt.Errorf("pacing wait for %s: %w", source, err)
	}
	return nil
}

// Adapter is a decorator that applies source-level pacing before delegating
// to the wrapped SourceAdapter. All adapters for the same provider should
// share one SourceLimiter.
type Adapter struct {
	inner   model.SourceAdapter
	limiter *SourceLimiter
}

// Wrap decorates a SourceAdapter with pacing.
func Wrap(inner model.SourceAdapter, limiter *SourceLimiter) *Adapter {
	return &Adapter{inner: inner, limiter: limiter}
}

func (a *Adapter) Source() string { return a.inner.Source() }

func (a *Adapter) Fetch(ctx context.Context, c model.SourceCandidate) ([]model.Posting, error) {
	if err := a.limiter.Wait(ctx, a.inner.Source()); err != nil {
		return nil, err
	}
	return a.inner.Fetch(ctx, c)
}
