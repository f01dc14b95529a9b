package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dmerrick/jobscout/internal/model"
)

// Adapter is a decorator that retries transient fetch failures with
// exponential backoff and jitter before delegating to the wrapped
// SourceAdapter.
type Adapter struct {
	inner      model.SourceAdapter
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// Wrap decorates a SourceAdapter with retry logic. maxRetries is the number
// of additional attempts after the first failure; baseDelay is the delay
// before the first retry, doubled on each subsequent one.
func Wrap(inner model.SourceAdapter, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (a *Adapter) Source() string { return a.inner.Source() }

// Fetch attempts the fetch, retrying on transient errors. A non-retryable
// error or an exhausted attempt budget returns the last error unchanged so
// the orchestrator can classify it.
func (a *Adapter) Fetch(ctx context.Context, c model.SourceCandidate) ([]model.Posting, error) {
	postings, err := a.inner.Fetch(ctx, c)
	if err == nil {
		return postings, nil
	}

	if !isRetryable(err) {
		return nil, err
	}

	lastErr := err
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		delay := a.backoffDelay(attempt, lastErr)

		a.logger.Warn("retrying after transient error",
			"source", a.inner.Source(),
			"slug", c.Slug,
			"attempt", attempt,
			"max_retries", a.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		postings, err = a.inner.Fetch(ctx, c)
		if err == nil {
			return postings, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After duration from the source (HTTP 429) takes precedence.
func (a *Adapter) backoffDelay(attempt int, err error) time.Duration {
	var fetchErr *model.FetchError
	if errors.As(err, &fetchErr) && fetchErr.RetryAfter > 0 {
		return fetchErr.RetryAfter
	}

	delay := a.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether the error is a transient failure worth
// retrying. Context cancellation is never retried.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var fetchErr *model.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Retryable()
	}

	// Unclassified errors (request construction, decode) — don't retry.
	return false
}
