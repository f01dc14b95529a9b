// Package rating enriches employers with rating data collected on its own
// cadence, independent of posting fetches.
package rating

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dmerrick/jobscout/internal/model"
)

// Enricher resolves employer ratings cache-first: a live lookup happens only
// on a cache miss or when force-refresh is set. A failed lookup returns the
// cached value (or absent) and never disturbs stored data — absence of new
// data is not evidence of absence.
type Enricher struct {
	lookup model.RatingLookup
	force  bool
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]model.EmployerRating
	fresh map[string]model.EmployerRating // successful lookups this run
}

// NewEnricher seeds the enricher with previously persisted ratings.
func NewEnricher(lookup model.RatingLookup, cached []model.EmployerRating, force bool, logger *slog.Logger) *Enricher {
	cache := make(map[string]model.EmployerRating, len(cached))
	for _, r := range cached {
		cache[r.Key()] = r
	}
	return &Enricher{
		lookup: lookup,
		force:  force,
		logger: logger,
		cache:  cache,
		fresh:  make(map[string]model.EmployerRating),
	}
}

// Enrich returns rating data for the employer, or ok=false when none is
// known. Safe for concurrent use.
func (e *Enricher) Enrich(ctx context.Context, employer string) (model.EmployerRating, bool) {
	key := model.NormalizeName(employer)

	e.mu.Lock()
	cached, hit := e.cache[key]
	e.mu.Unlock()

	if hit && !e.force {
		return cached, true
	}

	r, err := e.lookup.Lookup(ctx, employer)
	if err != nil {
		if !errors.Is(err, model.ErrRatingNotFound) {
			e.logger.Warn("rating lookup failed", "employer", employer, "error", err)
		}
		// Lookup came back empty: fall back to whatever we already had.
		return cached, hit
	}

	e.mu.Lock()
	e.cache[key] = r
	e.fresh[key] = r
	e.mu.Unlock()

	return r, true
}

// BeginRun forgets lookups recorded by earlier runs. The cache stays warm,
// but only lookups succeeding after this call count as fresh — stale results
// from a prior run must never overwrite stored rows.
func (e *Enricher) BeginRun() {
	e.mu.Lock()
	e.fresh = make(map[string]model.EmployerRating)
	e.mu.Unlock()
}

// FreshRatings returns the ratings from lookups that succeeded during this
// run. Only these may overwrite stored rows during reconciliation.
func (e *Enricher) FreshRatings() []model.EmployerRating {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.EmployerRating, 0, len(e.fresh))
	for _, r := range e.fresh {
		out = append(out, r)
	}
	return out
}
