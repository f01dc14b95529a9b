// Package pipeline sequences one aggregation run: discovery, fetch,
// extraction, scoring, enrichment, reconciliation, and the final atomic
// persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/dmerrick/jobscout/internal/discovery"
	"github.com/dmerrick/jobscout/internal/extract"
	"github.com/dmerrick/jobscout/internal/model"
	"github.com/dmerrick/jobscout/internal/rating"
	"github.com/dmerrick/jobscout/internal/report"
	"github.com/dmerrick/jobscout/internal/score"
	"github.com/dmerrick/jobscout/internal/store"
)

// ErrLocked is returned when another run holds the snapshot lock.
var ErrLocked = errors.New("another run holds the snapshot lock")

// ErrAborted is returned when the run was cancelled before persistence;
// nothing was written.
var ErrAborted = errors.New("run aborted before persistence")

// Pipeline owns one run against one snapshot directory. The snapshot store
// is not safe for concurrent writers, so runs are serialized by a file lock.
type Pipeline struct {
	Store      *store.FileStore
	Index      *store.FirstSeenIndex // optional, enables the freshness skip
	Discoverer model.Discoverer      // optional, static candidates still run
	Adapters   map[string]model.SourceAdapter
	Enricher   *rating.Enricher
	Scorer     *score.Scorer
	Prefs      model.PreferenceModel

	Static     []model.SourceCandidate // boards pinned in config, always probed
	Query      string                  // discovery query
	Workers    int                     // bounded fetch concurrency
	USOnly     bool                    // drop postings located outside the US
	ExtraVocab []string                // keyword terms beyond the built-in vocabulary

	LockPath string
	Logger   *slog.Logger
}

// Run executes the full pipeline once. The snapshot is written only after
// every merge has been applied; a cancelled or failed run never leaves a
// partial write behind.
func (p *Pipeline) Run(ctx context.Context) (*report.Summary, error) {
	lock := flock.New(p.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	defer lock.Unlock()

	prevPostings, err := p.Store.LoadPostings()
	if err != nil {
		return nil, fmt.Errorf("loading prior snapshot: %w", err)
	}
	prevRatings, err := p.Store.LoadRatings()
	if err != nil {
		return nil, fmt.Errorf("loading prior ratings: %w", err)
	}
	p.Logger.Info("snapshot loaded", "postings", len(prevPostings), "ratings", len(prevRatings))

	// Freshness is per run: a lookup that succeeded on an earlier run of this
	// same pipeline must not masquerade as new data now.
	p.Enricher.BeginRun()

	summary := &report.Summary{}
	candidates := p.gatherCandidates(ctx, prevPostings)

	fetched := p.fetchAll(ctx, candidates, summary)
	if ctx.Err() != nil {
		return summary, ErrAborted
	}

	p.enrichRatings(ctx, fetched)
	if ctx.Err() != nil {
		return summary, ErrAborted
	}

	now := time.Now()
	result := store.Reconcile(prevPostings, fetched, prevRatings, p.Enricher.FreshRatings(), now)
	summary.New, summary.Merged, summary.Retained = result.Counts()
	summary.RatingsRefreshed = len(p.Enricher.FreshRatings())

	if ctx.Err() != nil {
		return summary, ErrAborted
	}
	if err := p.Store.Save(result.Postings, result.Ratings); err != nil {
		return summary, fmt.Errorf("persisting snapshot: %w", err)
	}
	result.MarkPersisted()
	summary.Persisted = true

	p.recordFirstSeen(result.Postings, now)

	return summary, nil
}

// gatherCandidates merges pinned boards with discovered ones, deduplicated
// by (employer, source). Discovery failure degrades to the employers already
// known from the prior snapshot.
func (p *Pipeline) gatherCandidates(ctx context.Context, prevPostings []model.Posting) []model.SourceCandidate {
	var candidates []model.SourceCandidate
	seen := make(map[string]bool)

	add := func(c model.SourceCandidate) {
		key := model.NormalizeName(c.Employer) + "|" + c.Source
		if c.Slug == "" || seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, c)
	}

	for _, c := range p.Static {
		add(c)
	}

	if p.Discoverer == nil {
		return candidates
	}

	discovered, err := p.Discoverer.Discover(ctx, p.Query)
	if err != nil {
		p.Logger.Warn("discovery failed, falling back to known employers", "error", err)
		for _, prev := range prevPostings {
			if c, ok := discovery.CandidateFromURL(prev.URL); ok {
				c.Employer = prev.Employer
				add(c)
			}
		}
		return candidates
	}

	for _, c := range discovered {
		add(c)
	}
	p.Logger.Info("candidates gathered", "total", len(candidates), "discovered", len(discovered))
	return candidates
}

// fetchAll fetches every candidate with bounded concurrency. Pacing within a
// source is enforced by the adapters' rate-limit decorators, so concurrency
// here is effectively per-source. Per-candidate failures are recorded and
// never abort the run.
func (p *Pipeline) fetchAll(ctx context.Context, candidates []model.SourceCandidate, summary *report.Summary) []model.Posting {
	var (
		mu      sync.Mutex
		fetched []model.Posting
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount())

	for _, c := range candidates {
		adapter, ok := p.Adapters[c.Source]

		mu.Lock()
		summary.Stats(c.Source).Candidates++
		mu.Unlock()

		if !ok {
			p.Logger.Warn("no adapter for source, skipping", "source", c.Source, "employer", c.Employer)
			continue
		}

		g.Go(func() error {
			postings, err := adapter.Fetch(gctx, c)
			if err != nil {
				p.Logger.Error("candidate fetch failed",
					"source", c.Source,
					"employer", c.Employer,
					"error", err,
				)
				mu.Lock()
				summary.Stats(c.Source).Failed++
				mu.Unlock()
				return nil // contained: a bad candidate never aborts the run
			}

			processed := p.process(postings)

			mu.Lock()
			summary.Stats(c.Source).Fetched += len(processed)
			fetched = append(fetched, processed...)
			mu.Unlock()
			return nil
		})
	}

	g.Wait()
	return fetched
}

// process derives per-posting attributes once the fetch is complete:
// salary, keywords, and the preference score. Optionally drops non-US
// postings before they can enter the snapshot.
func (p *Pipeline) process(postings []model.Posting) []model.Posting {
	out := make([]model.Posting, 0, len(postings))
	for _, posting := range postings {
		if p.USOnly && posting.Location != "" && !extract.InUSA(posting.Location) {
			p.Logger.Debug("skipping non-US posting",
				"employer", posting.Employer,
				"title", posting.Title,
				"location", posting.Location,
			)
			continue
		}

		posting.SalaryMin, posting.SalaryMax = extract.Salary(posting.Description)
		posting.Keywords = extract.Keywords(posting.Description)
		if len(p.ExtraVocab) > 0 {
			posting.Keywords = mergeKeywords(posting.Keywords,
				extract.KeywordsIn(posting.Description, p.ExtraVocab))
		}
		posting.Score, posting.PreferenceHits = p.Scorer.Score(posting, p.Prefs)
		out = append(out, posting)
	}
	return out
}

// enrichRatings resolves ratings for each unique employer in the fetched
// set. Lookups target a different external dependency than posting fetches,
// so they run in their own bounded group.
func (p *Pipeline) enrichRatings(ctx context.Context, postings []model.Posting) {
	unique := make(map[string]string) // normalized -> display
	for _, posting := range postings {
		unique[model.NormalizeName(posting.Employer)] = posting.Employer
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount())

	for _, employer := range unique {
		g.Go(func() error {
			if _, ok := p.Enricher.Enrich(gctx, employer); !ok {
				p.Logger.Debug("no rating data", "employer", employer)
			}
			return nil
		})
	}
	g.Wait()
}

// recordFirstSeen updates the discovery index after a successful persist.
func (p *Pipeline) recordFirstSeen(postings []model.Posting, now time.Time) {
	if p.Index == nil {
		return
	}
	for _, posting := range postings {
		if err := p.Index.Record(posting.Employer, now); err != nil {
			p.Logger.Warn("first-seen index update failed", "employer", posting.Employer, "error", err)
		}
	}
}

// mergeKeywords combines two sorted keyword lists, case-insensitively
// deduplicated, preserving sorted order.
func mergeKeywords(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, kw := range append(a, b...) {
		key := strings.ToLower(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func (p *Pipeline) workerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return 4
}
