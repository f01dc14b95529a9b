// Package discovery resolves the set of employer boards a run should probe,
// using an external search capability to find candidate board URLs.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/dmerrick/jobscout/internal/model"
	"github.com/dmerrick/jobscout/internal/store"
)

// URLSearcher is the external search capability: given a query, return
// result URLs. Implementations live at the edge (HTTP search APIs).
type URLSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Service turns search results into deduplicated source candidates, skipping
// employers probed recently enough that a re-probe would be wasted effort.
// The skip is an optimization only — reconciliation merges by key, so
// re-discovering a known employer can never create duplicates.
type Service struct {
	searcher  URLSearcher
	index     *store.FirstSeenIndex
	freshness time.Duration
	logger    *slog.Logger
}

// NewService wires the discovery service. index may be nil, which disables
// the freshness skip.
func NewService(searcher URLSearcher, index *store.FirstSeenIndex, freshness time.Duration, logger *slog.Logger) *Service {
	return &Service{
		searcher:  searcher,
		index:     index,
		freshness: freshness,
		logger:    logger,
	}
}

// Discover runs the search and extracts one candidate per employer.
func (s *Service) Discover(ctx context.Context, query string) ([]model.SourceCandidate, error) {
	urls, err := s.searcher.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("discovery search: %w", err)
	}

	now := time.Now()
	seen := make(map[string]bool)
	var candidates []model.SourceCandidate

	for _, raw := range urls {
		c, ok := CandidateFromURL(raw)
		if !ok {
			continue
		}

		key := model.NormalizeName(c.Employer)
		if seen[key] {
			continue
		}
		seen[key] = true

		if s.index != nil && s.freshness > 0 {
			fresh, err := s.index.SeenWithin(c.Employer, s.freshness, now)
			if err != nil {
				s.logger.Warn("first-seen lookup failed, probing anyway", "employer", c.Employer, "error", err)
			} else if fresh {
				s.logger.Debug("skipping recently seen employer", "employer", c.Employer)
				continue
			}
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}

// CandidateFromURL extracts a source candidate from a job-board URL.
// Recognizes Lever posting/board URLs and Greenhouse board URLs; anything
// else is rejected.
func CandidateFromURL(raw string) (model.SourceCandidate, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return model.SourceCandidate{}, false
	}

	host := strings.ToLower(u.Hostname())
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return model.SourceCandidate{}, false
	}

	switch {
	case host == "jobs.lever.co":
		slug := parts[0]
		return model.SourceCandidate{
			Employer: humanizeSlug(slug),
			Slug:     slug,
			Source:   "lever",
		}, true

	case host == "boards.greenhouse.io" || host == "job-boards.greenhouse.io":
		slug := parts[0]
		if slug == "embed" {
			return model.SourceCandidate{}, false
		}
		return model.SourceCandidate{
			Employer: humanizeSlug(slug),
			Slug:     slug,
			Source:   "greenhouse",
		}, true
	}

	return model.SourceCandidate{}, false
}

// humanizeSlug turns a board slug like "initech-labs" into "Initech Labs"
// for display and rating lookups. The real employer casing arrives with the
// posting fetch when the provider supplies one.
func humanizeSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
