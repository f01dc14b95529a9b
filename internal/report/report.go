// Package report delivers end-of-run summaries.
package report

import (
	"log/slog"
	"sort"
)

// SourceStats counts what happened to one source during a run.
type SourceStats struct {
	Candidates int // candidates routed to this source
	Fetched    int // postings fetched successfully
	Failed     int // candidates that failed after retries
}

// Summary is the user-visible outcome of one pipeline run.
type Summary struct {
	PerSource map[string]*SourceStats

	// Per-record reconciliation outcomes.
	New      int
	Merged   int
	Retained int

	RatingsRefreshed int
	Persisted        bool
}

// SourceNames returns the summarized sources in stable order.
func (s *Summary) SourceNames() []string {
	names := make([]string, 0, len(s.PerSource))
	for name := range s.PerSource {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns the (possibly new) stats bucket for a source.
func (s *Summary) Stats(source string) *SourceStats {
	if s.PerSource == nil {
		s.PerSource = make(map[string]*SourceStats)
	}
	st, ok := s.PerSource[source]
	if !ok {
		st = &SourceStats{}
		s.PerSource[source] = st
	}
	return st
}

// Reporter delivers a run summary somewhere.
type Reporter interface {
	Report(summary *Summary) error
}

// Ensure LogReporter implements Reporter.
var _ Reporter = (*LogReporter)(nil)

// LogReporter writes the summary to the given logger as structured messages.
type LogReporter struct {
	logger *slog.Logger
}

func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report logs one line per source plus the reconciliation totals.
func (r *LogReporter) Report(s *Summary) error {
	for _, name := range s.SourceNames() {
		st := s.PerSource[name]
		r.logger.Info("source summary",
			"source", name,
			"candidates", st.Candidates,
			"fetched", st.Fetched,
			"failed", st.Failed,
		)
	}
	r.logger.Info("run summary",
		"new", s.New,
		"merged", s.Merged,
		"retained", s.Retained,
		"ratings_refreshed", s.RatingsRefreshed,
		"persisted", s.Persisted,
	)
	return nil
}
