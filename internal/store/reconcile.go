package store

import (
	"sort"
	"time"

	"github.com/dmerrick/jobscout/internal/model"
)

// RecordState tracks each record through one reconciliation pass.
type RecordState int

const (
	// StateNew: the key was not in the prior snapshot.
	StateNew RecordState = iota
	// StateMerged: the key matched an existing record; volatile fields were
	// replaced, immutable fields retained.
	StateMerged
	// StateRetained: the record was in the prior snapshot but absent from
	// this run's fetch results. Kept as-is — one run covers only a subset of
	// sources, so absence is never deletion.
	StateRetained
	// StatePersisted: the record was written to the snapshot.
	StatePersisted
)

func (s RecordState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateMerged:
		return "merged"
	case StateRetained:
		return "retained"
	case StatePersisted:
		return "persisted"
	}
	return "unknown"
}

// Result is the outcome of reconciling one run's fetch results against the
// prior snapshot. Postings and Ratings are complete, deduplicated-by-key
// tables ready for an atomic write.
type Result struct {
	Postings      []model.Posting
	Ratings       []model.EmployerRating
	PostingStates map[string]RecordState
	RatingStates  map[string]RecordState
}

// MarkPersisted transitions every record to StatePersisted. Called by the
// pipeline after the snapshot write succeeds, never before.
func (r *Result) MarkPersisted() {
	for k := range r.PostingStates {
		r.PostingStates[k] = StatePersisted
	}
	for k := range r.RatingStates {
		r.RatingStates[k] = StatePersisted
	}
}

// Counts returns how many postings landed in each pre-persist state.
func (r *Result) Counts() (newCount, merged, retained int) {
	for _, s := range r.PostingStates {
		switch s {
		case StateNew:
			newCount++
		case StateMerged:
			merged++
		case StateRetained:
			retained++
		}
	}
	return
}

// Reconcile merges freshly fetched postings and ratings against the prior
// snapshot by stable key. now stamps FirstSeen on new postings.
func Reconcile(prevPostings, fetched []model.Posting, prevRatings, freshRatings []model.EmployerRating, now time.Time) *Result {
	res := &Result{
		PostingStates: make(map[string]RecordState),
		RatingStates:  make(map[string]RecordState),
	}

	prev := make(map[string]model.Posting, len(prevPostings))
	for _, p := range prevPostings {
		prev[p.Key()] = p
	}

	merged := make(map[string]model.Posting, len(prevPostings)+len(fetched))

	for _, p := range fetched {
		key := p.Key()
		if dup, ok := merged[key]; ok {
			// Same key fetched twice within one run: merge onto the first.
			merged[key] = mergePosting(dup, p)
			continue
		}
		if old, ok := prev[key]; ok {
			merged[key] = mergePosting(old, p)
			res.PostingStates[key] = StateMerged
		} else {
			p.FirstSeen = now
			merged[key] = p
			res.PostingStates[key] = StateNew
		}
	}

	for key, old := range prev {
		if _, ok := merged[key]; !ok {
			merged[key] = old
			res.PostingStates[key] = StateRetained
		}
	}

	res.Postings = sortedPostings(merged)
	res.Ratings = reconcileRatings(prevRatings, freshRatings, res.RatingStates)
	return res
}

// mergePosting applies the merge rule: FirstSeen is immutable; recomputed
// fields (score, hits, keywords, description) always come from the new
// fetch; nullable fields (url, deadline, salary) are overwritten when the
// new fetch provides them and retained otherwise.
func mergePosting(old, fresh model.Posting) model.Posting {
	out := fresh
	out.FirstSeen = old.FirstSeen

	if out.URL == "" {
		out.URL = old.URL
	}
	if out.Deadline == nil {
		out.Deadline = old.Deadline
	}
	if out.SalaryMin == nil {
		out.SalaryMin = old.SalaryMin
	}
	if out.SalaryMax == nil {
		out.SalaryMax = old.SalaryMax
	}
	if out.Location == "" {
		out.Location = old.Location
	}
	if out.Description == "" {
		out.Description = old.Description
	}
	return out
}

// reconcileRatings overwrites a stored rating only when a fresh lookup
// succeeded for that employer; everything else is fully retained. A failed
// or skipped lookup therefore never erases data.
func reconcileRatings(prev, fresh []model.EmployerRating, states map[string]RecordState) []model.EmployerRating {
	merged := make(map[string]model.EmployerRating, len(prev)+len(fresh))

	for _, r := range prev {
		merged[r.Key()] = r
		states[r.Key()] = StateRetained
	}
	for _, r := range fresh {
		key := r.Key()
		if _, ok := merged[key]; ok {
			states[key] = StateMerged
		} else {
			states[key] = StateNew
		}
		merged[key] = r
	}

	out := make([]model.EmployerRating, 0, len(merged))
	for _, r := range merged {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func sortedPostings(m map[string]model.Posting) []model.Posting {
	out := make([]model.Posting, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
