package model

import (
	"context"
	"strings"
	"time"
)

// Posting is the unified representation of a job listing from any provider.
type Posting struct {
	Employer    string     // employer name as supplied by the source
	Title       string     // job title
	Description string     // plain-text job description
	Location    string     // location string
	URL         string     // direct posting link
	Deadline    *time.Time // application deadline, nil when the source omits it
	FirstSeen   time.Time  // our clock, set on first sighting and never overwritten
	Source      string     // provider name ("greenhouse", "lever")

	// Derived every run.
	SalaryMin      *int
	SalaryMax      *int
	Keywords       []string
	Score          int
	PreferenceHits []string
}

// Key returns the stable identity key for the posting:
// normalized employer + title + source. Two fetches of the same underlying
// job map to the same key even if casing or whitespace differ.
func (p Posting) Key() string {
	return NormalizeName(p.Employer) + "|" + NormalizeName(p.Title) + "|" + p.Source
}

// EmployerRating holds enrichment data about an employer, collected on a
// different cadence than postings.
type EmployerRating struct {
	Employer    string
	Rating      string // e.g. "4.2", empty when unknown
	ReviewCount string // raw review count string, e.g. "1.2K"
	CompanySize string // normalized range, e.g. "501-1000"
	ProfileURL  string
}

// Key returns the normalized employer name the rating is stored under.
func (r EmployerRating) Key() string {
	return NormalizeName(r.Employer)
}

// SourceCandidate identifies an employer board worth probing on a given
// provider. Candidates are transient: only the postings and ratings they
// yield are persisted.
type SourceCandidate struct {
	Employer string // display name, may equal the slug for discovered boards
	Slug     string // provider board token / company slug
	Source   string // provider name
}

// PreferenceRule matches a set of keywords and contributes its weight to the
// score when any of them appears. Negative weights deprioritize.
type PreferenceRule struct {
	Tag      string
	Keywords []string
	Weight   int
}

// PreferenceModel is the ordered list of rules a posting is scored against.
// Weights are summed, not averaged, so totals are comparative only within
// one configuration.
type PreferenceModel struct {
	Rules []PreferenceRule
}

// NormalizeName lower-cases a name and collapses runs of whitespace, so
// formatting differences between fetches do not break identity.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SourceAdapter fetches postings for one candidate from one provider.
type SourceAdapter interface {
	Fetch(ctx context.Context, c SourceCandidate) ([]Posting, error)
	Source() string
}

// Discoverer enumerates candidate employer boards from an external search
// capability. Failure is non-fatal to a run.
type Discoverer interface {
	Discover(ctx context.Context, query string) ([]SourceCandidate, error)
}

// RatingLookup resolves live rating data for an employer. A lookup that
// finds nothing returns ErrRatingNotFound rather than a zero rating.
type RatingLookup interface {
	Lookup(ctx context.Context, employer string) (EmployerRating, error)
}
