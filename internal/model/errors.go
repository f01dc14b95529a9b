package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrRatingNotFound reports that a rating lookup completed but found no data
// for the employer. Callers must treat it as "absent", never as a reason to
// erase a previously stored rating.
var ErrRatingNotFound = errors.New("no rating data found")

// FetchError wraps a failed source fetch so retry logic can inspect it.
// StatusCode is zero for non-HTTP failures (network, DNS).
type FetchError struct {
	Source     string
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s fetch: HTTP %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient: rate limiting (429),
// server errors (5xx), and non-HTTP network failures. Other 4xx statuses
// mean the candidate is bad and retrying cannot help.
func (e *FetchError) Retryable() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// ParseError reports a single malformed record within an otherwise good
// batch. Adapters skip and log these; they never fail the batch.
type ParseError struct {
	Source string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed record: %s", e.Source, e.Detail)
}
