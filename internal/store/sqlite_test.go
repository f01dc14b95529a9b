package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestIndex(t *testing.T) *FirstSeenIndex {
	t.Helper()
	idx, err := OpenFirstSeenIndex(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestFirstSeenIndex_UnknownEmployer(t *testing.T) {
	idx := openTestIndex(t)

	seen, err := idx.SeenWithin("Acme", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen {
		t.Error("unknown employer reported as seen")
	}
}

func TestFirstSeenIndex_WithinWindow(t *testing.T) {
	idx := openTestIndex(t)
	now := time.Now()

	if err := idx.Record("Acme Corp", now.Add(-time.Hour)); err != nil {
		t.Fatalf("record: %v", err)
	}

	seen, err := idx.SeenWithin("acme corp", 24*time.Hour, now) // normalized lookup
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seen {
		t.Error("employer seen 1h ago not reported within a 24h window")
	}

	seen, err = idx.SeenWithin("Acme Corp", 30*time.Minute, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen {
		t.Error("employer seen 1h ago reported within a 30m window")
	}
}

func TestFirstSeenIndex_FirstSeenImmutable(t *testing.T) {
	idx := openTestIndex(t)
	now := time.Now()

	if err := idx.Record("Acme", now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("record: %v", err)
	}
	// A later record for the same employer must not move first_seen forward.
	if err := idx.Record("Acme", now); err != nil {
		t.Fatalf("second record: %v", err)
	}

	seen, err := idx.SeenWithin("Acme", 24*time.Hour, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen {
		t.Error("first_seen was overwritten by a later Record call")
	}
}
