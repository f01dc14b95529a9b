package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestWait_FirstCallImmediate(t *testing.T) {
	l := NewSourceLimiter(time.Second, nil)

	start := time.Now()
	if err := l.Wait(context.Background(), "greenhouse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("first call should not block")
	}
}

func TestWait_SpacesSameSource(t *testing.T) {
	l := NewSourceLimiter(50*time.Millisecond, nil)
	ctx := context.Background()

	start := time.Now()
	l.Wait(ctx, "lever")
	l.Wait(ctx, "lever")
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("second same-source call after %v, want >= 50ms", elapsed)
	}
}

func TestWait_IndependentSourcesDoNotBlockEachOther(t *testing.T) {
	l := NewSourceLimiter(time.Second, nil)
	ctx := context.Background()

	l.Wait(ctx, "greenhouse")
	start := time.Now()
	l.Wait(ctx, "lever")
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("cross-source call blocked for %v", elapsed)
	}
}

func TestWait_PerSourceOverride(t *testing.T) {
	l := NewSourceLimiter(time.Hour, map[string]time.Duration{"lever": 10 * time.Millisecond})
	ctx := context.Background()

	start := time.Now()
	l.Wait(ctx, "lever")
	l.Wait(ctx, "lever")
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("override ignored; waited %v", elapsed)
	}
}

func TestWait_CancelledContext(t *testing.T) {
	l := NewSourceLimiter(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())

	l.Wait(ctx, "greenhouse")
	cancel()
	if err := l.Wait(ctx, "greenhouse"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
