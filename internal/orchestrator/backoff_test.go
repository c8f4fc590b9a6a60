package orchestrator

import (
	"testing"
	"time"
)

func TestBackoffDelayGrowth(t *testing.T) {
	t.Parallel()

	p := DefaultBackoff()

	want := []time.Duration{
		2 * time.Second,  // attempt 0
		4 * time.Second,  // attempt 1
		8 * time.Second,  // attempt 2
		10 * time.Second, // attempt 3, capped
		10 * time.Second, // attempt 4, still capped
	}
	for attempt, expected := range want {
		if got := p.Delay(attempt); got != expected {
			t.Errorf("Delay(%d) = %v, want %v", attempt, got, expected)
		}
	}
}

func TestBackoffDelayHandlesExtremes(t *testing.T) {
	t.Parallel()

	p := DefaultBackoff()

	if got := p.Delay(-5); got != 2*time.Second {
		t.Fatalf("negative attempt should clamp to the minimum, got %v", got)
	}
	if got := p.Delay(1000); got != 10*time.Second {
		t.Fatalf("huge attempt should stay capped, got %v", got)
	}

	// zero-value policy falls back to the defaults
	var zero BackoffPolicy
	if got := zero.Delay(0); got != 2*time.Second {
		t.Fatalf("zero policy should default to 2s, got %v", got)
	}
}

func TestBackoffDelayJitterBounds(t *testing.T) {
	t.Parallel()

	p := BackoffPolicy{Min: time.Second, Max: 8 * time.Second, Jitter: true}

	for i := 0; i < 100; i++ {
		got := p.Delay(2) // 4s without jitter
		if got <= 0 || got > 4*time.Second {
			t.Fatalf("jittered delay out of (0, 4s]: %v", got)
		}
	}
}
