package orchestrator

import (
	"math"
	"math/rand"
	"time"
)

// BackoffPolicy computes the wait before each retry: Min * 2^attempt,
// capped at Max. With Jitter enabled the wait is drawn uniformly from
// (0, computed] to avoid synchronized retries.
type BackoffPolicy struct {
	Min    time.Duration
	Max    time.Duration
	Jitter bool
}

// DefaultBackoff matches the invocation retry policy: waits start at 2s
// and cap at 10s.
func DefaultBackoff() BackoffPolicy {
	return BackoffPolicy{
		Min: 2 * time.Second,
		Max: 10 * time.Second,
	}
}

// Delay returns the wait before retry number attempt (0-based: the wait
// after the first failed call is Delay(0)).
func (p BackoffPolicy) Delay(attempt int) time.Duration {
	min := p.Min
	if min <= 0 {
		min = 2 * time.Second
	}
	max := p.Max
	if max <= 0 {
		max = 10 * time.Second
	}

	// Cap the exponent so the multiplication cannot overflow.
	const maxExponent = 10
	if attempt > maxExponent {
		attempt = maxExponent
	}
	if attempt < 0 {
		attempt = 0
	}

	backoff := time.Duration(float64(min) * math.Pow(2, float64(attempt)))
	if backoff > max {
		backoff = max
	}

	if p.Jitter {
		backoff = time.Duration(rand.Float64() * float64(backoff))
		if backoff <= 0 {
			backoff = time.Millisecond
		}
	}

	return backoff
}
