package cache

import (
	"context"
	"time"
)

// Cache stores stringified LLM responses under deterministic fingerprints.
// Implemented by the in-process memory cache (default) and a Redis-backed
// cache for multi-instance deployments.
type Cache interface {
	// Get returns the cached value for key, or ok=false when the key is
	// unknown or expired. An expired entry is evicted as a side effect.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key. A ttl <= 0 falls back to the cache's
	// default TTL. Overwrites any existing entry for the same key.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// CleanupExpired sweeps currently-expired entries and returns how many
	// were removed. Safe to call out of band; does not touch hit/miss counters.
	CleanupExpired(ctx context.Context) (int, error)

	// Stats reports counters and configuration for observability.
	Stats() Stats

	// Clear drops all entries and resets counters.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Stats is a point-in-time snapshot of cache behaviour.
type Stats struct {
	Size          int           `json:"size"`
	MaxSize       int           `json:"max_size"`
	Hits          int64         `json:"hits"`
	Misses        int64         `json:"misses"`
	TotalRequests int64         `json:"total_requests"`
	HitRate       float64       `json:"hit_rate"`
	DefaultTTL    time.Duration `json:"default_ttl"`
}

// hitRate converts hit/miss counters into a percentage, 0 when idle.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	rate := float64(hits) / float64(total) * 100
	// two decimal places is plenty for a dashboard
	return float64(int64(rate*100+0.5)) / 100
}
