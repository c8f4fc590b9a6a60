package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"interviewcore/internal/metrics"
	"interviewcore/pkg/logging"
)

// LoggingCache wraps a Cache with structured logging + prometheus counters.
// The orchestrator talks to the wrapped cache, so every hit/miss shows up
// in logs and metrics regardless of which call site triggered it.
type LoggingCache struct {
	inner Cache
}

// NewLoggingCache returns a cache that logs and records metrics.
func NewLoggingCache(inner Cache) Cache {
	return &LoggingCache{inner: inner}
}

func (c *LoggingCache) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)

	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case ok:
		result = "hit"
		metrics.CacheHitsTotal.Inc()
	default:
		metrics.CacheMissesTotal.Inc()
	}

	fields := []zap.Field{
		zap.String("fingerprint", key),
		zap.String("cache_result", result),
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("llm_cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("llm_cache_get", fields...)
	}

	return value, ok, err
}

func (c *LoggingCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	logger := logging.L(ctx)
	fields := []zap.Field{
		zap.String("fingerprint", key),
		zap.Int("value_bytes", len(value)),
		zap.Duration("ttl", ttl),
		zap.Float64("latency_ms", latencyMs),
	}

	if err != nil {
		logger.Error("llm_cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("llm_cache_set", fields...)
	}

	return err
}

func (c *LoggingCache) CleanupExpired(ctx context.Context) (int, error) {
	removed, err := c.inner.CleanupExpired(ctx)
	if err != nil {
		logging.L(ctx).Error("llm_cache_cleanup", zap.Error(err))
		return removed, err
	}
	if removed > 0 {
		logging.L(ctx).Info("llm_cache_cleanup", zap.Int("removed", removed))
	}
	return removed, nil
}

func (c *LoggingCache) Stats() Stats {
	return c.inner.Stats()
}

func (c *LoggingCache) Clear(ctx context.Context) error {
	return c.inner.Clear(ctx)
}

func (c *LoggingCache) Close() error {
	return c.inner.Close()
}
