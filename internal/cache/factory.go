package cache

import (
	"github.com/redis/go-redis/v9"

	"interviewcore/internal/config"
)

// New builds the configured cache backend. redisClient is only required
// when cfg.Backend is "redis".
func New(cfg config.CacheConfig, redisClient *redis.Client) Cache {
	switch cfg.Backend {
	case "redis":
		return NewRedisCache(redisClient, "llm", cfg.TTL())
	default:
		return NewMemoryCache(cfg.TTL(), cfg.MaxSize)
	}
}
