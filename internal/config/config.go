package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all interviewcore configuration.
type Config struct {
	Listen       string          `yaml:"listen"`
	Provider     ProviderConfig  `yaml:"provider"`
	Cache        CacheConfig     `yaml:"cache"`
	CostTracking CostConfig      `yaml:"cost_tracking"`
	Store        StoreConfig     `yaml:"store"`
	Interview    InterviewConfig `yaml:"interview"`
}

// ProviderConfig defines the upstream LLM provider.
type ProviderConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request provider timeout as a duration.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig controls the LLM response cache.
// TTLSeconds and MaxSize mirror the process-wide cache settings;
// Backend selects "memory" (default) or "redis".
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	MaxSize    int    `yaml:"max_size"`
	Backend    string `yaml:"backend"`
	RedisAddr  string `yaml:"redis_addr"`
}

// TTL returns the configured TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// CostConfig gates whether usage records are ever written.
type CostConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StoreConfig selects the usage store backend.
// Backend is "sqlite" (default) or "postgres"; DSN is the database
// path for sqlite or a connection string for postgres.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

// InterviewConfig carries interview workflow defaults.
type InterviewConfig struct {
	TargetQuestions int `yaml:"target_questions"`
	DifficultyStart int `yaml:"difficulty_start"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8085",
		Provider: ProviderConfig{
			BaseURL:        "https://api.openai.com",
			Model:          "gpt-4",
			TimeoutSeconds: 30,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
			MaxSize:    1000,
			Backend:    "memory",
			RedisAddr:  "127.0.0.1:6379",
		},
		CostTracking: CostConfig{
			Enabled: true,
		},
		Store: StoreConfig{
			Backend: "sqlite",
			DSN:     "interviewcore.db",
		},
		Interview: InterviewConfig{
			TargetQuestions: 8,
			DifficultyStart: 5,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints after loading.
func (c *Config) Validate() error {
	if c.Cache.TTLSeconds < 0 {
		return errors.New("cache.ttl_seconds must not be negative")
	}
	if c.Cache.MaxSize <= 0 {
		return errors.New("cache.max_size must be positive")
	}
	switch c.Cache.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend %q not supported (memory, redis)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("store.backend %q not supported (sqlite, postgres)", c.Store.Backend)
	}
	return nil
}
