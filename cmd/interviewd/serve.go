package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"interviewcore/internal/cache"
	"interviewcore/internal/config"
	"interviewcore/internal/httpserver"
	"interviewcore/internal/llm"
	"interviewcore/internal/metrics"
	"interviewcore/internal/orchestrator"
	"interviewcore/internal/usage"
	"interviewcore/pkg/logging"
)

// cacheSweepInterval is how often the expired-entry sweep runs.
const cacheSweepInterval = 5 * time.Minute

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestration daemon with its ops endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

func runServe(configPath string) error {
	// ----- Logger -----
	logger := logging.DefaultLogger()
	defer logger.Sync()

	// ----- Metrics -----
	metrics.Register()

	// ----- Config -----
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	logger.Info("loaded config",
		zap.String("listen", cfg.Listen),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("cost_tracking_enabled", cfg.CostTracking.Enabled),
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("model", cfg.Provider.Model),
	)

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			return err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.Cache.RedisAddr),
		)
	}

	// ----- Response cache (explicitly constructed, process-scoped) -----
	llmCache := cache.NewLoggingCache(cache.New(cfg.Cache, redisClient))
	defer llmCache.Close()

	// ----- Provider client -----
	apiKey := cfg.Provider.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}
	provider, err := llm.NewClient(llm.Config{
		BaseURL:        cfg.Provider.BaseURL,
		APIKey:         apiKey,
		RequestTimeout: cfg.Provider.Timeout(),
	}, logger)
	if err != nil {
		return err
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// ----- Usage store -----
	store, err := usage.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	// ----- Orchestrator -----
	orc := orchestrator.New(provider, llmCache, orchestrator.Config{
		CacheEnabled:        cfg.Cache.Enabled,
		CacheTTL:            cfg.Cache.TTL(),
		CostTrackingEnabled: cfg.CostTracking.Enabled,
		Backoff:             orchestrator.DefaultBackoff(),
	}, logger)
	_ = orc // handed to the product API layer once it registers its routes

	// ----- Periodic cache sweep -----
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cacheSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := llmCache.CleanupExpired(sweepCtx); err != nil {
					logger.Warn("cache sweep failed", zap.Error(err))
				}
			case <-sweepCtx.Done():
				return
			}
		}
	}()

	// ----- Router + HTTP server -----
	r := chi.NewRouter()
	httpserver.SetupRouter(r, logger, llmCache)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting interviewd",
		zap.String("addr", srv.Addr),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	// ----- Graceful shutdown -----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server shutdown complete")
	return nil
}
