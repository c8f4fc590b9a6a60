// Package orchestrator is the single entry point for LLM exchanges,
// combining response caching, bounded retry and cost accounting behind
// one call.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewcore/internal/cache"
	"interviewcore/internal/costs"
	"interviewcore/internal/llm"
	"interviewcore/internal/metrics"
	"interviewcore/internal/usage"
)

// Config controls caching, retry and accounting behaviour.
type Config struct {
	CacheEnabled        bool
	CacheTTL            time.Duration
	CostTrackingEnabled bool
	MaxAttempts         int // total attempts including the first (default 3)
	Backoff             BackoffPolicy
}

// WithDefaults returns a copy of Config with sane defaults applied.
func (c Config) WithDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff.Min <= 0 && c.Backoff.Max <= 0 {
		c.Backoff = DefaultBackoff()
	}
	return c
}

// Accounting is the optional side-channel for cost tracking: a
// transactional session supplied per call by the caller, plus the
// interview the spend belongs to.
type Accounting struct {
	Session     usage.Session
	InterviewID int64
}

// Task describes one LLM exchange.
type Task struct {
	Agent       string
	Model       string
	Temperature float64
	System      string
	Prompt      string
	MaxTokens   int

	// UseCache requests a cache lookup; caching also requires the cache
	// to be enabled in config and a model name to fingerprint against.
	UseCache bool

	// Parser decodes the response text; nil means the raw text is the result.
	Parser OutputParser

	// Accounting, when set with cost tracking enabled, records one usage
	// row per invocation. Its failures never affect the primary call.
	Accounting *Accounting
}

// Result is the outcome of a successful invocation.
type Result struct {
	Text   string
	Output any
	Cached bool
	Tokens costs.TokenCounts
	Cost   float64
}

// Orchestrator fronts a provider with cache, retry and accounting. The
// cache is injected by the hosting application; there are no hidden
// process globals here.
type Orchestrator struct {
	provider llm.Provider
	cache    cache.Cache
	cfg      Config
	logger   *zap.Logger
}

// New creates an Orchestrator. cache may be nil when caching is disabled.
func New(provider llm.Provider, c cache.Cache, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		provider: provider,
		cache:    c,
		cfg:      cfg.WithDefaults(),
		logger:   logger.Named("orchestrator"),
	}
}

// Invoke runs one exchange: cache check, provider call with bounded
// retry, accounting, cache write-through. Both the plain and the
// cost-tracked call sites go through this one routine; the accounting
// side-channel is simply absent on the former.
func (o *Orchestrator) Invoke(ctx context.Context, task Task) (*Result, error) {
	start := time.Now()
	invocationID := uuid.NewString()

	logger := o.logger.With(
		zap.String("invocation_id", invocationID),
		zap.String("agent", task.Agent),
		zap.String("model", task.Model),
	)

	defer func() {
		metrics.InvocationDurationSeconds.
			WithLabelValues(task.Agent).
			Observe(time.Since(start).Seconds())
	}()

	if err := ValidateInputs(map[string]string{"prompt": task.Prompt}); err != nil {
		logger.Warn("invocation rejected", zap.Error(err))
		return nil, err
	}
	if task.Temperature < 0 || task.Temperature > 2 {
		return nil, &ValidationError{Field: "temperature", Reason: "must be between 0 and 2"}
	}

	logger.Info("invocation starting", zap.Bool("use_cache", task.UseCache))

	cacheActive := o.cfg.CacheEnabled && task.UseCache && task.Model != "" && o.cache != nil

	var fingerprint string
	if cacheActive {
		fingerprint = cache.GenerateKey(task.Prompt, task.Model, task.Temperature, task.Agent)

		if res, ok := o.tryCache(ctx, logger, task, fingerprint); ok {
			metrics.InvocationsTotal.WithLabelValues(task.Agent, "cached").Inc()
			logger.Info("invocation served from cache",
				zap.String("fingerprint", fingerprint),
				zap.Duration("duration", time.Since(start)),
			)
			return res, nil
		}
	}

	resp, output, err := o.callWithRetry(ctx, logger, task)
	if err != nil {
		metrics.InvocationsTotal.WithLabelValues(task.Agent, "failure").Inc()
		logger.Error("invocation failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, err
	}

	tokens := costs.Counts(fullPrompt(task), resp.Text, task.Model, resp.Usage)
	cost := costs.CalculateCost(tokens.PromptTokens, tokens.CompletionTokens, task.Model)

	o.recordUsage(ctx, logger, task, usage.Record{
		InterviewID:      accountingInterview(task),
		AgentName:        task.Agent,
		Model:            task.Model,
		PromptTokens:     tokens.PromptTokens,
		CompletionTokens: tokens.CompletionTokens,
		TotalTokens:      tokens.TotalTokens,
		EstimatedCost:    cost,
		Cached:           false,
		CreatedAt:        time.Now().UTC(),
	})

	// Write-through only after a complete, parsed response so a cancelled
	// call can never leave a half-written entry behind.
	if cacheActive {
		if err := o.cache.Set(ctx, fingerprint, resp.Text, o.cfg.CacheTTL); err != nil {
			logger.Warn("cache write failed", zap.Error(err))
		}
	}

	metrics.InvocationsTotal.WithLabelValues(task.Agent, "success").Inc()
	metrics.EstimatedCostUSD.WithLabelValues(task.Agent, task.Model).Add(cost)

	logger.Info("invocation succeeded",
		zap.Int("prompt_tokens", tokens.PromptTokens),
		zap.Int("completion_tokens", tokens.CompletionTokens),
		zap.Float64("estimated_cost_usd", cost),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Text:   resp.Text,
		Output: output,
		Tokens: tokens,
		Cost:   cost,
	}, nil
}

// tryCache attempts to serve the task from cache. A hit that fails to
// parse is treated as a miss; the entry is overwritten once the provider
// call succeeds.
func (o *Orchestrator) tryCache(ctx context.Context, logger *zap.Logger, task Task, fingerprint string) (*Result, bool) {
	value, ok, err := o.cache.Get(ctx, fingerprint)
	if err != nil {
		// Cache is best-effort; log and fall through to the provider.
		logger.Warn("cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var output any
	if task.Parser != nil {
		output, err = task.Parser.Parse(value)
		if err != nil {
			logger.Warn("cached value failed to parse, treating as miss", zap.Error(err))
			return nil, false
		}
	}

	o.recordUsage(ctx, logger, task, usage.Record{
		InterviewID: accountingInterview(task),
		AgentName:   task.Agent,
		Model:       task.Model,
		Cached:      true,
		CreatedAt:   time.Now().UTC(),
	})

	return &Result{
		Text:   value,
		Output: output,
		Cached: true,
	}, true
}

// callWithRetry runs the provider call and parse stages in an explicit
// bounded loop: up to MaxAttempts total attempts, retrying only the
// retryable error kinds, with exponential backoff between attempts.
func (o *Orchestrator) callWithRetry(ctx context.Context, logger *zap.Logger, task Task) (*llm.Response, any, error) {
	req := &llm.Request{
		Model:       task.Model,
		System:      task.System,
		Prompt:      task.Prompt,
		Temperature: task.Temperature,
		MaxTokens:   task.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.RetriesTotal.WithLabelValues(task.Agent).Inc()

			delay := o.cfg.Backoff.Delay(attempt - 1)
			logger.Debug("backing off before retry",
				zap.Int("next_attempt", attempt+1),
				zap.Duration("backoff", delay),
			)
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		resp, err := o.provider.Complete(ctx, req)
		if err != nil {
			// Context errors propagate untouched and unretried.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}
			lastErr = &InvocationError{Agent: task.Agent, Err: err}
			logger.Warn("provider call failed",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", o.cfg.MaxAttempts),
				zap.Error(err),
			)
			continue
		}

		var output any
		if task.Parser != nil {
			output, err = task.Parser.Parse(resp.Text)
			if err != nil {
				lastErr = &OutputParsingError{Agent: task.Agent, Err: err}
				logger.Warn("output parsing failed",
					zap.Int("attempt", attempt+1),
					zap.Error(err),
				)
				continue
			}
		}

		return resp, output, nil
	}

	return nil, nil, lastErr
}

// recordUsage writes one accounting row through the caller-supplied
// session. Failures here are logged and swallowed: the accounting
// side-channel must never fail or retry the primary invocation.
func (o *Orchestrator) recordUsage(ctx context.Context, logger *zap.Logger, task Task, rec usage.Record) {
	if !o.cfg.CostTrackingEnabled || task.Accounting == nil || task.Accounting.Session == nil {
		return
	}

	session := task.Accounting.Session
	if err := session.Append(ctx, rec); err != nil {
		logger.Warn("usage append failed", zap.Error(err))
		if rbErr := session.Rollback(); rbErr != nil {
			logger.Warn("usage rollback failed", zap.Error(rbErr))
		}
		return
	}
	if err := session.Commit(); err != nil {
		logger.Warn("usage commit failed", zap.Error(err))
		if rbErr := session.Rollback(); rbErr != nil {
			logger.Warn("usage rollback failed", zap.Error(rbErr))
		}
		return
	}

	logger.Debug("usage recorded",
		zap.Int64("interview_id", rec.InterviewID),
		zap.Bool("cached", rec.Cached),
		zap.Float64("estimated_cost_usd", rec.EstimatedCost),
	)
}

// fullPrompt is the text billed as input: system preamble plus prompt.
func fullPrompt(task Task) string {
	if task.System == "" {
		return task.Prompt
	}
	return task.System + "\n\n" + task.Prompt
}

func accountingInterview(task Task) int64 {
	if task.Accounting == nil {
		return 0
	}
	return task.Accounting.InterviewID
}
