package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Counter: how many times we served an LLM response from cache.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_cache_hits_total",
			Help: "Total number of LLM response cache hits.",
		},
	)

	// Counter: cache lookups that went to the provider.
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "llm_cache_misses_total",
			Help: "Total number of LLM response cache misses.",
		},
	)

	// Counter: finished invocations by agent and outcome (success, failure, cached).
	InvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_invocations_total",
			Help: "Total number of LLM invocations by agent and outcome.",
		},
		[]string{"agent", "outcome"},
	)

	// Counter: retry attempts beyond the first call.
	RetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_retries_total",
			Help: "Total number of LLM invocation retries by agent.",
		},
		[]string{"agent"},
	)

	// Histogram: end-to-end invocation latency, cache hits included.
	InvocationDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_invocation_duration_seconds",
			Help:    "LLM invocation latency in seconds, including retries.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"agent"},
	)

	// Counter: estimated spend in USD by agent and model.
	EstimatedCostUSD = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_estimated_cost_usd_total",
			Help: "Estimated LLM spend in USD by agent and model.",
		},
		[]string{"agent", "model"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		CacheHitsTotal,
		CacheMissesTotal,
		InvocationsTotal,
		RetriesTotal,
		InvocationDurationSeconds,
		EstimatedCostUSD,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}
