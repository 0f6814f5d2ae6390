package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfeed_github_requests_total",
		Help: "GitHub API operations issued, by operation",
	}, []string{"operation"})
	APIErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfeed_github_errors_total",
		Help: "GitHub API operations that failed, by operation",
	}, []string{"operation"})
	RateLimitRemaining = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ghfeed_github_rate_limit_remaining",
		Help: "Remaining core requests reported by the last rate limit check",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghfeed_cache_hits_total",
		Help: "API results served from cache",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ghfeed_cache_misses_total",
		Help: "API results not found in cache",
	})
	GeneratorRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ghfeed_generator_runs_total",
		Help: "Generator invocations, by generator and status (ok, error, skipped)",
	}, []string{"generator", "status"})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ghfeed_run_duration_seconds",
		Help:    "Duration of a whole dispatch run",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)

func init() {
	prometheus.MustRegister(
		APIRequests,
		APIErrors,
		RateLimitRemaining,
		CacheHits,
		CacheMisses,
		GeneratorRuns,
		RunDuration,
	)
}

// Handler serves the default registry in Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
