// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Analysis Metrics
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwise_analyses_total",
			Help: "Total number of trip analyses by outcome",
		},
		[]string{"source", "outcome"}, // source: api, insights; outcome: ok, invalid, error
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "planwise_analysis_duration_seconds",
			Help:    "Time spent scoring the catalog for one analysis",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		},
	)

	RecommendedCategory = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwise_top_recommendation_total",
			Help: "Number of times each category produced the top recommendation",
		},
		[]string{"category"},
	)

	// Insight Cache Metrics
	InsightCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planwise_insight_cache_hits_total",
			Help: "Total number of insight cache hits",
		},
	)

	InsightCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "planwise_insight_cache_misses_total",
			Help: "Total number of insight cache misses",
		},
	)

	InsightCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwise_insight_cache_errors_total",
			Help: "Insight cache operations that failed and were skipped",
		},
		[]string{"operation"},
	)

	InsightCacheBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planwise_insight_cache_breaker_state",
			Help: "Circuit breaker state for the insight cache (0=closed, 1=half-open, 2=open)",
		},
	)

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwise_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planwise_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planwise_rate_limit_rejections_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"prefix"},
	)
)

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// RecordAnalysis counts one analysis. topCategory is empty when nothing was
// recommended.
func RecordAnalysis(source, outcome string, duration time.Duration, topCategory string) {
	AnalysesTotal.WithLabelValues(source, outcome).Inc()
	if outcome != OutcomeOK {
		return
	}
	AnalysisDuration.Observe(duration.Seconds())
	if topCategory != "" {
		RecommendedCategory.WithLabelValues(topCategory).Inc()
	}
}

func RecordInsightCacheLookup(hit bool) {
	if hit {
		InsightCacheHits.Inc()
		return
	}
	InsightCacheMisses.Inc()
}

func RecordInsightCacheError(operation string) {
	InsightCacheErrors.WithLabelValues(operation).Inc()
}

// SetInsightCacheBreakerState takes the numeric gobreaker state.
func SetInsightCacheBreakerState(state int) {
	InsightCacheBreakerState.Set(float64(state))
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordRateLimitRejection(prefix string) {
	RateLimitRejections.WithLabelValues(prefix).Inc()
}
