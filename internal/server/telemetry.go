package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry instruments the endpoint layer itself: request totals,
// rate-limit rejections, cache effectiveness and collection latency.
// Served on /metrics in the Prometheus exposition format.
type Telemetry struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	rateLimited     prometheus.Counter
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	collectDuration prometheus.Histogram
}

// NewTelemetry builds the metric set on its own registry so concurrent
// server instances (and tests) do not fight over the default one.
func NewTelemetry() *Telemetry {
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pistat_http_requests_total",
			Help: "HTTP requests handled, by path and status code.",
		}, []string{"path", "code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pistat_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pistat_snapshot_cache_hits_total",
			Help: "Stats requests served from the snapshot cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pistat_snapshot_cache_misses_total",
			Help: "Stats requests that triggered a fresh collection.",
		}),
		collectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pistat_snapshot_collect_duration_seconds",
			Help:    "Wall time of snapshot collection on cache misses.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	t.registry.MustRegister(
		t.requests,
		t.rateLimited,
		t.cacheHits,
		t.cacheMisses,
		t.collectDuration,
	)

	return t
}

// Handler returns the /metrics handler for this telemetry set.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
