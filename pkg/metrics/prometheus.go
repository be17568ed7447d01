package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	cacheOps         *prometheus.CounterVec
	refreshDuration  *prometheus.HistogramVec
	lastScore        *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_provider_requests_total",
				Help: "Total outbound provider requests",
			},
			[]string{"provider", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketlens_cache_ops_total",
				Help: "Cache lookups by cache name and outcome",
			},
			[]string{"cache", "outcome"},
		),
		refreshDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketlens_refresh_duration_seconds",
				Help:    "Duration of refresh operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		lastScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketlens_last_score",
				Help: "Last computed score per symbol and kind",
			},
			[]string{"symbol", "kind"},
		),
	}
}

// RecordProviderRequest records one outbound provider call.
func (r *Recorder) RecordProviderRequest(provider string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.providerRequests.WithLabelValues(provider, result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheHit records a cache hit for the named cache.
func (r *Recorder) RecordCacheHit(cache string) {
	r.cacheOps.WithLabelValues(cache, "hit").Inc()
}

// RecordCacheMiss records a cache miss for the named cache.
func (r *Recorder) RecordCacheMiss(cache string) {
	r.cacheOps.WithLabelValues(cache, "miss").Inc()
}

// RecordRefreshDuration records refresh latency in seconds.
func (r *Recorder) RecordRefreshDuration(op string, seconds float64) {
	r.refreshDuration.WithLabelValues(op).Observe(seconds)
}

// RecordScore records the last computed score for a symbol.
func (r *Recorder) RecordScore(symbol, kind string, score float64) {
	r.lastScore.WithLabelValues(symbol, kind).Set(score)
}
