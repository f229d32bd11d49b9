package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"emt/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveStoreOp(op string, duration time.Duration)
	IncStoreErrors(op string)
	ObserveTrendingRun(outcome string, duration time.Duration)
	SetTrendingGeneratedAt(at time.Time)
	SetItemsTracked(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	storeOpDuration     *prometheus.HistogramVec
	storeErrors         *prometheus.CounterVec
	trendingRunDuration *prometheus.HistogramVec
	trendingGeneratedAt prometheus.Gauge
	itemsTracked        prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStoreOp(op string, duration time.Duration) {
	m.storeOpDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStoreErrors(op string) {
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *MetricsProvider) ObserveTrendingRun(outcome string, duration time.Duration) {
	m.trendingRunDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetTrendingGeneratedAt(at time.Time) {
	m.trendingGeneratedAt.Set(float64(at.Unix()))
}

func (m *MetricsProvider) SetItemsTracked(count int) {
	m.itemsTracked.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emt_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emt_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emt_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "emt_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		storeOpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emt_store_op_duration_seconds",
			Help:    "Counter store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		storeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "emt_store_errors_total",
			Help: "Total number of counter store failures",
		}, []string{"op"}),

		trendingRunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "emt_trending_run_duration_seconds",
			Help:    "Trending recomputation run duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),

		trendingGeneratedAt: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "emt_trending_generated_at_seconds",
			Help: "Unix time of the last successfully published trending snapshot",
		}),

		itemsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "emt_items_tracked",
			Help: "Number of items with any recorded engagement, as of the last trending run",
		}),
	}

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveStoreOp(_ string, _ time.Duration)         {}
func (n *noopMetrics) IncStoreErrors(_ string)                          {}
func (n *noopMetrics) ObserveTrendingRun(_ string, _ time.Duration)     {}
func (n *noopMetrics) SetTrendingGeneratedAt(_ time.Time)               {}
func (n *noopMetrics) SetItemsTracked(_ int)                            {}
