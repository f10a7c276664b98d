// Package metrics provides Prometheus metrics for the careerpath service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Recommendation metrics
	recommendations      *prometheus.CounterVec
	recommendLatency     *prometheus.HistogramVec
	recommendResultCount *prometheus.HistogramVec
	unknownAnswers       prometheus.Counter

	// Embedding metrics
	embedLatency   prometheus.Histogram
	embedErrors    *prometheus.CounterVec
	embedQueueSize prometheus.Gauge
	embedCacheHits *prometheus.CounterVec
	embedEvictions prometheus.Counter

	// Catalog/index lifecycle
	catalogRecords     prometheus.Gauge
	indexBuildDuration prometheus.Histogram
	ready              prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	goroutines prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "careerpath",
		subsystem:        "advisor",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.recommendations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_total",
		Help:      "Recommendation requests by mode and outcome",
	}, []string{"mode", "outcome"})

	m.recommendLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommend_latency_milliseconds",
		Help:      "Time spent producing a recommendation, by mode",
		Buckets:   m.histogramBuckets,
	}, []string{"mode"})

	m.recommendResultCount = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommend_results",
		Help:      "Number of careers returned per recommendation",
		Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50},
	}, []string{"mode"})

	m.unknownAnswers = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessment_unknown_answers_total",
		Help:      "Assessment answers that matched no known option and were skipped",
	})

	m.embedLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_latency_milliseconds",
		Help:      "Latency of a single text embedding",
		Buckets:   m.histogramBuckets,
	})

	m.embedErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_errors_total",
		Help:      "Embedding failures by reason",
	}, []string{"reason"})

	m.embedQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_queue_size",
		Help:      "Embedding jobs waiting for a worker",
	})

	m.embedCacheHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_cache_lookups_total",
		Help:      "Embedding cache lookups by result (hit or miss)",
	}, []string{"result"})

	m.embedEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embed_cache_evictions_total",
		Help:      "Texts evicted from the embedding cache",
	})

	m.catalogRecords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_records",
		Help:      "Number of career records loaded",
	})

	m.indexBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "index_build_duration_milliseconds",
		Help:      "Time taken to embed the whole catalog",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})

	m.ready = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ready",
		Help:      "1 once the catalog is loaded and indexed",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_errors_total",
		Help:      "HTTP error responses by endpoint and error type",
	}, []string{"endpoint", "error_type"})

	m.goroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// RecordRecommendation counts a finished recommendation request.
// outcome is one of "ok", "empty", "invalid", "error".
func RecordRecommendation(mode, outcome string) {
	globalManager.recommendations.WithLabelValues(mode, outcome).Inc()
}

// RecordRecommendLatency observes end-to-end recommendation latency.
func RecordRecommendLatency(mode string, latencyMs float64) {
	globalManager.recommendLatency.WithLabelValues(mode).Observe(latencyMs)
}

// RecordRecommendResults observes how many careers were returned.
func RecordRecommendResults(mode string, n int) {
	globalManager.recommendResultCount.WithLabelValues(mode).Observe(float64(n))
}

// RecordUnknownAnswer counts a skipped assessment answer.
func RecordUnknownAnswer() {
	globalManager.unknownAnswers.Inc()
}

// RecordEmbedLatency observes a single embedding call.
func RecordEmbedLatency(latencyMs float64) {
	globalManager.embedLatency.Observe(latencyMs)
}

// RecordEmbedError counts an embedding failure.
func RecordEmbedError(reason string) {
	globalManager.embedErrors.WithLabelValues(reason).Inc()
}

// UpdateEmbedQueueSize sets the number of pending embedding jobs.
func UpdateEmbedQueueSize(size int) {
	globalManager.embedQueueSize.Set(float64(size))
}

// RecordEmbedCacheLookup counts a cache hit or miss.
func RecordEmbedCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.embedCacheHits.WithLabelValues(result).Inc()
}

// RecordEmbedCacheEviction counts a text evicted from the embedding cache.
func RecordEmbedCacheEviction() {
	globalManager.embedEvictions.Inc()
}

// UpdateCatalogRecords sets the catalog size gauge.
func UpdateCatalogRecords(n int) {
	globalManager.catalogRecords.Set(float64(n))
}

// RecordIndexBuildDuration observes how long the index took to build.
func RecordIndexBuildDuration(durationMs float64) {
	globalManager.indexBuildDuration.Observe(durationMs)
}

// SetReady flips the readiness gauge.
func SetReady(ready bool) {
	if ready {
		globalManager.ready.Set(1)
		return
	}
	globalManager.ready.Set(0)
}

// RecordHTTPRequest counts a served HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError counts an HTTP error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// UpdateGoroutines sets the goroutine gauge.
func UpdateGoroutines(n int) {
	globalManager.goroutines.Set(float64(n))
}

// GetRegistry returns the custom registry the global manager is registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
