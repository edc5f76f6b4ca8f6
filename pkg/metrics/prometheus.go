// Package metrics provides Prometheus metrics for the racegate tracker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scan pipeline
	scanRuns       prometheus.Counter
	scanDuration   prometheus.Histogram
	eventsCaptured prometheus.Counter
	eventsSkipped  prometheus.Counter
	fetchErrors    prometheus.Counter

	// History store
	historyWrites    prometheus.Counter
	corruptHistories prometheus.Counter

	// Classification and feed
	transitions   *prometheus.CounterVec
	feedSize      prometheus.Gauge
	feedPublished prometheus.Counter

	// Worker pool
	queueSize   prometheus.Gauge
	workerCount prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager on a custom registry so default Go collectors stay out.
var (
	//nolint:gochecknoglobals // singleton registry
	customRegistry = prometheus.NewRegistry()
	//nolint:gochecknoglobals // singleton manager
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
)

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "racegate",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.scanRuns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scan_runs_total",
		Help: "Number of scan runs started.",
	})
	m.scanDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scan_duration_seconds",
		Help:    "End-to-end duration of one scan run.",
		Buckets: m.histogramBuckets,
	})
	m.eventsCaptured = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_captured_total",
		Help: "Events whose inventory was fetched and recorded.",
	})
	m.eventsSkipped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_skipped_total",
		Help: "Events skipped during capture (start date in the past).",
	})
	m.fetchErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "fetch_errors_total",
		Help: "Per-event fetch or parse failures.",
	})

	m.historyWrites = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "history_writes_total",
		Help: "History records written (inserted or replaced).",
	})
	m.corruptHistories = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "corrupt_histories_total",
		Help: "Persisted histories that failed to parse and were reset.",
	})

	m.transitions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "transitions_total",
		Help: "Classified stock transitions by kind.",
	}, []string{"kind"})
	m.feedSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "feed_size",
		Help: "Number of notifications in the last published feed.",
	})
	m.feedPublished = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "feed_published_total",
		Help: "Number of feed publications.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scan_queue_size",
		Help: "Events waiting in the scan queue.",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scan_workers",
		Help: "Configured number of scan workers.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by endpoint.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint"})
}

// Handler exposes the custom registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers operating on the global manager.

func RecordScanRun() {
	if globalManager.enabled {
		globalManager.scanRuns.Inc()
	}
}

func ObserveScanDuration(seconds float64) {
	if globalManager.enabled {
		globalManager.scanDuration.Observe(seconds)
	}
}

func RecordEventCaptured() {
	if globalManager.enabled {
		globalManager.eventsCaptured.Inc()
	}
}

func RecordEventSkipped() {
	if globalManager.enabled {
		globalManager.eventsSkipped.Inc()
	}
}

func RecordFetchError() {
	if globalManager.enabled {
		globalManager.fetchErrors.Inc()
	}
}

func RecordHistoryWrite() {
	if globalManager.enabled {
		globalManager.historyWrites.Inc()
	}
}

func RecordCorruptHistory() {
	if globalManager.enabled {
		globalManager.corruptHistories.Inc()
	}
}

func RecordTransition(kind string) {
	if globalManager.enabled {
		globalManager.transitions.WithLabelValues(kind).Inc()
	}
}

func UpdateFeedSize(n int) {
	if globalManager.enabled {
		globalManager.feedSize.Set(float64(n))
	}
}

func RecordFeedPublished() {
	if globalManager.enabled {
		globalManager.feedPublished.Inc()
	}
}

func UpdateQueueSize(n int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(n))
	}
}

func UpdateWorkerCount(n int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(n))
	}
}

func RecordHTTPRequest(endpoint, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, status).Inc()
	}
}

func ObserveHTTPDuration(endpoint string, seconds float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(seconds)
	}
}
