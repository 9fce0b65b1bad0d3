// Package metrics provides Prometheus metrics for the transition detection
// engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the detection engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Input quality
	awardsProcessed   prometheus.Counter
	awardsRejected    prometheus.Counter
	contractsRejected prometheus.Counter

	// Resolution outcomes
	pairsResolved   *prometheus.CounterVec
	pairsUnresolved prometheus.Counter
	pairsBelowFloor prometheus.Counter

	// Detection output
	transitions       *prometheus.CounterVec
	evidenceTruncated prometheus.Counter

	// Pipeline health
	queueSize    prometheus.Gauge
	workerCount  prometheus.Gauge
	batchLatency prometheus.Histogram
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "phase3",
		subsystem:        "detect",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.awardsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "awards_processed_total",
		Help:      "Awards run through the detection pipeline",
	})
	m.awardsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "awards_rejected_total",
		Help:      "Awards skipped for missing required fields",
	})
	m.contractsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contracts_rejected_total",
		Help:      "Contracts skipped for missing required fields",
	})

	m.pairsResolved = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_resolved_total",
		Help:      "Candidate pairs resolved to the same vendor, by method",
	}, []string{"method"})
	m.pairsUnresolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_unresolved_total",
		Help:      "Candidate pairs excluded because no identifier matched",
	})
	m.pairsBelowFloor = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_below_floor_total",
		Help:      "Scored pairs below the configured confidence floor",
	})

	m.transitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "transitions_total",
		Help:      "Transitions emitted, by confidence band",
	}, []string{"confidence"})
	m.evidenceTruncated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evidence_truncated_total",
		Help:      "Evidence bundles truncated to fit the size cap",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Batches waiting in the detection queue",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Configured detection workers",
	})
	m.batchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_latency_milliseconds",
		Help:      "Wall time to detect one award batch",
		Buckets:   m.histogramBuckets,
	})
}

// Handler returns an http.Handler serving the global registry, mounted by
// the CLI when a metrics address is configured.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// RecordAwardProcessed increments the awards processed counter.
func RecordAwardProcessed() {
	globalManager.awardsProcessed.Inc()
}

// RecordAwardRejected increments the rejected awards counter.
func RecordAwardRejected() {
	globalManager.awardsRejected.Inc()
}

// RecordContractRejected increments the rejected contracts counter.
func RecordContractRejected() {
	globalManager.contractsRejected.Inc()
}

// RecordPairResolved increments the resolved pairs counter for a method.
func RecordPairResolved(method string) {
	globalManager.pairsResolved.WithLabelValues(method).Inc()
}

// RecordPairUnresolved increments the unresolved pairs counter.
func RecordPairUnresolved() {
	globalManager.pairsUnresolved.Inc()
}

// RecordPairBelowFloor increments the below-floor pairs counter.
func RecordPairBelowFloor() {
	globalManager.pairsBelowFloor.Inc()
}

// RecordTransition increments the transitions counter for a confidence band.
func RecordTransition(confidence string) {
	globalManager.transitions.WithLabelValues(confidence).Inc()
}

// RecordEvidenceTruncated increments the truncated evidence counter.
func RecordEvidenceTruncated() {
	globalManager.evidenceTruncated.Inc()
}

// RecordBatchLatency records batch detection latency in milliseconds.
func RecordBatchLatency(latencyMs float64) {
	globalManager.batchLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}
