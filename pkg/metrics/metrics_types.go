package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	LoadDuration     *prometheus.HistogramVec
	LinesParsedTotal *prometheus.CounterVec

	// Corpus Metrics
	WalksTotal             prometheus.Counter
	WalkLength             prometheus.Histogram
	EarlyTerminationsTotal prometheus.Counter
	PassDuration           prometheus.Histogram
	PassesTotal            prometheus.Counter

	// Run Metrics
	RunInfo          *prometheus.GaugeVec
	Workers          prometheus.Gauge
	ExpectedWalks    prometheus.Gauge
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
	nodes     int
	edges     int
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	r.initGraphMetrics()
	r.initCorpusMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
