package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "deepwalk_graph_nodes",
			Help: "Number of nodes in the loaded graph",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "deepwalk_graph_edges",
			Help: "Number of undirected edges in the loaded graph",
		},
	)

	r.LoadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deepwalk_load_duration_seconds",
			Help:    "Time spent loading and normalizing a graph",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"format"},
	)

	r.LinesParsedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "deepwalk_lines_parsed_total",
			Help: "Input lines or rows consumed by the loaders",
		},
		[]string{"format"},
	)
}
