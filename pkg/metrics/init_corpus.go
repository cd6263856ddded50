package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCorpusMetrics() {
	r.WalksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "deepwalk_walks_total",
			Help: "Total number of random walks generated",
		},
	)

	r.WalkLength = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deepwalk_walk_length",
			Help:    "Length of generated walks in nodes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	r.EarlyTerminationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "deepwalk_early_terminations_total",
			Help: "Walks that stopped before the requested length at a node without neighbors",
		},
	)

	r.PassDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deepwalk_pass_duration_seconds",
			Help:    "Duration of one corpus pass over all nodes",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 60},
		},
	)

	r.PassesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "deepwalk_passes_total",
			Help: "Completed corpus passes",
		},
	)
}
