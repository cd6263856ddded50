package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RecordLoad records how long loading a graph in the given format took
func (r *Registry) RecordLoad(format string, duration time.Duration) {
	r.LoadDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordLinesParsed adds n consumed input lines for format
func (r *Registry) RecordLinesParsed(format string, n int) {
	r.LinesParsedTotal.WithLabelValues(format).Add(float64(n))
}

// RecordGraph sets the size gauges of the current graph
func (r *Registry) RecordGraph(nodes, edges int) {
	r.mu.Lock()
	r.nodes, r.edges = nodes, edges
	r.mu.Unlock()

	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// GraphSize returns the values last passed to RecordGraph
func (r *Registry) GraphSize() (nodes, edges int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes, r.edges
}

// RecordWalks counts a batch of walks. Walks shorter than pathLength hit a
// node without neighbors and are counted as early terminations.
func (r *Registry) RecordWalks(walks [][]uint64, pathLength int) {
	short := 0
	for _, w := range walks {
		r.WalkLength.Observe(float64(len(w)))
		if len(w) < pathLength {
			short++
		}
	}
	r.WalksTotal.Add(float64(len(walks)))
	if short > 0 {
		r.EarlyTerminationsTotal.Add(float64(short))
	}
}

// RecordPass records one completed corpus pass
func (r *Registry) RecordPass(duration time.Duration) {
	r.PassesTotal.Inc()
	r.PassDuration.Observe(duration.Seconds())
}

// RecordRun labels the registry with the run and its expected output size
func (r *Registry) RecordRun(runID, source string, workers, expectedWalks int) {
	r.RunInfo.WithLabelValues(runID, source).Set(1)
	r.Workers.Set(float64(workers))
	r.ExpectedWalks.Set(float64(expectedWalks))
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
