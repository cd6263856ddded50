package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	factory := promauto.With(r.registry)

	r.RunInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "deepwalk_run_info",
			Help: "Always 1; labels identify the current run",
		},
		[]string{"run_id", "source"},
	)
	r.Workers = factory.NewGauge(prometheus.GaugeOpts{
		Name: "deepwalk_workers",
		Help: "Walk workers per pass",
	})
	r.ExpectedWalks = factory.NewGauge(prometheus.GaugeOpts{
		Name: "deepwalk_expected_walks",
		Help: "Walks the run will produce: passes times nodes",
	})

	r.UptimeSeconds = factory.NewGauge(prometheus.GaugeOpts{
		Name: "deepwalk_uptime_seconds",
		Help: "Seconds since the registry was created",
	})
	r.GoRoutines = factory.NewGauge(prometheus.GaugeOpts{
		Name: "deepwalk_goroutines",
		Help: "Number of goroutines",
	})
	r.MemoryAllocBytes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "deepwalk_memory_alloc_bytes",
		Help: "Bytes of allocated heap objects",
	})
	r.MemorySysBytes = factory.NewGauge(prometheus.GaugeOpts{
		Name: "deepwalk_memory_sys_bytes",
		Help: "Total bytes of memory obtained from the OS",
	})
}
