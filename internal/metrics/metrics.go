// Package metrics provides Prometheus instrumentation for backtest runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rxtech-lab/argo-vector/internal/types"
)

const namespace = "argo_vector"

// Metrics holds the collectors of one engine. Collectors are registered on the
// registerer given to New, so independent engines can use separate registries.
type Metrics struct {
	// Combinations counts finished combinations by status.
	Combinations *prometheus.CounterVec
	// UnitDuration observes the wall time of one work unit by shape signature.
	UnitDuration *prometheus.HistogramVec
	// PlannedWorkers is the worker count of the last planned run.
	PlannedWorkers prometheus.Gauge
	// KernelFallbacks counts batch kernel failures retried column by column.
	KernelFallbacks *prometheus.CounterVec
	// Runs counts runs by outcome.
	Runs *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Combinations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "combinations_total",
			Help:      "Finished combinations by status",
		}, []string{"status"}),
		UnitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_duration_seconds",
			Help:      "Wall time of one work unit",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"signature"}),
		PlannedWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planned_workers",
			Help:      "Worker count of the last planned run",
		}),
		KernelFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kernel_fallbacks_total",
			Help:      "Batch kernel calls retried one column at a time",
		}, []string{"kind"}),
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveResults counts each result under its status.
func (m *Metrics) ObserveResults(results []types.CombinationResult) {
	for _, r := range results {
		m.Combinations.WithLabelValues(string(r.Status())).Inc()
	}
}

// ObserveUnit records how long a unit of the given signature took.
func (m *Metrics) ObserveUnit(signature string, elapsed time.Duration) {
	m.UnitDuration.WithLabelValues(signature).Observe(elapsed.Seconds())
}

// ObservePlan records the planned worker count.
func (m *Metrics) ObservePlan(plan types.ExecutionPlan) {
	m.PlannedWorkers.Set(float64(plan.WorkerCount))
}

// ObserveFallback counts a kernel fallback for kind.
func (m *Metrics) ObserveFallback(kind types.IndicatorKind) {
	m.KernelFallbacks.WithLabelValues(string(kind)).Inc()
}

// ObserveRun counts a finished run. Outcome is "complete", "partial" or "error".
func (m *Metrics) ObserveRun(outcome string) {
	m.Runs.WithLabelValues(outcome).Inc()
}

// WriteToTextfile dumps every metric of gatherer in the text exposition format.
func WriteToTextfile(path string, gatherer prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, gatherer)
}
