// Package prometheus provides the compile-metrics collectors.  Metrics are
// opt-in: the compiler records nothing unless a CompileMetrics instance is
// supplied, so library consumers without a metrics pipeline pay nothing.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CompileMetrics holds every collector the compiler records into.
type CompileMetrics struct {
	// CompilesTotal counts completed compiles.
	CompilesTotal prometheus.Counter

	// CompileDuration observes end-to-end compile wall time.
	CompileDuration prometheus.Histogram

	// CompiledAtoms observes the atom count of each compiled set.
	CompiledAtoms prometheus.Histogram

	// PassDuration observes per-pass wall time, labeled by pass name.
	PassDuration *prometheus.HistogramVec

	// FaultsTotal counts failed compiles, labeled by fault code name.
	FaultsTotal *prometheus.CounterVec
}

// NewCompileMetrics builds and registers the collectors on reg under the
// given namespace.  Registration failures (duplicate registration) panic,
// matching promauto semantics.
func NewCompileMetrics(reg prometheus.Registerer, namespace string) *CompileMetrics {
	m := &CompileMetrics{
		CompilesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compiles_total",
			Help:      "Completed parameter compiles.",
		}),
		CompileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "End-to-end compile wall time.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		CompiledAtoms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compiled_atoms",
			Help:      "Atom count per compiled parameter set.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
		}),
		PassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Per-pass wall time.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"pass"}),
		FaultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_total",
			Help:      "Failed compiles by fault code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.CompilesTotal, m.CompileDuration, m.CompiledAtoms, m.PassDuration, m.FaultsTotal)
	return m
}

// ObserveCompile records one successful compile.
func (m *CompileMetrics) ObserveCompile(elapsed time.Duration, atoms int) {
	m.CompilesTotal.Inc()
	m.CompileDuration.Observe(elapsed.Seconds())
	m.CompiledAtoms.Observe(float64(atoms))
}

// ObservePass records one pass duration.
func (m *CompileMetrics) ObservePass(pass string, elapsed time.Duration) {
	m.PassDuration.WithLabelValues(pass).Observe(elapsed.Seconds())
}

// ObserveFault records one failed compile.
func (m *CompileMetrics) ObserveFault(code string) {
	m.FaultsTotal.WithLabelValues(code).Inc()
}
