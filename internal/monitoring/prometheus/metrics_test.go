package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompileMetrics_RegistersAll(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCompileMetrics(reg, "nanoforge")

	m.ObserveCompile(12*time.Millisecond, 26)
	m.ObservePass("topology", time.Millisecond)
	m.ObserveFault("UnsupportedRing")

	assert.InDelta(t, 1, testutil.ToFloat64(m.CompilesTotal), 1e-12)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FaultsTotal.WithLabelValues("UnsupportedRing")), 1e-12)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"nanoforge_compiles_total",
		"nanoforge_compile_duration_seconds",
		"nanoforge_compiled_atoms",
		"nanoforge_pass_duration_seconds",
		"nanoforge_faults_total",
	} {
		assert.True(t, names[want], want)
	}
}

func TestNewCompileMetrics_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewCompileMetrics(reg, "nanoforge")
	assert.Panics(t, func() { NewCompileMetrics(reg, "nanoforge") })
}
