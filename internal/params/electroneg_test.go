package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// TestApplyElectronegativity_DeterministicUnderParallelism reruns the
// corrector with an aggressive worker count and checks the reduction is
// order-independent: equal contributions claim slots in racy order, but the
// magnitude sort pins the decay product.
func TestApplyElectronegativity_DeterministicUnderParallelism(t *testing.T) {
	t.Parallel()

	nop := logging.NewNopLogger()
	var reference []float64
	for run := 0; run < 16; run++ {
		desc := trifluoroethane()
		topo, err := topology.Build(desc, nop)
		require.NoError(t, err)
		assign, err := typing.Assign(desc, topo, nop)
		require.NoError(t, err)
		set := forcefield.NewParameterSet()
		require.NoError(t, ResolveBonds(desc, topo, assign, set, nop))

		cfg := CorrectorConfig{Decay: 0.62, Beta: 0.40, Workers: 8}
		require.NoError(t, ApplyElectronegativity(desc, topo, assign, set, cfg, nop))

		if reference == nil {
			reference = append([]float64(nil), set.Bonds.EquilibriumLengths...)
			continue
		}
		assert.Equal(t, reference, set.Bonds.EquilibriumLengths)
	}
}

func TestApplyElectronegativity_EmptySet(t *testing.T) {
	t.Parallel()

	nop := logging.NewNopLogger()
	desc := &forcefield.Descriptor{}
	topo, err := topology.Build(desc, nop)
	require.NoError(t, err)
	assign, err := typing.Assign(desc, topo, nop)
	require.NoError(t, err)
	set := forcefield.NewParameterSet()
	require.NoError(t, ResolveBonds(desc, topo, assign, set, nop))

	cfg := CorrectorConfig{Decay: 0.62, Beta: 0.40}
	require.NoError(t, ApplyElectronegativity(desc, topo, assign, set, cfg, nop))
}

func TestContributionBin_SlotClaiming(t *testing.T) {
	t.Parallel()

	var bin contributionBin
	for i := 0; i < 5; i++ {
		bin.add(float64(i))
	}
	got := bin.snapshot()
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, got)
}

func TestContributionBin_OverflowPanics(t *testing.T) {
	t.Parallel()

	var bin contributionBin
	for i := 0; i < slotCapacity; i++ {
		bin.add(1)
	}
	assert.Panics(t, func() { bin.add(1) })
}

func TestReduceBins_DecayOrdering(t *testing.T) {
	t.Parallel()

	var bins bondBins
	// Insert out of magnitude order; the reduction must sort descending.
	bins.primary.add(-0.001)
	bins.primary.add(-0.010)
	bins.primary.add(-0.005)
	bins.secondary.add(-0.002)
	bins.bohlmann.add(0.004)

	cfg := CorrectorConfig{Decay: 0.5, Beta: 0.25}
	got := reduceBins(&bins, cfg)
	want := -0.010 - 0.005*0.5 - 0.001*0.25 + -0.002*0.25 + 0.004
	assert.InDelta(t, want, got, 1e-12)
}
