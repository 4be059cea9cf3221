package typing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

func buildTopo(t *testing.T, desc *forcefield.Descriptor) *topology.Topology {
	t.Helper()
	topo, err := topology.Build(desc, logging.NewNopLogger())
	require.NoError(t, err)
	return topo
}

func ethane() *forcefield.Descriptor {
	return &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 6, 1, 1, 1, 1, 1, 1},
		Bonds: [][2]uint32{
			{0, 1},
			{0, 2}, {0, 3}, {0, 4},
			{1, 5}, {1, 6}, {1, 7},
		},
	}
}

func TestAssign_EthaneCodesAndCenters(t *testing.T) {
	t.Parallel()

	desc := ethane()
	assign, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, forcefield.CodeAlkaneCarbon, assign.Codes[0])
	assert.Equal(t, forcefield.CodeAlkaneCarbon, assign.Codes[1])
	for h := 2; h < 8; h++ {
		assert.Equal(t, forcefield.CodeHydrogen, assign.Codes[h])
		assert.Equal(t, forcefield.CenterTypeNone, assign.CenterTypes[h])
	}
	assert.Equal(t, forcefield.CenterPrimary, assign.CenterTypes[0])
	assert.Equal(t, forcefield.CenterPrimary, assign.CenterTypes[1])
	assert.Equal(t, forcefield.RingNone, assign.RingClasses[0])
}

func TestAssign_MassRepartitioningConservesTotal(t *testing.T) {
	t.Parallel()

	desc := ethane()
	assign, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.NoError(t, err)

	var total, defaults float64
	for i := range assign.Masses {
		total += assign.Masses[i]
		defaults += assign.DefaultMasses[i]
	}
	assert.InDelta(t, defaults, total, 1e-3)

	// Hydrogens doubled, carbons reduced by three hydrogen masses each.
	hMass := MassYg(1)
	assert.InDelta(t, 2*hMass, assign.Masses[2], 1e-9)
	assert.InDelta(t, MassYg(6)-3*hMass, assign.Masses[0], 1e-9)
}

func TestAssign_UnitScaleDisablesRepartitioning(t *testing.T) {
	t.Parallel()

	desc := ethane()
	desc.HydrogenMassScale = 1
	assign, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.NoError(t, err)
	for i := range assign.Masses {
		assert.Equal(t, assign.DefaultMasses[i], assign.Masses[i])
	}
}

func TestAssign_HydrogenVdwSentinel(t *testing.T) {
	t.Parallel()

	desc := ethane()
	assign, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.NoError(t, err)

	// Hydrogen has no hydrogen-variant lane.
	assert.True(t, math.IsNaN(assign.Epsilons[2][1]))
	assert.True(t, math.IsNaN(assign.Radii[2][1]))
	// Carbon does.
	assert.False(t, math.IsNaN(assign.Epsilons[0][1]))
	assert.Greater(t, assign.Epsilons[0][0], 0.0)
	assert.Greater(t, assign.Radii[0][0], 0.0)
}

func TestAssign_MethaneIsLoneCenter(t *testing.T) {
	t.Parallel()

	desc := &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 1, 1, 1, 1},
		Bonds:         [][2]uint32{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
	}
	_, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedCenterType))

	var ce *errors.CompileError
	require.ErrorAs(t, err, &ce)
	// Center first, then its bonded neighborhood.
	require.NotEmpty(t, ce.Addresses)
	assert.Equal(t, 0, ce.Addresses[0].AtomIndex)
	assert.Len(t, ce.Addresses, 5)
}

func TestAssign_OpenValence(t *testing.T) {
	t.Parallel()

	// Carbon with three bonds only.
	desc := &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 6, 1, 1, 1, 1, 1},
		Bonds: [][2]uint32{
			{0, 1},
			{0, 2}, {0, 3},
			{1, 4}, {1, 5}, {1, 6},
		},
	}
	_, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeOpenValenceShell))
}

func TestAssign_DissimilarHeteroatomsRejected(t *testing.T) {
	t.Parallel()

	// H3Si-GeH3: silicon bonded to germanium.
	desc := &forcefield.Descriptor{
		AtomicNumbers: []uint8{14, 32, 1, 1, 1, 1, 1, 1},
		Bonds: [][2]uint32{
			{0, 1},
			{0, 2}, {0, 3}, {0, 4},
			{1, 5}, {1, 6}, {1, 7},
		},
	}
	_, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedCenterType))
}

func TestAssign_HeteroatomMustBondCarbon(t *testing.T) {
	t.Parallel()

	// Dimethyl peroxide CH3-O-O-CH3: oxygen bonded to oxygen.
	desc := &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 8, 8, 6, 1, 1, 1, 1, 1, 1},
		Bonds: [][2]uint32{
			{0, 1}, {1, 2}, {2, 3},
			{0, 4}, {0, 5}, {0, 6},
			{3, 7}, {3, 8}, {3, 9},
		},
	}
	_, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedCenterType))
}

func TestAssign_UnsupportedElement(t *testing.T) {
	t.Parallel()

	// Chlorine is not in the element table.
	desc := &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 17, 1, 1, 1},
		Bonds:         [][2]uint32{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
	}
	_, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedCenterType))
}

func TestAssign_FiveRingCarbonCode(t *testing.T) {
	t.Parallel()

	bonds := [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}}
	atomicNumbers := []uint8{6, 6, 6, 6, 6}
	h := uint32(5)
	for c := uint32(0); c < 5; c++ {
		bonds = append(bonds, [2]uint32{c, h}, [2]uint32{c, h + 1})
		atomicNumbers = append(atomicNumbers, 1, 1)
		h += 2
	}
	desc := &forcefield.Descriptor{AtomicNumbers: atomicNumbers, Bonds: bonds}
	assign, err := Assign(desc, buildTopo(t, desc), logging.NewNopLogger())
	require.NoError(t, err)
	for c := 0; c < 5; c++ {
		assert.Equal(t, forcefield.CodeCyclopentaneCarbon, assign.Codes[c])
		assert.Equal(t, forcefield.Ring5, assign.RingClasses[c])
	}
}
