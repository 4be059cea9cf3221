package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/nanoforge/internal/testutil"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

func TestCompile_EmptyDescriptor(t *testing.T) {
	t.Parallel()

	set, err := New(nil, nil, nil).Compile(&forcefield.Descriptor{})
	require.NoError(t, err)
	assert.Zero(t, set.Atoms.Count())
	assert.Zero(t, set.Bonds.Count())
	assert.Zero(t, set.Angles.Count())
	assert.Zero(t, set.Torsions.Count())
	assert.Zero(t, set.Rings.Count())
	assert.Empty(t, set.Exceptions.Pairs13)
	assert.Empty(t, set.Exceptions.Pairs14)
}

func TestCompile_NilDescriptor(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil).Compile(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestCompile_Adamantane(t *testing.T) {
	t.Parallel()

	desc, _ := testutil.Adamantane()
	set, err := New(nil, nil, nil).Compile(desc)
	require.NoError(t, err)

	assert.Equal(t, 26, set.Atoms.Count())
	assert.Equal(t, 28, set.Bonds.Count())
	assert.Equal(t, 60, set.Angles.Count())
	assert.Equal(t, 108, set.Torsions.Count())

	// The cage holds four 6-rings and three 8-rings.
	sizes := map[uint8]int{}
	for _, s := range set.Rings.Sizes {
		sizes[s]++
	}
	assert.Equal(t, map[uint8]int{6: 4, 8: 3}, sizes)

	// Every heavy atom classifies as 6-ring and takes the alkane carbon code.
	for c := 0; c < 10; c++ {
		assert.Equal(t, forcefield.Ring6, set.Atoms.RingClasses[c])
		assert.Equal(t, forcefield.CodeAlkaneCarbon, set.Atoms.Codes[c])
	}

	for b := range set.Bonds.Indices {
		ks := set.Bonds.Stiffnesses[b]
		length := set.Bonds.EquilibriumLengths[b]
		assert.GreaterOrEqual(t, ks, 4.56)
		assert.LessOrEqual(t, ks, 4.99)
		if set.Atoms.AtomicNumbers[set.Bonds.Indices[b][1]] == 1 {
			assert.InDelta(t, 1.112, length, 1e-9)
		} else {
			assert.GreaterOrEqual(t, length, 1.527)
			assert.LessOrEqual(t, length, 1.529)
		}
		// Pure hydrocarbon: no dipoles anywhere.
		assert.Zero(t, set.Bonds.Dipoles[b])
	}

	// No extended records in a saturated hydrocarbon.
	for i := range set.Torsions.Indices {
		assert.False(t, set.Torsions.HasExtended[i])
	}
	for _, q := range set.Atoms.Charges {
		assert.Zero(t, q)
	}
}

func TestCompile_AdamantaneMassConservation(t *testing.T) {
	t.Parallel()

	desc, _ := testutil.Adamantane()
	set, err := New(nil, nil, nil).Compile(desc)
	require.NoError(t, err)

	var masses, defaults float64
	for i := range set.Atoms.Masses {
		masses += set.Atoms.Masses[i]
		defaults += set.Atoms.DefaultMasses[i]
	}
	assert.InDelta(t, defaults, masses, 1e-3)
}

func TestCompile_SilaAdamantane(t *testing.T) {
	t.Parallel()

	desc, _ := testutil.SilaAdamantane()
	set, err := New(nil, nil, nil).Compile(desc)
	require.NoError(t, err)

	for c := 0; c < 10; c++ {
		assert.Equal(t, forcefield.CodeSilicon, set.Atoms.Codes[c])
	}
	for b, pair := range set.Bonds.Indices {
		if set.Atoms.AtomicNumbers[pair[1]] == 1 {
			assert.InDelta(t, 2.65, set.Bonds.Stiffnesses[b], 1e-9)
			assert.InDelta(t, 1.493, set.Bonds.EquilibriumLengths[b], 1e-3)
		} else {
			assert.InDelta(t, 1.65, set.Bonds.Stiffnesses[b], 1e-9)
			assert.InDelta(t, 2.33, set.Bonds.EquilibriumLengths[b], 1e-2)
		}
		// No electronegative atoms: no dipoles.
		assert.Zero(t, set.Bonds.Dipoles[b])
	}
	for _, q := range set.Atoms.Charges {
		assert.Zero(t, q)
	}
}

func TestCompile_RingTooSmall(t *testing.T) {
	t.Parallel()

	_, err := New(nil, nil, nil).Compile(testutil.Cyclopropane())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedRing))

	var ce *errors.CompileError
	require.ErrorAs(t, err, &ce)
	require.Len(t, ce.Addresses, 3)
	for _, a := range ce.Addresses {
		assert.Less(t, a.AtomIndex, 3)
		assert.Equal(t, uint8(6), a.AtomicNumber)
	}
}

func TestCompile_Invariants(t *testing.T) {
	t.Parallel()

	desc, _ := testutil.Adamantane()
	set, err := New(nil, nil, nil).Compile(desc)
	require.NoError(t, err)

	for _, pair := range set.Bonds.Indices {
		assert.Less(t, pair[0], pair[1])
	}
	for _, tri := range set.Angles.Indices {
		assert.LessOrEqual(t, tri[0], tri[2])
	}
	for _, quad := range set.Torsions.Indices {
		if quad[1] == quad[2] {
			assert.LessOrEqual(t, quad[0], quad[3])
		} else {
			assert.Less(t, quad[1], quad[2])
		}
	}
	for _, size := range set.Rings.Sizes {
		assert.GreaterOrEqual(t, size, uint8(5))
	}
}

func TestCompile_StretchDisabledZeroesLengthsAfterCorrections(t *testing.T) {
	t.Parallel()

	desc := testutil.Trifluoroethane()
	desc.Options = forcefield.ForceAll &^ forcefield.ForceStretch
	set, err := New(nil, nil, nil).Compile(desc)
	require.NoError(t, err)
	for b := range set.Bonds.EquilibriumLengths {
		assert.Zero(t, set.Bonds.EquilibriumLengths[b])
		assert.Zero(t, set.Bonds.Stiffnesses[b])
	}
}

func TestCompile_RigidBodyIndexInAddresses(t *testing.T) {
	t.Parallel()

	desc := testutil.Cyclopropane()
	desc.RigidBodyIndex = 7
	_, err := New(nil, nil, nil).Compile(desc)
	require.Error(t, err)

	var ce *errors.CompileError
	require.ErrorAs(t, err, &ce)
	for _, a := range ce.Addresses {
		assert.Equal(t, 7, a.RigidBodyIndex)
	}
}

func TestCompile_FiveRingClasses(t *testing.T) {
	t.Parallel()

	set, err := New(nil, nil, nil).Compile(testutil.Cyclopentane())
	require.NoError(t, err)

	require.Equal(t, 1, set.Rings.Count())
	assert.Equal(t, uint8(5), set.Rings.Sizes[0])
	for c := 0; c < 5; c++ {
		assert.Equal(t, forcefield.CodeCyclopentaneCarbon, set.Atoms.Codes[c])
		assert.Equal(t, forcefield.Ring5, set.Atoms.RingClasses[c])
	}
	// In-ring bonds take the dedicated 5-ring row.
	for b, pair := range set.Bonds.Indices {
		if set.Atoms.AtomicNumbers[pair[0]] == 6 && set.Atoms.AtomicNumbers[pair[1]] == 6 {
			assert.Equal(t, forcefield.Ring5, set.Bonds.RingClasses[b])
			assert.InDelta(t, 4.9900, set.Bonds.Stiffnesses[b], 1e-9)
			assert.InDelta(t, 1.5290, set.Bonds.EquilibriumLengths[b], 1e-9)
		}
	}
}
