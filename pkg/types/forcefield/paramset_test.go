package forcefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallSet builds a set with one atom per given element, for exercising the
// rebasing paths: with two or more atoms it carries the bond (0, 1) and its
// exception and site arrays, with five or more also one 5-ring.
func smallSet(zs []uint8) *ParameterSet {
	set := NewParameterSet()
	n := len(zs)
	set.Atoms.AtomicNumbers = append([]uint8(nil), zs...)
	set.Atoms.Codes = make([]AtomCode, n)
	set.Atoms.Masses = make([]float64, n)
	set.Atoms.DefaultMasses = make([]float64, n)
	set.Atoms.Charges = make([]float64, n)
	for i := range set.Atoms.Masses {
		set.Atoms.Masses[i] = float64(i + 1)
		set.Atoms.DefaultMasses[i] = float64(i + 1)
	}
	if n >= 2 {
		set.Bonds.Indices = [][2]uint32{{0, 1}}
		set.Bonds.RingClasses = []RingClass{RingNone}
		set.Bonds.MorseWellDepths = []float64{1}
		set.Bonds.Stiffnesses = []float64{4.56}
		set.Bonds.EquilibriumLengths = []float64{1.527}
		set.Bonds.Dipoles = []float64{0}
		set.Bonds.Map[[2]uint32{0, 1}] = 0
		set.Exceptions.Pairs13 = [][2]uint32{{0, 1}}
		set.Exceptions.SiteIndices = []uint32{0, 1}
		set.Exceptions.SiteCount = 2
	}
	if n >= 5 {
		var ring [8]uint32
		for lane := range ring {
			if lane < 5 {
				ring[lane] = uint32(lane)
			} else {
				ring[lane] = RingUnused
			}
		}
		set.Rings.Indices = [][8]uint32{ring}
		set.Rings.Sizes = []uint8{5}
	}
	return set
}

func TestMerge_AtomConcatenation(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	b := smallSet([]uint8{14, 14})
	c := Merge(a, b)

	assert.Equal(t, []uint8{6, 6, 14, 14}, c.Atoms.AtomicNumbers)
	assert.Equal(t, 4, c.Atoms.Count())
	// Inputs untouched.
	assert.Equal(t, 2, a.Atoms.Count())
	assert.Equal(t, 2, b.Atoms.Count())
}

func TestMerge_BondRebasing(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	b := smallSet([]uint8{14, 14})
	c := Merge(a, b)

	require.Len(t, c.Bonds.Indices, 2)
	assert.Equal(t, [2]uint32{0, 1}, c.Bonds.Indices[0])
	assert.Equal(t, [2]uint32{2, 3}, c.Bonds.Indices[1])
	assert.Equal(t, 0, c.Bonds.Map[[2]uint32{0, 1}])
	assert.Equal(t, 1, c.Bonds.Map[[2]uint32{2, 3}])
}

func TestMerge_RingSentinelPreserved(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	b := smallSet([]uint8{6, 6, 6, 6, 6})
	c := Merge(a, b)

	require.Len(t, c.Rings.Indices, 1)
	ring := c.Rings.Indices[0]
	// Members rebased by two; sentinels intact.
	assert.Equal(t, uint32(2), ring[0])
	assert.Equal(t, uint32(6), ring[4])
	assert.Equal(t, RingUnused, ring[5])
	assert.Equal(t, RingUnused, ring[7])
}

func TestMerge_SiteRebasing(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	b := smallSet([]uint8{6, 6})
	c := Merge(a, b)

	assert.Equal(t, []uint32{0, 1, 2, 3}, c.Exceptions.SiteIndices)
	assert.Equal(t, 4, c.Exceptions.SiteCount)
}

func TestMerge_AssociativeOnAtomsBondsExceptions(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	b := smallSet([]uint8{14, 14})
	c := smallSet([]uint8{32, 32})

	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))

	assert.Equal(t, left.Atoms.AtomicNumbers, right.Atoms.AtomicNumbers)
	assert.Equal(t, left.Atoms.Masses, right.Atoms.Masses)
	assert.Equal(t, left.Bonds.Indices, right.Bonds.Indices)
	assert.Equal(t, left.Exceptions.Pairs13, right.Exceptions.Pairs13)
	assert.Equal(t, left.Exceptions.SiteIndices, right.Exceptions.SiteIndices)
}

func TestMerge_FreshIdentity(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	b := smallSet([]uint8{6, 6})
	c := Merge(a, b)
	assert.NotEqual(t, a.ID, c.ID)
	assert.NotEqual(t, b.ID, c.ID)
	assert.NotEmpty(t, c.ID)
}

func TestTotalMass(t *testing.T) {
	t.Parallel()

	a := smallSet([]uint8{6, 6})
	assert.InDelta(t, 3, a.TotalMass(), 1e-12)
	assert.Zero(t, NewParameterSet().TotalMass())
}
