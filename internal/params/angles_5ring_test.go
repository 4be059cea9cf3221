package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// cyclopentasilane is the Si5H10 ring.
func cyclopentasilane() *forcefield.Descriptor {
	bonds := [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}}
	atomicNumbers := []uint8{14, 14, 14, 14, 14, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	h := uint32(5)
	for s := uint32(0); s < 5; s++ {
		bonds = append(bonds, [2]uint32{s, h}, [2]uint32{s, h + 1})
		h += 2
	}
	return &forcefield.Descriptor{AtomicNumbers: atomicNumbers, Bonds: bonds}
}

func TestResolveAngles_SiliconFiveRingRow(t *testing.T) {
	t.Parallel()

	r := resolve(t, cyclopentasilane(), false)
	a := r.set.Angles

	// In-ring Si-Si-Si angles take the dedicated 5-ring row; the ring leaves
	// every center with zero heavy non-member neighbors → type 3, the lane
	// with the suspected-typo value.
	idx, ok := a.Map[[3]uint32{0, 1, 2}]
	require.True(t, ok)
	assert.Equal(t, forcefield.Ring5, a.RingClasses[idx])
	assert.Equal(t, forcefield.AngleType3, a.Types[idx])
	assert.InDelta(t, SiSiSi5RingQuatPrimary*RadPerDeg, a.EquilibriumAngles[idx][2], 1e-9)

	// The alternate reading stays published for the day the table flips.
	assert.InDelta(t, 112.00, SiSiSi5RingQuatAlternate, 1e-12)

	// The 5-ring stretch-bend override applies in-ring.
	assert.InDelta(t, 0.068, a.StretchBendStiffnesses[idx], 1e-9)
}

func TestResolveTorsions_SiliconRingRemap(t *testing.T) {
	t.Parallel()

	r := resolve(t, cyclopentasilane(), false)
	tors := r.set.Torsions

	// In-ring Si-Si-Si-Si torsions resolve through the plain silicon row.
	store := AJPerKcalPerMol / 2
	idx, ok := tors.Map[topoQuad(0, 1, 2, 3)]
	require.True(t, ok)
	assert.InDelta(t, 0.126*store, tors.V3s[idx], 1e-12)
	assert.Equal(t, forcefield.Ring5, tors.RingClasses[idx])
}

// topoQuad canonicalizes an atom quadruple the way the topology pass stores
// it.
func topoQuad(a, b, c, d uint32) [4]uint32 {
	if b > c || (b == c && a > d) {
		return [4]uint32{d, c, b, a}
	}
	return [4]uint32{a, b, c, d}
}
