package testutil

import (
	"math"

	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// Adamantane skeleton geometry in nm: bridgehead (CH) carbons sit on the
// diamond-lattice tetrahedral directions, methylene (CH2) carbons on the
// coordinate axes.
const (
	adamantaneU  = 0.0889 // bridgehead coordinate
	adamantaneX  = 0.1778 // methylene coordinate
	bondCHnm     = 0.1112
	silaU        = 0.1345 // scaled for the 0.233 nm Si-Si bond
	silaX        = 0.2690
	bondSiHnm    = 0.1493
	tetrahedral  = 109.47122063449069 * math.Pi / 180
)

// adamantaneHeavyBonds lists the 12 cage bonds: each methylene (4..9)
// bridges two of the four bridgeheads (0..3).
var adamantaneHeavyBonds = [][2]uint32{
	{0, 4}, {1, 4},
	{0, 5}, {2, 5},
	{0, 6}, {3, 6},
	{1, 7}, {2, 7},
	{1, 8}, {3, 8},
	{2, 9}, {3, 9},
}

// cage builds the 26-atom adamantane-topology descriptor and positions for
// the given heavy element and bond scale.
func cage(heavyZ uint8, u, x, hBond float64) (*forcefield.Descriptor, [][3]float64) {
	atomicNumbers := make([]uint8, 26)
	for i := 0; i < 10; i++ {
		atomicNumbers[i] = heavyZ
	}
	for i := 10; i < 26; i++ {
		atomicNumbers[i] = 1
	}

	positions := make([][3]float64, 26)
	// Bridgeheads on tetrahedral directions.
	dirs := [4][3]float64{{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
	for i, d := range dirs {
		positions[i] = [3]float64{u * d[0], u * d[1], u * d[2]}
	}
	// Methylenes on the coordinate axes, one per bridgehead pair.
	axes := [6][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, -1}, {0, -1, 0}, {-1, 0, 0}}
	for i, a := range axes {
		positions[4+i] = [3]float64{x * a[0], x * a[1], x * a[2]}
	}

	bonds := append([][2]uint32(nil), adamantaneHeavyBonds...)

	// One hydrogen per bridgehead, completing the tetrahedron outward.
	h := uint32(10)
	for i := 0; i < 4; i++ {
		bonds = append(bonds, [2]uint32{uint32(i), h})
		positions[h] = offsetAlong(positions[i], unit(positions[i]), hBond)
		h++
	}
	// Two hydrogens per methylene, placed by tetrahedral completion from the
	// two heavy arms.
	for m := 4; m < 10; m++ {
		n1, n2 := heavyNeighbors(m)
		d1, d2 := hydrogenPair(positions[m], positions[n1], positions[n2])
		bonds = append(bonds, [2]uint32{uint32(m), h})
		positions[h] = offsetAlong(positions[m], d1, hBond)
		h++
		bonds = append(bonds, [2]uint32{uint32(m), h})
		positions[h] = offsetAlong(positions[m], d2, hBond)
		h++
	}

	return &forcefield.Descriptor{AtomicNumbers: atomicNumbers, Bonds: bonds}, positions
}

// Adamantane returns the C10H16 cage descriptor and its positions in nm.
func Adamantane() (*forcefield.Descriptor, [][3]float64) {
	return cage(6, adamantaneU, adamantaneX, bondCHnm)
}

// SilaAdamantane returns the same cage with silicon in place of carbon.
func SilaAdamantane() (*forcefield.Descriptor, [][3]float64) {
	return cage(14, silaU, silaX, bondSiHnm)
}

// Cyclopropane returns the C3H6 descriptor whose 3-ring the compiler must
// reject.
func Cyclopropane() *forcefield.Descriptor {
	return &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 6, 6, 1, 1, 1, 1, 1, 1},
		Bonds: [][2]uint32{
			{0, 1}, {1, 2}, {0, 2},
			{0, 3}, {0, 4}, {1, 5}, {1, 6}, {2, 7}, {2, 8},
		},
	}
}

// Trifluoroethane returns CF3-CH3, the smallest fixture exercising bond
// dipoles, extended torsions, halogen-flanked angles, and electronegativity
// corrections.  Atoms: 0=C(F3), 1=C(H3), 2..4=F, 5..7=H.
func Trifluoroethane() *forcefield.Descriptor {
	return &forcefield.Descriptor{
		AtomicNumbers: []uint8{6, 6, 9, 9, 9, 1, 1, 1},
		Bonds: [][2]uint32{
			{0, 1},
			{0, 2}, {0, 3}, {0, 4},
			{1, 5}, {1, 6}, {1, 7},
		},
	}
}

// Cyclopentane returns the C5H10 descriptor whose carbons take the 5-ring
// code.
func Cyclopentane() *forcefield.Descriptor {
	bonds := [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}}
	atomicNumbers := []uint8{6, 6, 6, 6, 6, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	h := uint32(5)
	for c := uint32(0); c < 5; c++ {
		bonds = append(bonds, [2]uint32{c, h}, [2]uint32{c, h + 1})
		h += 2
	}
	return &forcefield.Descriptor{AtomicNumbers: atomicNumbers, Bonds: bonds}
}

// heavyNeighbors returns the two bridgeheads of methylene m.
func heavyNeighbors(m int) (int, int) {
	var out []int
	for _, b := range adamantaneHeavyBonds {
		if int(b[1]) == m {
			out = append(out, int(b[0]))
		}
	}
	return out[0], out[1]
}

// hydrogenPair derives the two hydrogen directions completing a tetrahedral
// center whose two heavy arms point at n1 and n2.
func hydrogenPair(center, n1, n2 [3]float64) ([3]float64, [3]float64) {
	u1 := unit(sub(n1, center))
	u2 := unit(sub(n2, center))
	bisector := unit(neg(add(u1, u2)))
	perp := unit(crossProd(u1, u2))
	c, s := math.Cos(tetrahedral/2), math.Sin(tetrahedral/2)
	d1 := unit(add(scale(bisector, c), scale(perp, s)))
	d2 := unit(sub(scale(bisector, c), scale(perp, s)))
	return d1, d2
}

func add(a, b [3]float64) [3]float64  { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func sub(a, b [3]float64) [3]float64  { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func neg(a [3]float64) [3]float64     { return [3]float64{-a[0], -a[1], -a[2]} }
func scale(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}

func crossProd(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func unit(a [3]float64) [3]float64 {
	n := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	if n == 0 {
		return a
	}
	return scale(a, 1/n)
}

func offsetAlong(p, dir [3]float64, dist float64) [3]float64 {
	return add(p, scale(unit(dir), dist))
}
