package forcefield

import (
	"math"

	"github.com/google/uuid"
)

// RingUnused is the sentinel stored in unused lanes of a ring tuple.
const RingUnused uint32 = math.MaxUint32

// ─────────────────────────────────────────────────────────────────────────────
// Per-entity array groups
// ─────────────────────────────────────────────────────────────────────────────

// Atoms holds the per-atom arrays of a parameter set.  All slices share the
// same length and are indexed by atom index.
type Atoms struct {
	// AtomicNumbers is the element of every atom.
	AtomicNumbers []uint8

	// Codes is the typed atom code assigned by the atom typer.
	Codes []AtomCode

	// RingClasses is the smallest-ring classification per atom.
	RingClasses []RingClass

	// CenterTypes is the heavy-neighbor substitution pattern per atom.
	CenterTypes []CenterType

	// Masses is the per-atom mass in yg after hydrogen mass repartitioning.
	Masses []float64

	// DefaultMasses is the per-atom mass in yg before repartitioning.  The sum
	// over Masses always equals the sum over DefaultMasses.
	DefaultMasses []float64

	// Charges is the accumulated partial charge per atom in units of the
	// elementary charge.  Populated by the nonbonded pass from bond dipoles.
	Charges []float64

	// Epsilons holds the vdW well depth pair (default, hydrogen-variant) in
	// zJ.  The hydrogen-variant lane encodes the heteroatom–hydrogen mixing
	// rule and is NaN for hydrogens themselves.
	Epsilons [][2]float64

	// Radii holds the vdW radius pair (default, hydrogen-variant) in Å, with
	// the same NaN sentinel convention as Epsilons.
	Radii [][2]float64
}

// Count returns the number of atoms in the group.
func (a *Atoms) Count() int { return len(a.AtomicNumbers) }

// Bonds holds the per-bond arrays of a parameter set.
type Bonds struct {
	// Indices stores each bond as a sorted ascending pair of atom indices.
	Indices [][2]uint32

	// RingClasses is the smallest-ring classification per bond.
	RingClasses []RingClass

	// MorseWellDepths is the Morse potential well depth per bond in aJ.
	MorseWellDepths []float64

	// Stiffnesses is the stretching stiffness per bond in mdyn/Å.
	Stiffnesses []float64

	// EquilibriumLengths is the equilibrium bond length per bond in Å, after
	// electronegativity corrections.
	EquilibriumLengths []float64

	// Dipoles is the signed bond dipole moment per bond in Debye, pointing
	// from the electropositive end toward the electronegative end.  Zero
	// means the bond carries no dipole.
	Dipoles []float64

	// Map resolves a sorted atom-index pair to its bond index.
	Map map[[2]uint32]int
}

// Count returns the number of bonds in the group.
func (b *Bonds) Count() int { return len(b.Indices) }

// Angles holds the per-angle arrays of a parameter set.
type Angles struct {
	// Indices stores each angle (a, b, c) with middle atom b, canonicalized
	// so that a ≤ c.
	Indices [][3]uint32

	// RingClasses is the smallest-ring classification per angle.
	RingClasses []RingClass

	// Types is the resolved angle type per angle; it indexes the bending
	// stiffness and equilibrium angle tuples.
	Types []AngleType

	// BendingStiffnesses is the angle-type-indexed bending stiffness tuple in
	// zJ/rad², stored in divided-constant form.  Lane i holds the value for
	// AngleType(i+1); NaN lanes mark missing parameters.
	BendingStiffnesses [][3]float64

	// EquilibriumAngles is the angle-type-indexed equilibrium angle tuple in
	// radians, with the same lane and NaN conventions.
	EquilibriumAngles [][3]float64

	// StretchBendStiffnesses is the stretch-bend coupling per angle in
	// mdyn/rad.
	StretchBendStiffnesses []float64

	// BendBendStiffnesses is the bend-bend coupling per angle center, zero
	// when the center has fewer than two heavy neighbors or is divalent O/S.
	BendBendStiffnesses []float64

	// HasExtended flags angles that carry the extended cross terms below.
	HasExtended []bool

	// SecondaryStretchBends is the secondary stretch-bend coupling for
	// extended angles; meaningful only where HasExtended is set.
	SecondaryStretchBends []float64

	// StretchStretches is the stretch-stretch coupling for extended angles
	// (halogen on both sides); meaningful only where HasExtended is set.
	StretchStretches []float64

	// Map resolves a canonicalized angle triple to its angle index.
	Map map[[3]uint32]int
}

// Count returns the number of angles in the group.
func (a *Angles) Count() int { return len(a.Indices) }

// TorsionExtended carries the cross terms of an extended torsion record.
// Triples are ordered (left, center, right) over the three bonds of the
// torsion; pairs are ordered (left, right) over its two angles.
type TorsionExtended struct {
	V1, V2, V3, V4, V6 float64

	// Kts1, Kts2, Kts3 are the stretch-stretch couplings of the first, second,
	// and third torsion harmonics.
	Kts1, Kts2, Kts3 [3]float64

	// Ktb1, Ktb2, Ktb3 are the torsion-bend couplings of the three harmonics.
	Ktb1, Ktb2, Ktb3 [2]float64

	// Kbtb is the bend-torsion-bend coupling.
	Kbtb float64
}

// Torsions holds the per-torsion arrays of a parameter set.
type Torsions struct {
	// Indices stores each torsion (a, b, c, d) canonicalized so that b < c,
	// or b == c is impossible and ties between reversals break on a ≤ d.
	Indices [][4]uint32

	// RingClasses is the smallest-ring classification per torsion.
	RingClasses []RingClass

	// V1s, Vns, V3s hold the torsion coefficients in aJ, already divided by 2.
	// For extended torsions Vns holds V2.
	V1s, Vns, V3s []float64

	// Ns is the integer periodicity of the Vn term; always even.
	Ns []uint8

	// Kts3s is the third-harmonic torsion-stretch coupling.  For simple
	// records it is pre-normalized by the central bond's stretching stiffness.
	Kts3s []float64

	// HasExtended flags torsions that carry an extended record.
	HasExtended []bool

	// Extended is the dense parallel array of extended records; meaningful
	// only where HasExtended is set.
	Extended []TorsionExtended

	// Map resolves a canonicalized torsion quadruple to its torsion index.
	Map map[[4]uint32]int
}

// Count returns the number of torsions in the group.
func (t *Torsions) Count() int { return len(t.Indices) }

// Rings holds the per-ring arrays of a parameter set.
type Rings struct {
	// Indices stores each ring as a fixed-width tuple of up to 8 atom
	// indices; unused lanes hold RingUnused.
	Indices [][8]uint32

	// Sizes is the member count per ring, always in [5, 8].
	Sizes []uint8
}

// Count returns the number of rings in the group.
func (r *Rings) Count() int { return len(r.Indices) }

// NonbondedExceptions holds the exclusion topology of a parameter set.
type NonbondedExceptions struct {
	// Pairs13 lists unique 1-3 atom pairs, each sorted ascending.
	Pairs13 [][2]uint32

	// Pairs14 lists unique 1-4 atom pairs, each sorted ascending.
	Pairs14 [][2]uint32

	// DipolePairs lists unique bond-index pairs whose dipole-dipole
	// interaction is evaluated as an exception, one per torsion terminal
	// bond pair, each sorted ascending.
	DipolePairs [][2]uint32

	// SiteIndices maps each atom index to its nonbonded site index in the
	// hydrogen virtual-site reordering.  A hydrogen's exclusion references
	// SiteIndices[h] + 1, the index of its shifted average site.
	SiteIndices []uint32

	// SiteCount is the total number of nonbonded sites (atoms plus one
	// virtual site per hydrogen).
	SiteCount int
}

// ─────────────────────────────────────────────────────────────────────────────
// ParameterSet
// ─────────────────────────────────────────────────────────────────────────────

// ParameterSet is the compiled output of the parameter pipeline.  Once built
// it is read-only; the only sanctioned derivation is Merge, which produces a
// fresh set without mutating either input.
type ParameterSet struct {
	// ID is a random UUID used in log fields and fault details.
	ID string

	Atoms      Atoms
	Bonds      Bonds
	Angles     Angles
	Torsions   Torsions
	Rings      Rings
	Exceptions NonbondedExceptions
}

// NewParameterSet returns an empty parameter set with a fresh identity and
// initialized lookup maps.
func NewParameterSet() *ParameterSet {
	return &ParameterSet{
		ID:       uuid.New().String(),
		Bonds:    Bonds{Map: map[[2]uint32]int{}},
		Angles:   Angles{Map: map[[3]uint32]int{}},
		Torsions: Torsions{Map: map[[4]uint32]int{}},
	}
}

// TotalMass returns the summed repartitioned mass in yg.
func (p *ParameterSet) TotalMass() float64 {
	var m float64
	for _, v := range p.Atoms.Masses {
		m += v
	}
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Merge — structural concatenation with index rebasing
// ─────────────────────────────────────────────────────────────────────────────

// Merge concatenates two parameter sets into a fresh third.  Atoms of b are
// appended after atoms of a; every atom index in b's bonds, angles, torsions,
// rings, and exceptions is rebased by a's atom count, bond-index references by
// a's bond count, and site indices by a's site count.  Neither input is
// mutated.  Parameters, masses, and ring types carry through unchanged.
func Merge(a, b *ParameterSet) *ParameterSet {
	out := NewParameterSet()
	atomOff := uint32(a.Atoms.Count())
	bondOff := uint32(a.Bonds.Count())

	out.Atoms = Atoms{
		AtomicNumbers: concat(a.Atoms.AtomicNumbers, b.Atoms.AtomicNumbers),
		Codes:         concat(a.Atoms.Codes, b.Atoms.Codes),
		RingClasses:   concat(a.Atoms.RingClasses, b.Atoms.RingClasses),
		CenterTypes:   concat(a.Atoms.CenterTypes, b.Atoms.CenterTypes),
		Masses:        concat(a.Atoms.Masses, b.Atoms.Masses),
		DefaultMasses: concat(a.Atoms.DefaultMasses, b.Atoms.DefaultMasses),
		Charges:       concat(a.Atoms.Charges, b.Atoms.Charges),
		Epsilons:      concat(a.Atoms.Epsilons, b.Atoms.Epsilons),
		Radii:         concat(a.Atoms.Radii, b.Atoms.Radii),
	}

	out.Bonds = Bonds{
		Indices:            rebasePairs(a.Bonds.Indices, b.Bonds.Indices, atomOff),
		RingClasses:        concat(a.Bonds.RingClasses, b.Bonds.RingClasses),
		MorseWellDepths:    concat(a.Bonds.MorseWellDepths, b.Bonds.MorseWellDepths),
		Stiffnesses:        concat(a.Bonds.Stiffnesses, b.Bonds.Stiffnesses),
		EquilibriumLengths: concat(a.Bonds.EquilibriumLengths, b.Bonds.EquilibriumLengths),
		Dipoles:            concat(a.Bonds.Dipoles, b.Bonds.Dipoles),
		Map:                map[[2]uint32]int{},
	}
	for i, pair := range out.Bonds.Indices {
		out.Bonds.Map[pair] = i
	}

	out.Angles = Angles{
		Indices:                rebaseTriples(a.Angles.Indices, b.Angles.Indices, atomOff),
		RingClasses:            concat(a.Angles.RingClasses, b.Angles.RingClasses),
		Types:                  concat(a.Angles.Types, b.Angles.Types),
		BendingStiffnesses:     concat(a.Angles.BendingStiffnesses, b.Angles.BendingStiffnesses),
		EquilibriumAngles:      concat(a.Angles.EquilibriumAngles, b.Angles.EquilibriumAngles),
		StretchBendStiffnesses: concat(a.Angles.StretchBendStiffnesses, b.Angles.StretchBendStiffnesses),
		BendBendStiffnesses:    concat(a.Angles.BendBendStiffnesses, b.Angles.BendBendStiffnesses),
		HasExtended:            concat(a.Angles.HasExtended, b.Angles.HasExtended),
		SecondaryStretchBends:  concat(a.Angles.SecondaryStretchBends, b.Angles.SecondaryStretchBends),
		StretchStretches:       concat(a.Angles.StretchStretches, b.Angles.StretchStretches),
		Map:                    map[[3]uint32]int{},
	}
	for i, tri := range out.Angles.Indices {
		out.Angles.Map[tri] = i
	}

	out.Torsions = Torsions{
		Indices:     rebaseQuads(a.Torsions.Indices, b.Torsions.Indices, atomOff),
		RingClasses: concat(a.Torsions.RingClasses, b.Torsions.RingClasses),
		V1s:         concat(a.Torsions.V1s, b.Torsions.V1s),
		Vns:         concat(a.Torsions.Vns, b.Torsions.Vns),
		V3s:         concat(a.Torsions.V3s, b.Torsions.V3s),
		Ns:          concat(a.Torsions.Ns, b.Torsions.Ns),
		Kts3s:       concat(a.Torsions.Kts3s, b.Torsions.Kts3s),
		HasExtended: concat(a.Torsions.HasExtended, b.Torsions.HasExtended),
		Extended:    concat(a.Torsions.Extended, b.Torsions.Extended),
		Map:         map[[4]uint32]int{},
	}
	for i, quad := range out.Torsions.Indices {
		out.Torsions.Map[quad] = i
	}

	out.Rings = Rings{
		Indices: rebaseRings(a.Rings.Indices, b.Rings.Indices, atomOff),
		Sizes:   concat(a.Rings.Sizes, b.Rings.Sizes),
	}

	siteOff := uint32(a.Exceptions.SiteCount)
	out.Exceptions = NonbondedExceptions{
		Pairs13:     rebasePairs(a.Exceptions.Pairs13, b.Exceptions.Pairs13, atomOff),
		Pairs14:     rebasePairs(a.Exceptions.Pairs14, b.Exceptions.Pairs14, atomOff),
		DipolePairs: rebasePairs(a.Exceptions.DipolePairs, b.Exceptions.DipolePairs, bondOff),
		SiteIndices: rebaseIndices(a.Exceptions.SiteIndices, b.Exceptions.SiteIndices, siteOff),
		SiteCount:   a.Exceptions.SiteCount + b.Exceptions.SiteCount,
	}

	return out
}

// concat returns a fresh slice holding a followed by b.
func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func rebasePairs(a, b [][2]uint32, off uint32) [][2]uint32 {
	out := make([][2]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	for _, p := range b {
		out = append(out, [2]uint32{p[0] + off, p[1] + off})
	}
	return out
}

func rebaseTriples(a, b [][3]uint32, off uint32) [][3]uint32 {
	out := make([][3]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	for _, t := range b {
		out = append(out, [3]uint32{t[0] + off, t[1] + off, t[2] + off})
	}
	return out
}

func rebaseQuads(a, b [][4]uint32, off uint32) [][4]uint32 {
	out := make([][4]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	for _, q := range b {
		out = append(out, [4]uint32{q[0] + off, q[1] + off, q[2] + off, q[3] + off})
	}
	return out
}

func rebaseRings(a, b [][8]uint32, off uint32) [][8]uint32 {
	out := make([][8]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	for _, r := range b {
		var shifted [8]uint32
		for lane, v := range r {
			if v == RingUnused {
				shifted[lane] = RingUnused
			} else {
				shifted[lane] = v + off
			}
		}
		out = append(out, shifted)
	}
	return out
}

func rebaseIndices(a, b []uint32, off uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	out = append(out, a...)
	for _, v := range b {
		out = append(out, v+off)
	}
	return out
}
