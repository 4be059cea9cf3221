package params

import (
	"fmt"
	"math"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// nan marks a missing lane in an angle-type-indexed tuple.
var nan = math.NaN()

// angleRow is one static bending row: stiffness in mdyn·Å/rad² and
// equilibrium angle in degrees, both indexed by angle type.  NaN lanes mark
// parameters the published tables do not carry.
type angleRow struct {
	k     [3]float64
	theta [3]float64
}

// angleRows is the static bending table, keyed by the code triple with the
// end codes ordered ascending.
var angleRows = map[[3]forcefield.AtomCode]angleRow{
	// ── Carbon centers ────────────────────────────────────────────────────────
	{1, 1, 1}:   {k: [3]float64{0.740, 0.740, 0.740}, theta: [3]float64{109.50, 110.40, 111.80}},
	{1, 1, 5}:   {k: [3]float64{0.590, 0.560, 0.600}, theta: [3]float64{108.90, 109.47, 110.80}},
	{5, 1, 5}:   {k: [3]float64{0.540, 0.540, 0.540}, theta: [3]float64{107.70, 107.80, 107.70}},
	{1, 1, 6}:   {k: [3]float64{0.970, 0.970, 0.970}, theta: [3]float64{107.50, 107.00, 107.90}},
	{5, 1, 6}:   {k: [3]float64{0.870, 0.870, 0.870}, theta: [3]float64{108.90, 109.40, 110.50}},
	{6, 1, 6}:   {k: [3]float64{1.040, 1.040, nan}, theta: [3]float64{105.90, 106.80, nan}},
	{1, 1, 8}:   {k: [3]float64{0.740, 0.740, 0.740}, theta: [3]float64{109.47, 110.20, 111.00}},
	{5, 1, 8}:   {k: [3]float64{0.690, 0.690, 0.690}, theta: [3]float64{108.30, 108.90, 109.50}},
	{1, 1, 11}:  {k: [3]float64{0.920, 0.920, 0.920}, theta: [3]float64{107.20, 107.90, 108.30}},
	{5, 1, 11}:  {k: [3]float64{0.820, 0.820, 0.820}, theta: [3]float64{107.90, 108.50, 109.20}},
	{11, 1, 11}: {k: [3]float64{1.070, 1.070, nan}, theta: [3]float64{106.80, 107.30, nan}},
	{1, 1, 15}:  {k: [3]float64{0.720, 0.720, 0.720}, theta: [3]float64{108.00, 108.90, 110.20}},
	{5, 1, 15}:  {k: [3]float64{0.650, 0.650, 0.650}, theta: [3]float64{107.90, 108.60, 109.40}},
	{1, 1, 19}:  {k: [3]float64{0.580, 0.580, 0.580}, theta: [3]float64{109.80, 110.70, 111.90}},
	{5, 1, 19}:  {k: [3]float64{0.520, 0.520, 0.520}, theta: [3]float64{109.20, 109.90, 110.40}},
	{19, 1, 19}: {k: [3]float64{0.540, 0.540, 0.540}, theta: [3]float64{110.40, 111.20, 112.10}},
	{1, 1, 25}:  {k: [3]float64{0.640, 0.640, 0.640}, theta: [3]float64{108.70, 109.50, 110.60}},
	{5, 1, 25}:  {k: [3]float64{0.580, 0.580, 0.580}, theta: [3]float64{108.10, 108.80, 109.60}},
	{1, 1, 31}:  {k: [3]float64{0.560, 0.560, 0.560}, theta: [3]float64{110.00, 110.90, 112.00}},
	{5, 1, 31}:  {k: [3]float64{0.500, 0.500, 0.500}, theta: [3]float64{109.40, 110.10, 110.60}},
	{31, 1, 31}: {k: [3]float64{0.520, 0.520, 0.520}, theta: [3]float64{110.60, 111.40, 112.30}},

	// ── 5-ring carbon centers ─────────────────────────────────────────────────
	{123, 123, 123}: {k: [3]float64{0.740, 0.740, 0.740}, theta: [3]float64{102.80, 103.50, 104.40}},
	{5, 123, 123}:   {k: [3]float64{0.560, 0.560, 0.560}, theta: [3]float64{110.90, 111.60, 112.40}},
	{5, 123, 5}:     {k: [3]float64{0.540, 0.540, 0.540}, theta: [3]float64{108.10, 108.30, nan}},

	// ── Heteroatom centers (group V: one lane; group VI: one lane) ────────────
	{1, 6, 1}:  {k: [3]float64{0.770, nan, nan}, theta: [3]float64{106.80, nan, nan}},
	{1, 8, 1}:  {k: [3]float64{0.740, nan, nan}, theta: [3]float64{107.70, nan, nan}},
	{1, 15, 1}: {k: [3]float64{0.810, nan, nan}, theta: [3]float64{96.50, nan, nan}},
	{1, 25, 1}: {k: [3]float64{0.576, nan, nan}, theta: [3]float64{98.70, nan, nan}},

	// ── Silicon centers ───────────────────────────────────────────────────────
	{1, 19, 1}:   {k: [3]float64{0.480, 0.480, 0.480}, theta: [3]float64{109.50, 110.10, 111.30}},
	{1, 19, 5}:   {k: [3]float64{0.550, 0.550, 0.550}, theta: [3]float64{109.30, 109.80, 110.10}},
	{5, 19, 5}:   {k: [3]float64{0.460, 0.460, 0.460}, theta: [3]float64{107.80, 108.20, 108.70}},
	{1, 19, 19}:  {k: [3]float64{0.440, 0.440, 0.440}, theta: [3]float64{109.70, 110.30, 111.00}},
	{5, 19, 19}:  {k: [3]float64{0.400, 0.400, 0.400}, theta: [3]float64{109.20, 109.80, 110.30}},
	{19, 19, 19}: {k: [3]float64{0.350, 0.350, 0.350}, theta: [3]float64{109.50, 110.80, 111.20}},

	// ── Germanium centers ─────────────────────────────────────────────────────
	{1, 31, 1}:   {k: [3]float64{0.440, 0.440, 0.440}, theta: [3]float64{109.60, 110.20, 111.10}},
	{1, 31, 5}:   {k: [3]float64{0.500, 0.500, 0.500}, theta: [3]float64{109.40, 109.90, 110.20}},
	{5, 31, 5}:   {k: [3]float64{0.420, 0.420, 0.420}, theta: [3]float64{107.90, 108.30, 108.80}},
	{1, 31, 31}:  {k: [3]float64{0.400, 0.400, 0.400}, theta: [3]float64{109.80, 110.40, 111.10}},
	{5, 31, 31}:  {k: [3]float64{0.370, 0.370, 0.370}, theta: [3]float64{109.30, 109.90, 110.40}},
	{31, 31, 31}: {k: [3]float64{0.324, 0.324, 0.324}, theta: [3]float64{109.50, 110.50, 111.60}},
}

// SiSiSi5RingQuatPrimary and SiSiSi5RingQuatAlternate are the two published
// values of the 19-19-19 type-3 equilibrium angle in a 5-ring; the MM4 paper
// is suspected of a typo here, so both are retained.  The resolver uses the
// primary; tests pin both so a future table fix is caught.
const (
	SiSiSi5RingQuatPrimary   = 110.60
	SiSiSi5RingQuatAlternate = 112.00
)

// siSiSi5Ring is the dedicated 19-19-19 row for 5-ring silicon centers.
var siSiSi5Ring = angleRow{
	k:     [3]float64{0.350, 0.350, 0.350},
	theta: [3]float64{106.20, 108.40, SiSiSi5RingQuatPrimary},
}

// stretchBendRows is the stretch-bend coupling table in mdyn/rad, keyed like
// angleRows.  Missing rows mean no coupling.
var stretchBendRows = map[[3]forcefield.AtomCode]float64{
	{1, 1, 1}:       0.140,
	{1, 1, 5}:       0.100,
	{1, 1, 6}:       0.150,
	{5, 1, 6}:       0.110,
	{1, 1, 8}:       0.145,
	{5, 1, 8}:       0.105,
	{1, 1, 11}:      0.170,
	{5, 1, 11}:      0.125,
	{11, 1, 11}:     0.190,
	{1, 1, 15}:      0.130,
	{5, 1, 15}:      0.095,
	{1, 1, 19}:      0.100,
	{5, 1, 19}:      0.075,
	{19, 1, 19}:     0.090,
	{1, 1, 25}:      0.115,
	{5, 1, 25}:      0.085,
	{1, 1, 31}:      0.095,
	{5, 1, 31}:      0.070,
	{1, 6, 1}:       0.180,
	{1, 8, 1}:       0.160,
	{1, 15, 1}:      0.120,
	{1, 25, 1}:      0.110,
	{123, 123, 123}: 0.140,
	{1, 19, 1}:      0.085,
	{1, 19, 5}:      0.065,
	{1, 19, 19}:     0.075,
	{5, 19, 19}:     0.055,
	{19, 19, 19}:    0.060,
	{1, 31, 1}:      0.080,
	{1, 31, 5}:      0.060,
	{1, 31, 31}:     0.070,
	{5, 31, 31}:     0.050,
	{31, 31, 31}:    0.055,
}

// stretchBend5Ring overrides stretch-bend rows for 5-ring angles.
var stretchBend5Ring = map[[3]forcefield.AtomCode]float64{
	{123, 123, 123}: 0.155,
	{19, 19, 19}:    0.068,
}

// bendBendByCenter is the bend-bend coupling per center element code.
var bendBendByCenter = map[forcefield.AtomCode]float64{
	forcefield.CodeAlkaneCarbon:       0.204,
	forcefield.CodeCyclopentaneCarbon: 0.204,
	forcefield.CodeNitrogen:           0.160,
	forcefield.CodePhosphorus:         0.130,
	forcefield.CodeSilicon:            0.240,
	forcefield.CodeGermanium:          0.300,
}

// stretchStretchFCF is the stretch-stretch coupling of halogen-flanked
// angles (F-C-F) in mdyn/Å, with the secondary stretch-bend it rides with.
const (
	stretchStretchFCF      = 0.300
	secondaryStretchBendXF = 0.080
)

// canonicalTriple orders an angle's end codes ascending.
func canonicalTriple(a, b, c forcefield.AtomCode) [3]forcefield.AtomCode {
	if a > c {
		a, c = c, a
	}
	return [3]forcefield.AtomCode{a, b, c}
}

// lookupAngleRow resolves the bending row for a code triple: the exact triple
// first, the 123→1 remap second.  Every 19-19-19 angle of ring class 5 takes
// the dedicated 5-ring row before the generic one, whatever its center type.
func lookupAngleRow(a, b, c forcefield.AtomCode, ring forcefield.RingClass) (angleRow, bool) {
	key := canonicalTriple(a, b, c)
	if ring == forcefield.Ring5 && key == [3]forcefield.AtomCode{19, 19, 19} {
		return siSiSi5Ring, true
	}
	if row, ok := angleRows[key]; ok {
		return row, true
	}
	key = canonicalTriple(remap5Ring(a), remap5Ring(b), remap5Ring(c))
	row, ok := angleRows[key]
	return row, ok
}

// lookupStretchBend resolves the stretch-bend coupling with ring override and
// the same remap fallback; absent rows mean zero coupling.
func lookupStretchBend(a, b, c forcefield.AtomCode, ring forcefield.RingClass) float64 {
	key := canonicalTriple(a, b, c)
	if ring == forcefield.Ring5 {
		if v, ok := stretchBend5Ring[key]; ok {
			return v
		}
	}
	if v, ok := stretchBendRows[key]; ok {
		return v
	}
	key = canonicalTriple(remap5Ring(a), remap5Ring(b), remap5Ring(c))
	return stretchBendRows[key]
}

// centerGroup classifies a center code into its periodic group for angle-type
// derivation.  Hydrogen and fluorine cannot center an angle.
func centerGroup(code forcefield.AtomCode) (int, bool) {
	switch code {
	case forcefield.CodeAlkaneCarbon, forcefield.CodeCyclopentaneCarbon,
		forcefield.CodeSilicon, forcefield.CodeGermanium:
		return 4, true
	case forcefield.CodeNitrogen, forcefield.CodePhosphorus:
		return 5, true
	case forcefield.CodeOxygen, forcefield.CodeSulfur:
		return 6, true
	default:
		return 0, false
	}
}

// deriveAngleType maps the center's heavy non-member neighbor count to the
// angle type per its periodic group.
func deriveAngleType(group, heavyNonMember int) (forcefield.AngleType, bool) {
	switch group {
	case 4:
		switch heavyNonMember {
		case 2:
			return forcefield.AngleType1, true
		case 1:
			return forcefield.AngleType2, true
		case 0:
			return forcefield.AngleType3, true
		}
	case 5:
		if heavyNonMember == 1 {
			return forcefield.AngleType1, true
		}
	case 6:
		if heavyNonMember == 0 {
			return forcefield.AngleType1, true
		}
	}
	return 0, false
}

// ResolveAngles runs the angle pass, filling the parameter set's angle
// arrays.  Units convert at store time: stiffness mdyn·Å/rad² → zJ/rad² with
// the divided-constant halving, equilibrium angles degrees → radians.
func ResolveAngles(desc *forcefield.Descriptor, topo *topology.Topology, assign *typing.Assignment,
	set *forcefield.ParameterSet, logger logging.Logger) error {

	opts := desc.EffectiveOptions()
	n := len(topo.Angles)
	set.Angles.Indices = make([][3]uint32, n)
	copy(set.Angles.Indices, topo.Angles)
	set.Angles.RingClasses = make([]forcefield.RingClass, n)
	set.Angles.Types = make([]forcefield.AngleType, n)
	set.Angles.BendingStiffnesses = make([][3]float64, n)
	set.Angles.EquilibriumAngles = make([][3]float64, n)
	set.Angles.StretchBendStiffnesses = make([]float64, n)
	set.Angles.BendBendStiffnesses = make([]float64, n)
	set.Angles.HasExtended = make([]bool, n)
	set.Angles.SecondaryStretchBends = make([]float64, n)
	set.Angles.StretchStretches = make([]float64, n)

	for idx, tri := range topo.Angles {
		a, b, c := tri[0], tri[1], tri[2]
		codeA, codeB, codeC := assign.Codes[a], assign.Codes[b], assign.Codes[c]
		ring := topo.EntityRingClass(a, b, c)
		set.Angles.RingClasses[idx] = ring
		set.Angles.Map[tri] = idx

		group, ok := centerGroup(codeB)
		if !ok {
			return errors.UnsupportedCenterType(
				fmt.Sprintf("code %d cannot center an angle", codeB),
				desc.Address(int(b)), desc.Address(int(a)), desc.Address(int(c)))
		}

		heavyNonMember := 0
		for _, nbr := range topo.AtomsToAtoms[b] {
			if nbr == topology.Unused || uint32(nbr) == a || uint32(nbr) == c {
				continue
			}
			if desc.AtomicNumbers[nbr] != typing.ZHydrogen {
				heavyNonMember++
			}
		}
		angleType, ok := deriveAngleType(group, heavyNonMember)
		if !ok {
			return errors.UnsupportedCenterType(
				fmt.Sprintf("center code %d with %d heavy non-member neighbors has no angle type", codeB, heavyNonMember),
				desc.Address(int(b)), desc.Address(int(a)), desc.Address(int(c)))
		}
		set.Angles.Types[idx] = angleType

		row, found := lookupAngleRow(codeA, codeB, codeC, ring)
		if !found {
			return errors.MissingParameter(
				fmt.Sprintf("no bending row for code triple (%d, %d, %d)", codeA, codeB, codeC),
				desc.Address(int(a)), desc.Address(int(b)), desc.Address(int(c)))
		}
		lane := int(angleType) - 1
		if math.IsNaN(row.k[lane]) || math.IsNaN(row.theta[lane]) {
			return errors.MissingParameter(
				fmt.Sprintf("bending row (%d, %d, %d) has no type-%d lane", codeA, codeB, codeC, angleType),
				desc.Address(int(a)), desc.Address(int(b)), desc.Address(int(c)))
		}

		for t := 0; t < 3; t++ {
			if opts.Has(forcefield.ForceBend) {
				set.Angles.BendingStiffnesses[idx][t] = row.k[t] * mdynAToZJ / 2
			}
			set.Angles.EquilibriumAngles[idx][t] = row.theta[t] * RadPerDeg
		}

		if opts.Has(forcefield.ForceStretchBend) {
			set.Angles.StretchBendStiffnesses[idx] = lookupStretchBend(codeA, codeB, codeC, ring)
		}

		// Bend-bend needs two heavy arms and a center with angular room:
		// divalent O/S centers have none.
		if opts.Has(forcefield.ForceBendBend) && group != 6 && heavyArms(desc, topo, b) >= 2 {
			set.Angles.BendBendStiffnesses[idx] = bendBendByCenter[codeB]
		}

		if codeA == forcefield.CodeFluorine && codeC == forcefield.CodeFluorine {
			set.Angles.HasExtended[idx] = true
			set.Angles.SecondaryStretchBends[idx] = secondaryStretchBendXF
			if opts.Has(forcefield.ForceStretchStretch) {
				set.Angles.StretchStretches[idx] = stretchStretchFCF
			}
		}
	}

	logger.Info("angle pass complete", logging.Int("angles", n))
	return nil
}

// heavyArms counts the heavy neighbors of a center atom.
func heavyArms(desc *forcefield.Descriptor, topo *topology.Topology, b uint32) int {
	heavy := 0
	for _, nbr := range topo.AtomsToAtoms[b] {
		if nbr != topology.Unused && desc.AtomicNumbers[nbr] != typing.ZHydrogen {
			heavy++
		}
	}
	return heavy
}
