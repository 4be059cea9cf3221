package params

import (
	"fmt"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// torsionRow is one simple torsion row in kcal/mol: V1, Vn (periodicity n),
// V3, and the third-harmonic torsion-stretch coupling.
type torsionRow struct {
	v1, vn, v3 float64
	n          uint8
	kts3       float64
}

// torsionRows is the static simple-torsion table, keyed by the code
// quadruple canonicalized on the central pair.
var torsionRows = map[[4]forcefield.AtomCode]torsionRow{
	// ── Pure carbon ───────────────────────────────────────────────────────────
	{1, 1, 1, 1}: {v1: 0.185, vn: 0.170, v3: 0.520, n: 2, kts3: 0.059},
	{1, 1, 1, 5}: {v3: 0.290, n: 2, kts3: 0.012},
	{5, 1, 1, 5}: {v3: 0.238, n: 2, kts3: 0.009},

	// ── Carbon–silicon ────────────────────────────────────────────────────────
	{1, 1, 1, 19}:  {v1: 0.100, vn: 0.095, v3: 0.440, n: 2, kts3: 0.041},
	{19, 1, 1, 19}: {v1: 0.125, vn: 0.105, v3: 0.380, n: 2, kts3: 0.036},
	{5, 1, 1, 19}:  {v3: 0.195, n: 2, kts3: 0.008},
	{1, 1, 19, 1}:  {v3: 0.180, n: 2, kts3: 0.030},
	{1, 1, 19, 5}:  {v3: 0.167, n: 2, kts3: 0.024},
	{1, 1, 19, 19}: {v3: 0.158, n: 2, kts3: 0.022},
	{5, 1, 19, 1}:  {v3: 0.162, n: 2, kts3: 0.020},
	{5, 1, 19, 5}:  {v3: 0.155, n: 2, kts3: 0.018},
	{5, 1, 19, 19}: {v3: 0.148, n: 2, kts3: 0.016},
	{1, 19, 19, 1}: {v3: 0.140, n: 2, kts3: 0.014},
	{1, 19, 19, 5}: {v3: 0.130, n: 2, kts3: 0.012},

	// ── Pure silicon ──────────────────────────────────────────────────────────
	{1, 19, 19, 19}:  {v3: 0.122, n: 2, kts3: 0.011},
	{5, 19, 19, 5}:   {v3: 0.132, n: 2, kts3: 0.010},
	{5, 19, 19, 19}:  {v3: 0.115, n: 2, kts3: 0.009},
	{19, 19, 19, 19}: {v3: 0.126, n: 2, kts3: 0.0045},

	// ── Carbon–germanium ──────────────────────────────────────────────────────
	{1, 1, 1, 31}:  {v1: 0.090, vn: 0.085, v3: 0.410, n: 2, kts3: 0.038},
	{31, 1, 1, 31}: {v1: 0.110, vn: 0.095, v3: 0.350, n: 2, kts3: 0.033},
	{5, 1, 1, 31}:  {v3: 0.185, n: 2, kts3: 0.008},
	{1, 1, 31, 1}:  {v3: 0.165, n: 2, kts3: 0.027},
	{1, 1, 31, 5}:  {v3: 0.150, n: 2, kts3: 0.022},
	{1, 1, 31, 31}: {v3: 0.143, n: 2, kts3: 0.020},
	{5, 1, 31, 1}:  {v3: 0.148, n: 2, kts3: 0.018},
	{5, 1, 31, 5}:  {v3: 0.142, n: 2, kts3: 0.016},
	{5, 1, 31, 31}: {v3: 0.136, n: 2, kts3: 0.015},
	{1, 31, 31, 1}: {v3: 0.128, n: 2, kts3: 0.013},
	{1, 31, 31, 5}: {v3: 0.120, n: 2, kts3: 0.011},

	// ── Pure germanium ────────────────────────────────────────────────────────
	{1, 31, 31, 31}:  {v3: 0.112, n: 2, kts3: 0.010},
	{5, 31, 31, 5}:   {v3: 0.118, n: 2, kts3: 0.009},
	{5, 31, 31, 31}:  {v3: 0.105, n: 2, kts3: 0.008},
	{31, 31, 31, 31}: {v3: 0.110, n: 2, kts3: 0.0040},
}

// extendedRow is one extended torsion row in kcal/mol with its cross-term
// couplings; built for torsions containing an electronegative heteroatom.
type extendedRow struct {
	v1, v2, v3, v4, v6 float64
	kts1, kts2, kts3   [3]float64
	ktb1, ktb2, ktb3   [2]float64
	kbtb               float64
}

// defaultKts3 / defaultKtb seed every extended row's higher cross terms;
// rows override where the papers publish a value.
var (
	defaultKts3 = [3]float64{0.010, 0.059, 0.010}
	defaultKtb  = [2]float64{0.004, 0.004}
)

// extendedTorsionRows is the static extended-torsion table, same keying as
// torsionRows.
var extendedTorsionRows = map[[4]forcefield.AtomCode]extendedRow{
	// ── Fluorine ──────────────────────────────────────────────────────────────
	{11, 1, 1, 11}: {v1: -1.140, v2: 0.680, v3: 0.540, v4: 0.090, v6: 0.012,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.040},
	{5, 1, 1, 11}: {v1: -0.360, v2: 0.100, v3: 0.400, v6: 0.008,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.030},
	{1, 1, 1, 11}: {v1: -0.420, v2: 0.240, v3: 0.560, v4: 0.060,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.035},

	// ── Oxygen ────────────────────────────────────────────────────────────────
	{1, 1, 1, 6}: {v1: -0.200, v2: 0.150, v3: 0.530, v4: 0.040,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.028},
	{5, 1, 1, 6}: {v1: -0.150, v2: 0.080, v3: 0.380,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.024},
	{6, 1, 1, 6}: {v1: -0.550, v2: 0.420, v3: 0.480, v4: 0.070, v6: 0.010,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.038},
	{1, 1, 6, 1}: {v1: 0.400, v2: 0.520, v3: 0.467, v4: 0.050,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.032},
	{5, 1, 6, 1}: {v2: 0.300, v3: 0.530,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.026},

	// ── Nitrogen ──────────────────────────────────────────────────────────────
	{1, 1, 1, 8}: {v1: -0.180, v2: 0.120, v3: 0.500, v4: 0.030,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.026},
	{5, 1, 1, 8}: {v1: -0.120, v2: 0.070, v3: 0.360,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.022},
	{1, 1, 8, 1}: {v1: 0.350, v2: 0.460, v3: 0.440, v4: 0.040,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.030},
	{5, 1, 8, 1}: {v2: 0.260, v3: 0.480,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.024},

	// ── Sulfur ────────────────────────────────────────────────────────────────
	{1, 1, 1, 15}: {v1: -0.140, v2: 0.100, v3: 0.460,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.022},
	{5, 1, 1, 15}: {v1: -0.100, v2: 0.060, v3: 0.330,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.018},
	{1, 1, 15, 1}: {v1: 0.300, v2: 0.400, v3: 0.410, v4: 0.030,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.026},
	{5, 1, 15, 1}: {v2: 0.220, v3: 0.430,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.020},

	// ── Phosphorus ────────────────────────────────────────────────────────────
	{1, 1, 1, 25}: {v1: -0.120, v2: 0.090, v3: 0.420,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.020},
	{5, 1, 1, 25}: {v1: -0.090, v2: 0.050, v3: 0.300,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.016},
	{1, 1, 25, 1}: {v1: 0.280, v2: 0.370, v3: 0.390,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.024},
	{5, 1, 25, 1}: {v2: 0.200, v3: 0.400,
		kts3: defaultKts3, ktb1: defaultKtb, ktb2: defaultKtb, ktb3: defaultKtb, kbtb: 0.018},
}

// extendedHeteroatom reports whether the code marks an electronegative
// heteroatom that switches a torsion to the extended record form.
func extendedHeteroatom(code forcefield.AtomCode) bool {
	switch code {
	case forcefield.CodeOxygen, forcefield.CodeNitrogen, forcefield.CodeFluorine,
		forcefield.CodeSulfur, forcefield.CodePhosphorus:
		return true
	}
	return false
}

// canonicalQuad orders a torsion's code quadruple: central pair ascending,
// ties broken on the outer pair.
func canonicalQuad(a, b, c, d forcefield.AtomCode) [4]forcefield.AtomCode {
	if b > c || (b == c && a > d) {
		return [4]forcefield.AtomCode{d, c, b, a}
	}
	return [4]forcefield.AtomCode{a, b, c, d}
}

// lookupTorsionRow resolves a simple row: exact codes first, 123→1 remap
// second.
func lookupTorsionRow(a, b, c, d forcefield.AtomCode) (torsionRow, bool) {
	if row, ok := torsionRows[canonicalQuad(a, b, c, d)]; ok {
		return row, true
	}
	row, ok := torsionRows[canonicalQuad(remap5Ring(a), remap5Ring(b), remap5Ring(c), remap5Ring(d))]
	return row, ok
}

// lookupExtendedRow resolves an extended row with the same fallback chain.
func lookupExtendedRow(a, b, c, d forcefield.AtomCode) (extendedRow, bool) {
	if row, ok := extendedTorsionRows[canonicalQuad(a, b, c, d)]; ok {
		return row, true
	}
	row, ok := extendedTorsionRows[canonicalQuad(remap5Ring(a), remap5Ring(b), remap5Ring(c), remap5Ring(d))]
	return row, ok
}

// ResolveTorsions runs the torsion pass.  Coefficients are halved and
// converted to aJ at store time; the simple-record torsion-stretch coupling
// is additionally pre-normalized by the central bond's stretching stiffness
// so the evaluator never divides.
func ResolveTorsions(desc *forcefield.Descriptor, topo *topology.Topology, assign *typing.Assignment,
	set *forcefield.ParameterSet, logger logging.Logger) error {

	opts := desc.EffectiveOptions()
	n := len(topo.Torsions)
	set.Torsions.Indices = make([][4]uint32, n)
	copy(set.Torsions.Indices, topo.Torsions)
	set.Torsions.RingClasses = make([]forcefield.RingClass, n)
	set.Torsions.V1s = make([]float64, n)
	set.Torsions.Vns = make([]float64, n)
	set.Torsions.V3s = make([]float64, n)
	set.Torsions.Ns = make([]uint8, n)
	set.Torsions.Kts3s = make([]float64, n)
	set.Torsions.HasExtended = make([]bool, n)
	set.Torsions.Extended = make([]forcefield.TorsionExtended, n)

	if !opts.Has(forcefield.ForceTorsion) {
		for idx, quad := range topo.Torsions {
			set.Torsions.RingClasses[idx] = topo.EntityRingClass(quad[0], quad[1], quad[2], quad[3])
			set.Torsions.Map[quad] = idx
			set.Torsions.Ns[idx] = 2
		}
		logger.Info("torsion pass skipped", logging.Int("torsions", n))
		return nil
	}

	store := AJPerKcalPerMol / 2

	for idx, quad := range topo.Torsions {
		a, b, c, d := quad[0], quad[1], quad[2], quad[3]
		codes := [4]forcefield.AtomCode{assign.Codes[a], assign.Codes[b], assign.Codes[c], assign.Codes[d]}
		set.Torsions.RingClasses[idx] = topo.EntityRingClass(a, b, c, d)
		set.Torsions.Map[quad] = idx

		addrs := func() []forcefield.AtomAddress {
			return []forcefield.AtomAddress{desc.Address(int(a)), desc.Address(int(b)), desc.Address(int(c)), desc.Address(int(d))}
		}

		extended := extendedHeteroatom(codes[0]) || extendedHeteroatom(codes[1]) ||
			extendedHeteroatom(codes[2]) || extendedHeteroatom(codes[3])

		if extended {
			row, ok := lookupExtendedRow(codes[0], codes[1], codes[2], codes[3])
			if !ok {
				return errors.MissingParameter(
					fmt.Sprintf("no extended torsion row for codes (%d, %d, %d, %d)", codes[0], codes[1], codes[2], codes[3]),
					addrs()...)
			}
			ext := forcefield.TorsionExtended{
				V1:   row.v1 * store,
				V2:   row.v2 * store,
				V3:   row.v3 * store,
				V4:   row.v4 * store,
				V6:   row.v6 * store,
				Kts1: row.kts1,
				Kts2: row.kts2,
				Kts3: row.kts3,
				Kbtb: row.kbtb,
			}
			if opts.Has(forcefield.ForceTorsionBend) {
				ext.Ktb1, ext.Ktb2, ext.Ktb3 = row.ktb1, row.ktb2, row.ktb3
			}
			if !opts.Has(forcefield.ForceTorsionStretch) {
				ext.Kts1, ext.Kts2, ext.Kts3 = [3]float64{}, [3]float64{}, [3]float64{}
			}
			set.Torsions.HasExtended[idx] = true
			set.Torsions.Extended[idx] = ext
			// Mirror the shared fields into the simple arrays so evaluators
			// that only need the harmonic series read one layout.
			set.Torsions.V1s[idx] = ext.V1
			set.Torsions.Vns[idx] = ext.V2
			set.Torsions.V3s[idx] = ext.V3
			set.Torsions.Ns[idx] = 2
			set.Torsions.Kts3s[idx] = ext.Kts3[1]
			continue
		}

		row, ok := lookupTorsionRow(codes[0], codes[1], codes[2], codes[3])
		if !ok {
			return errors.MissingParameter(
				fmt.Sprintf("no torsion row for codes (%d, %d, %d, %d)", codes[0], codes[1], codes[2], codes[3]),
				addrs()...)
		}
		if row.n%2 != 0 {
			panic(errors.Internal(errors.CodeTableIntegrity,
				fmt.Sprintf("torsion table row (%d, %d, %d, %d) has odd periodicity %d", codes[0], codes[1], codes[2], codes[3], row.n)))
		}

		set.Torsions.V1s[idx] = row.v1 * store
		set.Torsions.Vns[idx] = row.vn * store
		set.Torsions.V3s[idx] = row.v3 * store
		set.Torsions.Ns[idx] = row.n

		if opts.Has(forcefield.ForceTorsionStretch) {
			centralKey := [2]uint32{b, c}
			if centralKey[0] > centralKey[1] {
				centralKey[0], centralKey[1] = centralKey[1], centralKey[0]
			}
			bondIdx := set.Bonds.Map[centralKey]
			if ks := set.Bonds.Stiffnesses[bondIdx]; ks != 0 {
				set.Torsions.Kts3s[idx] = row.kts3 / ks
			}
		}
	}

	logger.Info("torsion pass complete", logging.Int("torsions", n))
	return nil
}
