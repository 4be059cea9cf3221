package params

import (
	"fmt"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// bondRow is one static stretch-parameter row: Morse well depth in aJ,
// stretching stiffness in mdyn/Å, equilibrium length in Å, and the bond
// dipole magnitude in Debye (zero when the bond carries none).
type bondRow struct {
	depth  float64
	ks     float64
	length float64
	dipole float64
}

// bondRows is the static stretch table, keyed by the code pair ordered
// ascending.  Rows that depend on ring class or center type carry their base
// values here; variantBondRow applies the adjustments.
var bondRows = map[[2]forcefield.AtomCode]bondRow{
	{1, 1}:     {depth: 1.130, ks: 4.5600, length: 1.5270},
	{1, 123}:   {depth: 1.130, ks: 4.9000, length: 1.5280},
	{123, 123}: {depth: 1.130, ks: 4.9900, length: 1.5290},
	{1, 5}:     {depth: 0.854, ks: 4.7400, length: 1.1120},
	{5, 123}:   {depth: 0.854, ks: 4.7000, length: 1.1130},
	{1, 6}:     {depth: 0.940, ks: 5.4000, length: 1.4160, dipole: 0.860},
	{1, 8}:     {depth: 0.934, ks: 5.3000, length: 1.4585, dipole: 0.680},
	{1, 11}:    {depth: 0.989, ks: 5.1000, length: 1.3859, dipole: 1.820},
	{1, 15}:    {depth: 0.651, ks: 3.2130, length: 1.8050, dipole: 0.900},
	{1, 19}:    {depth: 0.812, ks: 3.0500, length: 1.8760, dipole: 0.700},
	{1, 25}:    {depth: 0.702, ks: 2.9400, length: 1.8440, dipole: 0.830},
	{1, 31}:    {depth: 0.744, ks: 2.7200, length: 1.9490, dipole: 0.650},
	{5, 19}:    {depth: 0.777, ks: 2.6500, length: 1.4930},
	{19, 19}:   {depth: 0.672, ks: 1.6500, length: 2.3300},
	{5, 31}:    {depth: 0.710, ks: 2.5500, length: 1.5290},
	{31, 31}:   {depth: 0.605, ks: 1.4500, length: 2.4040},
}

// electronegativities orders the supported codes on the Pauling scale; the
// more electronegative atom takes the negative end of a bond dipole.
var electronegativities = map[forcefield.AtomCode]float64{
	forcefield.CodeHydrogen:           2.20,
	forcefield.CodeAlkaneCarbon:       2.55,
	forcefield.CodeCyclopentaneCarbon: 2.55,
	forcefield.CodeNitrogen:           3.04,
	forcefield.CodeOxygen:             3.44,
	forcefield.CodeFluorine:           3.98,
	forcefield.CodeSulfur:             2.58,
	forcefield.CodeSilicon:            1.90,
	forcefield.CodePhosphorus:         2.19,
	forcefield.CodeGermanium:          2.01,
}

// remap5Ring substitutes the dedicated 5-ring carbon code with the plain
// alkane code, the shared fallback of every lookup chain.
func remap5Ring(c forcefield.AtomCode) forcefield.AtomCode {
	if c == forcefield.CodeCyclopentaneCarbon {
		return forcefield.CodeAlkaneCarbon
	}
	return c
}

// lookupBondRow resolves the stretch row for a code pair, first as-is, then
// with 5-ring codes remapped.
func lookupBondRow(a, b forcefield.AtomCode) (bondRow, bool) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	if row, ok := bondRows[[2]forcefield.AtomCode{lo, hi}]; ok {
		return row, true
	}
	lo, hi = remap5Ring(lo), remap5Ring(hi)
	if lo > hi {
		lo, hi = hi, lo
	}
	row, ok := bondRows[[2]forcefield.AtomCode{lo, hi}]
	return row, ok
}

// variantBondRow applies ring-class and center-type adjustments.  Only the
// carbon-carbon row varies: a quaternary end stiffens and lengthens the bond,
// and two tertiary ends do so to a lesser degree.
func variantBondRow(row bondRow, a, b forcefield.AtomCode, ctA, ctB forcefield.CenterType, ring forcefield.RingClass) bondRow {
	carbon := func(c forcefield.AtomCode) bool {
		return c == forcefield.CodeAlkaneCarbon || c == forcefield.CodeCyclopentaneCarbon
	}
	if !carbon(a) || !carbon(b) || ring == forcefield.Ring5 {
		return row
	}
	switch {
	case ctA == forcefield.CenterQuaternary || ctB == forcefield.CenterQuaternary:
		row.ks, row.length = 4.9900, 1.5290
	case ctA == forcefield.CenterTertiary && ctB == forcefield.CenterTertiary:
		row.ks, row.length = 4.7400, 1.5290
	}
	return row
}

// ResolveBonds runs the bond pass, filling the parameter set's bond arrays.
// When the stretch term is disabled, stiffness is zeroed here but length
// zeroing is deferred until after the electronegativity pass.  When the
// nonbonded term is disabled, dipoles are nulled.
func ResolveBonds(desc *forcefield.Descriptor, topo *topology.Topology, assign *typing.Assignment,
	set *forcefield.ParameterSet, logger logging.Logger) error {

	opts := desc.EffectiveOptions()
	n := len(topo.Bonds)
	set.Bonds.Indices = make([][2]uint32, n)
	copy(set.Bonds.Indices, topo.Bonds)
	set.Bonds.RingClasses = make([]forcefield.RingClass, n)
	set.Bonds.MorseWellDepths = make([]float64, n)
	set.Bonds.Stiffnesses = make([]float64, n)
	set.Bonds.EquilibriumLengths = make([]float64, n)
	set.Bonds.Dipoles = make([]float64, n)
	for pair, idx := range topo.BondMap {
		set.Bonds.Map[pair] = idx
	}

	for b, pair := range topo.Bonds {
		i, j := pair[0], pair[1]
		codeI, codeJ := assign.Codes[i], assign.Codes[j]
		ring := topo.EntityRingClass(i, j)
		set.Bonds.RingClasses[b] = ring

		row, ok := lookupBondRow(codeI, codeJ)
		if !ok {
			return errors.MissingParameter(
				fmt.Sprintf("no stretch row for code pair (%d, %d)", codeI, codeJ),
				desc.Address(int(i)), desc.Address(int(j)))
		}
		row = variantBondRow(row, codeI, codeJ, assign.CenterTypes[i], assign.CenterTypes[j], ring)

		set.Bonds.MorseWellDepths[b] = row.depth
		set.Bonds.EquilibriumLengths[b] = row.length
		if opts.Has(forcefield.ForceStretch) {
			set.Bonds.Stiffnesses[b] = row.ks
		}

		if row.dipole != 0 && opts.Has(forcefield.ForceNonbonded) {
			// A positive stored dipole marks the second (higher-index) atom as
			// the electronegative end; the moment points + → −.
			mu := row.dipole
			if electronegativities[codeI] > electronegativities[codeJ] {
				mu = -mu
			}
			set.Bonds.Dipoles[b] = mu
		}
	}

	logger.Info("bond pass complete", logging.Int("bonds", n))
	return nil
}
