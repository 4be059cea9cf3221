package params

import (
	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// VirtualSiteShift is the fraction of the heavy-atom→hydrogen vector at which
// a hydrogen's nonbonded average site sits.
const VirtualSiteShift = 0.94

// OneFourVdwScale is the force scale applied to 1-4 van der Waals exception
// pairs; 1-3 pairs are excluded entirely.
const OneFourVdwScale = 0.550

// includeInnerDipolePairs controls whether each torsion's inner bond pairs
// (1-2 with 2-3, 2-3 with 3-4) also join the dipole-dipole exception list, or
// only the terminal (1-2, 3-4) pair does.  The original sources carry dead
// code paths both ways; the shipped behavior keeps only the terminal pair.
const includeInnerDipolePairs = false

// BuildNonbonded runs the exception pass: unique 1-3 pairs from angles,
// unique 1-4 pairs from torsions (skipping pairs that are bonded or already
// 1-3, which ring closures produce), the dipole-dipole exception list over
// torsion terminal bonds, the hydrogen virtual-site reorder map, and the
// partial-charge projection of every bond dipole.
func BuildNonbonded(desc *forcefield.Descriptor, topo *topology.Topology, assign *typing.Assignment,
	set *forcefield.ParameterSet, logger logging.Logger) error {

	opts := desc.EffectiveOptions()

	seen13 := make(map[[2]uint32]struct{})
	for _, tri := range topo.Angles {
		pair := sortedPair(tri[0], tri[2])
		if _, bonded := topo.BondMap[pair]; bonded {
			continue
		}
		if _, dup := seen13[pair]; dup {
			continue
		}
		seen13[pair] = struct{}{}
		set.Exceptions.Pairs13 = append(set.Exceptions.Pairs13, pair)
	}

	seen14 := make(map[[2]uint32]struct{})
	seenDipole := make(map[[2]uint32]struct{})
	for _, quad := range topo.Torsions {
		pair := sortedPair(quad[0], quad[3])
		_, bonded := topo.BondMap[pair]
		_, is13 := seen13[pair]
		_, dup := seen14[pair]
		if !bonded && !is13 && !dup {
			seen14[pair] = struct{}{}
			set.Exceptions.Pairs14 = append(set.Exceptions.Pairs14, pair)
		}

		if opts.Has(forcefield.ForceNonbonded) {
			left := topo.BondMap[sortedPair(quad[0], quad[1])]
			center := topo.BondMap[sortedPair(quad[1], quad[2])]
			right := topo.BondMap[sortedPair(quad[2], quad[3])]
			record := func(a, b int) {
				pair := sortedPair(uint32(a), uint32(b))
				if _, dupD := seenDipole[pair]; dupD || a == b {
					return
				}
				seenDipole[pair] = struct{}{}
				set.Exceptions.DipolePairs = append(set.Exceptions.DipolePairs, pair)
			}
			record(left, right)
			if includeInnerDipolePairs {
				record(left, center)
				record(center, right)
			}
		}
	}

	buildSiteIndices(desc, set)

	if opts.Has(forcefield.ForceNonbonded) {
		projectCharges(set)
	}

	logger.Info("nonbonded pass complete",
		logging.Int("pairs13", len(set.Exceptions.Pairs13)),
		logging.Int("pairs14", len(set.Exceptions.Pairs14)),
		logging.Int("dipole_pairs", len(set.Exceptions.DipolePairs)))
	return nil
}

// buildSiteIndices assigns nonbonded site indices under the hydrogen
// virtual-site reorder: every atom takes one site in order, and each hydrogen
// reserves a second consecutive slot for its shifted average site, so a
// hydrogen's exclusions reference SiteIndices[h] + 1.
func buildSiteIndices(desc *forcefield.Descriptor, set *forcefield.ParameterSet) {
	n := len(desc.AtomicNumbers)
	set.Exceptions.SiteIndices = make([]uint32, n)
	next := uint32(0)
	for i := 0; i < n; i++ {
		set.Exceptions.SiteIndices[i] = next
		next++
		if desc.AtomicNumbers[i] == typing.ZHydrogen {
			next++
		}
	}
	set.Exceptions.SiteCount = int(next)
}

// projectCharges folds each bond dipole into partial charges:
// q = μ · (eÅ/Debye) / L, with +q on the electropositive end and −q on the
// electronegative end.  A positive stored dipole marks the second index as
// the electronegative end.
func projectCharges(set *forcefield.ParameterSet) {
	n := set.Atoms.Count()
	if len(set.Atoms.Charges) != n {
		set.Atoms.Charges = make([]float64, n)
	}
	for b, mu := range set.Bonds.Dipoles {
		if mu == 0 {
			continue
		}
		length := set.Bonds.EquilibriumLengths[b]
		if length == 0 {
			continue
		}
		q := mu * EAngstromPerDebye / length
		i, j := set.Bonds.Indices[b][0], set.Bonds.Indices[b][1]
		// q > 0: j is the negative end.
		set.Atoms.Charges[i] += q
		set.Atoms.Charges[j] -= q
	}
}

// sortedPair orders two indices ascending.
func sortedPair(a, b uint32) [2]uint32 {
	if a > b {
		a, b = b, a
	}
	return [2]uint32{a, b}
}
