package typing

import (
	"fmt"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// Assignment is the per-atom output of the typing pass.
type Assignment struct {
	Codes       []forcefield.AtomCode
	RingClasses []forcefield.RingClass
	CenterTypes []forcefield.CenterType

	// Masses is the repartitioned mass per atom in yg; DefaultMasses is the
	// mass before repartitioning.
	Masses        []float64
	DefaultMasses []float64

	// Epsilons and Radii are the (default, hydrogen-variant) vdW records in
	// zJ and Å respectively.  Hydrogens carry NaN in the variant lane.
	Epsilons [][2]float64
	Radii    [][2]float64
}

// Assign runs the typing pass.  It validates element support, exact valence,
// and the composition rules, then derives codes, ring classes, center types,
// repartitioned masses, and vdW records.
func Assign(desc *forcefield.Descriptor, topo *topology.Topology, logger logging.Logger) (*Assignment, error) {
	n := len(desc.AtomicNumbers)
	out := &Assignment{
		Codes:         make([]forcefield.AtomCode, n),
		RingClasses:   make([]forcefield.RingClass, n),
		CenterTypes:   make([]forcefield.CenterType, n),
		Masses:        make([]float64, n),
		DefaultMasses: make([]float64, n),
		Epsilons:      make([][2]float64, n),
		Radii:         make([][2]float64, n),
	}

	smallest := topo.SmallestRingSizes()

	for i := 0; i < n; i++ {
		z := desc.AtomicNumbers[i]
		rec, supported := elements[z]
		if !supported {
			return nil, errors.UnsupportedCenterType(
				fmt.Sprintf("element Z=%d is not parameterized", z), desc.Address(i))
		}

		if err := checkComposition(desc, topo, i, rec); err != nil {
			return nil, err
		}

		out.Codes[i] = assignCode(z, smallest[i])
		out.RingClasses[i] = topology.RingClassOf(smallest[i])
		out.CenterTypes[i] = centerType(desc, topo, i)
		out.DefaultMasses[i] = rec.massAmu * ygPerAmu
		out.Masses[i] = out.DefaultMasses[i]
		out.Epsilons[i] = [2]float64{rec.epsilon * zJPerKcalPerMol, rec.epsilonH * zJPerKcalPerMol}
		out.Radii[i] = [2]float64{rec.radius, rec.radiusH}
	}

	repartitionMasses(desc, topo, out)

	logger.Info("typing pass complete", logging.Int("atoms", n))
	return out, nil
}

// assignCode maps an element and smallest-ring size to its typed atom code.
func assignCode(z uint8, smallestRing uint8) forcefield.AtomCode {
	switch z {
	case ZHydrogen:
		return forcefield.CodeHydrogen
	case ZCarbon:
		if smallestRing == 5 {
			return forcefield.CodeCyclopentaneCarbon
		}
		return forcefield.CodeAlkaneCarbon
	case ZNitrogen:
		return forcefield.CodeNitrogen
	case ZOxygen:
		return forcefield.CodeOxygen
	case ZFluorine:
		return forcefield.CodeFluorine
	case ZSilicon:
		return forcefield.CodeSilicon
	case ZPhosphor:
		return forcefield.CodePhosphorus
	case ZSulfur:
		return forcefield.CodeSulfur
	case ZGermanium:
		return forcefield.CodeGermanium
	default:
		return forcefield.CodeInvalid
	}
}

// checkComposition enforces valence and neighbor-element rules for atom i.
func checkComposition(desc *forcefield.Descriptor, topo *topology.Topology, i int, rec elementRecord) error {
	z := desc.AtomicNumbers[i]
	degree := topo.NeighborCount(i)

	if degree != rec.valence {
		return errors.OpenValenceShell(
			fmt.Sprintf("atom %d (Z=%d) has %d covalent bonds, element requires %d", i, z, degree, rec.valence),
			topo.Neighborhood(desc, i)...)
	}

	heavy := 0
	for _, nbr := range topo.AtomsToAtoms[i] {
		if nbr == topology.Unused {
			continue
		}
		nz := desc.AtomicNumbers[nbr]
		if nz != ZHydrogen {
			heavy++
		}
		if err := checkNeighborPair(desc, topo, i, int(nbr)); err != nil {
			return err
		}
	}

	// Lone heavy centers (methane, silane as a bare molecule) have no heavy
	// neighbor and nothing the tables can anchor a bond row to.
	if z != ZHydrogen && heavy == 0 {
		return errors.UnsupportedCenterType(
			fmt.Sprintf("atom %d (Z=%d) is a lone center with no heavy neighbor", i, z),
			topo.Neighborhood(desc, i)...)
	}
	return nil
}

// checkNeighborPair enforces the element rules of the bond (i, j).
func checkNeighborPair(desc *forcefield.Descriptor, topo *topology.Topology, i, j int) error {
	zi, zj := desc.AtomicNumbers[i], desc.AtomicNumbers[j]
	ri := elements[zi]

	// Hydrogen bonds exactly one heavy atom; H–H has no parameterization.
	if zi == ZHydrogen && zj == ZHydrogen {
		return errors.UnsupportedCenterType(
			fmt.Sprintf("atoms %d and %d form a hydrogen-hydrogen bond", i, j),
			desc.Address(i), desc.Address(j))
	}

	// Electronegative heteroatoms bond only to carbon.
	if zi != ZHydrogen && zi != ZCarbon && !ri.carbonGroup && zj != ZCarbon {
		return errors.UnsupportedCenterType(
			fmt.Sprintf("heteroatom %d (Z=%d) must bond only carbon, found Z=%d", i, zi, zj),
			topo.Neighborhood(desc, i)...)
	}

	// No two dissimilar non-H/C elements one bond apart (Si–Ge, Si–O, ...).
	if zi != ZHydrogen && zj != ZHydrogen && zi != ZCarbon && zj != ZCarbon && zi != zj {
		return errors.UnsupportedCenterType(
			fmt.Sprintf("dissimilar heteroatoms Z=%d and Z=%d are directly bonded", zi, zj),
			desc.Address(i), desc.Address(j))
	}
	return nil
}

// centerType counts non-hydrogen neighbors; hydrogens carry CenterTypeNone.
func centerType(desc *forcefield.Descriptor, topo *topology.Topology, i int) forcefield.CenterType {
	if desc.AtomicNumbers[i] == ZHydrogen {
		return forcefield.CenterTypeNone
	}
	heavy := 0
	for _, nbr := range topo.AtomsToAtoms[i] {
		if nbr != topology.Unused && desc.AtomicNumbers[nbr] != ZHydrogen {
			heavy++
		}
	}
	return forcefield.CenterType(heavy)
}

// repartitionMasses applies hydrogen mass repartitioning: each hydrogen's
// mass is multiplied by the scale and the difference is removed from its
// bonded heavy atom, so the total mass is conserved exactly.
func repartitionMasses(desc *forcefield.Descriptor, topo *topology.Topology, out *Assignment) {
	scale := desc.EffectiveHydrogenMassScale()
	if scale == 1 {
		return
	}
	for i, z := range desc.AtomicNumbers {
		if z != ZHydrogen {
			continue
		}
		delta := (scale - 1) * out.DefaultMasses[i]
		out.Masses[i] += delta
		for _, nbr := range topo.AtomsToAtoms[i] {
			if nbr == topology.Unused {
				continue
			}
			out.Masses[nbr] -= delta
			break
		}
	}
}
