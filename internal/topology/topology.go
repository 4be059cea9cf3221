// Package topology derives the connectivity of a molecular graph from its
// atoms and covalent bonds: per-atom neighbor maps, angles, torsions, and
// rings up to size eight.  It is the first compiler pass; every later pass
// treats its output as immutable.
package topology

import (
	"fmt"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// MaxNeighbors is the neighbor-slot capacity per atom.  Carbon-group
// chemistry never exceeds four covalent bonds.
const MaxNeighbors = 4

// Unused marks an empty lane in the neighbor maps.
const Unused int32 = -1

// Topology is the derived connectivity of one molecular graph.
type Topology struct {
	// AtomicNumbers aliases the descriptor's element list.
	AtomicNumbers []uint8

	// Bonds holds every bond sorted ascending, in input order.
	Bonds [][2]uint32

	// BondMap resolves a sorted pair to its bond index.
	BondMap map[[2]uint32]int

	// AtomsToAtoms holds up to four neighbor atom indices per atom, with
	// Unused marking empty lanes.
	AtomsToAtoms [][MaxNeighbors]int32

	// AtomsToBonds holds the bond index of each neighbor lane, symmetric to
	// AtomsToAtoms.
	AtomsToBonds [][MaxNeighbors]int32

	// Angles holds every angle (a, b, c) with middle atom b, canonicalized so
	// that a ≤ c.
	Angles [][3]uint32

	// Torsions holds every torsion (a, b, c, d) canonicalized so that b < c,
	// with reversal ties broken on a ≤ d.
	Torsions [][4]uint32

	// Rings holds every ring of size 5 through 8 as a fixed-width tuple with
	// forcefield.RingUnused in unused lanes.
	Rings [][8]uint32

	// RingSizes is the member count per ring.
	RingSizes []uint8
}

// NeighborCount returns the number of occupied neighbor lanes of atom i.
func (t *Topology) NeighborCount(i int) int {
	n := 0
	for _, a := range t.AtomsToAtoms[i] {
		if a != Unused {
			n++
		}
	}
	return n
}

// Neighborhood returns the addresses of atom i followed by its bonded
// neighbors, the shape every structural fault reports.
func (t *Topology) Neighborhood(desc *forcefield.Descriptor, i int) []forcefield.AtomAddress {
	addrs := []forcefield.AtomAddress{desc.Address(i)}
	for _, a := range t.AtomsToAtoms[i] {
		if a != Unused {
			addrs = append(addrs, desc.Address(int(a)))
		}
	}
	return addrs
}

// Build runs the topology pass over the descriptor.
func Build(desc *forcefield.Descriptor, logger logging.Logger) (*Topology, error) {
	n := len(desc.AtomicNumbers)
	t := &Topology{
		AtomicNumbers: desc.AtomicNumbers,
		Bonds:         make([][2]uint32, 0, len(desc.Bonds)),
		BondMap:       make(map[[2]uint32]int, len(desc.Bonds)),
		AtomsToAtoms:  make([][MaxNeighbors]int32, n),
		AtomsToBonds:  make([][MaxNeighbors]int32, n),
	}
	for i := range t.AtomsToAtoms {
		t.AtomsToAtoms[i] = [MaxNeighbors]int32{Unused, Unused, Unused, Unused}
		t.AtomsToBonds[i] = [MaxNeighbors]int32{Unused, Unused, Unused, Unused}
	}

	if err := t.buildBonds(desc); err != nil {
		return nil, err
	}
	t.buildAngles()
	t.buildTorsions()
	if err := t.buildRings(desc); err != nil {
		return nil, err
	}

	logger.Info("topology pass complete",
		logging.Int("atoms", n),
		logging.Int("bonds", len(t.Bonds)),
		logging.Int("angles", len(t.Angles)),
		logging.Int("torsions", len(t.Torsions)),
		logging.Int("rings", len(t.Rings)))
	return t, nil
}

// buildBonds sorts, validates, and indexes every bond, then fills the
// neighbor maps.
func (t *Topology) buildBonds(desc *forcefield.Descriptor) error {
	n := uint32(len(desc.AtomicNumbers))
	for _, raw := range desc.Bonds {
		a, b := raw[0], raw[1]
		if a > b {
			a, b = b, a
		}
		if b >= n {
			return errors.InvalidParam(fmt.Sprintf("bond (%d, %d) references atom %d outside [0, %d)", raw[0], raw[1], b, n))
		}
		if a == b {
			return errors.InvalidParam(fmt.Sprintf("atom %d is bonded to itself", a))
		}
		pair := [2]uint32{a, b}
		if _, dup := t.BondMap[pair]; dup {
			return errors.InvalidParam(fmt.Sprintf("bond (%d, %d) appears twice", a, b))
		}
		idx := len(t.Bonds)
		t.Bonds = append(t.Bonds, pair)
		t.BondMap[pair] = idx

		if err := t.attach(desc, int(a), int(b), idx); err != nil {
			return err
		}
		if err := t.attach(desc, int(b), int(a), idx); err != nil {
			return err
		}
	}
	return nil
}

// attach records neighbor at the first free lane of atom, faulting when the
// valence shell is already full.
func (t *Topology) attach(desc *forcefield.Descriptor, atom, neighbor, bond int) error {
	for lane := 0; lane < MaxNeighbors; lane++ {
		if t.AtomsToAtoms[atom][lane] == Unused {
			t.AtomsToAtoms[atom][lane] = int32(neighbor)
			t.AtomsToBonds[atom][lane] = int32(bond)
			return nil
		}
	}
	addrs := t.Neighborhood(desc, atom)
	addrs = append(addrs, desc.Address(neighbor))
	return errors.OpenValenceShell(
		fmt.Sprintf("atom %d exceeds %d covalent bonds", atom, MaxNeighbors), addrs...)
}

// buildAngles enumerates one angle per unordered neighbor pair of each
// center atom.
func (t *Topology) buildAngles() {
	for b := range t.AtomsToAtoms {
		nbrs := t.AtomsToAtoms[b]
		for i := 0; i < MaxNeighbors; i++ {
			if nbrs[i] == Unused {
				continue
			}
			for j := i + 1; j < MaxNeighbors; j++ {
				if nbrs[j] == Unused {
					continue
				}
				a, c := uint32(nbrs[i]), uint32(nbrs[j])
				if a > c {
					a, c = c, a
				}
				t.Angles = append(t.Angles, [3]uint32{a, uint32(b), c})
			}
		}
	}
}

// buildTorsions enumerates torsions by walking each bond's flanking
// neighbors.  a = d closes a 3-ring and is rejected here; the ring pass
// reports the structural fault.
func (t *Topology) buildTorsions() {
	seen := make(map[[4]uint32]struct{})
	for _, bond := range t.Bonds {
		b, c := bond[0], bond[1]
		for _, a := range t.AtomsToAtoms[b] {
			if a == Unused || uint32(a) == c {
				continue
			}
			for _, d := range t.AtomsToAtoms[c] {
				if d == Unused || uint32(d) == b || d == a {
					continue
				}
				quad := Canonicalize([4]uint32{uint32(a), b, c, uint32(d)})
				if _, dup := seen[quad]; dup {
					continue
				}
				seen[quad] = struct{}{}
				t.Torsions = append(t.Torsions, quad)
			}
		}
	}
}

// Canonicalize orders a torsion quadruple: the central pair ascends, and a
// central tie breaks on the outer pair.
func Canonicalize(q [4]uint32) [4]uint32 {
	if q[1] > q[2] || (q[1] == q[2] && q[0] > q[3]) {
		return [4]uint32{q[3], q[2], q[1], q[0]}
	}
	return q
}
