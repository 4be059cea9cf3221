package topology

import (
	"fmt"

	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// maxRingSize bounds the depth-first search.  Rings larger than eight atoms
// behave as acyclic for parameter purposes and are not enumerated.
const maxRingSize = 8

// minRingSize is the smallest ring the force field parameterizes.  Three- and
// four-membered rings carry too much strain for the published tables and are
// a structural fault.
const minRingSize = 5

// buildRings enumerates every simple cycle of size ≤ 8 exactly once by a
// bounded depth-first search from each atom.  A cycle is recorded only from
// its lowest-numbered member, and only in the traversal direction whose
// second atom is smaller than its last, so each ring appears once.
func (t *Topology) buildRings(desc *forcefield.Descriptor) error {
	path := make([]uint32, 0, maxRingSize)
	onPath := make([]bool, len(t.AtomsToAtoms))

	for start := range t.AtomsToAtoms {
		path = path[:0]
		path = append(path, uint32(start))
		onPath[start] = true
		if err := t.ringSearch(desc, uint32(start), &path, onPath); err != nil {
			return err
		}
		onPath[start] = false
	}
	return nil
}

// ringSearch extends the current path by every neighbor larger than the
// starting atom, closing a ring whenever the start reappears.
func (t *Topology) ringSearch(desc *forcefield.Descriptor, start uint32, path *[]uint32, onPath []bool) error {
	current := (*path)[len(*path)-1]
	for _, nbr := range t.AtomsToAtoms[current] {
		if nbr == Unused {
			continue
		}
		n := uint32(nbr)
		if n == start && len(*path) >= 3 {
			// Record each cycle in one direction only.
			if (*path)[1] > (*path)[len(*path)-1] {
				continue
			}
			if err := t.recordRing(desc, *path); err != nil {
				return err
			}
			continue
		}
		if n <= start || onPath[n] || len(*path) == maxRingSize {
			continue
		}
		*path = append(*path, n)
		onPath[n] = true
		if err := t.ringSearch(desc, start, path, onPath); err != nil {
			return err
		}
		onPath[n] = false
		*path = (*path)[:len(*path)-1]
	}
	return nil
}

// recordRing validates the ring size and appends the fixed-width tuple.
func (t *Topology) recordRing(desc *forcefield.Descriptor, members []uint32) error {
	if len(members) < minRingSize {
		addrs := make([]forcefield.AtomAddress, len(members))
		for i, m := range members {
			addrs[i] = desc.Address(int(m))
		}
		return errors.UnsupportedRing(
			fmt.Sprintf("%d-membered ring is below the supported minimum of %d", len(members), minRingSize), addrs...)
	}
	var ring [8]uint32
	for lane := range ring {
		if lane < len(members) {
			ring[lane] = members[lane]
		} else {
			ring[lane] = forcefield.RingUnused
		}
	}
	t.Rings = append(t.Rings, ring)
	t.RingSizes = append(t.RingSizes, uint8(len(members)))
	return nil
}

// SmallestRingSizes computes, per atom, the size of the smallest recorded
// ring the atom belongs to, or zero for acyclic atoms.
func (t *Topology) SmallestRingSizes() []uint8 {
	smallest := make([]uint8, len(t.AtomsToAtoms))
	for r, ring := range t.Rings {
		size := t.RingSizes[r]
		for lane := 0; lane < int(size); lane++ {
			a := ring[lane]
			if smallest[a] == 0 || size < smallest[a] {
				smallest[a] = size
			}
		}
	}
	return smallest
}

// RingClassOf maps a smallest-ring size to the parameter ring class.
func RingClassOf(smallest uint8) forcefield.RingClass {
	switch smallest {
	case 5:
		return forcefield.Ring5
	case 6:
		return forcefield.Ring6
	default:
		return forcefield.RingNone
	}
}

// EntityRingClass derives the ring class of a bond, angle, or torsion from
// the smallest ring that contains all of its atoms.
func (t *Topology) EntityRingClass(atoms ...uint32) forcefield.RingClass {
	best := uint8(0)
	for r, ring := range t.Rings {
		size := t.RingSizes[r]
		if size > 6 {
			continue
		}
		all := true
		for _, a := range atoms {
			found := false
			for lane := 0; lane < int(size); lane++ {
				if ring[lane] == a {
					found = true
					break
				}
			}
			if !found {
				all = false
				break
			}
		}
		if all && (best == 0 || size < best) {
			best = size
		}
	}
	return RingClassOf(best)
}
