package params

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/internal/topology"
	"github.com/turtacn/nanoforge/internal/typing"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// slotCapacity bounds the contribution slots per bond and category.  Four
// neighbor lanes on each of two bond ends, each with up to four secondary
// extensions, cannot reach it; exceeding it is a compiler defect.
const slotCapacity = 64

// enKey addresses a correction row: the corrected bond's ordered code pair,
// the code of the bond end the neighbor hangs off, and the neighbor's code.
type enKey struct {
	lo, hi, end, neighbor forcefield.AtomCode
}

// primaryCorrections are the one-bond-neighborhood corrections in Å.
// Negative entries shorten (electronegative neighbors); positive entries
// lengthen (electropositive neighbors).
var primaryCorrections = map[enKey]float64{
	{1, 1, 1, 11}: -0.0110,
	{1, 1, 1, 6}:  -0.0070,
	{1, 1, 1, 8}:  -0.0050,
	{1, 1, 1, 15}: -0.0022,
	{1, 1, 1, 25}: -0.0018,
	{1, 1, 1, 19}: +0.0062,
	{1, 1, 1, 31}: +0.0078,

	{1, 5, 1, 11}: -0.0048,
	{1, 5, 1, 6}:  -0.0036,
	{1, 5, 1, 8}:  -0.0028,
	{1, 5, 1, 19}: +0.0024,
	{1, 5, 1, 31}: +0.0032,

	{1, 6, 1, 11}:  -0.0092,
	{1, 6, 1, 6}:   -0.0060,
	{1, 8, 1, 11}:  -0.0085,
	{1, 11, 1, 11}: -0.0128,
	{1, 11, 1, 6}:  -0.0096,
	{1, 15, 1, 15}: -0.0030,

	{1, 19, 1, 19}: +0.0034,
	{1, 19, 1, 11}: -0.0075,
}

// secondaryCorrections are the two-bond-neighborhood corrections in Å,
// applied with the beta weight.
var secondaryCorrections = map[enKey]float64{
	{1, 1, 1, 11}: -0.0028,
	{1, 1, 1, 6}:  -0.0018,
	{1, 1, 1, 8}:  -0.0013,
	{1, 1, 1, 19}: +0.0014,
	{1, 1, 1, 31}: +0.0018,
	{1, 5, 1, 11}: -0.0012,
	{1, 5, 1, 6}:  -0.0008,
}

// bohlmannCorrections lengthen bonds anti to a heteroatom lone pair.
var bohlmannCorrections = map[enKey]float64{
	{1, 5, 1, 8}: +0.0062,
	{1, 5, 1, 6}: +0.0038,
}

// contributionBin is one bond's slot array for a single category and sign
// pass.  Writers claim distinct slots with an atomic counter, so no lock
// guards the value lanes.
type contributionBin struct {
	count  atomic.Int32
	values [slotCapacity]float64
}

// add claims the next slot and stores v.  Overflow is a contract violation,
// not a property of valid input, and panics accordingly.
func (b *contributionBin) add(v float64) {
	slot := b.count.Add(1) - 1
	if slot >= slotCapacity {
		panic(errors.Internal(errors.CodeSlotOverflow,
			fmt.Sprintf("electronegativity contribution slot %d exceeds capacity %d", slot, slotCapacity)))
	}
	b.values[slot] = v
}

// snapshot copies the claimed slots out for the serial reduction.
func (b *contributionBin) snapshot() []float64 {
	n := int(b.count.Load())
	if n > slotCapacity {
		n = slotCapacity
	}
	out := make([]float64, n)
	copy(out, b.values[:n])
	return out
}

// bondBins carries the three contribution categories of one bond for one
// sign pass.
type bondBins struct {
	primary   contributionBin
	secondary contributionBin
	bohlmann  contributionBin
}

// CorrectorConfig carries the electronegativity tunables.
type CorrectorConfig struct {
	// Decay damps the second and subsequent primary contributions.
	Decay float64

	// Beta weights secondary contributions.
	Beta float64

	// Workers bounds the task pool; zero selects GOMAXPROCS.
	Workers int
}

// ApplyElectronegativity runs the correction pass over the parameter set's
// equilibrium bond lengths.  The walk fans out per atom over a bounded task
// pool; the electropositive (+) and electronegative (−) sign passes share one
// task group, and the per-bond reduction is serial.
func ApplyElectronegativity(desc *forcefield.Descriptor, topo *topology.Topology, assign *typing.Assignment,
	set *forcefield.ParameterSet, cfg CorrectorConfig, logger logging.Logger) error {

	nBonds := len(topo.Bonds)
	if nBonds == 0 {
		return nil
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	plus := make([]bondBins, nBonds)
	minus := make([]bondBins, nBonds)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for sign := 0; sign < 2; sign++ {
		for atom := range topo.AtomsToAtoms {
			sign, atom := sign, atom
			g.Go(func() error {
				walkAtom(topo, assign, atom, sign == 0, plus, minus)
				return nil
			})
		}
	}
	// Worker closures never return an error; the group exists for its pool
	// bound and completion barrier.
	_ = g.Wait()

	// Serial reduction, one bond at a time.
	corrected := 0
	for b := 0; b < nBonds; b++ {
		delta := reduceBins(&plus[b], cfg) + reduceBins(&minus[b], cfg)
		if delta != 0 {
			set.Bonds.EquilibriumLengths[b] += delta
			corrected++
		}
	}

	logger.Info("electronegativity pass complete",
		logging.Int("bonds", nBonds),
		logging.Int("corrected", corrected))
	return nil
}

// walkAtom emits every contribution whose anchoring bond end is the given
// atom.  Contributions with positive table entries belong to the + pass and
// negative entries to the − pass; each task touches only its own sign's bins.
func walkAtom(topo *topology.Topology, assign *typing.Assignment, atom int, positive bool,
	plus, minus []bondBins) {

	emit := func(bins *bondBins, cat int, v float64) {
		if positive != (v > 0) {
			return
		}
		switch cat {
		case 0:
			bins.primary.add(v)
		case 1:
			bins.secondary.add(v)
		case 2:
			bins.bohlmann.add(v)
		}
	}

	for _, bondLane := range topo.AtomsToBonds[atom] {
		if bondLane == topology.Unused {
			continue
		}
		b := int(bondLane)
		pair := topo.Bonds[b]
		other := pair[0]
		if int(other) == atom {
			other = pair[1]
		}
		lo, hi := orderedPair(assign.Codes[pair[0]], assign.Codes[pair[1]])
		endCode := remap5Ring(assign.Codes[atom])
		bins := &plus[b]
		if !positive {
			bins = &minus[b]
		}

		// Primary: neighbors of this end, one bond away from the bond.
		for _, nbr := range topo.AtomsToAtoms[atom] {
			if nbr == topology.Unused || uint32(nbr) == other {
				continue
			}
			nbrCode := remap5Ring(assign.Codes[nbr])
			key := enKey{lo, hi, endCode, nbrCode}
			if v, ok := primaryCorrections[key]; ok {
				emit(bins, 0, v)
			}
			if v, ok := bohlmannCorrections[key]; ok {
				emit(bins, 2, v)
			}

			// Secondary: neighbors of the neighbor, two bonds away.
			for _, nbr2 := range topo.AtomsToAtoms[nbr] {
				if nbr2 == topology.Unused || int(nbr2) == atom || uint32(nbr2) == other {
					continue
				}
				key2 := enKey{lo, hi, endCode, remap5Ring(assign.Codes[nbr2])}
				if v, ok := secondaryCorrections[key2]; ok {
					emit(bins, 1, v)
				}
			}
		}
	}
}

// orderedPair returns the bond's code pair ascending with 5-ring remap
// applied, matching the correction tables' keying.
func orderedPair(a, b forcefield.AtomCode) (forcefield.AtomCode, forcefield.AtomCode) {
	a, b = remap5Ring(a), remap5Ring(b)
	if a > b {
		a, b = b, a
	}
	return a, b
}

// reduceBins folds one sign pass's bins into a length delta: primary
// contributions sorted by descending magnitude under a cumulative decay
// product, secondary contributions under the beta weight, Bohlmann
// contributions unweighted.
func reduceBins(bins *bondBins, cfg CorrectorConfig) float64 {
	primary := bins.primary.snapshot()
	sort.Slice(primary, func(i, j int) bool {
		return math.Abs(primary[i]) > math.Abs(primary[j])
	})

	var total float64
	damp := 1.0
	for _, c := range primary {
		total += c * damp
		damp *= cfg.Decay
	}
	for _, c := range bins.secondary.snapshot() {
		total += c * cfg.Beta
	}
	for _, c := range bins.bohlmann.snapshot() {
		total += c
	}
	return total
}
