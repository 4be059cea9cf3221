// Package forcefield defines all force-field-domain Data Transfer Objects,
// enumerations, and descriptor structures used across every layer of the
// NanoForge compiler.  No resolution logic lives here — only plain data types
// that are safe to import from any layer without creating circular
// dependencies.
package forcefield

import (
	"fmt"
)

// ─────────────────────────────────────────────────────────────────────────────
// AtomCode — typed atom code enumeration
// ─────────────────────────────────────────────────────────────────────────────

// AtomCode is the small-integer MM4 atom type identifying an atom's element
// and chemical environment.  Codes follow the published MM4 numbering; the
// 5-ring alkane carbon carries its own code (123) and is remapped to 1 during
// table fallback.
type AtomCode uint8

const (
	// CodeInvalid marks an unassigned or unassignable atom code.
	CodeInvalid AtomCode = 0

	// CodeAlkaneCarbon is sp3 alkane carbon in a 6-ring or acyclic environment.
	CodeAlkaneCarbon AtomCode = 1

	// CodeHydrogen is hydrogen bonded to any supported heavy atom.
	CodeHydrogen AtomCode = 5

	// CodeOxygen is divalent sp3 oxygen (ether).
	CodeOxygen AtomCode = 6

	// CodeNitrogen is trivalent sp3 nitrogen (amine).
	CodeNitrogen AtomCode = 8

	// CodeFluorine is monovalent fluorine.
	CodeFluorine AtomCode = 11

	// CodeSulfur is divalent sulfur (thioether).
	CodeSulfur AtomCode = 15

	// CodeSilicon is tetravalent silicon.
	CodeSilicon AtomCode = 19

	// CodePhosphorus is trivalent phosphorus (phosphine).
	CodePhosphorus AtomCode = 25

	// CodeGermanium is tetravalent germanium.
	CodeGermanium AtomCode = 31

	// CodeCyclopentaneCarbon is sp3 alkane carbon that is a member of at least
	// one 5-ring.  Lookup tables that carry no dedicated 5-ring row fall back
	// to CodeAlkaneCarbon.
	CodeCyclopentaneCarbon AtomCode = 123
)

// ─────────────────────────────────────────────────────────────────────────────
// RingClass — smallest-ring membership classification
// ─────────────────────────────────────────────────────────────────────────────

// RingClass classifies an atom, bond, angle, or torsion by the smallest ring
// it participates in.  Only 5-rings and 6-rings influence parameter
// resolution; larger rings behave as acyclic.
type RingClass uint8

const (
	// RingNone marks an entity that is in no ring of size ≤ 6.
	RingNone RingClass = 0

	// Ring5 marks membership in at least one 5-ring.
	Ring5 RingClass = 5

	// Ring6 marks membership in at least one 6-ring and no 5-ring.
	Ring6 RingClass = 6
)

// ─────────────────────────────────────────────────────────────────────────────
// CenterType — substitution pattern of a heavy atom
// ─────────────────────────────────────────────────────────────────────────────

// CenterType is the number of non-hydrogen neighbors bonded to a heavy atom.
// Hydrogens always carry CenterTypeNone.
type CenterType uint8

const (
	// CenterTypeNone marks hydrogens and monovalent terminals.
	CenterTypeNone CenterType = 0

	// CenterPrimary has exactly one heavy neighbor.
	CenterPrimary CenterType = 1

	// CenterSecondary has two heavy neighbors.
	CenterSecondary CenterType = 2

	// CenterTertiary has three heavy neighbors.
	CenterTertiary CenterType = 3

	// CenterQuaternary has four heavy neighbors.
	CenterQuaternary CenterType = 4
)

// ─────────────────────────────────────────────────────────────────────────────
// AngleType — parameter selector for bending rows
// ─────────────────────────────────────────────────────────────────────────────

// AngleType selects among the three bending-parameter values of a table row.
// It is derived from the count of heavy neighbors of the center atom that are
// not themselves members of the angle: group IV centers map {2→1, 1→2, 0→3},
// group V centers map {1→1}, group VI centers map {0→1}.
type AngleType uint8

const (
	AngleType1 AngleType = 1
	AngleType2 AngleType = 2
	AngleType3 AngleType = 3
)

// ─────────────────────────────────────────────────────────────────────────────
// ForceOptions — bitfield selecting which force terms are compiled
// ─────────────────────────────────────────────────────────────────────────────

// ForceOptions is a bitfield over the force terms the compiler emits
// coefficients for.  Terms that are switched off have their coefficients
// zeroed (stretch, bend families) or nulled (nonbonded dipoles) at store time.
type ForceOptions uint16

const (
	ForceBend ForceOptions = 1 << iota
	ForceBendBend
	ForceNonbonded
	ForceStretch
	ForceStretchBend
	ForceStretchStretch
	ForceTorsion
	ForceTorsionBend
	ForceTorsionStretch

	// ForceAll enables every force term.  This is the default for descriptors
	// that leave Options at zero.
	ForceAll = ForceBend | ForceBendBend | ForceNonbonded | ForceStretch |
		ForceStretchBend | ForceStretchStretch | ForceTorsion |
		ForceTorsionBend | ForceTorsionStretch
)

// Has reports whether every bit of term is enabled.
func (o ForceOptions) Has(term ForceOptions) bool {
	return o&term == term
}

// ─────────────────────────────────────────────────────────────────────────────
// AtomAddress — stable cross-boundary atom identity
// ─────────────────────────────────────────────────────────────────────────────

// AtomAddress identifies an atom across the compiler boundary.  Faults attach
// one address per referenced atom so that callers can locate the offending
// site without holding the parameter set.
type AtomAddress struct {
	// RigidBodyIndex is the index of the owning rigid body within the caller's
	// simulation, or zero when compilation happens outside a simulation.
	RigidBodyIndex int `json:"rigid_body_index"`

	// AtomIndex is the index of the atom within its parameter set.
	AtomIndex int `json:"atom_index"`

	// AtomicNumber is the element of the referenced atom.
	AtomicNumber uint8 `json:"atomic_number"`
}

// String renders the address in the canonical "body/atom(Z)" form used in
// fault details and log fields.
func (a AtomAddress) String() string {
	return fmt.Sprintf("%d/%d(Z=%d)", a.RigidBodyIndex, a.AtomIndex, a.AtomicNumber)
}

// ─────────────────────────────────────────────────────────────────────────────
// Descriptor — compiler input
// ─────────────────────────────────────────────────────────────────────────────

// Descriptor is the complete input to the parameter compiler.
type Descriptor struct {
	// AtomicNumbers lists the element of every atom, indexed by atom index.
	AtomicNumbers []uint8 `json:"atomic_numbers"`

	// Bonds lists every covalent bond as an unordered pair of atom indices.
	// The compiler sorts each pair ascending before use.
	Bonds [][2]uint32 `json:"bonds"`

	// Options selects the force terms to compile.  Zero means ForceAll.
	Options ForceOptions `json:"options"`

	// HydrogenMassScale is the hydrogen-mass-repartitioning factor.  The
	// default 2 doubles each hydrogen and removes the difference from its
	// bonded heavy atom; 1 disables repartitioning.  Zero means default.
	HydrogenMassScale float64 `json:"hydrogen_mass_scale"`

	// RigidBodyIndex is stamped into every AtomAddress the compile emits.
	RigidBodyIndex int `json:"rigid_body_index"`
}

// EffectiveOptions returns Options, substituting ForceAll when unset.
func (d *Descriptor) EffectiveOptions() ForceOptions {
	if d.Options == 0 {
		return ForceAll
	}
	return d.Options
}

// EffectiveHydrogenMassScale returns HydrogenMassScale, substituting the
// default repartitioning factor 2 when unset.
func (d *Descriptor) EffectiveHydrogenMassScale() float64 {
	if d.HydrogenMassScale == 0 {
		return 2
	}
	return d.HydrogenMassScale
}

// Address builds the AtomAddress of atom i under this descriptor.
func (d *Descriptor) Address(i int) AtomAddress {
	var z uint8
	if i >= 0 && i < len(d.AtomicNumbers) {
		z = d.AtomicNumbers[i]
	}
	return AtomAddress{RigidBodyIndex: d.RigidBodyIndex, AtomIndex: i, AtomicNumber: z}
}

// ─────────────────────────────────────────────────────────────────────────────
// RigidBodyDescriptor — rigid-body construction input
// ─────────────────────────────────────────────────────────────────────────────

// RigidBodyDescriptor is the input for constructing a rigid body from a
// compiled parameter set.
type RigidBodyDescriptor struct {
	// Parameters is the compiled parameter set the body reads masses and
	// topology from.  The body holds the reference; it never mutates the set.
	Parameters *ParameterSet

	// Positions holds the world-frame position of every atom in nm.
	// Required; length must equal the parameter set's atom count.
	Positions [][3]float64

	// Velocities holds the world-frame velocity of every atom in nm/ps.
	// Optional; when nil every velocity starts at zero.
	Velocities [][3]float64
}
