// Package params resolves force-field parameters for the entities a topology
// enumerates: Morse bond rows, angle bending tuples with cross terms, torsion
// coefficient records, electronegativity corrections to equilibrium lengths,
// and the nonbonded exception topology with projected partial charges.
//
// Table storage units follow the MM4 papers (mdyn, Å, kcal/mol, degrees);
// conversion to the compiled unit system (zJ, aJ, radians) happens exactly
// once, at store time.
package params

// Unit-conversion constants.  These cross the compiler boundary and are
// bit-exact by contract.
const (
	// MM4AJPerKJPerMol converts kJ/mol to aJ per molecule.
	MM4AJPerKJPerMol = 1.660539e-3

	// MM4ZJPerKJPerMol converts kJ/mol to zJ per molecule.
	MM4ZJPerKJPerMol = 1.660539

	// MM4KJPerMolPerAJ converts aJ per molecule to kJ/mol.
	MM4KJPerMolPerAJ = 602.214

	// MM4KJPerMolPerZJ converts zJ per molecule to kJ/mol.
	MM4KJPerMolPerZJ = 0.602214

	// ZJPerAJ relates the two internal energy scales.
	ZJPerAJ = 1000.0

	// AJPerKcalPerMol converts the torsion tables' kcal/mol to aJ.
	AJPerKcalPerMol = 4.184 * MM4AJPerKJPerMol

	// EAngstromPerDebye converts a Debye dipole moment to elementary-charge
	// times Ångström.
	EAngstromPerDebye = 0.20819434

	// RadPerDeg converts the angle tables' degrees to radians.
	RadPerDeg = 0.017453292519943295
)

// mdynAToZJ converts a bending stiffness from mdyn·Å/rad² to zJ/rad².
// The two MM4 molar constants compose to the aJ→zJ scale of 1000 within
// 2e-7 relative (602.214 × 1.660539 ≈ 999.99983).
const mdynAToZJ = MM4KJPerMolPerAJ * MM4ZJPerKJPerMol
