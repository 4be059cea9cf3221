package forcefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForceOptions_Has(t *testing.T) {
	t.Parallel()

	opts := ForceBend | ForceStretch
	assert.True(t, opts.Has(ForceBend))
	assert.True(t, opts.Has(ForceStretch))
	assert.False(t, opts.Has(ForceTorsion))
	assert.True(t, ForceAll.Has(ForceTorsionStretch))
	assert.False(t, (ForceAll &^ ForceNonbonded).Has(ForceNonbonded))
}

func TestDescriptor_EffectiveDefaults(t *testing.T) {
	t.Parallel()

	d := &Descriptor{}
	assert.Equal(t, ForceAll, d.EffectiveOptions())
	assert.InDelta(t, 2.0, d.EffectiveHydrogenMassScale(), 1e-12)

	d.Options = ForceBend
	d.HydrogenMassScale = 1
	assert.Equal(t, ForceBend, d.EffectiveOptions())
	assert.InDelta(t, 1.0, d.EffectiveHydrogenMassScale(), 1e-12)
}

func TestDescriptor_Address(t *testing.T) {
	t.Parallel()

	d := &Descriptor{AtomicNumbers: []uint8{6, 1}, RigidBodyIndex: 3}
	a := d.Address(1)
	assert.Equal(t, 3, a.RigidBodyIndex)
	assert.Equal(t, 1, a.AtomIndex)
	assert.Equal(t, uint8(1), a.AtomicNumber)

	// Out-of-range index yields a zero atomic number, not a panic.
	out := d.Address(9)
	assert.Equal(t, uint8(0), out.AtomicNumber)
}

func TestAtomAddress_String(t *testing.T) {
	t.Parallel()

	a := AtomAddress{RigidBodyIndex: 2, AtomIndex: 17, AtomicNumber: 14}
	assert.Equal(t, "2/17(Z=14)", a.String())
}

func TestAtomCodes_GlossaryValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AtomCode(1), CodeAlkaneCarbon)
	assert.Equal(t, AtomCode(5), CodeHydrogen)
	assert.Equal(t, AtomCode(6), CodeOxygen)
	assert.Equal(t, AtomCode(8), CodeNitrogen)
	assert.Equal(t, AtomCode(11), CodeFluorine)
	assert.Equal(t, AtomCode(15), CodeSulfur)
	assert.Equal(t, AtomCode(19), CodeSilicon)
	assert.Equal(t, AtomCode(25), CodePhosphorus)
	assert.Equal(t, AtomCode(31), CodeGermanium)
	assert.Equal(t, AtomCode(123), CodeCyclopentaneCarbon)
}
