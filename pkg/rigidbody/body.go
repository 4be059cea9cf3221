// Package rigidbody maintains the rigid-body view of a compiled parameter
// set: world-frame positions, velocities, and optional forces, with derived
// mass, center of mass, diagonalized moment of inertia, and momentum
// accessors.  Mutators reshape velocities without destroying the orthogonal
// momentum content, and every mutation eagerly invalidates the dependent
// caches before returning.
//
// Units: positions nm, velocities nm/ps, forces pN, masses yg.
package rigidbody

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/turtacn/nanoforge/internal/geometry"
	"github.com/turtacn/nanoforge/internal/monitoring/logging"
	"github.com/turtacn/nanoforge/pkg/errors"
	"github.com/turtacn/nanoforge/pkg/types/forcefield"
)

// defaultDiagonalizerRetries bounds the eigen-decomposition retry loop when
// no option overrides it.
const defaultDiagonalizerRetries = 8

// Body is the rigid-body state of one parameter set.  A Body owns its arrays
// exclusively; snapshots deep-copy.  It is not safe for concurrent use;
// distinct bodies may be used from distinct goroutines freely.
type Body struct {
	id     string
	params *forcefield.ParameterSet
	logger logging.Logger

	positions  []geometry.Vector3
	velocities []geometry.Vector3
	forces     []geometry.Vector3 // nil when absent

	retries int

	// Caches, guarded by their valid flags.  Invalidation is eager.
	massValid    bool
	mass         float64
	comValid     bool
	com          geometry.Vector3
	inertiaValid bool
	inertia      geometry.Diagonalization
}

// Option customizes Body construction.
type Option func(*Body)

// WithLogger attaches a structured logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(b *Body) { b.logger = l }
}

// WithDiagonalizerRetries overrides the eigen-decomposition retry budget.
func WithDiagonalizerRetries(n int) Option {
	return func(b *Body) { b.retries = n }
}

// New constructs a Body from a descriptor.  Positions are required and must
// match the parameter set's atom count; velocities are optional and default
// to zero.  Input arrays are copied.
func New(desc forcefield.RigidBodyDescriptor, opts ...Option) (*Body, error) {
	if desc.Parameters == nil {
		return nil, errors.InvalidParam("rigid body requires a parameter set")
	}
	n := desc.Parameters.Atoms.Count()
	if len(desc.Positions) != n {
		return nil, errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("positions length %d does not match atom count %d", len(desc.Positions), n))
	}
	if desc.Velocities != nil && len(desc.Velocities) != n {
		return nil, errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("velocities length %d does not match atom count %d", len(desc.Velocities), n))
	}

	b := &Body{
		id:         uuid.New().String(),
		params:     desc.Parameters,
		logger:     logging.NewNopLogger(),
		positions:  make([]geometry.Vector3, n),
		velocities: make([]geometry.Vector3, n),
		retries:    defaultDiagonalizerRetries,
	}
	for i, p := range desc.Positions {
		b.positions[i] = geometry.FromArray(p)
	}
	if desc.Velocities != nil {
		for i, v := range desc.Velocities {
			b.velocities[i] = geometry.FromArray(v)
		}
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// ID returns the body's identity used in log fields.
func (b *Body) ID() string { return b.id }

// Parameters returns the parameter set the body reads from.
func (b *Body) Parameters() *forcefield.ParameterSet { return b.params }

// AtomCount returns the number of atoms.
func (b *Body) AtomCount() int { return len(b.positions) }

// ─────────────────────────────────────────────────────────────────────────────
// State arrays
// ─────────────────────────────────────────────────────────────────────────────

// SetPositions replaces every world-frame position.  Length mismatches are
// ignored on zero-atom bodies and rejected otherwise.
func (b *Body) SetPositions(positions [][3]float64) error {
	if b.AtomCount() == 0 {
		return nil
	}
	if len(positions) != b.AtomCount() {
		return errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("positions length %d does not match atom count %d", len(positions), b.AtomCount()))
	}
	for i, p := range positions {
		b.positions[i] = geometry.FromArray(p)
	}
	b.invalidateGeometry()
	return nil
}

// Positions writes the world-frame positions into out, which must match the
// atom count.  On zero-atom bodies it is a silent no-op.
func (b *Body) Positions(out [][3]float64) error {
	if b.AtomCount() == 0 {
		return nil
	}
	if len(out) != b.AtomCount() {
		return errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("output length %d does not match atom count %d", len(out), b.AtomCount()))
	}
	for i, p := range b.positions {
		out[i] = p.Array()
	}
	return nil
}

// SetVelocities replaces every world-frame velocity.
func (b *Body) SetVelocities(velocities [][3]float64) error {
	if b.AtomCount() == 0 {
		return nil
	}
	if len(velocities) != b.AtomCount() {
		return errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("velocities length %d does not match atom count %d", len(velocities), b.AtomCount()))
	}
	for i, v := range velocities {
		b.velocities[i] = geometry.FromArray(v)
	}
	return nil
}

// Velocities writes the world-frame velocities into out.
func (b *Body) Velocities(out [][3]float64) error {
	if b.AtomCount() == 0 {
		return nil
	}
	if len(out) != b.AtomCount() {
		return errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("output length %d does not match atom count %d", len(out), b.AtomCount()))
	}
	for i, v := range b.velocities {
		out[i] = v.Array()
	}
	return nil
}

// SetForces replaces the optional force array; nil clears it.
func (b *Body) SetForces(forces [][3]float64) error {
	if forces == nil {
		b.forces = nil
		return nil
	}
	if b.AtomCount() == 0 {
		return nil
	}
	if len(forces) != b.AtomCount() {
		return errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("forces length %d does not match atom count %d", len(forces), b.AtomCount()))
	}
	b.forces = make([]geometry.Vector3, len(forces))
	for i, f := range forces {
		b.forces[i] = geometry.FromArray(f)
	}
	return nil
}

// HasForces reports whether a force array is present.
func (b *Body) HasForces() bool { return b.forces != nil }

// Forces writes the force array into out; it is a silent no-op when forces
// are absent.
func (b *Body) Forces(out [][3]float64) error {
	if b.forces == nil || b.AtomCount() == 0 {
		return nil
	}
	if len(out) != b.AtomCount() {
		return errors.New(errors.CodeBodyShapeMismatch,
			fmt.Sprintf("output length %d does not match atom count %d", len(out), b.AtomCount()))
	}
	for i, f := range b.forces {
		out[i] = f.Array()
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived properties
// ─────────────────────────────────────────────────────────────────────────────

// Mass returns the summed repartitioned mass in yg.
func (b *Body) Mass() float64 {
	if !b.massValid {
		b.mass = b.params.TotalMass()
		b.massValid = true
	}
	return b.mass
}

// CenterOfMass returns the mass-weighted center in nm, or zero when the
// total mass is zero.
func (b *Body) CenterOfMass() [3]float64 {
	return b.centerOfMass().Array()
}

func (b *Body) centerOfMass() geometry.Vector3 {
	if b.comValid {
		return b.com
	}
	total := b.Mass()
	var weighted geometry.Vector3
	if total > 0 {
		for i, p := range b.positions {
			weighted = weighted.Add(p.Mul(b.params.Atoms.Masses[i]))
		}
		weighted = weighted.Mul(1 / total)
	}
	b.com = weighted
	b.comValid = true
	return b.com
}

// MomentOfInertia returns the principal moments (yg·nm²) and the principal
// axes as columns of the orthogonal matrix Σ.  The decomposition is computed
// on first use and cached until a position mutation.
func (b *Body) MomentOfInertia() (moments [3]float64, axes [3][3]float64, err error) {
	d, err := b.diagonalized()
	if err != nil {
		return moments, axes, err
	}
	return d.Eigenvalues, [3][3]float64(d.Eigenvectors), nil
}

func (b *Body) diagonalized() (geometry.Diagonalization, error) {
	if b.inertiaValid {
		return b.inertia, nil
	}
	com := b.centerOfMass()
	var tensor geometry.Mat3
	for i, p := range b.positions {
		m := b.params.Atoms.Masses[i]
		r := p.Sub(com)
		r2 := r.Dot(r)
		tensor[0][0] += m * (r2 - r.X*r.X)
		tensor[1][1] += m * (r2 - r.Y*r.Y)
		tensor[2][2] += m * (r2 - r.Z*r.Z)
		tensor[0][1] -= m * r.X * r.Y
		tensor[0][2] -= m * r.X * r.Z
		tensor[1][2] -= m * r.Y * r.Z
	}
	tensor[1][0], tensor[2][0], tensor[2][1] = tensor[0][1], tensor[0][2], tensor[1][2]

	d, ok := geometry.DiagonalizeSymmetric(tensor, b.retries)
	if !ok {
		return d, errors.Internal(errors.CodeDiagonalization,
			"moment-of-inertia eigen-decomposition did not converge")
	}
	b.inertia = d
	b.inertiaValid = true
	return d, nil
}

// LinearMomentum returns Σ mᵢvᵢ in yg·nm/ps.
func (b *Body) LinearMomentum() [3]float64 {
	var p geometry.Vector3
	for i, v := range b.velocities {
		p = p.Add(v.Mul(b.params.Atoms.Masses[i]))
	}
	return p.Array()
}

// SetLinearMomentum rewrites velocities so the body's linear momentum equals
// p while the angular (orthogonal) content is preserved: every velocity is
// shifted by the difference between the target and current center-of-mass
// velocities.  Zero-mass bodies are a silent no-op.
func (b *Body) SetLinearMomentum(p [3]float64) {
	total := b.Mass()
	if total == 0 || b.AtomCount() == 0 {
		return
	}
	current := geometry.FromArray(b.LinearMomentum()).Mul(1 / total)
	target := geometry.FromArray(p).Mul(1 / total)
	shift := target.Sub(current)
	for i := range b.velocities {
		b.velocities[i] = b.velocities[i].Add(shift)
	}
}

// AngularMomentum returns the angular momentum about the center of mass,
// expressed in the principal-axis frame: L = Σᵀ · Σᵢ mᵢ rᵢ × vᵢ.
func (b *Body) AngularMomentum() ([3]float64, error) {
	d, err := b.diagonalized()
	if err != nil {
		return [3]float64{}, err
	}
	com := b.centerOfMass()
	var world geometry.Vector3
	for i, v := range b.velocities {
		r := b.positions[i].Sub(com)
		world = world.Add(r.Cross(v).Mul(b.params.Atoms.Masses[i]))
	}
	return d.Eigenvectors.Transpose().MulVec(world).Array(), nil
}

// SetAngularMomentum rewrites velocities so the principal-frame angular
// momentum equals l while the current linear content is preserved: the
// angular velocity ω = L/I is applied as ω × r in the world frame on top of
// the center-of-mass velocity.  Zero-mass bodies are a silent no-op.
func (b *Body) SetAngularMomentum(l [3]float64) error {
	total := b.Mass()
	if total == 0 || b.AtomCount() == 0 {
		return nil
	}
	d, err := b.diagonalized()
	if err != nil {
		return err
	}

	var omegaPrincipal geometry.Vector3
	if d.Eigenvalues[0] != 0 {
		omegaPrincipal.X = l[0] / d.Eigenvalues[0]
	}
	if d.Eigenvalues[1] != 0 {
		omegaPrincipal.Y = l[1] / d.Eigenvalues[1]
	}
	if d.Eigenvalues[2] != 0 {
		omegaPrincipal.Z = l[2] / d.Eigenvalues[2]
	}
	omegaWorld := d.Eigenvectors.MulVec(omegaPrincipal)

	vCom := geometry.FromArray(b.LinearMomentum()).Mul(1 / total)
	com := b.centerOfMass()
	for i := range b.velocities {
		r := b.positions[i].Sub(com)
		b.velocities[i] = vCom.Add(omegaWorld.Cross(r))
	}
	return nil
}

// NetForce returns Σᵢ fᵢ in pN, or zero when forces are absent.
func (b *Body) NetForce() [3]float64 {
	var f geometry.Vector3
	for _, fi := range b.forces {
		f = f.Add(fi)
	}
	return f.Array()
}

// NetTorque returns the net torque about the center of mass in the
// principal-axis frame, or zero when forces are absent.
func (b *Body) NetTorque() ([3]float64, error) {
	if b.forces == nil {
		return [3]float64{}, nil
	}
	d, err := b.diagonalized()
	if err != nil {
		return [3]float64{}, err
	}
	com := b.centerOfMass()
	var world geometry.Vector3
	for i, f := range b.forces {
		r := b.positions[i].Sub(com)
		world = world.Add(r.Cross(f))
	}
	return d.Eigenvectors.Transpose().MulVec(world).Array(), nil
}

// Rotate applies the quaternion (w, x, y, z) to every position about the
// center of mass and invalidates the geometry caches.
func (b *Body) Rotate(q [4]float64) {
	if b.AtomCount() == 0 {
		return
	}
	quat := geometry.Quaternion{W: q[0], X: q[1], Y: q[2], Z: q[3]}.Normalize()
	com := b.centerOfMass()
	for i, p := range b.positions {
		b.positions[i] = com.Add(quat.Rotate(p.Sub(com)))
	}
	b.invalidateGeometry()
}

// Snapshot returns a deep copy: later mutation of the original never shows
// through.
func (b *Body) Snapshot() *Body {
	clone := *b
	clone.id = uuid.New().String()
	clone.positions = append([]geometry.Vector3(nil), b.positions...)
	clone.velocities = append([]geometry.Vector3(nil), b.velocities...)
	if b.forces != nil {
		clone.forces = append([]geometry.Vector3(nil), b.forces...)
	}
	return &clone
}

// invalidateGeometry clears every cache that depends on positions.
func (b *Body) invalidateGeometry() {
	b.comValid = false
	b.inertiaValid = false
}
