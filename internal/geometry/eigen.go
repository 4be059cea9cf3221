package geometry

import (
	"math"
	"math/rand"
)

// Eigen tolerances.  Residuals are judged against eigenResidualTol relative to
// the matrix scale; eigenvalue gaps below degeneracyTol relative to the
// spectrum's spread count as degenerate.
const (
	eigenResidualTol = 1e-5
	degeneracyTol    = 1e-6
)

// retrySeed makes the perturb-and-retry loop reproducible run to run.
const retrySeed int64 = 0x6e616e6f

// Diagonalization is the result of a successful symmetric 3×3
// eigen-decomposition: M = Σ · diag(λ) · Σᵀ with orthonormal columns Σ.
type Diagonalization struct {
	// Eigenvalues in no particular order; Eigenvalues[i] pairs with column i
	// of Eigenvectors.
	Eigenvalues [3]float64

	// Eigenvectors holds the orthonormal eigenvectors as matrix columns.
	Eigenvectors Mat3
}

// DiagonalizeSymmetric decomposes a real symmetric 3×3 matrix into
// eigenvalues and orthonormal eigenvectors.  The characteristic cubic is
// solved in closed form; eigenvectors are recovered from the adjugate of
// M − λI.  When extraction fails for an axis (ill-conditioned adjugate), the
// basis is perturbed by a pseudo-random unit rotation and the decomposition
// retried; after maxRetries attempts the second return value is false.
//
// Degenerate spectra are handled directly: a spherical matrix returns the
// standard basis, and an axially-degenerate matrix completes the distinct
// eigenvector with an orthogonal pair, so retries are reserved for genuine
// conditioning failures.
func DiagonalizeSymmetric(m Mat3, maxRetries int) (Diagonalization, bool) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	rng := rand.New(rand.NewSource(retrySeed))

	if out, ok := diagonalizeOnce(m); ok {
		return out, true
	}
	for attempt := 1; attempt < maxRetries; attempt++ {
		q := randomUnitQuaternion(rng)
		r := q.RotationMatrix()
		rotated := r.Transpose().Mul(m).Mul(r)
		out, ok := diagonalizeOnce(rotated)
		if !ok {
			continue
		}
		// Undo the basis change: if Rᵀ M R = V Λ Vᵀ then M = (R V) Λ (R V)ᵀ.
		out.Eigenvectors = r.Mul(out.Eigenvectors)
		return out, true
	}
	return Diagonalization{}, false
}

func diagonalizeOnce(m Mat3) (Diagonalization, bool) {
	scale := m.MaxAbs()
	if scale == 0 {
		return Diagonalization{Eigenvectors: Identity3()}, true
	}
	n := m.Scale(1 / scale)

	// Characteristic polynomial of n: λ³ − tr·λ² + c1·λ − det = 0.
	tr := n.Trace()
	c1 := n[0][0]*n[1][1] - n[0][1]*n[1][0] +
		n[0][0]*n[2][2] - n[0][2]*n[2][0] +
		n[1][1]*n[2][2] - n[1][2]*n[2][1]
	roots := SolveMonicCubic(-tr, c1, -n.Det())
	if len(roots) != 3 {
		// A symmetric matrix always has a real spectrum; a single-root result
		// means round-off pushed the discriminant negative.
		return Diagonalization{}, false
	}

	// Sort ascending so degeneracy detection can compare neighbors.
	l0, l1, l2 := roots[0], roots[1], roots[2]
	if l0 > l1 {
		l0, l1 = l1, l0
	}
	if l1 > l2 {
		l1, l2 = l2, l1
	}
	if l0 > l1 {
		l0, l1 = l1, l0
	}

	spread := math.Max(math.Abs(l0), math.Abs(l2))
	degenLow := l1-l0 <= degeneracyTol*math.Max(spread, 1)
	degenHigh := l2-l1 <= degeneracyTol*math.Max(spread, 1)

	var vecs [3]Vector3
	switch {
	case degenLow && degenHigh:
		// Spherical: every direction is principal.
		vecs = [3]Vector3{{X: 1}, {Y: 1}, {Z: 1}}

	case degenLow:
		// λ2 distinct; complete its eigenvector with an orthogonal pair.
		v2, ok := eigenvector(n, l2)
		if !ok {
			return Diagonalization{}, false
		}
		v0 := v2.AnyPerpendicular()
		vecs = [3]Vector3{v0, v2.Cross(v0).Normalize(), v2}

	case degenHigh:
		v0, ok := eigenvector(n, l0)
		if !ok {
			return Diagonalization{}, false
		}
		v1 := v0.AnyPerpendicular()
		vecs = [3]Vector3{v0, v1, v0.Cross(v1).Normalize()}

	default:
		for i, l := range [3]float64{l0, l1, l2} {
			v, ok := eigenvector(n, l)
			if !ok {
				return Diagonalization{}, false
			}
			vecs[i] = v
		}
		// Distinct eigenvalues of a symmetric matrix have orthogonal
		// eigenvectors; rebuild the last axis to pin orthonormality against
		// round-off.
		vecs[2] = vecs[0].Cross(vecs[1]).Normalize()
	}

	out := Diagonalization{
		Eigenvalues:  [3]float64{l0 * scale, l1 * scale, l2 * scale},
		Eigenvectors: ColumnsFrom(vecs[0], vecs[1], vecs[2]),
	}
	if !residualsPass(m, out) {
		return Diagonalization{}, false
	}
	return out, true
}

// eigenvector recovers the unit eigenvector of n for eigenvalue l from the
// largest column of adj(n − l·I).  Returns false when every column is too
// small to normalize reliably.
func eigenvector(n Mat3, l float64) (Vector3, bool) {
	shifted := n.Sub(Identity3().Scale(l))
	adj := shifted.Adjugate()

	best := Vector3{}
	bestNorm := 0.0
	for j := 0; j < 3; j++ {
		col := adj.Column(j)
		if norm := col.Magnitude(); norm > bestNorm {
			best, bestNorm = col, norm
		}
	}
	if bestNorm < 1e-12 {
		return Vector3{}, false
	}
	return best.Mul(1 / bestNorm), true
}

// residualsPass verifies ‖M·v − λ·v‖ ≤ tol·scale for every axis.
func residualsPass(m Mat3, d Diagonalization) bool {
	scale := math.Max(m.MaxAbs(), 1)
	for i := 0; i < 3; i++ {
		v := d.Eigenvectors.Column(i)
		r := m.MulVec(v).Sub(v.Mul(d.Eigenvalues[i]))
		if r.Magnitude() > eigenResidualTol*scale {
			return false
		}
	}
	return true
}

// randomUnitQuaternion draws a uniformly distributed unit rotation
// (Shoemake's subgroup algorithm).
func randomUnitQuaternion(rng *rand.Rand) Quaternion {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	s1 := math.Sqrt(1 - u1)
	s2 := math.Sqrt(u1)
	return Quaternion{
		W: s1 * math.Sin(2*math.Pi*u2),
		X: s1 * math.Cos(2*math.Pi*u2),
		Y: s2 * math.Sin(2*math.Pi*u3),
		Z: s2 * math.Cos(2*math.Pi*u3),
	}
}
