package geometry

import "math"

// Quaternion represents a unit quaternion for 3D rotations.
type Quaternion struct {
	W, X, Y, Z float64
}

// QuaternionIdentity is the rotation that leaves every vector unchanged.
var QuaternionIdentity = Quaternion{W: 1}

// Normalize returns a unit quaternion.  The degenerate zero quaternion maps
// to the identity so that downstream rotations stay well-defined.
func (q Quaternion) Normalize() Quaternion {
	norm := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if norm == 0 {
		return QuaternionIdentity
	}
	return Quaternion{W: q.W / norm, X: q.X / norm, Y: q.Y / norm, Z: q.Z / norm}
}

// FromAxisAngle builds the quaternion rotating by angle radians about the
// given axis.  The axis need not be normalized.
func FromAxisAngle(axis Vector3, angle float64) Quaternion {
	u := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quaternion{
		W: math.Cos(angle / 2),
		X: u.X * s,
		Y: u.Y * s,
		Z: u.Z * s,
	}
}

// Rotate applies the rotation to v using the expanded q·v·q⁻¹ form.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	// t = 2 q_vec × v; v' = v + w t + q_vec × t
	qv := Vector3{X: q.X, Y: q.Y, Z: q.Z}
	t := qv.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qv.Cross(t))
}

// RotationMatrix expands the quaternion into its 3×3 rotation matrix.
func (q Quaternion) RotationMatrix() Mat3 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}
