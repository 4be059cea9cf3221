package geometry

// Mat3 is a row-major 3×3 matrix.
type Mat3 [3][3]float64

// Identity3 returns the 3×3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Add returns m + other.
func (m Mat3) Add(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] + other[i][j]
		}
	}
	return out
}

// Sub returns m − other.
func (m Mat3) Sub(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] - other[i][j]
		}
	}
	return out
}

// Scale returns m with every element multiplied by s.
func (m Mat3) Scale(s float64) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] * s
		}
	}
	return out
}

// Mul returns the matrix product m · other.
func (m Mat3) Mul(other Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return out
}

// MulVec returns m · v.
func (m Mat3) MulVec(v Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Transpose returns mᵀ.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// Trace returns the sum of the diagonal.
func (m Mat3) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Adjugate returns adj(m), the transpose of the cofactor matrix.  For a
// singular matrix the nonzero columns of the adjugate span the nullspace,
// which is how eigenvectors are recovered from m − λI.
func (m Mat3) Adjugate() Mat3 {
	var out Mat3
	out[0][0] = m[1][1]*m[2][2] - m[1][2]*m[2][1]
	out[0][1] = m[0][2]*m[2][1] - m[0][1]*m[2][2]
	out[0][2] = m[0][1]*m[1][2] - m[0][2]*m[1][1]
	out[1][0] = m[1][2]*m[2][0] - m[1][0]*m[2][2]
	out[1][1] = m[0][0]*m[2][2] - m[0][2]*m[2][0]
	out[1][2] = m[0][2]*m[1][0] - m[0][0]*m[1][2]
	out[2][0] = m[1][0]*m[2][1] - m[1][1]*m[2][0]
	out[2][1] = m[0][1]*m[2][0] - m[0][0]*m[2][1]
	out[2][2] = m[0][0]*m[1][1] - m[0][1]*m[1][0]
	return out
}

// Column returns column j as a vector.
func (m Mat3) Column(j int) Vector3 {
	return Vector3{X: m[0][j], Y: m[1][j], Z: m[2][j]}
}

// ColumnsFrom builds a matrix whose columns are the given vectors.
func ColumnsFrom(c0, c1, c2 Vector3) Mat3 {
	return Mat3{
		{c0.X, c1.X, c2.X},
		{c0.Y, c1.Y, c2.Y},
		{c0.Z, c1.Z, c2.Z},
	}
}

// MaxAbs returns the largest absolute element, used for scale normalization
// before root finding.
func (m Mat3) MaxAbs() float64 {
	var max float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := m[i][j]
			if v < 0 {
				v = -v
			}
			if v > max {
				max = v
			}
		}
	}
	return max
}
