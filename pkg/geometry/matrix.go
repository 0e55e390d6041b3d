package geometry

import "math"

// Matrix3 is a column-major 3x3 matrix, as camera intrinsics are stored:
// fx at [0], fy at [4], cx at [6], cy at [7].
type Matrix3 [9]float64

// Matrix4 is a column-major 4x4 transform. Columns 0-2 are the local axes,
// column 3 is the translation.
type Matrix4 [16]float64

// Identity3 returns the 3x3 identity matrix
func Identity3() Matrix3 {
	return Matrix3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Intrinsics builds a pinhole intrinsics matrix
func Intrinsics(fx, fy, cx, cy float64) Matrix3 {
	return Matrix3{fx, 0, 0, 0, fy, 0, cx, cy, 1}
}

// At returns the element at row r, column c
func (m Matrix3) At(r, c int) float64 {
	return m[c*3+r]
}

// MulVector multiplies the matrix by a column vector
func (m Matrix3) MulVector(v Vector3) Vector3 {
	return Vector3{
		X: m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		Y: m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		Z: m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Identity4 returns the 4x4 identity matrix
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation4 returns a pure translation transform
func Translation4(x, y, z float64) Matrix4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// RotationY4 returns a rotation of angle radians around the Y axis
func RotationY4(angle float64) Matrix4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationX4 returns a rotation of angle radians around the X axis
func RotationX4(angle float64) Matrix4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Matrix4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// FromBasis builds a transform whose local axes are x, y, z placed at origin
func FromBasis(x, y, z, origin Vector3) Matrix4 {
	return Matrix4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}

// At returns the element at row r, column c
func (m Matrix4) At(r, c int) float64 {
	return m[c*4+r]
}

// Column returns the xyz part of column c
func (m Matrix4) Column(c int) Vector3 {
	return Vector3{X: m[c*4], Y: m[c*4+1], Z: m[c*4+2]}
}

// Position returns the translation column
func (m Matrix4) Position() Vector3 {
	return m.Column(3)
}

// Mul returns m * other
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m.At(r, k) * other.At(k, c)
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// MulPoint transforms a point (w=1)
func (m Matrix4) MulPoint(p Vector3) Vector3 {
	return Vector3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// MulDirection transforms a direction (w=0)
func (m Matrix4) MulDirection(d Vector3) Vector3 {
	return Vector3{
		X: m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		Y: m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		Z: m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// RigidInverse inverts a rotation+translation transform: [Rᵀ | -Rᵀt].
// Camera and plane transforms are rigid, so no general inverse is needed.
func (m Matrix4) RigidInverse() Matrix4 {
	var out Matrix4
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[c*4+r] = m.At(c, r)
		}
	}
	t := m.Position()
	out[12] = -(out[0]*t.X + out[4]*t.Y + out[8]*t.Z)
	out[13] = -(out[1]*t.X + out[5]*t.Y + out[9]*t.Z)
	out[14] = -(out[2]*t.X + out[6]*t.Y + out[10]*t.Z)
	out[15] = 1
	return out
}
