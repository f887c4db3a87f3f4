package pose

import "math"

// Matrix34 is a 3×4 row-major rigid transform as reported by the tracking
// hardware. Columns 0-2 hold the rotation basis, column 3 the translation.
type Matrix34 [3][4]float64

// IdentityMatrix returns the transform for a device at the origin with no rotation.
func IdentityMatrix() Matrix34 {
	return Matrix34{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
}

// RotationY returns a transform rotating by angle radians about the Y (up)
// axis, translated to t.
func RotationY(angle float64, t Point3) Matrix34 {
	s, c := math.Sincos(angle)
	return Matrix34{
		{c, 0, s, t.X},
		{0, 1, 0, t.Y},
		{-s, 0, c, t.Z},
	}
}

// Position returns the translation column.
func (m Matrix34) Position() Point3 {
	return Point3{X: m[0][3], Y: m[1][3], Z: m[2][3]}
}

// Rotation extracts the orientation quaternion from the rotation basis.
//
// Each component magnitude comes from the diagonal; the radicands are clamped
// at zero so round-off on near-degenerate matrices cannot produce NaN. The
// imaginary signs come from the anti-symmetric off-diagonal differences.
func (m Matrix34) Rotation() Quaternion {
	w := math.Sqrt(math.Max(0, 1+m[0][0]+m[1][1]+m[2][2])) / 2
	x := math.Sqrt(math.Max(0, 1+m[0][0]-m[1][1]-m[2][2])) / 2
	y := math.Sqrt(math.Max(0, 1-m[0][0]+m[1][1]-m[2][2])) / 2
	z := math.Sqrt(math.Max(0, 1-m[0][0]-m[1][1]+m[2][2])) / 2

	q := Quaternion{
		W: w,
		X: math.Copysign(x, m[2][1]-m[1][2]),
		Y: math.Copysign(y, m[0][2]-m[2][0]),
		Z: math.Copysign(z, m[1][0]-m[0][1]),
	}
	return q.Normalize()
}
