package pose

import "math"

// Point3 is a position in the tracking origin's frame, in metres.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (p Point3) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// Quaternion is an orientation w + xi + yj + zk.
//
// Values produced by this package are unit quaternions.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity returns the identity rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Norm returns the Euclidean length of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit length.
// A zero or non-finite quaternion is returned unchanged.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 || !isFinite(n) {
		return q
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// IsFinite reports whether every component is neither NaN nor infinite.
func (q Quaternion) IsFinite() bool {
	return isFinite(q.W) && isFinite(q.X) && isFinite(q.Y) && isFinite(q.Z)
}

// Transform is anything that can report a device pose.
// Matrix34 is the only implementation today.
type Transform interface {
	Position() Point3
	Rotation() Quaternion
}

// ToPosition returns the position encoded by t.
func ToPosition(t Transform) Point3 {
	return t.Position()
}

// ToRotation returns the orientation encoded by t.
func ToRotation(t Transform) Quaternion {
	return t.Rotation()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
