package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestMatrix34_PositionLayout(t *testing.T) {
	m := Matrix34{
		{0, 1, 2, 3},
		{4, 5, 6, 7},
		{8, 9, 10, 11},
	}

	assert.Equal(t, Point3{X: 3, Y: 7, Z: 11}, m.Position())
	assert.Equal(t, m.Position(), ToPosition(m))
}

func TestMatrix34_RotationKnownMatrices(t *testing.T) {
	half := math.Sqrt2 / 2

	tests := []struct {
		name string
		m    Matrix34
		want Quaternion
	}{
		{
			name: "identity",
			m:    IdentityMatrix(),
			want: Identity(),
		},
		{
			name: "90 degrees about Z",
			m: Matrix34{
				{0, -1, 0, 0},
				{1, 0, 0, 0},
				{0, 0, 1, 0},
			},
			want: Quaternion{W: half, Z: half},
		},
		{
			name: "-90 degrees about Z",
			m: Matrix34{
				{0, 1, 0, 0},
				{-1, 0, 0, 0},
				{0, 0, 1, 0},
			},
			want: Quaternion{W: half, Z: -half},
		},
		{
			name: "90 degrees about X",
			m: Matrix34{
				{1, 0, 0, 0},
				{0, 0, -1, 0},
				{0, 1, 0, 0},
			},
			want: Quaternion{W: half, X: half},
		},
		{
			name: "180 degrees about X",
			m: Matrix34{
				{1, 0, 0, 0},
				{0, -1, 0, 0},
				{0, 0, -1, 0},
			},
			want: Quaternion{X: 1},
		},
		{
			name: "90 degrees about Y with translation",
			m:    RotationY(math.Pi/2, Point3{X: 1, Y: 2, Z: 3}),
			want: Quaternion{W: half, Y: half},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Rotation()
			assert.InDelta(t, tt.want.W, got.W, tolerance, "w")
			assert.InDelta(t, tt.want.X, got.X, tolerance, "x")
			assert.InDelta(t, tt.want.Y, got.Y, tolerance, "y")
			assert.InDelta(t, tt.want.Z, got.Z, tolerance, "z")
		})
	}
}

func TestMatrix34_RotationUnitNorm(t *testing.T) {
	for i := 0; i < 360; i += 7 {
		angle := float64(i) * math.Pi / 180
		m := RotationY(angle, Point3{X: float64(i)})
		q := ToRotation(m)
		require.InDelta(t, 1.0, q.Norm(), tolerance, "angle %d", i)
	}
}

// axisAngle builds the rotation of angle radians about the unit axis (x, y, z).
func axisAngle(x, y, z, angle float64) Matrix34 {
	s, c := math.Sincos(angle)
	k := 1 - c
	return Matrix34{
		{c + x*x*k, x*y*k - z*s, x*z*k + y*s, 0},
		{y*x*k + z*s, c + y*y*k, y*z*k - x*s, 0},
		{z*x*k - y*s, z*y*k + x*s, c + z*z*k, 0},
	}
}

// compose returns the rotation part of a·b.
func compose(a, b Matrix34) Matrix34 {
	var m Matrix34
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				m[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return m
}

// basis rebuilds the rotation basis a quaternion describes.
func basis(q Quaternion) [3][3]float64 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

func TestMatrix34_RotationGeneralAxes(t *testing.T) {
	inv3 := 1 / math.Sqrt(3)
	tests := []struct {
		name string
		m    Matrix34
	}{
		{"x axis 90", axisAngle(1, 0, 0, math.Pi/2)},
		{"z axis -60", axisAngle(0, 0, 1, -math.Pi/3)},
		{"diagonal axis 120", axisAngle(inv3, inv3, inv3, 2*math.Pi/3)},
		{"skewed axis 45", axisAngle(0.6, 0, 0.8, math.Pi/4)},
		{"xyz composed", compose(compose(axisAngle(1, 0, 0, 0.3), axisAngle(0, 1, 0, -1.1)), axisAngle(0, 0, 1, 2.2))},
		{"xyz composed large", compose(compose(axisAngle(1, 0, 0, 2.9), axisAngle(0, 1, 0, 0.4)), axisAngle(0, 0, 1, -2.5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.m.Rotation()
			require.InDelta(t, 1.0, q.Norm(), tolerance)

			got := basis(q)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					assert.InDelta(t, tt.m[i][j], got[i][j], 1e-6, "element [%d][%d]", i, j)
				}
			}
		})
	}
}

func TestMatrix34_RotationNearHalfTurn(t *testing.T) {
	// Near a half turn w vanishes and a different diagonal term dominates
	// depending on the axis.
	tests := []struct {
		name    string
		x, y, z float64
	}{
		{"x dominant", 1, 0, 0},
		{"y dominant", 0, 1, 0},
		{"z dominant", 0, 0, 1},
		{"tilted", 0.48, 0.6, 0.64},
	}

	for _, tt := range tests {
		for _, angle := range []float64{math.Pi - 1e-3, math.Pi - 1e-9, math.Pi} {
			q := axisAngle(tt.x, tt.y, tt.z, angle).Rotation()

			require.True(t, q.IsFinite(), "%s at %v", tt.name, angle)
			require.InDelta(t, 1.0, q.Norm(), tolerance, "%s at %v", tt.name, angle)
			assert.InDelta(t, math.Cos(angle/2), q.W, 1e-6, "%s at %v", tt.name, angle)

			half := math.Sin(angle / 2)
			assert.InDelta(t, math.Abs(tt.x)*half, math.Abs(q.X), 1e-6, "%s at %v", tt.name, angle)
			assert.InDelta(t, math.Abs(tt.y)*half, math.Abs(q.Y), 1e-6, "%s at %v", tt.name, angle)
			assert.InDelta(t, math.Abs(tt.z)*half, math.Abs(q.Z), 1e-6, "%s at %v", tt.name, angle)
		}
	}
}

func TestMatrix34_RotationDegenerateInputIsFinite(t *testing.T) {
	// An all-zero matrix is not a rotation but must not produce NaN.
	var zero Matrix34
	q := zero.Rotation()

	assert.True(t, q.IsFinite())
	assert.InDelta(t, 1.0, q.Norm(), tolerance)
}

func TestMatrix34_RotationNearDegenerateRoundOff(t *testing.T) {
	// Diagonal slightly beyond -1 would make the w radicand negative without clamping.
	m := Matrix34{
		{1, 0, 0, 0},
		{0, -1.0000000001, 0, 0},
		{0, 0, -1.0000000001, 0},
	}
	q := m.Rotation()

	require.True(t, q.IsFinite())
	assert.InDelta(t, 0, q.W, tolerance)
	assert.InDelta(t, 1, math.Abs(q.X), 1e-6)
}

func TestMatrix34_Deterministic(t *testing.T) {
	m := RotationY(1.234, Point3{X: -0.5, Y: 1.7, Z: 2.25})

	assert.Equal(t, m.Position(), m.Position())
	assert.Equal(t, m.Rotation(), m.Rotation())
}

func TestQuaternion_Normalize(t *testing.T) {
	q := Quaternion{W: 2}.Normalize()
	assert.Equal(t, Identity(), q)

	zero := Quaternion{}.Normalize()
	assert.Equal(t, Quaternion{}, zero)
}

func TestFiniteChecks(t *testing.T) {
	assert.True(t, Point3{X: 1, Y: 2, Z: 3}.IsFinite())
	assert.False(t, Point3{X: math.NaN()}.IsFinite())
	assert.False(t, Point3{Z: math.Inf(1)}.IsFinite())
	assert.True(t, Identity().IsFinite())
	assert.False(t, Quaternion{W: math.Inf(-1)}.IsFinite())
}

// Transform is satisfied by the matrix type.
var _ Transform = Matrix34{}
