package geom

import "math"

// Affine is a 3x3 linear part plus translation. Objects in the room only
// rotate about the vertical axis, so TRS takes a yaw angle rather than a
// quaternion.
type Affine struct {
	M [3][3]float64
	T Vec3
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}}
}

// TRS composes translate * rotateY(yaw) * scale.
// yaw = 0 faces +Z, yaw = pi/2 faces +X.
func TRS(pos Vec3, yaw float64, scale Vec3) Affine {
	s, c := math.Sincos(yaw)
	r := [3][3]float64{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
	sc := [3]float64{scale.X, scale.Y, scale.Z}
	var a Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a.M[i][j] = r[i][j] * sc[j]
		}
	}
	a.T = pos
	return a
}

// Mul returns a∘b: b is applied first.
func (a Affine) Mul(b Affine) Affine {
	var out Affine
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.M[i][j] = a.M[i][0]*b.M[0][j] + a.M[i][1]*b.M[1][j] + a.M[i][2]*b.M[2][j]
		}
	}
	out.T = a.Dir(b.T).Add(a.T)
	return out
}

// Point transforms a position.
func (a Affine) Point(p Vec3) Vec3 {
	return a.Dir(p).Add(a.T)
}

// Dir transforms a direction (no translation).
func (a Affine) Dir(v Vec3) Vec3 {
	return Vec3{
		a.M[0][0]*v.X + a.M[0][1]*v.Y + a.M[0][2]*v.Z,
		a.M[1][0]*v.X + a.M[1][1]*v.Y + a.M[1][2]*v.Z,
		a.M[2][0]*v.X + a.M[2][1]*v.Y + a.M[2][2]*v.Z,
	}
}

// Inverse returns the inverse transform. ok is false when the linear part
// is singular (a zero scale axis); the identity is returned in that case.
func (a Affine) Inverse() (Affine, bool) {
	m := a.M
	c00 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c01 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c02 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	det := m[0][0]*c00 + m[0][1]*c01 + m[0][2]*c02
	if math.Abs(det) < 1e-12 {
		return Identity(), false
	}
	inv := 1 / det
	var out Affine
	out.M[0][0] = c00 * inv
	out.M[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * inv
	out.M[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * inv
	out.M[1][0] = c01 * inv
	out.M[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * inv
	out.M[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * inv
	out.M[2][0] = c02 * inv
	out.M[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * inv
	out.M[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * inv
	out.T = out.Dir(a.T).Scale(-1)
	return out, true
}

// Decompose extracts translation, yaw and per-axis scale. Shear introduced
// by non-uniform parent scale under rotation is discarded.
func (a Affine) Decompose() (pos Vec3, yaw float64, scale Vec3) {
	col := func(j int) Vec3 { return Vec3{a.M[0][j], a.M[1][j], a.M[2][j]} }
	scale = Vec3{col(0).Len(), col(1).Len(), col(2).Len()}
	z := col(2)
	yaw = math.Atan2(z.X, z.Z)
	return a.T, yaw, scale
}

// TransformBounds returns the world AABB enclosing the transformed box.
func (a Affine) TransformBounds(b Bounds) Bounds {
	corners := b.Corners()
	lo := a.Point(corners[0])
	hi := lo
	for _, c := range corners[1:] {
		p := a.Point(c)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return FromMinMax(lo, hi)
}
