package gmath

// Vec4 is a homogeneous 4-component vector: clip-space positions and
// world-space positions carried with w=1.
type Vec4 struct {
	X, Y, Z, W float32
}

func NewVec4(x, y, z, w float32) Vec4 { return Vec4{X: x, Y: y, Z: z, W: w} }

func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }
func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }
func (v Vec4) Mul(s float32) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

func (v Vec4) Dot(o Vec4) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }

func (v Vec4) Lerp(o Vec4, t float32) Vec4 {
	return v.Add(o.Sub(v).Mul(t))
}

// ToVec3 drops w without dividing.
func (v Vec4) ToVec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// PerspectiveDivide divides x, y, z by w and sets w to 1.
func (v Vec4) PerspectiveDivide() Vec4 {
	invW := 1 / v.W
	return Vec4{v.X * invW, v.Y * invW, v.Z * invW, 1}
}
