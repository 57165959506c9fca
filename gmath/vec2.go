// Package gmath provides the vector, matrix and quaternion primitives used
// throughout the rasterizer: transforms in the geometry pipeline, and
// linear interpolation during clipping and shading.
//
// Matrices compose with standard column-vector convention: clip = P.Mul(V).Mul(M).MulVec4(v)
// applies M first, then V, then P, to a column vector v. This is the single
// convention used everywhere in this module; nothing here mixes row-vector
// and column-vector math.
package gmath

// Vec2 is a 2-component vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

func NewVec2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}
