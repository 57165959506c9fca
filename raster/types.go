// Package raster implements the clip-space geometry and tiled,
// SIMD-style triangle rasterizer: homogeneous clipping, screen-space
// binning, incremental edge-function scanning, perspective-correct
// interpolation, depth testing, culling and alpha blending.
//
// It is grounded on gogpu/wgpu's software backend rasterizer
// (hal/software/raster), generalized from a fixed vertex-shader-output
// contract into the named vertex attribute layout this rasterizer's
// fragment shading stage needs (world position, normal, UV, color, and a
// per-light clip position), and extended with a SIMD-lane scanline walk
// and a monomorphized per-pass fragment processor.
package raster

import "github.com/gogpu/raster/gmath"

// AttrWorld, AttrNormal, AttrUV, AttrColor and AttrLightClipBase are the
// fixed offsets of a Vertex's interpolated Attributes slice. Attributes
// beyond AttrLightClipBase are four floats per configured light: the
// light's clip-space position, interpolated like every other attribute.
const (
	AttrWorld         = 0 // 3 floats: world-space x,y,z
	AttrNormal        = 3 // 3 floats: normal x,y,z
	AttrUV            = 6 // 2 floats: texture u,v
	AttrColor         = 8 // 4 floats: color r,g,b,a in [0,1]
	AttrLightClipBase = 12
)

// AttrCount returns the number of float32 attributes a vertex carries
// for a pipeline configured with numLights lights.
func AttrCount(numLights int) int {
	return AttrLightClipBase + 4*numLights
}

// Vertex is a pre-clip-initialized vertex: a clip-space position plus a
// flat attribute slice (see the Attr* offsets) that is interpolated
// linearly during clipping and perspective-corrected after the viewport
// transform.
type Vertex struct {
	Position   [4]float32 // clip space (x, y, z, w)
	Attributes []float32
}

// WorldPos returns the vertex's world-space position attribute.
func (v Vertex) WorldPos() gmath.Vec3 {
	return gmath.Vec3{X: v.Attributes[AttrWorld], Y: v.Attributes[AttrWorld+1], Z: v.Attributes[AttrWorld+2]}
}

// Normal returns the vertex's normal attribute.
func (v Vertex) Normal() gmath.Vec3 {
	return gmath.Vec3{X: v.Attributes[AttrNormal], Y: v.Attributes[AttrNormal+1], Z: v.Attributes[AttrNormal+2]}
}

// UV returns the vertex's texture-coordinate attribute.
func (v Vertex) UV() gmath.Vec2 {
	return gmath.Vec2{X: v.Attributes[AttrUV], Y: v.Attributes[AttrUV+1]}
}

// Color returns the vertex's color attribute as linear [0,1] components.
func (v Vertex) Color() [4]float32 {
	return [4]float32{v.Attributes[AttrColor], v.Attributes[AttrColor+1], v.Attributes[AttrColor+2], v.Attributes[AttrColor+3]}
}

// SetLightClip writes light i's clip-space position into the vertex's
// attribute tail.
func (v Vertex) SetLightClip(i int, p gmath.Vec4) {
	o := AttrLightClipBase + 4*i
	v.Attributes[o], v.Attributes[o+1], v.Attributes[o+2], v.Attributes[o+3] = p.X, p.Y, p.Z, p.W
}

// LightClip reads light i's clip-space position from the vertex's
// attribute tail.
func (v Vertex) LightClip(i int) gmath.Vec4 {
	o := AttrLightClipBase + 4*i
	return gmath.Vec4{X: v.Attributes[o], Y: v.Attributes[o+1], Z: v.Attributes[o+2], W: v.Attributes[o+3]}
}

// ScreenVertex is a vertex after perspective divide and viewport
// transform. Attributes are pre-divided by the original clip w, and W
// stores 1/w (invW) for perspective-correct interpolation.
type ScreenVertex struct {
	X, Y, Z float32
	W       float32 // invW
	Attributes []float32
}

// ToScreenVertex performs the perspective-correct attribute preparation
// step: invW = 1/clip.w, and every attribute is divided by clip.w ahead
// of the viewport transform, matching the Vertex data model's
// worldPosOverW/normalOverW/uvOverW/lightClipOverW fields.
func ToScreenVertex(v Vertex, screenX, screenY, screenZ float32) ScreenVertex {
	invW := 1 / v.Position[3]
	attrs := make([]float32, len(v.Attributes))
	for i, a := range v.Attributes {
		attrs[i] = a * invW
	}
	return ScreenVertex{X: screenX, Y: screenY, Z: screenZ, W: invW, Attributes: attrs}
}

// Fragment is a candidate pixel produced by the rasterizer's scanline
// walk, already perspective-corrected. InvW is the recovered 1/w' used
// to produce Attributes (Σ v_i.invW·b_i); callers should treat values
// with |InvW| < 1e-6 as degenerate (see shade.DegenerateInvWThreshold).
type Fragment struct {
	X, Y       int
	Depth      float32
	Bary       [3]float32
	InvW       float32
	Attributes []float32
}

func (f Fragment) WorldPos() gmath.Vec3 {
	return gmath.Vec3{X: f.Attributes[AttrWorld], Y: f.Attributes[AttrWorld+1], Z: f.Attributes[AttrWorld+2]}
}

func (f Fragment) Normal() gmath.Vec3 {
	return gmath.Vec3{X: f.Attributes[AttrNormal], Y: f.Attributes[AttrNormal+1], Z: f.Attributes[AttrNormal+2]}
}

func (f Fragment) UV() gmath.Vec2 {
	return gmath.Vec2{X: f.Attributes[AttrUV], Y: f.Attributes[AttrUV+1]}
}

func (f Fragment) Color() [4]float32 {
	return [4]float32{f.Attributes[AttrColor], f.Attributes[AttrColor+1], f.Attributes[AttrColor+2], f.Attributes[AttrColor+3]}
}

func (f Fragment) LightClip(i int) gmath.Vec4 {
	o := AttrLightClipBase + 4*i
	return gmath.Vec4{X: f.Attributes[o], Y: f.Attributes[o+1], Z: f.Attributes[o+2], W: f.Attributes[o+3]}
}

// Triangle is three screen-space vertices.
type Triangle struct {
	V0, V1, V2 ScreenVertex
}

func min2(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min3(a, b, c float32) float32 { return min2(min2(a, b), c) }
func max3(a, b, c float32) float32 { return max2(max2(a, b), c) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
