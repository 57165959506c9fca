// Package simd provides small fixed-width lane types for the rasterizer's
// per-pixel inner loop. There is no hardware-intrinsic SIMD here: lane
// methods operate on plain Go arrays so the compiler can auto-vectorize
// the loop bodies, the same approach gogpu/gg's internal "wide" package
// uses for its sparse-strips rasterizer. That package is internal to a
// repository not vendored alongside this module, so the lane types below
// are a from-scratch equivalent sized to this rasterizer's needs.
package simd

// LaneWidth is the number of pixels processed per SIMD step in the
// rasterizer's scanline walk.
const LaneWidth = 8

// F32x8 holds eight float32 lanes, used for the three edge-function
// values and their derivatives across a run of pixels.
type F32x8 [LaneWidth]float32

// SplatF32 returns a lane vector with every element set to v.
func SplatF32(v float32) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = v
	}
	return r
}

// Offsets8 is the canonical [0,1,...,7] lane-offset vector.
func Offsets8() F32x8 {
	var r F32x8
	for i := range r {
		r[i] = float32(i)
	}
	return r
}

func (a F32x8) Add(b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}

func (a F32x8) Mul(b F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] * b[i]
	}
	return r
}

// MulAddF32x8 computes a + b*c, the lane form of the incremental edge-function
// step broadcast(w_row) + offsets*dw/dx.
func MulAddF32x8(a, b, c F32x8) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = a[i] + b[i]*c[i]
	}
	return r
}

// GEZero returns, per lane, 1 where the value is >= 0 and 0 otherwise.
// Used to build the coverage mask from an edge function's lane vector.
func (a F32x8) GEZero() U8x8 {
	var r U8x8
	for i := range r {
		if a[i] >= 0 {
			r[i] = 1
		}
	}
	return r
}

// U8x8 is an eight-lane byte mask, used to accumulate the AND of the three
// per-edge coverage tests into a single pixel-run coverage mask.
type U8x8 [LaneWidth]uint8

// And returns the bitwise AND of two masks.
func (a U8x8) And(b U8x8) U8x8 {
	var r U8x8
	for i := range r {
		r[i] = a[i] & b[i]
	}
	return r
}

// AnySet reports whether any lane in the mask is nonzero.
func (a U8x8) AnySet() bool {
	for _, v := range a {
		if v != 0 {
			return true
		}
	}
	return false
}

// U16x16 holds sixteen uint16 lanes, used for byte-precision alpha
// blending of four RGBA8 pixels at once (raster.BlendQuadSIMD),
// mirroring gogpu/gg's wide.U16x16 pattern.
type U16x16 [16]uint16

func SplatU16(v uint16) U16x16 {
	var r U16x16
	for i := range r {
		r[i] = v
	}
	return r
}

// MulDiv255 computes round(a*b/255) per lane, the standard fixed-point
// alpha-blend multiply.
func (a U16x16) MulDiv255(b U16x16) U16x16 {
	var r U16x16
	for i := range r {
		p := uint32(a[i])*uint32(b[i]) + 127
		r[i] = uint16((p + (p >> 8)) >> 8)
	}
	return r
}

// Inv returns 255-a per lane.
func (a U16x16) Inv() U16x16 {
	var r U16x16
	for i := range r {
		r[i] = 255 - a[i]
	}
	return r
}

func (a U16x16) Add(b U16x16) U16x16 {
	var r U16x16
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}
