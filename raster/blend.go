package raster

import "github.com/gogpu/raster/simd"

// OpaqueAlphaThreshold is the alpha value (inclusive) above which a
// fragment is treated as fully opaque: it overwrites the destination
// outright and participates in the depth buffer write. Below it, the
// fragment is composited with src-over blending and never writes depth.
const OpaqueAlphaThreshold = 254

// IsOpaque reports whether alpha is at or above OpaqueAlphaThreshold.
func IsOpaque(alpha uint8) bool {
	return alpha >= OpaqueAlphaThreshold
}

// BlendPixel composites src over dst using Porter-Duff source-over, all
// channels premultiplied implicitly by the per-channel formula:
//
//	out.rgb = src.rgb*srcA + dst.rgb*(1-srcA)
//	out.a   = srcA + dst.a*(1-srcA)
//
// Callers should check IsOpaque(src[3]) first and skip blending
// entirely when true (src replaces dst, this module's only other
// compositing mode is used there, its depth buffer write is the
// caller's responsibility).
func BlendPixel(src, dst [4]uint8) [4]uint8 {
	if IsOpaque(src[3]) {
		return src
	}
	a := uint32(src[3])
	inv := 255 - a
	var out [4]uint8
	for c := 0; c < 3; c++ {
		out[c] = uint8((uint32(src[c])*a + uint32(dst[c])*inv + 127) / 255)
	}
	outA := a + (uint32(dst[3])*inv+127)/255
	if outA > 255 {
		outA = 255
	}
	out[3] = uint8(outA)
	return out
}

// BlendQuadSIMD composites four RGBA8 pixels (packed R,G,B,A per pixel,
// 16 bytes total) over their destinations at once, using simd.U16x16 to
// carry all four pixels' channels as lanes. Grounded on gogpu/gg's
// BlendTileSIMD, generalized from a single splatted source color to four
// independent source pixels each with their own alpha.
func BlendQuadSIMD(src, dst [16]uint8) [16]uint8 {
	var srcVec, dstVec, alphaVec simd.U16x16
	for i := 0; i < 16; i++ {
		srcVec[i] = uint16(src[i])
		dstVec[i] = uint16(dst[i])
	}
	for p := 0; p < 4; p++ {
		a := srcVec[p*4+3]
		for c := 0; c < 4; c++ {
			alphaVec[p*4+c] = a
		}
	}
	invVec := alphaVec.Inv()

	rgb := srcVec.MulDiv255(alphaVec).Add(dstVec.MulDiv255(invVec))

	var out [16]uint8
	for p := 0; p < 4; p++ {
		base := p * 4
		if IsOpaque(uint8(srcVec[base+3])) {
			out[base], out[base+1], out[base+2], out[base+3] =
				uint8(srcVec[base]), uint8(srcVec[base+1]), uint8(srcVec[base+2]), uint8(srcVec[base+3])
			continue
		}
		out[base] = uint8(rgb[base])
		out[base+1] = uint8(rgb[base+1])
		out[base+2] = uint8(rgb[base+2])

		dstA, invA := uint32(dstVec[base+3]), uint32(invVec[base+3])
		outA := uint32(srcVec[base+3]) + (dstA*invA+127)/255
		if outA > 255 {
			outA = 255
		}
		out[base+3] = uint8(outA)
	}
	return out
}
