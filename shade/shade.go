package shade

import (
	"math"

	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/raster"
	"github.com/gogpu/raster/scene"
)

// Fragment computes the final 8-bit RGBA color for one rasterized
// fragment: albedo lookup, per-light Blinn-Phong accumulation with
// shadow sampling, spot-cone falloff and quadratic attenuation, then
// linear-to-8-bit conversion. tex may be nil (vertex-color path).
//
// If the fragment's recovered invW is below DegenerateInvWThreshold,
// shading returns the unlit albedo directly: the interpolated normal
// and world position cannot be trusted from a near-zero denominator
// (spec §7, "degenerate geometry").
func Fragment(frag raster.Fragment, tex *scene.Texture, lights []LightSource, mat Material) [4]uint8 {
	albedo, alpha := albedoOf(frag, tex)

	if absf(frag.InvW) < DegenerateInvWThreshold {
		return toBytes(albedo, alpha)
	}

	worldPos := frag.WorldPos()
	normal := frag.Normal().Normalize()
	viewDir := mat.CameraPosition.Sub(worldPos).Normalize()

	linear := mat.Ambient.MulVec(albedo)

	for i, ls := range lights {
		lightClip := frag.LightClip(i)
		vis, ok := sampleShadow(ls, lightClip)
		if !ok || vis < 1e-4 {
			continue
		}

		lightVec := ls.Light.Position().Sub(worldPos)
		distSqr := lightVec.LengthSqr()
		if distSqr < 1e-12 {
			continue
		}
		lightDir := lightVec.Mul(1 / float32(math.Sqrt(float64(distSqr))))

		attenuation := 1 / (1 + ls.Light.Quadratic*distSqr)

		cosAngle := ls.Light.Forward().Dot(lightDir.Negate())
		spot, lit := spotFactor(cosAngle, ls.Light.InnerCos, ls.Light.OuterCos)
		if !lit {
			continue
		}

		ndotl := maxf(0, normal.Dot(lightDir))
		diffuse := albedo.MulVec(ls.Light.Color).Mul(ndotl)

		half := lightDir.Add(viewDir).Normalize()
		ndoth := maxf(0, normal.Dot(half))
		spec := ls.Light.Color.Mul(mat.SpecularStrength * powf(ndoth, mat.Shininess))

		scale := ls.Light.Intensity * attenuation * vis * spot
		linear = linear.Add(diffuse.Add(spec).Mul(scale))
	}

	return toBytes(linear, alpha)
}

// spotFactor computes the spot-cone falloff for a fragment at cosAngle
// from the light's forward axis: 1 inside the inner cone, 0 outside the
// outer cone, a linear ramp between. lit is false outside the outer
// cone, signaling the caller to skip this light entirely.
func spotFactor(cosAngle, innerCos, outerCos float32) (spot float32, lit bool) {
	if cosAngle <= outerCos {
		return 0, false
	}
	if cosAngle >= innerCos {
		return 1, true
	}
	return clamp01((cosAngle - outerCos) / (innerCos - outerCos)), true
}

func albedoOf(frag raster.Fragment, tex *scene.Texture) (gmath.Vec3, float32) {
	color := frag.Color()
	if tex == nil {
		return gmath.Vec3{X: color[0], Y: color[1], Z: color[2]}, color[3]
	}
	uv := frag.UV()
	rgba := sampleBilinear(tex, uv.X, uv.Y)
	return gmath.Vec3{X: rgba[0], Y: rgba[1], Z: rgba[2]}, rgba[3]
}

func toBytes(linear gmath.Vec3, alpha float32) [4]uint8 {
	return [4]uint8{
		toByte(linear.X),
		toByte(linear.Y),
		toByte(linear.Z),
		toByte(alpha),
	}
}

func toByte(v float32) uint8 {
	v = clamp01(v) * 255
	return uint8(v + 0.5)
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func powf(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}
