// Package shade implements per-fragment Blinn-Phong lighting and shadow
// sampling: spec §4.4's fragment shading stage, consuming the
// perspective-corrected raster.Fragment the tiled rasterizer already
// produced. It returns straight RGBA8 colors; alpha compositing of those
// colors into the framebuffer is raster.BlendPixel's job.
//
// Attenuation, spot-cone falloff and the lighting accumulation loop are
// authored fresh from the specification.
package shade

import "github.com/gogpu/raster/gmath"

// DegenerateInvWThreshold is the |invW'| below which a fragment's
// recovered attributes are considered unreliable (a clip produced a
// near-zero interpolated w). Below it, shading falls back to the
// unlit albedo rather than dividing by a near-zero denominator.
const DegenerateInvWThreshold = 1e-6

// Material carries the per-frame scalar shading parameters shared by
// every fragment: ambient color, camera position (for the view vector),
// specular strength and shininess exponent.
type Material struct {
	Ambient          gmath.Vec3
	CameraPosition   gmath.Vec3
	SpecularStrength float32
	Shininess        float32
}
