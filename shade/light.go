package shade

import (
	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/scene"
	"github.com/gogpu/raster/shadow"
)

// LightSource pairs a configured spotlight with the deep shadow map the
// pipeline built for it this frame. The pipeline owns both (spec §3:
// "Lights are owned by the pipeline, not the scene").
type LightSource struct {
	Light *scene.PerspectiveLight
	Map   *shadow.DeepShadowMap
}

// sampleShadow projects lightClip (already perspective-corrected and
// carried per-fragment) into the light's shadow-map pixel space and
// samples the deep shadow map there. ok is false when the fragment
// falls outside the light's clip frustum or outside the shadow map's
// pixel bounds: the caller skips this light's contribution entirely in
// that case, same as for a visibility of (near) zero.
func sampleShadow(ls LightSource, lightClip gmath.Vec4) (visibility float32, ok bool) {
	x, y, z, w := lightClip.X, lightClip.Y, lightClip.Z, lightClip.W
	const wEpsilon = 1e-6
	if w < wEpsilon && w > -wEpsilon {
		return 0, false
	}
	if x < -w || x > w || y < -w || y > w || z < 0 || z > w {
		return 0, false
	}

	ndcX, ndcY, ndcZ := x/w, y/w, z/w

	sm := ls.Map
	sx := (ndcX + 1) * 0.5 * float32(sm.Width())
	sy := (1 - ndcY) * 0.5 * float32(sm.Height())

	px, py := int(sx), int(sy)
	if px < 0 || px >= sm.Width() || py < 0 || py >= sm.Height() {
		return 0, false
	}

	return sm.Sample(px, py, ndcZ), true
}
