package pipeline

import (
	"github.com/gogpu/raster/raster"
	"github.com/gogpu/raster/scene"
	"github.com/gogpu/raster/shade"
	"github.com/gogpu/raster/shadow"
)

// depthOnlyProcessor writes depth only, with no shading: spec §4.2's
// depth pre-pass. It writes directly into the frame's main depth
// buffer — safe without locking because RasterizeParallel hands each
// tile to exactly one goroutine and a tile's fragments never leave its
// own pixel bounds.
type depthOnlyProcessor struct {
	depth *raster.DepthBuffer
}

func (p *depthOnlyProcessor) Process(frag raster.Fragment) {
	p.depth.TestAndSet(frag.X, frag.Y, frag.Depth)
}

// colorProcessor shades a fragment with Blinn-Phong lighting and either
// writes it opaquely (depth test + overwrite) or blends it (no depth
// write), per spec §4.2's opaque/transparent color pass contract. Like
// depthOnlyProcessor it writes the shared main buffers directly, relying
// on the rasterizer's disjoint tile ownership rather than a tile-local
// clone-and-merge step.
type colorProcessor struct {
	color     *ColorBuffer
	depth     *raster.DepthBuffer
	texture   *scene.Texture
	lights    []shade.LightSource
	material  shade.Material
	blendOnly bool // true in the transparent pass: never write depth

	// prepassDone is set when a depth pre-pass already resolved this
	// pixel's nearest depth into depth. The opaque path then shades only
	// the fragment matching that resolved depth exactly (both passes
	// interpolate the same triangle the same way, so the winning
	// fragment's recomputed depth matches bit for bit) instead of
	// re-running the depth test itself.
	prepassDone bool
}

func (p *colorProcessor) Process(frag raster.Fragment) {
	x, y := frag.X, frag.Y

	if p.blendOnly {
		rgba := shade.Fragment(frag, p.texture, p.lights, p.material)
		dst := p.color.Get(x, y)
		p.color.Set(x, y, raster.BlendPixel(rgba, dst))
		return
	}

	if p.prepassDone {
		if frag.Depth > p.depth.Get(x, y) {
			return
		}
	} else if !p.depth.TestAndSet(x, y, frag.Depth) {
		return
	}

	rgba := shade.Fragment(frag, p.texture, p.lights, p.material)
	if raster.IsOpaque(rgba[3]) {
		p.color.Set(x, y, rgba)
		return
	}
	dst := p.color.Get(x, y)
	p.color.Set(x, y, raster.BlendPixel(rgba, dst))
}

// shadowProcessor computes only a fragment's alpha (via texture or
// vertex color) and inserts a visibility point into the tile-local deep
// shadow map, per spec §4.2's shadow pass contract.
type shadowProcessor struct {
	dsm        *shadow.DeepShadowMap
	texture    *scene.Texture
	offX, offY int
}

func (p *shadowProcessor) Process(frag raster.Fragment) {
	alpha := fragmentAlpha(frag, p.texture)
	p.dsm.Add(frag.X-p.offX, frag.Y-p.offY, frag.Depth, alpha)
}

func fragmentAlpha(frag raster.Fragment, tex *scene.Texture) float32 {
	if tex == nil {
		return frag.Color()[3]
	}
	uv := frag.UV()
	return shade.SampleAlpha(tex, uv.X, uv.Y)
}
