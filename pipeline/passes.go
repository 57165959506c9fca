package pipeline

import (
	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/raster"
	"github.com/gogpu/raster/scene"
	"github.com/gogpu/raster/shade"
	"github.com/gogpu/raster/shadow"
)

// lightBatch groups a light-space triangle set by texture identity, the
// same rationale as batch in geometry.go but scoped to one light's
// shadow pass: the shadow processor still needs one texture bound per
// rasterize call to resolve a fragment's alpha.
type lightBatch struct {
	texture   *scene.Texture
	triangles []raster.Triangle
}

func batchForLight(meshes []*scene.Mesh, lightWorldToClip gmath.Mat4, viewportW, viewportH int) []lightBatch {
	byTex := map[*scene.Texture]*lightBatch{}
	var order []*scene.Texture

	for _, m := range meshes {
		tris := prepareMeshForLight(m, lightWorldToClip, viewportW, viewportH)
		if len(tris) == 0 {
			continue
		}
		b, ok := byTex[m.Texture]
		if !ok {
			b = &lightBatch{texture: m.Texture}
			byTex[m.Texture] = b
			order = append(order, m.Texture)
		}
		b.triangles = append(b.triangles, tris...)
	}

	out := make([]lightBatch, 0, len(order))
	for _, tex := range order {
		out = append(out, *byTex[tex])
	}
	return out
}

// buildShadowMaps rebuilds every light's deep shadow map for the current
// frame: spec §4.3's tile-partitioned build. Each tile a light's
// rasterizer touches gets its own scratch DeepShadowMap, accumulates
// that tile's occluder samples, then merges into the light's main map;
// Initialize runs once per light after every tile has merged in.
func (p *Pipeline) buildShadowMaps(s *scene.Scene) {
	for i := range p.lights {
		lb := &p.lights[i]
		lb.Map.Clear()

		batches := batchForLight(s.Meshes, lb.WorldToClip, lb.Light.Width(), lb.Light.Height())
		for _, b := range batches {
			if len(b.triangles) == 0 {
				continue
			}
			texture := b.texture
			lb.rasterizer.RasterizeParallel(b.triangles, func(tile raster.Tile, tris []raster.Triangle) {
				tileMap := shadow.NewDeepShadowMap(tile.Width(), tile.Height(), float32(p.cfg.CompressionEps))
				proc := &shadowProcessor{dsm: tileMap, texture: texture, offX: tile.MinX, offY: tile.MinY}
				viewport := raster.Viewport{X: tile.MinX, Y: tile.MinY, Width: tile.Width(), Height: tile.Height()}
				for _, t := range tris {
					raster.Rasterize(t, viewport, proc)
				}
				lb.Map.Merge(tileMap, tile.MinX, tile.MinY)
			})
		}

		lb.Map.Initialize()
	}
}

// runDepthPrepass writes depth for every opaque batch's triangles with
// no shading, so the opaque color pass can shade only the fragment that
// turns out to be each pixel's nearest surface (spec §4.2: "when opaque
// count is large or at least one light is active").
func (p *Pipeline) runDepthPrepass(opaque []batch) {
	tris := flattenTriangles(opaque)
	if len(tris) == 0 {
		return
	}
	proc := &depthOnlyProcessor{depth: p.depth}
	p.rasterizer.RasterizeParallel(tris, func(tile raster.Tile, tileTris []raster.Triangle) {
		viewport := raster.Viewport{X: tile.MinX, Y: tile.MinY, Width: tile.Width(), Height: tile.Height()}
		for _, t := range tileTris {
			raster.Rasterize(t, viewport, proc)
		}
	})
}

// runOpaquePass shades every opaque batch, front-to-back, writing color
// and (absent a prior depth pre-pass) depth directly into the frame's
// main buffers.
func (p *Pipeline) runOpaquePass(opaque []batch, mat shade.Material, prepassDone bool) {
	lights := p.lightSources()
	for _, b := range opaque {
		if len(b.triangles) == 0 {
			continue
		}
		proc := &colorProcessor{
			color: p.color, depth: p.depth,
			texture: b.texture, lights: lights, material: mat,
			prepassDone: prepassDone,
		}
		p.rasterizer.RasterizeParallel(b.triangles, func(tile raster.Tile, tileTris []raster.Triangle) {
			viewport := raster.Viewport{X: tile.MinX, Y: tile.MinY, Width: tile.Width(), Height: tile.Height()}
			for _, t := range tileTris {
				raster.Rasterize(t, viewport, proc)
			}
		})
	}
}

// runTransparentPass alpha-blends every transparent batch, back-to-front,
// against whatever the opaque pass already wrote. It never touches the
// depth buffer (spec §4.4: alpha-blended fragments do not write depth).
func (p *Pipeline) runTransparentPass(transparent []batch, mat shade.Material) {
	lights := p.lightSources()
	for _, b := range transparent {
		if len(b.triangles) == 0 {
			continue
		}
		proc := &colorProcessor{
			color: p.color, depth: p.depth,
			texture: b.texture, lights: lights, material: mat,
			blendOnly: true,
		}
		p.rasterizer.RasterizeParallel(b.triangles, func(tile raster.Tile, tileTris []raster.Triangle) {
			viewport := raster.Viewport{X: tile.MinX, Y: tile.MinY, Width: tile.Width(), Height: tile.Height()}
			for _, t := range tileTris {
				raster.Rasterize(t, viewport, proc)
			}
		})
	}
}

func (p *Pipeline) lightSources() []shade.LightSource {
	out := make([]shade.LightSource, len(p.lights))
	for i, lb := range p.lights {
		out[i] = shade.LightSource{Light: lb.Light, Map: lb.Map}
	}
	return out
}

func flattenTriangles(batches []batch) []raster.Triangle {
	var out []raster.Triangle
	for _, b := range batches {
		out = append(out, b.triangles...)
	}
	return out
}
