package pipeline

import (
	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/raster"
	"github.com/gogpu/raster/scene"
)

// batch groups screen-space triangles sharing a texture identity, so the
// color pass can rebind a texture once per batch rather than per
// triangle (spec §4.1: "grouped into batches by texture identity").
type batch struct {
	texture   *scene.Texture
	opaque    bool
	triangles []raster.Triangle
	avgZ      float32
}

// prepareMesh runs a mesh's geometry through the pipeline's per-frame
// clip-space pipeline: model/world/clip transform, pre-clip attribute
// attachment (world position, normal, UV, color, per-light clip
// position), homogeneous clipping, perspective divide and viewport
// transform. It returns the mesh's triangles as clip-space-resolved
// raster.Triangle values ready for binning.
func prepareMesh(m *scene.Mesh, worldToClip gmath.Mat4, lights []LightBinding, viewportW, viewportH int) []raster.Triangle {
	model := m.Transform.Matrix()
	numLights := len(lights)

	var out []raster.Triangle
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]raster.Vertex{
			preClipVertex(m.Vertices[m.Indices[i]], model, worldToClip, lights, numLights),
			preClipVertex(m.Vertices[m.Indices[i+1]], model, worldToClip, lights, numLights),
			preClipVertex(m.Vertices[m.Indices[i+2]], model, worldToClip, lights, numLights),
		}

		if raster.FrustumCull(tri) || raster.DegenerateTriangleCull(tri) {
			continue
		}

		for _, clipped := range raster.ClipTriangleFast(tri) {
			screenTri := toScreenTriangle(clipped, viewportW, viewportH)
			if raster.IsBackFacing(screenTri) {
				continue
			}
			out = append(out, screenTri)
		}
	}
	return out
}

// preClipVertex attaches clip position, world position, normal, UV,
// color and each light's clip-space position to a mesh vertex — the
// "pre-clip initialized" vertex of spec §4.1 step 2. The perspective
// divide by clip.w (invW, *-overW fields) happens later, once per
// post-clip vertex, in toScreenTriangle.
func preClipVertex(v scene.MeshVertex, model, worldToClip gmath.Mat4, lights []LightBinding, numLights int) raster.Vertex {
	worldPos := model.MulPoint(v.Position)
	worldNormal := model.MulDir(v.Normal).Normalize()
	clipPos := worldToClip.MulVec4(worldPos.ToVec4(1))

	attrs := make([]float32, raster.AttrCount(numLights))
	attrs[raster.AttrWorld], attrs[raster.AttrWorld+1], attrs[raster.AttrWorld+2] = worldPos.X, worldPos.Y, worldPos.Z
	attrs[raster.AttrNormal], attrs[raster.AttrNormal+1], attrs[raster.AttrNormal+2] = worldNormal.X, worldNormal.Y, worldNormal.Z
	attrs[raster.AttrUV], attrs[raster.AttrUV+1] = v.UV.X, v.UV.Y
	attrs[raster.AttrColor] = float32(v.Color[0]) / 255
	attrs[raster.AttrColor+1] = float32(v.Color[1]) / 255
	attrs[raster.AttrColor+2] = float32(v.Color[2]) / 255
	attrs[raster.AttrColor+3] = float32(v.Color[3]) / 255

	vtx := raster.Vertex{Position: [4]float32{clipPos.X, clipPos.Y, clipPos.Z, clipPos.W}, Attributes: attrs}
	for i, lb := range lights {
		lightClip := lb.WorldToClip.MulVec4(worldPos.ToVec4(1))
		vtx.SetLightClip(i, lightClip)
	}
	return vtx
}

// toScreenTriangle performs perspective divide and the viewport
// transform (spec §4.1 steps 5-6) on a post-clip triangle, producing
// the ScreenVertex form the rasterizer consumes.
func toScreenTriangle(tri [3]raster.Vertex, viewportW, viewportH int) raster.Triangle {
	return raster.Triangle{
		V0: toScreenVertexAt(tri[0], viewportW, viewportH),
		V1: toScreenVertexAt(tri[1], viewportW, viewportH),
		V2: toScreenVertexAt(tri[2], viewportW, viewportH),
	}
}

func toScreenVertexAt(v raster.Vertex, viewportW, viewportH int) raster.ScreenVertex {
	w := v.Position[3]
	ndcX, ndcY, ndcZ := v.Position[0]/w, v.Position[1]/w, v.Position[2]/w
	sx := (ndcX + 1) * 0.5 * float32(viewportW)
	sy := (1 - ndcY) * 0.5 * float32(viewportH)
	return raster.ToScreenVertex(v, sx, sy, ndcZ)
}

type batchKey struct {
	texture *scene.Texture
	opaque  bool
}

// batchByTexture groups triangles from every visible mesh by (texture
// identity, opacity) — a mesh's opacity is a per-mesh property (spec
// §3's is_opaque), so two meshes sharing a texture but differing in
// opacity land in separate batches. A nil texture is its own sentinel
// bucket (spec §4.1: "a sentinel is used for 'no texture'").
func batchByTexture(meshes []*scene.Mesh, worldToClip gmath.Mat4, lights []LightBinding, viewportW, viewportH int) []batch {
	byKey := map[batchKey]*batch{}
	var order []batchKey

	for _, m := range meshes {
		tris := prepareMesh(m, worldToClip, lights, viewportW, viewportH)
		if len(tris) == 0 {
			continue
		}
		key := batchKey{texture: m.Texture, opaque: m.IsOpaque()}
		b, ok := byKey[key]
		if !ok {
			b = &batch{texture: m.Texture, opaque: key.opaque}
			byKey[key] = b
			order = append(order, key)
		}
		b.triangles = append(b.triangles, tris...)
	}

	out := make([]batch, 0, len(order))
	for _, key := range order {
		b := byKey[key]
		b.avgZ = averageZ(b.triangles)
		out = append(out, *b)
	}
	return out
}

func averageZ(tris []raster.Triangle) float32 {
	if len(tris) == 0 {
		return 0
	}
	var sum float32
	for _, t := range tris {
		sum += (t.V0.Z + t.V1.Z + t.V2.Z) / 3
	}
	return sum / float32(len(tris))
}
