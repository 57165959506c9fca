package pipeline

import (
	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/raster"
	"github.com/gogpu/raster/scene"
)

// prepareMeshForLight clips and projects a mesh into one light's clip
// space for the shadow pass. Only UV and color attributes are carried
// (the shadow pass needs nothing but a fragment's alpha).
func prepareMeshForLight(m *scene.Mesh, lightWorldToClip gmath.Mat4, viewportW, viewportH int) []raster.Triangle {
	model := m.Transform.Matrix()

	var out []raster.Triangle
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]raster.Vertex{
			preClipVertexForLight(m.Vertices[m.Indices[i]], model, lightWorldToClip),
			preClipVertexForLight(m.Vertices[m.Indices[i+1]], model, lightWorldToClip),
			preClipVertexForLight(m.Vertices[m.Indices[i+2]], model, lightWorldToClip),
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

func preClipVertexForLight(v scene.MeshVertex, model, lightWorldToClip gmath.Mat4) raster.Vertex {
	worldPos := model.MulPoint(v.Position)
	clipPos := lightWorldToClip.MulVec4(worldPos.ToVec4(1))

	attrs := make([]float32, raster.AttrCount(0))
	attrs[raster.AttrUV], attrs[raster.AttrUV+1] = v.UV.X, v.UV.Y
	attrs[raster.AttrColor] = float32(v.Color[0]) / 255
	attrs[raster.AttrColor+1] = float32(v.Color[1]) / 255
	attrs[raster.AttrColor+2] = float32(v.Color[2]) / 255
	attrs[raster.AttrColor+3] = float32(v.Color[3]) / 255

	return raster.Vertex{Position: [4]float32{clipPos.X, clipPos.Y, clipPos.Z, clipPos.W}, Attributes: attrs}
}
