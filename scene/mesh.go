package scene

import "github.com/gogpu/raster/gmath"

// MeshVertex is the scene-level vertex representation before it enters
// the rasterizer's clip-space Vertex layout: model-space position,
// normal, UV and an 8-bit color.
type MeshVertex struct {
	Position gmath.Vec3
	Normal   gmath.Vec3
	UV       gmath.Vec2
	Color    [4]uint8
}

// Texture is the decoded-image contract the scene holds a reference to;
// decoding itself is an external collaborator (image.Decode in
// cmd/demo), not part of this package.
type Texture struct {
	Width, Height int
	Pixels        []uint8 // RGBA8, row-major
	IsOpaque      bool
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max gmath.Vec3
}

func (b AABB) Transform(m gmath.Mat4) AABB {
	corners := [8]gmath.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}, {X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z}, {X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z}, {X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z}, {X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
	out := AABB{Min: gmath.Vec3{X: math32Inf, Y: math32Inf, Z: math32Inf}, Max: gmath.Vec3{X: -math32Inf, Y: -math32Inf, Z: -math32Inf}}
	for _, c := range corners {
		wc := m.MulPoint(c)
		out.Min = gmath.Vec3{X: minf(out.Min.X, wc.X), Y: minf(out.Min.Y, wc.Y), Z: minf(out.Min.Z, wc.Z)}
		out.Max = gmath.Vec3{X: maxf(out.Max.X, wc.X), Y: maxf(out.Max.Y, wc.Y), Z: maxf(out.Max.Z, wc.Z)}
	}
	return out
}

const math32Inf = 1e30

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Mesh is immutable geometry (vertices, index triples), an optional
// texture, and a world transform. Its world AABB is recomputed lazily
// whenever the transform changes.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint32
	Texture  *Texture

	Transform Transform

	localAABB AABB
	worldAABB AABB
	aabbDirty bool
}

// NewMesh builds a mesh from vertex/index data and computes its local
// AABB once, since the geometry itself is immutable.
func NewMesh(vertices []MeshVertex, indices []uint32, texture *Texture) *Mesh {
	m := &Mesh{
		Vertices:  vertices,
		Indices:   indices,
		Texture:   texture,
		Transform: NewTransform(),
		aabbDirty: true,
	}
	m.localAABB = computeLocalAABB(vertices)
	return m
}

func computeLocalAABB(vertices []MeshVertex) AABB {
	if len(vertices) == 0 {
		return AABB{}
	}
	b := AABB{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		b.Min = gmath.Vec3{X: minf(b.Min.X, v.Position.X), Y: minf(b.Min.Y, v.Position.Y), Z: minf(b.Min.Z, v.Position.Z)}
		b.Max = gmath.Vec3{X: maxf(b.Max.X, v.Position.X), Y: maxf(b.Max.Y, v.Position.Y), Z: maxf(b.Max.Z, v.Position.Z)}
	}
	return b
}

// WorldAABB returns the mesh's world-space bounds, recomputed only
// after the transform last changed.
func (m *Mesh) WorldAABB() AABB {
	if m.aabbDirty {
		m.worldAABB = m.localAABB.Transform(m.Transform.Matrix())
		m.aabbDirty = false
	}
	return m.worldAABB
}

func (m *Mesh) SetPosition(p gmath.Vec3) {
	m.Transform.SetPosition(p)
	m.aabbDirty = true
}

func (m *Mesh) SetRotation(r gmath.Quaternion) {
	m.Transform.SetRotation(r)
	m.aabbDirty = true
}

func (m *Mesh) SetScale(s gmath.Vec3) {
	m.Transform.SetScale(s)
	m.aabbDirty = true
}

// IsOpaque reports whether the mesh can skip the transparent pass: a
// textured mesh defers to its texture's IsOpaque flag; an untextured
// mesh is opaque iff every vertex color has alpha == 255.
func (m *Mesh) IsOpaque() bool {
	if m.Texture != nil {
		return m.Texture.IsOpaque
	}
	for _, v := range m.Vertices {
		if v.Color[3] != 255 {
			return false
		}
	}
	return true
}
