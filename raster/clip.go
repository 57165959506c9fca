package raster

// ClipPlane is a plane in homogeneous clip space: A*x + B*y + C*z + D*w = 0.
// Points with A*x+B*y+C*z+D*w >= 0 are inside.
type ClipPlane struct {
	A, B, C, D float32
}

// The six frustum planes for a clip-space z range of [0, w] (depth [0,1]
// after perspective divide, per this module's depth convention).
var (
	ClipPlaneNear   = ClipPlane{0, 0, 1, 0}   // z >= 0
	ClipPlaneFar    = ClipPlane{0, 0, -1, 1}  // z <= w
	ClipPlaneLeft   = ClipPlane{1, 0, 0, 1}   // x >= -w
	ClipPlaneRight  = ClipPlane{-1, 0, 0, 1}  // x <= w
	ClipPlaneBottom = ClipPlane{0, 1, 0, 1}   // y >= -w
	ClipPlaneTop    = ClipPlane{0, -1, 0, 1}  // y <= w
)

// AllFrustumPlanes is the six planes clipped against in order.
var AllFrustumPlanes = []ClipPlane{
	ClipPlaneNear, ClipPlaneFar, ClipPlaneLeft, ClipPlaneRight, ClipPlaneBottom, ClipPlaneTop,
}

// Distance returns the signed distance from v to the plane; >= 0 is inside.
func (p ClipPlane) Distance(v Vertex) float32 {
	return p.A*v.Position[0] + p.B*v.Position[1] + p.C*v.Position[2] + p.D*v.Position[3]
}

func (p ClipPlane) IsInside(v Vertex) bool {
	return p.Distance(v) >= 0
}

// Intersect computes the point where edge v0->v1 crosses the plane.
// Assumes the edge actually crosses (one inside, one outside). A nearly
// coincident pair of distances (d0 - d1 ~= 0) is treated as a
// non-intersecting edge by clamping t into [0, 1].
func (p ClipPlane) Intersect(v0, v1 Vertex) (Vertex, float32) {
	d0 := p.Distance(v0)
	d1 := p.Distance(v1)

	denom := d0 - d1
	var t float32
	if denom != 0 {
		t = d0 / denom
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	result := Vertex{
		Position: [4]float32{
			v0.Position[0] + t*(v1.Position[0]-v0.Position[0]),
			v0.Position[1] + t*(v1.Position[1]-v0.Position[1]),
			v0.Position[2] + t*(v1.Position[2]-v0.Position[2]),
			v0.Position[3] + t*(v1.Position[3]-v0.Position[3]),
		},
	}

	if len(v0.Attributes) > 0 {
		n := len(v0.Attributes)
		result.Attributes = make([]float32, n)
		for i := 0; i < n; i++ {
			result.Attributes[i] = v0.Attributes[i] + t*(v1.Attributes[i]-v0.Attributes[i])
		}
	}

	return result, t
}

// ClipTriangleAgainstPlane clips one triangle against one plane, returning
// 0 (no vertex inside), 1 (one or three vertices inside) or 2 (two
// vertices inside) resulting triangles.
func ClipTriangleAgainstPlane(tri [3]Vertex, plane ClipPlane) [][3]Vertex {
	d := [3]float32{plane.Distance(tri[0]), plane.Distance(tri[1]), plane.Distance(tri[2])}
	inside := [3]bool{d[0] >= 0, d[1] >= 0, d[2] >= 0}

	insideCount := 0
	for _, in := range inside {
		if in {
			insideCount++
		}
	}

	switch insideCount {
	case 0:
		return nil
	case 3:
		return [][3]Vertex{tri}
	case 1:
		return clipOneInside(tri, inside, plane)
	case 2:
		return clipTwoInside(tri, inside, plane)
	}
	return nil
}

func clipOneInside(tri [3]Vertex, inside [3]bool, plane ClipPlane) [][3]Vertex {
	var insideIdx int
	for i, in := range inside {
		if in {
			insideIdx = i
			break
		}
	}
	i0, i1, i2 := insideIdx, (insideIdx+1)%3, (insideIdx+2)%3

	x1, _ := plane.Intersect(tri[i0], tri[i1])
	x2, _ := plane.Intersect(tri[i0], tri[i2])

	return [][3]Vertex{{tri[i0], x1, x2}}
}

func clipTwoInside(tri [3]Vertex, inside [3]bool, plane ClipPlane) [][3]Vertex {
	var outsideIdx int
	for i, in := range inside {
		if !in {
			outsideIdx = i
			break
		}
	}
	i0, i1, i2 := outsideIdx, (outsideIdx+1)%3, (outsideIdx+2)%3

	x1, _ := plane.Intersect(tri[i1], tri[i0])
	x2, _ := plane.Intersect(tri[i2], tri[i0])

	// Fan-triangulate the quad (i1, x1, x2, i2).
	return [][3]Vertex{
		{tri[i1], x1, tri[i2]},
		{x1, x2, tri[i2]},
	}
}

// ClipTriangle clips a triangle against all six frustum planes, returning
// the fan-triangulated result; each plane can split a triangle in two, and
// the result is empty when the triangle lies wholly outside.
func ClipTriangle(tri [3]Vertex) [][3]Vertex {
	return ClipTriangleAgainstPlanes(tri, AllFrustumPlanes)
}

func ClipTriangleAgainstPlanes(tri [3]Vertex, planes []ClipPlane) [][3]Vertex {
	triangles := [][3]Vertex{tri}
	for _, plane := range planes {
		if len(triangles) == 0 {
			return nil
		}
		var clipped [][3]Vertex
		for _, t := range triangles {
			clipped = append(clipped, ClipTriangleAgainstPlane(t, plane)...)
		}
		triangles = clipped
	}
	return triangles
}

// Outcode is a Cohen-Sutherland style bitmask of which planes a vertex
// lies outside of.
type Outcode uint8

const (
	OutcodeNear Outcode = 1 << iota
	OutcodeFar
	OutcodeLeft
	OutcodeRight
	OutcodeBottom
	OutcodeTop
)

func ComputeOutcode(v Vertex) Outcode {
	var code Outcode
	x, y, z, w := v.Position[0], v.Position[1], v.Position[2], v.Position[3]

	if z < 0 {
		code |= OutcodeNear
	}
	if z > w {
		code |= OutcodeFar
	}
	if x < -w {
		code |= OutcodeLeft
	}
	if x > w {
		code |= OutcodeRight
	}
	if y < -w {
		code |= OutcodeBottom
	}
	if y > w {
		code |= OutcodeTop
	}
	return code
}

// TriangleTrivialReject reports whether every vertex shares a common
// outside region (fast rejection without clipping).
func TriangleTrivialReject(tri [3]Vertex) bool {
	return ComputeOutcode(tri[0])&ComputeOutcode(tri[1])&ComputeOutcode(tri[2]) != 0
}

// TriangleTrivialAccept reports whether every vertex is inside all planes.
func TriangleTrivialAccept(tri [3]Vertex) bool {
	return ComputeOutcode(tri[0])|ComputeOutcode(tri[1])|ComputeOutcode(tri[2]) == 0
}

// ClipTriangleFast uses trivial accept/reject before falling back to full
// Sutherland-Hodgman clipping.
func ClipTriangleFast(tri [3]Vertex) [][3]Vertex {
	if TriangleTrivialReject(tri) {
		return nil
	}
	if TriangleTrivialAccept(tri) {
		return [][3]Vertex{tri}
	}
	return ClipTriangle(tri)
}
