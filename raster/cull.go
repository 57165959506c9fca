package raster

import "math"

// FrustumCull reports whether tri is definitely outside the view
// frustum and can be discarded without clipping, using the
// Cohen-Sutherland trivial-reject test.
func FrustumCull(tri [3]Vertex) bool {
	return TriangleTrivialReject(tri)
}

// DegenerateTriangleCull reports whether tri has zero or near-zero area
// in clip space, judged by the x/y cross product before perspective
// divide. Zero-area triangles are dropped rather than rasterized.
func DegenerateTriangleCull(tri [3]Vertex) bool {
	const epsilon = 1e-10
	return math.Abs(float64(clipSpaceArea2D(tri))) < epsilon
}

func clipSpaceArea2D(tri [3]Vertex) float32 {
	x0, y0 := tri[0].Position[0], tri[0].Position[1]
	x1, y1 := tri[1].Position[0], tri[1].Position[1]
	x2, y2 := tri[2].Position[0], tri[2].Position[1]

	e1x, e1y := x1-x0, y1-y0
	e2x, e2y := x2-x0, y2-y0
	return e1x*e2y - e1y*e2x
}

// SmallTriangleCull reports whether tri's screen-space area (twice the
// area, matching ComputeTriangleArea's convention) is below minArea. A
// pipeline can use this to drop subpixel triangles that would be costly
// to rasterize for at most a fragment or two of coverage.
func SmallTriangleCull(tri Triangle, minArea float32) bool {
	area := ComputeTriangleArea(tri.V0, tri.V1, tri.V2)
	if area < 0 {
		area = -area
	}
	return area < minArea
}
