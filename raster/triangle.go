package raster

// EdgeFunction is a linear edge equation Ax + By + C = 0. Points left of a
// directed edge (inside, for a CCW triangle) evaluate positive.
type EdgeFunction struct {
	A, B, C float32
}

// NewEdgeFunction builds the edge from (x0,y0) to (x1,y1).
func NewEdgeFunction(x0, y0, x1, y1 float32) EdgeFunction {
	return EdgeFunction{A: y0 - y1, B: x1 - x0, C: x0*y1 - x1*y0}
}

func (e EdgeFunction) Evaluate(x, y float32) float32 {
	return e.A*x + e.B*y + e.C
}

// IsTopLeft reports whether this is a "top" or "left" edge for the
// top-left fill rule: a left edge goes upward in screen space (A > 0); a
// top edge is horizontal and goes leftward (A == 0 && B < 0).
func (e EdgeFunction) IsTopLeft() bool {
	if e.A > 0 {
		return true
	}
	return e.A == 0 && e.B < 0
}

// ComputeTriangleArea returns twice the signed area of v0,v1,v2; positive
// for counter-clockwise winding in screen space (y down).
func ComputeTriangleArea(v0, v1, v2 ScreenVertex) float32 {
	return NewEdgeFunction(v0.X, v0.Y, v1.X, v1.Y).Evaluate(v2.X, v2.Y)
}

// IsBackFacing reports whether the triangle's signed area is <= 0. This
// module culls all non-positive-area triangles; there is no
// front-face/back-face winding configuration beyond that.
func IsBackFacing(tri Triangle) bool {
	return ComputeTriangleArea(tri.V0, tri.V1, tri.V2) <= 0
}
