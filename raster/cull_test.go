package raster

import "testing"

func TestFrustumCull_InsideTriangleNotCulled(t *testing.T) {
	tri := [3]Vertex{
		vertexAt(0, 0, 0.5, 1),
		vertexAt(0.1, 0, 0.5, 1),
		vertexAt(0, 0.1, 0.5, 1),
	}
	if FrustumCull(tri) {
		t.Error("a triangle entirely within the frustum should not be culled")
	}
}

func TestFrustumCull_TriangleSharingAnOutsideRegionIsCulled(t *testing.T) {
	tri := [3]Vertex{
		vertexAt(5, 5, 0.5, 1),
		vertexAt(6, 5, 0.5, 1),
		vertexAt(5, 6, 0.5, 1),
	}
	if !FrustumCull(tri) {
		t.Error("a triangle entirely beyond the right/top planes should be trivially culled")
	}
}

func TestFrustumCull_StraddlingTriangleNotCulled(t *testing.T) {
	// One vertex behind the near plane, two in front: no single plane
	// contains every vertex, so this must not be trivially rejected —
	// it needs real clipping instead.
	tri := [3]Vertex{
		vertexAt(0, 0, -0.5, 1),
		vertexAt(1, 0, 0.5, 1),
		vertexAt(0, 1, 0.5, 1),
	}
	if FrustumCull(tri) {
		t.Error("a near-plane-straddling triangle must not be trivially culled")
	}
}

func TestDegenerateTriangleCull(t *testing.T) {
	degenerate := [3]Vertex{
		vertexAt(0, 0, 0.5, 1),
		vertexAt(1, 0, 0.5, 1),
		vertexAt(2, 0, 0.5, 1), // colinear with the first two
	}
	if !DegenerateTriangleCull(degenerate) {
		t.Error("a colinear (zero-area) triangle should be culled")
	}

	healthy := [3]Vertex{
		vertexAt(0, 0, 0.5, 1),
		vertexAt(1, 0, 0.5, 1),
		vertexAt(0, 1, 0.5, 1),
	}
	if DegenerateTriangleCull(healthy) {
		t.Error("a non-degenerate triangle should not be culled")
	}
}

func screenVertexAt(x, y float32) ScreenVertex {
	return ScreenVertex{X: x, Y: y, Z: 0.5, W: 1}
}

func TestIsBackFacing(t *testing.T) {
	ccw := Triangle{
		V0: screenVertexAt(0, 0),
		V1: screenVertexAt(1, 0),
		V2: screenVertexAt(0, 1),
	}
	if IsBackFacing(ccw) {
		t.Error("a counter-clockwise-wound triangle should not be back-facing")
	}

	cw := Triangle{
		V0: screenVertexAt(0, 0),
		V1: screenVertexAt(0, 1),
		V2: screenVertexAt(1, 0),
	}
	if !IsBackFacing(cw) {
		t.Error("a clockwise-wound triangle should be back-facing")
	}
}

func TestSmallTriangleCull(t *testing.T) {
	tiny := Triangle{
		V0: screenVertexAt(0, 0),
		V1: screenVertexAt(0.01, 0),
		V2: screenVertexAt(0, 0.01),
	}
	if !SmallTriangleCull(tiny, 1.0) {
		t.Error("a subpixel triangle should be culled against a minArea of 1.0")
	}

	large := Triangle{
		V0: screenVertexAt(0, 0),
		V1: screenVertexAt(100, 0),
		V2: screenVertexAt(0, 100),
	}
	if SmallTriangleCull(large, 1.0) {
		t.Error("a large triangle should not be culled against a minArea of 1.0")
	}
}
