package raster

// IncrementalEdge steps an edge function across a scanline with additions
// instead of per-pixel multiplications: E(x+1,y) = E(x,y) + A,
// E(x,y+1) = E(x,y) + B.
type IncrementalEdge struct {
	A, B, C             float32
	rowStart, current   float32
}

func NewIncrementalEdge(e EdgeFunction) IncrementalEdge {
	return IncrementalEdge{A: e.A, B: e.B, C: e.C}
}

func (ie *IncrementalEdge) SetRow(x, y float32) {
	ie.rowStart = ie.A*x + ie.B*y + ie.C
	ie.current = ie.rowStart
}

func (ie *IncrementalEdge) Value() float32 { return ie.current }
func (ie *IncrementalEdge) StepX()         { ie.current += ie.A }
func (ie *IncrementalEdge) NextRow()       { ie.rowStart += ie.B; ie.current = ie.rowStart }

func (ie *IncrementalEdge) IsTopLeft() bool {
	if ie.A > 0 {
		return true
	}
	return ie.A == 0 && ie.B < 0
}

// IncrementalTriangle steps three edge functions together across a
// triangle's bounding box. It assumes a positive-area (CCW) triangle:
// back-facing triangles are culled upstream (see cull.go) before
// rasterization ever constructs one of these.
type IncrementalTriangle struct {
	E01, E12, E20       IncrementalEdge
	InvArea             float32
	Bias0, Bias1, Bias2 float32
}

// NewIncrementalTriangle prepares edge stepping for tri. tri.V0,V1,V2 must
// have positive signed area (ComputeTriangleArea > 0); call IsBackFacing
// first.
func NewIncrementalTriangle(tri Triangle) IncrementalTriangle {
	e12 := NewIncrementalEdge(NewEdgeFunction(tri.V1.X, tri.V1.Y, tri.V2.X, tri.V2.Y))
	e20 := NewIncrementalEdge(NewEdgeFunction(tri.V2.X, tri.V2.Y, tri.V0.X, tri.V0.Y))
	e01 := NewIncrementalEdge(NewEdgeFunction(tri.V0.X, tri.V0.Y, tri.V1.X, tri.V1.Y))

	area := e01.A*tri.V2.X + e01.B*tri.V2.Y + e01.C
	var invArea float32
	if area != 0 {
		invArea = 1 / area
	}

	bias := func(e IncrementalEdge) float32 {
		if e.IsTopLeft() {
			return 0
		}
		return -1e-6
	}

	return IncrementalTriangle{
		E01: e01, E12: e12, E20: e20,
		InvArea: invArea,
		Bias0:   bias(e12), Bias1: bias(e20), Bias2: bias(e01),
	}
}

func (it *IncrementalTriangle) SetRow(x, y float32) {
	it.E01.SetRow(x, y)
	it.E12.SetRow(x, y)
	it.E20.SetRow(x, y)
}

func (it *IncrementalTriangle) StepX() {
	it.E01.StepX()
	it.E12.StepX()
	it.E20.StepX()
}

func (it *IncrementalTriangle) NextRow() {
	it.E01.NextRow()
	it.E12.NextRow()
	it.E20.NextRow()
}

// EdgeValues returns the current (w0, w1, w2) edge function values.
func (it *IncrementalTriangle) EdgeValues() (w0, w1, w2 float32) {
	return it.E12.Value(), it.E20.Value(), it.E01.Value()
}

func (it *IncrementalTriangle) IsDegenerate() bool {
	return it.InvArea == 0
}
