package raster

import (
	"math"

	"github.com/gogpu/raster/simd"
)

// Viewport is the rectangular pixel region a triangle is rasterized into.
type Viewport struct {
	X, Y, Width, Height int
}

// FragmentProcessor is the per-pass hook the tiled rasterizer calls for
// every covered fragment. Concrete variants (depth-only, Blinn-Phong
// color, shadow-map visibility) live in package pipeline; Rasterize
// resolves the interface call once per fragment, never inside the SIMD
// mask test itself, so each pass is effectively monomorphized over its
// own hot loop.
type FragmentProcessor interface {
	Process(frag Fragment)
}

// Rasterize scans tri's screen-space bounding box in simd.LaneWidth-wide
// horizontal runs. For each run it evaluates the three edge functions at
// lane offsets, ANDs the three "is inside" masks into a single coverage
// mask, and for every covered lane applies the top-left fill rule and
// perspective-correct interpolation before calling proc.Process.
//
// tri must have positive signed area; back-facing and degenerate
// triangles are the caller's responsibility to cull first (see cull.go).
func Rasterize(tri Triangle, viewport Viewport, proc FragmentProcessor) {
	minX := min3(tri.V0.X, tri.V1.X, tri.V2.X)
	maxX := max3(tri.V0.X, tri.V1.X, tri.V2.X)
	minY := min3(tri.V0.Y, tri.V1.Y, tri.V2.Y)
	maxY := max3(tri.V0.Y, tri.V1.Y, tri.V2.Y)

	startX := maxInt(int(math.Floor(float64(minX))), viewport.X)
	endX := minInt(int(math.Ceil(float64(maxX))), viewport.X+viewport.Width)
	startY := maxInt(int(math.Floor(float64(minY))), viewport.Y)
	endY := minInt(int(math.Ceil(float64(maxY))), viewport.Y+viewport.Height)
	if startX >= endX || startY >= endY {
		return
	}

	it := NewIncrementalTriangle(tri)
	if it.IsDegenerate() {
		return
	}

	attrCount := len(tri.V0.Attributes)
	offsets := simd.Offsets8()

	for y := startY; y < endY; y++ {
		py := float32(y) + 0.5
		it.SetRow(float32(startX)+0.5, py)

		// dw/dx for each edge is simply its A coefficient (constant across
		// the row), so the lane vectors for a run are broadcast(w) + offsets*A.
		dw0dx := simd.SplatF32(it.E12.A)
		dw1dx := simd.SplatF32(it.E20.A)
		dw2dx := simd.SplatF32(it.E01.A)

		for x := startX; x < endX; x += simd.LaneWidth {
			w0, w1, w2 := it.EdgeValues()

			vw0 := simd.MulAddF32x8(simd.SplatF32(w0+it.Bias0), offsets, dw0dx)
			vw1 := simd.MulAddF32x8(simd.SplatF32(w1+it.Bias1), offsets, dw1dx)
			vw2 := simd.MulAddF32x8(simd.SplatF32(w2+it.Bias2), offsets, dw2dx)

			mask := vw0.GEZero().And(vw1.GEZero()).And(vw2.GEZero())

			lanes := minInt(simd.LaneWidth, endX-x)
			if mask.AnySet() {
				for lane := 0; lane < lanes; lane++ {
					if mask[lane] == 0 {
						continue
					}
					// The small bias can vanish in float32 next to a large
					// run-start value, so a pixel lying exactly on a
					// non-top-left edge is excluded here explicitly.
					fl := float32(lane)
					if (it.Bias0 != 0 && w0+fl*it.E12.A == 0) ||
						(it.Bias1 != 0 && w1+fl*it.E20.A == 0) ||
						(it.Bias2 != 0 && w2+fl*it.E01.A == 0) {
						continue
					}
					px := x + lane
					emitFragment(&it, tri, px, y, float32(lane)*it.E12.A, float32(lane)*it.E20.A, float32(lane)*it.E01.A, w0, w1, w2, attrCount, proc)
				}
			}

			for i := 0; i < lanes; i++ {
				it.StepX()
			}
		}
		it.NextRow()
	}
}

// emitFragment computes barycentrics and perspective-correct attributes
// for one covered pixel and hands it to proc. w0/w1/w2 are the row-start
// edge values at the beginning of the current lane run; the dN terms
// re-derive the per-lane value without re-running StepX, matching what
// the SIMD lane vectors already computed.
func emitFragment(it *IncrementalTriangle, tri Triangle, px, py int, d0, d1, d2, w0, w1, w2 float32, attrCount int, proc FragmentProcessor) {
	lw0, lw1, lw2 := w0+d0, w1+d1, w2+d2

	b0 := lw0 * it.InvArea
	b1 := lw1 * it.InvArea
	b2 := lw2 * it.InvArea

	invWp := b0*tri.V0.W + b1*tri.V1.W + b2*tri.V2.W

	var depth float32
	if invWp != 0 {
		depth = (b0*tri.V0.Z*tri.V0.W + b1*tri.V1.Z*tri.V1.W + b2*tri.V2.Z*tri.V2.W) / invWp
	} else {
		depth = b0*tri.V0.Z + b1*tri.V1.Z + b2*tri.V2.Z
	}

	// tri.V*.Attributes already hold the *-OverW form computed by
	// ToScreenVertex (attr/w), so recovering the perspective-correct value
	// is a plain barycentric sum followed by a single division by invWp —
	// unlike Z above, attributes must not be weighted by .W a second time.
	var attrs []float32
	if attrCount > 0 {
		attrs = make([]float32, attrCount)
		if invWp != 0 {
			for i := 0; i < attrCount; i++ {
				sum := b0*tri.V0.Attributes[i] + b1*tri.V1.Attributes[i] + b2*tri.V2.Attributes[i]
				attrs[i] = sum / invWp
			}
		} else {
			for i := 0; i < attrCount; i++ {
				attrs[i] = b0*tri.V0.Attributes[i] + b1*tri.V1.Attributes[i] + b2*tri.V2.Attributes[i]
			}
		}
	}

	proc.Process(Fragment{X: px, Y: py, Depth: depth, Bary: [3]float32{b0, b1, b2}, InvW: invWp, Attributes: attrs})
}
