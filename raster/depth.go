package raster

import "math"

// DepthBuffer stores per-pixel depth for the tiled rasterizer. Unlike
// gogpu/wgpu's general-purpose DepthBuffer, this one carries no mutex:
// the tiled pipeline partitions the framebuffer into disjoint tiles and
// hands each tile to exactly one worker for the duration of a frame, so
// no two goroutines ever touch the same element concurrently. Callers
// that need cross-tile access (e.g. a serial merge step) must
// synchronize externally.
type DepthBuffer struct {
	data   []float32
	width  int
	height int
}

// NewDepthBuffer creates a depth buffer cleared to +Inf (nothing has
// been drawn: every fragment depth compares less than unwritten).
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{data: make([]float32, width*height), width: width, height: height}
	d.Clear()
	return d
}

func (d *DepthBuffer) Width() int  { return d.width }
func (d *DepthBuffer) Height() int { return d.height }

// Clear resets every value to +Inf.
func (d *DepthBuffer) Clear() {
	for i := range d.data {
		d.data[i] = float32(math.Inf(1))
	}
}

// Get returns the depth at (x, y), or +Inf if out of bounds.
func (d *DepthBuffer) Get(x, y int) float32 {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return float32(math.Inf(1))
	}
	return d.data[y*d.width+x]
}

// Set writes a depth value at (x, y). Out-of-bounds writes are ignored.
func (d *DepthBuffer) Set(x, y int, depth float32) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	d.data[y*d.width+x] = depth
}

// Test reports whether depth is strictly less than the stored value at
// (x, y): the rasterizer's sole depth comparison (no configurable
// CompareFunc — nearer-wins is the only rule this pipeline needs).
func (d *DepthBuffer) Test(x, y int, depth float32) bool {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return false
	}
	return depth < d.data[y*d.width+x]
}

// TestAndSet performs Test and, on success, writes depth and reports
// true. Safe only under the tile-exclusive-ownership contract described
// on DepthBuffer.
func (d *DepthBuffer) TestAndSet(x, y int, depth float32) bool {
	if !d.Test(x, y, depth) {
		return false
	}
	d.Set(x, y, depth)
	return true
}

// GetData returns the raw row-major depth data. The caller must not
// mutate concurrently with an in-flight frame.
func (d *DepthBuffer) GetData() []float32 {
	return d.data
}
