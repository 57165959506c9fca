package pipeline

import (
	"math"
	"testing"

	"github.com/gogpu/raster/config"
	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/scene"
)

// doubleSidedQuad builds a flat quad in the XY plane of the given half
// size, winding both ways so a test doesn't have to reason about which
// triangle order the rasterizer considers front-facing.
func doubleSidedQuad(half float32, rgba [4]uint8) *scene.Mesh {
	verts := []scene.MeshVertex{
		{Position: gmath.Vec3{X: -half, Y: -half, Z: 0}, Normal: gmath.Vec3{X: 0, Y: 0, Z: 1}, Color: rgba},
		{Position: gmath.Vec3{X: half, Y: -half, Z: 0}, Normal: gmath.Vec3{X: 0, Y: 0, Z: 1}, Color: rgba},
		{Position: gmath.Vec3{X: half, Y: half, Z: 0}, Normal: gmath.Vec3{X: 0, Y: 0, Z: 1}, Color: rgba},
		{Position: gmath.Vec3{X: -half, Y: half, Z: 0}, Normal: gmath.Vec3{X: 0, Y: 0, Z: 1}, Color: rgba},
	}
	indices := []uint32{
		0, 1, 2, 0, 2, 3, // one winding
		0, 2, 1, 0, 3, 2, // the reverse winding
	}
	return scene.NewMesh(verts, indices, nil)
}

func newTestCamera(t *testing.T, w, h int) *scene.Camera {
	t.Helper()
	cam, err := scene.NewCamera(w, h, math.Pi/3, 0.1, 100)
	if err != nil {
		t.Fatalf("scene.NewCamera: %v", err)
	}
	cam.SetPosition(gmath.Vec3{X: 0, Y: 0, Z: 0})
	return cam
}

// TestPipeline_DepthOrderingIsSubmissionOrderIndependent matches spec
// boundary scenario 4: two opaque quads at different depths must
// resolve to the nearer one's color regardless of which order their
// meshes were appended to the scene.
func TestPipeline_DepthOrderingIsSubmissionOrderIndependent(t *testing.T) {
	const w, h = 16, 16
	red := [4]uint8{255, 0, 0, 255}
	blue := [4]uint8{0, 0, 255, 255}

	run := func(appendNearFirst bool) [4]uint8 {
		cam := newTestCamera(t, w, h)
		s := scene.NewScene(cam)
		// No lights: the shaded color is ambient times albedo, so a white
		// ambient reproduces each quad's vertex color exactly.
		s.AmbientRGB = gmath.Vec3{X: 1, Y: 1, Z: 1}

		near := doubleSidedQuad(20, red)
		near.SetPosition(gmath.Vec3{X: 0, Y: 0, Z: -2})
		far := doubleSidedQuad(20, blue)
		far.SetPosition(gmath.Vec3{X: 0, Y: 0, Z: -4})

		if appendNearFirst {
			s.AddMesh(near)
			s.AddMesh(far)
		} else {
			s.AddMesh(far)
			s.AddMesh(near)
		}

		cfg := config.Default(w, h)
		p, err := New(w, h, nil, cfg, 0.5, 32)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer p.Close()

		pixels := p.Render(s)
		i := (h/2*w + w/2) * 4
		return [4]uint8{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]}
	}

	gotA := run(true)
	gotB := run(false)

	if gotA != red {
		t.Errorf("near-first submission: center pixel = %v, want red %v", gotA, red)
	}
	if gotB != red {
		t.Errorf("far-first submission: center pixel = %v, want red %v", gotB, red)
	}
}

func TestPipeline_TransparentFragmentDoesNotWriteDepth(t *testing.T) {
	const w, h = 8, 8
	translucentWhite := [4]uint8{255, 255, 255, 128}

	cam := newTestCamera(t, w, h)
	s := scene.NewScene(cam)
	s.BackgroundRGBA = [4]uint8{0, 0, 0, 255}

	quad := doubleSidedQuad(20, translucentWhite)
	quad.SetPosition(gmath.Vec3{X: 0, Y: 0, Z: -2})
	s.AddMesh(quad)

	cfg := config.Default(w, h)
	p, err := New(w, h, nil, cfg, 0.5, 32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	p.Render(s)

	x, y := w/2, h/2
	if depth := p.depth.Get(x, y); !math.IsInf(float64(depth), 1) {
		t.Errorf("depth at (%d,%d) = %v, want +Inf (transparent fragments must not write depth)", x, y, depth)
	}
}

func TestPipeline_ResizeReallocatesBuffers(t *testing.T) {
	cfg := config.Default(8, 8)
	p, err := New(8, 8, nil, cfg, 0.5, 32)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if err := p.Resize(16, 12); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if p.Width() != 16 || p.Height() != 12 {
		t.Fatalf("Width/Height after Resize = %d,%d, want 16,12", p.Width(), p.Height())
	}
	if len(p.color.Pixels) != 16*12*4 {
		t.Errorf("color buffer size = %d, want %d", len(p.color.Pixels), 16*12*4)
	}
}

func TestPipeline_RejectsInvalidDimensions(t *testing.T) {
	cfg := config.Default(8, 8)
	if _, err := New(0, 8, nil, cfg, 0.5, 32); err == nil {
		t.Error("zero width should be rejected")
	}
}
