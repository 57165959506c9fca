package scene

import (
	"math"
	"testing"

	"github.com/gogpu/raster/gmath"
)

func TestNewPerspectiveLight_ValidatesDimensions(t *testing.T) {
	if _, err := NewPerspectiveLight(0, 512, 1, 0.1, 50, gmath.Vec3One, 1, 0.01, 10, 20); err == nil {
		t.Error("zero shadow map width should be rejected")
	}
}

func TestNewPerspectiveLight_ValidatesConeOrdering(t *testing.T) {
	if _, err := NewPerspectiveLight(512, 512, 1, 0.1, 50, gmath.Vec3One, 1, 0.01, 20, 20); err == nil {
		t.Error("equal inner/outer cone angles should be rejected")
	}
	if _, err := NewPerspectiveLight(512, 512, 1, 0.1, 50, gmath.Vec3One, 1, 0.01, 25, 20); err == nil {
		t.Error("inner cone wider than outer cone should be rejected")
	}
}

func TestNewPerspectiveLight_ValidatesNearFar(t *testing.T) {
	if _, err := NewPerspectiveLight(512, 512, 1, 50, 10, gmath.Vec3One, 1, 0.01, 10, 20); err == nil {
		t.Error("near > far should be rejected")
	}
}

// TestPerspectiveLight_ConeCosines matches spec boundary scenario 3's
// inner=10deg/outer=20deg spotlight configuration.
func TestPerspectiveLight_ConeCosines(t *testing.T) {
	l, err := NewPerspectiveLight(512, 512, 1, 0.1, 50, gmath.Vec3One, 1, 0, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	wantInner := float32(math.Cos(10 * math.Pi / 180))
	wantOuter := float32(math.Cos(20 * math.Pi / 180))
	if diff := l.InnerCos - wantInner; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("InnerCos = %v, want %v", l.InnerCos, wantInner)
	}
	if diff := l.OuterCos - wantOuter; diff > 1e-5 || diff < -1e-5 {
		t.Errorf("OuterCos = %v, want %v", l.OuterCos, wantOuter)
	}
}

func TestPerspectiveLight_WorldToClipCaching(t *testing.T) {
	l, err := NewPerspectiveLight(256, 256, 1, 0.1, 50, gmath.Vec3One, 1, 0.01, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	first := l.WorldToClip()
	second := l.WorldToClip()
	if first != second {
		t.Fatal("WorldToClip should be cached across calls with no state change")
	}

	l.SetPosition(gmath.Vec3{X: 0, Y: 5, Z: 0})
	third := l.WorldToClip()
	if third == second {
		t.Fatal("moving the light should invalidate WorldToClip")
	}
}

func TestPerspectiveLight_WidthHeight(t *testing.T) {
	l, err := NewPerspectiveLight(64, 32, 1, 0.1, 50, gmath.Vec3One, 1, 0.01, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	if l.Width() != 64 || l.Height() != 32 {
		t.Fatalf("Width/Height = %d,%d, want 64,32", l.Width(), l.Height())
	}
}
