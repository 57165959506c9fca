package shadow

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestVisibilityFunctionBuild(t *testing.T) {
	var f VisibilityFunction
	f = newVisibilityFunction()
	f.add(0.2, 0.5)
	f.add(0.5, 0.5)
	f.add(0.9, 1.0)
	f.initialize(CompressionEpsilon)

	want := []VisibilityPoint{{0, 1}, {0.2, 0.5}, {0.5, 0.25}, {0.9, 0}}
	if len(f.points) != len(want) {
		t.Fatalf("got %d points, want %d: %v", len(f.points), len(want), f.points)
	}
	for i, p := range f.points {
		if !approxEqual(p.Depth, want[i].Depth, 1e-6) || !approxEqual(p.Visibility, want[i].Visibility, 1e-4) {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
	}

	cases := []struct {
		z    float32
		want float32
	}{
		{0.1, 1},
		{0.3, 0.5},
		{0.6, 0.25},
		{0.95, 0},
	}
	for _, c := range cases {
		got := f.sample(c.z, 0)
		if !approxEqual(got, c.want, 1e-4) {
			t.Errorf("sample(%v) = %v, want %v", c.z, got, c.want)
		}
	}
}

func TestVisibilityFunctionInvariantsAfterInitialize(t *testing.T) {
	f := newVisibilityFunction()
	f.add(0.1, 0.3)
	f.add(0.4, 0.7)
	f.add(0.2, 1.0) // opaque, nearer than one already-added translucent point
	f.add(0.8, 0.4) // behind the opaque depth, must be rejected at add time
	f.initialize(CompressionEpsilon)

	for i := 1; i < len(f.points); i++ {
		if f.points[i].Depth < f.points[i-1].Depth {
			t.Fatalf("points not sorted by depth: %v", f.points)
		}
		if f.points[i].Visibility > f.points[i-1].Visibility+1e-6 {
			t.Fatalf("visibility not non-increasing: %v", f.points)
		}
		if f.points[i].Visibility < 0 || f.points[i].Visibility > 1 {
			t.Fatalf("visibility out of [0,1]: %v", f.points)
		}
	}

	last := f.points[len(f.points)-1]
	if !approxEqual(last.Depth, f.opaqueDepth, 1e-6) || last.Visibility != 0 {
		t.Fatalf("last point = %+v, want (%v, 0)", last, f.opaqueDepth)
	}
}

func TestVisibilityFunctionOpaqueCapsSampling(t *testing.T) {
	f := newVisibilityFunction()
	f.add(0.5, 1.0)
	f.initialize(CompressionEpsilon)

	if got := f.sample(0.5, 0); got != 0 {
		t.Errorf("sample at opaque depth = %v, want 0", got)
	}
	if got := f.sample(0.49, 0); got != 1 {
		t.Errorf("sample just before opaque depth = %v, want 1", got)
	}
}

func TestDeepShadowMapAddOutOfBoundsSilentlyIgnored(t *testing.T) {
	m := NewDeepShadowMap(4, 4, 0)
	m.Add(-1, 0, 0.5, 1.0)
	m.Add(0, 10, 0.5, 1.0)
	m.Initialize()
	if got := m.Sample(0, 0, 0.5); got != 1 {
		t.Errorf("Sample after out-of-bounds adds = %v, want 1 (untouched pixel)", got)
	}
}

func TestDeepShadowMapMerge(t *testing.T) {
	main := NewDeepShadowMap(4, 4, 0)
	tile := NewDeepShadowMap(2, 2, 0)
	tile.Add(0, 0, 0.3, 1.0)

	main.Merge(tile, 1, 1)
	main.Initialize()

	// Beyond the occluder by more than the 4x4 map's bias (0.125).
	if got := main.Sample(1, 1, 0.5); got != 0 {
		t.Errorf("merged opaque sample = %v, want 0", got)
	}
	if got := main.Sample(1, 1, 0.1); got != 1 {
		t.Errorf("merged sample before occluder = %v, want 1", got)
	}
}

func TestCompressionStaysWithinEpsilonOfRaw(t *testing.T) {
	f := newVisibilityFunction()
	depths := []float32{0.1, 0.15, 0.22, 0.3, 0.41, 0.55, 0.61, 0.7, 0.82, 0.9}
	for i, z := range depths {
		alpha := float32(0.3 + 0.05*float32(i%5))
		f.add(z, alpha)
	}

	raw := make([]VisibilityPoint, len(f.points))
	copy(raw, f.points)
	for i := 1; i < len(raw); i++ {
		raw[i].Visibility = raw[i-1].Visibility * raw[i].Visibility
	}
	rawFn := VisibilityFunction{points: raw}

	f.initialize(CompressionEpsilon)

	for _, z := range depths {
		gotRaw := rawFn.sample(z, 0)
		gotCompressed := f.sample(z, 0)
		if math.Abs(float64(gotRaw-gotCompressed)) > CompressionEpsilon+1e-4 {
			t.Errorf("sample(%v): raw=%v compressed=%v differ by more than epsilon", z, gotRaw, gotCompressed)
		}
	}
}
