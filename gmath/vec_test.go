package gmath

import "testing"

func TestVec2_AddSubMulLerp(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}

	if got := a.Add(b); got != (Vec2{4, 6}) {
		t.Errorf("Add = %v, want {4 6}", got)
	}
	if got := b.Sub(a); got != (Vec2{2, 2}) {
		t.Errorf("Sub = %v, want {2 2}", got)
	}
	if got := a.Mul(2); got != (Vec2{2, 4}) {
		t.Errorf("Mul = %v, want {2 4}", got)
	}
	if got := a.Lerp(b, 0.5); got != (Vec2{2, 3}) {
		t.Errorf("Lerp = %v, want {2 3}", got)
	}
}

func TestVec3_DotCrossLength(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}

	if got := x.Dot(y); got != 0 {
		t.Errorf("orthogonal vectors should dot to 0, got %v", got)
	}
	if got := x.Cross(y); !vec3ApproxEqual(got, Vec3{0, 0, 1}, 1e-6) {
		t.Errorf("x cross y = %v, want {0 0 1}", got)
	}

	v := Vec3{3, 4, 0}
	if got := v.Length(); !approxEqual(got, 5, 1e-6) {
		t.Errorf("Length of (3,4,0) = %v, want 5", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	if !approxEqual(n.Length(), 1, 1e-6) {
		t.Errorf("normalized vector should have unit length, got %v", n.Length())
	}

	zero := Vec3Zero.Normalize()
	if zero != Vec3Zero {
		t.Errorf("normalizing the zero vector should return the zero vector unchanged, got %v", zero)
	}
}

func TestVec3_Clamp01(t *testing.T) {
	v := Vec3{-1, 0.5, 2}
	got := v.Clamp01()
	want := Vec3{0, 0.5, 1}
	if got != want {
		t.Errorf("Clamp01 = %v, want %v", got, want)
	}
}

func TestVec3_Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 10, 10}
	got := a.Lerp(b, 0.25)
	want := Vec3{2.5, 2.5, 2.5}
	if !vec3ApproxEqual(got, want, 1e-6) {
		t.Errorf("Lerp = %v, want %v", got, want)
	}
}

func TestVec4_PerspectiveDivide(t *testing.T) {
	v := Vec4{2, 4, 6, 2}
	got := v.PerspectiveDivide()
	want := Vec4{1, 2, 3, 1}
	if got != want {
		t.Errorf("PerspectiveDivide = %v, want %v", got, want)
	}
}

func TestVec4_LerpAndDot(t *testing.T) {
	a := Vec4{0, 0, 0, 0}
	b := Vec4{4, 4, 4, 4}
	if got := a.Lerp(b, 0.5); got != (Vec4{2, 2, 2, 2}) {
		t.Errorf("Lerp = %v, want {2 2 2 2}", got)
	}
	if got := a.ToVec3().Dot(Vec3{1, 1, 1}); got != 0 {
		t.Errorf("zero vector dot should be 0, got %v", got)
	}
}
