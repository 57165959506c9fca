package raster

import (
	"math"
	"testing"
)

func TestNewDepthBuffer_StartsAtPositiveInfinity(t *testing.T) {
	d := NewDepthBuffer(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := d.Get(x, y); !math.IsInf(float64(got), 1) {
				t.Fatalf("Get(%d,%d) = %v, want +Inf", x, y, got)
			}
		}
	}
}

func TestDepthBuffer_TestAndSet(t *testing.T) {
	d := NewDepthBuffer(2, 2)

	if !d.TestAndSet(0, 0, 0.5) {
		t.Fatal("first write to an untouched pixel should pass the depth test")
	}
	if got := d.Get(0, 0); got != 0.5 {
		t.Fatalf("Get(0,0) = %v, want 0.5", got)
	}

	if d.TestAndSet(0, 0, 0.6) {
		t.Fatal("a farther depth should fail the test and leave the buffer untouched")
	}
	if got := d.Get(0, 0); got != 0.5 {
		t.Fatalf("depth should be unchanged after a failed test, got %v", got)
	}

	if !d.TestAndSet(0, 0, 0.4) {
		t.Fatal("a nearer depth should pass the test")
	}
	if got := d.Get(0, 0); got != 0.4 {
		t.Fatalf("Get(0,0) = %v, want 0.4", got)
	}
}

func TestDepthBuffer_Test_DoesNotMutate(t *testing.T) {
	d := NewDepthBuffer(1, 1)
	d.Set(0, 0, 1.0)

	if !d.Test(0, 0, 0.5) {
		t.Fatal("0.5 is nearer than 1.0 and should pass")
	}
	if got := d.Get(0, 0); got != 1.0 {
		t.Fatalf("Test must not mutate the buffer, got %v", got)
	}
}

func TestDepthBuffer_Clear(t *testing.T) {
	d := NewDepthBuffer(2, 2)
	d.Set(0, 0, 0.1)
	d.Set(1, 1, 0.2)
	d.Clear()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := d.Get(x, y); !math.IsInf(float64(got), 1) {
				t.Fatalf("Get(%d,%d) after Clear = %v, want +Inf", x, y, got)
			}
		}
	}
}

func TestDepthBuffer_OutOfBounds(t *testing.T) {
	d := NewDepthBuffer(2, 2)

	if got := d.Get(-1, 0); !math.IsInf(float64(got), 1) {
		t.Errorf("out-of-bounds Get should return +Inf, got %v", got)
	}
	if got := d.Get(2, 0); !math.IsInf(float64(got), 1) {
		t.Errorf("out-of-bounds Get should return +Inf, got %v", got)
	}

	if d.Test(-1, 0, 0.0) {
		t.Error("out-of-bounds Test should report false")
	}
	if d.TestAndSet(5, 5, 0.0) {
		t.Error("out-of-bounds TestAndSet should report false")
	}

	d.Set(-1, -1, 0.5) // must not panic
}

func TestDepthBuffer_WidthHeight(t *testing.T) {
	d := NewDepthBuffer(7, 3)
	if d.Width() != 7 || d.Height() != 3 {
		t.Fatalf("Width/Height = %d,%d, want 7,3", d.Width(), d.Height())
	}
	if len(d.GetData()) != 21 {
		t.Fatalf("GetData length = %d, want 21", len(d.GetData()))
	}
}
