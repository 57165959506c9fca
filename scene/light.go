package scene

import (
	"fmt"
	"math"

	"github.com/gogpu/raster/gmath"
)

// PerspectiveLight is a spotlight: it shares the Perspective contract
// with Camera (its shadow map is sized width x height) and additionally
// carries radiant color, intensity, quadratic attenuation and the
// cosines of its inner/outer cone angles.
type PerspectiveLight struct {
	Transform Transform

	fovYRadians float32
	near, far   float32
	width       int
	height      int

	Color     gmath.Vec3
	Intensity float32
	Quadratic float32
	InnerCos  float32
	OuterCos  float32

	cache Mat4Cache
	link  link
}

// NewPerspectiveLight validates construction-time invariants (shadow
// map dimensions, FOV, near/far, cone ordering) and fails fast.
func NewPerspectiveLight(width, height int, fovYRadians, near, far float32, color gmath.Vec3, intensity, quadratic, innerDeg, outerDeg float32) (*PerspectiveLight, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("scene: shadow map dimensions must be >= 1, got %dx%d", width, height)
	}
	if fovYRadians <= 0 {
		return nil, fmt.Errorf("scene: light fov must be positive, got %v", fovYRadians)
	}
	if near <= 0 || far <= near {
		return nil, fmt.Errorf("scene: light near/far invalid, got near=%v far=%v", near, far)
	}
	if outerDeg <= innerDeg {
		return nil, fmt.Errorf("scene: light outer cone (%v deg) must exceed inner cone (%v deg)", outerDeg, innerDeg)
	}

	return &PerspectiveLight{
		Transform:   NewTransform(),
		fovYRadians: fovYRadians,
		near:        near,
		far:         far,
		width:       width,
		height:      height,
		Color:       color,
		Intensity:   intensity,
		Quadratic:   quadratic,
		InnerCos:    float32(math.Cos(float64(degToRad(innerDeg)))),
		OuterCos:    float32(math.Cos(float64(degToRad(outerDeg)))),
		cache:       Mat4Cache{dirty: true},
	}, nil
}

func degToRad(deg float32) float32 { return deg * float32(math.Pi) / 180 }

func (l *PerspectiveLight) Width() int  { return l.width }
func (l *PerspectiveLight) Height() int { return l.height }

func (l *PerspectiveLight) Position() gmath.Vec3 { return l.Transform.Position }
func (l *PerspectiveLight) Forward() gmath.Vec3  { return l.Transform.Forward() }

func (l *PerspectiveLight) SetPosition(p gmath.Vec3) {
	l.Transform.SetPosition(p)
	l.cache.dirty = true
	l.link.notify()
}

func (l *PerspectiveLight) SetRotation(r gmath.Quaternion) {
	l.Transform.SetRotation(r)
	l.cache.dirty = true
	l.link.notify()
}

// LinkTo registers this light as a listener of other's transform
// changes, invoking onUpdate whenever other moves.
func (l *PerspectiveLight) LinkTo(other *Camera, onUpdate func()) {
	other.link.subscribe(onUpdate)
}

// WorldToClip returns Projection * View for this light, recomputed only
// when its transform, FOV or planes changed since the last call.
func (l *PerspectiveLight) WorldToClip() gmath.Mat4 {
	if l.cache.dirty {
		forward := l.Transform.Forward()
		target := l.Transform.Position.Add(forward)
		view := gmath.Mat4LookAt(l.Transform.Position, target, gmath.Vec3Up)
		aspect := float32(l.width) / float32(l.height)
		proj := gmath.Mat4Perspective(l.fovYRadians, aspect, l.near, l.far)
		l.cache.value = proj.Mul(view)
		l.cache.dirty = false
	}
	return l.cache.value
}
