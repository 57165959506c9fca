package scene

import (
	"fmt"

	"github.com/gogpu/raster/gmath"
)

// Camera is a perspective viewpoint: position, rotation, field of view
// and near/far planes, with a cached view-projection matrix recomputed
// only when something affecting it changes. Grounded on
// mrigankad-gorenderengine's scene.Camera (dirty-flag matrix caching,
// SetPosition/SetRotation/LookAt), generalized into this system's
// Perspective contract and the non-cyclic Link mechanism the teacher
// did not have.
type Camera struct {
	Transform Transform

	fovYRadians float32
	near, far   float32
	width       int
	height      int

	cache Mat4Cache
	link  link
}

// NewCamera validates construction-time invariants and fails fast:
// configuration errors (non-positive dimensions, non-positive FOV,
// near >= far) are not recoverable mid-frame.
func NewCamera(width, height int, fovYRadians, near, far float32) (*Camera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("scene: camera dimensions must be positive, got %dx%d", width, height)
	}
	if fovYRadians <= 0 {
		return nil, fmt.Errorf("scene: camera fov must be positive, got %v", fovYRadians)
	}
	if near <= 0 || far <= near {
		return nil, fmt.Errorf("scene: camera near/far invalid, got near=%v far=%v", near, far)
	}

	c := &Camera{
		Transform:   NewTransform(),
		fovYRadians: fovYRadians,
		near:        near,
		far:         far,
		width:       width,
		height:      height,
		cache:       Mat4Cache{dirty: true},
	}
	return c, nil
}

// Resize updates the output dimensions (and therefore aspect ratio).
func (c *Camera) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("scene: camera dimensions must be positive, got %dx%d", width, height)
	}
	c.width, c.height = width, height
	c.cache.dirty = true
	return nil
}

func (c *Camera) Width() int  { return c.width }
func (c *Camera) Height() int { return c.height }
func (c *Camera) aspect() float32 { return float32(c.width) / float32(c.height) }

func (c *Camera) SetPosition(p gmath.Vec3) {
	c.Transform.SetPosition(p)
	c.cache.dirty = true
	c.link.notify()
}

func (c *Camera) SetRotation(r gmath.Quaternion) {
	c.Transform.SetRotation(r)
	c.cache.dirty = true
	c.link.notify()
}

func (c *Camera) SetFOV(fovYRadians float32) error {
	if fovYRadians <= 0 {
		return fmt.Errorf("scene: camera fov must be positive, got %v", fovYRadians)
	}
	c.fovYRadians = fovYRadians
	c.cache.dirty = true
	return nil
}

func (c *Camera) SetNearFar(near, far float32) error {
	if near <= 0 || far <= near {
		return fmt.Errorf("scene: camera near/far invalid, got near=%v far=%v", near, far)
	}
	c.near, c.far = near, far
	c.cache.dirty = true
	return nil
}

// LinkTo registers this camera as a listener of other's transform
// changes, invoking onUpdate whenever other moves. Linking is
// non-cyclic: the caller is responsible for not forming a cycle of
// links (the updating guard only prevents re-entrant notification
// within a single propagation, not cycle formation).
func (c *Camera) LinkTo(other *Camera, onUpdate func()) {
	other.link.subscribe(onUpdate)
}

// Position returns the camera's world position.
func (c *Camera) Position() gmath.Vec3 { return c.Transform.Position }

// WorldToClip returns Projection * View, recomputed only when the
// camera's transform, FOV or planes changed since the last call.
func (c *Camera) WorldToClip() gmath.Mat4 {
	if c.cache.dirty {
		forward := c.Transform.Forward()
		target := c.Transform.Position.Add(forward)
		view := gmath.Mat4LookAt(c.Transform.Position, target, gmath.Vec3Up)
		proj := gmath.Mat4Perspective(c.fovYRadians, c.aspect(), c.near, c.far)
		c.cache.value = proj.Mul(view)
		c.cache.dirty = false
	}
	return c.cache.value
}
