// Package scene holds the library's scene-graph data model: meshes,
// cameras, lights and the scene they compose into, plus a small
// non-cyclic transform-linking mechanism so a light or camera can track
// another object's position without the pipeline re-deriving it every
// frame.
//
// Grounded on mrigankad-gorenderengine's scene/{camera,mesh,node}.go and
// core/types.go (dirty-flag cached matrices, Transform as
// position/rotation/scale), adapted from a GPU-buffer-backed scene graph
// into plain CPU data consumed directly by the geometry pipeline.
package scene

import "github.com/gogpu/raster/gmath"

// Transform is a position/rotation/scale triple with a cached model
// matrix, recomputed lazily on read after any setter marks it dirty.
type Transform struct {
	Position gmath.Vec3
	Rotation gmath.Quaternion
	Scale    gmath.Vec3

	matrix Mat4Cache
}

// Mat4Cache holds a lazily (re)computed matrix and the dirty flag that
// guards it.
type Mat4Cache struct {
	value gmath.Mat4
	dirty bool
}

func NewTransform() Transform {
	return Transform{
		Position: gmath.Vec3Zero,
		Rotation: gmath.QuaternionIdentity(),
		Scale:    gmath.Vec3One,
		matrix:   Mat4Cache{dirty: true},
	}
}

// Matrix returns the model matrix T*R*S (column-vector convention:
// applies S first, then R, then T).
func (t *Transform) Matrix() gmath.Mat4 {
	if t.matrix.dirty {
		t.matrix.value = gmath.Mat4TRS(t.Position, t.Rotation, t.Scale)
		t.matrix.dirty = false
	}
	return t.matrix.value
}

func (t *Transform) SetPosition(p gmath.Vec3) {
	t.Position = p
	t.matrix.dirty = true
}

func (t *Transform) SetRotation(r gmath.Quaternion) {
	t.Rotation = r
	t.matrix.dirty = true
}

func (t *Transform) SetScale(s gmath.Vec3) {
	t.Scale = s
	t.matrix.dirty = true
}

func (t *Transform) Forward() gmath.Vec3 {
	return t.Rotation.Forward()
}
