package scene

import "github.com/gogpu/raster/gmath"

// Scene is the camera, background, ambient term and mesh list the
// pipeline renders each frame. Lights are owned by the pipeline, not
// the scene, because their shadow-map resources are preallocated per
// light at pipeline construction.
type Scene struct {
	Camera         *Camera
	Meshes         []*Mesh
	BackgroundRGBA [4]uint8
	AmbientRGB     gmath.Vec3
}

func NewScene(camera *Camera) *Scene {
	return &Scene{
		Camera:         camera,
		BackgroundRGBA: [4]uint8{0, 0, 0, 255},
		AmbientRGB:     gmath.Vec3{X: 0.05, Y: 0.05, Z: 0.05},
	}
}

func (s *Scene) AddMesh(m *Mesh) {
	s.Meshes = append(s.Meshes, m)
}
