// Command demo drives the rasterizer end to end: it loads a glTF mesh
// (or falls back to a built-in cube), opens a window for camera input,
// and periodically snapshots the rendered frame to a PNG file. It is
// the library's integration smoke test as much as a sample program.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/go-gl/glfw/v3.3/glfw"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/gogpu/raster/config"
	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/pipeline"
	"github.com/gogpu/raster/rlog"
	"github.com/gogpu/raster/scene"
)

// maxTextureEdge bounds a loaded texture's longest edge; source images
// larger than this are downsampled once at load time rather than paid
// for every bilinear sample at render time.
const maxTextureEdge = 1024

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		configPath  = flag.String("config", "", "path to a pipeline TOML config (defaults used if omitted)")
		meshPath    = flag.String("mesh", "", "path to a .gltf/.glb mesh (a built-in cube is used if omitted)")
		width       = flag.Int("width", 1280, "framebuffer width")
		height      = flag.Int("height", 720, "framebuffer height")
		snapshotEvery = flag.Int("snapshot-every", 120, "write a PNG snapshot every N frames (0 disables)")
		out         = flag.String("out", "frame.png", "snapshot output path")
		verbose     = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		rlog.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default(*width, *height)
	if *configPath != "" {
		loaded, err := config.Load(*configPath, *width, *height)
		if err != nil {
			fmt.Fprintln(os.Stderr, "demo:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	textures := newTextureCache(64)

	var mesh *scene.Mesh
	if *meshPath != "" {
		m, err := loadGLTFMesh(*meshPath, textures)
		if err != nil {
			fmt.Fprintln(os.Stderr, "demo:", err)
			os.Exit(1)
		}
		mesh = m
	} else {
		mesh = buildCube()
	}

	camera, err := scene.NewCamera(*width, *height, degToRad(60), 0.1, 100)
	if err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
	camera.SetPosition(gmath.Vec3{X: 0, Y: 1.5, Z: 4})

	light, err := scene.NewPerspectiveLight(cfg.ShadowMapWidth, cfg.ShadowMapHeight, degToRad(50), 0.5, 50,
		gmath.Vec3{X: 1, Y: 1, Z: 0.95}, 8, 0.05, 15, 25)
	if err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
	light.SetPosition(gmath.Vec3{X: 3, Y: 5, Z: 3})
	light.SetRotation(lookRotation(gmath.Vec3{X: 3, Y: 5, Z: 3}, gmath.Vec3Zero))

	s := scene.NewScene(camera)
	s.AddMesh(mesh)
	s.BackgroundRGBA = [4]uint8{20, 20, 28, 255}

	p, err := pipeline.New(*width, *height, []*scene.PerspectiveLight{light}, cfg, 0.5, 32)
	if err != nil {
		fmt.Fprintln(os.Stderr, "demo:", err)
		os.Exit(1)
	}
	defer p.Close()

	if err := glfw.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "demo: glfw init:", err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	win, err := glfw.CreateWindow(*width, *height, "rasterizer demo", nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "demo: create window:", err)
		os.Exit(1)
	}
	defer win.Destroy()

	orbit := float32(0)
	frame := 0
	lastReport := time.Now()

	for !win.ShouldClose() {
		glfw.PollEvents()
		if win.GetKey(glfw.KeyEscape) == glfw.Press {
			win.SetShouldClose(true)
		}

		orbit += orbitSpeed(win)
		radius := float32(4)
		camera.SetPosition(gmath.Vec3{X: radius * float32(math.Sin(float64(orbit))), Y: 1.5, Z: radius * float32(math.Cos(float64(orbit)))})
		camera.SetRotation(lookRotation(camera.Position(), gmath.Vec3Zero))

		start := time.Now()
		pixels := p.Render(s)
		rlog.Logger().Debug("frame rendered", "frame", frame, "ms", time.Since(start).Milliseconds())

		if *snapshotEvery > 0 && frame%*snapshotEvery == 0 {
			if err := writeSnapshot(*out, pixels, *width, *height); err != nil {
				rlog.Logger().Warn("snapshot failed", "error", err)
			}
		}

		if time.Since(lastReport) > time.Second {
			rlog.Logger().Info("running", "frame", frame)
			lastReport = time.Now()
		}
		frame++
	}
}

func orbitSpeed(win *glfw.Window) float32 {
	speed := float32(0.01)
	if win.GetKey(glfw.KeyLeft) == glfw.Press {
		return -speed
	}
	if win.GetKey(glfw.KeyRight) == glfw.Press {
		return speed
	}
	return 0
}

func degToRad(deg float32) float32 { return deg * float32(math.Pi) / 180 }

// lookRotation builds the quaternion that points -Z (this module's
// forward convention) from eye toward target.
func lookRotation(eye, target gmath.Vec3) gmath.Quaternion {
	forward := target.Sub(eye).Normalize()
	defaultForward := gmath.Vec3{X: 0, Y: 0, Z: -1}
	axis := defaultForward.Cross(forward)
	dot := defaultForward.Dot(forward)
	if axis.LengthSqr() < 1e-10 {
		if dot > 0 {
			return gmath.QuaternionIdentity()
		}
		return gmath.QuaternionFromAxisAngle(gmath.Vec3Up, float32(math.Pi))
	}
	angle := float32(math.Acos(float64(clampf(dot, -1, 1))))
	return gmath.QuaternionFromAxisAngle(axis.Normalize(), angle)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func writeSnapshot(path string, pixels []uint8, width, height int) error {
	img := &image.RGBA{Pix: pixels, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("demo: create %s: %w", path, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

// textureCache bounds how many decoded textures are kept resident,
// keyed by source path, grounded on noisetorch-NoiseTorch's use of
// hashicorp/golang-lru for its device lookup cache.
type textureCache struct {
	cache *lru.Cache[string, *scene.Texture]
}

func newTextureCache(size int) *textureCache {
	c, err := lru.New[string, *scene.Texture](size)
	if err != nil {
		panic(err) // size <= 0 is the only failure mode; the caller passes a positive size
	}
	return &textureCache{cache: c}
}

func (t *textureCache) load(path string) (*scene.Texture, error) {
	if tex, ok := t.cache.Get(path); ok {
		return tex, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("demo: open texture %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("demo: decode texture %s: %w", path, err)
	}

	tex := textureFromImage(src)
	t.cache.Add(path, tex)
	return tex, nil
}

// textureFromImage converts a decoded image to the scene's RGBA8
// contract, downsampling with golang.org/x/image/draw's bilinear
// scaler first if either edge exceeds maxTextureEdge.
func textureFromImage(src image.Image) *scene.Texture {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxTextureEdge || h > maxTextureEdge {
		scale := float64(maxTextureEdge) / float64(maxInt(w, h))
		nw, nh := maxInt(1, int(float64(w)*scale)), maxInt(1, int(float64(h)*scale))
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
		w, h = nw, nh
		src = dst
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)

	opaque := true
	for i := 3; i < len(rgba.Pix); i += 4 {
		if rgba.Pix[i] != 255 {
			opaque = false
			break
		}
	}

	return &scene.Texture{Width: w, Height: h, Pixels: rgba.Pix, IsOpaque: opaque}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// loadGLTFMesh reads the first mesh primitive of a .gltf/.glb document,
// grounded on mrigankad-gorenderengine's gltf_loader.go, trimmed to this
// module's single-mesh-per-scene demo scope (no node hierarchy, no PBR
// material approximation beyond the base color texture).
func loadGLTFMesh(path string, textures *textureCache) (*scene.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("demo: open gltf %s: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("demo: %s has no mesh primitives", path)
	}
	prim := doc.Meshes[0].Primitives[0]

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("demo: %s: primitive has no POSITION attribute", path)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("demo: read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]scene.MeshVertex, len(positions))
	for i, pos := range positions {
		v := scene.MeshVertex{
			Position: gmath.Vec3{X: pos[0], Y: pos[1], Z: pos[2]},
			Normal:   gmath.Vec3{X: 0, Y: 1, Z: 0},
			Color:    [4]uint8{255, 255, 255, 255},
		}
		if i < len(normals) {
			v.Normal = gmath.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
		}
		if i < len(uvs) {
			v.UV = gmath.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("demo: read indices: %w", err)
		}
	}

	var tex *scene.Texture
	if prim.Material != nil && *prim.Material < len(doc.Materials) {
		mat := doc.Materials[*prim.Material]
		if mat.PBRMetallicRoughness != nil && mat.PBRMetallicRoughness.BaseColorTexture != nil {
			ti := mat.PBRMetallicRoughness.BaseColorTexture.Index
			if gt := doc.Textures[ti]; gt.Source != nil {
				img := doc.Images[*gt.Source]
				if img.URI != "" && !img.IsEmbeddedResource() {
					tex, err = textures.load(filepath.Join(filepath.Dir(path), img.URI))
					if err != nil {
						rlog.Logger().Warn("gltf texture load failed", "error", err)
						tex = nil
					}
				}
			}
		}
	}

	return scene.NewMesh(verts, indices, tex), nil
}

// buildCube returns a 2x2x2 cube (vertices at ±1) centered on the origin, used when no
// mesh file is supplied.
func buildCube() *scene.Mesh {
	type face struct {
		normal gmath.Vec3
		verts  [4]gmath.Vec3
	}
	faces := []face{
		{gmath.Vec3{X: 0, Y: 0, Z: 1}, [4]gmath.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
		{gmath.Vec3{X: 0, Y: 0, Z: -1}, [4]gmath.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
		{gmath.Vec3{X: 1, Y: 0, Z: 0}, [4]gmath.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
		{gmath.Vec3{X: -1, Y: 0, Z: 0}, [4]gmath.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
		{gmath.Vec3{X: 0, Y: 1, Z: 0}, [4]gmath.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
		{gmath.Vec3{X: 0, Y: -1, Z: 0}, [4]gmath.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
	}
	uvs := [4]gmath.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	var verts []scene.MeshVertex
	var indices []uint32
	for _, f := range faces {
		base := uint32(len(verts))
		for i, p := range f.verts {
			verts = append(verts, scene.MeshVertex{
				Position: p, Normal: f.normal, UV: uvs[i], Color: [4]uint8{255, 255, 255, 255},
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return scene.NewMesh(verts, indices, nil)
}
