package shade

import (
	"math"
	"testing"

	"github.com/gogpu/raster/gmath"
	"github.com/gogpu/raster/raster"
	"github.com/gogpu/raster/scene"
	"github.com/gogpu/raster/shadow"
)

func approxEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

// Boundary scenario 3: spotlight cone, inner=10deg outer=20deg.
func TestSpotFactorCone(t *testing.T) {
	inner := float32(math.Cos(10 * math.Pi / 180))
	outer := float32(math.Cos(20 * math.Pi / 180))

	spot0, lit0 := spotFactor(float32(math.Cos(0)), inner, outer)
	if !lit0 || !approxEqual(spot0, 1, 1e-4) {
		t.Fatalf("0deg: spot=%v lit=%v, want 1,true", spot0, lit0)
	}

	cos15 := float32(math.Cos(15 * math.Pi / 180))
	spot15, lit15 := spotFactor(cos15, inner, outer)
	want15 := (cos15 - outer) / (inner - outer)
	if !lit15 || !approxEqual(spot15, want15, 1e-4) {
		t.Fatalf("15deg: spot=%v lit=%v, want %v,true", spot15, lit15, want15)
	}

	cos25 := float32(math.Cos(25 * math.Pi / 180))
	spot25, lit25 := spotFactor(cos25, inner, outer)
	if lit25 || spot25 != 0 {
		t.Fatalf("25deg: spot=%v lit=%v, want 0,false", spot25, lit25)
	}
}

func makeFragment(numLights int, worldPos, normal gmath.Vec3, lightClips []gmath.Vec4) raster.Fragment {
	attrs := make([]float32, raster.AttrCount(numLights))
	attrs[raster.AttrWorld], attrs[raster.AttrWorld+1], attrs[raster.AttrWorld+2] = worldPos.X, worldPos.Y, worldPos.Z
	attrs[raster.AttrNormal], attrs[raster.AttrNormal+1], attrs[raster.AttrNormal+2] = normal.X, normal.Y, normal.Z
	attrs[raster.AttrColor], attrs[raster.AttrColor+1], attrs[raster.AttrColor+2], attrs[raster.AttrColor+3] = 1, 1, 1, 1
	for i, lc := range lightClips {
		o := raster.AttrLightClipBase + 4*i
		attrs[o], attrs[o+1], attrs[o+2], attrs[o+3] = lc.X, lc.Y, lc.Z, lc.W
	}
	return raster.Fragment{InvW: 1, Attributes: attrs}
}

// Boundary scenario 6: a translucent occluder halves a receiver's
// diffuse contribution via shadow-map visibility, attenuation disabled
// (quadratic=0).
func TestShadowAttenuationHalvesDiffuse(t *testing.T) {
	light, err := scene.NewPerspectiveLight(64, 64, math.Pi/3, 0.1, 10, gmath.Vec3{X: 1, Y: 1, Z: 1}, 1, 0, 10, 20)
	if err != nil {
		t.Fatalf("NewPerspectiveLight: %v", err)
	}
	light.SetPosition(gmath.Vec3{X: 0, Y: 0, Z: 0})
	light.SetRotation(gmath.QuaternionIdentity())

	sm := shadow.NewDeepShadowMap(64, 64, shadow.CompressionEpsilon)
	sm.Add(32, 32, 0.3, 0.5)
	sm.Initialize()

	lit := LightSource{Light: light, Map: sm}

	// Receiver on the light axis, looking straight down the light's
	// forward axis so the light-clip NDC lands near (0,0), z=0.6.
	lightClip := gmath.Vec4{X: 0, Y: 0, Z: 0.6, W: 1}
	receiverPos := gmath.Vec3{X: 0, Y: 0, Z: -0.6}
	normal := gmath.Vec3{X: 0, Y: 0, Z: 1}

	mat := Material{
		Ambient:          gmath.Vec3{X: 0, Y: 0, Z: 0},
		CameraPosition:   gmath.Vec3{X: 0, Y: 0, Z: 0},
		SpecularStrength: 0,
		Shininess:        1,
	}

	fragShadowed := makeFragment(1, receiverPos, normal, []gmath.Vec4{lightClip})
	shadowed := Fragment(fragShadowed, nil, []LightSource{lit}, mat)

	unshadowedMap := shadow.NewDeepShadowMap(64, 64, shadow.CompressionEpsilon)
	unshadowedMap.Initialize()
	litUnshadowed := LightSource{Light: light, Map: unshadowedMap}
	fragUnshadowed := makeFragment(1, receiverPos, normal, []gmath.Vec4{lightClip})
	unshadowed := Fragment(fragUnshadowed, nil, []LightSource{litUnshadowed}, mat)

	ratio := float32(shadowed[0]) / float32(unshadowed[0])
	if !approxEqual(ratio, 0.5, 0.05) {
		t.Fatalf("shadowed/unshadowed diffuse ratio = %v, want ~0.5", ratio)
	}
}

// Boundary scenario 5: alpha-over an opaque black background with an
// alpha=128 white source yields RGBA ~= (128,128,128,255) and leaves
// the depth buffer untouched.
func TestAlphaOverWhiteOnBlack(t *testing.T) {
	dst := [4]uint8{0, 0, 0, 255}
	src := [4]uint8{255, 255, 255, 128}

	if raster.IsOpaque(src[3]) {
		t.Fatalf("alpha=128 must not be treated as opaque")
	}

	out := raster.BlendPixel(src, dst)
	for i := 0; i < 3; i++ {
		if out[i] < 126 || out[i] > 130 {
			t.Fatalf("channel %d = %d, want ~128", i, out[i])
		}
	}
	if out[3] != 255 {
		t.Fatalf("alpha = %d, want 255 (opaque background stays opaque)", out[3])
	}

	depth := raster.NewDepthBuffer(1, 1)
	before := depth.Get(0, 0)
	// Alpha-blended fragments never call Set/TestAndSet on the depth
	// buffer; verify it is still at its cleared +Inf value.
	if depth.Get(0, 0) != before || !math.IsInf(float64(before), 1) {
		t.Fatalf("depth buffer expected +Inf, got %v", before)
	}
}
