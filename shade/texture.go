package shade

import "github.com/gogpu/raster/scene"

// SampleAlpha returns only the alpha channel of a bilinear texture
// sample, for the shadow pass's fragment processor, which needs a
// fragment's opacity without computing full shading.
func SampleAlpha(tex *scene.Texture, u, v float32) float32 {
	return sampleBilinear(tex, u, v)[3]
}

// sampleBilinear samples tex at normalized UV (clamped to [0,1]) with
// bilinear filtering, returning linear-ish [0,1] RGBA (the source bytes
// are treated as already linear, matching this pipeline's lack of an
// sRGB decode stage).
func sampleBilinear(tex *scene.Texture, u, v float32) [4]float32 {
	u = clamp01(u)
	v = clamp01(v)

	fx := u*float32(tex.Width) - 0.5
	fy := v*float32(tex.Height) - 0.5

	x0 := int(floor32(fx))
	y0 := int(floor32(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x0 = clampInt(x0, 0, tex.Width-1)
	y0 = clampInt(y0, 0, tex.Height-1)
	x1 := clampInt(x0+1, 0, tex.Width-1)
	y1 := clampInt(y0+1, 0, tex.Height-1)

	c00 := texel(tex, x0, y0)
	c10 := texel(tex, x1, y0)
	c01 := texel(tex, x0, y1)
	c11 := texel(tex, x1, y1)

	top := lerp4(c00, c10, tx)
	bot := lerp4(c01, c11, tx)
	return lerp4(top, bot, ty)
}

func texel(tex *scene.Texture, x, y int) [4]float32 {
	i := (y*tex.Width + x) * 4
	return [4]float32{
		float32(tex.Pixels[i]) / 255,
		float32(tex.Pixels[i+1]) / 255,
		float32(tex.Pixels[i+2]) / 255,
		float32(tex.Pixels[i+3]) / 255,
	}
}

func lerp4(a, b [4]float32, t float32) [4]float32 {
	var r [4]float32
	for i := range r {
		r[i] = a[i] + (b[i]-a[i])*t
	}
	return r
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floor32(v float32) float32 {
	i := float32(int(v))
	if v < 0 && i != v {
		return i - 1
	}
	return i
}
