package shadow

// DeepShadowMap is a W x H grid of VisibilityFunctions for one light,
// plus a bias (half a texel) applied during sampling to reduce
// self-shadowing acne.
type DeepShadowMap struct {
	width, height int
	pixels        []VisibilityFunction
	bias          float32
	epsilon       float32
}

// NewDeepShadowMap allocates a shadow map of the given resolution.
// epsilon <= 0 uses CompressionEpsilon.
func NewDeepShadowMap(width, height int, epsilon float32) *DeepShadowMap {
	if epsilon <= 0 {
		epsilon = CompressionEpsilon
	}
	pixels := make([]VisibilityFunction, width*height)
	for i := range pixels {
		pixels[i] = newVisibilityFunction()
	}

	bias := 0.5 / float32(width)
	if hb := 0.5 / float32(height); hb > bias {
		bias = hb
	}

	return &DeepShadowMap{width: width, height: height, pixels: pixels, bias: bias, epsilon: epsilon}
}

func (m *DeepShadowMap) Width() int    { return m.width }
func (m *DeepShadowMap) Height() int   { return m.height }
func (m *DeepShadowMap) Bias() float32 { return m.bias }

// Clear resets every pixel to an empty visibility function, for reuse
// across frames without reallocating the backing slice.
func (m *DeepShadowMap) Clear() {
	for i := range m.pixels {
		m.pixels[i] = newVisibilityFunction()
	}
}

// Add records an occluder sample at (x, y, z, alpha). Out-of-bounds
// coordinates are silently ignored.
func (m *DeepShadowMap) Add(x, y int, z, alpha float32) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.pixels[y*m.width+x].add(z, alpha)
}

// Initialize finalizes every pixel's visibility function: sort, prune,
// accumulate, compress. Call once per frame after all tile-local maps
// for this light have been merged in.
func (m *DeepShadowMap) Initialize() {
	for i := range m.pixels {
		m.pixels[i].initialize(m.epsilon)
	}
}

// Sample returns the visibility at pixel (x, y) and depth z, applying
// the map's bias. Out-of-bounds coordinates return full visibility (1):
// callers are expected to have already bounds-checked against the
// light's shadow-map coordinates and treat that case as "no shadow
// information available", not "fully shadowed".
func (m *DeepShadowMap) Sample(x, y int, z float32) float32 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 1
	}
	return m.pixels[y*m.width+x].sample(z, m.bias)
}

// Merge folds another shadow map's raw (pre-initialize) data into m,
// pixel by pixel: opaqueDepth merges by minimum, and the source's
// non-initial points are appended to the destination's. Used to
// combine a worker's tile-local shadow map into the frame's main map.
// Call Initialize once on the destination after every tile has merged.
func (m *DeepShadowMap) Merge(tile *DeepShadowMap, originX, originY int) {
	for ty := 0; ty < tile.height; ty++ {
		my := originY + ty
		if my < 0 || my >= m.height {
			continue
		}
		for tx := 0; tx < tile.width; tx++ {
			mx := originX + tx
			if mx < 0 || mx >= m.width {
				continue
			}
			src := &tile.pixels[ty*tile.width+tx]
			dst := &m.pixels[my*m.width+mx]

			if src.hasOpaque && (!dst.hasOpaque || src.opaqueDepth < dst.opaqueDepth) {
				dst.opaqueDepth = src.opaqueDepth
				dst.hasOpaque = true
			}
			for _, p := range src.points[1:] {
				dst.points = append(dst.points, p)
			}
		}
	}
}
