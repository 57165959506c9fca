// Package shadow implements deep shadow maps: per-pixel visibility-vs-depth
// functions that support translucent occluders, built once per light per
// frame from a tile-partitioned rasterization pass and sampled read-only
// during the color pass.
//
// Grounded on the depth-map struct shape of
// other_examples/swordkee-fauxgl-gltf's ShadowMap (width/height-indexed
// buffer, bounds-checked Get/Set), generalized from a single depth scalar
// per pixel into an ordered visibility function per pixel; none of that
// file's PCF/PCSS filtering is carried over.
package shadow

import "sort"

// CompressionEpsilon is the default slope-interval tolerance for
// VisibilityFunction compression, in visibility units (~half a texel
// equivalent).
const CompressionEpsilon = 0.0125

// VisibilityPoint is one sample of a per-pixel visibility-vs-depth
// function. Before initialize, Visibility holds a translucent
// fragment's transparency (1-alpha); after, it holds cumulative
// visibility along the view ray.
type VisibilityPoint struct {
	Depth      float32
	Visibility float32
}

// VisibilityFunction is the ordered sequence of VisibilityPoints for one
// shadow-map pixel, starting with (0, 1), plus an optional opaque
// occluder depth.
type VisibilityFunction struct {
	points      []VisibilityPoint
	opaqueDepth float32
	hasOpaque   bool
}

func newVisibilityFunction() VisibilityFunction {
	return VisibilityFunction{points: []VisibilityPoint{{Depth: 0, Visibility: 1}}}
}

// add records an occluder sample. Opaque fragments (alpha >= 1) cap the
// function at the nearest such depth seen; translucent fragments append
// a (depth, transparency) point unless a nearer opaque occluder already
// makes them invisible.
func (f *VisibilityFunction) add(z, alpha float32) {
	if alpha >= 1 {
		if !f.hasOpaque || z < f.opaqueDepth {
			f.opaqueDepth = z
			f.hasOpaque = true
		}
		return
	}
	if alpha <= 0 {
		return
	}
	if f.hasOpaque && f.opaqueDepth <= z {
		return
	}
	f.points = append(f.points, VisibilityPoint{Depth: z, Visibility: 1 - alpha})
}

// initialize finalizes the function: appends the opaque terminal point,
// sorts by depth, prunes points an opaque occluder already hides,
// accumulates visibility, and compresses.
func (f *VisibilityFunction) initialize(epsilon float32) {
	sort.Slice(f.points, func(i, j int) bool { return f.points[i].Depth < f.points[j].Depth })

	if f.hasOpaque {
		kept := make([]VisibilityPoint, 0, len(f.points)+1)
		for _, p := range f.points {
			if p.Depth < f.opaqueDepth {
				kept = append(kept, p)
			}
		}
		kept = append(kept, VisibilityPoint{Depth: f.opaqueDepth, Visibility: 0})
		f.points = kept
	}

	for i := 1; i < len(f.points); i++ {
		v := f.points[i-1].Visibility * f.points[i].Visibility
		if v < 0 {
			v = 0
		}
		f.points[i].Visibility = v
	}

	f.points = compress(f.points, epsilon)
}

// compress applies the incremental slope-interval tolerance
// simplification described for deep shadow maps: a feasible slope
// interval is maintained from the current breakpoint, and a new
// breakpoint is emitted only once no slope satisfies every point seen
// since the last breakpoint within +/-epsilon.
func compress(points []VisibilityPoint, epsilon float32) []VisibilityPoint {
	if len(points) <= 1 {
		return points
	}

	out := []VisibilityPoint{points[0]}
	baseIdx := 0
	mLo, mHi := float32(negInf), float32(posInf)
	haveInterval := false

	for j := 1; j < len(points); j++ {
		base := points[baseIdx]
		dz := points[j].Depth - base.Depth
		if dz <= 0 {
			continue
		}

		upper := (points[j].Visibility + epsilon - base.Visibility) / dz
		lower := (points[j].Visibility - epsilon - base.Visibility) / dz

		newLo, newHi := lower, upper
		if haveInterval {
			newLo = max32(mLo, lower)
			newHi = min32(mHi, upper)
		}

		if newLo > newHi {
			brk := points[j-1]
			mid := (mLo + mHi) / 2
			v := base.Visibility + mid*(brk.Depth-base.Depth)
			v = clamp01(v)
			out = append(out, VisibilityPoint{Depth: brk.Depth, Visibility: v})

			baseIdx = j - 1
			base = points[baseIdx]
			dz = points[j].Depth - base.Depth
			if dz <= 0 {
				haveInterval = false
				continue
			}
			mLo = (points[j].Visibility - epsilon - base.Visibility) / dz
			mHi = (points[j].Visibility + epsilon - base.Visibility) / dz
			haveInterval = true
			continue
		}

		mLo, mHi = newLo, newHi
		haveInterval = true
	}

	last := points[len(points)-1]
	if out[len(out)-1].Depth != last.Depth {
		out = append(out, last)
	}
	return out
}

const negInf = float32(-1e30)
const posInf = float32(1e30)

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
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

// sample returns the visibility at depth z-b using a piecewise-constant
// lookup over the largest breakpoint with depth <= z-b. Linear scan is
// used for small point counts; binary search above 25 points.
func (f *VisibilityFunction) sample(z, bias float32) float32 {
	zb := z - bias
	if f.hasOpaque && zb >= f.opaqueDepth {
		return 0
	}

	points := f.points
	if len(points) <= 25 {
		best := points[0].Visibility
		for _, p := range points {
			if p.Depth <= zb {
				best = p.Visibility
			} else {
				break
			}
		}
		return best
	}

	lo, hi := 0, len(points)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if points[mid].Depth <= zb {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return points[lo].Visibility
}
