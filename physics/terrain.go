package physics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

var ErrEmptyHeightmap = errors.New("heightmap has no pixels")

// Terrain is a heightfield generated from a grayscale image
// Grid is centered on the world origin, one unit per pixel; X maps to columns, Z to rows
type Terrain struct {
	width, depth int

	normalized []float64 // Smoothed samples in [0,1]
	heights    []float64 // normalized * maxHeight, clamped to the heightfield range
	edges      []float64 // Sobel magnitude in [0,1]

	maxHeight    float64
	smoothLevels int
}

// NewTerrain builds a heightfield from an image
// Each pass of smoothLevels applies a 3x3 box blur before normalization
func NewTerrain(img image.Image, smoothLevels int, maxHeight float64) (*Terrain, error) {
	bounds := img.Bounds()
	w, d := bounds.Dx(), bounds.Dy()
	if w == 0 || d == 0 {
		return nil, ErrEmptyHeightmap
	}
	if w < 2 || d < 2 {
		return nil, fmt.Errorf("heightmap %dx%d too small for a heightfield", w, d)
	}

	samples := make([]float64, w*d)
	for z := 0; z < d; z++ {
		for x := 0; x < w; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+z)).(color.Gray)
			samples[z*w+x] = float64(g.Y)
		}
	}

	for i := 0; i < smoothLevels; i++ {
		samples = boxBlur(samples, w, d)
	}

	t := &Terrain{
		width:        w,
		depth:        d,
		normalized:   make([]float64, w*d),
		heights:      make([]float64, w*d),
		smoothLevels: smoothLevels,
	}
	for i, s := range samples {
		t.normalized[i] = s / 255
	}
	t.edges = sobel(t.normalized, w, d)
	t.SetMaxHeight(maxHeight)
	return t, nil
}

// boxBlur averages each sample with its in-bounds 3x3 neighbourhood
func boxBlur(src []float64, w, d int) []float64 {
	dst := make([]float64, len(src))
	for z := 0; z < d; z++ {
		for x := 0; x < w; x++ {
			sum, n := 0.0, 0
			for dz := -1; dz <= 1; dz++ {
				for dx := -1; dx <= 1; dx++ {
					nx, nz := x+dx, z+dz
					if nx >= 0 && nx < w && nz >= 0 && nz < d {
						sum += src[nz*w+nx]
						n++
					}
				}
			}
			dst[z*w+x] = sum / float64(n)
		}
	}
	return dst
}

// sobel returns normalized gradient magnitude, used by map tooling to outline ridges
func sobel(src []float64, w, d int) []float64 {
	at := func(x, z int) float64 {
		x = max(0, min(w-1, x))
		z = max(0, min(d-1, z))
		return src[z*w+x]
	}
	out := make([]float64, len(src))
	peak := 0.0
	for z := 0; z < d; z++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, z-1) - 2*at(x-1, z) - at(x-1, z+1) + at(x+1, z-1) + 2*at(x+1, z) + at(x+1, z+1)
			gz := -at(x-1, z-1) - 2*at(x, z-1) - at(x+1, z-1) + at(x-1, z+1) + 2*at(x, z+1) + at(x+1, z+1)
			m := math.Hypot(gx, gz)
			out[z*w+x] = m
			peak = math.Max(peak, m)
		}
	}
	if peak > 0 {
		for i := range out {
			out[i] /= peak
		}
	}
	return out
}

// SetMaxHeight rescales heights; values at or below the minimum are ignored
// Returns true if the scale changed
func (t *Terrain) SetMaxHeight(h float64) bool {
	if h <= parameter.MinTerrainMaxHeight {
		return false
	}
	t.maxHeight = h
	for i, n := range t.normalized {
		t.heights[i] = vmath.Clamp(n*h, parameter.HeightfieldMin, parameter.HeightfieldMax)
	}
	return true
}

func (t *Terrain) MaxHeight() float64     { return t.maxHeight }
func (t *Terrain) Size() (int, int)        { return t.width, t.depth }
func (t *Terrain) SmoothLevels() int       { return t.smoothLevels }
func (t *Terrain) EdgeMask() []float64     { return t.edges }
func (t *Terrain) Normalized() []float64   { return t.normalized }
func (t *Terrain) Kind() ShapeKind         { return ShapeHeightfield }
func (t *Terrain) Inertia(float64) mgl64.Vec3 { return mgl64.Vec3{} }
func (t *Terrain) SupportPoints() []mgl64.Vec3 { return nil }

func (t *Terrain) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	hx, hz := float64(t.width-1)/2, float64(t.depth-1)/2
	return mgl64.Vec3{-hx, parameter.HeightfieldMin, -hz}, mgl64.Vec3{hx, parameter.HeightfieldMax, hz}
}

// Height samples the surface at world x,z with bilinear interpolation
// Returns false outside the grid
func (t *Terrain) Height(x, z float64) (float64, bool) {
	gx := x + float64(t.width-1)/2
	gz := z + float64(t.depth-1)/2
	if gx < 0 || gz < 0 || gx > float64(t.width-1) || gz > float64(t.depth-1) {
		return 0, false
	}
	x0, z0 := int(math.Floor(gx)), int(math.Floor(gz))
	x1, z1 := min(x0+1, t.width-1), min(z0+1, t.depth-1)
	fx, fz := gx-float64(x0), gz-float64(z0)

	h00 := t.heights[z0*t.width+x0]
	h10 := t.heights[z0*t.width+x1]
	h01 := t.heights[z1*t.width+x0]
	h11 := t.heights[z1*t.width+x1]

	top := h00 + (h10-h00)*fx
	bottom := h01 + (h11-h01)*fx
	return top + (bottom-top)*fz, true
}

// Normal estimates the surface normal from central differences
func (t *Terrain) Normal(x, z float64) mgl64.Vec3 {
	const e = 0.5
	hl, _ := t.Height(x-e, z)
	hr, _ := t.Height(x+e, z)
	hd, _ := t.Height(x, z-e)
	hu, _ := t.Height(x, z+e)
	return mgl64.Vec3{hl - hr, 2 * e, hd - hu}.Normalize()
}

// rayCast marches the ray and refines the first crossing by bisection
func (t *Terrain) rayCast(from, dir mgl64.Vec3, maxDist float64) (float64, bool) {
	const step = 0.25
	above := func(d float64) (bool, bool) {
		p := from.Add(dir.Mul(d))
		h, ok := t.Height(p[0], p[2])
		return p[1] >= h, ok
	}

	prev := 0.0
	for d := 0.0; d <= maxDist+step; d += step {
		if d > maxDist {
			d = maxDist
		}
		up, ok := above(d)
		if ok && !up {
			lo, hi := prev, d
			for i := 0; i < 16; i++ {
				mid := (lo + hi) / 2
				if u, _ := above(mid); u {
					lo = mid
				} else {
					hi = mid
				}
			}
			return hi, true
		}
		prev = d
		if d == maxDist {
			break
		}
	}
	return 0, false
}
