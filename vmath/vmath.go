package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Local axes of a kart body: +X left, +Y up, +Z forward
var (
	AxisLeft    = mgl64.Vec3{1, 0, 0}
	AxisUp      = mgl64.Vec3{0, 1, 0}
	AxisForward = mgl64.Vec3{0, 0, 1}
)

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Approach moves current toward zero by step without overshooting
func ApproachZero(current, step float64) float64 {
	switch {
	case current > 0:
		current -= step
		if current < 0 {
			current = 0
		}
	case current < 0:
		current += step
		if current > 0 {
			current = 0
		}
	}
	return current
}

// Lerp blends a toward b by t (unclamped)
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Flatten drops the vertical component
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// SafeNormalize returns the unit vector or zero for degenerate input
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// IsFinite reports whether every component is a real number
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
