package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RayHit describes the closest surface hit by a ray
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Body     *Body // nil for terrain
}

// rayFilter rejects bodies a ray must pass through
type rayFilter func(b *Body) bool

// RayCast returns the closest non-trigger surface between from and to
func (w *World) RayCast(from, to mgl64.Vec3) (RayHit, bool) {
	delta := to.Sub(from)
	dist := delta.Len()
	if dist == 0 {
		return RayHit{}, false
	}
	return w.castRay(from, delta.Mul(1/dist), dist, nil)
}

func (w *World) castRay(from, dir mgl64.Vec3, maxDist float64, skip rayFilter) (RayHit, bool) {
	best := RayHit{Distance: math.Inf(1)}
	found := false

	for _, b := range w.bodies {
		if b.IsTrigger() || (skip != nil && skip(b)) {
			continue
		}
		if b.shape.Kind() == ShapeHeightfield {
			continue
		}
		if d, n, ok := rayBody(b, from, dir, maxDist); ok && d < best.Distance {
			best = RayHit{Point: from.Add(dir.Mul(d)), Normal: n, Distance: d, Body: b}
			found = true
		}
	}

	if w.terrainBody != nil && w.terrain != nil {
		if d, ok := w.terrain.rayCast(from, dir, maxDist); ok && d < best.Distance {
			p := from.Add(dir.Mul(d))
			best = RayHit{Point: p, Normal: w.terrain.Normal(p[0], p[2]), Distance: d, Body: w.terrainBody}
			found = true
		}
	}
	return best, found
}

// rayBody intersects a ray with one body's shape
func rayBody(b *Body, from, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	switch s := b.shape.(type) {
	case PlaneShape:
		return rayPlane(s, from, dir, maxDist)
	case SphereShape:
		return raySphere(b.position, s.Radius, from, dir, maxDist)
	case CompoundShape:
		best, bestN, hit := math.Inf(1), mgl64.Vec3{}, false
		for _, ch := range s.Children {
			lo, hi := ch.Shape.LocalBounds()
			d, n, ok := rayOBB(b, lo.Add(ch.Offset), hi.Add(ch.Offset), from, dir, maxDist)
			if ok && d < best {
				best, bestN, hit = d, n, true
			}
		}
		return best, bestN, hit
	default:
		// Boxes exact; cylinders and hulls use their bounding box
		lo, hi := b.shape.LocalBounds()
		return rayOBB(b, lo, hi, from, dir, maxDist)
	}
}

func rayPlane(p PlaneShape, from, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	denom := p.Normal.Dot(dir)
	if math.Abs(denom) < 1e-12 {
		return 0, mgl64.Vec3{}, false
	}
	d := (p.Constant - p.Normal.Dot(from)) / denom
	if d < 0 || d > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	return d, p.Normal, true
}

func raySphere(center mgl64.Vec3, r float64, from, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	m := from.Sub(center)
	b := m.Dot(dir)
	c := m.Dot(m) - r*r
	if c > 0 && b > 0 {
		return 0, mgl64.Vec3{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	d := math.Max(0, -b-math.Sqrt(disc))
	if d > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	n := from.Add(dir.Mul(d)).Sub(center).Normalize()
	return d, n, true
}

// rayOBB runs a slab test in the body's local frame
func rayOBB(b *Body, lo, hi, from, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	inv := b.rotation.Inverse()
	o := inv.Rotate(from.Sub(b.position))
	d := inv.Rotate(dir)

	tmin, tmax := 0.0, maxDist
	axis, sign := -1, 0.0
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if o[i] < lo[i] || o[i] > hi[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / d[i]
		t2 := (hi[i] - o[i]) / d[i]
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tmin {
			tmin, axis, sign = t1, i, s
		}
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}
	var n mgl64.Vec3
	if axis >= 0 {
		n[axis] = sign
	} else {
		n = d.Mul(-1)
	}
	return tmin, b.rotation.Rotate(n), true
}
