package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/parameter"
)

// solid is one convex piece of a body in world space
// Boxes, cylinders, hulls and compound children resolve as oriented boxes
type solid struct {
	sphere bool
	center mgl64.Vec3
	axes   [3]mgl64.Vec3
	half   mgl64.Vec3 // Sphere radius in half[0]
}

// solidContact is one touching point; normal pushes the first body out of the second
type solidContact struct {
	point  mgl64.Vec3
	normal mgl64.Vec3
	depth  float64
}

// solids decomposes the body shape; planes and heightfields yield none
func (b *Body) solids() []solid {
	return appendSolids(nil, b.shape, b.position, b.rotation)
}

func appendSolids(dst []solid, shape Shape, pos mgl64.Vec3, rot mgl64.Quat) []solid {
	switch s := shape.(type) {
	case SphereShape:
		return append(dst, solid{sphere: true, center: pos, half: mgl64.Vec3{s.Radius, s.Radius, s.Radius}})
	case BoxShape:
		return append(dst, orientedBox(pos.Add(rot.Rotate(s.Center)), rot, s.HalfExtents))
	case CylinderShape:
		return append(dst, orientedBox(pos, rot, mgl64.Vec3{s.Radius, s.HalfHeight, s.Radius}))
	case ConvexHullShape:
		if len(s.Points) == 0 {
			return dst
		}
		box := boxFromBounds(s.LocalBounds())
		return append(dst, orientedBox(pos.Add(rot.Rotate(box.Center)), rot, box.HalfExtents))
	case CompoundShape:
		for _, ch := range s.Children {
			dst = appendSolids(dst, ch.Shape, pos.Add(rot.Rotate(ch.Offset)), rot)
		}
	}
	return dst
}

func orientedBox(center mgl64.Vec3, rot mgl64.Quat, half mgl64.Vec3) solid {
	return solid{
		center: center,
		axes:   [3]mgl64.Vec3{rot.Rotate(mgl64.Vec3{1, 0, 0}), rot.Rotate(mgl64.Vec3{0, 1, 0}), rot.Rotate(mgl64.Vec3{0, 0, 1})},
		half:   half,
	}
}

// radiusAlong projects the solid's extent onto unit axis n
func (s solid) radiusAlong(n mgl64.Vec3) float64 {
	if s.sphere {
		return s.half[0]
	}
	return s.half[0]*math.Abs(s.axes[0].Dot(n)) +
		s.half[1]*math.Abs(s.axes[1].Dot(n)) +
		s.half[2]*math.Abs(s.axes[2].Dot(n))
}

func (s solid) corners() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, 0, 8)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				p := s.center.
					Add(s.axes[0].Mul(sx * s.half[0])).
					Add(s.axes[1].Mul(sy * s.half[1])).
					Add(s.axes[2].Mul(sz * s.half[2]))
				pts = append(pts, p)
			}
		}
	}
	return pts
}

func (s solid) contains(p mgl64.Vec3, slop float64) bool {
	d := p.Sub(s.center)
	for i := 0; i < 3; i++ {
		if math.Abs(d.Dot(s.axes[i])) > s.half[i]+slop {
			return false
		}
	}
	return true
}

// closestPoint clamps p onto the box; inside reports p was already within it
func (s solid) closestPoint(p mgl64.Vec3) (mgl64.Vec3, bool) {
	d := p.Sub(s.center)
	q := s.center
	inside := true
	for i := 0; i < 3; i++ {
		dist := d.Dot(s.axes[i])
		if dist > s.half[i] {
			dist, inside = s.half[i], false
		} else if dist < -s.half[i] {
			dist, inside = -s.half[i], false
		}
		q = q.Add(s.axes[i].Mul(dist))
	}
	return q, inside
}

// collideSolids returns contacts pushing a out of b
func collideSolids(a, b solid) []solidContact {
	switch {
	case a.sphere && b.sphere:
		return collideSpheres(a, b)
	case a.sphere:
		return collideSphereBox(a, b)
	case b.sphere:
		cs := collideSphereBox(b, a)
		for i := range cs {
			cs[i].normal = cs[i].normal.Mul(-1)
		}
		return cs
	}
	return collideBoxes(a, b)
}

func collideSpheres(a, b solid) []solidContact {
	d := a.center.Sub(b.center)
	dist := d.Len()
	sum := a.half[0] + b.half[0]
	if dist >= sum {
		return nil
	}
	n := mgl64.Vec3{0, 1, 0}
	if dist > 1e-9 {
		n = d.Mul(1 / dist)
	}
	return []solidContact{{point: b.center.Add(n.Mul(b.half[0])), normal: n, depth: sum - dist}}
}

func collideSphereBox(sp, box solid) []solidContact {
	r := sp.half[0]
	q, inside := box.closestPoint(sp.center)
	if !inside {
		d := sp.center.Sub(q)
		dist := d.Len()
		if dist >= r {
			return nil
		}
		return []solidContact{{point: q, normal: d.Mul(1 / dist), depth: r - dist}}
	}

	// Center inside the box: leave through the nearest face
	rel := sp.center.Sub(box.center)
	best, n := math.Inf(1), mgl64.Vec3{0, 1, 0}
	for i := 0; i < 3; i++ {
		dist := rel.Dot(box.axes[i])
		gap := box.half[i] - math.Abs(dist)
		if gap < best {
			best = gap
			n = box.axes[i]
			if dist < 0 {
				n = n.Mul(-1)
			}
		}
	}
	return []solidContact{{point: sp.center.Sub(n.Mul(r)), normal: n, depth: best + r}}
}

// collideBoxes separates on the six face axes and reports corners sunk into the other box
func collideBoxes(a, b solid) []solidContact {
	d := a.center.Sub(b.center)
	depth, n := math.Inf(1), mgl64.Vec3{}
	for _, axis := range []mgl64.Vec3{a.axes[0], a.axes[1], a.axes[2], b.axes[0], b.axes[1], b.axes[2]} {
		dist := d.Dot(axis)
		overlap := a.radiusAlong(axis) + b.radiusAlong(axis) - math.Abs(dist)
		if overlap <= 0 {
			return nil
		}
		if overlap < depth {
			depth, n = overlap, axis
			if dist < 0 {
				n = n.Mul(-1)
			}
		}
	}

	const slop = 1e-6
	var cs []solidContact
	for _, p := range a.corners() {
		if b.contains(p, slop) {
			cs = append(cs, solidContact{point: p, normal: n, depth: depth})
		}
	}
	for _, p := range b.corners() {
		if a.contains(p, slop) {
			cs = append(cs, solidContact{point: p, normal: n, depth: depth})
		}
	}
	if len(cs) == 0 {
		// Edge crossing: contact midway through the overlap along n
		p := a.center.Sub(n.Mul(a.radiusAlong(n) - depth/2))
		cs = append(cs, solidContact{point: p, normal: n, depth: depth})
	}
	return cs
}

// collides reports whether the pair takes part in the narrow phase
func (w *World) collides(a, b *Body) bool {
	if a.IsTrigger() || b.IsTrigger() {
		return false
	}
	if a.IsStatic() && b.IsStatic() {
		return false
	}
	for _, c := range w.constraints {
		x, y := c.Bodies()
		if (x == a && y == b) || (x == b && y == a) {
			return false
		}
	}
	alo, ahi := a.WorldBounds()
	blo, bhi := b.WorldBounds()
	return overlapAABB(alo, ahi, blo, bhi)
}

// resolveSolids runs the narrow phase over every colliding body pair
func (w *World) resolveSolids() {
	for i, a := range w.bodies {
		for _, b := range w.bodies[i+1:] {
			if !w.collides(a, b) {
				continue
			}
			for _, sa := range a.solids() {
				for _, sb := range b.solids() {
					w.resolvePair(a, b, collideSolids(sa, sb))
				}
			}
		}
	}
}

func (w *World) resolvePair(a, b *Body, cs []solidContact) {
	if len(cs) == 0 {
		return
	}
	friction := a.friction * b.friction
	deepest := 0.0
	n := cs[0].normal
	for _, c := range cs {
		if c.depth > deepest {
			deepest, n = c.depth, c.normal
		}
		contactImpulse(a, b, c.point.Sub(a.position), c.point.Sub(b.position), c.normal, friction)
	}

	total := a.invMass + b.invMass
	if deepest <= 0 || total == 0 {
		return
	}
	push := n.Mul(deepest * parameter.ContactCorrection / total)
	a.position = a.position.Add(push.Mul(a.invMass))
	b.position = b.position.Sub(push.Mul(b.invMass))
}

// contactImpulse stops approach along n at one point and applies Coulomb friction
// b may be nil for the ground and terrain; n points from b toward a
func contactImpulse(a, b *Body, ra, rb, n mgl64.Vec3, friction float64) {
	relVel := func() mgl64.Vec3 {
		v := a.VelocityAt(ra)
		if b != nil {
			v = v.Sub(b.VelocityAt(rb))
		}
		return v
	}
	effMass := func(dir mgl64.Vec3) float64 {
		k := a.invEffectiveMass(ra, dir)
		if b != nil {
			k += b.invEffectiveMass(rb, dir)
		}
		return k
	}
	apply := func(j mgl64.Vec3) {
		a.ApplyImpulse(j, ra)
		if b != nil {
			b.ApplyImpulse(j.Mul(-1), rb)
		}
	}

	vn := relVel().Dot(n)
	if vn >= 0 {
		return
	}
	k := effMass(n)
	if k == 0 {
		return
	}
	jn := -vn / k
	apply(n.Mul(jn))

	vp := relVel()
	vt := vp.Sub(n.Mul(vp.Dot(n)))
	speed := vt.Len()
	if speed < 1e-9 {
		return
	}
	tdir := vt.Mul(1 / speed)
	kt := effMass(tdir)
	if kt == 0 {
		return
	}
	jt := math.Min(speed/kt, friction*jn)
	apply(tdir.Mul(-jt))
}
