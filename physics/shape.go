package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind tags the collision shape variant
type ShapeKind uint8

const (
	ShapePlane ShapeKind = iota
	ShapeSphere
	ShapeBox
	ShapeCylinder
	ShapeConvexHull
	ShapeCompound
	ShapeHeightfield
)

// Shape is a collision volume in body-local space
type Shape interface {
	Kind() ShapeKind
	// LocalBounds returns the local AABB corners
	LocalBounds() (min, max mgl64.Vec3)
	// Inertia returns the diagonal inertia tensor for the given mass
	Inertia(mass float64) mgl64.Vec3
	// SupportPoints returns local points used for ground contact
	SupportPoints() []mgl64.Vec3
}

// PlaneShape is an infinite static plane n·p = d
type PlaneShape struct {
	Normal   mgl64.Vec3
	Constant float64
}

func (PlaneShape) Kind() ShapeKind { return ShapePlane }

func (PlaneShape) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	inf := math.Inf(1)
	return mgl64.Vec3{-inf, -inf, -inf}, mgl64.Vec3{inf, inf, inf}
}

func (PlaneShape) Inertia(float64) mgl64.Vec3 { return mgl64.Vec3{} }

func (PlaneShape) SupportPoints() []mgl64.Vec3 { return nil }

// SphereShape is centered on the body origin
type SphereShape struct {
	Radius float64
}

func (SphereShape) Kind() ShapeKind { return ShapeSphere }

func (s SphereShape) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	r := s.Radius
	return mgl64.Vec3{-r, -r, -r}, mgl64.Vec3{r, r, r}
}

func (s SphereShape) Inertia(mass float64) mgl64.Vec3 {
	i := 0.4 * mass * s.Radius * s.Radius
	return mgl64.Vec3{i, i, i}
}

// SupportPoints for a sphere sample the six axis extremes
func (s SphereShape) SupportPoints() []mgl64.Vec3 {
	r := s.Radius
	return []mgl64.Vec3{{0, -r, 0}, {0, r, 0}, {r, 0, 0}, {-r, 0, 0}, {0, 0, r}, {0, 0, -r}}
}

// BoxShape is an oriented box with an optional local center offset
type BoxShape struct {
	HalfExtents mgl64.Vec3
	Center      mgl64.Vec3
}

func (BoxShape) Kind() ShapeKind { return ShapeBox }

func (b BoxShape) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	return b.Center.Sub(b.HalfExtents), b.Center.Add(b.HalfExtents)
}

func (b BoxShape) Inertia(mass float64) mgl64.Vec3 {
	x, y, z := 2*b.HalfExtents[0], 2*b.HalfExtents[1], 2*b.HalfExtents[2]
	k := mass / 12
	return mgl64.Vec3{k * (y*y + z*z), k * (x*x + z*z), k * (x*x + y*y)}
}

func (b BoxShape) SupportPoints() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, 0, 8)
	h := b.HalfExtents
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				pts = append(pts, b.Center.Add(mgl64.Vec3{sx * h[0], sy * h[1], sz * h[2]}))
			}
		}
	}
	return pts
}

// CylinderShape is Y-aligned
type CylinderShape struct {
	Radius     float64
	HalfHeight float64
}

func (CylinderShape) Kind() ShapeKind { return ShapeCylinder }

func (c CylinderShape) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	return mgl64.Vec3{-c.Radius, -c.HalfHeight, -c.Radius}, mgl64.Vec3{c.Radius, c.HalfHeight, c.Radius}
}

func (c CylinderShape) Inertia(mass float64) mgl64.Vec3 {
	h := 2 * c.HalfHeight
	side := mass * (3*c.Radius*c.Radius + h*h) / 12
	return mgl64.Vec3{side, 0.5 * mass * c.Radius * c.Radius, side}
}

// SupportPoints samples both rims at eight angles
func (c CylinderShape) SupportPoints() []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, 0, 16)
	for i := 0; i < 8; i++ {
		a := float64(i) * math.Pi / 4
		x, z := c.Radius*math.Cos(a), c.Radius*math.Sin(a)
		pts = append(pts, mgl64.Vec3{x, -c.HalfHeight, z}, mgl64.Vec3{x, c.HalfHeight, z})
	}
	return pts
}

// ConvexHullShape is defined by its vertices; inertia uses the bounding box
type ConvexHullShape struct {
	Points []mgl64.Vec3
}

func (ConvexHullShape) Kind() ShapeKind { return ShapeConvexHull }

func (h ConvexHullShape) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	if len(h.Points) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo, hi := h.Points[0], h.Points[0]
	for _, p := range h.Points[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	return lo, hi
}

func (h ConvexHullShape) Inertia(mass float64) mgl64.Vec3 {
	lo, hi := h.LocalBounds()
	return boxFromBounds(lo, hi).Inertia(mass)
}

func (h ConvexHullShape) SupportPoints() []mgl64.Vec3 { return h.Points }

// CompoundChild places a shape inside a compound at a local offset
type CompoundChild struct {
	Shape  Shape
	Offset mgl64.Vec3
}

// CompoundShape merges children; the first child dominates inertia
type CompoundShape struct {
	Children []CompoundChild
}

func (CompoundShape) Kind() ShapeKind { return ShapeCompound }

func (c CompoundShape) LocalBounds() (mgl64.Vec3, mgl64.Vec3) {
	inf := math.Inf(1)
	lo := mgl64.Vec3{inf, inf, inf}
	hi := mgl64.Vec3{-inf, -inf, -inf}
	for _, ch := range c.Children {
		clo, chi := ch.Shape.LocalBounds()
		clo, chi = clo.Add(ch.Offset), chi.Add(ch.Offset)
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], clo[i])
			hi[i] = math.Max(hi[i], chi[i])
		}
	}
	return lo, hi
}

func (c CompoundShape) Inertia(mass float64) mgl64.Vec3 {
	if len(c.Children) == 0 {
		return mgl64.Vec3{}
	}
	return c.Children[0].Shape.Inertia(mass)
}

func (c CompoundShape) SupportPoints() []mgl64.Vec3 {
	var pts []mgl64.Vec3
	for _, ch := range c.Children {
		for _, p := range ch.Shape.SupportPoints() {
			pts = append(pts, p.Add(ch.Offset))
		}
	}
	return pts
}

func boxFromBounds(lo, hi mgl64.Vec3) BoxShape {
	return BoxShape{HalfExtents: hi.Sub(lo).Mul(0.5), Center: lo.Add(hi).Mul(0.5)}
}
