package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/vmath"
)

// Baumgarte factor for positional drift correction
const constraintBias = 0.2

// Constraint couples two bodies; b may be nil to pin a to the world
type Constraint interface {
	Bodies() (*Body, *Body)
	solve(h float64)
}

// PointConstraint keeps two local pivots coincident
type PointConstraint struct {
	a, b           *Body
	pivotA, pivotB mgl64.Vec3
}

func (c *PointConstraint) Bodies() (*Body, *Body) { return c.a, c.b }

// anchors returns world-space lever arms and pivot positions
func (c *PointConstraint) anchors() (ra, rb, pa, pb mgl64.Vec3) {
	ra = c.a.rotation.Rotate(c.pivotA)
	pa = c.a.position.Add(ra)
	if c.b != nil {
		rb = c.b.rotation.Rotate(c.pivotB)
		pb = c.b.position.Add(rb)
	} else {
		pb = c.pivotB
	}
	return
}

func (c *PointConstraint) solve(h float64) {
	ra, rb, pa, pb := c.anchors()

	k := pointMass(c.a, ra)
	velB := mgl64.Vec3{}
	if c.b != nil {
		k = k.Add(pointMass(c.b, rb))
		velB = c.b.VelocityAt(rb)
	}
	if k.Det() == 0 {
		return
	}

	relVel := velB.Sub(c.a.VelocityAt(ra))
	errPos := pb.Sub(pa)
	impulse := k.Inv().Mul3x1(relVel.Add(errPos.Mul(constraintBias / h)))

	c.a.ApplyImpulse(impulse, ra)
	if c.b != nil {
		c.b.ApplyImpulse(impulse.Mul(-1), rb)
	}
}

// pointMass returns the inverse mass matrix of a point at rel on b
func pointMass(b *Body, rel mgl64.Vec3) mgl64.Mat3 {
	if b.invMass == 0 {
		return mgl64.Mat3{}
	}
	skew := skew3(rel)
	return mgl64.Ident3().Mul(b.invMass).Sub(skew.Mul3(b.invInertiaWorld()).Mul3(skew))
}

func skew3(v mgl64.Vec3) mgl64.Mat3 {
	// Column-major
	return mgl64.Mat3{
		0, v[2], -v[1],
		-v[2], 0, v[0],
		v[1], -v[0], 0,
	}
}

// HingeConstraint is a point constraint that also keeps two local axes aligned
type HingeConstraint struct {
	PointConstraint
	axisA, axisB mgl64.Vec3
}

func (c *HingeConstraint) solve(h float64) {
	c.PointConstraint.solve(h)

	wa := c.a.rotation.Rotate(c.axisA)
	wb := c.axisB
	angB := mgl64.Vec3{}
	if c.b != nil {
		wb = c.b.rotation.Rotate(c.axisB)
		angB = c.b.angVel
	}

	// Remove relative spin off the hinge axis and pull the axes together
	rel := angB.Sub(c.a.angVel)
	rel = rel.Sub(wa.Mul(rel.Dot(wa)))
	errAxis := wa.Cross(wb)

	k := c.a.invInertiaWorld()
	if c.b != nil {
		k = k.Add(c.b.invInertiaWorld())
	}
	if k.Det() == 0 {
		return
	}
	impulse := k.Inv().Mul3x1(rel.Add(errAxis.Mul(constraintBias / h)))

	c.a.ApplyAngularImpulse(impulse)
	if c.b != nil {
		c.b.ApplyAngularImpulse(impulse.Mul(-1))
	}
}

// Axis returns the hinge axis in world space
func (c *HingeConstraint) Axis() mgl64.Vec3 {
	return vmath.SafeNormalize(c.a.rotation.Rotate(c.axisA))
}
