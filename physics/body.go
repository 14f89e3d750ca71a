package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

// BodyID identifies a body within one World
type BodyID uint32

// Body is a rigid body owned by a World
// Mass 0 makes the body static; trigger bodies report overlaps and never respond
type Body struct {
	id    BodyID
	shape Shape

	mass       float64
	invMass    float64
	invInertia mgl64.Vec3 // Local diagonal

	position mgl64.Vec3
	rotation mgl64.Quat
	linVel   mgl64.Vec3
	angVel   mgl64.Vec3
	force    mgl64.Vec3
	torque   mgl64.Vec3

	friction float64

	// Flags and Checkpoint carry gameplay roles for contact dispatch
	Flags      component.TriggerFlags
	Checkpoint uint32
	// Owner is the scene entity this body belongs to, 0 if none
	Owner uint64
}

func newBody(id BodyID, shape Shape, mass float64, pos mgl64.Vec3, rot mgl64.Quat) *Body {
	b := &Body{
		id:       id,
		shape:    shape,
		mass:     mass,
		position: pos,
		rotation: rot.Normalize(),
		friction: 0.5,
	}
	if mass > 0 {
		b.invMass = 1 / mass
		in := shape.Inertia(mass)
		for i := 0; i < 3; i++ {
			if in[i] > 0 {
				b.invInertia[i] = 1 / in[i]
			}
		}
	}
	return b
}

func (b *Body) ID() BodyID              { return b.id }
func (b *Body) Shape() Shape            { return b.shape }
func (b *Body) Mass() float64           { return b.mass }
func (b *Body) IsStatic() bool          { return b.invMass == 0 }
func (b *Body) IsTrigger() bool         { return b.Flags.Has(component.FlagTrigger) }
func (b *Body) Position() mgl64.Vec3    { return b.position }
func (b *Body) Rotation() mgl64.Quat    { return b.rotation }
func (b *Body) LinearVelocity() mgl64.Vec3  { return b.linVel }
func (b *Body) AngularVelocity() mgl64.Vec3 { return b.angVel }

// Transform returns the world matrix
func (b *Body) Transform() mgl64.Mat4 {
	return vmath.Compose(b.position, b.rotation)
}

func (b *Body) SetPosition(p mgl64.Vec3)        { b.position = p }
func (b *Body) SetRotation(q mgl64.Quat)        { b.rotation = q.Normalize() }
func (b *Body) SetLinearVelocity(v mgl64.Vec3)  { b.linVel = v }
func (b *Body) SetAngularVelocity(v mgl64.Vec3) { b.angVel = v }
func (b *Body) SetFriction(f float64)           { b.friction = f }

// ApplyCentralForce accumulates a force through the center of mass until the next ClearForces
func (b *Body) ApplyCentralForce(f mgl64.Vec3) {
	b.force = b.force.Add(f)
}

// ApplyForce accumulates a force at a world-space offset from the center of mass
func (b *Body) ApplyForce(f, rel mgl64.Vec3) {
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(rel.Cross(f))
}

// ClearForces drops accumulated force and torque
func (b *Body) ClearForces() {
	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}

// ApplyImpulse changes velocity immediately at a world-space offset
func (b *Body) ApplyImpulse(impulse, rel mgl64.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.linVel = b.linVel.Add(impulse.Mul(b.invMass))
	b.angVel = b.angVel.Add(b.invInertiaWorld().Mul3x1(rel.Cross(impulse)))
}

// ApplyAngularImpulse changes angular velocity immediately
func (b *Body) ApplyAngularImpulse(impulse mgl64.Vec3) {
	if b.invMass == 0 {
		return
	}
	b.angVel = b.angVel.Add(b.invInertiaWorld().Mul3x1(impulse))
}

// VelocityAt returns the world velocity of a point at rel from the center of mass
func (b *Body) VelocityAt(rel mgl64.Vec3) mgl64.Vec3 {
	return b.linVel.Add(b.angVel.Cross(rel))
}

// invInertiaWorld returns R * diag(invI) * R^T
func (b *Body) invInertiaWorld() mgl64.Mat3 {
	r := b.rotation.Mat4().Mat3()
	d := mgl64.Diag3(b.invInertia)
	return r.Mul3(d).Mul3(r.Transpose())
}

// effectiveMass returns the scalar inverse of the impulse response along n at rel
func (b *Body) invEffectiveMass(rel, n mgl64.Vec3) float64 {
	if b.invMass == 0 {
		return 0
	}
	rn := rel.Cross(n)
	return b.invMass + b.invInertiaWorld().Mul3x1(rn).Cross(rel).Dot(n)
}

// WorldBounds returns the world AABB of the body's shape
func (b *Body) WorldBounds() (mgl64.Vec3, mgl64.Vec3) {
	lo, hi := b.shape.LocalBounds()
	if math.IsInf(lo[0], 0) || math.IsInf(hi[0], 0) {
		return lo, hi
	}
	inf := math.Inf(1)
	wlo := mgl64.Vec3{inf, inf, inf}
	whi := mgl64.Vec3{-inf, -inf, -inf}
	for _, sx := range []float64{lo[0], hi[0]} {
		for _, sy := range []float64{lo[1], hi[1]} {
			for _, sz := range []float64{lo[2], hi[2]} {
				p := b.position.Add(b.rotation.Rotate(mgl64.Vec3{sx, sy, sz}))
				for i := 0; i < 3; i++ {
					wlo[i] = math.Min(wlo[i], p[i])
					whi[i] = math.Max(whi[i], p[i])
				}
			}
		}
	}
	return wlo, whi
}

// integrateVelocity applies gravity and accumulated forces over h
func (b *Body) integrateVelocity(gravity mgl64.Vec3, h float64) {
	if b.invMass == 0 {
		return
	}
	acc := gravity.Add(b.force.Mul(b.invMass))
	b.linVel = b.linVel.Add(acc.Mul(h))
	b.angVel = b.angVel.Add(b.invInertiaWorld().Mul3x1(b.torque).Mul(h))

	b.linVel = b.linVel.Mul(math.Pow(1-parameter.LinearDamping, h))
	b.angVel = b.angVel.Mul(math.Pow(1-parameter.AngularDamping, h))
}

// integratePosition advances position and orientation over h
func (b *Body) integratePosition(h float64) {
	if b.invMass == 0 {
		return
	}
	b.position = b.position.Add(b.linVel.Mul(h))

	w := mgl64.Quat{W: 0, V: b.angVel}
	dq := w.Mul(b.rotation).Scale(0.5 * h)
	b.rotation = b.rotation.Add(dq).Normalize()
}
