package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/vmath"
)

// Raycast vehicle friction constants
const (
	sideFrictionDamping = 0.2 // Fraction of lateral slip removed per wheel per substep
	forwardImpulseScale = 0.5 // Weight of forward impulse in the slip test
	rollInfluence       = 0.1 // Height scale of the side impulse application point
	contactDirThreshold = -0.1
)

type wheelState struct {
	info WheelInfo

	steering     float64
	engineForce  float64
	brake        float64
	frictionSlip float64

	inContact        bool
	suspensionLength float64
	suspensionForce  float64
	suspensionRelVel float64
	clippedInvDot    float64
	contactPoint     mgl64.Vec3
	contactNormal    mgl64.Vec3
	ground           *Body

	hardPoint mgl64.Vec3 // World connection point
	dirWS     mgl64.Vec3
	axleWS    mgl64.Vec3

	spin float64 // Accumulated visual rotation, radians
}

// RigidVehicle is a chassis body driven by raycast wheels
// Owned by the World that created it; calls after RemoveVehicle panic
type RigidVehicle struct {
	world   *World
	chassis *Body
	wheels  []wheelState
	info    VehicleInfo
	removed bool
}

func (v *RigidVehicle) mustLive() {
	if v.removed {
		panic("physics: use of removed vehicle")
	}
}

// Chassis returns the underlying rigid body
func (v *RigidVehicle) Chassis() *Body {
	v.mustLive()
	return v.chassis
}

// Info returns the description the vehicle was built from
func (v *RigidVehicle) Info() VehicleInfo { return v.info }

// NumWheels returns the wheel count
func (v *RigidVehicle) NumWheels() int { return len(v.wheels) }

// ApplyEngineForce sets the drive force on every drive wheel
func (v *RigidVehicle) ApplyEngineForce(force float64) {
	v.mustLive()
	for i := range v.wheels {
		if v.wheels[i].info.Drive {
			v.wheels[i].engineForce = force
		}
	}
}

// Brake sets the brake impulse cap on every braking wheel
func (v *RigidVehicle) Brake(force float64) {
	v.mustLive()
	for i := range v.wheels {
		if v.wheels[i].info.Brake {
			v.wheels[i].brake = force
		}
	}
}

// Turn sets the steering angle in radians on every steering wheel
func (v *RigidVehicle) Turn(angle float64) {
	v.mustLive()
	for i := range v.wheels {
		if v.wheels[i].info.Steer {
			v.wheels[i].steering = angle
		}
	}
}

// SetFriction sets the friction slip on every wheel
func (v *RigidVehicle) SetFriction(slip float64) {
	v.mustLive()
	for i := range v.wheels {
		v.wheels[i].frictionSlip = slip
	}
}

// Friction returns the first wheel's friction slip
func (v *RigidVehicle) Friction() float64 {
	v.mustLive()
	if len(v.wheels) == 0 {
		return 0
	}
	return v.wheels[0].frictionSlip
}

// GetKmh returns chassis speed in km/h, negative when moving backwards
func (v *RigidVehicle) GetKmh() float64 {
	v.mustLive()
	vel := v.chassis.linVel
	kmh := vel.Len() * parameter.MsToKmh
	if vel.Dot(vmath.Forward(v.chassis.rotation)) < 0 {
		kmh = -kmh
	}
	return kmh
}

// SetVelocity points the chassis along direction at kmh
func (v *RigidVehicle) SetVelocity(direction mgl64.Vec3, kmh float64) {
	v.mustLive()
	v.chassis.linVel = vmath.SafeNormalize(direction).Mul(kmh * parameter.KmhToMs)
}

// SetModularSpeed keeps the travel direction and sets its magnitude in m/s
// A negative speed reverses the direction; a stationary chassis is left alone
func (v *RigidVehicle) SetModularSpeed(ms float64) {
	v.mustLive()
	dir := vmath.SafeNormalize(v.chassis.linVel)
	if dir == (mgl64.Vec3{}) {
		return
	}
	v.chassis.linVel = dir.Mul(ms)
}

// SetLinearSpeed overwrites the chassis linear velocity in m/s
func (v *RigidVehicle) SetLinearSpeed(vel mgl64.Vec3) {
	v.mustLive()
	v.chassis.linVel = vel
}

// SetAngularSpeed overwrites the chassis angular velocity in rad/s
func (v *RigidVehicle) SetAngularSpeed(vel mgl64.Vec3) {
	v.mustLive()
	v.chassis.angVel = vel
}

// LinearVelocity returns the chassis velocity in m/s
func (v *RigidVehicle) LinearVelocity() mgl64.Vec3 {
	v.mustLive()
	return v.chassis.linVel
}

// SetPos teleports the chassis
func (v *RigidVehicle) SetPos(p mgl64.Vec3) {
	v.mustLive()
	v.chassis.position = p
}

// SetRotation replaces the chassis orientation
func (v *RigidVehicle) SetRotation(q mgl64.Quat) {
	v.mustLive()
	v.chassis.rotation = q.Normalize()
}

// Position returns the chassis position
func (v *RigidVehicle) Position() mgl64.Vec3 {
	v.mustLive()
	return v.chassis.position
}

// Rotation returns the chassis orientation
func (v *RigidVehicle) Rotation() mgl64.Quat {
	v.mustLive()
	return v.chassis.rotation
}

// ClearForces drops forces accumulated on the chassis
func (v *RigidVehicle) ClearForces() {
	v.mustLive()
	v.chassis.ClearForces()
}

// IsVehicleInContact reports whether any wheel touches ground
func (v *RigidVehicle) IsVehicleInContact() bool {
	v.mustLive()
	for i := range v.wheels {
		if v.wheels[i].inContact {
			return true
		}
	}
	return false
}

// GetTransform returns the chassis world matrix
func (v *RigidVehicle) GetTransform() mgl64.Mat4 {
	v.mustLive()
	return v.chassis.Transform()
}

// WheelTransform returns the visual transform of wheel i
func (v *RigidVehicle) WheelTransform(i int) mgl64.Mat4 {
	v.mustLive()
	w := &v.wheels[i]
	q := v.chassis.rotation
	dir := q.Rotate(w.info.Direction)
	center := v.chassis.position.Add(q.Rotate(w.info.ConnectionPoint)).Add(dir.Mul(w.suspensionLength))

	steer := mgl64.QuatRotate(w.steering, vmath.AxisUp)
	spin := mgl64.QuatRotate(w.spin, vmath.AxisLeft)
	return vmath.Compose(center, q.Mul(steer).Mul(spin))
}

// WheelInContact reports ground contact for wheel i
func (v *RigidVehicle) WheelInContact(i int) bool {
	v.mustLive()
	return v.wheels[i].inContact
}

// WheelSuspensionForce returns the last suspension force of wheel i in newtons
func (v *RigidVehicle) WheelSuspensionForce(i int) float64 {
	v.mustLive()
	return v.wheels[i].suspensionForce
}

// update runs one substep of wheel raycasts, suspension and friction
func (v *RigidVehicle) update(h float64) {
	for i := range v.wheels {
		v.rayCastWheel(&v.wheels[i])
	}
	v.updateSuspension()

	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.inContact {
			continue
		}
		f := math.Min(w.suspensionForce, v.info.MaxSuspensionForce)
		rel := w.contactPoint.Sub(v.chassis.position)
		v.chassis.ApplyImpulse(w.contactNormal.Mul(f*h), rel)
	}

	v.updateFriction(h)

	fwd := vmath.Forward(v.chassis.rotation)
	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.inContact {
			continue
		}
		rel := w.contactPoint.Sub(v.chassis.position)
		proj := fwd.Sub(w.contactNormal.Mul(fwd.Dot(w.contactNormal)))
		w.spin += proj.Dot(v.chassis.VelocityAt(rel)) * h / w.info.Radius
	}
}

func (v *RigidVehicle) rayCastWheel(w *wheelState) {
	q := v.chassis.rotation
	w.hardPoint = v.chassis.position.Add(q.Rotate(w.info.ConnectionPoint))
	w.dirWS = q.Rotate(w.info.Direction).Normalize()
	axle := q.Rotate(w.info.Axle)
	w.axleWS = vmath.RotateAbout(axle, w.dirWS.Mul(-1), w.steering).Normalize()

	rayLen := w.info.RestLength + w.info.Radius
	hit, ok := v.world.castRay(w.hardPoint, w.dirWS, rayLen, func(b *Body) bool { return b == v.chassis })

	w.ground = nil
	if !ok {
		w.inContact = false
		w.suspensionLength = w.info.RestLength
		w.suspensionRelVel = 0
		w.contactNormal = w.dirWS.Mul(-1)
		w.clippedInvDot = 1
		return
	}

	w.inContact = true
	w.ground = hit.Body
	w.contactPoint = hit.Point
	w.contactNormal = hit.Normal

	travel := v.info.MaxSuspensionTravelCm * 0.01
	length := hit.Distance - w.info.Radius
	length = vmath.Clamp(length, w.info.RestLength-travel, w.info.RestLength+travel)
	w.suspensionLength = length

	denom := w.contactNormal.Dot(w.dirWS)
	rel := w.contactPoint.Sub(v.chassis.position)
	projVel := w.contactNormal.Dot(v.chassis.VelocityAt(rel))
	if denom >= contactDirThreshold {
		w.suspensionRelVel = 0
		w.clippedInvDot = 10
	} else {
		inv := -1 / denom
		w.suspensionRelVel = projVel * inv
		w.clippedInvDot = inv
	}
}

func (v *RigidVehicle) updateSuspension() {
	mass := v.chassis.mass
	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.inContact {
			w.suspensionForce = 0
			continue
		}
		compression := w.info.RestLength - w.suspensionLength
		force := v.info.SuspensionStiffness * compression * w.clippedInvDot

		damping := v.info.SuspensionDamping
		if w.suspensionRelVel < 0 {
			damping = v.info.SuspensionCompression
		}
		force -= damping * w.suspensionRelVel

		w.suspensionForce = math.Max(force*mass, 0)
	}
}

func (v *RigidVehicle) updateFriction(h float64) {
	n := len(v.wheels)
	forward := make([]mgl64.Vec3, n)
	side := make([]mgl64.Vec3, n)
	fwdImpulse := make([]float64, n)
	sideImpulse := make([]float64, n)

	body := v.chassis
	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.inContact {
			continue
		}
		rel := w.contactPoint.Sub(body.position)

		axle := w.axleWS.Sub(w.contactNormal.Mul(w.axleWS.Dot(w.contactNormal)))
		axle = vmath.SafeNormalize(axle)
		side[i] = axle
		forward[i] = vmath.SafeNormalize(w.contactNormal.Cross(axle))

		if k := body.invEffectiveMass(rel, axle); k > 0 {
			sideImpulse[i] = -sideFrictionDamping * body.VelocityAt(rel).Dot(axle) / k
		}

		if w.engineForce != 0 {
			fwdImpulse[i] = w.engineForce * h
		} else if w.brake != 0 {
			if k := body.invEffectiveMass(rel, forward[i]); k > 0 {
				rolling := -body.VelocityAt(rel).Dot(forward[i]) / k
				fwdImpulse[i] = vmath.Clamp(rolling, -w.brake, w.brake)
			}
		}
	}

	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.inContact {
			continue
		}
		maxImp := w.suspensionForce * h * w.frictionSlip
		x := fwdImpulse[i] * forwardImpulseScale
		y := sideImpulse[i]
		sq := x*x + y*y
		if sq > maxImp*maxImp {
			skid := 0.0
			if sq > 0 {
				skid = maxImp / math.Sqrt(sq)
			}
			fwdImpulse[i] *= skid
			sideImpulse[i] *= skid
		}
	}

	up := vmath.Up(body.rotation)
	for i := range v.wheels {
		w := &v.wheels[i]
		if !w.inContact {
			continue
		}
		rel := w.contactPoint.Sub(body.position)
		if fwdImpulse[i] != 0 {
			body.ApplyImpulse(forward[i].Mul(fwdImpulse[i]), rel)
		}
		if sideImpulse[i] != 0 {
			// Lift the application point toward the center of mass to limit roll
			lift := rel.Dot(up)
			rolled := rel.Sub(up.Mul(lift * (1 - rollInfluence)))
			body.ApplyImpulse(side[i].Mul(sideImpulse[i]), rolled)
		}
	}
}
