package kart

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/physics"
)

// Vehicle is the slice of a raycast vehicle the controller drives
// *physics.RigidVehicle satisfies it; tests substitute a recording fake
type Vehicle interface {
	ApplyEngineForce(force float64)
	Turn(angle float64)
	Brake(force float64)
	SetFriction(slip float64)
	GetKmh() float64
	SetVelocity(direction mgl64.Vec3, kmh float64)
	SetModularSpeed(ms float64)
	SetLinearSpeed(v mgl64.Vec3)
	SetAngularSpeed(v mgl64.Vec3)
	LinearVelocity() mgl64.Vec3
	SetPos(p mgl64.Vec3)
	SetRotation(q mgl64.Quat)
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	ClearForces()
	IsVehicleInContact() bool
	GetTransform() mgl64.Mat4
}

var _ Vehicle = (*physics.RigidVehicle)(nil)

// VehicleFactory builds the physics vehicle when a race starts
type VehicleFactory func(info physics.VehicleInfo, pos mgl64.Vec3, rot mgl64.Quat) (Vehicle, error)

// WorldFactory adds vehicles to a physics world
func WorldFactory(w *physics.World) VehicleFactory {
	return func(info physics.VehicleInfo, pos mgl64.Vec3, rot mgl64.Quat) (Vehicle, error) {
		v, err := w.AddVehicle(info, pos, rot)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// VehicleInfo converts the persisted record into a physics description
func VehicleInfo(cfg component.CarConfig) physics.VehicleInfo {
	size := mgl64.Vec3(cfg.Chassis.Size)
	offset := mgl64.Vec3(cfg.Chassis.Offset)
	s := cfg.Suspension
	return physics.VehicleInfo{
		ChassisSize:           size,
		ChassisOffset:         offset,
		Mass:                  cfg.Chassis.Mass,
		SuspensionStiffness:   s.Stiffness,
		SuspensionCompression: s.Compression,
		SuspensionDamping:     s.Damping,
		MaxSuspensionTravelCm: s.MaxTravelCm,
		FrictionSlip:          s.FrictionSlip,
		MaxSuspensionForce:    s.MaxForce,
		Wheels: physics.WheelLayout(size, offset,
			cfg.Wheels.ConnectionHeight, cfg.Wheels.Radius, cfg.Wheels.Width, s.RestLength),
	}
}
