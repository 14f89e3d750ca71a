package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/parameter"
)

var ErrInvalidVehicle = errors.New("invalid vehicle description")

// WheelInfo describes one raycast wheel in chassis-local space
type WheelInfo struct {
	ConnectionPoint mgl64.Vec3
	Direction       mgl64.Vec3
	Axle            mgl64.Vec3
	RestLength      float64
	Radius          float64
	Width           float64

	Front bool
	Drive bool
	Brake bool
	Steer bool
}

// VehicleInfo is everything AddVehicle needs to build a raycast vehicle
type VehicleInfo struct {
	ChassisSize   mgl64.Vec3
	ChassisOffset mgl64.Vec3
	Mass          float64

	SuspensionStiffness   float64
	SuspensionCompression float64
	SuspensionDamping     float64
	MaxSuspensionTravelCm float64
	FrictionSlip          float64
	MaxSuspensionForce    float64

	Wheels []WheelInfo
}

// WheelLayout places four wheels at the chassis corners
// Order: front-left, front-right, back-left, back-right; fronts steer, backs drive and brake
func WheelLayout(size, offset mgl64.Vec3, connectionHeight, radius, width, restLength float64) []WheelInfo {
	halfW := size[0] * 0.5
	halfL := size[2] * 0.5
	x := halfW - parameter.WheelInsetFactor*width
	z := halfL - radius

	corners := []struct {
		x, z  float64
		front bool
	}{
		{x, z, true},
		{-x, z, true},
		{x, -z, false},
		{-x, -z, false},
	}

	wheels := make([]WheelInfo, 0, len(corners))
	for _, c := range corners {
		wheels = append(wheels, WheelInfo{
			ConnectionPoint: mgl64.Vec3{c.x + offset[0], connectionHeight + offset[1], c.z + offset[2]},
			Direction:       mgl64.Vec3{0, -1, 0},
			Axle:            mgl64.Vec3{-1, 0, 0},
			RestLength:      restLength,
			Radius:          radius,
			Width:           width,
			Front:           c.front,
			Drive:           !c.front,
			Brake:           !c.front,
			Steer:           c.front,
		})
	}
	return wheels
}

// Validate checks the shape parameters a vehicle cannot be built without
// Tuning-like values (stiffness, slip) are passed through unchecked
func (v VehicleInfo) Validate() error {
	if len(v.Wheels) == 0 {
		return fmt.Errorf("%w: no wheels", ErrInvalidVehicle)
	}
	for i := 0; i < 3; i++ {
		if !(v.ChassisSize[i] > 0) {
			return fmt.Errorf("%w: chassis size %v", ErrInvalidVehicle, v.ChassisSize)
		}
	}
	if !(v.Mass > 0) {
		return fmt.Errorf("%w: mass %v", ErrInvalidVehicle, v.Mass)
	}
	for i, w := range v.Wheels {
		if !(w.Radius > 0) {
			return fmt.Errorf("%w: wheel %d radius %v", ErrInvalidVehicle, i, w.Radius)
		}
		if w.RestLength < 0 {
			return fmt.Errorf("%w: wheel %d rest length %v", ErrInvalidVehicle, i, w.RestLength)
		}
		if w.Direction.Len() == 0 || w.Axle.Len() == 0 {
			return fmt.Errorf("%w: wheel %d has a zero axis", ErrInvalidVehicle, i)
		}
	}
	return nil
}
