package component

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/parameter"
)

// ColliderShape picks the physics primitive built for an entity
type ColliderShape uint8

const (
	ColliderBox ColliderShape = iota
	ColliderSphere
	ColliderCylinder
)

// ColliderComponent is a physics body description; mass 0 is static
// Size is full extents for boxes; X is the radius for spheres and cylinders, Y the cylinder height
type ColliderComponent struct {
	Shape ColliderShape
	Size  mgl64.Vec3
	Mass  float64
}

// WheelLinksComponent holds resolved wheel visual entities, 0 when unlinked
type WheelLinksComponent struct {
	Wheels [parameter.WheelCount]uint64
}

// Linked counts resolved wheels
func (w WheelLinksComponent) Linked() int {
	n := 0
	for _, e := range w.Wheels {
		if e != 0 {
			n++
		}
	}
	return n
}
