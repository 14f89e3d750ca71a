package component

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/kartcore/vmath"
)

// TransformComponent is an entity's world placement
type TransformComponent struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform returns a unit-scale transform
func NewTransform(pos mgl64.Vec3, rot mgl64.Quat) TransformComponent {
	return TransformComponent{Position: pos, Rotation: rot, Scale: mgl64.Vec3{1, 1, 1}}
}

// Matrix composes position and rotation (scale excluded, as physics ignores it)
func (t TransformComponent) Matrix() mgl64.Mat4 {
	return vmath.Compose(t.Position, t.Rotation)
}

// Forward returns the world forward axis
func (t TransformComponent) Forward() mgl64.Vec3 {
	return vmath.Forward(t.Rotation)
}
