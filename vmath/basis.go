package vmath

import "github.com/go-gl/mathgl/mgl64"

// Forward returns the rotated local +Z axis
func Forward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisForward)
}

// Left returns the rotated local +X axis
func Left(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisLeft)
}

// Up returns the rotated local +Y axis
func Up(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisUp)
}

// WorldX, WorldY, WorldZ read basis columns out of a column-major transform
func WorldX(m mgl64.Mat4) mgl64.Vec3 { return m.Col(0).Vec3() }
func WorldY(m mgl64.Mat4) mgl64.Vec3 { return m.Col(1).Vec3() }
func WorldZ(m mgl64.Mat4) mgl64.Vec3 { return m.Col(2).Vec3() }

// Translation reads the position out of a transform
func Translation(m mgl64.Mat4) mgl64.Vec3 { return m.Col(3).Vec3() }

// Compose builds a rigid transform from position and rotation
func Compose(pos mgl64.Vec3, rot mgl64.Quat) mgl64.Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).Mul4(rot.Normalize().Mat4())
}

// EulerToQuat converts XYZ euler angles in radians
func EulerToQuat(e mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(e[0], e[1], e[2], mgl64.XYZ)
}

// RotateAbout rotates v around a unit axis by angle radians
func RotateAbout(v, axis mgl64.Vec3, angle float64) mgl64.Vec3 {
	return mgl64.QuatRotate(angle, axis).Rotate(v)
}
