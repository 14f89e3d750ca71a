package vmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestApproachZeroNoOvershoot(t *testing.T) {
	assert.Equal(t, 0.0, ApproachZero(0.1, 0.5))
	assert.Equal(t, 0.0, ApproachZero(-0.1, 0.5))
	assert.InDelta(t, 0.5, ApproachZero(1.0, 0.5), 1e-12)
	assert.InDelta(t, -0.5, ApproachZero(-1.0, 0.5), 1e-12)
	assert.Equal(t, 0.0, ApproachZero(0, 0.5))
}

func TestBasisIdentity(t *testing.T) {
	q := mgl64.QuatIdent()
	assert.True(t, Forward(q).ApproxEqual(AxisForward))
	assert.True(t, Left(q).ApproxEqual(AxisLeft))
	assert.True(t, Up(q).ApproxEqual(AxisUp))
}

func TestBasisFlipped(t *testing.T) {
	q := mgl64.QuatRotate(math.Pi, AxisForward)
	assert.InDelta(t, -1.0, Up(q).Y(), 1e-9)
}

func TestComposeRoundTrip(t *testing.T) {
	pos := mgl64.Vec3{1, 2, 3}
	q := mgl64.QuatRotate(math.Pi/2, AxisUp)
	m := Compose(pos, q)

	assert.True(t, Translation(m).ApproxEqual(pos))
	assert.True(t, WorldZ(m).ApproxEqualThreshold(Forward(q), 1e-9))
	assert.True(t, WorldX(m).ApproxEqualThreshold(Left(q), 1e-9))
}

func TestLerpAndFlatten(t *testing.T) {
	a := mgl64.Vec3{1, 0, 0}
	b := mgl64.Vec3{0, 0, 1}
	mid := Lerp(a, b, 0.5)
	assert.InDelta(t, 0.5, mid.X(), 1e-12)
	assert.InDelta(t, 0.5, mid.Z(), 1e-12)
	assert.Equal(t, 0.0, Flatten(mgl64.Vec3{1, 5, 2}).Y())
}

func TestSafeNormalize(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{}, SafeNormalize(mgl64.Vec3{}))
	assert.InDelta(t, 1.0, SafeNormalize(mgl64.Vec3{3, 4, 0}).Len(), 1e-12)
	assert.False(t, IsFinite(mgl64.Vec3{math.NaN(), 0, 0}))
}
