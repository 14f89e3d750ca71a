package physics

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/parameter"
)

func testVehicleInfo() VehicleInfo {
	size := mgl64.Vec3{parameter.ChassisSizeX, parameter.ChassisSizeY, parameter.ChassisSizeZ}
	return VehicleInfo{
		ChassisSize:           size,
		Mass:                  parameter.VehicleMass,
		SuspensionStiffness:   parameter.SuspensionStiffness,
		SuspensionCompression: parameter.SuspensionCompression,
		SuspensionDamping:     parameter.SuspensionDamping,
		MaxSuspensionTravelCm: parameter.MaxSuspensionTravelCm,
		FrictionSlip:          parameter.FrictionSlip,
		MaxSuspensionForce:    parameter.MaxSuspensionForce,
		Wheels: WheelLayout(size, mgl64.Vec3{}, parameter.WheelConnectionHeight,
			parameter.WheelRadius, parameter.WheelWidth, parameter.SuspensionRestLength),
	}
}

func stepSeconds(w *World, seconds float64) {
	n := int(seconds / parameter.FixedTimeStep)
	for i := 0; i < n; i++ {
		w.Step(parameter.FixedTimeStep)
	}
}

func TestStepSubsteps(t *testing.T) {
	tests := []struct {
		name string
		dts  []float64
		want []int
	}{
		{"single frame", []float64{parameter.FixedTimeStep}, []int{1}},
		{"half frames accumulate", []float64{parameter.FixedTimeStep / 2, parameter.FixedTimeStep / 2}, []int{0, 1}},
		{"long frame capped", []float64{1.0}, []int{parameter.MaxSubSteps}},
		{"zero dt", []float64{0}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			for i, dt := range tt.dts {
				assert.Equal(t, tt.want[i], w.Step(dt))
			}
		})
	}
}

func TestCleanWorldIdempotent(t *testing.T) {
	w := NewWorld()
	w.AddSphere(0.5, 1, mgl64.Vec3{0, 3, 0})
	w.AddBox(mgl64.Vec3{1, 1, 1}, 2, mgl64.Vec3{2, 3, 0}, mgl64.QuatIdent())
	v, err := w.AddVehicle(testVehicleInfo(), mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent())
	require.NoError(t, err)

	w.CleanWorld()
	w.CleanWorld()

	assert.Equal(t, 1, w.NumBodies())
	assert.Equal(t, 0, w.NumVehicles())
	assert.Equal(t, 0, w.NumConstraints())
	require.NotNil(t, w.Ground())
	assert.Panics(t, func() { v.ApplyEngineForce(10) })
}

func TestAddVehicleRejectsInvalidInfo(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*VehicleInfo)
	}{
		{"no wheels", func(i *VehicleInfo) { i.Wheels = nil }},
		{"zero mass", func(i *VehicleInfo) { i.Mass = 0 }},
		{"flat chassis", func(i *VehicleInfo) { i.ChassisSize[1] = 0 }},
		{"zero radius", func(i *VehicleInfo) { i.Wheels[2].Radius = 0 }},
		{"negative rest", func(i *VehicleInfo) { i.Wheels[0].RestLength = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld()
			info := testVehicleInfo()
			tt.mutate(&info)
			v, err := w.AddVehicle(info, mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
			assert.ErrorIs(t, err, ErrInvalidVehicle)
			assert.Nil(t, v)
			assert.Equal(t, 1, w.NumBodies())
		})
	}
}

func TestVehicleSettlesOnGround(t *testing.T) {
	w := NewWorld()
	v, err := w.AddVehicle(testVehicleInfo(), mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
	require.NoError(t, err)
	assert.Equal(t, parameter.FrictionSlip, v.Friction())

	stepSeconds(w, 3)

	assert.True(t, v.IsVehicleInContact())
	for i := 0; i < v.NumWheels(); i++ {
		assert.True(t, v.WheelInContact(i), "wheel %d", i)
		assert.Greater(t, v.WheelSuspensionForce(i), 0.0)
	}
	pos := v.Position()
	assert.InDelta(t, 0.47, pos[1], 0.2)
	assert.InDelta(t, 0, v.LinearVelocity()[1], 0.1)
	assert.InDelta(t, 0, v.GetKmh(), 1)
}

func TestVehicleDrivesForward(t *testing.T) {
	w := NewWorld()
	v, err := w.AddVehicle(testVehicleInfo(), mgl64.Vec3{0, 0.6, 0}, mgl64.QuatIdent())
	require.NoError(t, err)
	stepSeconds(w, 1)

	for i := 0; i < 60; i++ {
		v.ApplyEngineForce(2000)
		w.Step(parameter.FixedTimeStep)
	}

	assert.Greater(t, v.GetKmh(), 1.0)
	assert.Greater(t, v.Position()[2], 0.0)
}

func TestVehicleSpeedSetters(t *testing.T) {
	w := NewWorld()
	v, err := w.AddVehicle(testVehicleInfo(), mgl64.Vec3{0, 5, 0}, mgl64.QuatIdent())
	require.NoError(t, err)

	v.SetVelocity(mgl64.Vec3{0, 0, 2}, 36)
	assert.InDelta(t, 10, v.LinearVelocity()[2], 1e-9)
	assert.InDelta(t, 36, v.GetKmh(), 1e-9)

	v.SetModularSpeed(5)
	assert.InDelta(t, 5, v.LinearVelocity().Len(), 1e-9)

	v.SetModularSpeed(-5)
	assert.InDelta(t, -5, v.LinearVelocity()[2], 1e-9)
	assert.Less(t, v.GetKmh(), 0.0)

	v.SetLinearSpeed(mgl64.Vec3{})
	v.SetModularSpeed(3)
	assert.Equal(t, mgl64.Vec3{}, v.LinearVelocity())
}

func TestTriggerContactFiresOnEnter(t *testing.T) {
	w := NewWorld()
	v, err := w.AddVehicle(testVehicleInfo(), mgl64.Vec3{0, 0.6, 0}, mgl64.QuatIdent())
	require.NoError(t, err)
	gate := w.AddTrigger(mgl64.Vec3{4, 4, 4}, mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), component.FlagCheckpoint, 2)

	var got []Contact
	w.OnCollision(func(c Contact) { got = append(got, c) })

	w.Step(parameter.FixedTimeStep)
	w.Step(parameter.FixedTimeStep)
	require.Len(t, got, 1)
	assert.Same(t, v, got[0].Vehicle)
	assert.Same(t, gate, got[0].Other)
	assert.Equal(t, uint32(2), got[0].Other.Checkpoint)

	v.SetPos(mgl64.Vec3{50, 0.6, 0})
	w.Step(parameter.FixedTimeStep)
	v.SetPos(mgl64.Vec3{0, 0.6, 0})
	w.Step(parameter.FixedTimeStep)
	assert.Len(t, got, 2)
}

func TestRayCast(t *testing.T) {
	w := NewWorld()
	box := w.AddBox(mgl64.Vec3{1, 1, 1}, 0, mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
	w.AddTrigger(mgl64.Vec3{2, 2, 2}, mgl64.Vec3{0, 4, 0}, mgl64.QuatIdent(), component.FlagItem, 0)

	hit, ok := w.RayCast(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -10, 0})
	require.True(t, ok)
	assert.Same(t, box, hit.Body)
	assert.InDelta(t, 1.5, hit.Point[1], 1e-6)
	assert.InDelta(t, 1, hit.Normal[1], 1e-6)

	hit, ok = w.RayCast(mgl64.Vec3{3, 10, 0}, mgl64.Vec3{3, -10, 0})
	require.True(t, ok)
	assert.Same(t, w.Ground(), hit.Body)

	_, ok = w.RayCast(mgl64.Vec3{3, 10, 0}, mgl64.Vec3{3, 20, 0})
	assert.False(t, ok)
}

func TestPointConstraintHoldsPendulum(t *testing.T) {
	w := NewWorld()
	pivot := mgl64.Vec3{0, 5, 0}
	bob := w.AddSphere(0.1, 1, mgl64.Vec3{1, 5, 0})
	w.AddConstraintP2P(bob, nil, mgl64.Vec3{-1, 0, 0}, pivot)

	stepSeconds(w, 2)

	assert.InDelta(t, 1, bob.Position().Sub(pivot).Len(), 0.05)
	assert.Less(t, bob.Position()[1], 5.0)

	require.NoError(t, w.RemoveBody(bob))
	assert.Equal(t, 0, w.NumConstraints())
	assert.ErrorIs(t, w.RemoveBody(bob), ErrBodyNotFound)
}

func TestSphereRestsOnGround(t *testing.T) {
	w := NewWorld()
	ball := w.AddSphere(0.5, 1, mgl64.Vec3{0, 3, 0})

	stepSeconds(w, 3)

	assert.InDelta(t, 0.5, ball.Position()[1], 0.05)
}

func TestSolidsCollide(t *testing.T) {
	t.Run("sphere rests on static box", func(t *testing.T) {
		w := NewWorld()
		w.AddBox(mgl64.Vec3{4, 2, 4}, 0, mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
		ball := w.AddSphere(0.5, 1, mgl64.Vec3{0, 5, 0})

		stepSeconds(w, 3)

		assert.InDelta(t, 2.5, ball.Position()[1], 0.05)
		assert.InDelta(t, 0, ball.Position()[0], 0.05)
	})

	t.Run("box stacks on static box", func(t *testing.T) {
		w := NewWorld()
		w.AddBox(mgl64.Vec3{4, 2, 4}, 0, mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent())
		crate := w.AddBox(mgl64.Vec3{1, 1, 1}, 5, mgl64.Vec3{0, 4, 0}, mgl64.QuatIdent())

		stepSeconds(w, 3)

		assert.InDelta(t, 2.5, crate.Position()[1], 0.05)
	})

	t.Run("sphere hits static cylinder", func(t *testing.T) {
		w := NewWorld()
		w.AddCylinder(0.6, 2, 0, mgl64.Vec3{0, 1, 5}, mgl64.QuatIdent())
		ball := w.AddSphere(0.5, 1, mgl64.Vec3{0, 0.5, 0})
		ball.SetLinearVelocity(mgl64.Vec3{0, 0, 8})

		stepSeconds(w, 2)

		assert.Less(t, ball.Position()[2], 5-0.6-0.5+0.05)
	})

	t.Run("dynamic spheres exchange momentum", func(t *testing.T) {
		w := NewWorld()
		striker := w.AddSphere(0.5, 1, mgl64.Vec3{0, 0.5, 0})
		target := w.AddSphere(0.5, 1, mgl64.Vec3{3, 0.5, 0})
		striker.SetFriction(0)
		target.SetFriction(0)
		striker.SetLinearVelocity(mgl64.Vec3{4, 0, 0})

		stepSeconds(w, 1)

		assert.Greater(t, target.Position()[0], 3.1)
		assert.Greater(t, target.LinearVelocity()[0], 0.5)
		assert.GreaterOrEqual(t, target.Position().Sub(striker.Position()).Len(), 0.95)
	})

	t.Run("triggers and constrained pairs pass through", func(t *testing.T) {
		w := NewWorld()
		w.AddTrigger(mgl64.Vec3{4, 2, 4}, mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), component.FlagItem, 0)
		ball := w.AddSphere(0.5, 1, mgl64.Vec3{0, 4, 0})

		anchor := w.AddBox(mgl64.Vec3{2, 2, 2}, 0, mgl64.Vec3{10, 3, 0}, mgl64.QuatIdent())
		bob := w.AddSphere(0.5, 1, mgl64.Vec3{10, 3, 0})
		w.AddConstraintP2P(bob, anchor, mgl64.Vec3{}, mgl64.Vec3{})

		stepSeconds(w, 3)

		assert.InDelta(t, 0.5, ball.Position()[1], 0.05)
		assert.InDelta(t, 3, bob.Position()[1], 0.05)
	})
}

func TestVehicleStopsAtWall(t *testing.T) {
	w := NewWorld()
	v, err := w.AddVehicle(testVehicleInfo(), mgl64.Vec3{0, 0.6, 0}, mgl64.QuatIdent())
	require.NoError(t, err)
	stepSeconds(w, 1)

	// Wall face at z = 9.5; chassis nose reaches half its length ahead of center
	w.AddBox(mgl64.Vec3{10, 2, 1}, 0, mgl64.Vec3{0, 1, 10}, mgl64.QuatIdent())
	v.SetVelocity(mgl64.Vec3{0, 0, 1}, 15*parameter.MsToKmh)

	stepSeconds(w, 3)

	front := v.Position()[2] + parameter.ChassisSizeZ/2
	assert.Less(t, front, 9.6)
	assert.Less(t, v.LinearVelocity()[2], 1.0)
}

func flatImage(size int, gray uint8) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetGray(x, y, color.Gray{Y: gray})
		}
	}
	return img
}

func TestTerrainLifecycle(t *testing.T) {
	w := NewWorld()
	assert.False(t, w.TerrainIsGenerated())
	assert.ErrorIs(t, w.AddTerrain(), ErrNoHeightmap)

	require.NoError(t, w.GenerateHeightmap(flatImage(9, 255)))
	assert.True(t, w.TerrainIsGenerated())

	h, ok := w.Terrain().Height(0, 0)
	require.True(t, ok)
	assert.InDelta(t, parameter.DefaultTerrainMaxHeight, h, 1e-9)

	w.SetTerrainMaxHeight(0.05)
	assert.InDelta(t, parameter.DefaultTerrainMaxHeight, w.TerrainMaxHeight(), 1e-9)

	w.SetTerrainMaxHeight(2)
	h, ok = w.TerrainHeight(1.5, -2.25)
	require.True(t, ok)
	assert.InDelta(t, 2, h, 1e-9)

	require.NoError(t, w.AddTerrain())
	assert.ErrorIs(t, w.AddTerrain(), ErrTerrainActive)

	hit, ok := w.RayCast(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -10, 0})
	require.True(t, ok)
	assert.InDelta(t, 2, hit.Point[1], 1e-3)

	w.CleanWorld()
	assert.True(t, w.TerrainIsGenerated())
	hit, ok = w.RayCast(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{0, -10, 0})
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Point[1], 1e-6)

	w.DeleteHeightmap()
	assert.False(t, w.TerrainIsGenerated())
	_, ok = w.TerrainHeight(0, 0)
	assert.False(t, ok)
}

func TestTerrainSmoothing(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	img.SetGray(2, 2, color.Gray{Y: 255})

	raw, err := NewTerrain(img, 0, 10)
	require.NoError(t, err)
	smooth, err := NewTerrain(img, 1, 10)
	require.NoError(t, err)

	rawPeak, _ := raw.Height(0, 0)
	smoothPeak, _ := smooth.Height(0, 0)
	assert.InDelta(t, 10, rawPeak, 1e-9)
	assert.Less(t, smoothPeak, rawPeak)
	assert.InDelta(t, 10.0/9, smoothPeak, 1e-9)

	_, err = NewTerrain(image.NewGray(image.Rect(0, 0, 0, 0)), 1, 10)
	assert.ErrorIs(t, err, ErrEmptyHeightmap)
}
