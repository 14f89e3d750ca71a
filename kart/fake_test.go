package kart

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/event"
	"github.com/lixenwraith/kartcore/input"
	"github.com/lixenwraith/kartcore/parameter"
	"github.com/lixenwraith/kartcore/physics"
	"github.com/lixenwraith/kartcore/vmath"
)

const dt = parameter.FixedTimeStep

// fakeVehicle records commands; engine force integrates straight into speed
type fakeVehicle struct {
	kmh      float64
	vel      mgl64.Vec3
	pos      mgl64.Vec3
	rot      mgl64.Quat
	contact  bool
	friction float64
	turn     float64
	gain     float64 // km/h per unit of engine force per call

	engine        []float64
	brakes        []float64
	frictionCalls int
	cleared       int
}

func newFakeVehicle() *fakeVehicle {
	return &fakeVehicle{rot: mgl64.QuatIdent(), contact: true, friction: parameter.FrictionSlip}
}

func (f *fakeVehicle) ApplyEngineForce(force float64) {
	f.engine = append(f.engine, force)
	f.kmh += force * f.gain
}

func (f *fakeVehicle) Turn(angle float64)    { f.turn = angle }
func (f *fakeVehicle) Brake(force float64)   { f.brakes = append(f.brakes, force) }
func (f *fakeVehicle) SetFriction(s float64) { f.friction = s; f.frictionCalls++ }
func (f *fakeVehicle) GetKmh() float64       { return f.kmh }

func (f *fakeVehicle) SetVelocity(dir mgl64.Vec3, kmh float64) {
	f.vel = vmath.SafeNormalize(dir).Mul(kmh * parameter.KmhToMs)
	f.kmh = kmh
}

func (f *fakeVehicle) SetModularSpeed(ms float64) {
	if f.kmh < 0 {
		f.kmh = -ms * parameter.MsToKmh
		return
	}
	f.kmh = ms * parameter.MsToKmh
}

func (f *fakeVehicle) SetLinearSpeed(v mgl64.Vec3) {
	f.vel = v
	f.kmh = v.Len() * parameter.MsToKmh
	if v.Dot(vmath.Forward(f.rot)) < 0 {
		f.kmh = -f.kmh
	}
}

func (f *fakeVehicle) SetAngularSpeed(mgl64.Vec3) {}
func (f *fakeVehicle) LinearVelocity() mgl64.Vec3 { return f.vel }
func (f *fakeVehicle) SetPos(p mgl64.Vec3)        { f.pos = p }
func (f *fakeVehicle) SetRotation(q mgl64.Quat)   { f.rot = q }
func (f *fakeVehicle) Position() mgl64.Vec3       { return f.pos }
func (f *fakeVehicle) Rotation() mgl64.Quat       { return f.rot }
func (f *fakeVehicle) ClearForces()               { f.cleared++ }
func (f *fakeVehicle) IsVehicleInContact() bool   { return f.contact }
func (f *fakeVehicle) GetTransform() mgl64.Mat4   { return vmath.Compose(f.pos, f.rot) }

func (f *fakeVehicle) lastEngine() float64 {
	if len(f.engine) == 0 {
		return 0
	}
	return f.engine[len(f.engine)-1]
}

type recorder struct {
	events []event.GameEvent
}

func (r *recorder) Push(ev event.GameEvent) { r.events = append(r.events, ev) }

func (r *recorder) count(t event.EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t event.EventType) (event.GameEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return event.GameEvent{}, false
}

type rig struct {
	c   *Controller
	v   *fakeVehicle
	in  *input.Tracker
	rec *recorder
}

var spawn = mgl64.Vec3{0, 1, 0}

func newRig(t *testing.T, mutate func(*component.CarConfig)) *rig {
	t.Helper()
	cfg := component.DefaultCarConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	r := &rig{v: newFakeVehicle(), in: input.NewTracker(), rec: &recorder{}}
	factory := func(_ physics.VehicleInfo, pos mgl64.Vec3, rot mgl64.Quat) (Vehicle, error) {
		r.v.pos, r.v.rot = pos, rot
		return r.v, nil
	}
	r.c = New(cfg, r.in, factory, WithEvents(r.rec), WithOwner(7))
	require.NoError(t, r.c.OnPlay(spawn, mgl64.QuatIdent()))
	return r
}

// tick latches input edges and runs n controller updates
func (r *rig) tick(n int) {
	for i := 0; i < n; i++ {
		r.in.Tick()
		r.c.Update(dt)
	}
}
