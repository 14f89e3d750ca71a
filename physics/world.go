package physics

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/parameter"
)

var (
	ErrBodyNotFound  = errors.New("body not found")
	ErrNoHeightmap   = errors.New("no heightmap generated")
	ErrTerrainActive = errors.New("terrain already added")
)

// Contact reports a car chassis entering a trigger volume
type Contact struct {
	Vehicle *RigidVehicle
	Car     *Body
	Other   *Body
}

// CollisionHandler receives contacts after each Step
type CollisionHandler func(Contact)

// Option configures a World
type Option func(*World)

// WithLogger attaches a logger
func WithLogger(l zerolog.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithGravity overrides the default gravity vector
func WithGravity(g mgl64.Vec3) Option {
	return func(w *World) { w.gravity = g }
}

// WithTerrainSmoothing sets the blur pass count for generated heightmaps
func WithTerrainSmoothing(levels int) Option {
	return func(w *World) { w.smoothLevels = levels }
}

// World owns every body, vehicle and constraint of one simulation
// Single-threaded: mutation and Step must happen on the same goroutine
type World struct {
	log     zerolog.Logger
	gravity mgl64.Vec3

	bodies      []*Body
	vehicles    []*RigidVehicle
	constraints []Constraint
	nextID      BodyID

	ground      *Body
	terrain     *Terrain
	terrainBody *Body

	terrainMaxHeight float64
	smoothLevels     int

	accumulator float64
	overlaps    map[[2]BodyID]struct{}
	handlers    []CollisionHandler
}

// NewWorld creates a world with a static ground plane at y = 0
func NewWorld(opts ...Option) *World {
	w := &World{
		log:              zerolog.Nop(),
		gravity:          mgl64.Vec3{0, parameter.Gravity, 0},
		terrainMaxHeight: parameter.DefaultTerrainMaxHeight,
		smoothLevels:     parameter.DefaultTerrainSmoothLevels,
		overlaps:         make(map[[2]BodyID]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.createGround()
	return w
}

func (w *World) createGround() {
	w.ground = w.addBody(PlaneShape{Normal: mgl64.Vec3{0, 1, 0}}, 0, mgl64.Vec3{}, mgl64.QuatIdent())
}

// Ground returns the static ground plane
func (w *World) Ground() *Body { return w.ground }

// Gravity returns the world gravity vector
func (w *World) Gravity() mgl64.Vec3 { return w.gravity }

// OnCollision registers a contact handler
func (w *World) OnCollision(h CollisionHandler) {
	w.handlers = append(w.handlers, h)
}

func (w *World) addBody(shape Shape, mass float64, pos mgl64.Vec3, rot mgl64.Quat) *Body {
	w.nextID++
	b := newBody(w.nextID, shape, mass, pos, rot)
	w.bodies = append(w.bodies, b)
	return b
}

// AddSphere adds a sphere body; mass 0 makes it static
func (w *World) AddSphere(radius, mass float64, pos mgl64.Vec3) *Body {
	return w.addBody(SphereShape{Radius: radius}, mass, pos, mgl64.QuatIdent())
}

// AddBox adds a box from full extents
func (w *World) AddBox(size mgl64.Vec3, mass float64, pos mgl64.Vec3, rot mgl64.Quat) *Body {
	return w.addBody(BoxShape{HalfExtents: size.Mul(0.5)}, mass, pos, rot)
}

// AddCylinder adds a Y-aligned cylinder
func (w *World) AddCylinder(radius, height, mass float64, pos mgl64.Vec3, rot mgl64.Quat) *Body {
	return w.addBody(CylinderShape{Radius: radius, HalfHeight: height / 2}, mass, pos, rot)
}

// AddConvexHull adds a hull from local vertices
func (w *World) AddConvexHull(points []mgl64.Vec3, mass float64, pos mgl64.Vec3, rot mgl64.Quat) *Body {
	pts := make([]mgl64.Vec3, len(points))
	copy(pts, points)
	return w.addBody(ConvexHullShape{Points: pts}, mass, pos, rot)
}

// AddTrigger adds a static box volume that reports overlaps and never collides
func (w *World) AddTrigger(size mgl64.Vec3, pos mgl64.Vec3, rot mgl64.Quat, flags component.TriggerFlags, checkpoint uint32) *Body {
	b := w.AddBox(size, 0, pos, rot)
	b.Flags = flags | component.FlagTrigger
	b.Checkpoint = checkpoint
	return b
}

// Body looks up a body by id
func (w *World) Body(id BodyID) (*Body, bool) {
	for _, b := range w.bodies {
		if b.id == id {
			return b, true
		}
	}
	return nil, false
}

// Bodies returns the live body list; callers must not modify it
func (w *World) Bodies() []*Body { return w.bodies }

// NumBodies counts bodies including the ground plane
func (w *World) NumBodies() int { return len(w.bodies) }

// RemoveBody destroys a body and any constraint attached to it
func (w *World) RemoveBody(b *Body) error {
	idx := -1
	for i, cand := range w.bodies {
		if cand == b {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("remove body %d: %w", b.id, ErrBodyNotFound)
	}
	w.bodies = append(w.bodies[:idx], w.bodies[idx+1:]...)

	kept := w.constraints[:0]
	for _, c := range w.constraints {
		a, o := c.Bodies()
		if a != b && o != b {
			kept = append(kept, c)
		}
	}
	w.constraints = kept

	for key := range w.overlaps {
		if key[0] == b.id || key[1] == b.id {
			delete(w.overlaps, key)
		}
	}
	if b == w.ground {
		w.ground = nil
	}
	if b == w.terrainBody {
		w.terrainBody = nil
	}
	return nil
}

// AddConstraintP2P pins pivotA on a to pivotB on b (or to world point pivotB if b is nil)
func (w *World) AddConstraintP2P(a, b *Body, pivotA, pivotB mgl64.Vec3) *PointConstraint {
	c := &PointConstraint{a: a, b: b, pivotA: pivotA, pivotB: pivotB}
	w.constraints = append(w.constraints, c)
	return c
}

// AddConstraintHinge joins two bodies at pivots, free to rotate only about the aligned axes
func (w *World) AddConstraintHinge(a, b *Body, pivotA, pivotB, axisA, axisB mgl64.Vec3) *HingeConstraint {
	c := &HingeConstraint{
		PointConstraint: PointConstraint{a: a, b: b, pivotA: pivotA, pivotB: pivotB},
		axisA:           axisA.Normalize(),
		axisB:           axisB.Normalize(),
	}
	w.constraints = append(w.constraints, c)
	return c
}

// NumConstraints counts live constraints
func (w *World) NumConstraints() int { return len(w.constraints) }

// AddVehicle builds a raycast vehicle; the chassis is a compound of body box and nose
func (w *World) AddVehicle(info VehicleInfo, pos mgl64.Vec3, rot mgl64.Quat) (*RigidVehicle, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	half := info.ChassisSize.Mul(0.5)
	noseHalf := half.Mul(parameter.ChassisNoseScale)
	noseOffset := info.ChassisOffset.Add(mgl64.Vec3{0, half[1] + noseHalf[1], half[2] - noseHalf[2]})
	shape := CompoundShape{Children: []CompoundChild{
		{Shape: BoxShape{HalfExtents: half}, Offset: info.ChassisOffset},
		{Shape: BoxShape{HalfExtents: noseHalf}, Offset: noseOffset},
	}}

	chassis := w.addBody(shape, info.Mass, pos, rot)
	chassis.Flags = component.FlagCar

	v := &RigidVehicle{world: w, chassis: chassis, info: info}
	v.wheels = make([]wheelState, len(info.Wheels))
	for i, wi := range info.Wheels {
		v.wheels[i] = wheelState{
			info:             wi,
			frictionSlip:     info.FrictionSlip,
			suspensionLength: wi.RestLength,
		}
	}
	w.vehicles = append(w.vehicles, v)

	w.log.Debug().Uint32("chassis", uint32(chassis.id)).Int("wheels", len(v.wheels)).Msg("vehicle added")
	return v, nil
}

// RemoveVehicle destroys a vehicle and its chassis
func (w *World) RemoveVehicle(v *RigidVehicle) error {
	for i, cand := range w.vehicles {
		if cand == v {
			w.vehicles = append(w.vehicles[:i], w.vehicles[i+1:]...)
			err := w.RemoveBody(v.chassis)
			v.removed = true
			return err
		}
	}
	return fmt.Errorf("remove vehicle: %w", ErrBodyNotFound)
}

// NumVehicles counts live vehicles
func (w *World) NumVehicles() int { return len(w.vehicles) }

// CleanWorld destroys everything and recreates the ground plane
// Generated heightmap data survives; its collider does not
func (w *World) CleanWorld() {
	for _, v := range w.vehicles {
		v.removed = true
	}
	w.vehicles = nil
	w.constraints = nil
	w.bodies = nil
	w.terrainBody = nil
	w.ground = nil
	w.accumulator = 0
	clear(w.overlaps)

	w.createGround()
	w.log.Debug().Msg("world cleaned")
}

// GenerateHeightmap builds terrain data from an image at the current max height
func (w *World) GenerateHeightmap(img image.Image) error {
	t, err := NewTerrain(img, w.smoothLevels, w.terrainMaxHeight)
	if err != nil {
		return fmt.Errorf("generate heightmap: %w", err)
	}
	w.DeleteHeightmap()
	w.terrain = t
	wd, dp := t.Size()
	w.log.Info().Int("width", wd).Int("depth", dp).Float64("max_height", w.terrainMaxHeight).Msg("heightmap generated")
	return nil
}

// DeleteHeightmap drops terrain data and its collider
func (w *World) DeleteHeightmap() {
	if w.terrainBody != nil {
		_ = w.RemoveBody(w.terrainBody)
	}
	w.terrain = nil
}

// TerrainIsGenerated reports whether heightmap data exists
func (w *World) TerrainIsGenerated() bool { return w.terrain != nil }

// Terrain returns the generated heightfield, or nil
func (w *World) Terrain() *Terrain { return w.terrain }

// SetTerrainMaxHeight rescales terrain; values at or below the minimum are ignored
func (w *World) SetTerrainMaxHeight(h float64) {
	if h <= parameter.MinTerrainMaxHeight {
		return
	}
	w.terrainMaxHeight = h
	if w.terrain != nil {
		w.terrain.SetMaxHeight(h)
	}
}

// TerrainHeight samples generated terrain at x,z; false outside the map or with no heightmap
func (w *World) TerrainHeight(x, z float64) (float64, bool) {
	if w.terrain == nil {
		return 0, false
	}
	return w.terrain.Height(x, z)
}

// TerrainMaxHeight returns the current terrain scale
func (w *World) TerrainMaxHeight() float64 { return w.terrainMaxHeight }

// AddTerrain creates the heightfield collider from generated data
func (w *World) AddTerrain() error {
	if w.terrain == nil {
		return ErrNoHeightmap
	}
	if w.terrainBody != nil {
		return ErrTerrainActive
	}
	w.terrainBody = w.addBody(w.terrain, 0, mgl64.Vec3{}, mgl64.QuatIdent())
	return nil
}

// Step advances the simulation by dt in fixed substeps and dispatches trigger contacts
// Returns the number of substeps taken
func (w *World) Step(dt float64) int {
	const eps = 1e-9
	w.accumulator += dt

	steps := 0
	for w.accumulator+eps >= parameter.FixedTimeStep && steps < parameter.MaxSubSteps {
		w.substep(parameter.FixedTimeStep)
		w.accumulator -= parameter.FixedTimeStep
		steps++
	}
	if steps == parameter.MaxSubSteps {
		w.accumulator = 0
	}
	if w.accumulator < 0 {
		w.accumulator = 0
	}

	if steps > 0 {
		w.dispatchContacts()
	}
	return steps
}

func (w *World) substep(h float64) {
	for _, b := range w.bodies {
		b.integrateVelocity(w.gravity, h)
	}
	for _, v := range w.vehicles {
		v.update(h)
	}
	for i := 0; i < parameter.ConstraintIterations; i++ {
		for _, c := range w.constraints {
			c.solve(h)
		}
	}
	for _, b := range w.bodies {
		if !b.IsStatic() && !b.IsTrigger() {
			w.resolveStatic(b)
		}
	}
	w.resolveSolids()
	for _, b := range w.bodies {
		b.integratePosition(h)
		b.ClearForces()
	}
}

// surfaceAt returns the highest static surface under x,z among ground and terrain
func (w *World) surfaceAt(x, z float64) (float64, mgl64.Vec3, bool) {
	height, normal, ok := math.Inf(-1), mgl64.Vec3{0, 1, 0}, false
	if w.ground != nil {
		if p, isPlane := w.ground.shape.(PlaneShape); isPlane && p.Normal[1] != 0 {
			height = (p.Constant - p.Normal[0]*x - p.Normal[2]*z) / p.Normal[1]
			normal = p.Normal
			ok = true
		}
	}
	if w.terrainBody != nil && w.terrain != nil {
		if th, in := w.terrain.Height(x, z); in && th > height {
			height, normal, ok = th, w.terrain.Normal(x, z), true
		}
	}
	return height, normal, ok
}

// resolveStatic pushes a dynamic body out of the ground and terrain with friction
func (w *World) resolveStatic(b *Body) {
	deepest := 0.0
	var deepestNormal mgl64.Vec3
	for _, lp := range b.shape.SupportPoints() {
		rel := b.rotation.Rotate(lp)
		p := b.position.Add(rel)
		surf, n, ok := w.surfaceAt(p[0], p[2])
		if !ok || p[1] >= surf {
			continue
		}
		depth := (surf - p[1]) * n[1]
		if depth > deepest {
			deepest, deepestNormal = depth, n
		}
		contactImpulse(b, nil, rel, mgl64.Vec3{}, n, b.friction)
	}
	if deepest > 0 {
		b.position = b.position.Add(deepestNormal.Mul(deepest * parameter.ContactCorrection))
	}
}

// dispatchContacts reports car-trigger overlaps that began since the last step
func (w *World) dispatchContacts() {
	current := make(map[[2]BodyID]struct{})
	var fresh []Contact

	for _, v := range w.vehicles {
		clo, chi := v.chassis.WorldBounds()
		for _, b := range w.bodies {
			if !b.IsTrigger() {
				continue
			}
			blo, bhi := b.WorldBounds()
			if !overlapAABB(clo, chi, blo, bhi) {
				continue
			}
			key := [2]BodyID{v.chassis.id, b.id}
			current[key] = struct{}{}
			if _, seen := w.overlaps[key]; !seen {
				fresh = append(fresh, Contact{Vehicle: v, Car: v.chassis, Other: b})
			}
		}
	}
	w.overlaps = current

	for _, c := range fresh {
		for _, h := range w.handlers {
			h(c)
		}
	}
}

func overlapAABB(alo, ahi, blo, bhi mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if ahi[i] < blo[i] || bhi[i] < alo[i] {
			return false
		}
	}
	return true
}
