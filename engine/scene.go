package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/vmath"
)

var (
	ErrUnresolvedLink = errors.New("unresolved entity link")
	ErrDuplicateUUID  = errors.New("duplicate entity uuid")
)

// SceneFile is the on-disk scene layout
type SceneFile struct {
	Name     string        `toml:"name"`
	Entities []SceneEntity `toml:"entity"`
}

// SceneEntity is one entity record; Rotation is XYZ euler degrees
type SceneEntity struct {
	UUID     string      `toml:"uuid"`
	Name     string      `toml:"name"`
	Position [3]float64  `toml:"position"`
	Rotation [3]float64  `toml:"rotation"`
	Scale    *[3]float64 `toml:"scale,omitempty"`

	// Car is decoded over the stock record so partial tables keep defaults
	Car      map[string]any `toml:"car,omitempty"`
	Trigger  *SceneTrigger  `toml:"trigger,omitempty"`
	Collider *SceneCollider `toml:"collider,omitempty"`
}

// SceneTrigger describes a trigger volume
type SceneTrigger struct {
	Flags      []string   `toml:"flags"`
	Checkpoint uint32     `toml:"checkpoint"`
	Size       [3]float64 `toml:"size"`
}

// SceneCollider describes a solid body
type SceneCollider struct {
	Shape string     `toml:"shape"`
	Size  [3]float64 `toml:"size"`
	Mass  float64    `toml:"mass"`
}

var triggerFlagNames = map[string]component.TriggerFlags{
	"checkpoint":    component.FlagCheckpoint,
	"finish":        component.FlagFinishLine,
	"item":          component.FlagItem,
	"out_of_bounds": component.FlagOutOfBounds,
	"turbo_pad":     component.FlagTurboPad,
	"transparent":   component.FlagTransparent,
}

// ParseTriggerFlags maps flag names onto a trigger bitset
func ParseTriggerFlags(names []string) (component.TriggerFlags, error) {
	flags := component.FlagTrigger
	for _, n := range names {
		f, ok := triggerFlagNames[n]
		if !ok {
			return 0, fmt.Errorf("unknown trigger flag %q", n)
		}
		flags |= f
	}
	return flags, nil
}

func parseColliderShape(s string) (component.ColliderShape, error) {
	switch s {
	case "", "box":
		return component.ColliderBox, nil
	case "sphere":
		return component.ColliderSphere, nil
	case "cylinder":
		return component.ColliderCylinder, nil
	default:
		return 0, fmt.Errorf("unknown collider shape %q", s)
	}
}

// SceneResult reports what a load created
// LinkErrors lists wheel links that did not resolve; the wheels stay unlinked
type SceneResult struct {
	Name       string
	Entities   map[string]Entity // By UUID
	LinkErrors []error
}

// LinkError joins all link failures, nil when every link resolved
func (r *SceneResult) LinkError() error {
	return errors.Join(r.LinkErrors...)
}

// DecodeScene parses a scene document
func DecodeScene(r io.Reader) (*SceneFile, error) {
	var sf SceneFile
	if err := toml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &sf, nil
}

// LoadSceneFile reads and loads a scene from disk
func LoadSceneFile(w *World, path string) (*SceneResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return LoadScene(w, data)
}

// LoadScene decodes and instantiates a scene in two phases
// Phase one creates every entity and keeps raw link IDs; phase two resolves links once all entities exist
func LoadScene(w *World, data []byte) (*SceneResult, error) {
	sf, err := DecodeScene(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Instantiate(w, sf)
}

// Instantiate creates the scene's entities in w
func Instantiate(w *World, sf *SceneFile) (*SceneResult, error) {
	res := &SceneResult{Name: sf.Name, Entities: make(map[string]Entity, len(sf.Entities))}

	var cars []Entity
	for i := range sf.Entities {
		se := &sf.Entities[i]
		if se.UUID != "" {
			if _, dup := res.Entities[se.UUID]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateUUID, se.UUID)
			}
		}
		e, err := createSceneEntity(w, se)
		if err != nil {
			return nil, fmt.Errorf("entity %q: %w", se.Name, err)
		}
		if se.UUID != "" {
			res.Entities[se.UUID] = e
		}
		if se.Car != nil {
			cars = append(cars, e)
		}
	}

	for _, e := range cars {
		res.LinkErrors = append(res.LinkErrors, resolveWheelLinks(w, e, res.Entities)...)
	}
	for _, err := range res.LinkErrors {
		w.Log.Warn().Err(err).Msg("scene link skipped")
	}
	w.Log.Info().Str("scene", sf.Name).Int("entities", len(sf.Entities)).Int("cars", len(cars)).Msg("scene loaded")
	return res, nil
}

func createSceneEntity(w *World, se *SceneEntity) (Entity, error) {
	e := w.CreateEntity()
	c := &w.Components

	if se.Name != "" {
		c.Name.Set(e, se.Name)
	}
	if se.UUID != "" {
		c.UUID.Set(e, se.UUID)
	}

	rot := vmath.EulerToQuat(mgl64.Vec3{
		se.Rotation[0] * math.Pi / 180,
		se.Rotation[1] * math.Pi / 180,
		se.Rotation[2] * math.Pi / 180,
	})
	t := component.NewTransform(mgl64.Vec3(se.Position), rot)
	if se.Scale != nil {
		t.Scale = mgl64.Vec3(*se.Scale)
	}
	c.Transform.Set(e, t)

	if se.Car != nil {
		raw, err := toml.Marshal(se.Car)
		if err != nil {
			return 0, fmt.Errorf("encode car table: %w", err)
		}
		cfg, err := component.LoadCarConfig(bytes.NewReader(raw))
		if err != nil {
			return 0, err
		}
		c.Car.Set(e, cfg)
	}

	if se.Trigger != nil {
		flags, err := ParseTriggerFlags(se.Trigger.Flags)
		if err != nil {
			return 0, err
		}
		c.Trigger.Set(e, component.TriggerComponent{Flags: flags, Checkpoint: se.Trigger.Checkpoint})
		c.Collider.Set(e, component.ColliderComponent{Shape: component.ColliderBox, Size: mgl64.Vec3(se.Trigger.Size)})
	} else if se.Collider != nil {
		shape, err := parseColliderShape(se.Collider.Shape)
		if err != nil {
			return 0, err
		}
		c.Collider.Set(e, component.ColliderComponent{Shape: shape, Size: mgl64.Vec3(se.Collider.Size), Mass: se.Collider.Mass})
	}
	return e, nil
}

// resolveWheelLinks maps a car's raw wheel UUIDs to entities
func resolveWheelLinks(w *World, car Entity, byUUID map[string]Entity) []error {
	cfg, ok := w.Components.Car.Get(car)
	if !ok {
		return nil
	}
	var links component.WheelLinksComponent
	var errs []error
	for i, id := range cfg.Wheels.LinkIDs() {
		if id == "" {
			continue
		}
		target, ok := byUUID[id]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: car %d wheel %d -> %s", ErrUnresolvedLink, car, i, id))
			continue
		}
		links.Wheels[i] = uint64(target)
	}
	w.Components.WheelLinks.Set(car, links)
	return errs
}
