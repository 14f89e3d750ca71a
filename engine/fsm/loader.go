package fsm

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// LoadConfig parses TOML and rebuilds the graph
// Guards, actions and triggers must be registered beforehand
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to unmarshal FSM config: %w", err)
	}
	return m.Build(config)
}

// LoadFile reads a TOML machine definition from disk
func (m *Machine[T]) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read FSM config: %w", err)
	}
	return m.LoadConfig(data)
}

// LoadConfigAuto loads customPath if set, else the embedded definition
func (m *Machine[T]) LoadConfigAuto(customPath string, embedded []byte) error {
	if customPath != "" {
		return m.LoadFile(customPath)
	}
	return m.LoadConfig(embedded)
}

// Build compiles a decoded config into nodes, validating every reference
func (m *Machine[T]) Build(config RootConfig) error {
	m.nodes = make(map[StateID]*Node[T])
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]

	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}
	if _, ok := config.States["Root"]; !ok {
		config.States["Root"] = &StateConfig{}
	}

	// Sorted names give deterministic IDs
	names := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	nameToID := map[string]StateID{"Root": StateRoot}
	for i, name := range names {
		nameToID[name] = StateID(i + 2)
	}

	m.AddState(StateRoot, "Root", StateNone)
	for _, name := range names {
		pName := config.States[name].Parent
		if pName == "" {
			pName = "Root"
		}
		parentID, ok := nameToID[pName]
		if !ok {
			return fmt.Errorf("state '%s' references unknown parent '%s'", name, pName)
		}
		m.AddState(nameToID[name], name, parentID)
	}

	for name, cfg := range config.States {
		if cfg == nil {
			continue
		}
		node := m.nodes[nameToID[name]]
		var err error
		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return fmt.Errorf("state '%s' on_enter: %w", name, err)
		}
		if node.OnUpdate, err = m.compileActions(cfg.OnUpdate); err != nil {
			return fmt.Errorf("state '%s' on_update: %w", name, err)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return fmt.Errorf("state '%s' on_exit: %w", name, err)
		}
		if err := m.compileTransitions(node, cfg.Transitions, nameToID); err != nil {
			return fmt.Errorf("state '%s' transitions: %w", name, err)
		}
	}

	if err := m.CompilePaths(); err != nil {
		return err
	}

	initialID, ok := nameToID[config.InitialState]
	if !ok || initialID == StateRoot {
		return fmt.Errorf("initial state '%s' not found", config.InitialState)
	}
	m.InitialStateID = initialID
	return nil
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action function '%s'", cfg.Action)
		}
		actions = append(actions, Action[T]{Func: fn, Args: cfg.Args})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, nameToID map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := nameToID[cfg.Target]
		if !ok {
			return fmt.Errorf("transition references unknown target '%s'", cfg.Target)
		}

		trigger := TriggerTick
		if cfg.Trigger != "" && cfg.Trigger != "Tick" {
			t, ok := m.triggerReg[cfg.Trigger]
			if !ok {
				return fmt.Errorf("unknown trigger '%s'", cfg.Trigger)
			}
			trigger = t
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			if factory, ok := m.guardFactoryReg[cfg.Guard]; ok {
				guard = factory(m, cfg.GuardArgs)
			} else if g, ok := m.guardReg[cfg.Guard]; ok {
				guard = g
			} else {
				return fmt.Errorf("unknown guard '%s'", cfg.Guard)
			}
		}

		node.Transitions = append(node.Transitions, Transition[T]{
			TargetID: targetID,
			Event:    trigger,
			Guard:    guard,
			Reenter:  cfg.Reenter,
		})
	}
	return nil
}
