package fsm

import (
	"fmt"
	"time"
)

// NewMachine creates an empty machine with the built-in StateTimeExceeds guard factory
func NewMachine[T any]() *Machine[T] {
	m := &Machine[T]{
		nodes:           make(map[StateID]*Node[T]),
		guardReg:        make(map[string]GuardFunc[T]),
		guardFactoryReg: make(map[string]GuardFactoryFunc[T]),
		actionReg:       make(map[string]ActionFunc[T]),
		triggerReg:      make(map[string]Trigger),
	}
	m.RegisterGuardFactory("StateTimeExceeds", stateTimeExceeds[T])
	return m
}

// stateTimeExceeds passes once the active state has lasted longer than args.ms
func stateTimeExceeds[T any](m *Machine[T], args map[string]any) GuardFunc[T] {
	limit := time.Duration(ArgFloat(args, "ms", 0) * float64(time.Millisecond))
	return func(T) bool { return m.timeInState > limit }
}

// RegisterGuard adds a predicate function to the registry
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterGuardFactory adds a parameterized guard factory to the registry
func (m *Machine[T]) RegisterGuardFactory(name string, factory GuardFactoryFunc[T]) {
	m.guardFactoryReg[name] = factory
}

// RegisterAction adds a side-effect function to the registry
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// RegisterTrigger names an external event for config transitions
// Trigger values must be non-zero; zero is reserved for Tick
func (m *Machine[T]) RegisterTrigger(name string, t Trigger) {
	m.triggerReg[name] = t
}

// Init enters the initial state, running OnEnter from Root down
func (m *Machine[T]) Init(ctx T) error {
	node, ok := m.nodes[m.InitialStateID]
	if !ok {
		return fmt.Errorf("initial state ID %d not found", m.InitialStateID)
	}

	m.activeStateID = m.InitialStateID
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], node.Path...)

	for _, id := range m.activePath {
		runActions(ctx, m.nodes[id].OnEnter)
	}
	return nil
}

func runActions[T any](ctx T, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, a.Args)
	}
}

// Update advances time, runs the leaf's OnUpdate, then takes the first passing tick transition
// Tick transitions bubble from leaf to root; at most one transition per call
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.activeStateID == StateNone {
		return
	}
	m.timeInState += dt

	runActions(ctx, m.nodes[m.activeStateID].OnUpdate)
	m.fire(ctx, TriggerTick)
}

// HandleEvent routes an external trigger, bubbling from leaf to root
// Returns true if a transition was taken
func (m *Machine[T]) HandleEvent(ctx T, trigger Trigger) bool {
	if m.activeStateID == StateNone || trigger == TriggerTick {
		return false
	}
	return m.fire(ctx, trigger)
}

func (m *Machine[T]) fire(ctx T, trigger Trigger) bool {
	for currID := m.activeStateID; currID != StateNone; {
		node := m.nodes[currID]
		for _, trans := range node.Transitions {
			if trans.Event != trigger {
				continue
			}
			if trans.Guard == nil || trans.Guard(ctx) {
				return m.transition(ctx, trans.TargetID, trans.Reenter)
			}
		}
		currID = node.ParentID
	}
	return false
}

// transition exits up to the LCA and enters down to the target
// A transition to the active state is a no-op unless reenter is set
func (m *Machine[T]) transition(ctx T, targetID StateID, reenter bool) bool {
	if m.activeStateID == targetID && !reenter {
		return false
	}
	targetNode, ok := m.nodes[targetID]
	if !ok {
		panic(fmt.Sprintf("fsm: transition to unknown state ID %d", targetID))
	}

	lcaIndex := -1
	currentPath := m.activePath
	targetPath := targetNode.Path
	for i := 0; i < min(len(currentPath), len(targetPath)); i++ {
		if currentPath[i] != targetPath[i] {
			break
		}
		lcaIndex = i
	}
	if reenter && lcaIndex == len(targetPath)-1 {
		lcaIndex--
	}

	for i := len(currentPath) - 1; i > lcaIndex; i-- {
		runActions(ctx, m.nodes[currentPath[i]].OnExit)
	}

	m.activeStateID = targetID
	m.timeInState = 0
	m.activePath = append(m.activePath[:0], targetPath...)

	for i := lcaIndex + 1; i < len(targetPath); i++ {
		runActions(ctx, m.nodes[targetPath[i]].OnEnter)
	}
	return true
}

// Reset exits the active path and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		runActions(ctx, m.nodes[m.activePath[i]].OnExit)
	}
	m.activeStateID = StateNone
	m.activePath = m.activePath[:0]
	return m.Init(ctx)
}

// Current returns the active leaf name, empty before Init
func (m *Machine[T]) Current() string {
	if node, ok := m.nodes[m.activeStateID]; ok {
		return node.Name
	}
	return ""
}

// CurrentID returns the active leaf
func (m *Machine[T]) CurrentID() StateID { return m.activeStateID }

// TimeInState returns time since the last transition
func (m *Machine[T]) TimeInState() time.Duration { return m.timeInState }

// IsIn reports whether the named state is on the active path
func (m *Machine[T]) IsIn(name string) bool {
	for _, id := range m.activePath {
		if m.nodes[id].Name == name {
			return true
		}
	}
	return false
}

// GetStateID resolves a state name to ID
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	for id, node := range m.nodes {
		if node.Name == name {
			return id, true
		}
	}
	return StateNone, false
}
