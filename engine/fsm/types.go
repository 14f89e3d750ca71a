package fsm

import "time"

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Trigger names an external event a transition reacts to
// TriggerTick (zero) marks an automatic transition evaluated on Update
type Trigger int

const TriggerTick Trigger = 0

// Machine is a hierarchical finite state machine
// T is the context type passed to actions and guards
type Machine[T any] struct {
	// Graph data, immutable after load
	nodes map[StateID]*Node[T]

	InitialStateID StateID

	// Runtime state
	activeStateID StateID
	timeInState   time.Duration
	activePath    []StateID // Root -> leaf

	guardReg        map[string]GuardFunc[T]
	guardFactoryReg map[string]GuardFactoryFunc[T]
	actionReg       map[string]ActionFunc[T]
	triggerReg      map[string]Trigger
}

// Node represents a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Pre-calculated path from Root to this node for LCA lookup
	Path []StateID

	OnEnter  []Action[T]
	OnUpdate []Action[T]
	OnExit   []Action[T]

	// Transitions in evaluation order
	Transitions []Transition[T]
}

// Transition defines a link between states
type Transition[T any] struct {
	TargetID StateID
	Event    Trigger      // TriggerTick = auto-transition
	Guard    GuardFunc[T] // nil = always
	Reenter  bool         // Exit and re-enter when the target is already active
}

// Action represents a side-effect
type Action[T any] struct {
	Func ActionFunc[T]
	Args map[string]any
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, args map[string]any)

// GuardFactoryFunc creates a parameterized guard from config args
type GuardFactoryFunc[T any] func(m *Machine[T], args map[string]any) GuardFunc[T]
