package fsm

// RootConfig represents the top-level config structure
type RootConfig struct {
	InitialState string                  `toml:"initial"`
	States       map[string]*StateConfig `toml:"states"`
}

// StateConfig represents a single state definition
type StateConfig struct {
	Parent      string             `toml:"parent,omitempty"`
	OnEnter     []ActionConfig     `toml:"on_enter,omitempty"`
	OnUpdate    []ActionConfig     `toml:"on_update,omitempty"`
	OnExit      []ActionConfig     `toml:"on_exit,omitempty"`
	Transitions []TransitionConfig `toml:"transitions,omitempty"`
}

// TransitionConfig represents a transition definition
type TransitionConfig struct {
	Trigger   string         `toml:"trigger"`              // Registered trigger name or "Tick"
	Target    string         `toml:"target"`               // Target state name
	Guard     string         `toml:"guard,omitempty"`      // Guard function name
	GuardArgs map[string]any `toml:"guard_args,omitempty"` // Parameters for factory guards
	Reenter   bool           `toml:"reenter,omitempty"`    // Restart the target if already active
}

// ActionConfig represents an action definition
type ActionConfig struct {
	Action string         `toml:"action"`
	Args   map[string]any `toml:"args,omitempty"`
}

// ArgFloat reads a numeric action argument, def if absent or not a number
func ArgFloat(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// ArgInt reads an integer action argument, def if absent or not a number
func ArgInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}
