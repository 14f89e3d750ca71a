package component

// TriggerFlags tags a collision body with gameplay roles
// A body may carry several flags; every matching reaction fires
type TriggerFlags uint16

const (
	FlagCar TriggerFlags = 1 << iota
	FlagTrigger
	FlagCheckpoint
	FlagFinishLine
	FlagItem
	FlagOutOfBounds
	FlagTransparent
	FlagTurboPad
)

// Has reports whether all bits in f are set
func (t TriggerFlags) Has(f TriggerFlags) bool {
	return t&f == f
}

// TriggerComponent marks an entity as a race trigger volume
type TriggerComponent struct {
	Flags      TriggerFlags
	Checkpoint uint32 // Sequence index for checkpoint and finish volumes
}
