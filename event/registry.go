package event

import "strings"

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
)

// RegisterType maps a string name to an EventType
func RegisterType(name string, et EventType) {
	nameToType[name] = et
	typeToName[et] = name
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	if strings.EqualFold(name, "Tick") {
		return EventNone, true
	}
	et, ok := nameToType[name]
	return et, ok
}

// String returns the registered name, "Tick" for the zero type
func (t EventType) String() string {
	if t == EventNone {
		return "Tick"
	}
	if name, ok := typeToName[t]; ok {
		return name
	}
	return "EventUnknown"
}

func init() {
	RegisterType("EventRaceStart", EventRaceStart)
	RegisterType("EventRaceStop", EventRaceStop)
	RegisterType("EventCheckpoint", EventCheckpoint)
	RegisterType("EventLap", EventLap)
	RegisterType("EventFinish", EventFinish)
	RegisterType("EventReset", EventReset)
	RegisterType("EventTurboStart", EventTurboStart)
	RegisterType("EventTurboEnd", EventTurboEnd)
	RegisterType("EventDriftStart", EventDriftStart)
	RegisterType("EventDriftEnd", EventDriftEnd)
	RegisterType("EventDriftLevel", EventDriftLevel)
	RegisterType("EventItemPick", EventItemPick)
	RegisterType("EventItemUse", EventItemUse)
	RegisterType("EventHitodama", EventHitodama)
	RegisterType("EventHit", EventHit)
	RegisterType("EventGroundEnter", EventGroundEnter)
	RegisterType("EventGroundExit", EventGroundExit)
}
