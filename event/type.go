package event

// EventType represents the type of race event
type EventType int

const (
	// EventNone is never emitted; FSM tick transitions use the zero value
	EventNone EventType = iota

	// === Race Lifecycle ===

	// EventRaceStart marks a car entering play
	// Trigger: Controller.OnPlay | Payload: CarPayload
	EventRaceStart

	// EventRaceStop marks a car leaving play
	// Trigger: Controller.OnStop | Payload: CarPayload
	EventRaceStop

	// EventCheckpoint reports an accepted checkpoint crossing
	// Trigger: Controller.WentThroughCheckpoint | Payload: CheckpointPayload
	EventCheckpoint

	// EventLap reports a completed lap
	// Trigger: Controller.WentThroughEnd after race start | Payload: LapPayload
	EventLap

	// EventFinish reports the final lap completed
	// Consumer: RaceLogSystem, AudioSystem | Payload: LapPayload
	EventFinish

	// EventReset reports a teleport back to checkpoint or spawn
	// Trigger: manual reset, flip timeout, fall | Payload: ResetPayload
	EventReset

	// === Turbo ===

	// EventTurboStart reports a turbo entering its active window
	// Payload: TurboPayload
	EventTurboStart

	// EventTurboEnd reports a turbo reaching its duration
	// Payload: TurboPayload
	EventTurboEnd

	// === Drift ===

	// EventDriftStart reports drift entry
	// Payload: DriftPayload
	EventDriftStart

	// EventDriftEnd reports drift exit; Level is the queued level at exit
	// Payload: DriftPayload
	EventDriftEnd

	// EventDriftLevel reports a drift-turbo level increase
	// Payload: DriftPayload
	EventDriftLevel

	// === Items ===

	// EventItemPick reports an item pickup
	// Payload: CarPayload
	EventItemPick

	// EventItemUse reports an item activation
	// Payload: CarPayload
	EventItemUse

	// EventHitodama reports a hitodama count change
	// Payload: HitodamaPayload
	EventHitodama

	// EventHit reports the car being hit
	// Payload: CarPayload
	EventHit

	// === Ground ===

	// EventGroundEnter reports wheels regaining contact
	// Payload: CarPayload
	EventGroundEnter

	// EventGroundExit reports all wheels losing contact
	// Payload: CarPayload
	EventGroundExit
)
