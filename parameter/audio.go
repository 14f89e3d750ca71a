package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
)

// AudioBufferDuration determines speaker latency
const AudioBufferDuration = 100 * time.Millisecond

// Cue shapes
const (
	CueShortDuration = 80 * time.Millisecond
	CueLongDuration  = 300 * time.Millisecond
	CueGap           = 40 * time.Millisecond

	CueCheckpointFreq = 660.0
	CueLapFreq        = 880.0
	CueFinishFreq     = 1320.0
	CueResetFreq      = 220.0
	CueDriftFreq      = 330.0
	CueTurboBaseFreq  = 440.0
)
