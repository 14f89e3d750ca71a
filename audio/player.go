package audio

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/kartcore/parameter"
)

// Sink plays race cues; AudioSystem depends only on this
type Sink interface {
	Play(c Cue, arg int)
}

// Config controls the cue player
type Config struct {
	Enabled bool
	Volume  float64 // Linear gain, 1 = unchanged
}

// CuePlayer mixes cues into one speaker stream
// Without a usable output device it stays in silent mode and drops cues
type CuePlayer struct {
	cfg  Config
	log  zerolog.Logger
	rate beep.SampleRate

	mu     sync.Mutex
	mixer  *beep.Mixer
	opened bool

	silent  atomic.Bool
	played  atomic.Int64
	dropped atomic.Int64
}

func NewCuePlayer(cfg Config, log zerolog.Logger) *CuePlayer {
	p := &CuePlayer{
		cfg:   cfg,
		log:   log,
		rate:  beep.SampleRate(parameter.AudioSampleRate),
		mixer: &beep.Mixer{},
	}
	p.silent.Store(true)
	return p
}

func (p *CuePlayer) Name() string           { return "audio" }
func (p *CuePlayer) Dependencies() []string { return nil }

// Init opens the speaker; a missing device is not an error
func (p *CuePlayer) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || p.opened {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(parameter.AudioBufferDuration)); err != nil {
		p.log.Warn().Err(err).Msg("audio device unavailable, running silent")
		return nil
	}
	speaker.Play(p.mixer)
	p.opened = true
	p.silent.Store(false)
	return nil
}

func (p *CuePlayer) Start() error { return nil }

// Stop clears pending cues and closes the device
func (p *CuePlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.opened {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	p.opened = false
	p.silent.Store(true)
	return nil
}

// Silent reports whether cues are being dropped
func (p *CuePlayer) Silent() bool { return p.silent.Load() }

// Play synthesizes and queues a cue
func (p *CuePlayer) Play(c Cue, arg int) {
	if p.silent.Load() {
		p.dropped.Add(1)
		return
	}
	s, err := Build(c, arg, p.rate, p.cfg.Volume)
	if err != nil {
		p.log.Error().Err(err).Stringer("cue", c).Msg("cue synthesis failed")
		return
	}
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played.Add(1)
}

// Stats returns played and dropped cue counts
func (p *CuePlayer) Stats() (played, dropped int64) {
	return p.played.Load(), p.dropped.Load()
}
