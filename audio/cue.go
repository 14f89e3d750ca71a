package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/kartcore/component"
	"github.com/lixenwraith/kartcore/parameter"
)

// Cue names a race sound
type Cue uint8

const (
	CueCheckpoint Cue = iota
	CueLap
	CueFinish
	CueReset
	CueDriftStart
	CueDriftLevel
	CueTurbo
	CueItem
)

func (c Cue) String() string {
	switch c {
	case CueCheckpoint:
		return "checkpoint"
	case CueLap:
		return "lap"
	case CueFinish:
		return "finish"
	case CueReset:
		return "reset"
	case CueDriftStart:
		return "drift_start"
	case CueDriftLevel:
		return "drift_level"
	case CueTurbo:
		return "turbo"
	case CueItem:
		return "item"
	default:
		return fmt.Sprintf("cue(%d)", uint8(c))
	}
}

// TurboFrequency gives each turbo kind its own pitch, rising with strength
func TurboFrequency(kind component.Turbo) float64 {
	return parameter.CueTurboBaseFreq * math.Pow(2, float64(kind.Slot())/4)
}

// tone is a fixed-length sine with a short linear fade at both ends
func tone(rate beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %.0f Hz: %w", freq, err)
	}
	n := rate.N(d)
	return &fade{s: beep.Take(n, sine), total: n, edge: rate.N(d / 8)}, nil
}

// Build synthesizes a cue; arg is the turbo kind for CueTurbo and the level for CueDriftLevel
func Build(c Cue, arg int, rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	short, long, gap := parameter.CueShortDuration, parameter.CueLongDuration, rate.N(parameter.CueGap)

	var parts []beep.Streamer
	add := func(freq float64, d time.Duration) error {
		s, err := tone(rate, freq, d)
		if err != nil {
			return err
		}
		if len(parts) > 0 {
			parts = append(parts, beep.Silence(gap))
		}
		parts = append(parts, s)
		return nil
	}

	var err error
	switch c {
	case CueCheckpoint:
		err = add(parameter.CueCheckpointFreq, short)
	case CueLap:
		if err = add(parameter.CueLapFreq, short); err == nil {
			err = add(parameter.CueLapFreq, short)
		}
	case CueFinish:
		for _, f := range []float64{parameter.CueLapFreq, parameter.CueFinishFreq} {
			if err = add(f, short); err != nil {
				break
			}
		}
		if err == nil {
			err = add(parameter.CueFinishFreq, long)
		}
	case CueReset:
		err = add(parameter.CueResetFreq, long)
	case CueDriftStart:
		err = add(parameter.CueDriftFreq, short)
	case CueDriftLevel:
		// One blip per level
		for i := 0; i < arg && err == nil; i++ {
			err = add(parameter.CueDriftFreq*(1+float64(i+1)/2), short)
		}
	case CueTurbo:
		err = add(TurboFrequency(component.Turbo(arg)), long)
	case CueItem:
		err = add(parameter.CueCheckpointFreq*1.5, short)
	default:
		return nil, fmt.Errorf("unknown %s", c)
	}
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// withVolume maps a linear gain onto effects.Volume's log2 scale; zero is silent
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

type fade struct {
	s     beep.Streamer
	pos   int
	total int
	edge  int
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := 1.0
		if f.edge > 0 {
			if f.pos < f.edge {
				g = float64(f.pos) / float64(f.edge)
			} else if rem := f.total - f.pos; rem < f.edge {
				g = float64(rem) / float64(f.edge)
			}
		}
		samples[i][0] *= g
		samples[i][1] *= g
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.s.Err() }
