package animation

// ClipPlayer is an Animator that tracks clip playback time without a skeleton
// Used by headless and terminal runs to give one-shot clips a real end
type ClipPlayer struct {
	durations map[int]float64 // Seconds at 1x; absent clips loop
	clip      int
	elapsed   float64
	ratio     float64
	tps       float64
	plays     int
}

// NewClipPlayer creates a player with per-clip durations in seconds
func NewClipPlayer(durations map[int]float64) *ClipPlayer {
	return &ClipPlayer{durations: durations, clip: -1, tps: 1}
}

func (p *ClipPlayer) Play(clip int, _ float64) {
	p.clip = clip
	p.elapsed = 0
	p.plays++
}

// Playing reports false once a finite clip has run its duration
func (p *ClipPlayer) Playing() bool {
	if p.clip < 0 {
		return false
	}
	d, ok := p.durations[p.clip]
	return !ok || p.elapsed < d
}

func (p *ClipPlayer) LockRatio(r float64)           { p.ratio = r }
func (p *ClipPlayer) SetTicksPerSecond(tps float64) { p.tps = tps }

// Advance moves the clip clock
func (p *ClipPlayer) Advance(dt float64) { p.elapsed += dt }

// Clip returns the active clip index, -1 before the first Play
func (p *ClipPlayer) Clip() int { return p.clip }

// Ratio returns the last locked blend ratio
func (p *ClipPlayer) Ratio() float64 { return p.ratio }

// TicksPerSecond returns the last playback rate set
func (p *ClipPlayer) TicksPerSecond() float64 { return p.tps }

// Plays counts Play calls
func (p *ClipPlayer) Plays() int { return p.plays }
