package playback

import (
	"math"
	"sync"

	"github.com/vidra-cli/vidra/rx"
)

// Hooks are the adapter callbacks a Pipeline invokes when a consumer sets a
// parameter or fires a request. Nil hooks are skipped, which is how adapters
// buffer settings while no engine is bound: the Pipeline keeps the value and
// the adapter reads it back on bind.
type Hooks struct {
	OnInput   func(prev, next Input)
	OnMuted   func(bool)
	OnVolume  func(float64)
	OnQuality func(VideoQuality)
	OnSpeed   func(float64)
	OnSeek    func(TimeInSeconds)
	OnIntent  func(Intent)
}

// Pipeline is the shared half of every Playback implementation: parameter
// storage with idempotent input assignment, the output relays with their
// pinned replay semantics, and the derived progress stream. Adapters embed a
// Pipeline and feed it through the Emit methods.
type Pipeline struct {
	mu    sync.Mutex
	hooks Hooks

	input   Input
	muted   bool
	volume  float64
	quality VideoQuality
	speed   float64

	time      *rx.BehaviorRelay[TimeInSeconds]
	duration  *rx.BehaviorRelay[TimeInSeconds]
	loaded    *rx.Relay[LoadedTimeRange]
	state     *rx.BehaviorRelay[PlayerState]
	seekDone  *rx.Relay[Unit]
	speedUpd  *rx.Relay[float64]
	qualities *rx.BehaviorRelay[[]VideoQuality]
}

// NewPipeline creates a pipeline with default parameters: cleanup input,
// unmuted, volume 1, automatic quality, speed 1. Time is seeded with zero so
// progress emits as soon as a duration is known; duration replays only after
// the first valid emission.
func NewPipeline(hooks Hooks) *Pipeline {
	return &Pipeline{
		hooks:     hooks,
		input:     CleanupInput(),
		volume:    1,
		quality:   AutoQuality(),
		speed:     1,
		time:      rx.NewBehaviorRelay(TimeInSeconds(0)),
		duration:  rx.NewDeferredBehaviorRelay[TimeInSeconds](),
		loaded:    rx.NewRelay[LoadedTimeRange](),
		state:     rx.NewBehaviorRelay(Idle()),
		seekDone:  rx.NewRelay[Unit](),
		speedUpd:  rx.NewRelay[float64](),
		qualities: rx.NewBehaviorRelay([]VideoQuality{AutoQuality()}),
	}
}

// SetInput stores the input and notifies the adapter. Structurally equal
// assignments are dropped before the hook fires, so re-assigning the current
// content never restarts playback.
func (p *Pipeline) SetInput(next Input) {
	p.mu.Lock()
	if next == p.input {
		p.mu.Unlock()
		return
	}
	prev := p.input
	p.input = next
	hook := p.hooks.OnInput
	p.mu.Unlock()

	if hook != nil {
		hook(prev, next)
	}
}

// CurrentInput returns the last accepted input.
func (p *Pipeline) CurrentInput() Input {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input
}

func (p *Pipeline) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	hook := p.hooks.OnMuted
	p.mu.Unlock()
	if hook != nil {
		hook(muted)
	}
}

func (p *Pipeline) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Pipeline) SetVolume(volume float64) {
	p.mu.Lock()
	p.volume = volume
	hook := p.hooks.OnVolume
	p.mu.Unlock()
	if hook != nil {
		hook(volume)
	}
}

func (p *Pipeline) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Pipeline) SetQuality(quality VideoQuality) {
	p.mu.Lock()
	p.quality = quality
	hook := p.hooks.OnQuality
	p.mu.Unlock()
	if hook != nil {
		hook(quality)
	}
}

func (p *Pipeline) Quality() VideoQuality {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quality
}

func (p *Pipeline) SetSpeed(speed float64) {
	p.mu.Lock()
	p.speed = speed
	hook := p.hooks.OnSpeed
	p.mu.Unlock()
	if hook != nil {
		hook(speed)
	}
}

func (p *Pipeline) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// RequestSeek forwards a seek request to the adapter. Requests are
// fire-and-forget; completion arrives on SeekCompleted.
func (p *Pipeline) RequestSeek(target TimeInSeconds) {
	p.mu.Lock()
	hook := p.hooks.OnSeek
	p.mu.Unlock()
	if hook != nil {
		hook(target)
	}
}

// RequestIntent forwards a play/pause request to the adapter.
func (p *Pipeline) RequestIntent(intent Intent) {
	p.mu.Lock()
	hook := p.hooks.OnIntent
	p.mu.Unlock()
	if hook != nil {
		hook(intent)
	}
}

// EmitTime publishes a playhead sample. Non-finite values are dropped so
// engine glitches never poison derived streams.
func (p *Pipeline) EmitTime(t TimeInSeconds) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return
	}
	p.time.Emit(t)
}

// EmitDuration publishes the media duration. Non-finite and non-positive
// values are dropped, and repeats of the current duration are suppressed so
// progress does not re-emit on every engine metadata refresh.
func (p *Pipeline) EmitDuration(d TimeInSeconds) {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return
	}
	if p.duration.HasValue() && p.duration.Value() == d {
		return
	}
	p.duration.Emit(d)
}

func (p *Pipeline) EmitLoadedRange(r LoadedTimeRange) {
	p.loaded.Emit(r)
}

func (p *Pipeline) EmitState(s PlayerState) {
	p.state.Emit(s)
}

func (p *Pipeline) EmitSeekCompleted() {
	p.seekDone.Emit(Unit{})
}

func (p *Pipeline) EmitSpeedUpdated(speed float64) {
	p.speedUpd.Emit(speed)
}

func (p *Pipeline) EmitQualities(qs []VideoQuality) {
	p.qualities.Emit(qs)
}

// CurrentState returns the latest emitted state.
func (p *Pipeline) CurrentState() PlayerState {
	return p.state.Value()
}

func (p *Pipeline) Time() rx.Stream[TimeInSeconds]                { return p.time }
func (p *Pipeline) Duration() rx.Stream[TimeInSeconds]            { return p.duration }
func (p *Pipeline) LoadedRange() rx.Stream[LoadedTimeRange]       { return p.loaded }
func (p *Pipeline) State() rx.Stream[PlayerState]                 { return p.state }
func (p *Pipeline) SeekCompleted() rx.Stream[Unit]                { return p.seekDone }
func (p *Pipeline) SpeedUpdated() rx.Stream[float64]              { return p.speedUpd }
func (p *Pipeline) AvailableQualities() rx.Stream[[]VideoQuality] { return p.qualities }

// Progress derives playhead/duration pairs. Because time is seeded with zero,
// the first progress arrives the moment a duration is known, before the first
// real time sample.
func (p *Pipeline) Progress() rx.Stream[Progress] {
	return rx.CombineLatest2[TimeInSeconds, TimeInSeconds, Progress](p.time, p.duration,
		func(t, d TimeInSeconds) Progress {
			return Progress{Value: t, Total: d}
		})
}
