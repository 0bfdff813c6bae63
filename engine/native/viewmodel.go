package native

import (
	"math"
	"sync"

	"github.com/samber/mo"

	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
)

// seekTolerance is the window, in seconds, within which a requested seek
// target counts as already reached and completes without touching the engine.
const seekTolerance = 0.5

// ViewModel adapts a local media process to the playback contract.
//
// A start position carried by the input is held until the engine reports
// ready, applied exactly once, then cleared. Seeks supersede each other: a
// new request while one is in flight collapses both into a single completion
// for the latest target.
type ViewModel struct {
	*playback.Pipeline
	engine Engine

	mu           sync.Mutex
	pendingStart mo.Option[playback.TimeInSeconds]
	ladder       []playback.VideoQuality
	lastTime     playback.TimeInSeconds
	seekActive   bool
	loaded       bool
	paused       bool
	stuck        bool
}

// NewViewModel wraps an engine. The adapter installs itself as the engine's
// event sink.
func NewViewModel(engine Engine) *ViewModel {
	vm := &ViewModel{engine: engine}
	vm.Pipeline = playback.NewPipeline(playback.Hooks{
		OnInput:   vm.onInput,
		OnMuted:   vm.onMuted,
		OnVolume:  vm.onVolume,
		OnQuality: vm.onQuality,
		OnSpeed:   vm.onSpeed,
		OnSeek:    vm.onSeek,
		OnIntent:  vm.onIntent,
	})
	engine.SetSink(vm.handleEvent)
	return vm
}

// Close tears down the underlying engine.
func (vm *ViewModel) Close() error {
	return vm.engine.Close()
}

// SetQualityLadder publishes a freshly resolved rendition ladder. The
// currently desired quality re-selects against it on the next SetQuality.
func (vm *ViewModel) SetQualityLadder(ladder []playback.VideoQuality) {
	vm.mu.Lock()
	vm.ladder = ladder
	vm.mu.Unlock()
	vm.EmitQualities(ladder)
}

func (vm *ViewModel) onInput(_, next playback.Input) {
	switch next.Kind {
	case playback.InputCleanup:
		vm.mu.Lock()
		vm.pendingStart = mo.None[playback.TimeInSeconds]()
		vm.loaded = false
		vm.seekActive = false
		vm.mu.Unlock()
		if err := vm.engine.Unload(); err != nil {
			log.Warnf("unload failed: %v", err)
		}
		vm.EmitState(playback.Idle())

	case playback.InputAd, playback.InputContent, playback.InputContentWithStart:
		start := mo.None[playback.TimeInSeconds]()
		if next.Kind == playback.InputContentWithStart {
			start = mo.Some(next.StartTime)
		}
		vm.mu.Lock()
		vm.pendingStart = start
		vm.loaded = false
		vm.seekActive = false
		vm.mu.Unlock()
		vm.load(next.Handle)
	}
}

// load starts the engine on a target and applies the buffered parameters.
func (vm *ViewModel) load(target string) {
	vm.EmitState(playback.Loading())
	if err := vm.engine.Load(target); err != nil {
		log.Errorf("load %q: %v", target, err)
		vm.EmitState(playback.Errored(playback.ErrorPlayback))
		return
	}
	vm.applySettings()
}

// applySettings pushes the pipeline-buffered parameters to a freshly loaded
// engine.
func (vm *ViewModel) applySettings() {
	if err := vm.engine.SetMuted(vm.Muted()); err != nil {
		log.Warnf("apply muted: %v", err)
	}
	if err := vm.engine.SetVolume(vm.Volume() * 100); err != nil {
		log.Warnf("apply volume: %v", err)
	}
	if err := vm.engine.SetSpeed(vm.Speed()); err != nil {
		log.Warnf("apply speed: %v", err)
	}
}

func (vm *ViewModel) onMuted(muted bool) {
	if err := vm.engine.SetMuted(muted); err != nil {
		log.Warnf("set muted: %v", err)
	}
}

func (vm *ViewModel) onVolume(volume float64) {
	if err := vm.engine.SetVolume(volume * 100); err != nil {
		log.Warnf("set volume: %v", err)
	}
}

func (vm *ViewModel) onSpeed(speed float64) {
	if err := vm.engine.SetSpeed(speed); err != nil {
		log.Warnf("set speed: %v", err)
		return
	}
	vm.EmitSpeedUpdated(speed)
}

// onQuality re-selects the nearest rendition from the last resolved ladder
// and reloads the engine on it, resuming from the current position.
func (vm *ViewModel) onQuality(q playback.VideoQuality) {
	vm.mu.Lock()
	ladder := vm.ladder
	vm.mu.Unlock()

	picked := q.Closest(ladder)
	if picked.IsAuto() || picked.URL == "" {
		return
	}
	vm.mu.Lock()
	vm.pendingStart = mo.Some(vm.lastTime)
	vm.loaded = false
	vm.mu.Unlock()
	vm.load(picked.URL)
}

func (vm *ViewModel) onSeek(target playback.TimeInSeconds) {
	vm.mu.Lock()
	current := vm.lastTime
	if math.Abs(target-current) < seekTolerance {
		vm.mu.Unlock()
		vm.EmitSeekCompleted()
		return
	}
	superseded := vm.seekActive
	vm.seekActive = true
	vm.mu.Unlock()

	if superseded {
		log.Debugf("seek to %.1fs supersedes in-flight seek", target)
	}
	if err := vm.engine.Seek(target); err != nil {
		log.Warnf("seek: %v", err)
		vm.mu.Lock()
		vm.seekActive = false
		vm.mu.Unlock()
	}
}

func (vm *ViewModel) onIntent(intent playback.Intent) {
	if err := vm.engine.SetPaused(intent == playback.IntentPaused); err != nil {
		log.Warnf("set paused: %v", err)
	}
}

// handleEvent folds one engine notification into the pipeline. Events arrive
// serially from the engine's listener goroutine.
func (vm *ViewModel) handleEvent(e Event) {
	switch e.Kind {
	case EventReady:
		vm.mu.Lock()
		alreadyLoaded := vm.loaded
		vm.loaded = true
		start, has := vm.pendingStart.Get()
		vm.pendingStart = mo.None[playback.TimeInSeconds]()
		if has {
			vm.seekActive = true
		}
		vm.mu.Unlock()

		// The engine re-announces readiness after every completed seek;
		// only the first announcement per input is a state transition.
		if !alreadyLoaded {
			vm.EmitState(playback.Ready())
		}
		if has {
			if err := vm.engine.Seek(start); err != nil {
				log.Warnf("apply start position: %v", err)
			}
		}

	case EventTime:
		vm.mu.Lock()
		vm.lastTime = e.Seconds
		vm.mu.Unlock()
		vm.EmitTime(e.Seconds)

	case EventDuration:
		vm.EmitDuration(e.Seconds)

	case EventBuffered:
		vm.mu.Lock()
		from := vm.lastTime
		vm.mu.Unlock()
		if e.Seconds > from {
			vm.EmitLoadedRange(playback.LoadedTimeRange{{Start: from, End: e.Seconds}})
		}

	case EventPaused:
		vm.mu.Lock()
		vm.paused = e.Flag
		emit := vm.loaded && !vm.stuck
		vm.mu.Unlock()
		if emit {
			vm.EmitState(playback.Active(intentFor(!e.Flag)))
		}

	case EventStuck:
		vm.mu.Lock()
		vm.stuck = e.Flag
		loaded, paused := vm.loaded, vm.paused
		vm.mu.Unlock()
		if !loaded {
			return
		}
		if e.Flag {
			vm.EmitState(playback.Stuck())
		} else {
			vm.EmitState(playback.Active(intentFor(!paused)))
		}

	case EventSeeking:
		if e.Flag {
			return
		}
		vm.mu.Lock()
		complete := vm.seekActive
		vm.seekActive = false
		vm.mu.Unlock()
		if complete {
			vm.EmitSeekCompleted()
		}

	case EventEnded:
		vm.EmitState(playback.Finished())

	case EventFailed:
		vm.EmitState(playback.Errored(playback.ErrorPlayback))
	}
}

func intentFor(playing bool) playback.Intent {
	if playing {
		return playback.IntentPlaying
	}
	return playback.IntentPaused
}
