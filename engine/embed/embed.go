// Package embed adapts event-driven embedded web players to the playback
// contract. It covers both the custom embed protocol and hosted
// video-sharing embeds: anything that emits the protocol's named state
// events and timed position events through a Bridge.
package embed

import (
	"sync"

	"github.com/samber/mo"

	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
)

// NamedEvent is a state notification from the embedded player.
type NamedEvent string

const (
	EventPlay          NamedEvent = "play"
	EventPause         NamedEvent = "pause"
	EventVideoEnd      NamedEvent = "video_end"
	EventAdStart       NamedEvent = "ad_start"
	EventAdEnd         NamedEvent = "ad_end"
	EventError         NamedEvent = "error"
	EventWaiting       NamedEvent = "waiting"
	EventPlaybackReady NamedEvent = "playback_ready"
)

// TimedEvent is a position-carrying notification from the embedded player.
type TimedEvent string

const (
	EventDurationChange TimedEvent = "durationchange"
	EventTimeUpdate     TimedEvent = "timeupdate"
	EventProgress       TimedEvent = "progress"
	EventSeeked         TimedEvent = "seeked"
)

// Bridge is the imperative half of the embed protocol: commands flowing into
// the embedded player. Events flow back through the adapter's Handle methods.
type Bridge interface {
	Load(handle string) error
	Unload() error
	Play() error
	Pause() error
	Seek(seconds playback.TimeInSeconds) error
	SetMuted(muted bool) error
	SetVolume(volume float64) error
}

// ViewModel adapts one embedded player to the playback contract.
//
// The embed's own ad insertion is opaque to the host, so external ad input is
// not representable: assigning an ad input is a programming error and panics.
// Ads the embed starts on its own surface normally through the ad events.
type ViewModel struct {
	*playback.Pipeline
	bridge Bridge

	mu           sync.Mutex
	pendingStart mo.Option[playback.TimeInSeconds]
	seekActive   bool
}

// NewViewModel wraps a bridge.
func NewViewModel(bridge Bridge) *ViewModel {
	vm := &ViewModel{bridge: bridge}
	vm.Pipeline = playback.NewPipeline(playback.Hooks{
		OnInput:  vm.onInput,
		OnMuted:  vm.onMuted,
		OnVolume: vm.onVolume,
		OnSeek:   vm.onSeek,
		OnIntent: vm.onIntent,
	})
	return vm
}

func (vm *ViewModel) onInput(_, next playback.Input) {
	switch next.Kind {
	case playback.InputAd:
		panic("embed: externally-injected ads are not representable in an embedded player")

	case playback.InputCleanup:
		vm.mu.Lock()
		vm.pendingStart = mo.None[playback.TimeInSeconds]()
		vm.seekActive = false
		vm.mu.Unlock()
		if err := vm.bridge.Unload(); err != nil {
			log.Warnf("embed unload: %v", err)
		}
		vm.EmitState(playback.Idle())

	case playback.InputContent, playback.InputContentWithStart:
		start := mo.None[playback.TimeInSeconds]()
		if next.Kind == playback.InputContentWithStart {
			start = mo.Some(next.StartTime)
		}
		vm.mu.Lock()
		vm.pendingStart = start
		vm.seekActive = false
		vm.mu.Unlock()

		vm.EmitState(playback.Loading())
		if err := vm.bridge.Load(next.Handle); err != nil {
			log.Errorf("embed load %q: %v", next.Handle, err)
			vm.EmitState(playback.Errored(playback.ErrorPlayback))
			return
		}
		if err := vm.bridge.SetMuted(vm.Muted()); err != nil {
			log.Warnf("embed apply muted: %v", err)
		}
		if err := vm.bridge.SetVolume(vm.Volume()); err != nil {
			log.Warnf("embed apply volume: %v", err)
		}
	}
}

func (vm *ViewModel) onMuted(muted bool) {
	if err := vm.bridge.SetMuted(muted); err != nil {
		log.Warnf("embed set muted: %v", err)
	}
}

func (vm *ViewModel) onVolume(volume float64) {
	if err := vm.bridge.SetVolume(volume); err != nil {
		log.Warnf("embed set volume: %v", err)
	}
}

func (vm *ViewModel) onSeek(target playback.TimeInSeconds) {
	vm.mu.Lock()
	vm.seekActive = true
	vm.mu.Unlock()
	if err := vm.bridge.Seek(target); err != nil {
		log.Warnf("embed seek: %v", err)
		vm.mu.Lock()
		vm.seekActive = false
		vm.mu.Unlock()
	}
}

func (vm *ViewModel) onIntent(intent playback.Intent) {
	var err error
	if intent == playback.IntentPlaying {
		err = vm.bridge.Play()
	} else {
		err = vm.bridge.Pause()
	}
	if err != nil {
		log.Warnf("embed %s: %v", intent, err)
	}
}

// HandleNamed folds one named protocol event into the pipeline.
func (vm *ViewModel) HandleNamed(e NamedEvent) {
	switch e {
	case EventPlay:
		vm.EmitState(playback.Active(playback.IntentPlaying))
	case EventPause:
		vm.EmitState(playback.Active(playback.IntentPaused))
	case EventVideoEnd:
		vm.EmitState(playback.Finished())
	case EventAdStart:
		vm.EmitState(playback.Ad(playback.AdStarted))
	case EventAdEnd:
		vm.EmitState(playback.Ad(playback.AdFinished))
	case EventError:
		vm.EmitState(playback.Errored(playback.ErrorPlayback))
	case EventWaiting:
		vm.EmitState(playback.Stuck())
	case EventPlaybackReady:
		vm.mu.Lock()
		start, has := vm.pendingStart.Get()
		vm.pendingStart = mo.None[playback.TimeInSeconds]()
		if has {
			vm.seekActive = true
		}
		vm.mu.Unlock()

		vm.EmitState(playback.Ready())
		if has {
			if err := vm.bridge.Seek(start); err != nil {
				log.Warnf("embed apply start position: %v", err)
			}
		}
	}
}

// HandleTimed folds one timed protocol event into the pipeline.
func (vm *ViewModel) HandleTimed(e TimedEvent, seconds playback.TimeInSeconds) {
	switch e {
	case EventDurationChange:
		vm.EmitDuration(seconds)
	case EventTimeUpdate:
		vm.EmitTime(seconds)
	case EventProgress:
		vm.EmitLoadedRange(playback.LoadedTimeRange{{Start: 0, End: seconds}})
	case EventSeeked:
		vm.mu.Lock()
		complete := vm.seekActive
		vm.seekActive = false
		vm.mu.Unlock()
		if complete {
			vm.EmitSeekCompleted()
		}
	}
}
