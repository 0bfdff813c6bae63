// Package composite multiplexes two playback engines behind a single
// playback contract. Both children receive the same input and settings so
// either can take over mid-stream; transport commands route to whichever
// child is currently primary, and a primary flip hands the content to the
// newly-primary side resuming from the last observed playhead.
//
// The canonical pairing is a local engine with a remote-cast engine: the
// composite flips primary when a cast session appears or drops.
package composite

import (
	"sync"

	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/rx"
)

// ViewModel is the composite adapter over exactly two children.
type ViewModel struct {
	*playback.Pipeline
	first  playback.Playback
	second playback.Playback

	mu           sync.Mutex
	primaryFirst bool
	lastTime     playback.TimeInSeconds

	time      rx.Stream[playback.TimeInSeconds]
	duration  rx.Stream[playback.TimeInSeconds]
	progress  rx.Stream[playback.Progress]
	loaded    rx.Stream[playback.LoadedTimeRange]
	state     rx.Stream[playback.PlayerState]
	seekDone  rx.Stream[playback.Unit]
	speedUpd  rx.Stream[float64]
	qualities rx.Stream[[]playback.VideoQuality]
	unwatch   rx.Subscription
}

// NewViewModel composes two engines. primaryFirst selects the initially
// primary child.
func NewViewModel(first, second playback.Playback, primaryFirst bool) *ViewModel {
	vm := &ViewModel{
		first:        first,
		second:       second,
		primaryFirst: primaryFirst,
	}
	vm.Pipeline = playback.NewPipeline(playback.Hooks{
		OnInput:   vm.onInput,
		OnMuted:   vm.onMuted,
		OnVolume:  vm.onVolume,
		OnQuality: vm.onQuality,
		OnSpeed:   vm.onSpeed,
		OnSeek:    vm.onSeek,
		OnIntent:  vm.onIntent,
	})

	vm.time = rx.Merge[playback.TimeInSeconds](first.Time(), second.Time())
	vm.duration = rx.Merge[playback.TimeInSeconds](first.Duration(), second.Duration())
	vm.progress = rx.Merge[playback.Progress](first.Progress(), second.Progress())
	vm.loaded = rx.Merge[playback.LoadedTimeRange](first.LoadedRange(), second.LoadedRange())
	vm.state = rx.Merge[playback.PlayerState](first.State(), second.State())
	vm.seekDone = rx.Merge[playback.Unit](first.SeekCompleted(), second.SeekCompleted())
	vm.speedUpd = rx.Merge[float64](first.SpeedUpdated(), second.SpeedUpdated())
	vm.qualities = rx.Merge[[]playback.VideoQuality](first.AvailableQualities(), second.AvailableQualities())

	// The merged playhead is what a primary flip resumes from.
	vm.unwatch = vm.time.Subscribe(func(v playback.TimeInSeconds) {
		vm.mu.Lock()
		vm.lastTime = v
		vm.mu.Unlock()
	})
	return vm
}

// PrimaryFirst reports whether the first child is currently primary.
func (vm *ViewModel) PrimaryFirst() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.primaryFirst
}

// SetPrimaryFirst flips the primary child. The newly-primary side receives
// the current content again with a start position at the last observed
// playhead, so playback continues where the other side left off. Flipping to
// the already-primary side is a no-op.
func (vm *ViewModel) SetPrimaryFirst(first bool) {
	vm.mu.Lock()
	if vm.primaryFirst == first {
		vm.mu.Unlock()
		return
	}
	vm.primaryFirst = first
	last := vm.lastTime
	vm.mu.Unlock()

	handle, ok := vm.CurrentInput().ContentHandle()
	if !ok {
		return
	}
	log.Debugf("composite handoff at %.1fs", last)
	vm.primary().SetInput(playback.ContentInputWithStart(handle, last))
}

func (vm *ViewModel) primary() playback.Playback {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.primaryFirst {
		return vm.first
	}
	return vm.second
}

func (vm *ViewModel) onInput(_, next playback.Input) {
	vm.mu.Lock()
	vm.lastTime = next.StartTime
	vm.mu.Unlock()

	vm.first.SetInput(next)
	vm.second.SetInput(next)
}

func (vm *ViewModel) onMuted(muted bool) {
	vm.first.SetMuted(muted)
	vm.second.SetMuted(muted)
}

func (vm *ViewModel) onVolume(volume float64) {
	vm.first.SetVolume(volume)
	vm.second.SetVolume(volume)
}

func (vm *ViewModel) onQuality(quality playback.VideoQuality) {
	vm.first.SetQuality(quality)
	vm.second.SetQuality(quality)
}

func (vm *ViewModel) onSpeed(speed float64) {
	vm.first.SetSpeed(speed)
	vm.second.SetSpeed(speed)
}

func (vm *ViewModel) onSeek(target playback.TimeInSeconds) {
	vm.primary().RequestSeek(target)
}

func (vm *ViewModel) onIntent(intent playback.Intent) {
	vm.primary().RequestIntent(intent)
}

// Time returns the merged playhead of both children.
func (vm *ViewModel) Time() rx.Stream[playback.TimeInSeconds] { return vm.time }

// Duration returns the merged duration stream of both children.
func (vm *ViewModel) Duration() rx.Stream[playback.TimeInSeconds] { return vm.duration }

// Progress returns the merged progress stream of both children.
func (vm *ViewModel) Progress() rx.Stream[playback.Progress] { return vm.progress }

// LoadedRange returns the merged buffered-span stream of both children.
func (vm *ViewModel) LoadedRange() rx.Stream[playback.LoadedTimeRange] { return vm.loaded }

// State returns the merged state stream of both children.
func (vm *ViewModel) State() rx.Stream[playback.PlayerState] { return vm.state }

// SeekCompleted returns the merged seek-completion stream of both children.
func (vm *ViewModel) SeekCompleted() rx.Stream[playback.Unit] { return vm.seekDone }

// SpeedUpdated returns the merged speed-change stream of both children.
func (vm *ViewModel) SpeedUpdated() rx.Stream[float64] { return vm.speedUpd }

// AvailableQualities returns the merged quality-ladder stream of both children.
func (vm *ViewModel) AvailableQualities() rx.Stream[[]playback.VideoQuality] { return vm.qualities }

// Close stops the playhead tracking subscription. The children outlive the
// composite.
func (vm *ViewModel) Close() {
	if vm.unwatch != nil {
		vm.unwatch()
		vm.unwatch = nil
	}
}
