package hosted

import (
	"context"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
)

// Controller is the externally-owned playback controller of the hosted SDK.
// The adapter never creates it; the embedding application owns its lifetime.
type Controller interface {
	SetDelegate(Delegate)
	SetVideos(videos []Video)
	SetPlaying(playing bool) error
	Seek(seconds playback.TimeInSeconds) error
	SetMuted(muted bool) error
	SetVolume(volume float64) error
	SetSpeed(speed float64) error
}

// Delegate receives the controller's callbacks. Session advancement is
// asynchronous: the controller accepts videos immediately but only advances
// to a playable session later, and commands issued before then are held.
type Delegate interface {
	ControllerDidAdvance()
	ControllerDidBecomeReady()
	ControllerDidProgress(seconds playback.TimeInSeconds)
	ControllerDidChangeDuration(seconds playback.TimeInSeconds)
	ControllerDidBuffer(upTo playback.TimeInSeconds)
	ControllerDidChangePause(paused bool)
	ControllerDidStall(stalled bool)
	ControllerDidSeek()
	ControllerAd(phase playback.AdPhase)
	ControllerDidFinish()
	ControllerDidFail(err error)
}

// ViewModel adapts one hosted-SDK controller to the playback contract.
type ViewModel struct {
	*playback.Pipeline
	lookup     LookupService
	controller Controller
	timeout    time.Duration

	mu            sync.Mutex
	generation    int
	advanced      bool
	pendingStart  mo.Option[playback.TimeInSeconds]
	pendingIntent mo.Option[playback.Intent]
	seekActive    bool
	paused        bool
	stalled       bool
}

// NewViewModel registers the adapter as the controller's delegate. The lookup
// abandon deadline comes from configuration.
func NewViewModel(lookup LookupService, controller Controller) *ViewModel {
	timeout := time.Duration(viper.GetInt(key.HostedLookupLimit)) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	vm := &ViewModel{
		lookup:     lookup,
		controller: controller,
		timeout:    timeout,
	}
	vm.Pipeline = playback.NewPipeline(playback.Hooks{
		OnInput:  vm.onInput,
		OnMuted:  vm.onMuted,
		OnVolume: vm.onVolume,
		OnSpeed:  vm.onSpeed,
		OnSeek:   vm.onSeek,
		OnIntent: vm.onIntent,
	})
	controller.SetDelegate(vm)
	return vm
}

func (vm *ViewModel) onInput(_, next playback.Input) {
	vm.mu.Lock()
	vm.generation++
	gen := vm.generation
	vm.advanced = false
	vm.seekActive = false
	vm.paused = false
	vm.stalled = false
	vm.pendingIntent = mo.None[playback.Intent]()
	if next.Kind == playback.InputContentWithStart {
		vm.pendingStart = mo.Some(next.StartTime)
	} else {
		vm.pendingStart = mo.None[playback.TimeInSeconds]()
	}
	vm.mu.Unlock()

	switch next.Kind {
	case playback.InputCleanup:
		vm.controller.SetVideos(nil)
		vm.EmitState(playback.Idle())

	case playback.InputAd, playback.InputContent, playback.InputContentWithStart:
		vm.EmitState(playback.Loading())
		go vm.resolve(gen, next.Handle)
	}
}

// resolve runs the credentialed lookup off the caller's goroutine and hands
// the result to the controller, unless the input changed in the meantime.
func (vm *ViewModel) resolve(gen int, contentID string) {
	ctx, cancel := context.WithTimeout(context.Background(), vm.timeout)
	defer cancel()

	video, err := vm.lookup.FindVideo(ctx, contentID)

	vm.mu.Lock()
	stale := gen != vm.generation
	vm.mu.Unlock()
	if stale {
		log.Debugf("hosted lookup for %q superseded, dropping result", contentID)
		return
	}

	if err != nil {
		log.Errorf("hosted lookup %q: %v", contentID, err)
		vm.EmitState(playback.Errored(playback.ErrorLookup))
		return
	}

	vm.controller.SetVideos([]Video{video})
}

func (vm *ViewModel) onMuted(muted bool) {
	if err := vm.controller.SetMuted(muted); err != nil {
		log.Warnf("hosted set muted: %v", err)
	}
}

func (vm *ViewModel) onVolume(volume float64) {
	if err := vm.controller.SetVolume(volume); err != nil {
		log.Warnf("hosted set volume: %v", err)
	}
}

func (vm *ViewModel) onSpeed(speed float64) {
	if err := vm.controller.SetSpeed(speed); err != nil {
		log.Warnf("hosted set speed: %v", err)
	}
}

func (vm *ViewModel) onSeek(target playback.TimeInSeconds) {
	vm.mu.Lock()
	if !vm.advanced {
		// No session to seek yet; fold the request into the start position.
		vm.pendingStart = mo.Some(target)
		vm.mu.Unlock()
		return
	}
	vm.seekActive = true
	vm.mu.Unlock()

	if err := vm.controller.Seek(target); err != nil {
		log.Warnf("hosted seek: %v", err)
		vm.mu.Lock()
		vm.seekActive = false
		vm.mu.Unlock()
	}
}

func (vm *ViewModel) onIntent(intent playback.Intent) {
	vm.mu.Lock()
	if !vm.advanced {
		vm.pendingIntent = mo.Some(intent)
		vm.mu.Unlock()
		return
	}
	vm.mu.Unlock()

	if err := vm.controller.SetPlaying(intent == playback.IntentPlaying); err != nil {
		log.Warnf("hosted %s: %v", intent, err)
	}
}

// ControllerDidAdvance implements Delegate. The session is now live, so the
// intent held since input assignment is released to the controller.
func (vm *ViewModel) ControllerDidAdvance() {
	vm.mu.Lock()
	vm.advanced = true
	intent, hasIntent := vm.pendingIntent.Get()
	vm.pendingIntent = mo.None[playback.Intent]()
	vm.mu.Unlock()

	if hasIntent {
		if err := vm.controller.SetPlaying(intent == playback.IntentPlaying); err != nil {
			log.Warnf("hosted %s: %v", intent, err)
		}
	}
}

// ControllerDidBecomeReady implements Delegate. A held start position is
// applied exactly once.
func (vm *ViewModel) ControllerDidBecomeReady() {
	vm.mu.Lock()
	start, hasStart := vm.pendingStart.Get()
	vm.pendingStart = mo.None[playback.TimeInSeconds]()
	if hasStart {
		vm.seekActive = true
	}
	vm.mu.Unlock()

	vm.EmitState(playback.Ready())
	if hasStart {
		if err := vm.controller.Seek(start); err != nil {
			log.Warnf("hosted apply start position: %v", err)
		}
	}
}

// ControllerDidProgress implements Delegate.
func (vm *ViewModel) ControllerDidProgress(seconds playback.TimeInSeconds) {
	vm.EmitTime(seconds)
}

// ControllerDidChangeDuration implements Delegate.
func (vm *ViewModel) ControllerDidChangeDuration(seconds playback.TimeInSeconds) {
	vm.EmitDuration(seconds)
}

// ControllerDidBuffer implements Delegate.
func (vm *ViewModel) ControllerDidBuffer(upTo playback.TimeInSeconds) {
	vm.EmitLoadedRange(playback.LoadedTimeRange{{Start: 0, End: upTo}})
}

// ControllerDidChangePause implements Delegate. Pause flips are muted while
// the session is stalled; the stall transition owns the state stream.
func (vm *ViewModel) ControllerDidChangePause(paused bool) {
	vm.mu.Lock()
	vm.paused = paused
	stalled := vm.stalled
	vm.mu.Unlock()

	if stalled {
		return
	}
	vm.EmitState(playback.Active(intentFor(paused)))
}

// ControllerDidStall implements Delegate.
func (vm *ViewModel) ControllerDidStall(stalled bool) {
	vm.mu.Lock()
	vm.stalled = stalled
	paused := vm.paused
	vm.mu.Unlock()

	if stalled {
		vm.EmitState(playback.Stuck())
		return
	}
	vm.EmitState(playback.Active(intentFor(paused)))
}

// ControllerDidSeek implements Delegate. Superseded seeks collapse into a
// single completion.
func (vm *ViewModel) ControllerDidSeek() {
	vm.mu.Lock()
	complete := vm.seekActive
	vm.seekActive = false
	vm.mu.Unlock()

	if complete {
		vm.EmitSeekCompleted()
	}
}

// ControllerAd implements Delegate.
func (vm *ViewModel) ControllerAd(phase playback.AdPhase) {
	vm.EmitState(playback.Ad(phase))
}

// ControllerDidFinish implements Delegate.
func (vm *ViewModel) ControllerDidFinish() {
	vm.EmitState(playback.Finished())
}

// ControllerDidFail implements Delegate.
func (vm *ViewModel) ControllerDidFail(err error) {
	log.Errorf("hosted session failed: %v", err)
	vm.EmitState(playback.Errored(playback.ErrorPlayback))
}

func intentFor(paused bool) playback.Intent {
	if paused {
		return playback.IntentPaused
	}
	return playback.IntentPlaying
}
