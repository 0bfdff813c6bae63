// Package wrapper adapts an arbitrary closure-based external player into the
// playback contract. It is the integration seam for engines that fit none of
// the dedicated adapters: anything able to expose an imperative seek,
// play/pause and quality selection plus three callback registration points
// satisfies ExternalPlayer and plugs straight in.
package wrapper

import (
	"github.com/vidra-cli/vidra/playback"
)

// ProgressEventKind tags the external player's progress callback payload.
type ProgressEventKind int

const (
	ProgressTime ProgressEventKind = iota
	ProgressDuration
	ProgressBuffer
)

// ProgressEvent is one sample from the external player's progress callback.
type ProgressEvent struct {
	Kind    ProgressEventKind
	Seconds playback.TimeInSeconds
}

// ExternalPlayer is the imperative surface an arbitrary engine must expose.
type ExternalPlayer interface {
	SetMuted(muted bool)
	SetSpeed(speed float64)
	// SpeedSupported reports whether the engine honors SetSpeed at all.
	SpeedSupported() bool

	// Seek moves to an absolute position and invokes completion when the
	// engine reports the seek done.
	Seek(seconds playback.TimeInSeconds, completion func())
	SetPlaying(playing bool)
	SelectQuality(quality playback.VideoQuality)

	// Callback registration points. The adapter installs its own handlers;
	// re-registration replaces previous handlers.
	OnProgress(func(ProgressEvent))
	OnState(func(playback.PlayerState))
	OnQualities(func([]playback.VideoQuality))
}

// ViewModel adapts one ExternalPlayer to the playback contract.
type ViewModel struct {
	*playback.Pipeline
	player ExternalPlayer
}

// NewViewModel installs the adapter's handlers on the external player and
// applies the pipeline-buffered parameters.
func NewViewModel(player ExternalPlayer) *ViewModel {
	vm := &ViewModel{player: player}
	vm.Pipeline = playback.NewPipeline(playback.Hooks{
		OnInput:   vm.onInput,
		OnMuted:   player.SetMuted,
		OnQuality: player.SelectQuality,
		OnSpeed:   vm.onSpeed,
		OnSeek:    vm.onSeek,
		OnIntent:  vm.onIntent,
	})

	player.OnState(vm.EmitState)
	player.OnQualities(vm.EmitQualities)
	player.OnProgress(func(e ProgressEvent) {
		switch e.Kind {
		case ProgressTime:
			vm.EmitTime(e.Seconds)
		case ProgressDuration:
			vm.EmitDuration(e.Seconds)
		case ProgressBuffer:
			vm.EmitLoadedRange(playback.LoadedTimeRange{{Start: 0, End: e.Seconds}})
		}
	})

	player.SetMuted(vm.Muted())
	if player.SpeedSupported() {
		player.SetSpeed(vm.Speed())
	}
	return vm
}

func (vm *ViewModel) onInput(_, next playback.Input) {
	// The wrapped engine owns media loading; the adapter only mirrors the
	// lifecycle. Cleanup pauses the engine and resets the surface.
	if next.Kind == playback.InputCleanup {
		vm.player.SetPlaying(false)
		vm.EmitState(playback.Idle())
	}
}

func (vm *ViewModel) onSpeed(speed float64) {
	if !vm.player.SpeedSupported() {
		return
	}
	vm.player.SetSpeed(speed)
	vm.EmitSpeedUpdated(speed)
}

func (vm *ViewModel) onSeek(target playback.TimeInSeconds) {
	vm.player.Seek(target, vm.EmitSeekCompleted)
	// Periodic updates may lag the jump; reflect the target right away.
	vm.EmitTime(target)
}

func (vm *ViewModel) onIntent(intent playback.Intent) {
	vm.player.SetPlaying(intent == playback.IntentPlaying)
}
