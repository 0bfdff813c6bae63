// Package player glues one playback engine to one controls surface. The
// coordinator owns all cross-bindings between the two; neither side ever
// references the other directly. It also implements the detach capability
// that lets a player surface migrate between host containers while keeping
// engine identity.
package player

import (
	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/rx"
)

// ViewModel is the single binding point between a Playback and a Controls
// instance. One coordinator exists per player surface, constructed once with
// both collaborators injected. All bindings stay live until Close.
type ViewModel struct {
	pb   playback.Playback
	ctrl *controls.ViewModel
	subs []rx.Subscription
}

// NewViewModel wires the engine and the chrome together.
func NewViewModel(pb playback.Playback, ctrl *controls.ViewModel) *ViewModel {
	vm := &ViewModel{pb: pb, ctrl: ctrl}
	vm.bind()
	return vm
}

// Playback returns the bound engine adapter.
func (vm *ViewModel) Playback() playback.Playback { return vm.pb }

// Controls returns the bound chrome view model.
func (vm *ViewModel) Controls() *controls.ViewModel { return vm.ctrl }

func (vm *ViewModel) bind() {
	add := func(s rx.Subscription) { vm.subs = append(vm.subs, s) }

	// Engine progress drives the time labels and the scrub bar thumb.
	add(vm.pb.Progress().Subscribe(vm.ctrl.SetProgress))

	// Buffered-ahead fraction for the scrub bar track.
	add(rx.CombineLatest2[playback.LoadedTimeRange, playback.TimeInSeconds, float64](
		vm.pb.LoadedRange(), vm.pb.Duration(),
		func(r playback.LoadedTimeRange, d playback.TimeInSeconds) float64 {
			if d <= 0 {
				return 0
			}
			return r.UpperBound() / d
		}).Subscribe(vm.ctrl.SetBuffer))

	// A committed scrub gesture becomes an absolute seek against the current
	// duration. Gestures before any known duration are dropped.
	finished := rx.Filter[controls.SeekEvent](vm.ctrl.Seek(), func(e controls.SeekEvent) bool {
		return e.Kind == controls.SeekFinished
	})
	add(rx.WithLatestFrom[controls.SeekEvent, playback.TimeInSeconds, playback.TimeInSeconds](
		finished, vm.pb.Duration(),
		func(e controls.SeekEvent, d playback.TimeInSeconds) playback.TimeInSeconds {
			return e.Fraction * d
		}).Subscribe(vm.pb.RequestSeek))

	// User intent flows down, engine state flows up.
	add(vm.ctrl.Intent().Subscribe(vm.pb.RequestIntent))
	add(vm.pb.State().Subscribe(vm.ctrl.SetPlayerState))

	add(vm.pb.SeekCompleted().Subscribe(func(playback.Unit) {
		vm.ctrl.NotifySeekCompleted()
	}))

	// Ad breaks suppress the chrome for their duration: a pin on start, a
	// silent release on finish so the next soft event shows it again.
	add(vm.pb.State().Subscribe(func(s playback.PlayerState) {
		if s.Kind != playback.StateAd {
			return
		}
		if s.Ad == playback.AdStarted {
			vm.ctrl.AcceptVisibility(controls.Force(false))
		} else {
			vm.ctrl.AcceptVisibility(controls.AcceptSoft())
		}
	}))
}

// Close tears down every binding. The engine and the chrome outlive the
// coordinator and may be re-bound elsewhere.
func (vm *ViewModel) Close() {
	for _, cancel := range vm.subs {
		cancel()
	}
	vm.subs = nil
}
