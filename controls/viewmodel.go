package controls

import (
	"sync"
	"time"

	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/rx"
	"github.com/vidra-cli/vidra/util"
)

// ViewModel owns transport-control visibility, seek gesture sequencing and
// screen-mode propagation for one player surface. It never touches a playback
// engine directly; the coordinator feeds engine facts in through the Set
// methods and subscribes to the gesture streams.
//
// Input events are processed strictly in arrival order. The auto-hide timer
// is a single pending event, rescheduled by every accepted soft-show and
// never duplicated.
type ViewModel struct {
	scheduler rx.Scheduler
	autoHide  time.Duration

	mu            sync.Mutex
	mode          VisibilityEvent
	cancelHide    func()
	lastState     playback.PlayerState
	inError       bool
	seeking       bool
	preSeekPlayed bool

	visible    *rx.BehaviorRelay[Visibility]
	screenMode *rx.BehaviorRelay[ScreenMode]
	seek       *rx.Relay[SeekEvent]
	intent     *rx.Relay[playback.Intent]
	state      *rx.Relay[playback.PlayerState]
	buffer     *rx.BehaviorRelay[float64]
	slider     *rx.Relay[float64]
	timeLabel  *rx.BehaviorRelay[string]
	totalLabel *rx.BehaviorRelay[string]
	errorLabel *rx.BehaviorRelay[string]
	seekDone   *rx.Relay[playback.Unit]
}

// New creates a controls view model. autoHide is the inactivity window before
// the chrome soft-hides; zero or negative disables auto-hide entirely.
//
// A fresh machine primes a soft show: the visible stream replays Soft(true)
// to its first subscriber while the retained mode starts at Soft(false), and
// the auto-hide window is already armed.
func New(scheduler rx.Scheduler, autoHide time.Duration) *ViewModel {
	vm := &ViewModel{
		scheduler:  scheduler,
		autoHide:   autoHide,
		mode:       Soft(false),
		visible:    rx.NewBehaviorRelay(SoftVisibility(true)),
		screenMode: rx.NewBehaviorRelay(ScreenCompact),
		seek:       rx.NewRelay[SeekEvent](),
		intent:     rx.NewRelay[playback.Intent](),
		state:      rx.NewRelay[playback.PlayerState](),
		buffer:     rx.NewBehaviorRelay(0.0),
		slider:     rx.NewRelay[float64](),
		timeLabel:  rx.NewBehaviorRelay(util.FormatSeconds(0)),
		totalLabel: rx.NewBehaviorRelay(util.FormatSeconds(0)),
		errorLabel: rx.NewBehaviorRelay(""),
		seekDone:   rx.NewRelay[playback.Unit](),
	}
	vm.mu.Lock()
	vm.rescheduleHide()
	vm.mu.Unlock()
	return vm
}

// Visible is the machine's output stream. It replays the latest visibility.
func (vm *ViewModel) Visible() rx.Stream[Visibility] { return vm.visible }

// ScreenModeChanged replays the current screen mode.
func (vm *ViewModel) ScreenModeChanged() rx.Stream[ScreenMode] { return vm.screenMode }

// Seek emits scrub gesture events for the coordinator to convert into
// absolute engine seeks.
func (vm *ViewModel) Seek() rx.Stream[SeekEvent] { return vm.seek }

// Intent emits user play/pause requests, including the implicit pause/resume
// pair around a scrub gesture.
func (vm *ViewModel) Intent() rx.Stream[playback.Intent] { return vm.intent }

// State re-broadcasts engine state transitions to the chrome widgets.
func (vm *ViewModel) State() rx.Stream[playback.PlayerState] { return vm.state }

// Buffer replays the buffered-ahead fraction for the scrub bar track.
func (vm *ViewModel) Buffer() rx.Stream[float64] { return vm.buffer }

// Slider emits playhead fractions for the scrub bar thumb. Updates are
// suppressed while a scrub gesture is in flight so the thumb follows the
// finger, not the engine.
func (vm *ViewModel) Slider() rx.Stream[float64] { return vm.slider }

// TimeLabel replays the formatted playhead text, deduplicated so the chrome
// repaints once per visible second rather than once per engine sample.
func (vm *ViewModel) TimeLabel() rx.Stream[string] {
	return rx.DistinctUntilChanged[string](vm.timeLabel, func(a, b string) bool { return a == b })
}

// TotalLabel replays the formatted duration text, deduplicated.
func (vm *ViewModel) TotalLabel() rx.Stream[string] {
	return rx.DistinctUntilChanged[string](vm.totalLabel, func(a, b string) bool { return a == b })
}

// ErrorLabel replays the current error text, empty when no error is shown.
func (vm *ViewModel) ErrorLabel() rx.Stream[string] { return vm.errorLabel }

// SeekCompleted re-broadcasts engine seek completions to seek-gated widgets.
func (vm *ViewModel) SeekCompleted() rx.Stream[playback.Unit] { return vm.seekDone }

// AcceptVisibility runs one input event through the visibility machine.
//
// Force is always accepted and pins the output. Soft and SoftToggle are
// swallowed while a force is pinned. AcceptSoft releases the pin silently,
// recording itself as the retained mode: the next toggle after it negates the
// emitted flag instead of targeting a stale soft value. A toggle arriving
// directly after an explicit soft event targets that event's value; only
// later toggles flip relative to the emitted flag.
func (vm *ViewModel) AcceptVisibility(e VisibilityEvent) {
	vm.mu.Lock()
	var out Visibility
	switch e.Kind {
	case VisibilityForce:
		out = ForceVisibility(e.Visible)
	case VisibilitySoft:
		if vm.mode.Kind == VisibilityForce {
			vm.mu.Unlock()
			return
		}
		out = SoftVisibility(e.Visible)
	case VisibilitySoftToggle:
		switch vm.mode.Kind {
		case VisibilityForce:
			vm.mu.Unlock()
			return
		case VisibilitySoft:
			out = SoftVisibility(vm.mode.Visible)
		default:
			out = SoftVisibility(!vm.visible.Value().Visible)
		}
	case VisibilityAcceptSoft:
		vm.mode = e
		vm.mu.Unlock()
		return
	}
	vm.mode = e
	if !out.Forced {
		if out.Visible {
			vm.rescheduleHide()
		} else {
			vm.cancelPendingHide()
		}
	}
	vm.mu.Unlock()

	vm.visible.Emit(out)
}

// rescheduleHide arms the auto-hide window, replacing any pending one.
// Callers hold vm.mu.
func (vm *ViewModel) rescheduleHide() {
	vm.cancelPendingHide()
	if vm.autoHide <= 0 {
		return
	}
	vm.cancelHide = vm.scheduler.After(vm.autoHide, vm.hideOnIdle)
}

// cancelPendingHide drops the pending auto-hide, if any. Callers hold vm.mu.
func (vm *ViewModel) cancelPendingHide() {
	if vm.cancelHide != nil {
		vm.cancelHide()
		vm.cancelHide = nil
	}
}

// hideOnIdle is the synthesized implicit hide. It honors the same
// swallowed-under-force guard as an explicit soft event: a pin present at
// elapse time suppresses the hide instead of deferring it.
func (vm *ViewModel) hideOnIdle() {
	vm.mu.Lock()
	if vm.mode.Kind == VisibilityForce {
		vm.mu.Unlock()
		return
	}
	vm.mode = Soft(false)
	vm.cancelHide = nil
	vm.mu.Unlock()

	vm.visible.Emit(SoftVisibility(false))
}

// SetScreenMode records a new screen mode. Every mode change re-shows the
// chrome softly.
func (vm *ViewModel) SetScreenMode(mode ScreenMode) {
	vm.screenMode.Emit(mode)
	vm.AcceptVisibility(Soft(true))
}

// SendIntent publishes a user play/pause request.
func (vm *ViewModel) SendIntent(intent playback.Intent) {
	vm.intent.Emit(intent)
}

// SendSeek runs one scrub gesture step.
//
// Gesture start remembers whether playback was playing and pauses it; gesture
// end resumes only if it was (never force-resumes a paused player). Slider
// updates from the engine are suppressed for the duration of the gesture.
func (vm *ViewModel) SendSeek(e SeekEvent) {
	switch e.Kind {
	case SeekStarted:
		vm.mu.Lock()
		vm.seeking = true
		vm.preSeekPlayed = vm.lastState.IsPlaying()
		vm.mu.Unlock()
		vm.seek.Emit(e)
		vm.intent.Emit(playback.IntentPaused)
	case SeekValue:
		vm.seek.Emit(e)
		vm.slider.Emit(e.Fraction)
	case SeekFinished:
		vm.mu.Lock()
		vm.seeking = false
		resume := vm.preSeekPlayed
		vm.mu.Unlock()
		vm.seek.Emit(e)
		if resume {
			vm.intent.Emit(playback.IntentPlaying)
		}
	}
}

// SetProgress feeds an engine progress sample into the time labels and, when
// no scrub gesture is in flight, the slider.
func (vm *ViewModel) SetProgress(p playback.Progress) {
	vm.timeLabel.Emit(util.FormatSeconds(p.Value))
	vm.totalLabel.Emit(util.FormatSeconds(p.Total))

	vm.mu.Lock()
	seeking := vm.seeking
	vm.mu.Unlock()
	if !seeking {
		vm.slider.Emit(p.Fraction())
	}
}

// SetBuffer feeds the buffered-ahead fraction.
func (vm *ViewModel) SetBuffer(fraction float64) {
	vm.buffer.Emit(fraction)
}

// NotifySeekCompleted re-broadcasts an engine seek completion.
func (vm *ViewModel) NotifySeekCompleted() {
	vm.seekDone.Emit(playback.Unit{})
}

// SetPlayerState feeds an engine state transition. Entering an error state
// pins the chrome hidden and shows the error label; the first non-error state
// afterwards pins it visible again and clears the label, exactly once.
func (vm *ViewModel) SetPlayerState(s playback.PlayerState) {
	vm.mu.Lock()
	vm.lastState = s
	wasError := vm.inError
	vm.inError = s.Kind == playback.StateError
	entering := !wasError && vm.inError
	leaving := wasError && !vm.inError
	vm.mu.Unlock()

	vm.state.Emit(s)

	if entering {
		log.Errorf("playback failed: %s", errorText(s.Err))
		vm.AcceptVisibility(Force(false))
		vm.errorLabel.Emit(errorText(s.Err))
	} else if leaving {
		vm.AcceptVisibility(Force(true))
		vm.errorLabel.Emit("")
	}
}

func errorText(kind playback.ErrorKind) string {
	switch kind {
	case playback.ErrorConnection:
		return "Connection lost"
	case playback.ErrorLookup:
		return "Video unavailable"
	default:
		return "Playback failed"
	}
}
