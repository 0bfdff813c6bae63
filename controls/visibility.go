// Package controls implements the transport-chrome view model: the visibility
// state machine with auto-hide, seek gesture sequencing, screen-mode
// propagation and the derived time/buffer display streams. It is entirely
// independent of which playback engine is bound; the player coordinator is the
// only object that knows both sides.
package controls

// Visibility is the output of the visibility machine. A forced value is an
// authoritative override pinned until released; a soft value is subject to
// auto-hide and toggling.
type Visibility struct {
	Forced  bool
	Visible bool
}

// ForceVisibility returns a pinned visibility value.
func ForceVisibility(visible bool) Visibility {
	return Visibility{Forced: true, Visible: visible}
}

// SoftVisibility returns a visibility value subject to auto-hide and toggling.
func SoftVisibility(visible bool) Visibility {
	return Visibility{Visible: visible}
}

// VisibilityEventKind tags the input vocabulary of the visibility machine,
// which is richer than the output: AcceptSoft and SoftToggle never appear on
// the visible stream but participate as retained modes.
type VisibilityEventKind int

const (
	// VisibilityForce pins the chrome visible or hidden, overriding timers
	// and toggles until released.
	VisibilityForce VisibilityEventKind = iota
	// VisibilitySoft shows or hides the chrome subject to auto-hide; swallowed
	// while a force is pinned.
	VisibilitySoft
	// VisibilityAcceptSoft releases a pinned force without emitting, making
	// the machine receptive to soft events again.
	VisibilityAcceptSoft
	// VisibilitySoftToggle flips the chrome relative to the retained mode:
	// directly after an explicit soft event it targets that event's value;
	// otherwise it negates the currently emitted visible flag.
	VisibilitySoftToggle
)

// VisibilityEvent is one input to the visibility machine.
type VisibilityEvent struct {
	Kind    VisibilityEventKind
	Visible bool
}

// Force returns a pinning input event.
func Force(visible bool) VisibilityEvent {
	return VisibilityEvent{Kind: VisibilityForce, Visible: visible}
}

// Soft returns a soft show/hide input event.
func Soft(visible bool) VisibilityEvent {
	return VisibilityEvent{Kind: VisibilitySoft, Visible: visible}
}

// AcceptSoft returns the force-releasing input event.
func AcceptSoft() VisibilityEvent {
	return VisibilityEvent{Kind: VisibilityAcceptSoft}
}

// SoftToggle returns the tap-to-toggle input event.
func SoftToggle() VisibilityEvent {
	return VisibilityEvent{Kind: VisibilitySoftToggle}
}
