package controls

// ScreenMode selects which chrome elements are visible and opaque regardless
// of the visibility timer.
type ScreenMode int

const (
	ScreenCompact ScreenMode = iota
	ScreenFullscreen
	ScreenMinimized
)

// String returns the lowercase mode name.
func (m ScreenMode) String() string {
	switch m {
	case ScreenFullscreen:
		return "fullscreen"
	case ScreenMinimized:
		return "minimized"
	default:
		return "compact"
	}
}

// SeekEventKind tags the seek gesture lifecycle.
type SeekEventKind int

const (
	// SeekStarted marks the beginning of a scrub gesture.
	SeekStarted SeekEventKind = iota
	// SeekValue carries an intermediate scrub position.
	SeekValue
	// SeekFinished commits the gesture at its final position.
	SeekFinished
)

// SeekEvent is one step of a scrub gesture. Fraction is the target position
// as a ratio of the total duration; the coordinator converts it to absolute
// seconds against the engine's current duration.
type SeekEvent struct {
	Kind     SeekEventKind
	Fraction float64
}
