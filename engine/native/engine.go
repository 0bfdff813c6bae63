// Package native adapts a locally-running media process to the playback
// contract. The primary implementation drives mpv over its JSON-IPC socket;
// the ViewModel itself only depends on the Engine interface, so any process
// player with an imperative surface plugs in.
package native

// EventKind tags engine-originated notifications.
type EventKind int

const (
	// EventReady fires once the engine has loaded media and can render.
	EventReady EventKind = iota
	// EventTime carries a playhead sample in seconds.
	EventTime
	// EventDuration carries the media duration in seconds.
	EventDuration
	// EventBuffered carries the buffered-ahead position in seconds.
	EventBuffered
	// EventPaused carries the engine's suspension flag.
	EventPaused
	// EventStuck carries whether the engine is stalled waiting for data.
	EventStuck
	// EventSeeking carries whether a seek is in flight. The falling edge is
	// the completion signal.
	EventSeeking
	// EventEnded fires when the media reaches its end.
	EventEnded
	// EventFailed fires when the engine reports a media fault.
	EventFailed
)

// Event is one engine notification. Which payload field is meaningful depends
// on the kind.
type Event struct {
	Kind    EventKind
	Seconds float64
	Flag    bool
}

// Engine is the imperative surface of a local media process. Load replaces
// the current media; all other calls apply to whatever is loaded. Engines
// report facts through the event callback installed at construction and must
// tolerate calls before any media is loaded.
type Engine interface {
	// SetSink installs the event callback. Engines deliver events serially;
	// installing a new sink replaces the previous one.
	SetSink(func(Event))
	// Load starts or replaces playback of the given target.
	Load(target string) error
	// Unload stops playback and releases the current media.
	Unload() error
	// SetPaused suspends or resumes rendering.
	SetPaused(paused bool) error
	SetMuted(muted bool) error
	// SetVolume takes the engine's native 0-100 scale.
	SetVolume(volume float64) error
	SetSpeed(speed float64) error
	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error
	// Close terminates the engine and releases all resources.
	Close() error
}
