package playback

// StateKind tags the PlayerState union.
type StateKind int

const (
	StateIdle StateKind = iota
	StateLoading
	StateReady
	StateActive
	StateStuck
	StateAd
	StateError
	StateFinished
)

// AdPhase distinguishes ad-break lifecycle transitions.
type AdPhase int

const (
	AdStarted AdPhase = iota
	AdFinished
)

// ErrorKind classifies playback failures. Every failure path converts to a
// state emission; no error value crosses the Playback boundary.
type ErrorKind int

const (
	// ErrorConnection covers reachability and session loss.
	ErrorConnection ErrorKind = iota
	// ErrorPlayback covers engine-reported media faults.
	ErrorPlayback
	// ErrorLookup covers hosted-video resolution failures.
	ErrorLookup
)

// PlayerState is the mutually exclusive lifecycle tag of a playback engine.
// Consumers observe a stream of transitions, never a polled variable.
type PlayerState struct {
	Kind   StateKind
	Intent Intent    // meaningful for StateActive
	Ad     AdPhase   // meaningful for StateAd
	Err    ErrorKind // meaningful for StateError
}

func Idle() PlayerState     { return PlayerState{Kind: StateIdle} }
func Loading() PlayerState  { return PlayerState{Kind: StateLoading} }
func Ready() PlayerState    { return PlayerState{Kind: StateReady} }
func Stuck() PlayerState    { return PlayerState{Kind: StateStuck} }
func Finished() PlayerState { return PlayerState{Kind: StateFinished} }

// Active returns a playing or paused state.
func Active(intent Intent) PlayerState {
	return PlayerState{Kind: StateActive, Intent: intent}
}

// Ad returns an ad-break lifecycle state.
func Ad(phase AdPhase) PlayerState {
	return PlayerState{Kind: StateAd, Ad: phase}
}

// Errored returns a failure state of the given kind.
func Errored(kind ErrorKind) PlayerState {
	return PlayerState{Kind: StateError, Err: kind}
}

// IsPlaying reports whether the state is active with a playing intent.
func (s PlayerState) IsPlaying() bool {
	return s.Kind == StateActive && s.Intent == IntentPlaying
}
