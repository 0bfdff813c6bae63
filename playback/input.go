package playback

// InputKind tags the Input union.
type InputKind int

const (
	// InputCleanup tears down current playback and releases engine resources.
	InputCleanup InputKind = iota
	// InputAd plays externally-injected ad content. Only engines that support
	// external ads accept this variant.
	InputAd
	// InputContent plays primary content identified by an opaque handle.
	InputContent
	// InputContentWithStart plays primary content, seeking to StartTime once
	// the engine reaches a ready state.
	InputContentWithStart
)

// Input describes what a playback engine should play. Equality is structural
// on variant plus payload; adapters rely on that to short-circuit redundant
// assignments.
type Input struct {
	Kind      InputKind
	Handle    string
	StartTime TimeInSeconds
}

// CleanupInput returns the teardown input value.
func CleanupInput() Input {
	return Input{Kind: InputCleanup}
}

// AdInput returns an input for externally-injected ad content.
func AdInput(handle string) Input {
	return Input{Kind: InputAd, Handle: handle}
}

// ContentInput returns an input for primary content.
func ContentInput(handle string) Input {
	return Input{Kind: InputContent, Handle: handle}
}

// ContentInputWithStart returns an input for primary content with a requested
// initial position.
func ContentInputWithStart(handle string, start TimeInSeconds) Input {
	return Input{Kind: InputContentWithStart, Handle: handle, StartTime: start}
}

// ContentHandle returns the stream handle for content-bearing variants.
func (i Input) ContentHandle() (string, bool) {
	switch i.Kind {
	case InputContent, InputContentWithStart:
		return i.Handle, true
	default:
		return "", false
	}
}
