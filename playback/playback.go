// Package playback defines the uniform capability contract every video engine
// adapter satisfies, together with the value types flowing through it and the
// shared reactive plumbing adapters compose instead of inheriting.
//
// The architecture supports multiple backends (native process engines,
// hosted-video SDKs, embedded web players, remote cast sessions) behind one
// surface, so coordinators and control overlays never depend on engine
// specifics.
package playback

import (
	"context"

	"github.com/vidra-cli/vidra/rx"
)

// TimeInSeconds is an absolute media time expressed in seconds.
type TimeInSeconds = float64

// Unit is the payload of completion-style signals.
type Unit = struct{}

// Intent is the desired transport state requested by a consumer.
type Intent int

const (
	IntentPlaying Intent = iota
	IntentPaused
)

// String returns the lowercase intent name.
func (i Intent) String() string {
	if i == IntentPlaying {
		return "playing"
	}
	return "paused"
}

// Playback encapsulates the required capabilities for a media playback backend.
//
// Parameters (input, muted, volume, quality, speed) apply immediately when an
// engine is bound and are buffered by the shared Pipeline until binding
// otherwise. Seek and intent requests are fire-and-forget; completion is
// observed on SeekCompleted, never returned.
//
// Replay semantics per output channel: Time, Duration, State and
// AvailableQualities replay their latest value to new subscribers;
// LoadedRange, SeekCompleted and SpeedUpdated are fire-forward only.
type Playback interface {
	// SetInput points the engine at new content. Assigning a value structurally
	// equal to the current one is a no-op and must not restart playback.
	SetInput(Input)
	// CurrentInput returns the last accepted input value.
	CurrentInput() Input

	SetMuted(bool)
	Muted() bool
	SetVolume(float64)
	Volume() float64
	SetQuality(VideoQuality)
	Quality() VideoQuality
	SetSpeed(float64)
	Speed() float64

	// RequestSeek asks the engine to move the playhead to an absolute target.
	// A new request cancels any in-flight seek on the same adapter.
	RequestSeek(TimeInSeconds)
	// RequestIntent asks the engine to play or pause.
	RequestIntent(Intent)

	Time() rx.Stream[TimeInSeconds]
	Duration() rx.Stream[TimeInSeconds]
	Progress() rx.Stream[Progress]
	LoadedRange() rx.Stream[LoadedTimeRange]
	State() rx.Stream[PlayerState]
	SeekCompleted() rx.Stream[Unit]
	SpeedUpdated() rx.Stream[float64]
	AvailableQualities() rx.Stream[[]VideoQuality]
}

// QualityResolver produces the rendition ladder for a manifest URL.
// Manifest parsing itself is an external concern.
type QualityResolver interface {
	Resolve(ctx context.Context, manifestURL string) ([]VideoQuality, error)
}
