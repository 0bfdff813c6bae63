package player

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/rx"
)

type fakePlayback struct {
	*playback.Pipeline
	seeks   []playback.TimeInSeconds
	intents []playback.Intent
}

func newFakePlayback() *fakePlayback {
	f := &fakePlayback{}
	f.Pipeline = playback.NewPipeline(playback.Hooks{
		OnSeek:   func(t playback.TimeInSeconds) { f.seeks = append(f.seeks, t) },
		OnIntent: func(i playback.Intent) { f.intents = append(f.intents, i) },
	})
	return f
}

func TestCoordinator(t *testing.T) {
	Convey("Coordinator", t, func() {
		engine := newFakePlayback()
		chrome := controls.New(rx.NewManualScheduler(), time.Hour)
		vm := NewViewModel(engine, chrome)

		Convey("Should drive the time labels from engine progress", func() {
			var labels []string
			chrome.TimeLabel().Subscribe(func(s string) { labels = append(labels, s) })
			engine.EmitDuration(120)
			engine.EmitTime(65)
			So(labels[len(labels)-1], ShouldEqual, "01:05")
		})

		Convey("Should normalize the buffered fraction against the duration", func() {
			var buffered []float64
			chrome.Buffer().Subscribe(func(f float64) { buffered = append(buffered, f) })
			engine.EmitDuration(100)
			engine.EmitLoadedRange(playback.LoadedTimeRange{{Start: 0, End: 30}, {Start: 50, End: 60}})
			So(buffered[len(buffered)-1], ShouldEqual, 0.6)
		})

		Convey("Should convert a committed scrub into an absolute seek", func() {
			engine.EmitDuration(200)
			chrome.SendSeek(controls.SeekEvent{Kind: controls.SeekFinished, Fraction: 0.25})
			So(engine.seeks, ShouldResemble, []playback.TimeInSeconds{50})
		})

		Convey("Should drop scrubs committed before any duration is known", func() {
			chrome.SendSeek(controls.SeekEvent{Kind: controls.SeekFinished, Fraction: 0.25})
			So(engine.seeks, ShouldBeEmpty)
		})

		Convey("Should not seek on intermediate scrub values", func() {
			engine.EmitDuration(200)
			chrome.SendSeek(controls.SeekEvent{Kind: controls.SeekValue, Fraction: 0.5})
			So(engine.seeks, ShouldBeEmpty)
		})

		Convey("Should forward user intent to the engine", func() {
			chrome.SendIntent(playback.IntentPlaying)
			So(engine.intents, ShouldResemble, []playback.Intent{playback.IntentPlaying})
		})

		Convey("Should surface engine state in the chrome", func() {
			var labels []string
			chrome.ErrorLabel().Subscribe(func(s string) { labels = append(labels, s) })
			engine.EmitState(playback.Errored(playback.ErrorLookup))
			So(labels[len(labels)-1], ShouldEqual, "Video unavailable")
		})

		Convey("Should re-broadcast seek completions", func() {
			fired := 0
			chrome.SeekCompleted().Subscribe(func(playback.Unit) { fired++ })
			engine.EmitSeekCompleted()
			So(fired, ShouldEqual, 1)
		})

		Convey("Should suppress the chrome across an ad break", func() {
			var got []controls.Visibility
			chrome.Visible().Subscribe(func(v controls.Visibility) { got = append(got, v) })

			engine.EmitState(playback.Ad(playback.AdStarted))
			So(got[len(got)-1], ShouldResemble, controls.ForceVisibility(false))

			// While the ad runs, user taps change nothing.
			chrome.AcceptVisibility(controls.SoftToggle())
			So(got[len(got)-1], ShouldResemble, controls.ForceVisibility(false))

			// Ad finish releases the pin silently; the next soft show lands.
			engine.EmitState(playback.Ad(playback.AdFinished))
			So(got[len(got)-1], ShouldResemble, controls.ForceVisibility(false))
			chrome.AcceptVisibility(controls.Soft(true))
			So(got[len(got)-1], ShouldResemble, controls.SoftVisibility(true))
		})

		Convey("Should stop forwarding after Close", func() {
			vm.Close()
			chrome.SendIntent(playback.IntentPaused)
			So(engine.intents, ShouldBeEmpty)
		})
	})
}
