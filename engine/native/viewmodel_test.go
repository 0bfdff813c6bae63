package native

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/playback"
)

type fakeEngine struct {
	sink    func(Event)
	loads   []string
	unloads int
	seeks   []float64
	paused  []bool
	muted   []bool
	volumes []float64
	speeds  []float64
}

func (f *fakeEngine) SetSink(sink func(Event))   { f.sink = sink }
func (f *fakeEngine) Load(target string) error   { f.loads = append(f.loads, target); return nil }
func (f *fakeEngine) Unload() error              { f.unloads++; return nil }
func (f *fakeEngine) SetPaused(p bool) error     { f.paused = append(f.paused, p); return nil }
func (f *fakeEngine) SetMuted(m bool) error      { f.muted = append(f.muted, m); return nil }
func (f *fakeEngine) SetVolume(v float64) error  { f.volumes = append(f.volumes, v); return nil }
func (f *fakeEngine) SetSpeed(s float64) error   { f.speeds = append(f.speeds, s); return nil }
func (f *fakeEngine) Seek(seconds float64) error { f.seeks = append(f.seeks, seconds); return nil }
func (f *fakeEngine) Close() error               { return nil }

func TestNativeInput(t *testing.T) {
	Convey("Native adapter input", t, func() {
		engine := &fakeEngine{}
		vm := NewViewModel(engine)
		var states []playback.PlayerState
		vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })

		Convey("Should load content and enter loading", func() {
			vm.SetInput(playback.ContentInput("http://cdn/video.m3u8"))
			So(engine.loads, ShouldResemble, []string{"http://cdn/video.m3u8"})
			So(states[len(states)-1], ShouldResemble, playback.Loading())
		})

		Convey("Should not restart on a structurally equal input", func() {
			vm.SetInput(playback.ContentInput("http://cdn/video.m3u8"))
			vm.SetInput(playback.ContentInput("http://cdn/video.m3u8"))
			So(engine.loads, ShouldHaveLength, 1)

			loadings := 0
			for _, s := range states {
				if s.Kind == playback.StateLoading {
					loadings++
				}
			}
			So(loadings, ShouldEqual, 1)
		})

		Convey("Should unload and go idle on cleanup", func() {
			vm.SetInput(playback.ContentInput("http://cdn/video.m3u8"))
			vm.SetInput(playback.CleanupInput())
			So(engine.unloads, ShouldEqual, 1)
			So(states[len(states)-1], ShouldResemble, playback.Idle())
		})

		Convey("Should apply buffered settings on load", func() {
			vm.SetMuted(true)
			vm.SetVolume(0.5)
			vm.SetSpeed(1.5)
			vm.SetInput(playback.ContentInput("http://cdn/video.m3u8"))
			So(engine.muted[len(engine.muted)-1], ShouldBeTrue)
			So(engine.volumes[len(engine.volumes)-1], ShouldEqual, 50.0)
			So(engine.speeds[len(engine.speeds)-1], ShouldEqual, 1.5)
		})
	})
}

func TestNativeStartPosition(t *testing.T) {
	Convey("Native adapter start position", t, func() {
		engine := &fakeEngine{}
		vm := NewViewModel(engine)
		vm.SetInput(playback.ContentInputWithStart("http://cdn/video.m3u8", 30))

		Convey("Should hold the start seek until ready, then apply it exactly once", func() {
			So(engine.seeks, ShouldBeEmpty)
			engine.sink(Event{Kind: EventReady})
			So(engine.seeks, ShouldResemble, []float64{30})

			engine.sink(Event{Kind: EventReady})
			So(engine.seeks, ShouldResemble, []float64{30})
		})
	})
}

func TestNativeSeek(t *testing.T) {
	Convey("Native adapter seek", t, func() {
		engine := &fakeEngine{}
		vm := NewViewModel(engine)
		completions := 0
		vm.SeekCompleted().Subscribe(func(playback.Unit) { completions++ })

		Convey("Should collapse superseded seeks into one completion", func() {
			vm.RequestSeek(10)
			engine.sink(Event{Kind: EventSeeking, Flag: true})
			vm.RequestSeek(40)
			So(engine.seeks, ShouldResemble, []float64{10, 40})

			engine.sink(Event{Kind: EventSeeking, Flag: false})
			So(completions, ShouldEqual, 1)

			engine.sink(Event{Kind: EventSeeking, Flag: false})
			So(completions, ShouldEqual, 1)
		})

		Convey("Should complete within-tolerance targets without touching the engine", func() {
			engine.sink(Event{Kind: EventTime, Seconds: 12.0})
			vm.RequestSeek(12.3)
			So(engine.seeks, ShouldBeEmpty)
			So(completions, ShouldEqual, 1)
		})
	})
}

func TestNativeStates(t *testing.T) {
	Convey("Native adapter state derivation", t, func() {
		engine := &fakeEngine{}
		vm := NewViewModel(engine)
		vm.SetInput(playback.ContentInput("http://cdn/video.m3u8"))
		var states []playback.PlayerState
		vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })
		last := func() playback.PlayerState { return states[len(states)-1] }

		Convey("Ready, then playing on unpause", func() {
			engine.sink(Event{Kind: EventReady})
			So(last(), ShouldResemble, playback.Ready())
			engine.sink(Event{Kind: EventPaused, Flag: false})
			So(last(), ShouldResemble, playback.Active(playback.IntentPlaying))
		})

		Convey("Stall flips to stuck and back to the prior transport state", func() {
			engine.sink(Event{Kind: EventReady})
			engine.sink(Event{Kind: EventPaused, Flag: false})
			engine.sink(Event{Kind: EventStuck, Flag: true})
			So(last(), ShouldResemble, playback.Stuck())
			engine.sink(Event{Kind: EventStuck, Flag: false})
			So(last(), ShouldResemble, playback.Active(playback.IntentPlaying))
		})

		Convey("Readiness re-announced after a seek stays in the active state", func() {
			engine.sink(Event{Kind: EventReady})
			engine.sink(Event{Kind: EventPaused, Flag: false})

			vm.RequestSeek(90)
			engine.sink(Event{Kind: EventReady})
			engine.sink(Event{Kind: EventSeeking, Flag: false})

			So(last(), ShouldResemble, playback.Active(playback.IntentPlaying))

			readies := 0
			for _, s := range states {
				if s.Kind == playback.StateReady {
					readies++
				}
			}
			So(readies, ShouldEqual, 1)
		})

		Convey("Pause changes are muted while stalled", func() {
			engine.sink(Event{Kind: EventReady})
			engine.sink(Event{Kind: EventStuck, Flag: true})
			engine.sink(Event{Kind: EventPaused, Flag: true})
			So(last(), ShouldResemble, playback.Stuck())
		})

		Convey("End of media and engine faults", func() {
			engine.sink(Event{Kind: EventEnded})
			So(last(), ShouldResemble, playback.Finished())
			engine.sink(Event{Kind: EventFailed})
			So(last(), ShouldResemble, playback.Errored(playback.ErrorPlayback))
		})

		Convey("Intent requests reach the engine as pause flips", func() {
			vm.RequestIntent(playback.IntentPaused)
			vm.RequestIntent(playback.IntentPlaying)
			So(engine.paused, ShouldResemble, []bool{true, false})
		})
	})
}

func TestNativeQualitySwitch(t *testing.T) {
	Convey("Native adapter quality switch", t, func() {
		engine := &fakeEngine{}
		vm := NewViewModel(engine)
		vm.SetInput(playback.ContentInput("http://cdn/master.m3u8"))
		engine.sink(Event{Kind: EventTime, Seconds: 33})

		ladder := []playback.VideoQuality{
			playback.StreamQuality(450, "640x360", "http://cdn/low.m3u8", "360p"),
			playback.StreamQuality(900, "1280x720", "http://cdn/mid.m3u8", "720p"),
		}
		vm.SetQualityLadder(ladder)

		Convey("Should reload the nearest rendition and resume from the playhead", func() {
			vm.SetQuality(playback.StreamQuality(480, "", "", ""))
			So(engine.loads[len(engine.loads)-1], ShouldEqual, "http://cdn/low.m3u8")

			engine.sink(Event{Kind: EventReady})
			So(engine.seeks, ShouldResemble, []float64{33})
		})

		Convey("Should publish the ladder to subscribers", func() {
			var got [][]playback.VideoQuality
			vm.AvailableQualities().Subscribe(func(qs []playback.VideoQuality) { got = append(got, qs) })
			So(got, ShouldResemble, [][]playback.VideoQuality{ladder})
		})

		Convey("Should stay put when nothing in the ladder is close enough", func() {
			loads := len(engine.loads)
			vm.SetQuality(playback.StreamQuality(5000, "", "", ""))
			So(engine.loads, ShouldHaveLength, loads)
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		Convey("Should accept http and https URLs", func() {
			got, err := sanitizeMediaTarget("https://cdn/video.m3u8")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "https://cdn/video.m3u8")
		})

		Convey("Should clean local file paths", func() {
			got, err := sanitizeMediaTarget("./videos//clip.mp4")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "videos/clip.mp4")
		})

		Convey("Should reject flag-looking targets", func() {
			_, err := sanitizeMediaTarget("--ytdl-raw-options=exec:rm")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject control characters", func() {
			_, err := sanitizeMediaTarget("http://cdn/a\nb")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject unsupported schemes", func() {
			_, err := sanitizeMediaTarget("ftp://cdn/video.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject empty targets", func() {
			_, err := sanitizeMediaTarget("  ")
			So(err, ShouldNotBeNil)
		})
	})
}
