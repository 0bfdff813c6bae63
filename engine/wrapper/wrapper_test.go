package wrapper

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/playback"
)

type fakeExternal struct {
	muted       []bool
	speeds      []float64
	speedOK     bool
	seeks       []playback.TimeInSeconds
	completions []func()
	playing     []bool
	qualities   []playback.VideoQuality
	progressFn  func(ProgressEvent)
	stateFn     func(playback.PlayerState)
	qualitiesFn func([]playback.VideoQuality)
}

func (f *fakeExternal) SetMuted(m bool)      { f.muted = append(f.muted, m) }
func (f *fakeExternal) SetSpeed(s float64)   { f.speeds = append(f.speeds, s) }
func (f *fakeExternal) SpeedSupported() bool { return f.speedOK }

func (f *fakeExternal) Seek(seconds playback.TimeInSeconds, completion func()) {
	f.seeks = append(f.seeks, seconds)
	f.completions = append(f.completions, completion)
}

func (f *fakeExternal) SetPlaying(p bool)                            { f.playing = append(f.playing, p) }
func (f *fakeExternal) SelectQuality(q playback.VideoQuality)        { f.qualities = append(f.qualities, q) }
func (f *fakeExternal) OnProgress(fn func(ProgressEvent))            { f.progressFn = fn }
func (f *fakeExternal) OnState(fn func(playback.PlayerState))        { f.stateFn = fn }
func (f *fakeExternal) OnQualities(fn func([]playback.VideoQuality)) { f.qualitiesFn = fn }

func TestWrapper(t *testing.T) {
	Convey("Wrapper adapter", t, func() {
		ext := &fakeExternal{speedOK: true}
		vm := NewViewModel(ext)

		Convey("Should install all three callback handlers", func() {
			So(ext.progressFn, ShouldNotBeNil)
			So(ext.stateFn, ShouldNotBeNil)
			So(ext.qualitiesFn, ShouldNotBeNil)
		})

		Convey("Should forward progress callbacks onto the output streams", func() {
			var times []playback.TimeInSeconds
			vm.Time().Subscribe(func(v playback.TimeInSeconds) { times = append(times, v) })
			var durations []playback.TimeInSeconds
			vm.Duration().Subscribe(func(v playback.TimeInSeconds) { durations = append(durations, v) })

			ext.progressFn(ProgressEvent{Kind: ProgressDuration, Seconds: 300})
			ext.progressFn(ProgressEvent{Kind: ProgressTime, Seconds: 12})
			So(times, ShouldResemble, []playback.TimeInSeconds{0, 12})
			So(durations, ShouldResemble, []playback.TimeInSeconds{300})
		})

		Convey("Should forward state and quality callbacks", func() {
			var states []playback.PlayerState
			vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })
			ext.stateFn(playback.Active(playback.IntentPlaying))
			So(states[len(states)-1], ShouldResemble, playback.Active(playback.IntentPlaying))

			var ladders [][]playback.VideoQuality
			vm.AvailableQualities().Subscribe(func(qs []playback.VideoQuality) { ladders = append(ladders, qs) })
			ladder := []playback.VideoQuality{playback.StreamQuality(900, "1280x720", "u", "720p")}
			ext.qualitiesFn(ladder)
			So(ladders[len(ladders)-1], ShouldResemble, ladder)
		})

		Convey("Should complete seeks when the engine says so and echo the target time", func() {
			completions := 0
			vm.SeekCompleted().Subscribe(func(playback.Unit) { completions++ })
			var times []playback.TimeInSeconds
			vm.Time().Subscribe(func(v playback.TimeInSeconds) { times = append(times, v) })

			vm.RequestSeek(45)
			So(ext.seeks, ShouldResemble, []playback.TimeInSeconds{45})
			So(times[len(times)-1], ShouldEqual, 45.0)
			So(completions, ShouldEqual, 0)

			ext.completions[0]()
			So(completions, ShouldEqual, 1)
		})

		Convey("Should translate intent into play/pause calls", func() {
			vm.RequestIntent(playback.IntentPlaying)
			vm.RequestIntent(playback.IntentPaused)
			So(ext.playing, ShouldResemble, []bool{true, false})
		})

		Convey("Should skip speed calls when unsupported", func() {
			unsupported := &fakeExternal{speedOK: false}
			uvm := NewViewModel(unsupported)
			fired := 0
			uvm.SpeedUpdated().Subscribe(func(float64) { fired++ })
			uvm.SetSpeed(2)
			So(unsupported.speeds, ShouldBeEmpty)
			So(fired, ShouldEqual, 0)
		})

		Convey("Should pause the engine on cleanup", func() {
			vm.SetInput(playback.ContentInput("x"))
			vm.SetInput(playback.CleanupInput())
			So(ext.playing, ShouldResemble, []bool{false})
		})
	})
}
