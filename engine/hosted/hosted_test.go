package hosted

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/playback"
)

type fakeLookup struct {
	video Video
	err   error
	// gate, when set, blocks FindVideo until closed
	gate  chan struct{}
	calls int
	mu    sync.Mutex
}

func (f *fakeLookup) FindVideo(ctx context.Context, contentID string) (Video, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Video{}, ctx.Err()
		}
	}
	return f.video, f.err
}

type fakeController struct {
	delegate Delegate
	videos   chan []Video
	playing  []bool
	seeks    []playback.TimeInSeconds
	muted    []bool
	volumes  []float64
	speeds   []float64
}

func newFakeController() *fakeController {
	return &fakeController{videos: make(chan []Video, 8)}
}

func (c *fakeController) SetDelegate(d Delegate)  { c.delegate = d }
func (c *fakeController) SetVideos(v []Video)     { c.videos <- v }
func (c *fakeController) SetPlaying(p bool) error { c.playing = append(c.playing, p); return nil }

func (c *fakeController) Seek(seconds playback.TimeInSeconds) error {
	c.seeks = append(c.seeks, seconds)
	return nil
}

func (c *fakeController) SetMuted(m bool) error     { c.muted = append(c.muted, m); return nil }
func (c *fakeController) SetVolume(v float64) error { c.volumes = append(c.volumes, v); return nil }
func (c *fakeController) SetSpeed(s float64) error  { c.speeds = append(c.speeds, s); return nil }

func awaitVideos(c *fakeController) ([]Video, bool) {
	select {
	case v := <-c.videos:
		return v, true
	case <-time.After(time.Second):
		return nil, false
	}
}

func awaitState(states chan playback.PlayerState, want playback.PlayerState) bool {
	deadline := time.After(time.Second)
	for {
		select {
		case s := <-states:
			if s == want {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func TestHostedLookup(t *testing.T) {
	Convey("Hosted adapter lookup", t, func() {
		viper.Set(key.HostedLookupLimit, 1)
		video := Video{ID: "v1", Title: "Clip", StreamURL: "https://cdn/v1.m3u8", Duration: 300}

		Convey("Should resolve content and hand the video to the controller", func() {
			lookup := &fakeLookup{video: video}
			controller := newFakeController()
			vm := NewViewModel(lookup, controller)

			var states []playback.PlayerState
			vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })
			vm.SetInput(playback.ContentInput("ref:clip"))
			So(states[len(states)-1], ShouldResemble, playback.Loading())

			got, ok := awaitVideos(controller)
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, []Video{video})
		})

		Convey("Should surface lookup failures as lookup errors", func() {
			lookup := &fakeLookup{err: errors.New("404")}
			controller := newFakeController()
			vm := NewViewModel(lookup, controller)

			states := make(chan playback.PlayerState, 8)
			vm.State().Subscribe(func(s playback.PlayerState) { states <- s })
			vm.SetInput(playback.ContentInput("ref:missing"))
			So(awaitState(states, playback.Errored(playback.ErrorLookup)), ShouldBeTrue)
		})

		Convey("Should drop a lookup result superseded by a newer input", func() {
			gate := make(chan struct{})
			lookup := &fakeLookup{video: video, gate: gate}
			controller := newFakeController()
			vm := NewViewModel(lookup, controller)

			vm.SetInput(playback.ContentInput("ref:clip"))
			vm.SetInput(playback.CleanupInput())
			cleared, ok := awaitVideos(controller)
			So(ok, ShouldBeTrue)
			So(cleared, ShouldBeNil)

			close(gate)
			select {
			case late := <-controller.videos:
				So(late, ShouldBeNil) // stale result must never arrive
			case <-time.After(100 * time.Millisecond):
			}
		})
	})
}

func TestHostedSessionAdvance(t *testing.T) {
	Convey("Hosted adapter session advancement", t, func() {
		viper.Set(key.HostedLookupLimit, 1)
		lookup := &fakeLookup{video: Video{ID: "v1", StreamURL: "https://cdn/v1.m3u8"}}
		controller := newFakeController()
		vm := NewViewModel(lookup, controller)

		Convey("Should hold intent until the session advances", func() {
			vm.SetInput(playback.ContentInput("ref:clip"))
			vm.RequestIntent(playback.IntentPlaying)
			So(controller.playing, ShouldBeEmpty)

			controller.delegate.ControllerDidAdvance()
			So(controller.playing, ShouldResemble, []bool{true})
		})

		Convey("Should fold a pre-advance seek into the start position", func() {
			vm.SetInput(playback.ContentInput("ref:clip"))
			vm.RequestSeek(30)
			So(controller.seeks, ShouldBeEmpty)

			controller.delegate.ControllerDidAdvance()
			controller.delegate.ControllerDidBecomeReady()
			So(controller.seeks, ShouldResemble, []playback.TimeInSeconds{30})
		})

		Convey("Should apply an explicit start position exactly once on ready", func() {
			vm.SetInput(playback.ContentInputWithStart("ref:clip", 12))
			controller.delegate.ControllerDidAdvance()
			controller.delegate.ControllerDidBecomeReady()
			So(controller.seeks, ShouldResemble, []playback.TimeInSeconds{12})

			controller.delegate.ControllerDidBecomeReady()
			So(controller.seeks, ShouldHaveLength, 1)
		})

		Convey("Should forward settings to the controller regardless of advancement", func() {
			vm.SetMuted(true)
			vm.SetVolume(0.7)
			vm.SetSpeed(1.25)
			So(controller.muted, ShouldResemble, []bool{true})
			So(controller.volumes, ShouldResemble, []float64{0.7})
			So(controller.speeds, ShouldResemble, []float64{1.25})
		})
	})
}

func TestHostedDelegateStates(t *testing.T) {
	Convey("Hosted adapter delegate state mapping", t, func() {
		viper.Set(key.HostedLookupLimit, 1)
		lookup := &fakeLookup{video: Video{ID: "v1"}}
		controller := newFakeController()
		vm := NewViewModel(lookup, controller)
		delegate := controller.delegate

		var states []playback.PlayerState
		vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })
		last := func() playback.PlayerState { return states[len(states)-1] }

		Convey("Ready, pause flips, stall interplay", func() {
			delegate.ControllerDidBecomeReady()
			So(last(), ShouldResemble, playback.Ready())

			delegate.ControllerDidChangePause(false)
			So(last(), ShouldResemble, playback.Active(playback.IntentPlaying))

			delegate.ControllerDidStall(true)
			So(last(), ShouldResemble, playback.Stuck())

			delegate.ControllerDidChangePause(true)
			So(last(), ShouldResemble, playback.Stuck())

			delegate.ControllerDidStall(false)
			So(last(), ShouldResemble, playback.Active(playback.IntentPaused))
		})

		Convey("Ad lifecycle, finish and failure", func() {
			delegate.ControllerAd(playback.AdStarted)
			So(last(), ShouldResemble, playback.Ad(playback.AdStarted))
			delegate.ControllerAd(playback.AdFinished)
			So(last(), ShouldResemble, playback.Ad(playback.AdFinished))

			delegate.ControllerDidFinish()
			So(last(), ShouldResemble, playback.Finished())

			delegate.ControllerDidFail(errors.New("decode"))
			So(last(), ShouldResemble, playback.Errored(playback.ErrorPlayback))
		})

		Convey("Progress, duration and buffered spans reach the output streams", func() {
			var progress []playback.Progress
			vm.Progress().Subscribe(func(p playback.Progress) { progress = append(progress, p) })
			delegate.ControllerDidChangeDuration(600)
			delegate.ControllerDidProgress(30)
			So(progress, ShouldResemble, []playback.Progress{
				{Value: 0, Total: 600},
				{Value: 30, Total: 600},
			})

			var ranges []playback.LoadedTimeRange
			vm.LoadedRange().Subscribe(func(r playback.LoadedTimeRange) { ranges = append(ranges, r) })
			delegate.ControllerDidBuffer(90)
			So(ranges, ShouldResemble, []playback.LoadedTimeRange{{{Start: 0, End: 90}}})
		})

		Convey("Superseded seeks collapse into one completion", func() {
			delegate.ControllerDidAdvance()
			completions := 0
			vm.SeekCompleted().Subscribe(func(playback.Unit) { completions++ })

			vm.RequestSeek(10)
			vm.RequestSeek(40)
			So(controller.seeks, ShouldResemble, []playback.TimeInSeconds{10, 40})

			delegate.ControllerDidSeek()
			So(completions, ShouldEqual, 1)
			delegate.ControllerDidSeek()
			So(completions, ShouldEqual, 1)
		})
	})
}
