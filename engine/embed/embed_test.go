package embed

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/playback"
)

type fakeBridge struct {
	loads   []string
	unloads int
	plays   int
	pauses  int
	seeks   []playback.TimeInSeconds
	muted   []bool
	volumes []float64
}

func (f *fakeBridge) Load(handle string) error { f.loads = append(f.loads, handle); return nil }
func (f *fakeBridge) Unload() error            { f.unloads++; return nil }
func (f *fakeBridge) Play() error              { f.plays++; return nil }
func (f *fakeBridge) Pause() error             { f.pauses++; return nil }

func (f *fakeBridge) Seek(seconds playback.TimeInSeconds) error {
	f.seeks = append(f.seeks, seconds)
	return nil
}

func (f *fakeBridge) SetMuted(m bool) error     { f.muted = append(f.muted, m); return nil }
func (f *fakeBridge) SetVolume(v float64) error { f.volumes = append(f.volumes, v); return nil }

func TestEmbedInput(t *testing.T) {
	Convey("Embed adapter input", t, func() {
		bridge := &fakeBridge{}
		vm := NewViewModel(bridge)
		var states []playback.PlayerState
		vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })

		Convey("Should load content through the bridge", func() {
			vm.SetInput(playback.ContentInput("embed-42"))
			So(bridge.loads, ShouldResemble, []string{"embed-42"})
			So(states[len(states)-1], ShouldResemble, playback.Loading())
		})

		Convey("Should panic on externally-injected ad input", func() {
			So(func() { vm.SetInput(playback.AdInput("ad-1")) }, ShouldPanic)
		})

		Convey("Should unload on cleanup", func() {
			vm.SetInput(playback.ContentInput("embed-42"))
			vm.SetInput(playback.CleanupInput())
			So(bridge.unloads, ShouldEqual, 1)
			So(states[len(states)-1], ShouldResemble, playback.Idle())
		})

		Convey("Should hold a start position until ready and apply it once", func() {
			vm.SetInput(playback.ContentInputWithStart("embed-42", 90))
			So(bridge.seeks, ShouldBeEmpty)
			vm.HandleNamed(EventPlaybackReady)
			So(bridge.seeks, ShouldResemble, []playback.TimeInSeconds{90})
			vm.HandleNamed(EventPlaybackReady)
			So(bridge.seeks, ShouldHaveLength, 1)
		})
	})
}

func TestEmbedNamedEvents(t *testing.T) {
	Convey("Embed named events", t, func() {
		bridge := &fakeBridge{}
		vm := NewViewModel(bridge)
		var states []playback.PlayerState
		vm.State().Subscribe(func(s playback.PlayerState) { states = append(states, s) })
		last := func() playback.PlayerState { return states[len(states)-1] }

		cases := []struct {
			event NamedEvent
			state playback.PlayerState
		}{
			{EventPlay, playback.Active(playback.IntentPlaying)},
			{EventPause, playback.Active(playback.IntentPaused)},
			{EventVideoEnd, playback.Finished()},
			{EventAdStart, playback.Ad(playback.AdStarted)},
			{EventAdEnd, playback.Ad(playback.AdFinished)},
			{EventError, playback.Errored(playback.ErrorPlayback)},
			{EventWaiting, playback.Stuck()},
			{EventPlaybackReady, playback.Ready()},
		}
		for _, c := range cases {
			Convey("Should map "+string(c.event), func() {
				vm.HandleNamed(c.event)
				So(last(), ShouldResemble, c.state)
			})
		}
	})
}

func TestEmbedTimedEvents(t *testing.T) {
	Convey("Embed timed events", t, func() {
		bridge := &fakeBridge{}
		vm := NewViewModel(bridge)

		Convey("Should map position and duration updates", func() {
			var progress []playback.Progress
			vm.Progress().Subscribe(func(p playback.Progress) { progress = append(progress, p) })
			vm.HandleTimed(EventDurationChange, 600)
			vm.HandleTimed(EventTimeUpdate, 30)
			So(progress, ShouldResemble, []playback.Progress{
				{Value: 0, Total: 600},
				{Value: 30, Total: 600},
			})
		})

		Convey("Should map buffered spans", func() {
			var ranges []playback.LoadedTimeRange
			vm.LoadedRange().Subscribe(func(r playback.LoadedTimeRange) { ranges = append(ranges, r) })
			vm.HandleTimed(EventProgress, 120)
			So(ranges, ShouldResemble, []playback.LoadedTimeRange{{{Start: 0, End: 120}}})
		})

		Convey("Should complete an in-flight seek on seeked", func() {
			completions := 0
			vm.SeekCompleted().Subscribe(func(playback.Unit) { completions++ })

			vm.HandleTimed(EventSeeked, 0) // spontaneous seeked without a request
			So(completions, ShouldEqual, 0)

			vm.RequestSeek(45)
			So(bridge.seeks, ShouldResemble, []playback.TimeInSeconds{45})
			vm.HandleTimed(EventSeeked, 45)
			So(completions, ShouldEqual, 1)
		})

		Convey("Should play and pause through the bridge on intent", func() {
			vm.RequestIntent(playback.IntentPlaying)
			vm.RequestIntent(playback.IntentPaused)
			So(bridge.plays, ShouldEqual, 1)
			So(bridge.pauses, ShouldEqual, 1)
		})
	})
}
