package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/rx"
)

func TestOfflineTransition(t *testing.T) {
	Convey("Losing connectivity mid-playback", t, func() {
		ctrl := controls.New(rx.NewManualScheduler(), time.Minute)
		b := &transportBubble{
			ctrl: ctrl,
			msgs: make(chan tea.Msg, 1),
		}

		var labels []string
		ctrl.ErrorLabel().Subscribe(func(l string) { labels = append(labels, l) })

		_, cmd := b.Update(offlineMsg{})

		Convey("Should map the transition onto the connection-error state", func() {
			So(b.state, ShouldResemble, playback.Errored(playback.ErrorConnection))
			So(cmd, ShouldNotBeNil)
		})

		Convey("Should surface the error through the chrome label", func() {
			So(labels[len(labels)-1], ShouldEqual, "Connection lost")
		})
	})
}

func TestDisplayTitle(t *testing.T) {
	Convey("Deriving the display title", t, func() {
		Convey("An explicit title wins", func() {
			So(displayTitle(&Options{URL: "http://cdn/a.m3u8", Title: "Feature"}), ShouldEqual, "Feature")
		})

		Convey("Otherwise the last path element, stripped of its query", func() {
			So(displayTitle(&Options{URL: "http://cdn/movies/clip.m3u8?token=x"}), ShouldEqual, "clip.m3u8")
		})

		Convey("Degenerate URLs fall back to the raw target", func() {
			So(displayTitle(&Options{URL: "/"}), ShouldEqual, "/")
		})
	})
}
