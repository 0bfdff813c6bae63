package player

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/rx"
)

type fakeSurface struct {
	frame Rect
}

func (s *fakeSurface) Frame() Rect     { return s.frame }
func (s *fakeSurface) SetFrame(r Rect) { s.frame = r }

type adoption struct {
	surface Surface
	frame   Rect
}

type fakeContainer struct {
	adopted []adoption
}

func (c *fakeContainer) Adopt(s Surface, frame Rect) {
	c.adopted = append(c.adopted, adoption{surface: s, frame: frame})
	s.SetFrame(frame)
}

func (c *fakeContainer) Convert(frame Rect, _ Container) Rect {
	return frame
}

// manualAnimator jumps to the target but holds completions until finish.
type manualAnimator struct {
	pending []func()
}

func (a *manualAnimator) Animate(s Surface, to Rect, done func()) {
	s.SetFrame(to)
	if done != nil {
		a.pending = append(a.pending, done)
	}
}

func (a *manualAnimator) finish() {
	pending := a.pending
	a.pending = nil
	for _, done := range pending {
		done()
	}
}

func TestDetachable(t *testing.T) {
	Convey("Detachable", t, func() {
		home := &fakeContainer{}
		float := &fakeContainer{}
		animator := &manualAnimator{}
		chrome := controls.New(rx.NewManualScheduler(), time.Hour)
		homeFrame := Rect{X: 0, Y: 100, Width: 320, Height: 180}
		surface := &fakeSurface{frame: homeFrame}
		d := NewDetachable(surface, home, homeFrame, animator, chrome)

		var modes []controls.ScreenMode
		chrome.ScreenModeChanged().Subscribe(func(m controls.ScreenMode) { modes = append(modes, m) })

		miniFrame := Rect{X: 200, Y: 400, Width: 160, Height: 90}

		Convey("Detach should reparent at the current position and minimize immediately", func() {
			d.Detach(float, miniFrame)
			So(d.Detached(), ShouldBeTrue)
			So(float.adopted, ShouldHaveLength, 1)
			So(float.adopted[0].frame, ShouldResemble, homeFrame)
			So(modes[len(modes)-1], ShouldEqual, controls.ScreenMinimized)
			So(surface.frame, ShouldResemble, miniFrame)
		})

		Convey("Detach should be a no-op when already detached", func() {
			d.Detach(float, miniFrame)
			d.Detach(float, miniFrame)
			So(float.adopted, ShouldHaveLength, 1)
		})

		Convey("Attach should be a no-op when not detached", func() {
			d.Attach()
			So(home.adopted, ShouldBeEmpty)
		})

		Convey("Attach should reparent home only after the animation completes", func() {
			d.Detach(float, miniFrame)
			d.Attach()
			So(modes[len(modes)-1], ShouldEqual, controls.ScreenCompact)
			So(home.adopted, ShouldBeEmpty)
			So(d.Detached(), ShouldBeTrue)

			animator.finish()
			So(home.adopted, ShouldHaveLength, 1)
			So(home.adopted[0].frame, ShouldResemble, homeFrame)
			So(d.Detached(), ShouldBeFalse)
		})

		Convey("Attach should ignore re-entry while in flight", func() {
			d.Detach(float, miniFrame)
			d.Attach()
			d.Attach()
			animator.finish()
			So(home.adopted, ShouldHaveLength, 1)
		})

		Convey("Pan should reposition only while detached", func() {
			d.Pan(10, 10)
			So(surface.frame, ShouldResemble, homeFrame)

			d.Detach(float, miniFrame)
			d.Pan(10, -20)
			So(surface.frame, ShouldResemble, miniFrame.Offset(10, -20))

			d.Attach()
			d.Pan(5, 5) // dead the moment the attach begins
			animator.finish()
			So(surface.frame, ShouldResemble, homeFrame)
		})
	})
}

func TestSchedulerAnimator(t *testing.T) {
	Convey("SchedulerAnimator", t, func() {
		scheduler := rx.NewManualScheduler()
		a := SchedulerAnimator{Scheduler: scheduler}
		surface := &fakeSurface{frame: Rect{X: 0, Y: 0, Width: 100, Height: 100}}
		target := Rect{X: 90, Y: 90, Width: 10, Height: 10}

		done := false
		a.Animate(surface, target, func() { done = true })

		Convey("Should land exactly on the target and complete once", func() {
			scheduler.Advance(detachAnimationDuration)
			So(surface.frame, ShouldResemble, target)
			So(done, ShouldBeTrue)

			scheduler.Advance(time.Second)
			So(surface.frame, ShouldResemble, target)
		})

		Convey("Should interpolate between endpoints mid-flight", func() {
			scheduler.Advance(detachAnimationDuration / 3)
			So(surface.frame.X, ShouldBeBetween, 0.0, 90.0)
			So(done, ShouldBeFalse)
		})
	})
}
