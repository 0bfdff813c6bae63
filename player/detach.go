package player

import (
	"sync"
	"time"

	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/rx"
)

// detachAnimationDuration is the fixed migration animation length.
const detachAnimationDuration = 270 * time.Millisecond

// Rect is an axis-aligned frame in a container's coordinate space.
type Rect struct {
	X, Y, Width, Height float64
}

// Offset returns the rect translated by dx, dy.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Surface is the minimal view the detach protocol needs: something with a
// frame that can be repositioned.
type Surface interface {
	Frame() Rect
	SetFrame(Rect)
}

// Container can host a surface and convert frames between coordinate spaces.
// The protocol requires nothing else from the UI layer.
type Container interface {
	// Adopt reparents the surface into this container at the given frame.
	Adopt(s Surface, frame Rect)
	// Convert maps a frame from another container's space into this one's.
	Convert(frame Rect, from Container) Rect
}

// Animator moves a surface to a target frame over the fixed duration and
// invokes done when the movement completes. Implementations may be
// instantaneous; done must still be called.
type Animator interface {
	Animate(s Surface, to Rect, done func())
}

// InstantAnimator applies the target frame immediately. Used where no
// animation facility exists and in tests.
type InstantAnimator struct{}

func (InstantAnimator) Animate(s Surface, to Rect, done func()) {
	s.SetFrame(to)
	if done != nil {
		done()
	}
}

// animationFrames is the interpolation step count for SchedulerAnimator.
const animationFrames = 9

// SchedulerAnimator interpolates the surface frame over the fixed migration
// duration using an injected scheduler, so tests drive it with virtual time.
type SchedulerAnimator struct {
	Scheduler rx.Scheduler
}

func (a SchedulerAnimator) Animate(s Surface, to Rect, done func()) {
	from := s.Frame()
	step := 0
	var stop func()
	stop = a.Scheduler.Every(detachAnimationDuration/animationFrames, func() {
		step++
		if step >= animationFrames {
			s.SetFrame(to)
			stop()
			if done != nil {
				done()
			}
			return
		}
		t := float64(step) / animationFrames
		s.SetFrame(Rect{
			X:      from.X + (to.X-from.X)*t,
			Y:      from.Y + (to.Y-from.Y)*t,
			Width:  from.Width + (to.Width-from.Width)*t,
			Height: from.Height + (to.Height-from.Height)*t,
		})
	})
}

// Detachable lets one player surface migrate between its home container and a
// floating overlay container while the playback engine keeps running.
type Detachable struct {
	mu        sync.Mutex
	surface   Surface
	home      Container
	homeFrame Rect
	floating  Container
	animator  Animator
	ctrl      *controls.ViewModel
	detached  bool
	attaching bool
}

// NewDetachable wraps a surface currently hosted by home at homeFrame. Screen
// mode changes during migration are injected into ctrl.
func NewDetachable(surface Surface, home Container, homeFrame Rect, animator Animator, ctrl *controls.ViewModel) *Detachable {
	return &Detachable{
		surface:   surface,
		home:      home,
		homeFrame: homeFrame,
		animator:  animator,
		ctrl:      ctrl,
	}
}

// Detached reports whether the surface currently floats outside its home.
func (d *Detachable) Detached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detached
}

// Detach migrates the surface into the floating container, animating from its
// current on-screen position to target. The surface minimizes at the start of
// the animation, not its end, so the chrome reflows immediately. A no-op if
// already detached.
func (d *Detachable) Detach(to Container, target Rect) {
	d.mu.Lock()
	if d.detached {
		d.mu.Unlock()
		return
	}
	d.detached = true
	d.floating = to
	d.mu.Unlock()

	log.Debug("detaching player surface")
	current := to.Convert(d.surface.Frame(), d.home)
	to.Adopt(d.surface, current)
	d.ctrl.SetScreenMode(controls.ScreenMinimized)
	d.animator.Animate(d.surface, target, nil)
}

// Attach migrates the surface back to its home container. The compact screen
// mode applies at animation start, but reparenting happens only after the
// animation completes so the surface never jumps between coordinate spaces
// mid-flight. A no-op if not detached or while an attach is in progress.
func (d *Detachable) Attach() {
	d.mu.Lock()
	if !d.detached || d.attaching {
		d.mu.Unlock()
		return
	}
	d.attaching = true
	floating := d.floating
	d.mu.Unlock()

	log.Debug("re-attaching player surface")
	d.ctrl.SetScreenMode(controls.ScreenCompact)
	target := floating.Convert(d.homeFrame, d.home)
	d.animator.Animate(d.surface, target, func() {
		d.mu.Lock()
		d.detached = false
		d.attaching = false
		d.floating = nil
		d.mu.Unlock()
		d.home.Adopt(d.surface, d.homeFrame)
	})
}

// Pan repositions the floating surface by a finger delta. Ignored unless
// detached: the gesture is only live while the surface floats and dies the
// moment an attach begins.
func (d *Detachable) Pan(dx, dy float64) {
	d.mu.Lock()
	active := d.detached && !d.attaching
	d.mu.Unlock()
	if !active {
		return
	}
	d.surface.SetFrame(d.surface.Frame().Offset(dx, dy))
}
