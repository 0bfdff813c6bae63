// Package cast adapts a second-screen casting session to the playback
// contract. The adapter consumes a session manager's lifecycle callbacks and
// a remote media client; it never manages device discovery or connection UI.
//
// Remote receivers have no periodic time observation facility, so the
// playhead is heartbeat-driven: while the remote state is actively playing,
// the adapter polls the approximate stream position on a fixed cadence and
// stops the moment playback leaves the active state or the session drops.
package cast

import (
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/rx"
)

// LoadRequest is the payload issued to the remote session for new content.
type LoadRequest struct {
	URL         string
	StartTime   playback.TimeInSeconds
	ContentType string
}

// RemoteStatus is a media-status push from the cast receiver.
type RemoteStatus int

const (
	StatusIdle RemoteStatus = iota
	StatusBuffering
	StatusPlaying
	StatusPaused
	StatusFinished
	StatusFailed
)

// Session is the remote media client of one active cast session.
type Session interface {
	Load(req LoadRequest) error
	Play() error
	Pause() error
	Seek(seconds playback.TimeInSeconds) error
	SetMuted(muted bool) error
	SetVolume(volume float64) error
	// Position polls the approximate remote stream position.
	Position() (playback.TimeInSeconds, error)
	Duration() (playback.TimeInSeconds, error)
}

// Listener receives session lifecycle callbacks from the session manager.
type Listener interface {
	SessionStarted(Session)
	SessionResumed(Session)
	SessionEnded(err error)
	SessionFailed(err error)
}

// Manager is the externally-owned session manager. It is injected, never a
// process-wide singleton.
type Manager interface {
	AddListener(Listener)
}

// ViewModel adapts one cast session manager to the playback contract. All
// input assignment is a no-op while no session is active.
type ViewModel struct {
	*playback.Pipeline
	scheduler   rx.Scheduler
	interval    time.Duration
	contentType string

	mu            sync.Mutex
	session       Session
	playing       bool
	stopHeartbeat func()

	hasSession *rx.BehaviorRelay[bool]
}

// NewViewModel registers the adapter on the manager. Heartbeat cadence and
// load content type come from configuration.
func NewViewModel(manager Manager, scheduler rx.Scheduler) *ViewModel {
	interval := time.Duration(viper.GetInt(key.CastHeartbeatInterval)) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	vm := &ViewModel{
		scheduler:   scheduler,
		interval:    interval,
		contentType: viper.GetString(key.CastContentType),
		hasSession:  rx.NewBehaviorRelay(false),
	}
	vm.Pipeline = playback.NewPipeline(playback.Hooks{
		OnInput:  vm.onInput,
		OnMuted:  vm.onMuted,
		OnVolume: vm.onVolume,
		OnSeek:   vm.onSeek,
		OnIntent: vm.onIntent,
	})
	manager.AddListener(vm)
	return vm
}

// HasSession replays whether a cast session is currently active.
func (vm *ViewModel) HasSession() rx.Stream[bool] { return vm.hasSession }

func (vm *ViewModel) currentSession() Session {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.session
}

func (vm *ViewModel) onInput(_, next playback.Input) {
	session := vm.currentSession()
	if session == nil {
		log.Debug("cast input ignored: no active session")
		return
	}

	switch next.Kind {
	case playback.InputCleanup:
		vm.haltHeartbeat()
		vm.EmitState(playback.Idle())

	case playback.InputAd, playback.InputContent, playback.InputContentWithStart:
		vm.EmitState(playback.Loading())
		req := LoadRequest{
			URL:         next.Handle,
			StartTime:   next.StartTime,
			ContentType: vm.contentType,
		}
		if err := session.Load(req); err != nil {
			log.Errorf("cast load %q: %v", next.Handle, err)
			vm.EmitState(playback.Errored(playback.ErrorConnection))
		}
	}
}

func (vm *ViewModel) onMuted(muted bool) {
	if session := vm.currentSession(); session != nil {
		if err := session.SetMuted(muted); err != nil {
			log.Warnf("cast set muted: %v", err)
		}
	}
}

func (vm *ViewModel) onVolume(volume float64) {
	if session := vm.currentSession(); session != nil {
		if err := session.SetVolume(volume); err != nil {
			log.Warnf("cast set volume: %v", err)
		}
	}
}

func (vm *ViewModel) onSeek(target playback.TimeInSeconds) {
	session := vm.currentSession()
	if session == nil {
		return
	}
	if err := session.Seek(target); err != nil {
		log.Warnf("cast seek: %v", err)
		return
	}
	// Remote receivers give no per-seek acknowledgement; the next heartbeat
	// reflects the new position.
	vm.EmitSeekCompleted()
}

func (vm *ViewModel) onIntent(intent playback.Intent) {
	session := vm.currentSession()
	if session == nil {
		return
	}
	var err error
	if intent == playback.IntentPlaying {
		err = session.Play()
	} else {
		err = session.Pause()
	}
	if err != nil {
		log.Warnf("cast %s: %v", intent, err)
	}
}

// HandleStatus folds one receiver media-status push into the pipeline and
// gates the heartbeat on the actively-playing state.
func (vm *ViewModel) HandleStatus(status RemoteStatus) {
	switch status {
	case StatusPlaying:
		vm.EmitState(playback.Active(playback.IntentPlaying))
		vm.startHeartbeat()
	case StatusPaused:
		vm.haltHeartbeat()
		vm.EmitState(playback.Active(playback.IntentPaused))
	case StatusBuffering:
		vm.haltHeartbeat()
		vm.EmitState(playback.Stuck())
	case StatusFinished:
		vm.haltHeartbeat()
		vm.EmitState(playback.Finished())
	case StatusFailed:
		vm.haltHeartbeat()
		vm.EmitState(playback.Errored(playback.ErrorPlayback))
	case StatusIdle:
		vm.haltHeartbeat()
		vm.EmitState(playback.Idle())
	}
}

func (vm *ViewModel) startHeartbeat() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.playing = true
	if vm.stopHeartbeat != nil || vm.session == nil {
		return
	}
	vm.stopHeartbeat = vm.scheduler.Every(vm.interval, vm.pollPosition)
}

func (vm *ViewModel) haltHeartbeat() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.playing = false
	if vm.stopHeartbeat != nil {
		vm.stopHeartbeat()
		vm.stopHeartbeat = nil
	}
}

func (vm *ViewModel) pollPosition() {
	session := vm.currentSession()
	if session == nil {
		return
	}
	pos, err := session.Position()
	if err != nil {
		log.Warnf("cast position poll: %v", err)
		return
	}
	vm.EmitTime(pos)
	if dur, err := session.Duration(); err == nil {
		vm.EmitDuration(dur)
	}
}

// SessionStarted implements Listener.
func (vm *ViewModel) SessionStarted(s Session) {
	vm.adoptSession(s)
}

// SessionResumed implements Listener.
func (vm *ViewModel) SessionResumed(s Session) {
	vm.adoptSession(s)
}

// adoptSession installs the session without touching the heartbeat: the
// receiver re-announces its media status right after start or resume, and that
// push is what arms polling.
func (vm *ViewModel) adoptSession(s Session) {
	vm.mu.Lock()
	vm.session = s
	vm.mu.Unlock()

	log.Info("cast session active")
	vm.hasSession.Emit(true)
}

// SessionEnded implements Listener. An erroneous end surfaces as a connection
// error; a clean end just returns the adapter to idle.
func (vm *ViewModel) SessionEnded(err error) {
	vm.dropSession()
	if err != nil {
		log.Warnf("cast session ended: %v", err)
		vm.EmitState(playback.Errored(playback.ErrorConnection))
		return
	}
	vm.EmitState(playback.Idle())
}

// SessionFailed implements Listener.
func (vm *ViewModel) SessionFailed(err error) {
	log.Warnf("cast session failed to start: %v", err)
	vm.dropSession()
	vm.EmitState(playback.Errored(playback.ErrorConnection))
}

func (vm *ViewModel) dropSession() {
	vm.mu.Lock()
	vm.session = nil
	vm.playing = false
	if vm.stopHeartbeat != nil {
		vm.stopHeartbeat()
		vm.stopHeartbeat = nil
	}
	vm.mu.Unlock()

	vm.hasSession.Emit(false)
}
