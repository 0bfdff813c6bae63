package tui

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/engine/native"
	"github.com/vidra-cli/vidra/history"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/manifest"
	"github.com/vidra-cli/vidra/network"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/player"
	"github.com/vidra-cli/vidra/rx"
	"github.com/vidra-cli/vidra/style"
)

// Messages fed into the Bubble Tea loop by the playback subscriptions.
type (
	visibilityMsg controls.Visibility
	screenModeMsg controls.ScreenMode
	progressMsg   playback.Progress
	bufferMsg     float64
	timeLabelMsg  string
	totalLabelMsg string
	errorLabelMsg string
	playerMsg     playback.PlayerState
	ladderMsg     []playback.VideoQuality
	offlineMsg    struct{}
	engineExitMsg struct{}
)

// transportBubble is the single-screen transport chrome bound to one engine.
type transportBubble struct {
	options *Options
	title   string

	engine *native.MPV
	pb     *native.ViewModel
	ctrl   *controls.ViewModel
	coord  *player.ViewModel
	net    *network.Monitor

	msgs chan tea.Msg
	subs []rx.Subscription

	keymap *transportKeymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	visible    controls.Visibility
	screenMode controls.ScreenMode
	progress   playback.Progress
	buffer     float64
	timeLabel  string
	totalLabel string
	errorLabel string
	state      playback.PlayerState
	muted      bool

	width, height int
}

func newBubble(options *Options) (*transportBubble, error) {
	engine := native.NewMPV()
	pb := native.NewViewModel(engine)

	autoHide := time.Duration(viper.GetInt(key.ControlsAutoHide)) * time.Second
	ctrl := controls.New(rx.System(), autoHide)

	b := &transportBubble{
		options:   options,
		title:     displayTitle(options),
		engine:    engine,
		pb:        pb,
		ctrl:      ctrl,
		coord:     player.NewViewModel(pb, ctrl),
		net:       network.NewMonitor(rx.System()),
		msgs:      make(chan tea.Msg, 64),
		keymap:    newTransportKeymap(),
		spinnerC:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(style.New())),
		progressC: progress.New(progress.WithDefaultGradient()),
		helpC:     help.New(),
		visible:   controls.SoftVisibility(true),
		state:     playback.Idle(),
	}
	b.bind()

	// Local files play fine without a network; only remote targets get
	// the reachability probe.
	if strings.HasPrefix(options.URL, "http") {
		b.net.Start()
	}

	input := playback.ContentInput(options.URL)
	if options.Continue {
		if position, ok := history.Resume(options.URL); ok {
			log.Infof("resuming %q at %.0fs", options.URL, position)
			input = playback.ContentInputWithStart(options.URL, position)
		}
	}
	pb.SetInput(input)

	return b, nil
}

// bind forwards every stream the chrome renders into the Bubble Tea mailbox.
func (b *transportBubble) bind() {
	add := func(s rx.Subscription) { b.subs = append(b.subs, s) }
	send := func(m tea.Msg) {
		select {
		case b.msgs <- m:
		default:
			// The loop lags behind; dropping a stale chrome update is safe.
		}
	}

	add(b.ctrl.Visible().Subscribe(func(v controls.Visibility) { send(visibilityMsg(v)) }))
	add(b.ctrl.ScreenModeChanged().Subscribe(func(m controls.ScreenMode) { send(screenModeMsg(m)) }))
	add(b.ctrl.Buffer().Subscribe(func(f float64) { send(bufferMsg(f)) }))
	add(b.ctrl.TimeLabel().Subscribe(func(l string) { send(timeLabelMsg(l)) }))
	add(b.ctrl.TotalLabel().Subscribe(func(l string) { send(totalLabelMsg(l)) }))
	add(b.ctrl.ErrorLabel().Subscribe(func(l string) { send(errorLabelMsg(l)) }))
	add(b.pb.Progress().Subscribe(func(p playback.Progress) { send(progressMsg(p)) }))
	add(b.pb.State().Subscribe(func(s playback.PlayerState) { send(playerMsg(s)) }))
	add(b.net.Reachable().Subscribe(func(ok bool) {
		if !ok {
			send(offlineMsg{})
		}
	}))

	go func() {
		<-b.engine.Exited()
		send(engineExitMsg{})
	}()
}

// Init implements tea.Model.
func (b *transportBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.spinnerC.Tick, b.waitForEvent()}
	if strings.Contains(b.options.URL, ".m3u8") {
		cmds = append(cmds, b.loadLadder())
	}
	return tea.Batch(cmds...)
}

// waitForEvent pumps one subscription message into the update loop.
func (b *transportBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-b.msgs
	}
}

// loadLadder resolves the rendition ladder for quality switching. Failures
// only disable the quality feature, never playback.
func (b *transportBubble) loadLadder() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ladder, err := manifest.NewResolver().Resolve(ctx, b.options.URL)
		if err != nil {
			log.Warnf("rendition ladder unavailable: %v", err)
			return nil
		}
		return ladderMsg(ladder)
	}
}

// saveProgress persists the resume position if history tracking is enabled.
func (b *transportBubble) saveProgress() {
	if !viper.GetBool(key.HistorySaveOnPlay) {
		return
	}
	if b.progress.Total <= 0 {
		return
	}
	if err := history.Save(b.options.URL, b.title, b.progress.Value, b.progress.Total); err != nil {
		log.Warnf("save resume position: %v", err)
	}
}

func (b *transportBubble) teardown() {
	for _, cancel := range b.subs {
		cancel()
	}
	b.subs = nil
	b.net.Stop()
	b.coord.Close()
	if err := b.engine.Close(); err != nil {
		log.Warnf("engine close: %v", err)
	}
}

func displayTitle(options *Options) string {
	if options.Title != "" {
		return options.Title
	}
	base := path.Base(strings.TrimSuffix(options.URL, "/"))
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	if base == "" || base == "." {
		return options.URL
	}
	return base
}
