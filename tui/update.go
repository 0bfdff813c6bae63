package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/controls"
	keys "github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/playback"
)

// Update implements tea.Model.
func (b *transportBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.progressC.Width = msg.Width - 4
		b.helpC.Width = msg.Width
		return b, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd

	case tea.KeyMsg:
		return b.handleKey(msg)

	case visibilityMsg:
		b.visible = controls.Visibility(msg)
		return b, b.waitForEvent()

	case screenModeMsg:
		b.screenMode = controls.ScreenMode(msg)
		return b, b.waitForEvent()

	case progressMsg:
		b.progress = playback.Progress(msg)
		return b, b.waitForEvent()

	case bufferMsg:
		b.buffer = float64(msg)
		return b, b.waitForEvent()

	case timeLabelMsg:
		b.timeLabel = string(msg)
		return b, b.waitForEvent()

	case totalLabelMsg:
		b.totalLabel = string(msg)
		return b, b.waitForEvent()

	case errorLabelMsg:
		b.errorLabel = string(msg)
		return b, b.waitForEvent()

	case playerMsg:
		b.state = playback.PlayerState(msg)
		if b.state.Kind == playback.StateFinished {
			b.saveProgress()
			return b, tea.Quit
		}
		return b, b.waitForEvent()

	case ladderMsg:
		b.pb.SetQualityLadder([]playback.VideoQuality(msg))
		return b, b.waitForEvent()

	case offlineMsg:
		b.state = playback.Errored(playback.ErrorConnection)
		b.ctrl.SetPlayerState(b.state)
		return b, b.waitForEvent()

	case engineExitMsg:
		b.saveProgress()
		return b, tea.Quit
	}

	return b, nil
}

func (b *transportBubble) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keymap := b.keymap

	switch {
	case key.Matches(msg, keymap.quit), key.Matches(msg, keymap.forceQuit):
		b.saveProgress()
		return b, tea.Quit

	case key.Matches(msg, keymap.playPause):
		b.showChrome()
		intent := playback.IntentPlaying
		if b.state.IsPlaying() {
			intent = playback.IntentPaused
		}
		b.ctrl.SendIntent(intent)

	case key.Matches(msg, keymap.seekBack):
		b.nudge(-float64(viper.GetInt(keys.PlayerSeekStep)))

	case key.Matches(msg, keymap.seekForward):
		b.nudge(float64(viper.GetInt(keys.PlayerSeekStep)))

	case key.Matches(msg, keymap.toggleChrome):
		b.ctrl.AcceptVisibility(controls.SoftToggle())

	case key.Matches(msg, keymap.fullscreen):
		mode := controls.ScreenFullscreen
		if b.screenMode == controls.ScreenFullscreen {
			mode = controls.ScreenCompact
		}
		b.ctrl.SetScreenMode(mode)

	case key.Matches(msg, keymap.mute):
		b.showChrome()
		b.muted = !b.muted
		b.pb.SetMuted(b.muted)

	case key.Matches(msg, keymap.speedUp):
		b.showChrome()
		b.pb.SetSpeed(b.pb.Speed() + 0.25)

	case key.Matches(msg, keymap.speedDown):
		b.showChrome()
		if next := b.pb.Speed() - 0.25; next > 0 {
			b.pb.SetSpeed(next)
		}
	}

	return b, nil
}

// nudge performs a whole scrub gesture moving the playhead by delta seconds.
func (b *transportBubble) nudge(delta float64) {
	if b.progress.Total <= 0 {
		return
	}
	b.showChrome()

	fraction := (b.progress.Value + delta) / b.progress.Total
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	b.ctrl.SendSeek(controls.SeekEvent{Kind: controls.SeekStarted, Fraction: fraction})
	b.ctrl.SendSeek(controls.SeekEvent{Kind: controls.SeekValue, Fraction: fraction})
	b.ctrl.SendSeek(controls.SeekEvent{Kind: controls.SeekFinished, Fraction: fraction})
}

func (b *transportBubble) showChrome() {
	b.ctrl.AcceptVisibility(controls.Soft(true))
}
