package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// transportKeymap defines the keyboard interactions of the transport chrome.
type transportKeymap struct {
	playPause,
	seekBack, seekForward,
	toggleChrome,
	fullscreen,
	mute,
	speedUp, speedDown,
	quit, forceQuit key.Binding
}

func newTransportKeymap() *transportKeymap {
	return &transportKeymap{
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "seek back"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "seek forward"),
		),
		toggleChrome: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle controls"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		speedUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		speedDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "slower"),
		),
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k *transportKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.playPause, k.seekBack, k.seekForward, k.toggleChrome, k.quit}
}

func (k *transportKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.playPause, k.seekBack, k.seekForward, k.mute},
		{k.fullscreen, k.speedUp, k.speedDown, k.toggleChrome},
		{k.quit, k.forceQuit},
	}
}
