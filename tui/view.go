package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/color"
	"github.com/vidra-cli/vidra/controls"
	"github.com/vidra-cli/vidra/icon"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/playback"
	"github.com/vidra-cli/vidra/style"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// View implements tea.Model.
func (b *transportBubble) View() string {
	if !b.visible.Visible {
		return b.viewHidden()
	}
	if b.state.Kind == playback.StateError {
		return b.viewError()
	}
	return b.viewTransport()
}

func (b *transportBubble) viewHidden() string {
	if !viper.GetBool(key.TUIShowChromeHelp) {
		return ""
	}
	return paddingStyle.Render(style.Faint("controls hidden · t to show"))
}

func (b *transportBubble) viewTransport() string {
	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(b.statusLine()),
		"",
		b.progressLine(),
		b.timeline(),
	}

	return b.renderLines(true, lines)
}

func (b *transportBubble) statusLine() string {
	title := style.Fg(color.Purple)(b.title)

	switch b.state.Kind {
	case playback.StateLoading:
		return b.spinnerC.View() + " " + title + style.Faint(" (loading)")
	case playback.StateStuck:
		return b.spinnerC.View() + " " + title + style.Faint(" (buffering)")
	case playback.StateAd:
		return icon.Get(icon.Play) + " " + title + style.Faint(" (ad break)")
	case playback.StateFinished:
		return icon.Get(icon.Success) + " " + title
	default:
		if b.state.IsPlaying() {
			return icon.Get(icon.Play) + " " + title
		}
		return icon.Get(icon.Pause) + " " + title
	}
}

func (b *transportBubble) progressLine() string {
	return b.progressC.ViewAs(b.progress.Fraction())
}

func (b *transportBubble) timeline() string {
	left := b.timeLabel
	right := b.totalLabel
	if left == "" {
		left = "00:00"
	}
	if right == "" {
		right = "00:00"
	}

	extras := make([]string, 0, 3)
	if b.buffer > 0 {
		extras = append(extras, fmt.Sprintf("buffered %d%%", int(b.buffer*100)))
	}
	if speed := b.pb.Speed(); speed != 1 {
		extras = append(extras, fmt.Sprintf("%.2gx", speed))
	}
	if b.muted {
		extras = append(extras, "muted")
	}
	if b.screenMode == controls.ScreenFullscreen {
		extras = append(extras, "fullscreen")
	}

	line := left + " / " + right
	if len(extras) > 0 {
		line += style.Faint("  ·  " + strings.Join(extras, " · "))
	}
	return line
}

func (b *transportBubble) viewError() string {
	message := b.errorLabel
	if message == "" {
		message = "Playback failed"
	}
	errorBody := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render(message)

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " " + wrap.String(errorBody, b.width),
	})
}

func (b *transportBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
