// Package tui provides the terminal transport-controls surface for a playback session.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for one playback session.
type Options struct {
	// URL is the media target handed to the native engine.
	URL string
	// Title overrides the display name derived from the URL.
	Title string
	// Continue resumes from the persisted playback position when one exists.
	Continue bool
}

// Run initializes and executes the transport-controls application loop.
func Run(options *Options) error {
	bubble, err := newBubble(options)
	if err != nil {
		return err
	}
	defer bubble.teardown()

	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
