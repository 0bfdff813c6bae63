// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolP("continue", "c", false, "Resume playback from the saved position for this target")
	playCmd.Flags().StringP("title", "t", "", "Override the display title derived from the target")
}

// playCmd is the explicit form of the bare root invocation.
var playCmd = &cobra.Command{
	Use:   "play [url]",
	Short: "Play a stream URL or local media path in the transport TUI",
	Args:  cobra.MaximumNArgs(1),
	Run:   runPlayback,
}
