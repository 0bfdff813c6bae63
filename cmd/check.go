// Package cmd implements the command-line interface for vidra.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/color"
	"github.com/vidra-cli/vidra/constant"
	"github.com/vidra-cli/vidra/icon"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/style"
)

// CheckDependencies verifies the availability of required system dependencies.
// The current implementation validates the presence of the configured playback
// engine binary in the system PATH.
func CheckDependencies() {
	binary := viper.GetString(key.PlayerBinary)
	_, err := exec.LookPath(binary)
	if err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case constant.Darwin:
		installCmd = "brew install " + dep
	case constant.Linux:
		installCmd = "sudo apt install " + dep
	case constant.Windows:
		installCmd = "scoop install " + dep
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(color.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep)

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(color.Cyan).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
