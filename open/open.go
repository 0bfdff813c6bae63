// Package open launches files and URLs with the platform's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/vidra-cli/vidra/constant"
)

// Start launches the input with the default system handler and returns
// without waiting for the handler to exit.
func Start(input string) error {
	cmd, err := command(input)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Run is like Start but waits for the handler process to finish.
func Run(input string) error {
	cmd, err := command(input)
	if err != nil {
		return err
	}
	return cmd.Run()
}

func command(input string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case constant.Darwin:
		return exec.Command("open", input), nil
	case constant.Linux:
		return exec.Command("xdg-open", input), nil
	case constant.Android:
		return exec.Command("termux-open", input), nil
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", input), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
