package native

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitGracePeriod   = 3 * time.Second
)

// MPV drives an mpv process over its JSON-IPC socket and satisfies the Engine
// interface. The process spawns lazily on the first Load and survives input
// replacement; subsequent loads reuse the running instance.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the process exits
	listener   *eventListener
	ipcMu      sync.Mutex // serializes socket writes

	sinkMu sync.Mutex
	sink   func(Event)
}

// NewMPV creates an idle engine. The player binary comes from configuration,
// so iina-style drop-in replacements with an mpv-compatible IPC surface work
// unchanged.
func NewMPV() *MPV {
	m := &MPV{binary: viper.GetString(key.PlayerBinary)}
	exited := make(chan struct{})
	close(exited) // not running yet
	m.exited = exited
	return m
}

// SetSink implements Engine.
func (m *MPV) SetSink(sink func(Event)) {
	m.sinkMu.Lock()
	m.sink = sink
	m.sinkMu.Unlock()
}

func (m *MPV) emit(e Event) {
	m.sinkMu.Lock()
	sink := m.sink
	m.sinkMu.Unlock()
	if sink != nil {
		sink(e)
	}
}

// Load implements Engine. A running instance gets the new target via IPC;
// otherwise a fresh process is spawned and observed.
func (m *MPV) Load(target string) error {
	safe, err := sanitizeMediaTarget(target)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if m.running() {
		if _, err := m.command([]interface{}{"loadfile", safe, "replace"}); err != nil {
			return err
		}
		return nil
	}
	return m.spawn(safe)
}

func (m *MPV) spawn(target string) error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		// os.TempDir keeps this portable: macOS $TMPDIR is not /tmp
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("vidra-%x.sock", randomBytes))
	}

	// Pass only the socket and the target. No --vo/--profile/--hwdec: the
	// user's player config stays authoritative.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		"--idle=yes",
		target,
	}

	m.cmd = exec.Command(m.binary, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.binary, err)
	}

	// Reap the process to prevent zombies.
	m.exited = make(chan struct{})
	go func(cmd *exec.Cmd, exited chan struct{}) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd, m.exited)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing %s: socket never became ready", m.binary)
			_ = m.cmd.Process.Kill()
		}
		return fmt.Errorf("%s socket not ready: %w", m.binary, err)
	}

	m.listener = newEventListener(m.socketPath, m.emit)
	if err := m.listener.Start(); err != nil {
		return fmt.Errorf("event listener: %w", err)
	}
	return nil
}

// waitForSocket polls until the IPC socket accepts connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("%s exited before socket was ready", m.binary)
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) running() bool {
	if m.socketPath == "" {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
	}
	_, err := m.command([]interface{}{"get_property", "pid"})
	return err == nil
}

// Unload implements Engine.
func (m *MPV) Unload() error {
	if !m.running() {
		return nil
	}
	_, err := m.command([]interface{}{"stop"})
	return err
}

// SetPaused implements Engine.
func (m *MPV) SetPaused(paused bool) error {
	return m.set("pause", paused)
}

// SetMuted implements Engine.
func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

// SetVolume implements Engine.
func (m *MPV) SetVolume(volume float64) error {
	return m.set("volume", volume)
}

// SetSpeed implements Engine.
func (m *MPV) SetSpeed(speed float64) error {
	return m.set("speed", speed)
}

// Seek implements Engine. Exact mode keeps the landing position inside the
// adapter's tolerance window instead of snapping to a keyframe.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.command([]interface{}{"seek", seconds, "absolute+exact"})
	return err
}

func (m *MPV) set(property string, value interface{}) error {
	if !m.running() {
		return nil // buffered by the pipeline, applied on next load
	}
	_, err := m.command([]interface{}{"set_property", property, value})
	return err
}

// Close implements Engine: graceful quit over IPC, then a hard kill after the
// grace period, then socket cleanup.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}
	if m.socketPath == "" {
		return nil
	}

	_, _ = m.command([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(quitGracePeriod):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Exited returns a channel closed when the player process terminates.
func (m *MPV) Exited() <-chan struct{} {
	return m.exited
}

// sanitizeMediaTarget validates that a target is safe to hand to the player
// binary. Prevents flag injection through handles that come from untrusted
// lookups.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty target")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in target")
	}
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("target must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Local file path
	return filepath.Clean(l), nil
}
