package native

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command []interface{} `json:"command"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
type ipcResponse struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

const (
	ipcRetries   = 3
	ipcRetryWait = 100 * time.Millisecond
	ipcDeadline  = 1 * time.Second
	ipcBufSize   = 4096
)

// command sends a JSON-IPC command over the Unix domain socket, retrying
// transient connection errors. Socket writes are serialized per engine.
func (m *MPV) command(cmd []interface{}) (interface{}, error) {
	m.ipcMu.Lock()
	defer m.ipcMu.Unlock()

	var lastErr error
	for attempt := 0; attempt < ipcRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(ipcRetryWait)
		}
		result, err := sendIPC(m.socketPath, cmd)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", ipcRetries, lastErr)
}

// sendIPC performs a single request/response round trip.
func sendIPC(socketPath string, cmd []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	payload, err := json.Marshal(ipcCommand{Command: cmd})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON
	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(ipcDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	buf := make([]byte, ipcBufSize)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var resp ipcResponse
	if err := json.Unmarshal(buf[:n], &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if resp.Error != "" && resp.Error != "success" {
		return nil, fmt.Errorf("mpv error: %s", resp.Error)
	}
	return resp.Data, nil
}
