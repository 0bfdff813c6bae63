package native

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/vidra-cli/vidra/log"
)

// eventListener turns mpv's observe_property push notifications into Engine
// events on a persistent socket connection.
type eventListener struct {
	socketPath string
	conn       net.Conn
	emit       func(Event)
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

func newEventListener(socketPath string, emit func(Event)) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		emit:       emit,
		stopCh:     make(chan struct{}),
	}
}

// observedProperties maps mpv property observers onto the engine event
// vocabulary. The ids are arbitrary but stable per connection.
var observedProperties = []struct {
	id   int
	name string
}{
	{1, "time-pos"},
	{2, "duration"},
	{3, "pause"},
	{4, "seeking"},
	{5, "eof-reached"},
	{6, "paused-for-cache"},
	{7, "demuxer-cache-time"},
}

// Start registers the property observers and begins the read loop.
func (el *eventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	for _, prop := range observedProperties {
		if _, err := sendIPC(el.socketPath, []interface{}{"observe_property", prop.id, prop.name}); err != nil {
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("player event listener started on %s", el.socketPath)
	return nil
}

// Stop terminates the listener.
func (el *eventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop reads newline-delimited JSON events from the persistent
// connection until stopped.
func (el *eventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			if strings.Contains(err.Error(), "timeout") || strings.Contains(err.Error(), "deadline") {
				continue
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			// Last incomplete line carries over to the next read
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}
			el.processLine(line)
		}
	}
}

// processLine parses and dispatches a single event JSON line.
func (el *eventListener) processLine(line string) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return
	}

	eventType, _ := raw["event"].(string)
	switch eventType {
	case "property-change":
		name, _ := raw["name"].(string)
		el.propertyChanged(name, raw["data"])
	case "file-loaded", "playback-restart":
		el.emit(Event{Kind: EventReady})
	case "end-file":
		if reason, _ := raw["reason"].(string); reason == "error" {
			el.emit(Event{Kind: EventFailed})
		}
	}
}

func (el *eventListener) propertyChanged(name string, data interface{}) {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			el.emit(Event{Kind: EventTime, Seconds: v})
		}
	case "duration":
		if v, ok := data.(float64); ok {
			el.emit(Event{Kind: EventDuration, Seconds: v})
		}
	case "demuxer-cache-time":
		if v, ok := data.(float64); ok {
			el.emit(Event{Kind: EventBuffered, Seconds: v})
		}
	case "pause":
		if v, ok := data.(bool); ok {
			el.emit(Event{Kind: EventPaused, Flag: v})
		}
	case "seeking":
		if v, ok := data.(bool); ok {
			el.emit(Event{Kind: EventSeeking, Flag: v})
		}
	case "paused-for-cache":
		if v, ok := data.(bool); ok {
			el.emit(Event{Kind: EventStuck, Flag: v})
		}
	case "eof-reached":
		if v, ok := data.(bool); ok && v {
			el.emit(Event{Kind: EventEnded})
		}
	}
}
