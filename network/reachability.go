// Package network provides a pre-configured HTTP client and a connectivity monitor for playback surfaces.
package network

import (
	"net/http"
	"time"

	"github.com/spf13/viper"
	"github.com/vidra-cli/vidra/key"
	"github.com/vidra-cli/vidra/log"
	"github.com/vidra-cli/vidra/rx"
)

// Prober performs a single connectivity check. Swappable in tests.
type Prober func() bool

// Monitor periodically probes a well-known endpoint and publishes connectivity transitions.
// Playback surfaces map a false emission onto a connection error state.
type Monitor struct {
	reachable *rx.BehaviorRelay[bool]
	probe     Prober
	sched     rx.Scheduler
	interval  time.Duration
	stop      func()
}

// NewMonitor creates a reachability monitor using the globally configured probe URL and interval.
func NewMonitor(sched rx.Scheduler) *Monitor {
	return &Monitor{
		reachable: rx.NewBehaviorRelay(true),
		probe:     defaultProbe,
		sched:     sched,
		interval:  time.Duration(viper.GetInt(key.NetworkProbeInterval)) * time.Second,
	}
}

// Reachable exposes the connectivity stream. Replays the last known state to new subscribers.
func (m *Monitor) Reachable() rx.Stream[bool] {
	return m.reachable
}

// Start begins periodic probing. Calling Start on a running monitor is a no-op.
func (m *Monitor) Start() {
	if m.stop != nil {
		return
	}
	m.stop = m.sched.Every(m.interval, func() {
		ok := m.probe()
		if ok != m.reachable.Value() {
			log.Infof("reachability changed: %v", ok)
			m.reachable.Emit(ok)
		}
	})
}

// Stop terminates periodic probing.
func (m *Monitor) Stop() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}

// defaultProbe issues a HEAD request against the configured endpoint.
func defaultProbe() bool {
	req, err := http.NewRequest(http.MethodHead, viper.GetString(key.NetworkProbeURL), nil)
	if err != nil {
		return false
	}
	resp, err := Client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
