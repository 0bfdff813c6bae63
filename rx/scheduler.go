package rx

import (
	"sort"
	"sync"
	"time"
)

// Scheduler abstracts one-shot timers and periodic tickers so that auto-hide
// debouncing and heartbeat polling stay deterministic under test.
type Scheduler interface {
	// After runs fn once after d. The returned function cancels the timer.
	After(d time.Duration, fn func()) (cancel func())
	// Every runs fn repeatedly with period d. The returned function stops it.
	Every(d time.Duration, fn func()) (cancel func())
}

// System returns the wall-clock scheduler.
func System() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

func (systemScheduler) Every(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}

// ManualScheduler is a virtual-time scheduler for tests. Timers fire only when
// Advance moves the clock past their deadline, on the calling goroutine.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	entries []*manualEntry
	next    int
}

type manualEntry struct {
	id       int
	deadline time.Duration
	period   time.Duration // 0 for one-shot
	fn       func()
	stopped  bool
}

// NewManualScheduler creates a virtual-time scheduler starting at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) add(d, period time.Duration, fn func()) func() {
	m.mu.Lock()
	e := &manualEntry{id: m.next, deadline: m.now + d, period: period, fn: fn}
	m.next++
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		e.stopped = true
		m.mu.Unlock()
	}
}

// After implements Scheduler.
func (m *ManualScheduler) After(d time.Duration, fn func()) func() {
	return m.add(d, 0, fn)
}

// Every implements Scheduler.
func (m *ManualScheduler) Every(d time.Duration, fn func()) func() {
	return m.add(d, d, fn)
}

// Advance moves virtual time forward, firing due timers in deadline order.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualEntry
		for _, e := range m.entries {
			if e.stopped || e.deadline > target {
				continue
			}
			if due == nil || e.deadline < due.deadline || (e.deadline == due.deadline && e.id < due.id) {
				due = e
			}
		}
		if due == nil {
			m.now = target
			m.compact()
			m.mu.Unlock()
			return
		}
		m.now = due.deadline
		if due.period > 0 {
			due.deadline += due.period
		} else {
			due.stopped = true
		}
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

// compact drops stopped entries; callers hold the lock.
func (m *ManualScheduler) compact() {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if !e.stopped {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	sort.SliceStable(m.entries, func(i, j int) bool { return m.entries[i].deadline < m.entries[j].deadline })
}
