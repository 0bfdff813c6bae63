// Package rx implements the minimal reactive plumbing shared by all playback adapters:
// broadcast relays with pinned replay semantics, a few stream operators, and an
// injectable scheduler for timers and heartbeats.
//
// Delivery is synchronous and in subscription order, which keeps state machines
// deterministic on the single logical UI context the playback layer assumes.
package rx

import "sync"

// Observer receives values emitted by a stream.
type Observer[T any] func(T)

// Subscription cancels a stream observation when invoked.
type Subscription func()

// Stream is a multi-consumer broadcast source of values.
type Stream[T any] interface {
	Subscribe(Observer[T]) Subscription
}

// Relay is a fire-forward broadcast stream: subscribers receive only values
// emitted after they subscribe. The playback layer uses relays for event-like
// channels (seek requests, seek completions, play/pause intent).
type Relay[T any] struct {
	mu    sync.Mutex
	subs  map[uint64]Observer[T]
	order []uint64
	next  uint64
}

// NewRelay creates an empty fire-forward relay.
func NewRelay[T any]() *Relay[T] {
	return &Relay[T]{subs: make(map[uint64]Observer[T])}
}

// Subscribe registers an observer. The returned Subscription removes it.
func (r *Relay[T]) Subscribe(o Observer[T]) Subscription {
	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = o
	r.order = append(r.order, id)
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Emit delivers a value to all current subscribers in subscription order.
// Observers are invoked outside the relay lock, so emitting from within an
// observer is allowed.
func (r *Relay[T]) Emit(v T) {
	r.mu.Lock()
	observers := make([]Observer[T], 0, len(r.subs))
	for _, id := range r.order {
		if o, ok := r.subs[id]; ok {
			observers = append(observers, o)
		}
	}
	r.mu.Unlock()

	for _, o := range observers {
		o(v)
	}
}

// BehaviorRelay is a broadcast stream that additionally retains its latest
// value and replays it to every new subscriber. The playback layer uses
// behavior relays for state-like channels (time, duration, player state,
// visibility) where a late subscriber must learn the current value.
type BehaviorRelay[T any] struct {
	relay *Relay[T]
	mu    sync.Mutex
	has   bool
	last  T
}

// NewBehaviorRelay creates a behavior relay seeded with an initial value.
func NewBehaviorRelay[T any](initial T) *BehaviorRelay[T] {
	return &BehaviorRelay[T]{relay: NewRelay[T](), has: true, last: initial}
}

// NewDeferredBehaviorRelay creates a behavior relay with no initial value.
// Replay starts only once the first value has been emitted.
func NewDeferredBehaviorRelay[T any]() *BehaviorRelay[T] {
	return &BehaviorRelay[T]{relay: NewRelay[T]()}
}

// Subscribe registers an observer, replaying the retained value first when one exists.
func (b *BehaviorRelay[T]) Subscribe(o Observer[T]) Subscription {
	b.mu.Lock()
	has, last := b.has, b.last
	b.mu.Unlock()

	if has {
		o(last)
	}
	return b.relay.Subscribe(o)
}

// Emit retains the value and delivers it to all current subscribers.
func (b *BehaviorRelay[T]) Emit(v T) {
	b.mu.Lock()
	b.has = true
	b.last = v
	b.mu.Unlock()
	b.relay.Emit(v)
}

// Value returns the retained value, or the zero value if none was emitted yet.
func (b *BehaviorRelay[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// HasValue reports whether a value has been retained.
func (b *BehaviorRelay[T]) HasValue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.has
}
