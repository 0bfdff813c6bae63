package rx

// StreamFunc adapts a subscribe function into a Stream.
type StreamFunc[T any] func(Observer[T]) Subscription

// Subscribe implements Stream.
func (f StreamFunc[T]) Subscribe(o Observer[T]) Subscription {
	return f(o)
}

// Merge returns a stream emitting every value from all sources, in arrival order.
func Merge[T any](sources ...Stream[T]) Stream[T] {
	return StreamFunc[T](func(o Observer[T]) Subscription {
		subs := make([]Subscription, 0, len(sources))
		for _, s := range sources {
			subs = append(subs, s.Subscribe(o))
		}
		return func() {
			for _, s := range subs {
				s()
			}
		}
	})
}

// Map returns a stream with every source value transformed by project.
func Map[T, R any](source Stream[T], project func(T) R) Stream[R] {
	return StreamFunc[R](func(o Observer[R]) Subscription {
		return source.Subscribe(func(v T) {
			o(project(v))
		})
	})
}

// Filter returns a stream passing through only values satisfying keep.
func Filter[T any](source Stream[T], keep func(T) bool) Stream[T] {
	return StreamFunc[T](func(o Observer[T]) Subscription {
		return source.Subscribe(func(v T) {
			if keep(v) {
				o(v)
			}
		})
	})
}

// DistinctUntilChanged suppresses consecutive values considered equal by eq.
// The suppression state is per subscription.
func DistinctUntilChanged[T any](source Stream[T], eq func(a, b T) bool) Stream[T] {
	return StreamFunc[T](func(o Observer[T]) Subscription {
		var has bool
		var last T
		return source.Subscribe(func(v T) {
			if has && eq(last, v) {
				return
			}
			has = true
			last = v
			o(v)
		})
	})
}

// CombineLatest2 emits project(a, b) whenever either source emits, starting
// once both have produced at least one value. The latest-value cache is per
// subscription.
func CombineLatest2[A, B, R any](sa Stream[A], sb Stream[B], project func(A, B) R) Stream[R] {
	return StreamFunc[R](func(o Observer[R]) Subscription {
		var (
			hasA, hasB bool
			lastA      A
			lastB      B
		)
		emit := func() {
			if hasA && hasB {
				o(project(lastA, lastB))
			}
		}
		subA := sa.Subscribe(func(v A) {
			hasA = true
			lastA = v
			emit()
		})
		subB := sb.Subscribe(func(v B) {
			hasB = true
			lastB = v
			emit()
		})
		return func() {
			subA()
			subB()
		}
	})
}

// WithLatestFrom emits project(t, latest u) for every value of the trigger
// stream, dropping triggers that arrive before the companion has a value.
func WithLatestFrom[T, U, R any](trigger Stream[T], companion Stream[U], project func(T, U) R) Stream[R] {
	return StreamFunc[R](func(o Observer[R]) Subscription {
		var hasU bool
		var lastU U
		subU := companion.Subscribe(func(v U) {
			hasU = true
			lastU = v
		})
		subT := trigger.Subscribe(func(v T) {
			if hasU {
				o(project(v, lastU))
			}
		})
		return func() {
			subT()
			subU()
		}
	})
}
