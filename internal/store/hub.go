package store

import "sync"

// Listener receives published values.
type Listener[T any] func(T)

// Hub is a registry of listeners. Publish copies the registry under the lock
// and calls listeners after releasing it, in registration order.
type Hub[T any] struct {
	mu      sync.RWMutex
	nextID  int
	entries []hubEntry[T]
}

type hubEntry[T any] struct {
	id int
	fn Listener[T]
}

// Subscribe registers fn and returns a function that removes it. The returned
// function is safe to call more than once. A nil listener is ignored.
func (h *Hub[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	if h == nil || fn == nil {
		return func() {}
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.entries = append(h.entries, hubEntry[T]{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, entry := range h.entries {
				if entry.id == id {
					h.entries = append(h.entries[:i:i], h.entries[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers v to every listener registered at the time of the call.
func (h *Hub[T]) Publish(v T) {
	if h == nil {
		return
	}

	h.mu.RLock()
	entries := append([]hubEntry[T](nil), h.entries...)
	h.mu.RUnlock()

	for _, entry := range entries {
		entry.fn(v)
	}
}

// Len returns the number of registered listeners.
func (h *Hub[T]) Len() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Ordered wraps fn so that it observes values in strictly increasing sequence
// order. A value no newer than the last one accepted is dropped. A value that
// arrives while fn is running, from another goroutine or from fn itself, is
// held and delivered once fn returns; only the newest held value survives.
func Ordered[T any](seq func(T) uint64, fn Listener[T]) Listener[T] {
	if fn == nil {
		return nil
	}

	var (
		mu       sync.Mutex
		last     uint64
		started  bool
		pending  T
		waiting  bool
		draining bool
	)
	return func(v T) {
		mu.Lock()
		n := seq(v)
		if started && n <= last {
			mu.Unlock()
			return
		}
		started = true
		last = n
		pending, waiting = v, true
		if draining {
			mu.Unlock()
			return
		}

		draining = true
		for waiting {
			next := pending
			var zero T
			pending, waiting = zero, false
			mu.Unlock()
			fn(next)
			mu.Lock()
		}
		draining = false
		mu.Unlock()
	}
}
