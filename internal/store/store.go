// Package store provides a small observable value container that can be
// driven from anywhere in the program and watched by any number of consumers.
package store

import "sync"

// Store holds a value of type T and notifies subscribers after every change.
type Store[T any] struct {
	mu    sync.Mutex
	value T
	clone func(T) T
	hub   Hub[T]
}

// Option customises a Store.
type Option[T any] func(*Store[T])

// WithClone installs a copy function applied to every value handed out, so
// readers cannot reach the stored value through shared references.
func WithClone[T any](clone func(T) T) Option[T] {
	return func(s *Store[T]) {
		s.clone = clone
	}
}

// New creates a store holding initial.
func New[T any](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{value: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyOf(s.value)
}

// Set replaces the value and notifies subscribers.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	out := s.copyOf(v)
	s.mu.Unlock()

	s.hub.Publish(out)
}

// Update applies fn to the current value under the store lock, stores the
// result and notifies subscribers. It returns the new value.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.copyOf(s.value))
	out, ret := s.copyOf(s.value), s.copyOf(s.value)
	s.mu.Unlock()

	s.hub.Publish(out)
	return ret
}

// Subscribe registers a listener called with the new value after each change.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return s.hub.Subscribe(fn)
}

func (s *Store[T]) copyOf(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}
