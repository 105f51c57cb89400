// Package notify provides a synchronous subject/observer channel.
//
// A Subject keeps an ordered list of observers. Attaching the same observer
// twice is allowed and yields two calls per Notify. Detach matches observers
// with ==; an observer whose dynamic value is not comparable (a func, or a
// struct holding a slice) can be attached and notified but never detached.
package notify

import (
	"errors"
	"reflect"
	"sync"
)

// Observer receives the subject whenever it changes.
type Observer[T any] interface {
	Update(subject T) error
}

// Subject holds the observers of a T. The zero value is ready to use.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []Observer[T]
}

// Attach appends o to the observer list.
func (s *Subject[T]) Attach(o Observer[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Detach removes the first occurrence of o. It reports whether o was found.
// Non-comparable observers are never found.
func (s *Subject[T]) Detach(o Observer[T]) bool {
	if !reflect.ValueOf(o).Comparable() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.observers {
		if reflect.ValueOf(existing).Comparable() && existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of attached observers, duplicates included.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// Notify calls Update(subject) on every observer in attachment order.
// A failing observer does not stop the others; all failures are joined
// into the returned error.
func (s *Subject[T]) Notify(subject T) error {
	s.mu.Lock()
	observers := make([]Observer[T], len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	var errs []error
	for _, o := range observers {
		if err := o.Update(subject); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
