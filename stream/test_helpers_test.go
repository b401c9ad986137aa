// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
	"testing"
)

//
// Test helpers
//

func assertSlice[T comparable](t *testing.T, what string, expected []T, actual []T) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("assertSlice[%s]: expected %d items, got %d (%v)", what, len(expected), len(actual), actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Fatalf("assertSlice[%s]: at index %d, expected %v, got %v", what, i, expected[i], actual[i])
		}
	}
}

func assertNil(t *testing.T, what string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error in %s: %s", what, err)
	}
}

// testSource is an observable whose observers are driven by the test.
// It records every subscription and counts the teardowns.
type testSource[T any] struct {
	mu        sync.Mutex
	observers []*Observer[T]
	teardowns int
}

func (s *testSource[T]) Subscribe(handlers Handlers[T]) *Subscription {
	return FuncObservable[T](
		func(o *Observer[T]) Teardown {
			s.mu.Lock()
			s.observers = append(s.observers, o)
			s.mu.Unlock()
			return func() {
				s.mu.Lock()
				s.teardowns++
				s.mu.Unlock()
			}
		}).Subscribe(handlers)
}

func (s *testSource[T]) observer(i int) *Observer[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observers[i]
}

func (s *testSource[T]) subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

func (s *testSource[T]) teardownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teardowns
}

// recorder collects the events delivered to a subscriber.
type recorder[T any] struct {
	mu          sync.Mutex
	items       []T
	errs        []error
	completions int
}

func (r *recorder[T]) handlers() Handlers[T] {
	return Handlers[T]{
		Next: func(item T) {
			r.mu.Lock()
			r.items = append(r.items, item)
			r.mu.Unlock()
		},
		Error: func(err error) {
			r.mu.Lock()
			r.errs = append(r.errs, err)
			r.mu.Unlock()
		},
		Complete: func() {
			r.mu.Lock()
			r.completions++
			r.mu.Unlock()
		},
	}
}

func (r *recorder[T]) snapshot() (items []T, errs []error, completions int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items = append([]T{}, r.items...)
	errs = append([]error{}, r.errs...)
	return items, errs, r.completions
}
