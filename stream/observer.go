// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
)

// Observer is the receiving end of a single subscription. Producers push
// items into it with Next and end the stream with Error or Complete.
//
// An observer moves from active to terminated exactly once, by Error,
// Complete or Unsubscribe. After that no new handler call starts and the
// teardown attached to it has run or will run on attachment.
//
// The methods are safe to call from multiple goroutines. Cancellation is
// cooperative: a Next call that already passed the termination check on
// another goroutine still runs its handler to the end, even when it
// overlaps with Unsubscribe or a terminal handler. Handlers are never
// invoked with the internal lock held, so a handler may call back into the
// observer or its subscription.
type Observer[T any] struct {
	handlers Handlers[T]

	mu       sync.Mutex
	stopped  bool
	teardown Teardown
	tornDown bool
}

func newObserver[T any](handlers Handlers[T]) *Observer[T] {
	return &Observer[T]{handlers: handlers}
}

// Next delivers an item to the subscriber. Dropped if the observer has
// terminated when the call starts.
func (o *Observer[T]) Next(item T) {
	if o.handlers.Next == nil || o.IsUnsubscribed() {
		return
	}
	o.handlers.Next(item)
}

// Error terminates the stream with 'err'. Only the first terminal event
// has an effect. The observer is marked terminated before the Error
// handler runs, so inside the handler IsUnsubscribed (and Closed on the
// subscription) already reports true and a Next made from it is dropped.
// The teardown runs after the handler returns.
func (o *Observer[T]) Error(err error) {
	if !o.stop() {
		return
	}
	if o.handlers.Error != nil {
		o.handlers.Error(err)
	}
	o.runTeardown()
}

// Complete terminates the stream successfully. Like Error, it marks the
// observer terminated before the Complete handler runs and tears down
// after it returns.
func (o *Observer[T]) Complete() {
	if !o.stop() {
		return
	}
	if o.handlers.Complete != nil {
		o.handlers.Complete()
	}
	o.runTeardown()
}

// Unsubscribe terminates the observer without notifying the subscriber and
// releases the producer's resources. Safe to call any number of times.
func (o *Observer[T]) Unsubscribe() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()
	o.runTeardown()
}

// IsUnsubscribed returns true once the observer has terminated. Producers
// that deliver asynchronously can use it to stop work early.
func (o *Observer[T]) IsUnsubscribed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}

// stop marks the observer terminated and reports whether this call did it.
func (o *Observer[T]) stop() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return false
	}
	o.stopped = true
	return true
}

// attach installs the teardown returned by the producer. If the observer
// already terminated while the producer ran, the teardown runs right away.
func (o *Observer[T]) attach(teardown Teardown) {
	if teardown == nil {
		return
	}
	o.mu.Lock()
	o.teardown = teardown
	stopped := o.stopped
	o.mu.Unlock()

	if stopped {
		o.runTeardown()
	}
}

func (o *Observer[T]) runTeardown() {
	o.mu.Lock()
	teardown := o.teardown
	if o.tornDown || teardown == nil {
		o.mu.Unlock()
		return
	}
	o.tornDown = true
	o.teardown = nil
	o.mu.Unlock()

	teardown()
}
