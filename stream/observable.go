// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

type Observable[T any] interface {
	// Subscribe starts a new, independent run of the stream and pushes its
	// items to 'handlers'.
	//
	// Implementations of Subscribe() must maintain the following invariants:
	// - 'Start' is called with the returned subscription before anything is
	//   produced.
	// - Nothing is produced before Subscribe() is called and every call gets
	//   its own producer run. No state is shared between subscriptions.
	// - Items are delivered with 'Next' in order, followed by at most one of
	//   'Error' or 'Complete'. Nothing is delivered after that.
	// - The teardown of the run is invoked exactly once, when the stream
	//   terminates or is unsubscribed, whichever happens first.
	//
	// A synchronous producer has delivered everything by the time Subscribe()
	// returns. Unsubscribing is cooperative: a producer that is in the middle
	// of delivering is not interrupted, its remaining items are dropped.
	Subscribe(handlers Handlers[T]) *Subscription
}

// FuncObservable wraps a producer function into an Observable. Convenience
// when declaring a struct to implement Subscribe() is overkill.
type FuncObservable[T any] func(*Observer[T]) Teardown

// New creates an observable from a producer. The producer is not run
// until the observable is subscribed to.
func New[T any](produce Producer[T]) Observable[T] {
	return FuncObservable[T](produce)
}

func (f FuncObservable[T]) Subscribe(handlers Handlers[T]) *Subscription {
	observer := newObserver(handlers)
	sub := &Subscription{observer: observer}
	if handlers.Start != nil {
		handlers.Start(sub)
	}
	if observer.IsUnsubscribed() {
		// Cancelled from Start, the producer is never run.
		return sub
	}
	observer.attach(f(observer))
	return sub
}

// canceller is the part of Observer[T] that does not depend on T.
type canceller interface {
	Unsubscribe()
	IsUnsubscribed() bool
}

// Subscription is the handle returned by Subscribe for cancelling a
// running stream.
type Subscription struct {
	observer canceller
}

// Unsubscribe stops delivery to the subscriber and releases the producer's
// resources. Calling it again, or after the stream has terminated, is a no-op.
func (s *Subscription) Unsubscribe() {
	s.observer.Unsubscribe()
}

// Closed returns true once the subscription has terminated, either by
// an error, completion or Unsubscribe.
func (s *Subscription) Closed() bool {
	return s.observer.IsUnsubscribed()
}
