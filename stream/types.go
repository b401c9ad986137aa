// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

// Handlers is the set of callbacks a subscriber registers with Subscribe.
// Every callback is optional. A missing callback turns the corresponding
// event into a no-op for this subscriber.
type Handlers[T any] struct {
	// Start is called with the subscription handle before the producer
	// runs. It allows cancelling from inside Next while a synchronous
	// producer is still delivering.
	Start func(*Subscription)

	// Next is called for each item.
	Next func(T)

	// Error is called at most once with the error that terminated the stream.
	Error func(error)

	// Complete is called at most once when the stream ends without an error.
	Complete func()
}

// Teardown releases the resources held by a running producer, e.g. stops
// a goroutine or cancels an outstanding request. The observer invokes it
// exactly once, on whichever terminal path is taken first. A nil Teardown
// is allowed and means there is nothing to release.
type Teardown func()

// Producer is the body of an observable. It is handed the observer of a
// single subscription and returns the teardown for that subscription.
type Producer[T any] func(*Observer[T]) Teardown
