// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"sync"
)

//
// Sinks: functions that run an observable to completion and send the output somewhere.
//

// ErrEmpty is returned by First when the stream completes without items.
var ErrEmpty = errors.New("stream completed without items")

var errFirstFound = errors.New("first item found")

// Observe subscribes to 'src' and blocks until the stream terminates.
// 'next' is called on each item. If it returns an error the subscription is
// cancelled and that error is returned. When 'ctx' is cancelled the
// subscription is cancelled and ctx.Err() is returned. If the stream fails,
// its error is returned, and nil if it completes.
//
// 'next' is called from the goroutine that delivers the items, which for
// synchronous sources is the caller of Observe. It is not called again
// after it has returned an error, but an asynchronous source may still be
// inside a call to 'next' when Observe returns due to 'ctx' being cancelled.
func Observe[T any](ctx context.Context, src Observable[T], next func(T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		stopped bool
		result  error
		done    = make(chan struct{})
	)

	// finish records the first outcome and wakes up Observe.
	finish := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		stopped = true
		result = err
		close(done)
	}

	var sub *Subscription
	handle := src.Subscribe(Handlers[T]{
		Start: func(s *Subscription) { sub = s },
		Next: func(item T) {
			mu.Lock()
			s := stopped
			mu.Unlock()
			if s {
				return
			}
			// A synchronous source delivers on this goroutine, so the
			// select below cannot see the cancellation yet.
			if err := ctx.Err(); err != nil {
				finish(err)
				sub.Unsubscribe()
				return
			}
			if err := next(item); err != nil {
				finish(err)
				sub.Unsubscribe()
			}
		},
		Error:    finish,
		Complete: func() { finish(nil) },
	})

	if sub == nil {
		sub = handle
	}

	select {
	case <-done:
	case <-ctx.Done():
		finish(ctx.Err())
	}
	sub.Unsubscribe()

	mu.Lock()
	defer mu.Unlock()
	return result
}

// Discard discards all items from 'src' and returns an error if any.
func Discard[T any](ctx context.Context, src Observable[T]) error {
	return Observe(ctx, src, func(item T) error { return nil })
}

// First returns the first item from 'src' observable and then cancels it.
// ErrEmpty is returned if the stream completes without items.
func First[T any](ctx context.Context, src Observable[T]) (item T, err error) {
	var (
		mu    sync.Mutex
		first T
	)
	err = Observe(ctx, src,
		func(x T) error {
			mu.Lock()
			first = x
			mu.Unlock()
			return errFirstFound
		})
	switch {
	case errors.Is(err, errFirstFound):
		mu.Lock()
		defer mu.Unlock()
		return first, nil
	case err == nil:
		err = ErrEmpty
	}
	return
}

// ToSlice converts an Observable into a slice.
func ToSlice[T any](ctx context.Context, src Observable[T]) ([]T, error) {
	var mu sync.Mutex
	items := make([]T, 0)
	err := Observe(
		ctx,
		src,
		func(item T) error {
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
			return nil
		})
	mu.Lock()
	defer mu.Unlock()
	return items, err
}

// ToChannels converts an observable into an item channel and error channel.
// When the source closes both channels are closed and an error (which may be nil)
// is always sent to the error channel.
func ToChannels[T any](ctx context.Context, src Observable[T]) (<-chan T, <-chan error) {
	out := make(chan T, 1)
	errs := make(chan error, 1)
	go func() {
		var (
			mu     sync.Mutex
			closed bool
		)
		err := Observe(
			ctx,
			src,
			func(item T) error {
				mu.Lock()
				defer mu.Unlock()
				if closed {
					return ctx.Err()
				}
				select {
				case out <- item:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})

		// An asynchronous source may still be calling 'next' after a
		// cancellation, so close 'out' under the lock.
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()

		errs <- err
		close(errs)
	}()
	return out, errs
}
