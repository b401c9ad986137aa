// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"github.com/sirupsen/logrus"

	"github.com/joamaki/pushstream/logging"
	"github.com/joamaki/pushstream/logging/logfields"
)

//
// Sources, e.g. functions that create new observables.
//

type sourceOptions struct {
	log logrus.FieldLogger
}

// SourceOption configures a source created by From or FromChannel.
type SourceOption func(*sourceOptions)

// WithLogger sets the logger a source reports its teardown to. By default
// nothing is logged.
func WithLogger(log logrus.FieldLogger) SourceOption {
	return func(o *sourceOptions) {
		o.log = log
	}
}

func newSourceOptions(opts []SourceOption) sourceOptions {
	o := sourceOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Discard()
	}
	return o
}

// From creates an observable that emits the items of the slice in order and
// then completes. The slice is not copied; it must not be modified while
// a subscription is running.
func From[T any](items []T, opts ...SourceOption) Observable[T] {
	o := newSourceOptions(opts)
	return FuncObservable[T](
		func(observer *Observer[T]) Teardown {
			delivered := 0
			for _, item := range items {
				if observer.IsUnsubscribed() {
					break
				}
				observer.Next(item)
				delivered++
			}
			observer.Complete()

			return func() {
				o.log.
					WithField(logfields.Delivered, delivered).
					WithField(logfields.Total, len(items)).
					Debug("Unsubscribed")
			}
		})
}

// Just creates an observable with a single item.
func Just[T any](item T) Observable[T] {
	return FuncObservable[T](
		func(observer *Observer[T]) Teardown {
			observer.Next(item)
			observer.Complete()
			return nil
		})
}

// Empty creates an empty observable that completes immediately.
func Empty[T any]() Observable[T] {
	return FuncObservable[T](
		func(observer *Observer[T]) Teardown {
			observer.Complete()
			return nil
		})
}

// Error creates an observable that fails immediately with given error.
func Error[T any](err error) Observable[T] {
	return FuncObservable[T](
		func(observer *Observer[T]) Teardown {
			observer.Error(err)
			return nil
		})
}

// FromChannel creates an observable from a channel. Items are forwarded
// from a goroutine and the stream completes when the channel is closed.
// The channel is shared by all subscribers, so each item goes to only one
// of them.
func FromChannel[T any](in <-chan T, opts ...SourceOption) Observable[T] {
	o := newSourceOptions(opts)
	return FuncObservable[T](
		func(observer *Observer[T]) Teardown {
			stop := make(chan struct{})
			go func() {
				for {
					select {
					case <-stop:
						return
					case item, ok := <-in:
						if !ok {
							observer.Complete()
							return
						}
						observer.Next(item)
					}
				}
			}()

			// The teardown may run on the forwarding goroutine itself (from
			// Complete or from a handler), so it must not wait for it to exit.
			return func() {
				close(stop)
				o.log.Debug("Unsubscribed from channel")
			}
		})
}
