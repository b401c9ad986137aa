// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errStop := errors.New("stop")

	// 1. error from 'next' cancels the subscription and is returned
	{
		var seen []int
		err := Observe(ctx, From([]int{1, 2, 3}),
			func(x int) error {
				seen = append(seen, x)
				if x == 2 {
					return errStop
				}
				return nil
			})
		require.ErrorIs(t, err, errStop, "case 1")
		assertSlice(t, "case 1", []int{1, 2}, seen)
	}

	// 2. stream error is returned
	{
		errBoom := errors.New("boom")
		err := Observe(ctx, Error[int](errBoom), func(int) error { return nil })
		require.ErrorIs(t, err, errBoom, "case 2")
	}

	// 3. cancelling the context unsubscribes from a stream that never ends
	{
		var src testSource[int]
		ctx3, cancel3 := context.WithCancel(ctx)
		errs := make(chan error, 1)
		go func() {
			errs <- Observe(ctx3, &src, func(int) error { return nil })
		}()

		require.Eventually(t,
			func() bool { return src.subscriptions() == 1 },
			time.Second, time.Millisecond, "case 3")
		cancel3()

		select {
		case err := <-errs:
			require.ErrorIs(t, err, context.Canceled, "case 3")
		case <-time.After(time.Second):
			t.Fatalf("case 3: Observe did not return after cancel")
		}
		require.Equal(t, 1, src.teardownCount(), "case 3")
	}

	// 4. asynchronous completion
	{
		var src testSource[int]
		errs := make(chan error, 1)
		items := make(chan int, 2)
		go func() {
			errs <- Observe(ctx, &src, func(x int) error {
				items <- x
				return nil
			})
		}()
		require.Eventually(t,
			func() bool { return src.subscriptions() == 1 },
			time.Second, time.Millisecond, "case 4")
		src.observer(0).Next(1)
		src.observer(0).Next(2)
		src.observer(0).Complete()

		assert.NoError(t, <-errs, "case 4")
		assert.Equal(t, 1, <-items)
		assert.Equal(t, 2, <-items)
		assert.Equal(t, 1, src.teardownCount(), "case 4")
	}

	// 5. cancelling the context from inside 'next' stops a synchronous source
	{
		ctx5, cancel5 := context.WithCancel(ctx)
		defer cancel5()
		var seen []int
		err := Observe(ctx5, From([]int{1, 2, 3, 4, 5}),
			func(x int) error {
				seen = append(seen, x)
				if x == 2 {
					cancel5()
				}
				return nil
			})
		require.ErrorIs(t, err, context.Canceled, "case 5")
		assertSlice(t, "case 5", []int{1, 2}, seen)
	}

	// 6. same through ToSlice: items after the cancellation are not collected
	{
		ctx6, cancel6 := context.WithCancel(ctx)
		defer cancel6()
		src := New(func(o *Observer[int]) Teardown {
			for i := 1; i <= 5 && !o.IsUnsubscribed(); i++ {
				if i == 3 {
					cancel6()
				}
				o.Next(i)
			}
			o.Complete()
			return nil
		})
		xs, err := ToSlice(ctx6, src)
		require.ErrorIs(t, err, context.Canceled, "case 6")
		assertSlice(t, "case 6", []int{1, 2}, xs)
	}
}

func TestFirstCancelsSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := 0
	teardowns := 0
	src := New(func(o *Observer[int]) Teardown {
		for i := 0; i < 100 && !o.IsUnsubscribed(); i++ {
			o.Next(i)
			delivered++
		}
		o.Complete()
		return func() { teardowns++ }
	})

	item, err := First(ctx, src)
	assertNil(t, "First", err)
	require.Zero(t, item)
	require.Equal(t, 1, delivered)
	require.Equal(t, 1, teardowns)
}
