package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Future is the result of a call running on its own goroutine.
type Future[T any] struct {
	done   chan struct{}
	val    T
	err    error
	cancel context.CancelFunc
}

// Go runs fn in a new goroutine and returns a Future for its result.
// Cancelling the Future cancels the context passed to fn.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer close(f.done)
		defer cancel()
		f.val, f.err = fn(ctx)
	}()

	return f
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call finishes or ctx is done.
// Returning early on ctx does not cancel the call; use Cancel for that.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel abandons the call. Wait then returns once fn observes the cancellation.
func (f *Future[T]) Cancel() {
	f.cancel()
}

// WaitAll waits for every future and returns their values in order.
// The first error cancels the remaining futures and is returned.
func WaitAll[T any](ctx context.Context, futures ...*Future[T]) ([]T, error) {
	out := make([]T, len(futures))
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range futures {
		g.Go(func() error {
			v, err := f.Wait(gctx)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, f := range futures {
			f.Cancel()
		}
		return nil, err
	}
	return out, nil
}
