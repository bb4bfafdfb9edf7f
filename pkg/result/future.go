package result

import (
	"context"
	"sync/atomic"
)

// Future is the pending Result of an asynchronous operation. It resolves
// exactly once and can be awaited by any number of goroutines, all of which
// observe the same Result. Futures are created by RunAsyncCatching and
// RecoverAsync; consumers only read them.
type Future[T any] struct {
	resolved atomic.Bool
	done     chan struct{}
	res      Result[T]

	// raised carries a fault that must surface in the waiter's frame
	// instead of resolving the Future. Only normalization faults
	// (*fault.SerializationError) ever land here.
	raised any
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func resolvedFuture[T any](res Result[T]) *Future[T] {
	f := newFuture[T]()
	f.resolve(res)
	return f
}

// resolve stores res and wakes all waiters. The first resolution wins and
// later calls are ignored.
func (f *Future[T]) resolve(res Result[T]) {
	if f.resolved.CompareAndSwap(false, true) {
		f.res = res
		close(f.done)
	}
}

// raise completes the Future with a fault that Await will re-raise.
func (f *Future[T]) raise(v any) {
	if f.resolved.CompareAndSwap(false, true) {
		f.raised = v
		close(f.done)
	}
}

// Await blocks until the Future resolves or ctx is done. Cancellation is
// reported as a Failure carrying ctx.Err(); the underlying operation is not
// interrupted and the Future may still resolve for other waiters. When the
// operation's panic value could not be normalized, Await panics with the
// recorded *fault.SerializationError in the caller's frame.
func (f *Future[T]) Await(ctx context.Context) Result[T] {
	select {
	case <-f.done:
		if f.raised != nil {
			panic(f.raised)
		}
		return f.res
	case <-ctx.Done():
		return Failure[T](ctx.Err())
	}
}

// Done returns a channel that is closed once the Future has resolved, for
// composing with select. Read the Result with Await afterwards.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// RunAsyncCatching runs fn in a new goroutine under the RunCatching capture
// rules and returns a Future resolving to its outcome. ctx is handed to fn
// for its own cancellation handling; waiters additionally observe
// cancellation through Await.
func RunAsyncCatching[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	go f.run(func() Result[T] {
		return RunCatching(func() (T, error) {
			return fn(ctx)
		})
	})
	return f
}

// RunAsyncCatchingResult is the flattening form of RunAsyncCatching for
// callbacks that already produce a Result.
func RunAsyncCatchingResult[T any](ctx context.Context, fn func(context.Context) Result[T]) *Future[T] {
	f := newFuture[T]()
	go f.run(func() Result[T] {
		return RunCatchingResult(func() Result[T] {
			return fn(ctx)
		})
	})
	return f
}

// run resolves f with run's outcome. A fault escaping the capture rules
// (normalization failure on the panic value) would otherwise kill this
// goroutine; it is recorded on the Future and re-raised at Await.
func (f *Future[T]) run(run func() Result[T]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			f.raise(recovered)
		}
	}()
	f.resolve(run())
}
