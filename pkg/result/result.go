// Package result provides a two-variant container for the outcome of an
// operation that can fail, plus combinators that run fallible or panicking
// operations and capture their faults as data instead of letting them escape.
//
// A Result is either a Success carrying a value or a Failure carrying a
// non-nil error, never both. Results are immutable value types: combinators
// return a Result (the receiver itself when nothing changed) and never mutate
// state. Panics inside RunCatching and RunAsyncCatching callbacks are
// normalized through pkg/fault into Failures; the only accessor that raises
// is MustGet on a Failure.
package result

import "context"

// Result holds the outcome of an operation: a value when it succeeded, a
// non-nil error when it failed. The variant is derived from the error, so a
// Result is a Success exactly when its error is nil and no reachable state
// can be both or neither. The zero value is a Success carrying T's zero
// value.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a Result carrying value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure returns a Result carrying err. A Failure without an error would
// break the exclusivity every accessor derives from, so a nil err panics.
func Failure[T any](err error) Result[T] {
	if err == nil {
		panic("result: Failure called with nil error")
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether r carries a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether r carries an error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Get unpacks r into the usual Go pair: (value, nil) on Success and
// (zero, err) on Failure.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// Err returns the held error, or nil for a Success.
func (r Result[T]) Err() error {
	return r.err
}

// MustGet returns the value of a Success. On a Failure it panics with the
// held error itself, not a copy or a wrapper.
func (r Result[T]) MustGet() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// GetOrDefault returns the value of a Success, or def for a Failure.
func (r Result[T]) GetOrDefault(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// GetOrElse returns the value of a Success. For a Failure it returns fn
// applied to the held error; fn runs only in that case.
func (r Result[T]) GetOrElse(fn func(error) T) T {
	if r.err != nil {
		return fn(r.err)
	}
	return r.value
}

// OnSuccess calls fn with the value when r is a Success and returns r
// unchanged. A nil fn is ignored.
func (r Result[T]) OnSuccess(fn func(T)) Result[T] {
	if r.err == nil && fn != nil {
		fn(r.value)
	}
	return r
}

// OnFailure calls fn with the error when r is a Failure and returns r
// unchanged. A nil fn is ignored.
func (r Result[T]) OnFailure(fn func(error)) Result[T] {
	if r.err != nil && fn != nil {
		fn(r.err)
	}
	return r
}

// Recover returns r untouched when it is a Success. For a Failure it runs fn
// with the held error under the RunCatching capture rules, so an error or a
// panic inside fn becomes the new Failure rather than a raised fault.
func (r Result[T]) Recover(fn func(error) (T, error)) Result[T] {
	if r.err == nil {
		return r
	}
	return RunCatching(func() (T, error) {
		return fn(r.err)
	})
}

// RecoverResult is the flattening form of Recover: fn already produces a
// Result, which is passed through unchanged instead of being re-wrapped.
func (r Result[T]) RecoverResult(fn func(error) Result[T]) Result[T] {
	if r.err == nil {
		return r
	}
	return RunCatchingResult(func() Result[T] {
		return fn(r.err)
	})
}

// RecoverAsync returns an already-resolved Future carrying r when it is a
// Success. For a Failure it runs fn with the held error under the
// RunAsyncCatching capture rules.
func (r Result[T]) RecoverAsync(ctx context.Context, fn func(context.Context, error) (T, error)) *Future[T] {
	if r.err == nil {
		return resolvedFuture(r)
	}
	return RunAsyncCatching(ctx, func(ctx context.Context) (T, error) {
		return fn(ctx, r.err)
	})
}
