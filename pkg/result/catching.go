package result

import "github.com/dentsusoken/oid4vc-core/pkg/fault"

// RunCatching runs fn and captures its outcome as a Result: the returned
// value as a Success, a non-nil error as a Failure, and a panic as a Failure
// holding the panic value normalized through fault.From. A panic with an
// error keeps that exact error; anything else becomes a *fault.Error. The one
// fault that still escapes is the *fault.SerializationError raised while
// normalizing an unserializable panic value, since it occurs during
// normalization rather than inside fn.
func RunCatching[T any](fn func() (T, error)) (res Result[T]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			res = Failure[T](fault.From(recovered))
		}
	}()
	value, err := fn()
	if err != nil {
		return Failure[T](err)
	}
	return Success(value)
}

// RunCatchingResult is the flattening form of RunCatching for callbacks that
// already produce a Result: the returned Result is passed through unchanged,
// never nested, and panics are captured exactly as in RunCatching.
func RunCatchingResult[T any](fn func() Result[T]) (res Result[T]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			res = Failure[T](fault.From(recovered))
		}
	}()
	return fn()
}
