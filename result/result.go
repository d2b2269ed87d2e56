// Package result provides a value that holds either data or an error.
//
// Layers compose results with Map, MapErr and AndThen, so a lower layer's
// failure is mapped into the caller's error type instead of escaping as a
// panic or an unchecked return.
package result

// Result holds exactly one of a value or an error.
type Result[T any, E error] struct {
	data T
	err  E
	ok   bool
}

// Ok returns a successful result.
func Ok[T any, E error](v T) Result[T, E] {
	return Result[T, E]{data: v, ok: true}
}

// Fail returns a failed result.
func Fail[T any, E error](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// IsOk reports whether the result holds a value.
func (r Result[T, E]) IsOk() bool { return r.ok }

// Value returns the data. It is the zero value for a failed result.
func (r Result[T, E]) Value() T { return r.data }

// Err returns the error. It is the zero value for a successful result.
func (r Result[T, E]) Err() E { return r.err }

// Unwrap converts the result into Go's (value, error) pair. A successful
// result always yields a nil error interface.
func (r Result[T, E]) Unwrap() (T, error) {
	if r.ok {
		return r.data, nil
	}
	return r.data, r.err
}

// ValueOr returns the data, or fallback when the result failed.
func (r Result[T, E]) ValueOr(fallback T) T {
	if r.ok {
		return r.data
	}
	return fallback
}

// Try runs fn and maps its error through mapErr.
func Try[T any, E error](fn func() (T, error), mapErr func(error) E) Result[T, E] {
	v, err := fn()
	if err != nil {
		return Fail[T](mapErr(err))
	}
	return Ok[T, E](v)
}

// Map transforms the value of a successful result.
func Map[T, U any, E error](r Result[T, E], fn func(T) U) Result[U, E] {
	if !r.ok {
		return Fail[U](r.err)
	}
	return Ok[U, E](fn(r.data))
}

// MapErr transforms the error of a failed result.
func MapErr[T any, E, F error](r Result[T, E], fn func(E) F) Result[T, F] {
	if r.ok {
		return Ok[T, F](r.data)
	}
	return Fail[T](fn(r.err))
}

// AndThen chains a step that can itself fail.
func AndThen[T, U any, E error](r Result[T, E], fn func(T) Result[U, E]) Result[U, E] {
	if !r.ok {
		return Fail[U](r.err)
	}
	return fn(r.data)
}
