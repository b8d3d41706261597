package exbuild

// Result is the outcome of a public operation that can fail.
type Result[T any] struct {
	Success bool
	Data    T
	Error   *Error
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps an error.
func Fail[T any](err *Error) Result[T] {
	return Result[T]{Error: err}
}

// Unwrap converts the result to Go's (value, error) form.
func (r Result[T]) Unwrap() (T, error) {
	if !r.Success {
		var zero T
		if r.Error == nil {
			return zero, Errorf(KindBuild, "operation failed")
		}
		return zero, r.Error
	}
	return r.Data, nil
}
