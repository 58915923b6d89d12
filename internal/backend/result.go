package backend

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable marks a backend that failed to load or was never configured.
// It is permanent for the life of the process.
var ErrUnavailable = errors.New("backend unavailable")

// InvocationError is a failure scoped to a single backend call.
type InvocationError struct {
	Backend string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s invocation failed: %v", e.Backend, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one backend call: a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

func Failed[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("unknown backend failure")
	}
	return Result[T]{err: err}
}

func (r Result[T]) IsOk() bool {
	return r.err == nil
}

func (r Result[T]) Err() error {
	return r.err
}

func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Fold resolves a Result by calling exactly one of ok or failed.
func Fold[T, R any](r Result[T], ok func(T) R, failed func(error) R) R {
	if r.err != nil {
		return failed(r.err)
	}
	return ok(r.value)
}

// Invoke runs fn under timeout and reports its outcome as a Result. Errors,
// timeouts and panics all come back as an *InvocationError.
func Invoke[T any](ctx context.Context, name string, timeout time.Duration, fn func(context.Context) (T, error)) Result[T] {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// buffered so a call that outlives its deadline can still finish and exit
	done := make(chan Result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Failed[T](&InvocationError{Backend: name, Err: fmt.Errorf("panic: %v", r)})
			}
		}()

		v, err := fn(ctx)
		if err == nil && ctx.Err() != nil {
			err = ctx.Err()
		}
		if err != nil {
			done <- Failed[T](&InvocationError{Backend: name, Err: err})
			return
		}
		done <- Ok(v)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return Failed[T](&InvocationError{Backend: name, Err: ctx.Err()})
	}
}
