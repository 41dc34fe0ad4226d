package resumekit

import "fmt"

// Error returns an Iterator that never has a next element and reports err.
// It is used to represent construction failures with the Iterator interface,
// so they surface at the first Next call instead of a separate return value.
// Checkpoint and Resume report err as well.
func Error[T any](err error) Iterator[T] {
	return &errorIter[T]{cause: err}
}

// Errorf behaves exactly like fmt.Errorf but returns the error wrapped as iterator
func Errorf[T any](format string, a ...any) Iterator[T] {
	return Error[T](fmt.Errorf(format, a...))
}

type errorIter[T any] struct {
	cause error
}

func (i *errorIter[T]) Close() error {
	return nil
}

func (i *errorIter[T]) Next() bool {
	return false
}

func (i *errorIter[T]) Err() error {
	return i.cause
}

func (i *errorIter[T]) Value() T {
	var v T
	return v
}

func (i *errorIter[T]) Checkpoint() (State, error) {
	return State{}, i.cause
}

func (i *errorIter[T]) Resume(State) error {
	return i.cause
}
