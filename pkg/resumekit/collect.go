package resumekit

import (
	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/iterkit"
)

// Collect drains the iterator and closes it.
func Collect[T any](itr Iterator[T]) (vs []T, rErr error) {
	if itr == nil {
		return nil, nil
	}
	defer errorkit.Finish(&rErr, itr.Close)
	for itr.Next() {
		vs = append(vs, itr.Value())
	}
	return vs, itr.Err()
}

// Take pulls up to n elements from the iterator, and leaves it open,
// so it can be checkpointed afterwards.
func Take[T any](itr Iterator[T], n int) ([]T, error) {
	var vs []T
	for len(vs) < n && itr.Next() {
		vs = append(vs, itr.Value())
	}
	return vs, itr.Err()
}

// ToErrSeq exposes the iterator as an iterkit.ErrSeq for range-over-func loops.
// The iterator is not closed when the loop ends, breaking out of the loop
// leaves it in a state where it can still be checkpointed or continued.
func ToErrSeq[T any](itr Iterator[T]) iterkit.ErrSeq[T] {
	return func(yield func(T, error) bool) {
		for itr.Next() {
			if !yield(itr.Value(), nil) {
				return
			}
		}
		if err := itr.Err(); err != nil {
			var zero T
			yield(zero, err)
		}
	}
}
