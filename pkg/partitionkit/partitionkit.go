// Package partitionkit groups the elements of a sequence into fixed size chunks
// with resumable iterators.
//
// Both PartitionAll and Partition accept any source resumekit.ToIterator understands,
// and both are resumekit.Iterator-s themselves,
// so a partially consumed partitioning can be checkpointed and continued later.
package partitionkit

import (
	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/resumable/pkg/resumekit"
)

const ErrInvalidSize errorkit.Error = "partitionkit: chunk size must be a positive integer"

const (
	KindPartitionAll = "partition_all"
	KindPartition    = "partition"
)

// PartitionAll groups the elements of src into consecutive chunks of n elements.
// The last chunk holds the remaining elements, which may be less than n.
// Every chunk is a newly allocated slice, which the caller is free to keep.
//
// A non-positive n results in an iterator that fails with ErrInvalidSize.
func PartitionAll[T any](n int, src any) resumekit.Iterator[[]T] {
	if n <= 0 {
		return resumekit.Error[[]T](ErrInvalidSize.F("got %d", n))
	}
	return &partitionAllIter[T]{
		N:      n,
		Source: resumekit.ToIterator[T](src),
	}
}

type partitionAllIter[T any] struct {
	N      int                   `resume:"n"`
	Source resumekit.Iterator[T] `resume:"source"`
	Done   bool                  `resume:"done"`

	value []T
	err   error
}

func (i *partitionAllIter[T]) Next() bool {
	if i.Done || i.err != nil {
		return false
	}
	i.value = nil
	chunk := make([]T, 0, i.N)
	for len(chunk) < i.N && i.Source.Next() {
		chunk = append(chunk, i.Source.Value())
	}
	if err := i.Source.Err(); err != nil {
		i.err = err
		return false
	}
	if len(chunk) == 0 {
		i.Done = true
		return false
	}
	i.value = chunk
	return true
}

func (i *partitionAllIter[T]) Value() []T {
	return i.value
}

func (i *partitionAllIter[T]) Err() error {
	return i.err
}

func (i *partitionAllIter[T]) Close() error {
	return i.Source.Close()
}

func (i *partitionAllIter[T]) Checkpoint() (resumekit.State, error) {
	if i.err != nil {
		return resumekit.State{}, i.err
	}
	return resumekit.Capture(KindPartitionAll, i)
}

// Resume fails with resumekit.ErrStateMismatch when the state was captured with a different chunk size.
func (i *partitionAllIter[T]) Resume(st resumekit.State) error {
	n := i.N
	if err := resumekit.Restore(KindPartitionAll, i, st); err != nil {
		return err
	}
	if i.N != n {
		err := resumekit.ErrStateMismatch.F("captured with n=%d, resumed into n=%d", i.N, n)
		i.N = n
		return err
	}
	i.value, i.err = nil, nil
	return nil
}
