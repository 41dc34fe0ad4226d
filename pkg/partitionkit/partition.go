package partitionkit

import (
	"go.llib.dev/frameless/port/option"

	"go.llib.dev/resumable/pkg/resumekit"
)

// Partition groups the elements of src into chunks of exactly n elements.
//
// When the number of elements is not a multiple of n,
// the trailing short chunk is dropped, unless Pad is given,
// in which case the chunk is filled up to n with the pad value.
//
// The pad value is part of the configuration, not of the progress:
// a checkpoint doesn't hold it, the resumed iterator pads with its own.
func Partition[T any](n int, src any, opts ...Option[T]) resumekit.Iterator[[]T] {
	c := option.ToConfig[config[T]](opts)
	return &partitionIter[T]{
		N:      n,
		Padded: c.Padded,
		Pad:    c.Pad,
		All:    PartitionAll[T](n, src),
	}
}

type Option[T any] option.Option[config[T]]

// Pad requests Partition to fill the trailing short chunk with v.
// Any value is accepted as padding, including the zero value and nil.
func Pad[T any](v T) Option[T] {
	return option.Func[config[T]](func(c *config[T]) {
		c.Pad = v
		c.Padded = true
	})
}

type config[T any] struct {
	Pad    T
	Padded bool
}

type partitionIter[T any] struct {
	N int `resume:"n"`
	// Padded tells if Pad should be used.
	// It is kept apart from Pad, so no pad value can be mistaken for "no padding".
	Padded bool `resume:"padded"`
	Pad    T
	All    resumekit.Iterator[[]T] `resume:"all"`
	Done   bool                    `resume:"done"`

	value []T
}

func (i *partitionIter[T]) Next() bool {
	if i.Done {
		return false
	}
	i.value = nil
	if !i.All.Next() {
		return false
	}
	chunk := i.All.Value()
	if len(chunk) < i.N {
		if !i.Padded {
			i.Done = true
			return false
		}
		for len(chunk) < i.N {
			chunk = append(chunk, i.Pad)
		}
	}
	i.value = chunk
	return true
}

func (i *partitionIter[T]) Value() []T {
	return i.value
}

func (i *partitionIter[T]) Err() error {
	return i.All.Err()
}

func (i *partitionIter[T]) Close() error {
	return i.All.Close()
}

func (i *partitionIter[T]) Checkpoint() (resumekit.State, error) {
	return resumekit.Capture(KindPartition, i)
}

// Resume fails with resumekit.ErrStateMismatch when the state was captured
// with a different chunk size or padding mode.
func (i *partitionIter[T]) Resume(st resumekit.State) error {
	n, padded := i.N, i.Padded
	if err := resumekit.Restore(KindPartition, i, st); err != nil {
		return err
	}
	if i.N != n || i.Padded != padded {
		err := resumekit.ErrStateMismatch.F("captured with n=%d padded=%t, resumed into n=%d padded=%t",
			i.N, i.Padded, n, padded)
		i.N, i.Padded = n, padded
		return err
	}
	i.value = nil
	return nil
}
