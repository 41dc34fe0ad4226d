package resumekit

// Slice iterates over the elements of vs.
// Its progress is the index of the next element,
// and resuming it onto a slice shorter than that index fails with ErrStateMismatch.
func Slice[T any](vs []T) Iterator[T] {
	return &sliceIter[T]{Slice: vs}
}

type sliceIter[T any] struct {
	Slice []T
	Index int `resume:"index"`

	closed bool
	value  T
}

func (i *sliceIter[T]) Close() error {
	i.closed = true
	return nil
}

func (i *sliceIter[T]) Err() error {
	return nil
}

func (i *sliceIter[T]) Next() bool {
	if i.closed {
		return false
	}
	if len(i.Slice) <= i.Index {
		return false
	}
	i.value = i.Slice[i.Index]
	i.Index++
	return true
}

func (i *sliceIter[T]) Value() T {
	return i.value
}

func (i *sliceIter[T]) Checkpoint() (State, error) {
	return Capture(KindSlice, i)
}

func (i *sliceIter[T]) Resume(st State) error {
	var probe sliceIter[T]
	if err := Restore(KindSlice, &probe, st); err != nil {
		return err
	}
	if probe.Index < 0 || len(i.Slice) < probe.Index {
		return ErrStateMismatch.F("index %d is out of range for a slice of %d elements", probe.Index, len(i.Slice))
	}
	i.Index = probe.Index
	return nil
}
