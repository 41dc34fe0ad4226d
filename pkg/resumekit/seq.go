package resumekit

import "iter"

// Seq turns an iter.Seq into a resumable Iterator.
//
// The progress of a Seq iterator is the number of elements it has already yielded.
// Resuming replays the sequence from its start and skips that many elements,
// which is only correct when seq yields the same elements each time it is iterated.
// If the replayed sequence ends before reaching the captured position,
// the iterator fails with ErrStateMismatch.
//
// The sequence is consumed through iter.Pull, so Close must be called
// when the iterator is abandoned before exhaustion.
func Seq[T any](seq iter.Seq[T]) Iterator[T] {
	return &seqIter[T]{Seq: seq}
}

type seqIter[T any] struct {
	Seq    iter.Seq[T]
	Offset int  `resume:"offset"`
	Done   bool `resume:"done"`

	next   func() (T, bool)
	stop   func()
	value  T
	err    error
	closed bool
}

func (i *seqIter[T]) Next() bool {
	if i.closed || i.Done || i.err != nil {
		return false
	}
	if i.next == nil {
		i.next, i.stop = iter.Pull(i.Seq)
		for replayed := 0; replayed < i.Offset; replayed++ {
			if _, ok := i.next(); !ok {
				i.err = ErrStateMismatch.F("sequence ended after %d of the %d replayed elements", replayed, i.Offset)
				i.release()
				return false
			}
		}
	}
	v, ok := i.next()
	if !ok {
		i.Done = true
		i.release()
		return false
	}
	i.value = v
	i.Offset++
	return true
}

func (i *seqIter[T]) Value() T {
	return i.value
}

func (i *seqIter[T]) Err() error {
	return i.err
}

func (i *seqIter[T]) Close() error {
	i.closed = true
	i.release()
	return nil
}

func (i *seqIter[T]) Checkpoint() (State, error) {
	return Capture(KindSeq, i)
}

func (i *seqIter[T]) Resume(st State) error {
	if err := Restore(KindSeq, i, st); err != nil {
		return err
	}
	// the pull position no longer matches the Offset
	i.release()
	i.err = nil
	return nil
}

func (i *seqIter[T]) release() {
	if i.stop != nil {
		i.stop()
	}
	i.next, i.stop = nil, nil
}
