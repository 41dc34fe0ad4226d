package resumekit

// Range yields the integers from begin towards end, exclusive, advancing by step.
// A negative step counts downwards. A zero step is rejected with ErrInvalidArgument.
func Range(begin, end, step int) Iterator[int] {
	if step == 0 {
		return Error[int](ErrInvalidArgument.F("range step must not be zero"))
	}
	return &rangeIter{End: end, Step: step, Current: begin}
}

type rangeIter struct {
	End     int
	Step    int
	Current int `resume:"current"`

	value  int
	closed bool
}

func (i *rangeIter) Next() bool {
	if i.closed {
		return false
	}
	if 0 < i.Step && i.End <= i.Current {
		return false
	}
	if i.Step < 0 && i.Current <= i.End {
		return false
	}
	i.value = i.Current
	if i.remaining() <= i.stride() {
		// the next step would reach or pass End, possibly overflowing on the way
		i.Current = i.End
		return true
	}
	i.Current += i.Step
	return true
}

// remaining is the distance from Current to End.
// The unsigned conversion keeps it exact even when the signed difference overflows.
func (i *rangeIter) remaining() uint {
	if 0 < i.Step {
		return uint(i.End - i.Current)
	}
	return uint(i.Current - i.End)
}

func (i *rangeIter) stride() uint {
	if 0 < i.Step {
		return uint(i.Step)
	}
	return uint(-i.Step)
}

func (i *rangeIter) Value() int { return i.value }
func (i *rangeIter) Err() error { return nil }

func (i *rangeIter) Close() error {
	i.closed = true
	return nil
}

func (i *rangeIter) Checkpoint() (State, error) {
	return Capture(KindRange, i)
}

func (i *rangeIter) Resume(st State) error {
	return Restore(KindRange, i, st)
}
