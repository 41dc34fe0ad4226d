// Package resumekitcontract holds the behaviour every resumekit.Iterator is expected to have.
package resumekitcontract

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/resumable/pkg/resumekit"
)

// Iterator runs the resumability contract.
//
// mk must construct a new iterator over the same deterministic and non-empty source on every call,
// the way a process would reconstruct its iterator before resuming it from a stored State.
func Iterator[T any](tb testing.TB, mk func(testing.TB) resumekit.Iterator[T]) {
	s := testcase.NewSpec(tb)

	expected := testcase.Let(s, func(t *testcase.T) []T {
		vs, err := resumekit.Collect(mk(t))
		assert.Must(t).NoError(err)
		assert.Must(t).NotEmpty(vs, "the contract needs a non-empty source")
		return vs
	})
	position := testcase.Let(s, func(t *testcase.T) int {
		return t.Random.IntB(0, len(expected.Get(t)))
	})
	subject := testcase.Let(s, func(t *testcase.T) resumekit.Iterator[T] {
		itr := mk(t)
		t.Defer(itr.Close)
		return itr
	})
	advance := func(t *testcase.T, itr resumekit.Iterator[T], n int) {
		for k := 0; k < n; k++ {
			assert.Must(t).True(itr.Next(), "expected the iterator to have enough elements")
		}
	}

	s.Test("a fresh iterator resumed from a checkpoint yields the same remaining elements", func(t *testcase.T) {
		advance(t, subject.Get(t), position.Get(t))
		st, err := subject.Get(t).Checkpoint()
		assert.Must(t).NoError(err)

		fresh := mk(t)
		assert.Must(t).NoError(fresh.Resume(st))
		got, err := resumekit.Collect(fresh)
		assert.Must(t).NoError(err)
		assertSameElements(t, expected.Get(t)[position.Get(t):], got)
	})

	s.Test("checkpointing does not disturb the iteration", func(t *testcase.T) {
		advance(t, subject.Get(t), position.Get(t))
		_, err := subject.Get(t).Checkpoint()
		assert.Must(t).NoError(err)

		got, err := resumekit.Collect(subject.Get(t))
		assert.Must(t).NoError(err)
		assertSameElements(t, expected.Get(t)[position.Get(t):], got)
	})

	s.Test("the captured state is detached from the iterator", func(t *testcase.T) {
		advance(t, subject.Get(t), position.Get(t))
		st, err := subject.Get(t).Checkpoint()
		assert.Must(t).NoError(err)
		for subject.Get(t).Next() {
		}

		fresh := mk(t)
		assert.Must(t).NoError(fresh.Resume(st))
		got, err := resumekit.Collect(fresh)
		assert.Must(t).NoError(err)
		assertSameElements(t, expected.Get(t)[position.Get(t):], got)
	})

	s.Test("the state survives a JSON round trip", func(t *testcase.T) {
		advance(t, subject.Get(t), position.Get(t))
		st, err := subject.Get(t).Checkpoint()
		assert.Must(t).NoError(err)

		data, err := json.Marshal(st)
		assert.Must(t).NoError(err)
		var decoded resumekit.State
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		assert.Must(t).NoError(dec.Decode(&decoded))

		fresh := mk(t)
		assert.Must(t).NoError(fresh.Resume(decoded))
		got, err := resumekit.Collect(fresh)
		assert.Must(t).NoError(err)
		assertSameElements(t, expected.Get(t)[position.Get(t):], got)
	})

	s.Test("exhaustion is terminal and it is part of the captured state", func(t *testcase.T) {
		itr := subject.Get(t)
		for itr.Next() {
		}
		assert.Must(t).NoError(itr.Err())
		assert.Must(t).False(itr.Next())

		st, err := itr.Checkpoint()
		assert.Must(t).NoError(err)
		fresh := mk(t)
		assert.Must(t).NoError(fresh.Resume(st))
		assert.Must(t).False(fresh.Next())
		assert.Must(t).NoError(fresh.Err())
	})

	s.Test("a state with a foreign kind is rejected", func(t *testcase.T) {
		st, err := subject.Get(t).Checkpoint()
		assert.Must(t).NoError(err)
		st.Kind = st.Kind + "-" + t.Random.StringNC(5, "abcdef")
		assert.Must(t).ErrorIs(resumekit.ErrKindMismatch, mk(t).Resume(st))
	})
}

func assertSameElements[T any](tb testing.TB, expected, actual []T) {
	tb.Helper()
	if len(expected) == 0 {
		assert.Empty(tb, actual)
		return
	}
	assert.Equal(tb, expected, actual)
}
