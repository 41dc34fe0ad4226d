// Package resumekit provides pull iterators whose progress can be captured and restored.
//
// # Summary
//
// A language level iterator, such as an iter.Seq, keeps its progress in a suspended call stack,
// which can't be stored outside the running process.
// The iterators of resumekit keep their progress in plain struct fields instead,
// so at any point between two Next calls, the progress can be captured into a State,
// and later a freshly constructed iterator over the same source can continue from that point.
//
// An iterator becomes resumable by tagging the fields that make up its progress with `resume:"name"`,
// and delegating its Checkpoint and Resume methods to Capture and Restore.
// Tagged fields which are Resumable themselves, like a wrapped source iterator, are captured as child states.
//
// # Ownership
//
// An Iterator has a single owner.
// Pulling values from it while another component also pulls from it,
// or calling Checkpoint while Next is in progress, is not supported.
package resumekit

import (
	"io"

	"go.llib.dev/frameless/pkg/errorkit"
)

// Iterator is a pull iterator in the shape of iterkit.PullIter that can also be checkpointed.
type Iterator[T any] interface {
	// Next will ensure that Value returns the next item when executed.
	// If the next value is not retrievable, Next should return false and ensure Err() will return the error cause.
	// Next returning false with a nil Err means the iterator is exhausted, which is permanent.
	Next() bool
	// Value returns the current value in the iterator.
	// The action should be repeatable without side effects.
	Value() T
	// Err return the error cause.
	Err() error
	// Closer releases the resources held by the iterator and its source.
	io.Closer

	Resumable
}

// Resumable is implemented by everything whose progress can be captured and restored.
type Resumable interface {
	// Checkpoint captures the current progress.
	// It must be called between Next calls, never concurrently with one.
	Checkpoint() (State, error)
	// Resume restores a progress previously captured with Checkpoint.
	// The receiver is expected to be constructed over the same source as the captured one.
	// After a failed Resume the receiver should not be used.
	Resume(State) error
}

const (
	ErrKindMismatch      errorkit.Error = "resumekit: state kind mismatch"
	ErrStateMismatch     errorkit.Error = "resumekit: state does not match the iterator"
	ErrNotCapturable     errorkit.Error = "resumekit: value is not capturable"
	ErrUnsupportedSource errorkit.Error = "resumekit: unsupported source"
	ErrInvalidArgument   errorkit.Error = "resumekit: invalid argument"
)

const (
	KindSlice = "slice"
	KindSeq   = "seq"
	KindLines = "lines"
	KindRange = "range"
)
