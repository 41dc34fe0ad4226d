package resumekit

import (
	"io"
	"iter"
	"strings"

	"go.llib.dev/frameless/pkg/reflectkit"
)

// ToIterator normalises src into a resumable Iterator[T].
//
// Supported sources:
//   - Iterator[T], returned as is, so wrapping twice is harmless
//   - []T, see Slice
//   - iter.Seq[T] or a plain func(yield func(T) bool), see Seq
//   - io.ReadSeeker or string when T is string, see Lines
//   - string when T is rune, iterated character by character
//
// Anything else results in an Iterator that fails with ErrUnsupportedSource.
func ToIterator[T any](src any) Iterator[T] {
	switch src := src.(type) {
	case Iterator[T]:
		return src
	case []T:
		return Slice(src)
	case iter.Seq[T]:
		return Seq(src)
	case func(yield func(T) bool):
		return Seq(iter.Seq[T](src))
	case io.ReadSeeker:
		if itr, ok := any(Lines(src)).(Iterator[T]); ok {
			return itr
		}
	case string:
		if itr, ok := any(Lines(strings.NewReader(src))).(Iterator[T]); ok {
			return itr
		}
		if itr, ok := any(Slice([]rune(src))).(Iterator[T]); ok {
			return itr
		}
	}
	return Error[T](ErrUnsupportedSource.F("%T can't be iterated as %s", src, reflectkit.TypeOf[T]().String()))
}
