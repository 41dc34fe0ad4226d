package resumekit

import (
	"bufio"
	"io"
	"strings"
)

// Lines iterates over the newline separated lines of rs, without the line terminators.
// Its progress is the byte offset of the next line, and resuming seeks rs to that offset.
// When rs is also an io.Closer, Close closes it.
func Lines(rs io.ReadSeeker) Iterator[string] {
	return &linesIter{Input: rs}
}

type linesIter struct {
	Input  io.ReadSeeker
	Offset int64 `resume:"offset"`
	Done   bool  `resume:"done"`

	reader *bufio.Reader
	value  string
	err    error
	closed bool
}

func (i *linesIter) Next() bool {
	if i.closed || i.Done || i.err != nil {
		return false
	}
	if i.reader == nil {
		if _, err := i.Input.Seek(i.Offset, io.SeekStart); err != nil {
			i.err = err
			return false
		}
		i.reader = bufio.NewReader(i.Input)
	}
	line, err := i.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		i.err = err
		return false
	}
	if len(line) == 0 {
		i.Done = true
		return false
	}
	i.Offset += int64(len(line))
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	i.value = line
	return true
}

func (i *linesIter) Value() string {
	return i.value
}

func (i *linesIter) Err() error {
	return i.err
}

func (i *linesIter) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	if c, ok := i.Input.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (i *linesIter) Checkpoint() (State, error) {
	return Capture(KindLines, i)
}

func (i *linesIter) Resume(st State) error {
	if err := Restore(KindLines, i, st); err != nil {
		return err
	}
	i.reader = nil
	i.err = nil
	return nil
}
