package encio

import (
	"errors"
	"fmt"
	"io"
)

// State is the position of a Tokenizer's cursor relative to its window and the text it holds.
type State uint8

const (
	// StateLineStart is at the first byte of a line.
	StateLineStart State = iota
	// StateSpace is between tokens, or between raw values.
	StateSpace
	// StateToken is inside a token whose end has not been seen yet.
	StateToken
	// StateRefill has consumed every loaded byte; the next request reads from the stream.
	StateRefill
	// StateExhausted has consumed every loaded byte, and the stream has ended.
	StateExhausted
)

var stateNames = [...]string{
	StateLineStart: "line start",
	StateSpace:     "space",
	StateToken:     "token",
	StateRefill:    "refill",
	StateExhausted: "exhausted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// NewTokenizer returns a Tokenizer reading from r through a window of size bytes.
// A size of 0 uses DefaultBufferSize.
func NewTokenizer(r io.Reader, size int) *Tokenizer {
	return &Tokenizer{
		r:    r,
		buff: GetBuffer(bufferSize(size)),
		line: 1,
	}
}

// Tokenizer reads tokens, lines and raw bytes from an io.Reader in bounded memory.
//
// Returned slices borrow the Tokenizer's window, and are only valid until the next call.
// A request only reads from the stream when it would cross the end of the loaded bytes,
// and a refill keeps any unconsumed bytes by moving them to the front of the window first.
// Once the stream yields nothing, the Tokenizer is exhausted and never reads from it again.
type Tokenizer struct {
	r    io.Reader
	buff []byte

	pos int // next unread byte; pos <= end
	end int // number of valid bytes in buff

	base int64 // stream offset of buff[0]
	line int

	eof   bool  // the stream has ended; no more refills
	rerr  error // error returned alongside data, reported on the next refill
	err   error // sticky stream error
	state State
}

// State returns the current state of the tokenizer.
func (t *Tokenizer) State() State {
	return t.state
}

// Offset returns the number of bytes consumed from the stream.
func (t *Tokenizer) Offset() int64 {
	return t.base + int64(t.pos)
}

// LineNumber returns the 1-based line the cursor is on.
func (t *Tokenizer) LineNumber() int {
	return t.line
}

// Buffered returns the number of loaded bytes not yet consumed.
func (t *Tokenizer) Buffered() int {
	return t.end - t.pos
}

// Release returns the window to the buffer pool. The Tokenizer must not be used afterwards.
func (t *Tokenizer) Release() {
	if t.buff != nil {
		PutBuffer(t.buff)
		t.buff = nil
	}
	t.pos, t.end = 0, 0
	t.eof = true
	t.state = StateExhausted
}

// Token returns the next run of non-whitespace bytes, skipping any whitespace, including line breaks, before it.
// It fails with ErrEndOfInput if the stream ends before a token starts,
// and ErrTooLong if the token does not fit in the window.
func (t *Tokenizer) Token() ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}

	for {
		if t.pos == t.end {
			more, err := t.refill(t.pos)
			if err != nil {
				return nil, err
			}
			if !more {
				return nil, NewError(ErrEndOfInput, fmt.Sprintf("at byte %v", t.Offset()), "")
			}
			continue
		}

		c := t.buff[t.pos]
		if !isSpace(c) {
			break
		}
		t.pos++
		if c == '\n' {
			t.line++
			t.state = StateLineStart
		} else {
			t.state = StateSpace
		}
	}

	t.state = StateToken
	start := t.pos
	for {
		if t.pos == t.end {
			more, err := t.refill(start)
			start = 0
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
			continue
		}
		if isSpace(t.buff[t.pos]) {
			break
		}
		t.pos++
	}

	t.settle(StateSpace)
	return t.buff[start:t.pos], nil
}

// Line returns the rest of the current line without its terminator, which may be "\n" or "\r\n",
// and moves the cursor to the start of the next line.
// A final line without a terminator is returned as is.
// It fails with ErrEndOfInput if nothing is left, and ErrTooLong if the line does not fit in the window.
func (t *Tokenizer) Line() ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}

	start := t.pos
	for {
		if t.pos == t.end {
			more, err := t.refill(start)
			start = 0
			if err != nil {
				return nil, err
			}
			if !more {
				if t.pos == start {
					return nil, NewError(ErrEndOfInput, fmt.Sprintf("at line %v", t.line), "")
				}
				return trimCR(t.buff[start:t.pos]), nil
			}
			continue
		}
		if t.buff[t.pos] == '\n' {
			line := t.buff[start:t.pos]
			t.pos++
			t.line++
			t.settle(StateLineStart)
			return trimCR(line), nil
		}
		t.pos++
	}
}

// Raw returns exactly n bytes.
// It fails with ErrEndOfInput if the stream has nothing left, and ErrTruncated if it ends part way through the n bytes.
func (t *Tokenizer) Raw(n int) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	if n > len(t.buff) {
		return nil, NewError(ErrTooLong, fmt.Sprintf("%v raw bytes requested from a %v byte window", n, len(t.buff)), "")
	}

	for t.end-t.pos < n {
		more, err := t.refill(t.pos)
		if err != nil {
			return nil, err
		}
		if !more {
			if t.end == t.pos {
				return nil, NewError(ErrEndOfInput, fmt.Sprintf("at byte %v", t.Offset()), "")
			}
			return nil, NewError(ErrTruncated, fmt.Sprintf("want %v bytes at byte %v but only %v remain", n, t.Offset(), t.end-t.pos), "")
		}
	}

	b := t.buff[t.pos : t.pos+n]
	t.pos += n
	t.settle(StateSpace)
	return b, nil
}

// settle sets the state after a successful request.
func (t *Tokenizer) settle(s State) {
	switch {
	case t.pos < t.end:
		t.state = s
	case t.eof:
		t.state = StateExhausted
	default:
		t.state = StateRefill
	}
}

// refill moves buff[keep:end] to the front of the window and reads once from the stream into the space after it.
// It returns false if the stream has ended.
func (t *Tokenizer) refill(keep int) (bool, error) {
	if keep > 0 {
		n := copy(t.buff, t.buff[keep:t.end])
		t.base += int64(keep)
		t.pos -= keep
		t.end = n
	}

	if t.eof {
		t.state = StateExhausted
		return false, nil
	}
	if t.end == len(t.buff) {
		return false, NewError(ErrTooLong, fmt.Sprintf("more than %v bytes without a delimiter at line %v", len(t.buff), t.line), "")
	}

	if t.rerr != nil {
		return t.endStream(t.rerr)
	}

	prev := t.state
	t.state = StateRefill
	n, err := t.r.Read(t.buff[t.end:])
	if n < 0 || n > len(t.buff)-t.end {
		t.err = NewIOError(
			errors.New("bad io.Reader implementation"),
			fmt.Sprintf("Read() reported %v bytes read, but was only given %v bytes", n, len(t.buff)-t.end),
		)
		return false, t.err
	}
	if n == 0 {
		t.state = prev
		return t.endStream(err)
	}

	t.end += n
	t.rerr = err
	t.state = prev
	return true, nil
}

// endStream handles a refill that produced no bytes.
// A zero-byte read is the end of the stream, whether or not the reader said so.
func (t *Tokenizer) endStream(err error) (bool, error) {
	t.rerr = nil
	if err != nil && !errors.Is(err, io.EOF) {
		t.err = NewIOError(err, fmt.Sprintf("reading at byte %v", t.base+int64(t.end)))
		return false, t.err
	}
	t.eof = true
	t.state = StateExhausted
	return false, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func trimCR(line []byte) []byte {
	if l := len(line); l > 0 && line[l-1] == '\r' {
		return line[:l-1]
	}
	return line
}
