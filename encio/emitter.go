package encio

import (
	"io"
)

// NewEmitter returns an Emitter writing to w through a window of size bytes.
// A size of 0 uses DefaultBufferSize.
func NewEmitter(w io.Writer, size int) *Emitter {
	return &Emitter{
		w:    w,
		buff: GetBuffer(bufferSize(size)),
	}
}

// Emitter collects output in a fixed window, writing it to the underlying io.Writer only when the window fills or Flush is called.
type Emitter struct {
	w       io.Writer
	buff    []byte
	n       int
	flushed int64
	err     error
}

// Written returns the number of bytes given to the Emitter, flushed or not.
func (e *Emitter) Written() int64 {
	return e.flushed + int64(e.n)
}

// Write implements io.Writer.
func (e *Emitter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	total := 0
	for len(p) > 0 {
		if e.n == len(e.buff) {
			if err := e.Flush(); err != nil {
				return total, err
			}
		}
		c := copy(e.buff[e.n:], p)
		e.n += c
		total += c
		p = p[c:]
	}
	return total, nil
}

// WriteString writes s.
func (e *Emitter) WriteString(s string) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	total := 0
	for len(s) > 0 {
		if e.n == len(e.buff) {
			if err := e.Flush(); err != nil {
				return total, err
			}
		}
		c := copy(e.buff[e.n:], s)
		e.n += c
		total += c
		s = s[c:]
	}
	return total, nil
}

// WriteByte implements io.ByteWriter.
func (e *Emitter) WriteByte(c byte) error {
	if e.err != nil {
		return e.err
	}
	if e.n == len(e.buff) {
		if err := e.Flush(); err != nil {
			return err
		}
	}
	e.buff[e.n] = c
	e.n++
	return nil
}

// Reserve returns the next n bytes of the window for the caller to fill, flushing first if they do not fit.
// The bytes count as written.
func (e *Emitter) Reserve(n int) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if n > len(e.buff) {
		return nil, NewError(ErrTooLong, "reservation larger than the emitter's window", "")
	}
	if len(e.buff)-e.n < n {
		if err := e.Flush(); err != nil {
			return nil, err
		}
	}
	b := e.buff[e.n : e.n+n]
	e.n += n
	return b, nil
}

// Flush writes everything buffered to the underlying writer.
// Errors are sticky; once a flush fails, the Emitter refuses all further output.
func (e *Emitter) Flush() error {
	if e.err != nil {
		return e.err
	}
	if e.n == 0 {
		return nil
	}
	if err := Write(e.buff[:e.n], e.w); err != nil {
		e.err = err
		return err
	}
	e.flushed += int64(e.n)
	e.n = 0
	return nil
}

// Release returns the window to the buffer pool, discarding anything not flushed. The Emitter must not be used afterwards.
func (e *Emitter) Release() {
	if e.buff != nil {
		PutBuffer(e.buff)
		e.buff = nil
	}
	e.n = 0
	if e.err == nil {
		e.err = NewError(ErrBadState, "emitter released", "")
	}
}
