// Package encio provides the buffered io that PLY sessions run on, as well as error types.
//
// Tokenizer reads whitespace-delimited tokens, whole lines and raw byte runs through a fixed window over an io.Reader.
// Emitter is its write-side counterpart, collecting output in a fixed window and flushing it to an io.Writer when full.
package encio

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBufferSize is the window size used by Tokenizers and Emitters when none is given.
const DefaultBufferSize = 8192

// MinBufferSize is the smallest window a Tokenizer or Emitter will use.
// It must hold the longest raw value, and should hold any sensible header line.
const MinBufferSize = 64

// Write writes to w from buff, handling errors of io.Writer with as little overhead as possible.
// In an ideal write, only a single int equality check is performed. It returns any error from Write().
func Write(buff []byte, w io.Writer) error {
	n, err := w.Write(buff)
	if n == len(buff) {
		return err
	}

	end := n
	for end < len(buff) && err == nil && n > 0 {
		fmt.Fprintf(Warnings, "ply: %T is a bad io.Writer implementation. It wrote short (given %v bytes but reported only %v written) yet returned no error. Will call it again...\n", w, len(buff)-(end-n), n)
		n, err = w.Write(buff[end:])
		end += n
	}

	if end != len(buff) {
		switch {
		case end > len(buff):
			return NewIOError(
				errors.New("bad io.Writer implementation"),
				fmt.Sprintf("Write() reported %v bytes written, but was only given %v bytes", end, len(buff)),
			)
		case err == nil:
			return NewIOError(
				io.ErrShortWrite,
				fmt.Sprintf("want %v bytes but only wrote %v bytes", len(buff), end),
			)
		default:
			return NewIOError(
				err,
				fmt.Sprintf("want %v bytes but wrote %v bytes", len(buff), end),
			)
		}
	}
	return nil
}

func bufferSize(n int) int {
	if n <= 0 {
		return DefaultBufferSize
	}
	if n < MinBufferSize {
		return MinBufferSize
	}
	return n
}
