package encio_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/ply/encio"
)

func collectTokens(t *testing.T, tok *encio.Tokenizer) []string {
	var got []string
	for {
		b, err := tok.Token()
		if errors.Is(err, encio.ErrEndOfInput) {
			return got
		}
		if err != nil {
			t.Fatalf("Token: %v", err)
		}
		got = append(got, string(b))
	}
}

func TestTokenizerTokens(t *testing.T) {
	text := "format ascii 1.0\nelement vertex 8\r\n  property\tfloat x\n\n0.5 -1e+06 +7"
	want := []string{
		"format", "ascii", "1.0",
		"element", "vertex", "8",
		"property", "float", "x",
		"0.5", "-1e+06", "+7",
	}

	readers := map[string]func() io.Reader{
		"whole":    func() io.Reader { return strings.NewReader(text) },
		"one byte": func() io.Reader { return iotest.OneByteReader(strings.NewReader(text)) },
		"half":     func() io.Reader { return iotest.HalfReader(strings.NewReader(text)) },
		"data err": func() io.Reader { return iotest.DataErrReader(strings.NewReader(text)) },
	}

	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			tok := encio.NewTokenizer(r(), encio.MinBufferSize)
			defer tok.Release()

			td.Cmp(t, collectTokens(t, tok), want)
			td.Cmp(t, tok.State(), encio.StateExhausted)
			td.Cmp(t, tok.Offset(), int64(len(text)))
		})
	}
}

func TestTokenizerLongInput(t *testing.T) {
	// many more bytes than the window, forcing repeated shifts.
	var b strings.Builder
	var want []string
	for i := 0; i < 2000; i++ {
		word := strings.Repeat(string(rune('a'+i%26)), 1+i%40)
		want = append(want, word)
		b.WriteString(word)
		if i%7 == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
	}

	tok := encio.NewTokenizer(iotest.HalfReader(strings.NewReader(b.String())), encio.MinBufferSize)
	defer tok.Release()

	td.Cmp(t, collectTokens(t, tok), want)
}

func TestTokenizerStates(t *testing.T) {
	tok := encio.NewTokenizer(strings.NewReader("ply\nab cd"), 0)
	defer tok.Release()

	td.Cmp(t, tok.State(), encio.StateLineStart)

	line, err := tok.Line()
	td.CmpNoError(t, err)
	td.Cmp(t, string(line), "ply")
	td.Cmp(t, tok.State(), encio.StateLineStart)
	td.Cmp(t, tok.LineNumber(), 2)

	word, err := tok.Token()
	td.CmpNoError(t, err)
	td.Cmp(t, string(word), "ab")
	td.Cmp(t, tok.State(), encio.StateSpace)

	word, err = tok.Token()
	td.CmpNoError(t, err)
	td.Cmp(t, string(word), "cd")
	td.Cmp(t, tok.State(), encio.StateExhausted)

	_, err = tok.Token()
	td.CmpErrorIs(t, err, encio.ErrEndOfInput)
	td.Cmp(t, tok.State(), encio.StateExhausted)

	// exhausted stays exhausted.
	_, err = tok.Raw(1)
	td.CmpErrorIs(t, err, encio.ErrEndOfInput)
	_, err = tok.Line()
	td.CmpErrorIs(t, err, encio.ErrEndOfInput)
}

func TestTokenizerNeedsRefill(t *testing.T) {
	tok := encio.NewTokenizer(bytes.NewReader([]byte{1, 2, 3, 4}), 0)
	defer tok.Release()

	b, err := tok.Raw(4)
	td.CmpNoError(t, err)
	td.Cmp(t, b, []byte{1, 2, 3, 4})
	td.Cmp(t, tok.State(), encio.StateRefill)
	td.Cmp(t, tok.Buffered(), 0)

	_, err = tok.Raw(1)
	td.CmpErrorIs(t, err, encio.ErrEndOfInput)
	td.Cmp(t, tok.State(), encio.StateExhausted)
}

func TestTokenizerMidTokenFailure(t *testing.T) {
	boom := errors.New("boom")
	tok := encio.NewTokenizer(io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(boom)), 0)
	defer tok.Release()

	_, err := tok.Token()
	td.CmpErrorIs(t, err, boom)
	td.Cmp(t, tok.State(), encio.StateToken)

	var ioErr encio.IOError
	td.CmpTrue(t, errors.As(err, &ioErr))

	// the failure is sticky.
	_, err = tok.Line()
	td.CmpErrorIs(t, err, boom)
}

func TestTokenizerRaw(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	tok := encio.NewTokenizer(iotest.OneByteReader(bytes.NewReader(data)), 0)
	defer tok.Release()

	b, err := tok.Raw(4)
	td.CmpNoError(t, err)
	td.Cmp(t, b, []byte{0, 1, 2, 3})

	b, err = tok.Raw(4)
	td.CmpNoError(t, err)
	td.Cmp(t, b, []byte{4, 5, 6, 7})

	_, err = tok.Raw(4)
	td.CmpErrorIs(t, err, encio.ErrTruncated)
	td.Cmp(t, tok.State(), encio.StateExhausted)

	_, err = tok.Raw(1 << 20)
	td.CmpErrorIs(t, err, encio.ErrTooLong)
}

func TestTokenizerTooLong(t *testing.T) {
	long := strings.Repeat("a", 3*encio.MinBufferSize)

	tok := encio.NewTokenizer(strings.NewReader(long), encio.MinBufferSize)
	_, err := tok.Token()
	td.CmpErrorIs(t, err, encio.ErrTooLong)
	tok.Release()

	tok = encio.NewTokenizer(strings.NewReader(long+"\n"), encio.MinBufferSize)
	_, err = tok.Line()
	td.CmpErrorIs(t, err, encio.ErrTooLong)
	tok.Release()
}

func TestTokenizerLines(t *testing.T) {
	tok := encio.NewTokenizer(iotest.OneByteReader(strings.NewReader("ply\r\ncomment made by  hand \n\nlast")), 0)
	defer tok.Release()

	var got []string
	for {
		line, err := tok.Line()
		if errors.Is(err, encio.ErrEndOfInput) {
			break
		}
		td.CmpNoError(t, err)
		got = append(got, string(line))
	}

	td.Cmp(t, got, []string{"ply", "comment made by  hand ", "", "last"})
}

type zeroReader struct{ calls int }

func (z *zeroReader) Read([]byte) (int, error) {
	z.calls++
	return 0, nil
}

func TestTokenizerZeroRead(t *testing.T) {
	z := new(zeroReader)
	tok := encio.NewTokenizer(z, 0)
	defer tok.Release()

	_, err := tok.Token()
	td.CmpErrorIs(t, err, encio.ErrEndOfInput)
	td.Cmp(t, tok.State(), encio.StateExhausted)

	// never asks the stream again once exhausted.
	_, err = tok.Raw(2)
	td.CmpErrorIs(t, err, encio.ErrEndOfInput)
	td.Cmp(t, z.calls, 1)
}

func BenchmarkTokenizer(b *testing.B) {
	text := strings.Repeat("0.125 -3.5 17 1e-3\n", 1000)
	for i := 0; i < b.N; i++ {
		tok := encio.NewTokenizer(strings.NewReader(text), 0)
		for {
			if _, err := tok.Token(); err != nil {
				break
			}
		}
		tok.Release()
	}
}
