package ply

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/header"
	"github.com/stewi1014/ply/schema"
)

// Open opens the named file and reads its header.
// Closing the Reader closes the file.
func Open(path string, config *Config) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(file, config)
	if err != nil {
		file.Close()
		return nil, err
	}

	r.closer = file
	return r, nil
}

// NewReader reads a header from r, and returns a Reader positioned at the start of the body.
func NewReader(r io.Reader, config *Config) (*Reader, error) {
	config = config.copyAndFill()

	tok := encio.NewTokenizer(r, config.BufferSize)
	h, err := header.Parse(tok)
	if err != nil {
		tok.Release()
		return nil, err
	}

	handlers := make([][]Handler, len(h.Schema.Elements))
	for i, el := range h.Schema.Elements {
		handlers[i] = make([]Handler, len(el.Properties))
	}

	return &Reader{
		tok:      tok,
		header:   h,
		driver:   encode.NewDriver(h.Format),
		handlers: handlers,
	}, nil
}

// Reader decodes the body of a PLY file, one element at a time.
// It is not safe for concurrent use.
type Reader struct {
	closer io.Closer
	tok    *encio.Tokenizer
	header *header.Header
	driver *encode.Driver

	// handlers are indexed by element, then property.
	handlers [][]Handler

	next  int  // index of the next element to read
	fresh bool // no value of the current instance has been read
	state State
	err   error
}

// Header returns the file's header.
func (r *Reader) Header() *header.Header {
	return r.header
}

// Elements returns the declared elements in body order.
func (r *Reader) Elements() []*schema.Element {
	return r.header.Schema.Elements
}

// State returns the Reader's progress through the file.
func (r *Reader) State() State {
	return r.state
}

// Bind sets the handler called with every value of the named property, replacing any earlier one.
// A nil handler unbinds the property.
// Bind returns the element's instance count, and can only be called before the body is read.
func (r *Reader) Bind(element, property string, handler Handler) (int, error) {
	if r.state != StateBeforeBody {
		return 0, encio.NewError(encio.ErrBadState, fmt.Sprintf("cannot bind handlers when %v", r.state), "")
	}

	el, p, err := r.header.Schema.Lookup(element, property)
	if err != nil {
		return 0, err
	}

	r.handlers[el.Index][p.Index] = handler
	return el.Count, nil
}

// ReadElement decodes every instance of the next element, calling bound handlers in body order, and returns the element.
// It returns io.EOF once every element has been read.
//
// If a handler returns Stop, ReadElement returns an error wrapping ErrAborted, and so does every later call.
// Any other handler or decoding error is returned, and then returned again by every later call.
func (r *Reader) ReadElement() (*schema.Element, error) {
	switch r.state {
	case StateBeforeBody:
		r.header.Schema.Close()
		r.state = StateInBody
	case StateInBody:
	case StateDone:
		return nil, io.EOF
	case StateClosed:
		return nil, encio.NewError(encio.ErrBadState, "reader is closed", "")
	default:
		return nil, r.err
	}

	elements := r.header.Schema.Elements
	if r.next == len(elements) {
		r.state = StateDone
		return nil, io.EOF
	}

	el := elements[r.next]
	if err := r.readElement(el); err != nil {
		return nil, err
	}

	r.next++
	return el, nil
}

// Run reads the remainder of the body.
// It returns nil if every element was read, or a handler returned Stop.
func (r *Reader) Run() error {
	for {
		_, err := r.ReadElement()
		switch {
		case err == nil:
		case err == io.EOF:
			return nil
		case r.state == StateAborted:
			return nil
		default:
			return err
		}
	}
}

// Close releases the Reader's buffer, and closes the file if the Reader was opened with Open.
// The Reader cannot be used afterwards.
func (r *Reader) Close() error {
	if r.state == StateClosed {
		return nil
	}

	r.state = StateClosed
	r.tok.Release()

	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func (r *Reader) readElement(el *schema.Element) error {
	handlers := r.handlers[el.Index]
	arg := Argument{Element: el}

	for k := 0; k < el.Count; k++ {
		arg.Instance = k
		r.fresh = true

		for _, p := range el.Properties {
			handler := handlers[p.Index]
			arg.Property = p

			if !p.List {
				v, err := r.value(el, k, p)
				if err != nil {
					return err
				}
				if handler != nil {
					arg.Length, arg.Index, arg.Value = 1, 0, v
					if err := r.call(handler, arg); err != nil {
						return err
					}
				}
				continue
			}

			n, err := r.count(el, k, p)
			if err != nil {
				return err
			}
			arg.Length = n
			if handler != nil {
				arg.Index, arg.Value = -1, float64(n)
				if err := r.call(handler, arg); err != nil {
					return err
				}
			}

			for j := 0; j < n; j++ {
				v, err := r.value(el, k, p)
				if err != nil {
					return err
				}
				if handler != nil {
					arg.Index, arg.Value = j, v
					if err := r.call(handler, arg); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

// value reads one value of p.
func (r *Reader) value(el *schema.Element, instance int, p *schema.Property) (float64, error) {
	v, err := r.driver.Read(r.tok, p.Type)
	if err != nil {
		return 0, r.fail(r.describe(err, el, instance, p))
	}
	r.fresh = false
	return v, nil
}

// count reads the length of list property p.
func (r *Reader) count(el *schema.Element, instance int, p *schema.Property) (int, error) {
	v, err := r.driver.Read(r.tok, p.CountType)
	if err != nil {
		return 0, r.fail(r.describe(err, el, instance, p))
	}
	r.fresh = false
	if v < 0 {
		return 0, r.fail(encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v instance %v has negative list length %v for %v", el.Name, instance, v, p.Name), "ply.Reader.ReadElement"))
	}
	return int(v), nil
}

// describe adds the position in the body to a decoding error.
// Running out of input inside an instance is truncation; at the start of one it is the end of input.
func (r *Reader) describe(err error, el *schema.Element, instance int, p *schema.Property) error {
	where := fmt.Sprintf("%v instance %v of %v, property %v", el.Name, instance, el.Count, p.Name)
	switch {
	case errors.Is(err, encio.ErrEndOfInput) && !r.fresh:
		return encio.NewError(encio.ErrTruncated, where+": stream ended inside the instance", "ply.Reader.ReadElement")
	case errors.Is(err, encio.ErrEndOfInput), errors.Is(err, encio.ErrTruncated), errors.Is(err, encio.ErrMalformedValue):
		return encio.NewError(err, where, "ply.Reader.ReadElement")
	default:
		return err
	}
}

func (r *Reader) call(handler Handler, arg Argument) error {
	err := handler(arg)
	if err == nil {
		return nil
	}

	if errors.Is(err, Stop) {
		r.state = StateAborted
		r.err = encio.NewError(encio.ErrAborted, fmt.Sprintf("stopped at %v instance %v, property %v", arg.Element.Name, arg.Instance, arg.Property.Name), "ply.Reader.ReadElement")
		return r.err
	}

	return r.fail(err)
}

func (r *Reader) fail(err error) error {
	r.state = StateFailed
	r.err = err
	return err
}
