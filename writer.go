package ply

import (
	"fmt"
	"io"
	"os"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/header"
	"github.com/stewi1014/ply/schema"
	"github.com/stewi1014/ply/types"
)

// Create creates the named file, truncating it if it exists, and returns a Writer for it.
// Closing the Writer closes the file.
func Create(path string, format encode.Format, config *Config) (*Writer, error) {
	if !format.Valid() {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("cannot write %v", format), "")
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w, err := NewWriter(file, format, config)
	if err != nil {
		file.Close()
		return nil, err
	}

	w.closer = file
	return w, nil
}

// NewWriter returns a Writer encoding to w in the given format.
// Output is buffered; Close must be called to flush it.
func NewWriter(w io.Writer, format encode.Format, config *Config) (*Writer, error) {
	if !format.Valid() {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("cannot write %v", format), "")
	}
	config = config.copyAndFill()

	return &Writer{
		emitter: encio.NewEmitter(w, config.BufferSize),
		header:  header.New(format),
		driver:  encode.NewDriver(format),
		list:    -1,
	}, nil
}

// Writer encodes a PLY file.
//
// Elements and properties are declared first, then the header is written,
// then every value of the body is written in order: instance by instance, property by property,
// with each list's length written before its values.
// It is not safe for concurrent use.
type Writer struct {
	closer  io.Closer
	emitter *encio.Emitter
	header  *header.Header
	driver  *encode.Driver

	// cursor
	el       int // index of the element being written
	instance int // index of the instance being written
	prop     int // index of the next property
	list     int // values left in the current list, or -1 if its length has not been written

	state State
	err   error
}

// Header returns the header being built.
func (w *Writer) Header() *header.Header {
	return w.header
}

// State returns the Writer's progress through the file.
func (w *Writer) State() State {
	return w.state
}

// AddElement declares an element with count instances.
func (w *Writer) AddElement(name string, count int) error {
	_, err := w.header.Schema.DeclareElement(name, count)
	return err
}

// AddProperty declares a scalar property of the named element.
func (w *Writer) AddProperty(element, name string, ty types.Type) error {
	_, err := w.header.Schema.DeclareScalarProperty(element, name, ty)
	return err
}

// AddListProperty declares a list property of the named element.
func (w *Writer) AddListProperty(element, name string, countType, valueType types.Type) error {
	_, err := w.header.Schema.DeclareListProperty(element, name, countType, valueType)
	return err
}

// AddComment adds a comment line to the header.
func (w *Writer) AddComment(comment string) error {
	return w.header.AddComment(comment)
}

// AddObjInfo adds an obj_info line to the header.
func (w *Writer) AddObjInfo(info string) error {
	return w.header.AddObjInfo(info)
}

// WriteHeader writes the header, after which nothing more can be declared.
func (w *Writer) WriteHeader() error {
	if w.state != StateBeforeBody {
		if w.state == StateFailed {
			return w.err
		}
		return encio.NewError(encio.ErrBadState, fmt.Sprintf("cannot write the header when %v", w.state), "")
	}

	if err := w.header.Render(w.emitter); err != nil {
		return w.fail(err)
	}
	w.header.Schema.Close()
	w.state = StateInBody

	return w.seek()
}

// Write writes the next value of the body.
func (w *Writer) Write(v float64) error {
	if err := w.ready(); err != nil {
		return err
	}

	elements := w.header.Schema.Elements
	if w.el == len(elements) {
		return w.fail(encio.NewError(encio.ErrInstanceCount, "every instance has already been written", ""))
	}

	el := elements[w.el]
	p := el.Properties[w.prop]

	var err error
	switch {
	case !p.List:
		err = w.value(p.Type, v)
	case w.list < 0:
		if v < 0 {
			return w.fail(encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v has negative length %v", p.Name, v), ""))
		}
		if err = w.value(p.CountType, v); err == nil {
			w.list = int(v)
		}
	default:
		if err = w.value(p.Type, v); err == nil {
			w.list--
		}
	}
	if err != nil {
		return w.fail(err)
	}

	if p.List && w.list > 0 {
		return w.separate(' ')
	}

	w.list = -1
	w.prop++
	if w.prop < len(el.Properties) {
		return w.separate(' ')
	}

	w.prop = 0
	w.instance++
	if err := w.separate('\n'); err != nil {
		return err
	}
	if w.instance == el.Count {
		w.el++
		w.instance = 0
		return w.seek()
	}
	return nil
}

// WriteValue writes the next value of the body, checking it belongs to the named property.
// Naming a later element before the current one has all its instances fails with ErrInstanceCount,
// as does naming an element that has all its instances already.
func (w *Writer) WriteValue(element, property string, v float64) error {
	if err := w.ready(); err != nil {
		return err
	}

	el, p, err := w.header.Schema.Lookup(element, property)
	if err != nil {
		return err
	}

	if err := w.expect(el, p); err != nil {
		return w.fail(err)
	}
	return w.Write(v)
}

// WriteList writes the length of a list property, then its values.
func (w *Writer) WriteList(element, property string, values []float64) error {
	if err := w.WriteValue(element, property, float64(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := w.Write(v); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the header if it has not been written, checks every instance has been written, and flushes.
// It closes the file if the Writer was created with Create.
func (w *Writer) Close() error {
	if w.state == StateClosed {
		return nil
	}

	err := w.finish()
	if ferr := w.emitter.Flush(); err == nil {
		err = ferr
	}
	w.emitter.Release()
	w.state = StateClosed

	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (w *Writer) finish() error {
	if w.state == StateBeforeBody {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	if w.state == StateFailed {
		return w.err
	}

	if el, ok := w.current(); ok {
		return w.fail(encio.NewError(
			encio.ErrInstanceCount,
			fmt.Sprintf("%v declares %v instances, but %v were written", el.Name, el.Count, w.instance),
			"ply.Writer.Close",
		))
	}

	w.state = StateDone
	return nil
}

// expect checks the cursor is at p of el.
func (w *Writer) expect(el *schema.Element, p *schema.Property) error {
	current, ok := w.current()
	switch {
	case ok && current == el:
		if w.prop == p.Index && w.list < 0 {
			return nil
		}
		want := current.Properties[w.prop]
		if w.list >= 0 {
			return encio.NewError(encio.ErrOutOfOrder, fmt.Sprintf("%v has %v values left, got a value for %v", want.Name, w.list, p.Name), "")
		}
		return encio.NewError(encio.ErrOutOfOrder, fmt.Sprintf("expected a value for %v.%v, got %v", el.Name, want.Name, p.Name), "")

	case !ok || el.Index < current.Index:
		return encio.NewError(encio.ErrInstanceCount, fmt.Sprintf("all %v instances of %v have been written", el.Count, el.Name), "")

	case w.prop != 0 || w.list >= 0:
		return encio.NewError(encio.ErrOutOfOrder, fmt.Sprintf("%v instance %v is incomplete, got a value for %v.%v", current.Name, w.instance, el.Name, p.Name), "")

	default:
		return encio.NewError(encio.ErrInstanceCount, fmt.Sprintf("%v declares %v instances, but %v were written", current.Name, current.Count, w.instance), "")
	}
}

// current returns the element being written, or false if the body is complete.
func (w *Writer) current() (*schema.Element, bool) {
	elements := w.header.Schema.Elements
	if w.el < len(elements) {
		return elements[w.el], true
	}
	return nil, false
}

// seek moves the cursor to the next element with values to write, from the current one.
// Instances of elements without properties have no values, and are written as they are passed.
func (w *Writer) seek() error {
	for el, ok := w.current(); ok; el, ok = w.current() {
		if el.Count > 0 && len(el.Properties) > 0 {
			return nil
		}
		for ; w.instance < el.Count; w.instance++ {
			if err := w.separate('\n'); err != nil {
				return err
			}
		}
		w.el++
		w.instance = 0
	}
	w.state = StateDone
	return nil
}

func (w *Writer) value(ty types.Type, v float64) error {
	_, err := w.driver.Write(w.emitter, ty, v)
	return err
}

// separate writes an ascii separator.
func (w *Writer) separate(c byte) error {
	if w.driver.Format().IsBinary() {
		return nil
	}
	if err := w.emitter.WriteByte(c); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *Writer) ready() error {
	switch w.state {
	case StateInBody, StateDone:
		return nil
	case StateFailed:
		return w.err
	default:
		return encio.NewError(encio.ErrBadState, fmt.Sprintf("cannot write values when %v", w.state), "")
	}
}

func (w *Writer) fail(err error) error {
	w.state = StateFailed
	w.err = err
	return err
}
