package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/types"
)

// NewDriver returns a Driver for the given format.
// It panics if f is not a valid Format; choosing the format is the session's job, not the data's.
func NewDriver(f Format) *Driver {
	if !f.Valid() {
		panic(fmt.Errorf("encode: no driver for %v", f))
	}
	return &Driver{
		format: f,
		order:  f.ByteOrder(),
	}
}

// Driver reads and writes single values in one body encoding.
//
// Values are carried as float64, which holds every PLY primitive exactly.
// A value is always decoded at its declared width, and a value that does not fit its declared type is never narrowed on write.
type Driver struct {
	format  Format
	order   binary.ByteOrder
	scratch [32]byte
}

// Format returns the driver's format.
func (d *Driver) Format() Format {
	return d.format
}

// Read decodes one value of type ty from t.
func (d *Driver) Read(t *encio.Tokenizer, ty types.Type) (float64, error) {
	if !ty.Valid() {
		return 0, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("cannot read %v", ty), "")
	}
	if d.order == nil {
		return readASCII(t, ty)
	}
	return readBinary(t, d.order, ty)
}

// Write encodes v as type ty to e, returning the number of bytes written.
// Separators between ASCII values are the caller's responsibility.
func (d *Driver) Write(e *encio.Emitter, ty types.Type, v float64) (int, error) {
	if !ty.Valid() {
		return 0, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("cannot write %v", ty), "")
	}
	if !ty.Fits(v) {
		return 0, encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v does not fit in %v", v, ty), "")
	}
	if d.order == nil {
		return e.Write(formatASCII(d.scratch[:0], ty, v))
	}
	return writeBinary(e, d.order, ty, v)
}
