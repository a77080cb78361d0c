package encode

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/types"
)

func readASCII(t *encio.Tokenizer, ty types.Type) (float64, error) {
	tok, err := t.Token()
	if err != nil {
		if errors.Is(err, encio.ErrTooLong) {
			return 0, encio.NewError(encio.ErrMalformedValue, err.Error(), "")
		}
		return 0, err
	}
	return ParseASCII(string(tok), ty)
}

// ParseASCII parses the decimal text form of a value of type ty.
// Integers accept an optional sign, floats also accept exponent notation.
// Text that is not a number, or is out of range for ty, fails with ErrMalformedValue.
func ParseASCII(s string, ty types.Type) (float64, error) {
	var (
		v   float64
		err error
	)

	switch c := ty.Canonical(); c {
	case types.Int8, types.Int16, types.Int32:
		var n int64
		n, err = strconv.ParseInt(s, 10, c.Size()*8)
		v = float64(n)
	case types.Uint8, types.Uint16, types.Uint32:
		var n uint64
		u := s
		if len(u) > 1 && u[0] == '+' {
			u = u[1:]
		}
		n, err = strconv.ParseUint(u, 10, c.Size()*8)
		v = float64(n)
	case types.Float32:
		v, err = strconv.ParseFloat(s, 32)
	case types.Float64:
		v, err = strconv.ParseFloat(s, 64)
	default:
		return 0, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("cannot parse %v", ty), "")
	}

	if err != nil {
		return 0, encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%q is not a valid %v", s, ty), "")
	}
	return v, nil
}

// formatASCII appends the text form of v to b.
// Floats use the shortest form that reads back to the same value at the declared width.
func formatASCII(b []byte, ty types.Type, v float64) []byte {
	switch c := ty.Canonical(); {
	case c.IsInteger() && c.IsSigned():
		return strconv.AppendInt(b, int64(v), 10)
	case c.IsInteger():
		return strconv.AppendUint(b, uint64(v), 10)
	case c == types.Float32:
		return strconv.AppendFloat(b, float64(float32(v)), 'g', -1, 32)
	default:
		return strconv.AppendFloat(b, v, 'g', -1, 64)
	}
}
