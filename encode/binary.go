package encode

import (
	"encoding/binary"
	"math"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/types"
)

func readBinary(t *encio.Tokenizer, order binary.ByteOrder, ty types.Type) (float64, error) {
	c := ty.Canonical()
	b, err := t.Raw(c.Size())
	if err != nil {
		return 0, err
	}

	switch c {
	case types.Int8:
		return float64(int8(b[0])), nil
	case types.Uint8:
		return float64(b[0]), nil
	case types.Int16:
		return float64(int16(order.Uint16(b))), nil
	case types.Uint16:
		return float64(order.Uint16(b)), nil
	case types.Int32:
		return float64(int32(order.Uint32(b))), nil
	case types.Uint32:
		return float64(order.Uint32(b)), nil
	case types.Float32:
		return float64(math.Float32frombits(order.Uint32(b))), nil
	default: // Float64
		return math.Float64frombits(order.Uint64(b)), nil
	}
}

func writeBinary(e *encio.Emitter, order binary.ByteOrder, ty types.Type, v float64) (int, error) {
	c := ty.Canonical()
	b, err := e.Reserve(c.Size())
	if err != nil {
		return 0, err
	}

	switch c {
	case types.Int8:
		b[0] = uint8(int8(v))
	case types.Uint8:
		b[0] = uint8(v)
	case types.Int16:
		order.PutUint16(b, uint16(int16(v)))
	case types.Uint16:
		order.PutUint16(b, uint16(v))
	case types.Int32:
		order.PutUint32(b, uint32(int32(v)))
	case types.Uint32:
		order.PutUint32(b, uint32(v))
	case types.Float32:
		order.PutUint32(b, math.Float32bits(float32(v)))
	default: // Float64
		order.PutUint64(b, math.Float64bits(v))
	}
	return len(b), nil
}
