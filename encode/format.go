// Package encode provides the drivers that read and write single PLY values in each of the three body encodings.
//
// A Driver is chosen once per session from the header's format line, and then handles every value of the body.
package encode

import (
	"encoding/binary"
	"fmt"
)

// Format is the encoding of a PLY body.
type Format uint8

// The zero Format is not a valid encoding.
const (
	ASCII Format = iota + 1
	BinaryLittleEndian
	BinaryBigEndian
)

var formatNames = [...]string{
	ASCII:              "ascii",
	BinaryLittleEndian: "binary_little_endian",
	BinaryBigEndian:    "binary_big_endian",
}

// ParseFormat returns the Format with the given header name.
func ParseFormat(name string) (Format, bool) {
	for f := ASCII; f <= BinaryBigEndian; f++ {
		if formatNames[f] == name {
			return f, true
		}
	}
	return 0, false
}

// String returns the name of the format as written in a header.
func (f Format) String() string {
	if f.Valid() {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Valid reports whether f is one of the three encodings.
func (f Format) Valid() bool {
	return f >= ASCII && f <= BinaryBigEndian
}

// IsBinary reports whether values are packed bytes rather than text.
func (f Format) IsBinary() bool {
	return f == BinaryLittleEndian || f == BinaryBigEndian
}

// ByteOrder returns the byte order of a binary format, or nil for ASCII.
func (f Format) ByteOrder() binary.ByteOrder {
	switch f {
	case BinaryLittleEndian:
		return binary.LittleEndian
	case BinaryBigEndian:
		return binary.BigEndian
	default:
		return nil
	}
}
