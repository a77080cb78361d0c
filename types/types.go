// Package types describes the primitive scalar types a PLY property can hold.
//
// Each type has two spellings in the wild; the sized names (int8 ... float64), and the older C-like names (char ... double).
// Both are kept as distinct Types so a header is written back the way it was read,
// while Canonical maps each alias to its sized type.
package types

import (
	"fmt"
	"math"
)

// Type is a primitive scalar type.
type Type uint8

// The zero Type is Invalid.
const (
	Invalid Type = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64

	Char
	Uchar
	Short
	Ushort
	Int
	Uint
	Float
	Double

	numTypes
)

var names = [numTypes]string{
	Invalid: "invalid",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Float32: "float32",
	Float64: "float64",
	Char:    "char",
	Uchar:   "uchar",
	Short:   "short",
	Ushort:  "ushort",
	Int:     "int",
	Uint:    "uint",
	Float:   "float",
	Double:  "double",
}

var canonical = [numTypes]Type{
	Char:   Int8,
	Uchar:  Uint8,
	Short:  Int16,
	Ushort: Uint16,
	Int:    Int32,
	Uint:   Uint32,
	Float:  Float32,
	Double: Float64,
}

// Parse returns the Type with the given header name.
func Parse(name string) (Type, bool) {
	for t := Int8; t < numTypes; t++ {
		if names[t] == name {
			return t, true
		}
	}
	return Invalid, false
}

// String returns the name of the type as written in a header.
func (t Type) String() string {
	if t < numTypes {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports whether t is a usable type.
func (t Type) Valid() bool {
	return t > Invalid && t < numTypes
}

// Canonical returns the sized type t is an alias of, or t itself.
func (t Type) Canonical() Type {
	if t < numTypes && canonical[t] != Invalid {
		return canonical[t]
	}
	return t
}

// Size returns the width of the type in bytes.
func (t Type) Size() int {
	switch t.Canonical() {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether t is one of the integer types.
func (t Type) IsInteger() bool {
	switch t.Canonical() {
	case Int8, Uint8, Int16, Uint16, Int32, Uint32:
		return true
	}
	return false
}

// IsFloat reports whether t is a floating point type.
func (t Type) IsFloat() bool {
	c := t.Canonical()
	return c == Float32 || c == Float64
}

// IsSigned reports whether t can hold negative values.
func (t Type) IsSigned() bool {
	switch t.Canonical() {
	case Int8, Int16, Int32, Float32, Float64:
		return true
	}
	return false
}

// Range returns the smallest and largest finite values of t.
func (t Type) Range() (min, max float64) {
	switch t.Canonical() {
	case Int8:
		return math.MinInt8, math.MaxInt8
	case Uint8:
		return 0, math.MaxUint8
	case Int16:
		return math.MinInt16, math.MaxInt16
	case Uint16:
		return 0, math.MaxUint16
	case Int32:
		return math.MinInt32, math.MaxInt32
	case Uint32:
		return 0, math.MaxUint32
	case Float32:
		return -math.MaxFloat32, math.MaxFloat32
	case Float64:
		return -math.MaxFloat64, math.MaxFloat64
	default:
		return 0, 0
	}
}

// Fits reports whether v can be stored in t without narrowing.
// Integer types need an integral value within range; float32 needs a value within its finite range, or an infinity or NaN.
func (t Type) Fits(v float64) bool {
	if !t.Valid() {
		return false
	}
	if t.IsInteger() {
		min, max := t.Range()
		return v == math.Trunc(v) && v >= min && v <= max
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return true
	}
	min, max := t.Range()
	return v >= min && v <= max
}
