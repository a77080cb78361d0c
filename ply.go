// Package ply reads and writes Polygon File Format (Stanford Triangle Format) files.
//
// A PLY file is a textual header describing named elements, such as vertices and faces,
// each made of typed scalar or list properties, followed by a body holding every instance of every element
// in declaration order. The body is encoded as ascii text, or as packed little or big endian binary.
//
// Reading is callback driven: handlers are bound to the properties of interest, and the body is decoded one element at a time,
// calling the bound handler with every decoded value. Properties without a handler are still decoded, but the values are dropped.
//
//	r, err := ply.Open("bunny.ply", nil)
//	...
//	n, err := r.Bind("vertex", "x", func(arg ply.Argument) error {
//		xs = append(xs, arg.Value)
//		return nil
//	})
//	...
//	err = r.Run()
//
// Writing is driven by the caller: elements and properties are declared, the header is written,
// and values are written one at a time in exactly the order they appear in the body.
//
// ply/encio provides error kinds, and the bounded tokenizer and emitter used by both directions.
//
// ply/encode provides the ascii and binary value drivers.
//
// ply/schema and ply/header hold and codec the element declarations.
//
// ply/mesh converts PLY files to and from triangle meshes.
package ply

import (
	"errors"
	"fmt"

	"github.com/stewi1014/ply/schema"
)

// Stop can be returned by a Handler to stop reading the body.
// It is not reported as an error by Run.
var Stop = errors.New("stop reading")

// Handler is called with every value of the property it is bound to.
type Handler func(Argument) error

// Argument describes one decoded value.
type Argument struct {
	Element  *schema.Element
	Property *schema.Property

	// Instance is the index of the element instance the value belongs to.
	Instance int

	// Length is the number of values in the property; 1 for scalars.
	Length int

	// Index is the position of the value in a list property,
	// or -1 when Value is the list's length, which is passed to the handler before the list's values.
	Index int

	Value float64
}

// IsCount reports whether Value is the length of a list.
func (a Argument) IsCount() bool {
	return a.Index < 0
}

// State is the progress of a Reader or Writer through a file.
type State uint8

const (
	// StateBeforeBody is still accepting declarations or bindings.
	StateBeforeBody State = iota
	// StateInBody is reading or writing the body.
	StateInBody
	// StateDone has read or written every element.
	StateDone
	// StateAborted was stopped by a Handler.
	StateAborted
	// StateFailed has stopped after an error, and returns it from every later call.
	StateFailed
	// StateClosed has been closed.
	StateClosed
)

var stateNames = [...]string{
	StateBeforeBody: "before body",
	StateInBody:     "in body",
	StateDone:       "done",
	StateAborted:    "aborted",
	StateFailed:     "failed",
	StateClosed:     "closed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}
