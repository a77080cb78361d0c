// Package header parses and renders the textual preamble of a PLY file.
//
// A header looks like
//
//	ply
//	format binary_little_endian 1.0
//	comment made by hand
//	obj_info num_cols 2
//	element vertex 8
//	property float x
//	element face 6
//	property list uchar int vertex_indices
//	end_header
//
// Comment and obj_info lines are kept verbatim, interleaved as they were read, but are otherwise not interpreted.
package header

import (
	"fmt"
	"strings"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/schema"
)

// Version is the format version this package writes.
const Version = "1.0"

const (
	magic     = "ply"
	endHeader = "end_header"
)

// New returns an empty header for the given format.
func New(format encode.Format) *Header {
	return &Header{
		Format:  format,
		Version: Version,
		Schema:  schema.New(),
	}
}

// Header is the preamble of a PLY file.
type Header struct {
	Format  encode.Format
	Version string

	// Notes are the comment and obj_info lines, in header order.
	Notes []Note

	Schema *schema.Schema
}

// NoteKind is the keyword of a free text header line.
type NoteKind uint8

const (
	CommentNote NoteKind = iota
	ObjInfoNote
)

func (k NoteKind) String() string {
	switch k {
	case CommentNote:
		return "comment"
	case ObjInfoNote:
		return "obj_info"
	default:
		return fmt.Sprintf("NoteKind(%d)", uint8(k))
	}
}

// Note is a comment or obj_info line, without its keyword.
type Note struct {
	Kind NoteKind
	Text string
}

// AddComment appends a comment line.
func (h *Header) AddComment(comment string) error {
	return h.AddNote(Note{Kind: CommentNote, Text: comment})
}

// AddObjInfo appends an obj_info line.
func (h *Header) AddObjInfo(info string) error {
	return h.AddNote(Note{Kind: ObjInfoNote, Text: info})
}

// AddNote appends a comment or obj_info line.
func (h *Header) AddNote(n Note) error {
	if n.Kind != CommentNote && n.Kind != ObjInfoNote {
		return encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("cannot write a %v line", n.Kind), "")
	}
	if err := h.checkText(n.Text); err != nil {
		return err
	}
	h.Notes = append(h.Notes, n)
	return nil
}

// Comments returns the text of the comment lines.
func (h *Header) Comments() []string {
	return h.notes(CommentNote)
}

// ObjInfo returns the text of the obj_info lines.
func (h *Header) ObjInfo() []string {
	return h.notes(ObjInfoNote)
}

func (h *Header) notes(kind NoteKind) []string {
	var texts []string
	for _, n := range h.Notes {
		if n.Kind == kind {
			texts = append(texts, n.Text)
		}
	}
	return texts
}

func (h *Header) checkText(s string) error {
	if h.Schema.Closed() {
		return encio.NewError(encio.ErrSchemaClosed, "the header has been written", "")
	}
	if strings.ContainsAny(s, "\r\n") {
		return encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("%q spans more than one line", s), "")
	}
	return nil
}

// Render writes the header to e, ending with the end_header line.
// It does not close the schema; that is up to the session.
func (h *Header) Render(e *encio.Emitter) error {
	if !h.Format.Valid() {
		return encio.NewError(encio.ErrBadState, fmt.Sprintf("cannot write a header with %v", h.Format), "")
	}
	version := h.Version
	if version == "" {
		version = Version
	}

	w := &lineWriter{e: e}
	w.line(magic)
	w.line("format %v %v", h.Format, version)
	for _, n := range h.Notes {
		w.line("%v %v", n.Kind, n.Text)
	}
	for _, el := range h.Schema.Elements {
		w.line("element %v %v", el.Name, el.Count)
		for _, p := range el.Properties {
			if p.List {
				w.line("property list %v %v %v", p.CountType, p.Type, p.Name)
			} else {
				w.line("property %v %v", p.Type, p.Name)
			}
		}
	}
	w.line(endHeader)
	return w.err
}

type lineWriter struct {
	e   *encio.Emitter
	err error
}

func (w *lineWriter) line(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.e, format, args...); err != nil {
		w.err = err
		return
	}
	w.err = w.e.WriteByte('\n')
}
