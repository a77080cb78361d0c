package ply

import (
	"fmt"

	"github.com/stewi1014/ply/encio"
)

// Transcode copies the header and body of src to dst, which is usually in another format.
// dst must not have declared anything or written its header.
// It does not close either side; dst still needs closing to be flushed.
func Transcode(dst *Writer, src *Reader) error {
	if dst.State() != StateBeforeBody || len(dst.header.Schema.Elements) > 0 {
		return encio.NewError(encio.ErrBadState, fmt.Sprintf("cannot transcode into a writer that is %v, with %v elements", dst.State(), len(dst.header.Schema.Elements)), "")
	}

	h := src.Header()
	for _, n := range h.Notes {
		if err := dst.header.AddNote(n); err != nil {
			return err
		}
	}

	forward := func(arg Argument) error {
		return dst.Write(arg.Value)
	}

	for _, el := range src.Elements() {
		if err := dst.AddElement(el.Name, el.Count); err != nil {
			return err
		}
		for _, p := range el.Properties {
			var err error
			if p.List {
				err = dst.AddListProperty(el.Name, p.Name, p.CountType, p.Type)
			} else {
				err = dst.AddProperty(el.Name, p.Name, p.Type)
			}
			if err != nil {
				return err
			}

			if _, err := src.Bind(el.Name, p.Name, forward); err != nil {
				return err
			}
		}
	}

	if err := dst.WriteHeader(); err != nil {
		return err
	}
	return src.Run()
}
