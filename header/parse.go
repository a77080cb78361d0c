package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/schema"
	"github.com/stewi1014/ply/types"
)

// Parse reads a header from t, leaving t at the first byte of the body.
// Any problem with the header's text fails with ErrMalformedHeader; stream failures are returned as they are.
func Parse(t *encio.Tokenizer) (*Header, error) {
	p := &parser{
		t: t,
		h: &Header{Schema: schema.New()},
	}

	line, err := p.next()
	if err != nil {
		return nil, err
	}
	if line != magic {
		return nil, p.malformed("file does not start with %q", magic)
	}

	for {
		line, err := p.next()
		if err != nil {
			return nil, err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			err = p.format(fields)
		case "comment":
			p.h.Notes = append(p.h.Notes, Note{Kind: CommentNote, Text: rest(line, fields[0])})
		case "obj_info":
			p.h.Notes = append(p.h.Notes, Note{Kind: ObjInfoNote, Text: rest(line, fields[0])})
		case "element":
			err = p.element(fields)
		case "property":
			err = p.property(fields)
		case endHeader:
			if len(fields) != 1 {
				return nil, p.malformed("unexpected text after %v", endHeader)
			}
			if !p.h.Format.Valid() {
				return nil, p.malformed("no format line")
			}
			return p.h, nil
		default:
			err = p.malformed("unknown keyword %q", fields[0])
		}

		if err != nil {
			return nil, err
		}
	}
}

type parser struct {
	t       *encio.Tokenizer
	h       *Header
	current string // element receiving property lines
}

// next returns the next header line.
func (p *parser) next() (string, error) {
	line, err := p.t.Line()
	switch {
	case err == nil:
		return string(line), nil
	case errors.Is(err, encio.ErrEndOfInput):
		return "", encio.NewError(encio.ErrMalformedHeader, fmt.Sprintf("stream ended before %v", endHeader), "header.Parse")
	case errors.Is(err, encio.ErrTooLong):
		return "", p.malformed("line is too long")
	default:
		return "", err
	}
}

func (p *parser) format(fields []string) error {
	if p.h.Format != 0 {
		return p.malformed("duplicate format line")
	}
	if len(fields) != 3 {
		return p.malformed("format line needs an encoding and a version")
	}

	f, ok := encode.ParseFormat(fields[1])
	if !ok {
		return p.malformed("unknown format %q", fields[1])
	}
	p.h.Format = f
	p.h.Version = fields[2]
	if p.h.Version != Version {
		fmt.Fprintf(encio.Warnings, "ply: unexpected format version %q, reading as %v\n", p.h.Version, Version)
	}
	return nil
}

func (p *parser) element(fields []string) error {
	if len(fields) != 3 {
		return p.malformed("element line needs a name and a count")
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil {
		return p.malformed("element %q has count %q", fields[1], fields[2])
	}
	if _, err := p.h.Schema.DeclareElement(fields[1], count); err != nil {
		return p.malformed("%v", err)
	}
	p.current = fields[1]
	return nil
}

func (p *parser) property(fields []string) error {
	if p.current == "" {
		return p.malformed("property before any element")
	}

	var err error
	if len(fields) > 1 && fields[1] == "list" {
		if len(fields) != 5 {
			return p.malformed("list property line needs a count type, a value type and a name")
		}
		countType, ok := types.Parse(fields[2])
		if !ok {
			return p.malformed("unknown type %q", fields[2])
		}
		valueType, ok := types.Parse(fields[3])
		if !ok {
			return p.malformed("unknown type %q", fields[3])
		}
		_, err = p.h.Schema.DeclareListProperty(p.current, fields[4], countType, valueType)
	} else {
		if len(fields) != 3 {
			return p.malformed("property line needs a type and a name")
		}
		ty, ok := types.Parse(fields[1])
		if !ok {
			return p.malformed("unknown type %q", fields[1])
		}
		_, err = p.h.Schema.DeclareScalarProperty(p.current, fields[2], ty)
	}

	if err != nil {
		return p.malformed("%v", err)
	}
	return nil
}

func (p *parser) malformed(format string, args ...interface{}) error {
	return encio.NewError(
		encio.ErrMalformedHeader,
		fmt.Sprintf("line %v: ", p.t.LineNumber()-1)+fmt.Sprintf(format, args...),
		"header.Parse",
	)
}

// rest returns the text of line after keyword and the single space separating them.
func rest(line, keyword string) string {
	s := line[strings.Index(line, keyword)+len(keyword):]
	if len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	return s
}
