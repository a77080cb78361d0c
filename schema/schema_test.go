package schema_test

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/schema"
	"github.com/stewi1014/ply/types"
)

func TestDeclare(t *testing.T) {
	s := schema.New()

	v, err := s.DeclareElement("vertex", 2)
	td.CmpNoError(t, err)
	for _, name := range []string{"x", "y", "z"} {
		_, err = s.DeclareScalarProperty("vertex", name, types.Float)
		td.CmpNoError(t, err)
	}

	f, err := s.DeclareElement("face", 1)
	td.CmpNoError(t, err)
	_, err = s.DeclareListProperty("face", "vertex_indices", types.Uchar, types.Int)
	td.CmpNoError(t, err)

	td.Cmp(t, s.Elements, []*schema.Element{v, f})
	td.Cmp(t, v.Index, 0)
	td.Cmp(t, f.Index, 1)

	if td.CmpLen(t, v.Properties, 3) {
		td.Cmp(t, v.Properties[2], td.Struct(&schema.Property{Name: "z", Type: types.Float, Index: 2}, nil))
	}

	e, p, err := s.Lookup("face", "vertex_indices")
	td.CmpNoError(t, err)
	td.Cmp(t, e, f)
	td.Cmp(t, p, td.Struct(&schema.Property{
		Name:      "vertex_indices",
		Type:      types.Int,
		List:      true,
		CountType: types.Uchar,
	}, nil))
	td.Cmp(t, p.String(), "list uchar int vertex_indices")
	td.Cmp(t, f.String(), "face 1")

	_, _, err = s.Lookup("face", "nope")
	td.CmpErrorIs(t, err, encio.ErrUnknownProperty)
	_, _, err = s.Lookup("edge", "x")
	td.CmpErrorIs(t, err, encio.ErrUnknownProperty)
}

func TestDeclareInvalid(t *testing.T) {
	s := schema.New()
	_, err := s.DeclareElement("vertex", 3)
	td.CmpNoError(t, err)
	_, err = s.DeclareScalarProperty("vertex", "x", types.Float)
	td.CmpNoError(t, err)

	testCases := map[string]func() error{
		"duplicate element": func() error { _, err := s.DeclareElement("vertex", 1); return err },
		"negative count":    func() error { _, err := s.DeclareElement("edge", -1); return err },
		"empty name":        func() error { _, err := s.DeclareElement("", 1); return err },
		"spaced name":       func() error { _, err := s.DeclareElement("my edge", 1); return err },
		"duplicate property": func() error {
			_, err := s.DeclareScalarProperty("vertex", "x", types.Double)
			return err
		},
		"unknown element": func() error {
			_, err := s.DeclareScalarProperty("edge", "x", types.Double)
			return err
		},
		"invalid type": func() error {
			_, err := s.DeclareScalarProperty("vertex", "w", types.Invalid)
			return err
		},
		"float count": func() error {
			_, err := s.DeclareListProperty("vertex", "l", types.Float, types.Int)
			return err
		},
		"invalid value type": func() error {
			_, err := s.DeclareListProperty("vertex", "l", types.Uchar, types.Invalid)
			return err
		},
	}

	for name, declare := range testCases {
		t.Run(name, func(t *testing.T) {
			td.CmpErrorIs(t, declare(), encio.ErrBadDeclaration)
		})
	}

	td.CmpLen(t, s.Elements, 1)
	td.CmpLen(t, s.Elements[0].Properties, 1)
}

func TestClosed(t *testing.T) {
	s := schema.New()
	_, err := s.DeclareElement("vertex", 1)
	td.CmpNoError(t, err)

	s.Close()
	td.CmpTrue(t, s.Closed())

	_, err = s.DeclareElement("face", 1)
	td.CmpErrorIs(t, err, encio.ErrSchemaClosed)
	_, err = s.DeclareScalarProperty("vertex", "x", types.Float)
	td.CmpErrorIs(t, err, encio.ErrSchemaClosed)
	_, err = s.DeclareListProperty("vertex", "l", types.Uchar, types.Int)
	td.CmpErrorIs(t, err, encio.ErrSchemaClosed)

	td.CmpLen(t, s.Elements[0].Properties, 0)
}
