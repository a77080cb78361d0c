// Package schema holds the ordered description of a PLY file's elements and their properties.
//
// Declaration order is significant; it is the order of the header lines, and the order values appear in the body.
// A Schema is built up by a header parser or a writer, and is closed when the body begins, after which it never changes.
package schema

import (
	"fmt"
	"strings"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/types"
)

// Property is a named field of an element instance.
type Property struct {
	Name string

	// Type is the type of a scalar property, or of each value of a list property.
	Type types.Type

	// List is set for variable-length list properties.
	List bool
	// CountType is the integer type of a list's length, read before each list.
	CountType types.Type

	// Index is the property's position within its element.
	Index int
}

func (p *Property) String() string {
	if p.List {
		return fmt.Sprintf("list %v %v %v", p.CountType, p.Type, p.Name)
	}
	return fmt.Sprintf("%v %v", p.Type, p.Name)
}

// Element is a named collection of identically shaped instances.
type Element struct {
	Name string

	// Count is the number of instances of the element in the body.
	Count int

	// Properties are the fields of each instance, in body order.
	Properties []*Property

	// Index is the element's position within the schema.
	Index int
}

// Property returns the named property, or nil.
func (e *Element) Property(name string) *Property {
	for _, p := range e.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (e *Element) String() string {
	return fmt.Sprintf("%v %v", e.Name, e.Count)
}

// Schema is the ordered set of element declarations of one file.
type Schema struct {
	Elements []*Element
	closed   bool
}

// New returns an empty, open Schema.
func New() *Schema {
	return &Schema{}
}

// Closed reports whether the schema has been closed to further declarations.
func (s *Schema) Closed() bool {
	return s.closed
}

// Close makes the schema immutable. It is called when the body begins.
func (s *Schema) Close() {
	s.closed = true
}

// Element returns the named element, or nil.
func (s *Schema) Element(name string) *Element {
	for _, e := range s.Elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Lookup returns the named element and property.
// It fails with ErrUnknownProperty if either is not declared.
func (s *Schema) Lookup(element, property string) (*Element, *Property, error) {
	e := s.Element(element)
	if e == nil {
		return nil, nil, encio.NewError(encio.ErrUnknownProperty, fmt.Sprintf("no element %q", element), "")
	}
	p := e.Property(property)
	if p == nil {
		return nil, nil, encio.NewError(encio.ErrUnknownProperty, fmt.Sprintf("element %q has no property %q", element, property), "")
	}
	return e, p, nil
}

// DeclareElement appends an element with the given instance count.
func (s *Schema) DeclareElement(name string, count int) (*Element, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := checkName(name); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("element %q has negative count %v", name, count), "")
	}
	if s.Element(name) != nil {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("element %q declared twice", name), "")
	}

	e := &Element{
		Name:  name,
		Count: count,
		Index: len(s.Elements),
	}
	s.Elements = append(s.Elements, e)
	return e, nil
}

// DeclareScalarProperty appends a scalar property to the named element.
func (s *Schema) DeclareScalarProperty(element, name string, ty types.Type) (*Property, error) {
	if !ty.Valid() {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("property %q has invalid type", name), "")
	}
	return s.declareProperty(element, &Property{
		Name: name,
		Type: ty,
	})
}

// DeclareListProperty appends a list property to the named element.
// The count type must be an integer type.
func (s *Schema) DeclareListProperty(element, name string, countType, valueType types.Type) (*Property, error) {
	if !countType.IsInteger() {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("list property %q has non-integer count type %v", name, countType), "")
	}
	if !valueType.Valid() {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("list property %q has invalid value type", name), "")
	}
	return s.declareProperty(element, &Property{
		Name:      name,
		Type:      valueType,
		List:      true,
		CountType: countType,
	})
}

func (s *Schema) declareProperty(element string, p *Property) (*Property, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := checkName(p.Name); err != nil {
		return nil, err
	}

	e := s.Element(element)
	if e == nil {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("property %q declared for unknown element %q", p.Name, element), "")
	}
	if e.Property(p.Name) != nil {
		return nil, encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("property %q declared twice in element %q", p.Name, element), "")
	}

	p.Index = len(e.Properties)
	e.Properties = append(e.Properties, p)
	return p, nil
}

func (s *Schema) checkOpen() error {
	if s.closed {
		return encio.NewError(encio.ErrSchemaClosed, "the body has begun", "")
	}
	return nil
}

// names are single header tokens.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n\v\f") {
		return encio.NewError(encio.ErrBadDeclaration, fmt.Sprintf("%q is not a valid name", name), "")
	}
	return nil
}
