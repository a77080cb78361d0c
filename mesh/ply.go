package mesh

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/stewi1014/ply"
	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/schema"
	"github.com/stewi1014/ply/types"
)

var (
	positionNames = [3]string{"x", "y", "z"}
	normalNames   = [3]string{"nx", "ny", "nz"}
	colorNames    = [4]string{"red", "green", "blue", "alpha"}
	texCoordNames = [][2]string{{"u", "v"}, {"s", "t"}, {"texture_u", "texture_v"}}
	indexNames    = []string{"vertex_indices", "vertex_index"}
)

// maxPrealloc bounds the capacity reserved from a header's instance counts, which are not trusted.
// Slices grow past it as values arrive.
const maxPrealloc = 1 << 16

func prealloc(count int) int {
	return min(count, maxPrealloc)
}

// at returns the i'th item of s, appending fill until s is long enough.
// Instances arrive in order, so this appends at most once per instance.
func at[T any](s *[]T, i int, fill T) *T {
	for len(*s) <= i {
		*s = append(*s, fill)
	}
	return &(*s)[i]
}

// Load reads a mesh from the named PLY file.
func Load(path string) (*Mesh, error) {
	r, err := ply.Open(path, nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Import(r)
}

// Read reads a mesh from a PLY stream.
func Read(r io.Reader) (*Mesh, error) {
	pr, err := ply.NewReader(r, nil)
	if err != nil {
		return nil, err
	}
	defer pr.Close()

	return Import(pr)
}

// Import reads the body of r into a mesh. r must not have been read from yet.
// Handlers are bound for the attributes the file has, replacing any bound before.
func Import(r *ply.Reader) (*Mesh, error) {
	m := new(Mesh)
	s := r.Header().Schema

	if vertex := s.Element("vertex"); vertex != nil && has(vertex, positionNames[:]...) {
		binders := []func(*ply.Reader, *schema.Element) error{
			m.bindVertices,
			m.bindNormals,
			m.bindColors,
			m.bindTexCoords,
		}
		for _, bind := range binders {
			if err := bind(r, vertex); err != nil {
				return nil, err
			}
		}
	}

	if face := s.Element("face"); face != nil {
		if err := m.bindFaces(r, face); err != nil {
			return nil, err
		}
	}

	if err := r.Run(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// has reports whether el has every named scalar property.
func has(el *schema.Element, names ...string) bool {
	for _, name := range names {
		if p := el.Property(name); p == nil || p.List {
			return false
		}
	}
	return true
}

func bindVec(r *ply.Reader, el *schema.Element, names [3]string, dst *[]r3.Vec) error {
	*dst = make([]r3.Vec, 0, prealloc(el.Count))
	for axis, name := range names {
		axis := axis
		_, err := r.Bind(el.Name, name, func(arg ply.Argument) error {
			v := at(dst, arg.Instance, r3.Vec{})
			switch axis {
			case 0:
				v.X = arg.Value
			case 1:
				v.Y = arg.Value
			default:
				v.Z = arg.Value
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) bindVertices(r *ply.Reader, el *schema.Element) error {
	return bindVec(r, el, positionNames, &m.Vertices)
}

func (m *Mesh) bindNormals(r *ply.Reader, el *schema.Element) error {
	if !has(el, normalNames[:]...) {
		return nil
	}
	return bindVec(r, el, normalNames, &m.Normals)
}

// bindColors reads red, green and blue, and alpha if present.
// Integer channels are scaled by the maximum of their type; float channels are taken as they are.
func (m *Mesh) bindColors(r *ply.Reader, el *schema.Element) error {
	if !has(el, colorNames[:3]...) {
		return nil
	}

	m.Colors = make([]Color, 0, prealloc(el.Count))
	opaque := Color{0, 0, 0, 1}

	for channel, name := range colorNames {
		p := el.Property(name)
		if p == nil || p.List {
			continue
		}

		scale := 1.0
		if p.Type.IsInteger() {
			_, max := p.Type.Range()
			scale = 1 / max
		}

		channel := channel
		if _, err := r.Bind(el.Name, name, func(arg ply.Argument) error {
			at(&m.Colors, arg.Instance, opaque)[channel] = float32(arg.Value * scale)
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) bindTexCoords(r *ply.Reader, el *schema.Element) error {
	for _, names := range texCoordNames {
		if !has(el, names[:]...) {
			continue
		}

		m.TexCoords = make([][2]float32, 0, prealloc(el.Count))
		for i, name := range names {
			i := i
			if _, err := r.Bind(el.Name, name, func(arg ply.Argument) error {
				at(&m.TexCoords, arg.Instance, [2]float32{})[i] = float32(arg.Value)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// bindFaces reads polygons, splitting each into a fan of triangles around its first vertex.
// Polygons with fewer than three vertices are dropped.
func (m *Mesh) bindFaces(r *ply.Reader, el *schema.Element) error {
	var p *schema.Property
	for _, name := range indexNames {
		if p = el.Property(name); p != nil && p.List {
			break
		}
	}
	if p == nil || !p.List {
		return nil
	}

	m.Indices = make([]uint32, 0, prealloc(el.Count)*3)
	var polygon []uint32

	_, err := r.Bind(el.Name, p.Name, func(arg ply.Argument) error {
		if arg.IsCount() {
			polygon = polygon[:0]
			return nil
		}
		if arg.Value < 0 || arg.Value > math.MaxUint32 {
			return encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("face %v has vertex index %v", arg.Instance, arg.Value), "mesh.Import")
		}

		polygon = append(polygon, uint32(arg.Value))
		if arg.Index == arg.Length-1 {
			for k := 1; k+1 < len(polygon); k++ {
				m.Indices = append(m.Indices, polygon[0], polygon[k], polygon[k+1])
			}
		}
		return nil
	})
	return err
}

// Save writes the mesh to the named file.
func (m *Mesh) Save(path string, format encode.Format) error {
	w, err := ply.Create(path, format, nil)
	if err != nil {
		return err
	}
	if err := m.Export(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Write writes the mesh to w as a PLY stream.
func (m *Mesh) Write(w io.Writer, format encode.Format) error {
	pw, err := ply.NewWriter(w, format, nil)
	if err != nil {
		return err
	}
	if err := m.Export(pw); err != nil {
		pw.Close()
		return err
	}
	return pw.Close()
}

// Export declares the mesh's elements on w, writes the header and then the body.
// Positions, normals and texture coordinates are written as float, colours as uchar,
// and triangles as a list of int with a uchar length.
// w must be fresh, and still needs closing afterwards.
func (m *Mesh) Export(w *ply.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if err := m.declare(w); err != nil {
		return err
	}
	if err := w.WriteHeader(); err != nil {
		return err
	}

	values := make([]float64, 0, 12)
	for i, v := range m.Vertices {
		values = append(values[:0], v.X, v.Y, v.Z)
		if len(m.Normals) > 0 {
			n := m.Normals[i]
			values = append(values, n.X, n.Y, n.Z)
		}
		if len(m.Colors) > 0 {
			for _, c := range m.Colors[i] {
				values = append(values, math.Round(math.Max(0, math.Min(1, float64(c)))*255))
			}
		}
		if len(m.TexCoords) > 0 {
			values = append(values, float64(m.TexCoords[i][0]), float64(m.TexCoords[i][1]))
		}

		for _, x := range values {
			if err := w.Write(x); err != nil {
				return err
			}
		}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		values = append(values[:0], 3, float64(m.Indices[i]), float64(m.Indices[i+1]), float64(m.Indices[i+2]))
		for _, x := range values {
			if err := w.Write(x); err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *Mesh) declare(w *ply.Writer) error {
	if err := w.AddElement("vertex", len(m.Vertices)); err != nil {
		return err
	}

	var props []string
	props = append(props, positionNames[:]...)
	if len(m.Normals) > 0 {
		props = append(props, normalNames[:]...)
	}
	for _, name := range props {
		if err := w.AddProperty("vertex", name, types.Float); err != nil {
			return err
		}
	}

	if len(m.Colors) > 0 {
		for _, name := range colorNames {
			if err := w.AddProperty("vertex", name, types.Uchar); err != nil {
				return err
			}
		}
	}
	if len(m.TexCoords) > 0 {
		for _, name := range texCoordNames[0] {
			if err := w.AddProperty("vertex", name, types.Float); err != nil {
				return err
			}
		}
	}

	if err := w.AddElement("face", m.TriangleCount()); err != nil {
		return err
	}
	return w.AddListProperty("face", indexNames[0], types.Uchar, types.Int)
}
