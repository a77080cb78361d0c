// Package mesh converts PLY files to and from indexed triangle meshes.
//
// The vertex element's x, y and z properties become positions, nx, ny and nz normals,
// red, green, blue and alpha colours, and u and v (or s and t, or texture_u and texture_v) texture coordinates.
// The face element's vertex_indices (or vertex_index) lists become triangles; polygons are split into fans.
// Other elements and properties are read past and dropped.
package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/stewi1014/ply/encio"
)

// Color is a straight alpha RGBA colour with channels in [0, 1].
type Color [4]float32

// Mesh is an indexed triangle mesh.
// Per-vertex attributes are either empty, or the same length as Vertices.
type Mesh struct {
	Vertices  []r3.Vec
	Normals   []r3.Vec
	Colors    []Color
	TexCoords [][2]float32

	// Indices holds three vertex indices per triangle.
	Indices []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Triangle returns the corners of the i'th triangle.
func (m *Mesh) Triangle(i int) r3.Triangle {
	return r3.Triangle{
		m.Vertices[m.Indices[i*3]],
		m.Vertices[m.Indices[i*3+1]],
		m.Vertices[m.Indices[i*3+2]],
	}
}

// Bounds returns the axis aligned box holding every vertex.
// It is the zero Box for a mesh without vertices.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}

	b := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Min.Z = math.Min(b.Min.Z, v.Z)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
		b.Max.Z = math.Max(b.Max.Z, v.Z)
	}
	return b
}

// Area returns the total surface area of the triangles.
func (m *Mesh) Area() float64 {
	var area float64
	for i := 0; i < m.TriangleCount(); i++ {
		area += m.Triangle(i).Area()
	}
	return area
}

// ComputeNormals replaces the normals with the area weighted average of the normals of the triangles around each vertex.
// Vertices not used by any triangle get a zero normal.
func (m *Mesh) ComputeNormals() {
	normals := make([]r3.Vec, len(m.Vertices))
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		// the cross product's length is twice the area
		n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
		for _, idx := range m.Indices[i*3 : i*3+3] {
			normals[idx] = r3.Add(normals[idx], n)
		}
	}

	for i, n := range normals {
		if r3.Norm(n) > 0 {
			normals[i] = r3.Unit(n)
		}
	}
	m.Normals = normals
}

// Weld merges vertices closer than tolerance along every axis, keeping the attributes of the first,
// and drops the triangles that collapse as a result.
func (m *Mesh) Weld(tolerance float64) {
	if tolerance <= 0 {
		tolerance = 1e-9
	}

	type cell [3]int64
	cells := make(map[cell]uint32, len(m.Vertices))
	remap := make([]uint32, len(m.Vertices))
	keep := make([]int, 0, len(m.Vertices))

	for i, v := range m.Vertices {
		c := cell{
			int64(math.Round(v.X / tolerance)),
			int64(math.Round(v.Y / tolerance)),
			int64(math.Round(v.Z / tolerance)),
		}
		if j, ok := cells[c]; ok {
			remap[i] = j
			continue
		}
		cells[c] = uint32(len(keep))
		remap[i] = uint32(len(keep))
		keep = append(keep, i)
	}

	welded := &Mesh{Vertices: make([]r3.Vec, len(keep))}
	if len(m.Normals) > 0 {
		welded.Normals = make([]r3.Vec, len(keep))
	}
	if len(m.Colors) > 0 {
		welded.Colors = make([]Color, len(keep))
	}
	if len(m.TexCoords) > 0 {
		welded.TexCoords = make([][2]float32, len(keep))
	}
	for j, i := range keep {
		welded.Vertices[j] = m.Vertices[i]
		if welded.Normals != nil {
			welded.Normals[j] = m.Normals[i]
		}
		if welded.Colors != nil {
			welded.Colors[j] = m.Colors[i]
		}
		if welded.TexCoords != nil {
			welded.TexCoords[j] = m.TexCoords[i]
		}
	}

	welded.Indices = make([]uint32, 0, len(m.Indices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := remap[m.Indices[i]], remap[m.Indices[i+1]], remap[m.Indices[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		welded.Indices = append(welded.Indices, a, b, c)
	}

	*m = *welded
}

// Validate checks the attribute lengths and that every index refers to a vertex.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Normals) != 0 && len(m.Normals) != n {
		return encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v normals for %v vertices", len(m.Normals), n), "")
	}
	if len(m.Colors) != 0 && len(m.Colors) != n {
		return encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v colours for %v vertices", len(m.Colors), n), "")
	}
	if len(m.TexCoords) != 0 && len(m.TexCoords) != n {
		return encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v texture coordinates for %v vertices", len(m.TexCoords), n), "")
	}
	if len(m.Indices)%3 != 0 {
		return encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("%v indices do not make whole triangles", len(m.Indices)), "")
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return encio.NewError(encio.ErrMalformedValue, fmt.Sprintf("triangle %v refers to vertex %v of %v", i/3, idx, n), "")
		}
	}
	return nil
}
