package mesh_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/stewi1014/ply/encio"
	"github.com/stewi1014/ply/encode"
	"github.com/stewi1014/ply/mesh"
)

const coloured = `ply
format ascii 1.0
comment a unit quad, a triangle and a degenerate face
element vertex 5
property float x
property float y
property float z
property float nx
property float ny
property float nz
property uchar red
property uchar green
property uchar blue
property float s
property float t
element edge 1
property int vertex1
property int vertex2
element face 3
property list uchar uint vertex_index
end_header
0 0 0 0 0 1 255 0 51 0 0
1 0 0 0 0 1 255 0 51 1 0
1 1 0 0 0 1 255 0 51 1 1
0 1 0 0 0 1 255 0 51 0 1
0 0 1 0 0 1 0 255 0 0.5 0.5
0 1
4 0 1 2 3
3 0 1 4
2 3 4
`

func TestImport(t *testing.T) {
	m, err := mesh.Read(strings.NewReader(coloured))
	if !td.CmpNoError(t, err) {
		return
	}

	td.Cmp(t, m.VertexCount(), 5)
	td.Cmp(t, m.TriangleCount(), 3)
	td.CmpFalse(t, m.IsEmpty())

	td.Cmp(t, m.Vertices[2], r3.Vec{X: 1, Y: 1, Z: 0})
	td.Cmp(t, m.Normals[4], r3.Vec{X: 0, Y: 0, Z: 1})
	td.Cmp(t, m.Colors[0], mesh.Color{1, 0, float32(51.0 / 255), 1})
	td.Cmp(t, m.Colors[4], mesh.Color{0, 1, 0, 1})
	td.Cmp(t, m.TexCoords[2], [2]float32{1, 1})
	td.Cmp(t, m.TexCoords[4], [2]float32{0.5, 0.5})

	// the quad is split into a fan, the two vertex face is dropped
	td.Cmp(t, m.Indices, []uint32{0, 1, 2, 0, 2, 3, 0, 1, 4})

	td.Cmp(t, m.Bounds(), r3.Box{Min: r3.Vec{}, Max: r3.Vec{X: 1, Y: 1, Z: 1}})
	td.Cmp(t, m.Area(), td.Between(1.5-1e-9, 1.5+1e-9))
}

func TestImportFloatColors(t *testing.T) {
	m, err := mesh.Read(strings.NewReader(`ply
format ascii 1.0
element vertex 1
property double x
property double y
property double z
property float red
property float green
property float blue
property float alpha
end_header
1 2 3 0.25 0.5 0.75 0.5
`))
	if !td.CmpNoError(t, err) {
		return
	}

	td.Cmp(t, m.Vertices, []r3.Vec{{X: 1, Y: 2, Z: 3}})
	td.Cmp(t, m.Colors, []mesh.Color{{0.25, 0.5, 0.75, 0.5}})
	td.CmpNil(t, m.Normals)
	td.CmpNil(t, m.TexCoords)
	td.CmpTrue(t, m.IsEmpty())
}

func TestImportWithoutVertices(t *testing.T) {
	m, err := mesh.Read(strings.NewReader("ply\nformat ascii 1.0\nelement point 1\nproperty float w\nend_header\n1\n"))
	td.CmpNoError(t, err)
	td.Cmp(t, m.VertexCount(), 0)
	td.Cmp(t, m.Bounds(), r3.Box{})
}

func TestImportInvalid(t *testing.T) {
	testCases := map[string]string{
		"negative index": "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 -2\n",
		"index too big":  "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 3\n",
	}

	for name, s := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := mesh.Read(strings.NewReader(s))
			td.CmpErrorIs(t, err, encio.ErrMalformedValue)
		})
	}
}

func TestImportHugeCount(t *testing.T) {
	testCases := map[string]string{
		"vertices": "ply\nformat ascii 1.0\nelement vertex 100000000000000\nproperty float x\nproperty float y\nproperty float z\nproperty float nx\nproperty float ny\nproperty float nz\nproperty uchar red\nproperty uchar green\nproperty uchar blue\nproperty float u\nproperty float v\nend_header\n0 0 0 0 0 1 1 2 3 0 0\n",
		"faces":    "ply\nformat ascii 1.0\nelement vertex 3\nproperty float x\nproperty float y\nproperty float z\nelement face 100000000000000\nproperty list uchar int vertex_indices\nend_header\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n",
		"truncated": "ply\nformat binary_little_endian 1.0\nelement vertex 100000000000000\nproperty float x\nproperty float y\nproperty float z\nend_header\n\x00\x00",
	}

	for name, s := range testCases {
		t.Run(name, func(t *testing.T) {
			m, err := mesh.Read(strings.NewReader(s))
			td.CmpNil(t, m)
			td.CmpTrue(t, errors.Is(err, encio.ErrEndOfInput) || errors.Is(err, encio.ErrTruncated), err)
		})
	}
}

func quad() *mesh.Mesh {
	return &mesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: -0.5},
		},
		Normals: []r3.Vec{
			{X: 0, Y: 0, Z: 1},
			{X: 0, Y: 0, Z: 1},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: 0, Z: 0},
		},
		Colors: []mesh.Color{
			{1, 0, 0, 1},
			{0, 1, 0, 1},
			{0, 0, 1, 0},
			{float32(51.0 / 255), 1, 1, 1},
		},
		TexCoords: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 0.25}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestExportRoundTrip(t *testing.T) {
	for _, f := range []encode.Format{encode.ASCII, encode.BinaryLittleEndian, encode.BinaryBigEndian} {
		t.Run(f.String(), func(t *testing.T) {
			buff := new(bytes.Buffer)
			td.CmpNoError(t, quad().Write(buff, f))

			m, err := mesh.Read(buff)
			td.CmpNoError(t, err)
			td.Cmp(t, m, quad())
		})
	}
}

func TestExportHeader(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}},
		Indices:  []uint32{0, 1, 2},
	}

	buff := new(bytes.Buffer)
	td.CmpNoError(t, m.Write(buff, encode.ASCII))
	td.Cmp(t, buff.String(), `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
0 1 0
3 0 1 2
`)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	td.CmpNoError(t, quad().Save(path, encode.BinaryBigEndian))

	m, err := mesh.Load(path)
	td.CmpNoError(t, err)
	td.Cmp(t, m, quad())

	_, err = mesh.Load(filepath.Join(t.TempDir(), "missing.ply"))
	td.CmpError(t, err)
}

func TestComputeNormals(t *testing.T) {
	m := quad()
	m.Vertices[3].Z = 0
	m.Vertices = append(m.Vertices, r3.Vec{X: 5, Y: 5, Z: 5})
	m.Normals = nil
	m.Colors = nil
	m.TexCoords = nil

	m.ComputeNormals()
	td.Cmp(t, m.Normals, []r3.Vec{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 1},
		{},
	})
}

func TestWeld(t *testing.T) {
	// two triangles sharing an edge, with every corner duplicated
	m := &mesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1},
			{X: 0, Y: 0}, {X: 1, Y: 1 + 1e-12}, {X: 0, Y: 1},
			{X: 2, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 3},
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5, 6, 7, 8},
	}

	m.Weld(1e-6)
	td.Cmp(t, m.Vertices, []r3.Vec{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3},
	})
	td.Cmp(t, m.Indices, []uint32{0, 1, 2, 0, 2, 3})
	td.CmpNoError(t, m.Validate())
}

func TestValidate(t *testing.T) {
	testCases := map[string]func(m *mesh.Mesh){
		"normals":    func(m *mesh.Mesh) { m.Normals = m.Normals[:1] },
		"colors":     func(m *mesh.Mesh) { m.Colors = append(m.Colors, mesh.Color{}) },
		"tex coords": func(m *mesh.Mesh) { m.TexCoords = m.TexCoords[:3] },
		"partial":    func(m *mesh.Mesh) { m.Indices = m.Indices[:4] },
		"range":      func(m *mesh.Mesh) { m.Indices[5] = 4 },
	}

	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			m := quad()
			mutate(m)
			td.CmpErrorIs(t, m.Validate(), encio.ErrMalformedValue)
			td.CmpErrorIs(t, m.Write(new(bytes.Buffer), encode.ASCII), encio.ErrMalformedValue)
		})
	}

	td.CmpNoError(t, quad().Validate())
}
