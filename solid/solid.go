// Package solid builds meshes of simple solids by tessellating signed distance functions with marching cubes.
package solid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/stewi1014/ply/mesh"
)

// DefaultCells is the marching cubes resolution along the longest side of a solid.
const DefaultCells = 64

// ErrBadDimension is returned for sizes that are not positive, or a non-positive resolution.
var ErrBadDimension = errors.New("bad dimension")

// Box returns a mesh of a box centred on the origin.
func Box(x, y, z float64, cells int) (*mesh.Mesh, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("%w: box %v x %v x %v", ErrBadDimension, x, y, z)
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	return Tessellate(s, cells)
}

// Sphere returns a mesh of a sphere centred on the origin.
func Sphere(radius float64, cells int) (*mesh.Mesh, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: sphere radius %v", ErrBadDimension, radius)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Sphere3D: %w", err)
	}
	return Tessellate(s, cells)
}

// Cylinder returns a mesh of a cylinder along the z axis, centred on the origin.
func Cylinder(height, radius float64, cells int) (*mesh.Mesh, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("%w: cylinder height %v radius %v", ErrBadDimension, height, radius)
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	return Tessellate(s, cells)
}

// shapes build a solid fitting in a cube of the given size.
var shapes = map[string]func(size float64, cells int) (*mesh.Mesh, error){
	"box": func(size float64, cells int) (*mesh.Mesh, error) {
		return Box(size, size, size, cells)
	},
	"sphere": func(size float64, cells int) (*mesh.Mesh, error) {
		return Sphere(size/2, cells)
	},
	"cylinder": func(size float64, cells int) (*mesh.Mesh, error) {
		return Cylinder(size, size/2, cells)
	},
}

// Shapes returns the names accepted by Shape.
func Shapes() []string {
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shape returns a mesh of the named solid, fitting in a cube of the given size.
func Shape(name string, size float64, cells int) (*mesh.Mesh, error) {
	build, ok := shapes[name]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q, want one of %v", name, Shapes())
	}
	return build(size, cells)
}

// Tessellate converts s into a mesh with marching cubes, using cells cubes along the longest side of its bounding box.
// Corners shared by neighbouring triangles are welded, and vertex normals are computed from the faces.
func Tessellate(s sdf.SDF3, cells int) (*mesh.Mesh, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("%w: %v cells", ErrBadDimension, cells)
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := &mesh.Mesh{
		Vertices: make([]r3.Vec, 0, len(triangles)*3),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, r3.Vec{X: v.X, Y: v.Y, Z: v.Z})
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}

	bb := s.BoundingBox()
	size := r3.Sub(r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}, r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z})
	m.Weld(math.Max(size.X, math.Max(size.Y, size.Z)) * 1e-9)
	m.ComputeNormals()

	return m, nil
}
