// Package mesh holds triangle meshes and multi-body scenes together with the
// geometric measurements the quoting pipeline reports for them.
package mesh

import (
	"github.com/philipparndt/cadquote/pkg/geometry"
)

// Mesh is a triangle soup with an optional name
type Mesh struct {
	Name      string
	Triangles []geometry.Triangle
}

// New creates an empty mesh
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]geometry.Triangle, 0),
	}
}

// AddTriangle adds a triangle to the mesh
func (m *Mesh) AddTriangle(triangle geometry.Triangle) {
	m.Triangles = append(m.Triangles, triangle)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// BoundingBox calculates the bounding box of the entire mesh
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, triangle := range m.Triangles {
		bbox.Extend(triangle.V1)
		bbox.Extend(triangle.V2)
		bbox.Extend(triangle.V3)
	}
	return bbox
}

// Extents returns the bounding box dimensions, zero for an empty mesh
func (m *Mesh) Extents() geometry.Vector3 {
	return m.BoundingBox().Size()
}

// SurfaceArea calculates the total surface area of the mesh
func (m *Mesh) SurfaceArea() float64 {
	totalArea := 0.0
	for _, triangle := range m.Triangles {
		totalArea += triangle.Area()
	}
	return totalArea
}

// Volume returns the enclosed volume. Open or non-manifold meshes enclose
// nothing and report ok == false.
func (m *Mesh) Volume() (volume float64, ok bool) {
	if !m.IsWatertight() {
		return 0, false
	}
	total := 0.0
	for _, triangle := range m.Triangles {
		total += triangle.SignedVolume()
	}
	if total < 0 {
		total = -total
	}
	return total, true
}

// IsWatertight reports whether every edge is shared by exactly two
// triangles. Vertices are matched by position since STL files repeat them
// per facet.
func (m *Mesh) IsWatertight() bool {
	if len(m.Triangles) == 0 {
		return false
	}
	edges := make(map[edgeKey]int, len(m.Triangles)*3/2)
	for _, triangle := range m.Triangles {
		vs := triangle.Vertices()
		for i := 0; i < 3; i++ {
			edges[newEdgeKey(vs[i], vs[(i+1)%3])]++
		}
	}
	for _, count := range edges {
		if count != 2 {
			return false
		}
	}
	return true
}

// Transformed returns a copy of the mesh with m applied to every vertex
func (m *Mesh) Transformed(t geometry.Matrix4) *Mesh {
	out := &Mesh{Name: m.Name, Triangles: make([]geometry.Triangle, len(m.Triangles))}
	for i, triangle := range m.Triangles {
		out.Triangles[i] = triangle.Transform(t)
	}
	return out
}

type edgeKey struct {
	a, b geometry.Vector3
}

func newEdgeKey(a, b geometry.Vector3) edgeKey {
	if less(b, a) {
		a, b = b, a
	}
	return edgeKey{a: a, b: b}
}

func less(a, b geometry.Vector3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
