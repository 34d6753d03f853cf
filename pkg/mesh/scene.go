package mesh

import (
	"fmt"

	"github.com/philipparndt/cadquote/pkg/geometry"
)

// Geometry is one named body of a scene
type Geometry struct {
	Name string
	Mesh *Mesh
}

// Instance places a scene geometry in world space
type Instance struct {
	Geometry  int
	Transform geometry.Matrix4
}

// Scene is an ordered collection of named meshes plus the node instances
// that place them. A scene without instances is measured in mesh space.
type Scene struct {
	Geometries []Geometry
	Instances  []Instance

	names map[string]struct{}
}

// NewScene creates an empty scene
func NewScene() *Scene {
	return &Scene{names: make(map[string]struct{})}
}

// AddGeometry appends a mesh under a unique name and returns its index.
// Blank names become "geometry_<n>"; duplicates get a numeric suffix.
func (s *Scene) AddGeometry(name string, m *Mesh) int {
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	if name == "" {
		name = fmt.Sprintf("geometry_%d", len(s.Geometries))
	}
	unique := name
	for i := 1; ; i++ {
		if _, taken := s.names[unique]; !taken {
			break
		}
		unique = fmt.Sprintf("%s_%d", name, i)
	}
	s.names[unique] = struct{}{}
	s.Geometries = append(s.Geometries, Geometry{Name: unique, Mesh: m})
	return len(s.Geometries) - 1
}

// AddInstance places geometry index g with the given world transform
func (s *Scene) AddInstance(g int, transform geometry.Matrix4) {
	s.Instances = append(s.Instances, Instance{Geometry: g, Transform: transform})
}

// Bounds returns the combined world-space bounds of the scene. ok is false
// for a scene with no triangles.
func (s *Scene) Bounds() (bbox geometry.BoundingBox, ok bool) {
	bbox = geometry.NewBoundingBox()
	if len(s.Instances) == 0 {
		for _, g := range s.Geometries {
			bbox.Union(g.Mesh.BoundingBox())
		}
	} else {
		for _, inst := range s.Instances {
			if inst.Geometry < 0 || inst.Geometry >= len(s.Geometries) {
				continue
			}
			for _, triangle := range s.Geometries[inst.Geometry].Mesh.Triangles {
				for _, v := range triangle.Vertices() {
					bbox.Extend(inst.Transform.TransformPoint(v))
				}
			}
		}
	}
	return bbox, !bbox.IsEmpty()
}
