package gltfio

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/philipparndt/cadquote/pkg/mesh"
)

// ErrEmptyMesh is returned when there is nothing to export
var ErrEmptyMesh = errors.New("mesh has no triangles")

// WriteMesh exports a single mesh as a one-node GLB file
func WriteMesh(path string, m *mesh.Mesh) error {
	scene := mesh.NewScene()
	scene.AddGeometry(m.Name, m)
	return WriteScene(path, scene)
}

// WriteScene exports every geometry of the scene as its own mesh and root
// node. Instance transforms are not written; geometry is exported in mesh
// space.
func WriteScene(path string, scene *mesh.Scene) error {
	doc := gltf.NewDocument()

	for _, g := range scene.Geometries {
		if g.Mesh.TriangleCount() == 0 {
			continue
		}

		count := g.Mesh.TriangleCount() * 3
		positions := make([][3]float32, 0, count)
		normals := make([][3]float32, 0, count)
		indices := make([]uint32, 0, count)

		for _, triangle := range g.Mesh.Triangles {
			normal := triangle.CalculateNormal().Float32()
			for _, v := range triangle.Vertices() {
				indices = append(indices, uint32(len(positions)))
				positions = append(positions, v.Float32())
				normals = append(normals, normal)
			}
		}

		posAccessor := modeler.WritePosition(doc, positions)
		normalAccessor := modeler.WriteNormal(doc, normals)
		indexAccessor := modeler.WriteIndices(doc, indices)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: g.Name,
			Primitives: []*gltf.Primitive{{
				Indices: gltf.Index(indexAccessor),
				Attributes: map[string]int{
					gltf.POSITION: posAccessor,
					gltf.NORMAL:   normalAccessor,
				},
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: g.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if len(doc.Meshes) == 0 {
		return ErrEmptyMesh
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("failed to write GLB: %w", err)
	}
	return nil
}
