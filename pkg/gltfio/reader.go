// Package gltfio reads glTF/GLB assets into multi-body scenes and writes
// meshes back out as GLB, the interchange format the renderer consumes.
package gltfio

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/philipparndt/cadquote/pkg/geometry"
	"github.com/philipparndt/cadquote/pkg/mesh"
)

// maxNodeDepth guards against cyclic node hierarchies in malformed files
const maxNodeDepth = 256

// Load opens a .gltf or .glb file and converts it to a scene
func Load(path string) (*mesh.Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF file: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a decoded glTF document into a scene. Each triangle
// primitive becomes one geometry, in document order; point and line
// primitives are dropped. Meshes with several primitives name their
// geometries "<mesh>_<primitive index>".
func FromDocument(doc *gltf.Document) (*mesh.Scene, error) {
	scene := mesh.NewScene()
	geometryOf := make(map[int][]int, len(doc.Meshes))

	for i, m := range doc.Meshes {
		for p, prim := range m.Primitives {
			triangles, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", i, p, err)
			}
			if len(triangles) == 0 {
				continue
			}
			name := m.Name
			if len(m.Primitives) > 1 && name != "" {
				name = fmt.Sprintf("%s_%d", name, p)
			}
			body := mesh.New(name)
			body.Triangles = triangles
			geometryOf[i] = append(geometryOf[i], scene.AddGeometry(name, body))
		}
	}

	for _, root := range rootNodes(doc) {
		if err := placeNode(doc, scene, geometryOf, root, geometry.Identity(), 0); err != nil {
			return nil, err
		}
	}

	return scene, nil
}

func placeNode(doc *gltf.Document, scene *mesh.Scene, geometryOf map[int][]int, index int, parent geometry.Matrix4, depth int) error {
	if depth > maxNodeDepth {
		return fmt.Errorf("node hierarchy deeper than %d levels", maxNodeDepth)
	}
	if index < 0 || index >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", index)
	}
	node := doc.Nodes[index]
	world := parent.Mul(nodeTransform(node))

	if node.Mesh != nil {
		for _, g := range geometryOf[*node.Mesh] {
			scene.AddInstance(g, world)
		}
	}
	for _, child := range node.Children {
		if err := placeNode(doc, scene, geometryOf, child, world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// rootNodes returns the nodes of the default scene, falling back to every
// node that is nobody's child when the file declares no scenes
func rootNodes(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		sceneIndex := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			sceneIndex = *doc.Scene
		}
		return doc.Scenes[sceneIndex].Nodes
	}

	isChild := make(map[int]bool)
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			isChild[child] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeTransform prefers an explicit matrix and otherwise composes TRS.
// Zero-valued rotation and scale are treated as their glTF defaults.
func nodeTransform(node *gltf.Node) geometry.Matrix4 {
	m := geometry.Matrix4(node.Matrix)
	if !m.IsZero() && m != geometry.Identity() {
		return m
	}

	rotation := node.Rotation
	if rotation == [4]float64{} {
		rotation = [4]float64{0, 0, 0, 1}
	}
	scale := node.Scale
	if scale == [3]float64{} {
		scale = [3]float64{1, 1, 1}
	}
	return geometry.ComposeTRS(
		geometry.NewVector3(node.Translation[0], node.Translation[1], node.Translation[2]),
		rotation,
		geometry.NewVector3(scale[0], scale[1], scale[2]),
	)
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]geometry.Triangle, error) {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		return nil, nil
	}

	posIndex, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	if posIndex < 0 || posIndex >= len(doc.Accessors) {
		return nil, fmt.Errorf("position accessor %d out of range", posIndex)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	var indices []uint32
	if prim.Indices != nil {
		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return nil, fmt.Errorf("index accessor %d out of range", *prim.Indices)
		}
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("vertex index %d out of range (have %d positions)", idx, len(positions))
		}
	}

	corner := func(i uint32) geometry.Vector3 {
		p := positions[indices[i]]
		return geometry.NewVector3(float64(p[0]), float64(p[1]), float64(p[2]))
	}
	emit := func(out []geometry.Triangle, a, b, c uint32) []geometry.Triangle {
		t := geometry.NewTriangle(geometry.Vector3{}, corner(a), corner(b), corner(c))
		t.Normal = t.CalculateNormal()
		return append(out, t)
	}

	n := uint32(len(indices))
	var triangles []geometry.Triangle
	switch prim.Mode {
	case gltf.PrimitiveTriangles:
		for i := uint32(0); i+2 < n; i += 3 {
			triangles = emit(triangles, i, i+1, i+2)
		}
	case gltf.PrimitiveTriangleStrip:
		for i := uint32(0); i+2 < n; i++ {
			if i%2 == 0 {
				triangles = emit(triangles, i, i+1, i+2)
			} else {
				triangles = emit(triangles, i+1, i, i+2)
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := uint32(1); i+1 < n; i++ {
			triangles = emit(triangles, 0, i, i+1)
		}
	}
	return triangles, nil
}
