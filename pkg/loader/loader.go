// Package loader opens any supported 3D file and reports whether it holds a
// single mesh or a scene of named meshes.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/philipparndt/cadquote/pkg/gltfio"
	"github.com/philipparndt/cadquote/pkg/mesh"
	"github.com/philipparndt/cadquote/pkg/obj"
	"github.com/philipparndt/cadquote/pkg/stl"
)

// ErrUnsupportedFormat is returned for extensions no reader handles
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Kind tags which field of a Model is set
type Kind int

const (
	// KindSingle marks a Model holding one mesh
	KindSingle Kind = iota
	// KindScene marks a Model holding a scene of named meshes
	KindScene
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindScene:
		return "scene"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Model is either a single mesh or a scene, decided once at load time
type Model struct {
	Kind  Kind
	Mesh  *mesh.Mesh
	Scene *mesh.Scene
}

// Single wraps a mesh
func Single(m *mesh.Mesh) Model {
	return Model{Kind: KindSingle, Mesh: m}
}

// SceneModel wraps a scene
func SceneModel(s *mesh.Scene) Model {
	return Model{Kind: KindScene, Scene: s}
}

// Load reads path with the reader chosen by its extension. STL and OBJ
// produce single meshes, glTF and GLB produce scenes.
func Load(path string) (Model, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		m, err := stl.Parse(path)
		if err != nil {
			return Model{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return Single(m), nil
	case ".obj":
		m, err := obj.Parse(path)
		if err != nil {
			return Model{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return Single(m), nil
	case ".glb", ".gltf":
		s, err := gltfio.Load(path)
		if err != nil {
			return Model{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		return SceneModel(s), nil
	default:
		return Model{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadMesh loads path and flattens scenes into one mesh in world space,
// for exporters that want a single body
func LoadMesh(path string) (*mesh.Mesh, error) {
	model, err := Load(path)
	if err != nil {
		return nil, err
	}
	switch model.Kind {
	case KindScene:
		return flatten(model.Scene), nil
	default:
		return model.Mesh, nil
	}
}

func flatten(s *mesh.Scene) *mesh.Mesh {
	out := mesh.New("")
	if len(s.Instances) == 0 {
		for _, g := range s.Geometries {
			out.Triangles = append(out.Triangles, g.Mesh.Triangles...)
		}
		return out
	}
	for _, inst := range s.Instances {
		out.Triangles = append(out.Triangles, s.Geometries[inst.Geometry].Mesh.Transformed(inst.Transform).Triangles...)
	}
	return out
}
