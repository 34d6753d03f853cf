// Package testutil builds geometry fixtures and writes them to disk in the
// formats the loaders understand.
package testutil

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/cadquote/pkg/geometry"
	"github.com/philipparndt/cadquote/pkg/gltfio"
	"github.com/philipparndt/cadquote/pkg/mesh"
)

// Box returns the 12 outward-facing triangles of an axis-aligned box
// with its minimum corner at origin
func Box(origin, size geometry.Vector3) []geometry.Triangle {
	p := func(x, y, z float64) geometry.Vector3 {
		return geometry.NewVector3(origin.X+x*size.X, origin.Y+y*size.Y, origin.Z+z*size.Z)
	}
	faces := [][4]geometry.Vector3{
		{p(0, 0, 0), p(0, 1, 0), p(1, 1, 0), p(1, 0, 0)}, // bottom
		{p(0, 0, 1), p(1, 0, 1), p(1, 1, 1), p(0, 1, 1)}, // top
		{p(0, 0, 0), p(1, 0, 0), p(1, 0, 1), p(0, 0, 1)}, // front
		{p(0, 1, 0), p(0, 1, 1), p(1, 1, 1), p(1, 1, 0)}, // back
		{p(0, 0, 0), p(0, 0, 1), p(0, 1, 1), p(0, 1, 0)}, // left
		{p(1, 0, 0), p(1, 1, 0), p(1, 1, 1), p(1, 0, 1)}, // right
	}

	triangles := make([]geometry.Triangle, 0, 12)
	for _, f := range faces {
		for _, tri := range [][3]geometry.Vector3{{f[0], f[1], f[2]}, {f[0], f[2], f[3]}} {
			t := geometry.NewTriangle(geometry.Vector3{}, tri[0], tri[1], tri[2])
			t.Normal = t.CalculateNormal()
			triangles = append(triangles, t)
		}
	}
	return triangles
}

// UnitCube is Box at the origin with edge length 1
func UnitCube() []geometry.Triangle {
	return Box(geometry.Vector3{}, geometry.NewVector3(1, 1, 1))
}

// BoxMesh wraps Box in a named mesh
func BoxMesh(name string, origin, size geometry.Vector3) *mesh.Mesh {
	m := mesh.New(name)
	m.Triangles = Box(origin, size)
	return m
}

// ASCIISTL renders triangles as an ASCII STL document
func ASCIISTL(name string, triangles []geometry.Triangle) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "solid %s\n", name)
	for _, t := range triangles {
		fmt.Fprintf(&buf, "  facet normal %g %g %g\n", t.Normal.X, t.Normal.Y, t.Normal.Z)
		buf.WriteString("    outer loop\n")
		for _, v := range t.Vertices() {
			fmt.Fprintf(&buf, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		buf.WriteString("    endloop\n")
		buf.WriteString("  endfacet\n")
	}
	fmt.Fprintf(&buf, "endsolid %s\n", name)
	return buf.Bytes()
}

// BinarySTL renders triangles as a binary STL with the given header text
// (padded or cut to 80 bytes)
func BinarySTL(header string, triangles []geometry.Triangle) []byte {
	return BinarySTLWithCount(header, uint32(len(triangles)), triangles)
}

// BinarySTLWithCount is BinarySTL with an arbitrary declared triangle count
func BinarySTLWithCount(header string, count uint32, triangles []geometry.Triangle) []byte {
	buf := make([]byte, 84, 84+50*len(triangles))
	copy(buf[:80], header)
	binary.LittleEndian.PutUint32(buf[80:], count)

	record := make([]byte, 50)
	for _, t := range triangles {
		for i, v := range []geometry.Vector3{t.Normal, t.V1, t.V2, t.V3} {
			binary.LittleEndian.PutUint32(record[i*12:], math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(record[i*12+4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(record[i*12+8:], math.Float32bits(float32(v.Z)))
		}
		buf = append(buf, record...)
	}
	return buf
}

// GLB builds a GLB container: 12-byte header followed by a single chunk
func GLB(chunkType uint32, payload []byte) []byte {
	total := 12 + 8 + len(payload)
	buf := make([]byte, 20, total)
	copy(buf[0:4], "glTF")
	binary.LittleEndian.PutUint32(buf[4:], 2)
	binary.LittleEndian.PutUint32(buf[8:], uint32(total))
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[16:], chunkType)
	return append(buf, payload...)
}

// WriteFile writes data to name inside a fresh temp dir and returns the path
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// WriteGLBScene writes the meshes as a multi-node GLB file and returns its
// path
func WriteGLBScene(t testing.TB, name string, meshes ...*mesh.Mesh) string {
	t.Helper()
	scene := mesh.NewScene()
	for _, m := range meshes {
		scene.AddGeometry(m.Name, m)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := gltfio.WriteScene(path, scene); err != nil {
		t.Fatalf("failed to write GLB fixture: %v", err)
	}
	return path
}
