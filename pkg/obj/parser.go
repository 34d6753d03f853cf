// Package obj reads Wavefront OBJ geometry as a single triangle mesh.
// Only vertex positions and faces are used; materials, normals and texture
// coordinates are ignored.
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/cadquote/pkg/geometry"
	"github.com/philipparndt/cadquote/pkg/mesh"
)

// Parse reads an OBJ file and returns all of its faces as one mesh
func Parse(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses OBJ data. Polygons are fan-triangulated.
func Read(reader io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	model := mesh.New("")

	var positions []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			if model.Name == "" && len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", lineNo)
			}
			var xyz [3]float64
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex coordinate: %w", lineNo, err)
				}
				xyz[i] = f
			}
			positions = append(positions, geometry.NewVector3(xyz[0], xyz[1], xyz[2]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least three vertices", lineNo)
			}
			corners := make([]geometry.Vector3, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := resolveIndex(ref, len(positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, positions[idx])
			}
			for i := 1; i+1 < len(corners); i++ {
				triangle := geometry.NewTriangle(geometry.Vector3{}, corners[0], corners[i], corners[i+1])
				triangle.Normal = triangle.CalculateNormal()
				model.AddTriangle(triangle)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}

	return model, nil
}

// resolveIndex turns a face reference such as "3", "3/1" or "-1//2" into a
// zero-based position index
func resolveIndex(ref string, count int) (int, error) {
	head, _, _ := strings.Cut(ref, "/")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", ref)
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	default:
		return 0, fmt.Errorf("face index %d out of range (have %d vertices)", n, count)
	}
}
