package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/cadquote/pkg/geometry"
	"github.com/philipparndt/cadquote/pkg/mesh"
)

const (
	// HeaderSize is the fixed binary STL header length
	HeaderSize = 80
	// SniffSize is how much of the file is inspected to tell ASCII from binary
	SniffSize = 512

	countSize  = 4
	recordSize = 50
)

// ErrTruncated is returned when a binary STL declares more triangles than
// the file holds
var ErrTruncated = errors.New("truncated binary STL")

// IsASCII reports whether the leading bytes of a file look like ASCII STL.
// Binary headers are free-form and often begin with "solid" too, so a
// "facet" keyword must also appear within the first SniffSize bytes.
func IsASCII(data []byte) bool {
	if len(data) > SniffSize {
		data = data[:SniffSize]
	}
	return bytes.HasPrefix(data, []byte("solid")) && bytes.Contains(data, []byte("facet"))
}

// Parse reads an STL file and returns its mesh.
// It automatically detects whether the file is ASCII or binary format
func Parse(filename string) (*mesh.Mesh, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses an in-memory STL file. A file whose length matches the
// declared triangle count exactly is binary; anything else starting with
// "solid" after an optional BOM and leading whitespace is ASCII.
func ParseBytes(data []byte) (*mesh.Mesh, error) {
	if isExactBinary(data) {
		return parseBinary(data)
	}
	text := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if bytes.HasPrefix(text, []byte("solid")) {
		return parseASCII(bytes.NewReader(text))
	}
	return parseBinary(data)
}

var utf8BOM = []byte("\xEF\xBB\xBF")

func isExactBinary(data []byte) bool {
	if len(data) < HeaderSize+countSize {
		return false
	}
	count := uint64(binary.LittleEndian.Uint32(data[HeaderSize:]))
	return uint64(HeaderSize+countSize)+count*recordSize == uint64(len(data))
}

// parseASCII parses an ASCII STL file
func parseASCII(reader io.Reader) (*mesh.Mesh, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	model := mesh.New("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				v, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("invalid facet normal: %w", err)
				}
				currentNormal = v
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("invalid vertex line: %q", scanner.Text())
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("invalid vertex: %w", err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(
					currentNormal,
					vertices[0],
					vertices[1],
					vertices[2],
				))
			}
			vertices = vertices[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseVector(fields []string) (geometry.Vector3, error) {
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		out[i] = v
	}
	return geometry.NewVector3(out[0], out[1], out[2]), nil
}

// parseBinary parses a binary STL file. The declared triangle count must be
// backed by 50 bytes per triangle; trailing bytes are ignored.
func parseBinary(data []byte) (*mesh.Mesh, error) {
	if len(data) < HeaderSize+countSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the 84-byte preamble", ErrTruncated, len(data))
	}

	model := mesh.New(strings.TrimSpace(string(bytes.TrimRight(data[:HeaderSize], "\x00"))))

	triangleCount := binary.LittleEndian.Uint32(data[HeaderSize:])
	body := data[HeaderSize+countSize:]
	if uint64(len(body)) < uint64(triangleCount)*recordSize {
		return nil, fmt.Errorf("%w: header declares %d triangles but only %d bytes follow",
			ErrTruncated, triangleCount, len(body))
	}

	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		record := body[int(i)*recordSize:]
		// normal, three vertices, then a 2-byte attribute count we ignore
		model.AddTriangle(geometry.NewTriangle(
			readVector(record[0:]),
			readVector(record[12:]),
			readVector(record[24:]),
			readVector(record[36:]),
		))
	}

	return model, nil
}

func readVector(b []byte) geometry.Vector3 {
	return geometry.NewVector3(
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	)
}
