// Package sniff turns CAD and mesh files into a string for textual
// inspection. Text formats are returned verbatim; the binary STL and GLB
// containers are reduced to a summary line or their embedded JSON chunk.
package sniff

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/philipparndt/cadquote/pkg/stl"
)

const (
	glbHeaderSize      = 12
	glbChunkHeaderSize = 8

	// GLBChunkJSON is the little-endian chunk type of a GLB JSON chunk ("JSON")
	GLBChunkJSON uint32 = 0x4E4F534A
)

// textExtensions are CAD formats stored as plain text
var textExtensions = map[string]bool{
	".step": true,
	".stp":  true,
	".iges": true,
	".igs":  true,
	".dxf":  true,
	".obj":  true,
	".ifc":  true,
	".brep": true,
	".gltf": true,
}

// Stringify returns a textual representation of the file at path.
// File system errors are returned as-is so callers can match them with
// errors.Is.
func Stringify(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case textExtensions[ext]:
		return readText(path)
	case ext == ".stl":
		return stringifySTL(path)
	case ext == ".glb":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return GLBJSON(data), nil
	default:
		return readText(path)
	}
}

func stringifySTL(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	preamble := make([]byte, stl.HeaderSize+4)
	n, err := io.ReadFull(file, preamble)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if n < len(preamble) {
		// too short for a binary header and count
		return readText(path)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	head := make([]byte, stl.SniffSize)
	n, err = io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	if stl.IsASCII(head[:n]) {
		return readText(path)
	}

	return BinarySTLSummary(preamble), nil
}

// BinarySTLSummary formats the one-line summary of a binary STL from its
// 84-byte preamble. The declared triangle count is reported as-is.
func BinarySTLSummary(preamble []byte) string {
	header := DecodeText(preamble[:stl.HeaderSize])
	count := binary.LittleEndian.Uint32(preamble[stl.HeaderSize : stl.HeaderSize+4])
	return fmt.Sprintf("STL_BINARY header=%s triangles=%d", strings.TrimFunc(header, isStripSpace), count)
}

// isStripSpace also treats the ASCII separators 0x1c-0x1f as whitespace,
// matching how headers written by Python tools are stripped.
func isStripSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// GLBJSON extracts the JSON chunk that must follow the GLB header. Any
// malformed or truncated container yields the empty string.
func GLBJSON(data []byte) string {
	if len(data) < glbHeaderSize {
		return ""
	}
	offset := glbHeaderSize
	if len(data) < offset+glbChunkHeaderSize {
		return ""
	}
	length := uint64(binary.LittleEndian.Uint32(data[offset:]))
	chunkType := binary.LittleEndian.Uint32(data[offset+4:])

	start := uint64(offset + glbChunkHeaderSize)
	if chunkType != GLBChunkJSON || uint64(len(data)) < start+length {
		return ""
	}
	return DecodeText(data[start : start+length])
}

// DecodeText decodes UTF-8, replacing each maximal invalid subpart with a
// single U+FFFD. Valid input is returned unchanged.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var sb strings.Builder
	sb.Grow(len(data) + 8)
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			size = invalidPrefix(data)
		}
		sb.WriteRune(r)
		data = data[size:]
	}
	return sb.String()
}

// invalidPrefix returns the length of the truncated sequence at the start of
// data: the lead byte plus every continuation byte that could still have
// completed a valid character. Stray bytes count as one.
func invalidPrefix(data []byte) int {
	lo, hi := byte(0x80), byte(0xBF)
	var want int
	switch c := data[0]; {
	case c >= 0xC2 && c <= 0xDF:
		want = 2
	case c == 0xE0:
		want, lo = 3, 0xA0
	case c == 0xED:
		want, hi = 3, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		want = 3
	case c == 0xF0:
		want, lo = 4, 0x90
	case c == 0xF4:
		want, hi = 4, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		want = 4
	default:
		return 1
	}
	n := 1
	for n < want && n < len(data) && data[n] >= lo && data[n] <= hi {
		n++
		lo, hi = 0x80, 0xBF
	}
	return n
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodeText(data), nil
}
