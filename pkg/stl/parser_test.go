package stl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipparndt/cadquote/internal/testutil"
	"github.com/philipparndt/cadquote/pkg/geometry"
	"github.com/philipparndt/cadquote/pkg/stl"
)

func TestIsASCII(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"ascii", "solid cube\n facet normal 0 0 1\n", true},
		{"binary header starting with solid", "solid exported by CAD tool\x00\x00", false},
		{"no solid prefix", "facet normal 0 0 1", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stl.IsASCII([]byte(tt.data)))
		})
	}
}

func TestIsASCIIOnlyLooksAtSniffWindow(t *testing.T) {
	data := make([]byte, 0, 600)
	data = append(data, "solid "...)
	for len(data) < stl.SniffSize {
		data = append(data, ' ')
	}
	data = append(data, "facet"...)

	assert.False(t, stl.IsASCII(data))
}

func TestParseASCII(t *testing.T) {
	path := testutil.WriteFile(t, "cube.stl", testutil.ASCIISTL("cube", testutil.UnitCube()))

	m, err := stl.Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "cube", m.Name)
	assert.Equal(t, 12, m.TriangleCount())
	assert.Equal(t, geometry.NewVector3(1, 1, 1), m.Extents())
}

func TestParseASCIIVariants(t *testing.T) {
	cube := testutil.ASCIISTL("cube", testutil.UnitCube())
	longName := testutil.ASCIISTL(strings.Repeat("x", 600), testutil.UnitCube())

	tests := []struct {
		name string
		data []byte
	}{
		{"byte order mark", append([]byte("\xEF\xBB\xBF"), cube...)},
		{"leading whitespace", append([]byte("  \n\t"), cube...)},
		{"first facet past sniff window", longName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := stl.ParseBytes(tt.data)
			require.NoError(t, err)
			assert.Equal(t, 12, m.TriangleCount())
			assert.Equal(t, geometry.NewVector3(1, 1, 1), m.Extents())
		})
	}
}

func TestParseBinary(t *testing.T) {
	data := testutil.BinarySTL("solid but actually binary", testutil.Box(geometry.Vector3{}, geometry.NewVector3(2, 2, 2)))
	m, err := stl.ParseBytes(data)
	require.NoError(t, err)

	assert.Equal(t, "solid but actually binary", m.Name)
	assert.Equal(t, 12, m.TriangleCount())
	volume, ok := m.Volume()
	require.True(t, ok)
	assert.InDelta(t, 8.0, volume, 1e-6)
}

func TestParseBinaryTruncated(t *testing.T) {
	data := testutil.BinarySTLWithCount("short", 5, testutil.UnitCube()[:2])

	_, err := stl.ParseBytes(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, stl.ErrTruncated))
}

func TestParseBinaryTooShortForPreamble(t *testing.T) {
	_, err := stl.ParseBytes([]byte("tiny"))
	assert.ErrorIs(t, err, stl.ErrTruncated)
}

func TestParseMissingFile(t *testing.T) {
	_, err := stl.Parse("does-not-exist.stl")
	assert.Error(t, err)
}
