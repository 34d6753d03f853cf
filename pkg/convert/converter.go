// Package convert normalizes CAD and mesh inputs to a single GLB file that
// the renderer and the metadata extractor can both consume.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/pkg/gltfio"
	"github.com/philipparndt/cadquote/pkg/loader"
)

// Mesher tessellates a source model into an STL surface mesh
type Mesher interface {
	Tessellate(ctx context.Context, src, dstSTL string) error
}

// Route says how a file extension is converted
type Route int

const (
	// Passthrough files are returned unchanged
	Passthrough Route = iota
	// Direct files are loaded as a mesh and written as GLB
	Direct
	// BRep files are meshed by the B-rep mesher first
	BRep
	// CSG files are rendered by the CSG mesher first
	CSG
)

func (r Route) String() string {
	switch r {
	case Direct:
		return "direct"
	case BRep:
		return "brep"
	case CSG:
		return "csg"
	default:
		return "passthrough"
	}
}

// RouteFor returns the conversion route for path based on its extension
func RouteFor(path string) Route {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl", ".obj":
		return Direct
	case ".step", ".stp", ".iges", ".igs", ".brep":
		return BRep
	case ".scad":
		return CSG
	default:
		return Passthrough
	}
}

// GLBPath returns path with its extension replaced by .glb
func GLBPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".glb"
}

// Converter turns inputs into GLB files next to the source
type Converter struct {
	brep   Mesher
	csg    Mesher
	logger *zap.Logger
}

// NewConverter creates a converter. brep handles STEP/IGES/BREP and csg
// handles OpenSCAD sources.
func NewConverter(brep, csg Mesher, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{brep: brep, csg: csg, logger: logger}
}

// EnsureGLB returns a path the downstream stages can load. GLB and glTF
// inputs and unknown extensions are returned as is; everything else is
// converted to <path without ext>.glb.
func (c *Converter) EnsureGLB(ctx context.Context, path string) (string, error) {
	route := RouteFor(path)
	c.logger.Debug("converting model", zap.String("path", path), zap.Stringer("route", route))

	switch route {
	case Direct:
		return c.writeGLB(path, path)
	case BRep:
		return c.viaMesher(ctx, c.brep, path)
	case CSG:
		return c.viaMesher(ctx, c.csg, path)
	default:
		return path, nil
	}
}

func (c *Converter) viaMesher(ctx context.Context, mesher Mesher, path string) (string, error) {
	if mesher == nil {
		return "", fmt.Errorf("no mesher configured for %s", filepath.Ext(path))
	}

	tmpDir, err := os.MkdirTemp("", "cadquote-mesh-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	stlPath := filepath.Join(tmpDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".stl")
	if err := mesher.Tessellate(ctx, path, stlPath); err != nil {
		return "", err
	}

	return c.writeGLB(stlPath, path)
}

// writeGLB loads meshPath and writes it as GLB next to source
func (c *Converter) writeGLB(meshPath, source string) (string, error) {
	m, err := loader.LoadMesh(meshPath)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", meshPath, err)
	}

	out := GLBPath(source)
	if err := gltfio.WriteMesh(out, m); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", out, err)
	}

	c.logger.Info("converted model to GLB",
		zap.String("source", source),
		zap.String("output", out),
		zap.Int("triangles", m.TriangleCount()))
	return out, nil
}
