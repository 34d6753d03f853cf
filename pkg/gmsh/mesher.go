// Package gmsh tessellates boundary-representation CAD files (STEP, IGES,
// BREP) into STL surface meshes with the gmsh command line tool.
package gmsh

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/internal/toolexec"
)

const installHint = "Please install gmsh from https://gmsh.info/"

// Mesher runs gmsh in batch mode. Each run is its own gmsh session: the
// process initializes the OpenCASCADE kernel, meshes, writes and exits, and
// a canceled context kills it.
type Mesher struct {
	binary string
	logger *zap.Logger
}

// NewMesher creates a mesher. binary may be empty to look up "gmsh" on PATH.
func NewMesher(binary string, logger *zap.Logger) *Mesher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mesher{binary: binary, logger: logger}
}

// Args returns the gmsh arguments for a 2-D surface mesh of src written as
// STL to dst. No volume mesh is generated.
func Args(src, dst string) []string {
	return []string{
		src,
		"-2",
		"-format", "stl",
		"-o", dst,
		"-v", "2",
	}
}

// Tessellate meshes src and writes the surface as STL to dstSTL
func (m *Mesher) Tessellate(ctx context.Context, src, dstSTL string) error {
	binary, err := toolexec.Lookup("gmsh", m.binary, installHint)
	if err != nil {
		return err
	}

	m.logger.Info("meshing B-rep model", zap.String("source", src), zap.String("output", dstSTL))

	if err := toolexec.Run(ctx, m.logger, toolexec.Command{Path: binary, Args: Args(src, dstSTL)}); err != nil {
		return fmt.Errorf("failed to mesh %s: %w", src, err)
	}
	return nil
}
