// Package blender renders the eight standard quote views of a model by
// driving a host-installed Blender in background mode.
package blender

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/internal/toolexec"
)

//go:embed scripts/eight_views.py
var eightViewsScript string

const (
	// Elevation is the camera elevation shared by all views, in degrees
	Elevation = 20
	// ViewCount is the number of images produced per model
	ViewCount = 8
	// DefaultSize is the default square image size in pixels
	DefaultSize = 640
)

// ViewLabels returns the human readable label of each view in render order
func ViewLabels() []string {
	labels := make([]string, ViewCount)
	for i := range labels {
		labels[i] = fmt.Sprintf("az=%d el=%d", i*360/ViewCount, Elevation)
	}
	return labels
}

// Renderer produces view images with Blender
type Renderer struct {
	locator *Locator
	logger  *zap.Logger
}

// NewRenderer creates a renderer that finds Blender with locator
func NewRenderer(locator *Locator, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{locator: locator, logger: logger}
}

// RenderEightViews renders modelPath into outDir and returns the image paths
// in view order. A model without mesh objects renders nothing and returns an
// empty slice.
func (r *Renderer) RenderEightViews(ctx context.Context, modelPath, outDir string, size int) ([]string, error) {
	if size <= 0 {
		size = DefaultSize
	}

	binary, err := r.locator.Find(ctx)
	if err != nil {
		return nil, err
	}

	absModel, err := filepath.Abs(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", modelPath, err)
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", outDir, err)
	}

	r.logger.Info("rendering views",
		zap.String("blender", binary),
		zap.String("model", absModel),
		zap.Int("size", size))

	err = toolexec.Run(ctx, r.logger, toolexec.Command{
		Path: binary,
		Args: Args(absModel, absOut, size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render views of %s: %w", modelPath, err)
	}

	images, err := filepath.Glob(filepath.Join(absOut, "view_*.png"))
	if err != nil {
		return nil, fmt.Errorf("failed to list rendered views: %w", err)
	}
	sort.Strings(images)

	if len(images) == 0 {
		r.logger.Warn("model has no mesh objects, no views rendered", zap.String("model", absModel))
	}
	return images, nil
}

// Args builds the Blender command line for the embedded view script
func Args(modelPath, outDir string, size int) []string {
	return []string{
		"--background",
		"--factory-startup",
		"--python-exit-code", "1",
		"--python-expr", eightViewsScript,
		"--",
		modelPath,
		outDir,
		strconv.Itoa(size),
	}
}
