// Package pipeline runs the quote flow end to end: normalize the input to
// GLB, render the views, measure the model and ask for a quote.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/pkg/analysis"
	"github.com/philipparndt/cadquote/pkg/quote"
)

// Converter normalizes an input file to something the renderer can import
type Converter interface {
	EnsureGLB(ctx context.Context, path string) (string, error)
}

// Renderer renders view images of a model into outDir
type Renderer interface {
	RenderEightViews(ctx context.Context, modelPath, outDir string, size int) ([]string, error)
}

// MetadataFunc measures a model file
type MetadataFunc func(path string) (*analysis.Metadata, error)

// Quoter turns views and metadata into a quote
type Quoter interface {
	Quote(ctx context.Context, images, labels []string, material string, metadata *analysis.Metadata) (*quote.Quote, error)
}

// Pipeline wires the stages together. Stages run strictly one after another.
type Pipeline struct {
	Converter Converter
	Renderer  Renderer
	Metadata  MetadataFunc
	Quoter    Quoter

	// Labels names the rendered views in order
	Labels []string
	// Size is the square image size passed to the renderer
	Size int

	Logger *zap.Logger
}

// Run produces a quote for the model at path made from material
func (p *Pipeline) Run(ctx context.Context, material, path string) (*quote.Quote, error) {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	logger.Info("starting quote", zap.String("path", path), zap.String("material", material))

	glb, err := p.Converter.EnsureGLB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}

	outDir, err := os.MkdirTemp("", "cadquote-views-")
	if err != nil {
		return nil, fmt.Errorf("failed to create render dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	images, err := p.Renderer.RenderEightViews(ctx, glb, outDir, p.Size)
	if err != nil {
		return nil, err
	}
	logger.Info("rendered views", zap.Int("count", len(images)))

	labels := p.Labels
	if len(images) < len(labels) {
		// a model without meshes renders no views; send what exists
		labels = labels[:len(images)]
	}

	metadata, err := p.Metadata(glb)
	if err != nil {
		return nil, fmt.Errorf("failed to extract metadata: %w", err)
	}
	logger.Debug("extracted metadata",
		zap.Int("bodies", metadata.BodyCount),
		zap.Int("triangles", metadata.TotalTriangles))

	return p.Quoter.Quote(ctx, images, labels, material, metadata)
}
