package main

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/internal/config"
	"github.com/philipparndt/cadquote/internal/logging"
	"github.com/philipparndt/cadquote/pkg/blender"
	"github.com/philipparndt/cadquote/pkg/convert"
	"github.com/philipparndt/cadquote/pkg/gmsh"
	"github.com/philipparndt/cadquote/pkg/openscad"
	"github.com/philipparndt/cadquote/pkg/quote"
)

// environment is the configuration and logger shared by all commands
type environment struct {
	cfg    config.Config
	logger *zap.Logger
}

// setup loads the dotenv files and environment. requireKey is set by
// commands that talk to the model.
func setup(requireKey bool) (*environment, error) {
	cfg, err := config.Load(config.DefaultFiles...)
	if err != nil {
		return nil, err
	}
	if requireKey {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, logger: logger}, nil
}

func (e *environment) converter() *convert.Converter {
	return convert.NewConverter(
		gmsh.NewMesher(e.cfg.Tools.Gmsh, e.logger),
		openscad.NewRenderer("", e.cfg.Tools.OpenSCAD, e.logger),
		e.logger,
	)
}

// scadRenderer resolves includes relative to the model's directory
func (e *environment) scadRenderer(path string) *openscad.Renderer {
	return openscad.NewRenderer(filepath.Dir(path), e.cfg.Tools.OpenSCAD, e.logger)
}

func (e *environment) renderer() *blender.Renderer {
	return blender.NewRenderer(blender.DefaultLocator(e.cfg.Tools.Blender), e.logger)
}

func (e *environment) quoter() (*quote.Client, error) {
	return quote.NewClient(quote.Config{
		APIKey:  e.cfg.OpenAI.APIKey,
		Model:   e.cfg.OpenAI.Model,
		BaseURL: e.cfg.OpenAI.BaseURL,
	}, e.logger)
}
