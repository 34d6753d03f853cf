package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/philipparndt/cadquote/internal/pipeline"
	"github.com/philipparndt/cadquote/pkg/analysis"
	"github.com/philipparndt/cadquote/pkg/blender"
	"github.com/philipparndt/cadquote/version"
)

var (
	material string
	filePath string
)

var rootCmd = &cobra.Command{
	Use:   "cadquote --material <material> --filepath <file>",
	Short: "Estimate a manufacturing quote for a CAD model",
	Long: `cadquote renders eight views of a CAD or mesh model, measures its bodies and
asks a vision model for a per-body manufacturing quote. The quote is printed
as one line of JSON.

Supported inputs: STL, OBJ, glTF/GLB, STEP/IGES/BREP (via gmsh) and
OpenSCAD (via openscad). Rendering requires Blender.`,
	Version:       version.GetFullVersion(),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runQuote,
}

func init() {
	rootCmd.Flags().StringVar(&material, "material", "", "stock material, e.g. \"6061 aluminum\"")
	rootCmd.Flags().StringVar(&filePath, "filepath", "", "model file to quote")
	_ = rootCmd.MarkFlagRequired("material")
	_ = rootCmd.MarkFlagRequired("filepath")
}

func runQuote(cmd *cobra.Command, args []string) error {
	env, err := setup(true)
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	quoter, err := env.quoter()
	if err != nil {
		return err
	}

	p := &pipeline.Pipeline{
		Converter: env.converter(),
		Renderer:  env.renderer(),
		Metadata:  analysis.ExtractMetadata,
		Quoter:    quoter,
		Labels:    blender.ViewLabels(),
		Size:      env.cfg.Render.Size,
		Logger:    env.logger,
	}

	q, err := p.Run(cmd.Context(), material, filePath)
	if err != nil {
		return err
	}
	// only the validated fields are printed; extra reply keys are dropped
	return printJSON(q)
}

// printJSON writes v to stdout as a single line
func printJSON(v any) error {
	return json.NewEncoder(os.Stdout).Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
