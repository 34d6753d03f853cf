package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	renderOut  string
	renderSize int
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render the eight quote views of a model with Blender",
	Long: `Convert the model to GLB if needed and render the eight views used for
quoting (elevation 20 degrees, azimuth every 45 degrees) into --out. The
image paths are printed one per line.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output directory for the PNG views")
	renderCmd.Flags().IntVar(&renderSize, "size", 0, "image size in pixels (default from CADQUOTE_RENDER_SIZE)")
	_ = renderCmd.MarkFlagRequired("out")
}

func runRender(cmd *cobra.Command, args []string) error {
	env, err := setup(false)
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	size := renderSize
	if size <= 0 {
		size = env.cfg.Render.Size
	}

	glb, err := env.converter().EnsureGLB(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := os.MkdirAll(renderOut, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", renderOut, err)
	}

	images, err := env.renderer().RenderEightViews(cmd.Context(), glb, renderOut, size)
	if err != nil {
		return err
	}
	for _, img := range images {
		fmt.Println(img)
	}
	return nil
}
