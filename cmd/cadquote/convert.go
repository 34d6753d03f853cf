package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a model to GLB and print the resulting path",
	Long: `Convert STL, OBJ, STEP/IGES/BREP and OpenSCAD models to a GLB file next to
the source. GLB and glTF inputs are printed unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	env, err := setup(false)
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	glb, err := env.converter().EnsureGLB(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(glb)
	return nil
}
