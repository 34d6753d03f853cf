package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/cadquote/pkg/analysis"
	"github.com/philipparndt/cadquote/pkg/convert"
	"github.com/philipparndt/cadquote/pkg/watcher"
)

var watchInfo bool

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Print the geometric metadata of a model as JSON",
	Long: `Measure every body of the model (extents, volume, surface area, triangles)
and print the metadata that accompanies a quote request. Inputs other than
STL, OBJ and glTF/GLB are converted to GLB first.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVarP(&watchInfo, "watch", "w", false, "re-print the metadata whenever the file changes")
}

func runInfo(cmd *cobra.Command, args []string) error {
	env, err := setup(false)
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	filename := args[0]
	measure := func(ctx context.Context) error {
		path := filename
		// STL, OBJ and glTF are measured directly, the rest needs meshing
		if route := convert.RouteFor(filename); route == convert.BRep || route == convert.CSG {
			glb, err := env.converter().EnsureGLB(ctx, filename)
			if err != nil {
				return err
			}
			path = glb
		}
		metadata, err := analysis.ExtractMetadata(path)
		if err != nil {
			return err
		}
		return printJSON(metadata)
	}

	if err := measure(cmd.Context()); err != nil {
		return err
	}
	if !watchInfo {
		return nil
	}
	return watchAndRerun(cmd.Context(), env, filename, measure)
}

// watchAndRerun calls run after every change of filename or, for OpenSCAD
// sources, any file it includes. It returns when ctx is canceled.
func watchAndRerun(ctx context.Context, env *environment, filename string, run func(context.Context) error) error {
	fw, err := watcher.NewFileWatcher(500*time.Millisecond, env.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	files := []string{filename}
	if strings.EqualFold(filepath.Ext(filename), ".scad") {
		absFile, err := filepath.Abs(filename)
		if err != nil {
			return err
		}
		if files, err = env.scadRenderer(absFile).ResolveDependencies(absFile); err != nil {
			return fmt.Errorf("failed to resolve dependencies: %w", err)
		}
	}

	changes := make(chan string, 1)
	err = fw.Watch(files, func(changed string) {
		select {
		case changes <- changed:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch files: %w", err)
	}
	env.logger.Info("watching for changes", zap.Strings("files", files))

	go fw.Run(ctx) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return nil
		case changed := <-changes:
			env.logger.Info("file changed, re-measuring", zap.String("path", changed))
			if err := run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}
