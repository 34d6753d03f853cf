package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/cadquote/pkg/sniff"
)

var stringifyCmd = &cobra.Command{
	Use:   "stringify [file]",
	Short: "Print a text rendition of a CAD file",
	Long: `Print text CAD formats verbatim, a one-line summary for binary STL and the
embedded JSON chunk for GLB files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := sniff.Stringify(args[0])
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stringifyCmd)
}
