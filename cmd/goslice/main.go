package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goslice/version"
)

var rootCmd = &cobra.Command{
	Use:   "goslice",
	Short: "A CLI tool for slicing STL meshes into print paths",
	Long: `goslice slices triangulated meshes into contours and organizes them
into machine instructions. It supports planar slicing with brims, rafts,
seam control and path simplification, and exports print points as JSON
or G-code.`,
	Version: version.GetFullVersion(),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
