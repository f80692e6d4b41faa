package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "csg",
	Short: "Inspect, repair and combine triangle meshes",
	Long: `csg is a command line front end for the csg mesh kernel. It reads and
writes STL files in both binary and ASCII form, repairs common mesh
defects, renders shaded previews and combines solids with boolean
operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
