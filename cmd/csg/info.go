package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soypat/csg"
	"github.com/soypat/csg/internal/d3"
	"github.com/soypat/csg/render"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.stl>",
	Short: "Print mesh statistics for an STL file",
	Long:  "Show triangle and vertex counts, bounding box, surface area, volume and the result of mesh validation.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := render.LoadSTL(args[0])
	if err != nil {
		return err
	}
	bb := d3.Box(m.Bounds())
	size := bb.Size()
	fmt.Printf("File: %s\n", args[0])
	fmt.Printf("Triangles: %d\n", m.NumTriangles())
	fmt.Printf("Vertices: %d\n", m.NumVertices())
	fmt.Printf("Bounding box: %v - %v\n", bb.Min, bb.Max)
	fmt.Printf("Dimensions: %.6g x %.6g x %.6g\n", size.X, size.Y, size.Z)
	fmt.Printf("Surface area: %.6g\n", m.Area())
	fmt.Printf("Volume: %.6g\n", m.Volume())
	// A defective mesh is still worth describing, so validation failures
	// go to stdout instead of failing the command.
	if err := csg.Validate(m); err != nil {
		fmt.Printf("Validation: %v\n", err)
	} else {
		fmt.Println("Validation: ok")
	}
	return nil
}
