package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soypat/csg"
	"github.com/soypat/csg/render"
)

var repairOut string

var repairCmd = &cobra.Command{
	Use:   "repair <file.stl>",
	Short: "Repair a mesh and write the result",
	Long: `Weld coincident vertices, drop degenerate and duplicate triangles,
orient windings consistently and split self intersections, then write
the repaired mesh as binary STL.`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
	repairCmd.Flags().StringVarP(&repairOut, "output", "o", "", "output STL file")
	repairCmd.MarkFlagRequired("output")
}

func runRepair(cmd *cobra.Command, args []string) error {
	m, err := render.LoadSTL(args[0])
	if err != nil {
		return err
	}
	fixed := csg.Repair(m)
	fmt.Printf("%s: %d triangles in, %d triangles out\n", args[0], m.NumTriangles(), fixed.NumTriangles())
	if err := csg.Validate(fixed); err != nil {
		fmt.Printf("Remaining defects: %v\n", err)
	}
	return render.SaveSTL(repairOut, fixed)
}
