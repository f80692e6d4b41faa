package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/soypat/csg"
	"github.com/soypat/csg/render"
)

var (
	booleanOp      string
	booleanOut     string
	booleanVerbose bool
)

var booleanCmd = &cobra.Command{
	Use:   "boolean <a.stl> <b.stl>",
	Short: "Combine two meshes with a boolean operation",
	Long: `Read two STL files, repair them and combine them with the selected
boolean operation. The result is written as binary STL.`,
	Args: cobra.ExactArgs(2),
	RunE: runBoolean,
}

func init() {
	rootCmd.AddCommand(booleanCmd)
	booleanCmd.Flags().StringVar(&booleanOp, "op", "union", "operation: union, subtract or intersect")
	booleanCmd.Flags().StringVarP(&booleanOut, "output", "o", "", "output STL file")
	booleanCmd.Flags().BoolVarP(&booleanVerbose, "verbose", "v", false, "log strategy fallbacks to stderr")
	booleanCmd.MarkFlagRequired("output")
}

func runBoolean(cmd *cobra.Command, args []string) error {
	op, err := csg.ParseOp(booleanOp)
	if err != nil {
		return err
	}
	a, err := render.LoadSTL(args[0])
	if err != nil {
		return err
	}
	b, err := render.LoadSTL(args[1])
	if err != nil {
		return err
	}
	a, b = csg.Repair(a), csg.Repair(b)
	var opt csg.OpOptions
	if booleanVerbose {
		// Engine messages carry their own "csg:" prefix.
		opt.Logf = log.New(os.Stderr, "", 0).Printf
	}
	res, err := csg.OperateOpts(a, b, op, opt)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d + %d -> %d triangles\n", op, a.NumTriangles(), b.NumTriangles(), res.NumTriangles())
	return render.SaveSTL(booleanOut, res)
}
