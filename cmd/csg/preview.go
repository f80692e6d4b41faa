package main

import (
	"github.com/spf13/cobra"

	"github.com/soypat/csg/render"
)

var (
	previewOut    string
	previewWidth  int
	previewHeight int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file.stl>",
	Short: "Render an STL file to a shaded PNG image",
	Long: `Render the mesh with a Phong shaded camera looking at its bounding box
center and save the image as PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVarP(&previewOut, "output", "o", "", "output PNG file")
	previewCmd.Flags().IntVar(&previewWidth, "width", 800, "image width in pixels")
	previewCmd.Flags().IntVar(&previewHeight, "height", 600, "image height in pixels")
	previewCmd.MarkFlagRequired("output")
}

func runPreview(cmd *cobra.Command, args []string) error {
	m, err := render.LoadSTL(args[0])
	if err != nil {
		return err
	}
	return render.SavePNG(previewOut, m, previewWidth, previewHeight, render.DefaultView())
}
