package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagelayout"
	"github.com/tsawler/pagelayout/clipper"
	"github.com/tsawler/pagelayout/model"
)

var clipOutput string

var clipCmd = &cobra.Command{
	Use:   "clip <image> <ltx> <lty> <rtx> <rty> <lbx> <lby> <rbx> <rby>",
	Short: "Crop a quadrilateral out of an image and straighten it",
	Long: `Crops the quadrilateral given by its left-top, right-top, left-bottom
and right-bottom corners, rotating it so its top edge is horizontal. The
result is written as PNG.`,
	Args: cobra.ExactArgs(9),
	RunE: runClip,
}

func init() {
	clipCmd.Flags().StringVarP(&clipOutput, "output", "o", "clip.png", "output PNG file")
	rootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, args []string) error {
	var coords [8]float64
	for i, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		coords[i] = v
	}
	rect := model.Rectangle{
		LT: model.Point{X: coords[0], Y: coords[1]},
		RT: model.Point{X: coords[2], Y: coords[3]},
		LB: model.Point{X: coords[4], Y: coords[5]},
		RB: model.Point{X: coords[6], Y: coords[7]},
	}

	img, err := pagelayout.LoadImage(args[0])
	if err != nil {
		return err
	}
	clipped := clipper.Clip(img, rect)

	f, err := os.Create(clipOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, clipped); err != nil {
		return fmt.Errorf("encoding %s: %w", clipOutput, err)
	}
	b := clipped.Bounds()
	cmd.Printf("wrote %s (%dx%d)\n", clipOutput, b.Dx(), b.Dy())
	return nil
}
