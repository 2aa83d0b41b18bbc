package main

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagelayout"
	"github.com/tsawler/pagelayout/plot"
)

var plotOutput string

var plotCmd = &cobra.Command{
	Use:   "plot <image> <page.json>",
	Short: "Draw the ordered regions and fragments of a page over its image",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlot,
}

func init() {
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "plot.png", "output PNG file")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, args []string) error {
	img, err := pagelayout.LoadImage(args[0])
	if err != nil {
		return err
	}
	page, err := readPage(args[1])
	if err != nil {
		return err
	}
	fragments, layouts, err := page.toModel()
	if err != nil {
		return err
	}

	b := img.Bounds()
	result, _, err := pagelayout.FromRecognized(float64(b.Dx()), float64(b.Dy()), fragments, layouts).
		WithConfig(cfg).
		Extract(context.Background())
	if err != nil {
		return err
	}

	f, err := os.Create(plotOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, plot.Layouts(img, result.Layouts)); err != nil {
		return fmt.Errorf("encoding %s: %w", plotOutput, err)
	}
	cmd.Printf("wrote %s (%d regions)\n", plotOutput, len(result.Layouts))
	return nil
}
