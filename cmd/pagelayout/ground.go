package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagelayout/detect"
)

var (
	groundWidth  float64
	groundHeight float64
)

var groundCmd = &cobra.Command{
	Use:   "ground <markup.txt>",
	Short: "Convert detector grounding markup into a page file",
	Long: `Parses <|ref|>label<|/ref|><|det|>[[x0, y0, x1, y1]]<|/det|> markup
produced by a generative detector and prints a page file whose layouts can be
passed to the order command. Coordinates are rescaled from the 0..999 space
to the page size.`,
	Args: cobra.ExactArgs(1),
	RunE: runGround,
}

func init() {
	groundCmd.Flags().Float64Var(&groundWidth, "width", 0, "page width in pixels")
	groundCmd.Flags().Float64Var(&groundHeight, "height", 0, "page height in pixels")
	_ = groundCmd.MarkFlagRequired("width")
	_ = groundCmd.MarkFlagRequired("height")
	rootCmd.AddCommand(groundCmd)
}

func runGround(cmd *cobra.Command, args []string) error {
	markup, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	layouts, err := detect.GroundingLayouts(string(markup), groundWidth, groundHeight)
	if err != nil {
		return fmt.Errorf("parsing grounding markup: %w", err)
	}

	page := pageFile{
		Width:   groundWidth,
		Height:  groundHeight,
		Layouts: fromLayouts(layouts),
	}
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
