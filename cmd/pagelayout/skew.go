package main

import (
	"math"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagelayout/skew"
)

var skewCmd = &cobra.Command{
	Use:   "skew <page.json>",
	Short: "Estimate the rotation of a recognized page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := readPage(args[0])
		if err != nil {
			return err
		}
		fragments, err := page.allFragments()
		if err != nil {
			return err
		}

		rotation := skew.Estimate(fragments)
		cmd.Printf("%.6f rad (%.3f deg)\n", rotation, rotation*180/math.Pi)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(skewCmd)
}
