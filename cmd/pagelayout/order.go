package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pagelayout"
)

var (
	orderYAML     bool
	orderMarkdown bool
)

var orderCmd = &cobra.Command{
	Use:   "order <page.json>",
	Short: "Assign a reading order to a recognized page",
	Long: `Matches fragments to regions, removes duplicated regions, regroups
fragments into lines and orders the page. When scorer.base_url is configured
the page is reordered by the remote reading-order model.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrder,
}

func init() {
	orderCmd.Flags().BoolVar(&orderYAML, "yaml", false, "output YAML instead of JSON")
	orderCmd.Flags().BoolVar(&orderMarkdown, "markdown", false, "output markdown")
	rootCmd.AddCommand(orderCmd)
}

func runOrder(cmd *cobra.Command, args []string) error {
	if orderYAML && orderMarkdown {
		return errors.New("--yaml and --markdown are mutually exclusive")
	}

	page, err := readPage(args[0])
	if err != nil {
		return err
	}
	fragments, layouts, err := page.toModel()
	if err != nil {
		return err
	}

	scorer, closeScorer, err := pagelayout.ScorerFromConfig(cfg)
	if err != nil {
		return err
	}
	defer closeScorer()

	ext := pagelayout.FromRecognized(page.Width, page.Height, fragments, layouts).WithConfig(cfg)
	if scorer != nil {
		ext = ext.WithScorer(scorer)
	}

	result, warnings, err := ext.Extract(context.Background())
	for _, w := range warnings {
		cmd.PrintErrln("warning:", w)
	}
	if result == nil {
		return err
	}
	if err != nil {
		cmd.PrintErrln("warning:", err)
	}

	switch {
	case orderMarkdown:
		cmd.Print(pagelayout.ToMarkdown(result))
		return nil
	case orderYAML:
		data, err := yaml.Marshal(fromResult(result))
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Print(string(data))
		return nil
	default:
		data, err := json.MarshalIndent(fromResult(result), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}
}
