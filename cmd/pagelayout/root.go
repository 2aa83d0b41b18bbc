package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagelayout/config"
	"github.com/tsawler/pagelayout/internal/logger"
)

var (
	version = "dev"

	verbose    bool
	configPath string

	// cfg is loaded before every command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pagelayout",
	Short: "Reconstruct the layout and reading order of document pages",
	Long: `pagelayout works on pages that were already recognized: OCR fragments
and detected regions stored as JSON or YAML. It matches fragments to regions,
resolves overlapping regions, regroups lines and assigns a reading order.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML or TOML configuration file")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if configPath == "" {
		cfg = config.Default()
		return nil
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Debug("loaded config from %s", configPath)
	cfg = loaded
	return nil
}
