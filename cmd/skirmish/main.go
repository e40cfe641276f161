// Package main provides the skirmish command: it validates content and runs
// headless combat simulations against the session core.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skirmish",
	Short: "Equipment and combat resolution core",
	Long: `skirmish drives the slot inventory, stat aggregation and real-time
combat core from the command line: validate content files or run a
headless simulation of one player session.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/dev.yaml", "path to configuration file")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
}

// setup loads the configuration named by --config and builds its logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}
