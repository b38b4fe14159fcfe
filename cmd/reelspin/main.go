package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/ReelSpin_Go/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "reelspin",
		Short:         "Reel spin engine with outcome reconciliation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newPlaysvcCmd(),
		newMigrateCmd(),
		newThemesCmd(),
	)
	return rootCmd
}

// loadConfig reads the environment (and .env) and rejects bad values early
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
