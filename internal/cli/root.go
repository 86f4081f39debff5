// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/voxdraw/internal/config"
	"github.com/jeranaias/voxdraw/internal/storage"
)

var (
	// Global flags
	configPathFlag string
	dbPathFlag     string

	// Resolved at PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "voxdraw",
	Short: "Voxdraw - voice commands for diagrams",
	Long: `Voxdraw turns spoken (or typed) phrases into diagram edits.

Transcripts like "add a box called login" or "connect login to validate"
are parsed against a fixed grammar and applied to the canvas. Run without
arguments for the full-screen console, or see the subcommands for the
REPL, the HTTP API, and transcript-file watching.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPathFlag != "" {
			cfg, err = config.LoadFromPath(configPathFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dbPathFlag != "" {
			cfg.Storage.DatabasePath = dbPathFlag
		}
		config.SetGlobal(cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, args)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the diagram database")
}

// openStore opens the diagram database from the resolved config.
func openStore() (*storage.Store, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// newLogger builds a zap logger. Verbose commands get development output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfgZap := zap.NewProductionConfig()
	cfgZap.DisableStacktrace = true
	return cfgZap.Build()
}
