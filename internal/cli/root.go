// Package cli provides the cobra command structure for vimbridge.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/slzatz/vimbridge/internal/config"
	"github.com/slzatz/vimbridge/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
	engine     string
	journal    string
	logFile    string
	cgoSQLite  bool
}

// NewRootCommand creates the root vimbridge command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "vimbridge",
		Short: "Drive a vim engine from the command line",
		Long: `vimbridge embeds a vim editing engine behind a typed Go bridge.

The engine is libvim when the binary is built with -tags libvim and the
pure Go engine otherwise. Every engine callback is delivered to the host
and can be recorded in a SQLite journal.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "vimbridge.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.engine, "engine", "",
		"engine implementation: auto, go, libvim (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.journal, "journal", "",
		"record events to this SQLite file or postgres:// URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write the engine log to this file")
	rootCmd.PersistentFlags().BoolVar(&flags.cgoSQLite, "cgo-sqlite", false,
		"use the cgo sqlite driver for the journal when available")

	rootCmd.AddCommand(newExecCommand(&flags))
	rootCmd.AddCommand(newEditCommand(&flags))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.engine != "" {
		cfg.Engine = flags.engine
	}
	if flags.journal != "" {
		cfg.Journal = flags.journal
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	if flags.debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
