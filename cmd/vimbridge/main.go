// Package main is the entry point for the vimbridge CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/slzatz/vimbridge/internal/cli"
	"github.com/slzatz/vimbridge/internal/logging"
	"github.com/slzatz/vimbridge/vim"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		var cfgErr *vim.ConfigError
		if errors.As(err, &cfgErr) {
			return 2
		}
		return 1
	}
	return 0
}
