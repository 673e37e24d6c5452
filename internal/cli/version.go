package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/slzatz/vimbridge/internal/logging"
	"github.com/slzatz/vimbridge/vim"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and available engines of vimbridge.`,
		Run: func(cmd *cobra.Command, _ []string) {
			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportTimestamp: false,
				ReportCaller:    false,
			})
			logger.SetLevel(log.InfoLevel)

			logger.Info("vimbridge",
				logging.FieldVersion, info.Version,
				"commit", info.Commit,
				"built", info.Date,
				"libvim", vim.IsCGOAvailable(),
			)
		},
	}
}
