package cli

import (
	"rulesmcp/internal/logging"

	"github.com/spf13/cobra"
)

func newServeCommand(opts *globalOptions, logger *logging.AppLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server on stdin/stdout.

The server exposes two tools:
  get_rules        all rules, or those of one category (case-insensitive)
  get_categories   the distinct categories in document order

It runs until stdin is closed or the process receives SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, logger)
		},
	}
}

func runServe(cmd *cobra.Command, opts *globalOptions, logger *logging.AppLogger) error {
	server, err := newRulesServer(opts, logger)
	if err != nil {
		logger.Error("Error loading config", "error", err)
		return err
	}
	defer server.Stop()

	return server.Start()
}
