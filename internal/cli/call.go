package cli

import (
	"fmt"

	"rulesmcp/internal/logging"
	"rulesmcp/internal/mcp"

	"github.com/spf13/cobra"
)

func newCallCommand(opts *globalOptions, logger *logging.AppLogger) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a tool once and print its result",
		Long: `Invoke a tool exactly as an MCP client would and print the JSON result.

Examples:
  rulesmcp call get_categories
  rulesmcp call get_rules --category style`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{mcp.ToolGetRules, mcp.ToolGetCategories},
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := newRulesServer(opts, logger)
			if err != nil {
				return err
			}

			toolArgs := map[string]any{}
			if cmd.Flags().Changed("category") {
				toolArgs["category"] = category
			}

			text, err := server.Call(cmd.Context(), args[0], toolArgs)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category filter for get_rules")
	return cmd
}
