// Package cli provides the command-line interface for rulesmcp.
package cli

import (
	"context"
	"fmt"
	"os"

	"rulesmcp/internal/config"
	"rulesmcp/internal/credentials"
	"rulesmcp/internal/logging"
	"rulesmcp/internal/mcp"
	"rulesmcp/internal/source"

	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	location   string
	token      string
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand(logging.GetDefault())
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root cobra command. Without a subcommand it
// behaves like "serve".
func NewRootCommand(logger *logging.AppLogger) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "rulesmcp",
		Short: "Serve categorized rules from a markdown file over MCP",
		Long: `rulesmcp exposes the rules in a markdown document to AI assistants over the
Model Context Protocol.

The document is a local file or a GitHub URL:

  # Style
  indent: tabs
  naming: camelCase for locals

Every "key: value" line under a single-# header becomes a rule in that
category. The document is re-read on every request.

CONFIGURATION:
  RULES_FILE_PATH   local path or GitHub URL of the rules document (required)
  GITHUB_TOKEN      token for private repositories (optional)

  Both may also be set in the config file or with --rules and --token.
  When no token is configured, one stored with "rulesmcp auth set" is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       mcp.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.ConfigPath()+")")
	flags.StringVar(&opts.location, "rules", "", "rules document path or GitHub URL (overrides "+config.EnvRulesFilePath+")")
	flags.StringVar(&opts.token, "token", "", "GitHub token (overrides "+config.EnvGitHubToken+")")

	rootCmd.AddCommand(newServeCommand(opts, logger))
	rootCmd.AddCommand(newCallCommand(opts, logger))
	rootCmd.AddCommand(newCheckCommand(opts, logger))
	rootCmd.AddCommand(newAuthCommand(credentials.NewStore()))
	rootCmd.AddCommand(newConfigCommand(opts))

	return rootCmd
}

// loadConfig resolves the configuration for commands that read rules.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigPath: opts.configPath,
		Location:   opts.location,
		AuthToken:  opts.token,
		Tokens:     credentials.NewStore(),
	})
}

// newRulesServer builds the MCP server for the current configuration.
func newRulesServer(opts *globalOptions, logger *logging.AppLogger) (*mcp.Server, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	src := source.New(cfg, source.WithLogger(logger))
	return mcp.NewServer(cfg, logger, src), nil
}
