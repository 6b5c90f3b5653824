package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"rulesmcp/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var (
		timeout time.Duration
		rate    float64
		force   bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file for the given --rules location",
		Long: `Write a config file for the given --rules location.

Tokens are never written to the file; use "rulesmcp auth set" or GITHUB_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.ConfigPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			cfg.Location = strings.TrimSpace(opts.location)
			cfg.FetchTimeout = timeout
			cfg.FetchRate = rate
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return err
		},
	}
	initCmd.Flags().DurationVar(&timeout, "fetch-timeout", 0, "timeout for one remote fetch (0 = none)")
	initCmd.Flags().Float64Var(&rate, "fetch-rate", 0, "maximum remote fetches per second (0 = unlimited)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}
