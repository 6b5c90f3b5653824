package cli

import (
	"errors"
	"fmt"
	"strings"

	"rulesmcp/internal/credentials"

	"github.com/spf13/cobra"
)

type tokenStore interface {
	SetToken(token string) error
	Token() (string, error)
	DeleteToken() error
}

func newAuthCommand(store tokenStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the GitHub token kept in the OS credential store",
		Long: `Manage the GitHub token kept in the OS credential store.

The stored token is used for private repositories when neither GITHUB_TOKEN,
--token nor the config file provides one.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <token>",
		Short: "Store a GitHub personal access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.SetToken(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "GitHub token stored.")
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored GitHub token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.DeleteToken(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "GitHub token removed.")
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a GitHub token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := store.Token()
			switch {
			case errors.Is(err, credentials.ErrNoToken):
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No GitHub token stored.")
				return err
			case err != nil:
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "GitHub token stored: %s (%s).\n",
				credentials.Describe(token), maskToken(token))
			return err
		},
	})

	return cmd
}

// maskToken keeps the prefix and the last four characters.
func maskToken(token string) string {
	token = strings.TrimSpace(token)
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
