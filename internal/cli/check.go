package cli

import (
	"fmt"
	"os"

	"rulesmcp/internal/logging"
	"rulesmcp/internal/preview"
	"rulesmcp/internal/rules"
	"rulesmcp/internal/source"

	"github.com/spf13/cobra"
)

type checkOptions struct {
	category string
	plain    bool
	style    string
	width    int
}

func newCheckCommand(opts *globalOptions, logger *logging.AppLogger) *cobra.Command {
	co := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fetch and parse the rules document and show the result",
		Long: `Fetch and parse the rules document once and show what a client would see.

Checks:
  - The configured location can be read (local file or GitHub)
  - Which lines became rules, grouped by category

Lines that are not rules are skipped silently, exactly as the server does.
Optional YAML front matter (title, description) is shown as a heading.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, co, logger)
		},
	}

	cmd.Flags().StringVar(&co.category, "category", "", "only show this category (case-insensitive)")
	cmd.Flags().BoolVar(&co.plain, "plain", false, "print markdown without terminal styling")
	cmd.Flags().StringVar(&co.style, "style", styleFromEnv(), "glamour style: auto, dark, light, notty, ascii")
	cmd.Flags().IntVar(&co.width, "width", 100, "wrap width for styled output")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *globalOptions, co *checkOptions, logger *logging.AppLogger) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	src := source.New(cfg, source.WithLogger(logger))
	raw, err := src.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	all := rules.Parse(raw)
	selected := rules.FilterByCategory(all, co.category)

	meta, err := preview.ReadMetadata(raw)
	if err != nil {
		logger.Warn("Ignoring front matter", "error", err)
	}

	md := preview.Markdown(meta, selected)
	out := md
	if !co.plain {
		out, err = preview.Render(md, co.style, co.width)
		if err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if _, err := fmt.Fprint(w, out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%d rule(s) in %d categor(ies) from %s source\n",
		len(selected), len(rules.ListCategories(selected)), src.Origin())
	return err
}

// styleFromEnv honours GLAMOUR_STYLE the way glamour-based tools usually do.
func styleFromEnv() string {
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return style
	}
	return preview.AutoStyle
}
