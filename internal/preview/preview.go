// Package preview renders a parsed rule set for humans, as markdown or as
// styled terminal output.
package preview

import (
	"fmt"
	"strings"

	"rulesmcp/internal/rules"

	"github.com/adrg/frontmatter"
	"github.com/charmbracelet/glamour"
)

// AutoStyle picks a light or dark style from the terminal background.
const AutoStyle = "auto"

const defaultTitle = "Rules"

// Metadata is the optional YAML front matter at the top of a rules document.
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ReadMetadata returns the front matter of raw. A document without front
// matter yields zero Metadata and no error.
func ReadMetadata(raw string) (Metadata, error) {
	var meta Metadata
	if _, err := frontmatter.Parse(strings.NewReader(raw), &meta); err != nil {
		return Metadata{}, fmt.Errorf("invalid front matter: %w", err)
	}
	return meta, nil
}

// Markdown lays out rules as one table per category, categories in the order
// they first appear. Categories are grouped by exact name.
func Markdown(meta Metadata, all []rules.Rule) string {
	var b strings.Builder

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = defaultTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if d := strings.TrimSpace(meta.Description); d != "" {
		fmt.Fprintf(&b, "%s\n\n", d)
	}

	if len(all) == 0 {
		b.WriteString("_No rules found._\n")
		return b.String()
	}

	var order []string
	grouped := make(map[string][]rules.Rule)
	for _, r := range all {
		if _, ok := grouped[r.Category]; !ok {
			order = append(order, r.Category)
		}
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	for _, category := range order {
		fmt.Fprintf(&b, "## %s\n\n", category)
		b.WriteString("| Key | Value |\n| --- | --- |\n")
		for _, r := range grouped[category] {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(r.Key), escapeCell(r.Value))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Render styles markdown for a terminal of the given width. style is a
// glamour standard style name such as "dark", "light" or "notty", or AutoStyle.
func Render(markdown, style string, width int) (string, error) {
	styleOpt := glamour.WithStandardStyle(style)
	if style == "" || style == AutoStyle {
		styleOpt = glamour.WithAutoStyle()
	}

	opts := []glamour.TermRendererOption{styleOpt}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
