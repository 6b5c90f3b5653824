// Package rules turns a markdown rules document into category-scoped key/value
// records and answers queries over them.
//
// The document format is deliberately small:
//
//	# Style
//	indent: two spaces
//	naming: camelCase for locals
//
//	# Testing
//	framework: testify
//
// A line starting with a single '#' opens a category. Every following line of
// the form "key: value" becomes a Rule in that category. Anything else is
// ignored without error.
package rules

import (
	"strings"
	"unicode"
)

const (
	categoryMarker = "#"
	separator      = ":"
)

// Rule is a single key/value pair scoped to the category header above it.
type Rule struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

// Parse scans raw in one forward pass and returns the rules in source order.
//
// The scan carries one piece of state, the current category. Lines before the
// first header, lines without a separator and lines with an empty key or value
// are dropped. A line starting with "##" is not a header; it is treated as a
// candidate rule like any other line.
func Parse(raw string) []Rule {
	parsed := make([]Rule, 0)
	currentCategory := ""

	for _, line := range strings.Split(raw, "\n") {
		line = trim(line)
		if line == "" {
			continue
		}

		if isCategoryHeader(line) {
			currentCategory = cleanCategory(line)
			continue
		}

		if currentCategory == "" {
			continue
		}

		key, value, found := strings.Cut(line, separator)
		if !found {
			continue
		}

		key = trim(key)
		value = trim(value)
		if key == "" || value == "" {
			continue
		}

		parsed = append(parsed, Rule{
			Category: currentCategory,
			Key:      key,
			Value:    value,
		})
	}

	return parsed
}

func isCategoryHeader(line string) bool {
	return strings.HasPrefix(line, categoryMarker) &&
		!strings.HasPrefix(line, categoryMarker+categoryMarker)
}

// cleanCategory strips every marker in the line, not only the leading one.
func cleanCategory(line string) string {
	return trim(strings.ReplaceAll(line, categoryMarker, ""))
}

// trim drops surrounding whitespace, including a byte order mark left at the
// start of a file saved by some editors.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
