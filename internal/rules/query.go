package rules

import "strings"

// FilterByCategory returns the rules whose category matches category,
// ignoring case. An empty category selects every rule. The input is never
// modified and the result is never nil.
func FilterByCategory(all []Rule, category string) []Rule {
	if category == "" {
		if all == nil {
			return []Rule{}
		}
		return all
	}

	filtered := make([]Rule, 0, len(all))
	for _, r := range all {
		if strings.EqualFold(r.Category, category) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ListCategories returns each distinct non-empty category once, in the order
// it first appears.
func ListCategories(all []Rule) []string {
	seen := make(map[string]struct{}, len(all))
	categories := make([]string, 0)

	for _, r := range all {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}

	return categories
}
