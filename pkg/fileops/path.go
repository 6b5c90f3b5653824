package fileops

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading "~/" to the current user's home directory.
// Any other path, including a bare "~", is returned unchanged. If the home
// directory cannot be determined the path is returned as given.
//
// Usage example:
//
//	p := fileops.ExpandPath("~/rules/RULES.md")
//	// p == "/home/alice/rules/RULES.md"
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
