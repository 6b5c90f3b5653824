package source

import (
	"context"
	"fmt"
	"os"

	"rulesmcp/internal/logging"
	"rulesmcp/pkg/fileops"
)

// LocalSource reads the rules document from the local filesystem.
// Relative paths resolve against the working directory; a leading "~/" is
// expanded to the user's home.
type LocalSource struct {
	Path string

	logger *logging.AppLogger
}

// NewLocalSource creates a LocalSource for path. logger may be nil.
func NewLocalSource(path string, logger *logging.AppLogger) *LocalSource {
	return &LocalSource{
		Path:   path,
		logger: logger,
	}
}

func (ls *LocalSource) Origin() Origin {
	return OriginLocal
}

// Fetch reads the whole file on every call.
func (ls *LocalSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", localReadError(err)
	}

	path := fileops.ExpandPath(ls.Path)
	content, err := os.ReadFile(path)
	if err != nil {
		if ls.logger != nil {
			ls.logger.Debug("Local rules read failed", "path", path, "error", err)
		}
		return "", localReadError(err)
	}

	if ls.logger != nil {
		ls.logger.Debug("Read local rules file", "path", path, "bytes", len(content))
	}
	return string(content), nil
}

// String returns a string representation of the LocalSource for logging and debugging.
func (ls *LocalSource) String() string {
	return fmt.Sprintf("LocalSource{Path: %s}", ls.Path)
}
