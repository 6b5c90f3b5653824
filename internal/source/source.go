// Package source resolves the configured rules location to raw text.
//
// A location is either a local file path or a GitHub URL. Both are served
// through the Source interface so the parser and the query layer never see
// where the text came from:
//
//	src := source.New(cfg, source.WithLogger(logger))
//	raw, err := src.Fetch(ctx)
//
// Nothing is cached. Every Fetch reads the file or issues a new request, and
// a failed fetch is never retried. All failures are *FetchError values.
package source

import (
	"context"
	"net/http"
	"strings"

	"rulesmcp/internal/config"
	"rulesmcp/internal/logging"

	"golang.org/x/time/rate"
)

const (
	secureScheme = "https://"
	repoHost     = "github.com"
	rawHost      = "raw.githubusercontent.com"
	blobSegment  = "/blob/"
)

// Source abstracts the origin of the rules document.
type Source interface {
	// Fetch returns the full document text. It blocks until the read or
	// request completes or ctx is done.
	Fetch(ctx context.Context) (string, error)
	// Origin reports which kind of location backs this source.
	Origin() Origin
}

// Origin is the resolved kind of a location.
type Origin int

const (
	OriginLocal Origin = iota
	OriginGitHub
)

func (o Origin) String() string {
	if o == OriginGitHub {
		return "github"
	}
	return "local"
}

// IsRemote reports whether location should be fetched from GitHub rather
// than read from disk.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, secureScheme) &&
		(strings.Contains(location, repoHost) || strings.Contains(location, rawHost))
}

// RawURL turns a browsable github.com file URL into its raw content URL.
// URLs already on the raw host are returned unchanged.
//
//	https://github.com/org/repo/blob/main/RULES.md
//	→ https://raw.githubusercontent.com/org/repo/main/RULES.md
func RawURL(location string) string {
	if !strings.Contains(location, repoHost) {
		return location
	}
	rewritten := strings.Replace(location, repoHost, rawHost, 1)
	return strings.Replace(rewritten, blobSegment, "/", 1)
}

type options struct {
	client *http.Client
	logger *logging.AppLogger
}

// Option customises a Source built by New.
type Option func(*options)

// WithHTTPClient sets the client used for remote fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithLogger sets the logger. Without it the package default is used.
func WithLogger(logger *logging.AppLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New picks the Source variant for cfg.Location.
func New(cfg *config.Config, opts ...Option) Source {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.GetDefault()
	}

	if !IsRemote(cfg.Location) {
		o.logger.Debug("Using local rules source", "path", cfg.Location)
		return NewLocalSource(cfg.Location, o.logger)
	}

	gs := NewGitHubSource(cfg.Location, cfg.AuthToken, o.logger)
	gs.Timeout = cfg.FetchTimeout
	if o.client != nil {
		gs.Client = o.client
	}
	if cfg.FetchRate > 0 {
		gs.Limiter = rate.NewLimiter(rate.Limit(cfg.FetchRate), 1)
	}

	o.logger.Debug("Using GitHub rules source",
		"url", cfg.Location,
		"raw_url", gs.RawURL(),
		"authenticated", cfg.AuthToken != "",
	)
	return gs
}
