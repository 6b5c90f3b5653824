package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rulesmcp/internal/logging"

	"golang.org/x/time/rate"
)

// GitHubSource fetches the rules document from GitHub over HTTPS.
//
// URL may point at the browsable github.com page of a file or directly at
// raw.githubusercontent.com; the former is rewritten before the request is
// sent. When Token is set it is sent as "Authorization: token <Token>", which
// is required for private repositories.
type GitHubSource struct {
	URL   string
	Token string

	// Timeout bounds one fetch. Zero leaves the request unbounded.
	Timeout time.Duration
	// Client defaults to a plain http.Client.
	Client *http.Client
	// Limiter, when set, throttles fetches. Waiting counts toward Timeout.
	Limiter *rate.Limiter

	logger *logging.AppLogger
}

// NewGitHubSource creates a GitHubSource for url. logger may be nil.
func NewGitHubSource(url, token string, logger *logging.AppLogger) *GitHubSource {
	return &GitHubSource{
		URL:    url,
		Token:  token,
		Client: &http.Client{},
		logger: logger,
	}
}

// RawURL returns the URL the request is actually sent to.
func (gs *GitHubSource) RawURL() string {
	return RawURL(gs.URL)
}

func (gs *GitHubSource) Origin() Origin {
	return OriginGitHub
}

// Fetch issues a single GET and returns the response body as text. Non-2xx
// responses and network failures are returned as *FetchError and never
// retried.
func (gs *GitHubSource) Fetch(ctx context.Context) (string, error) {
	start := time.Now()
	if gs.logger != nil {
		defer gs.logger.LogPerformance("github_fetch", start)
	}

	if gs.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, gs.Timeout)
		defer cancel()
	}

	if gs.Limiter != nil {
		if err := gs.Limiter.Wait(ctx); err != nil {
			return "", gs.fail(transportError(err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gs.RawURL(), nil)
	if err != nil {
		return "", gs.fail(unknownError(err))
	}
	if gs.Token != "" {
		req.Header.Set("Authorization", "token "+gs.Token)
	}

	client := gs.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", gs.fail(transportError(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", gs.fail(notFoundError())
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", gs.fail(authFailedError(resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", gs.fail(transportError(fmt.Errorf("Request failed with status code %d", resp.StatusCode)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", gs.fail(transportError(err))
	}

	if gs.logger != nil {
		gs.logger.Debug("Fetched rules from GitHub", "url", gs.RawURL(), "bytes", len(body))
	}
	return string(body), nil
}

func (gs *GitHubSource) fail(err *FetchError) error {
	if gs.logger != nil {
		gs.logger.Debug("GitHub fetch failed", "url", gs.RawURL(), "kind", err.Kind, "error", err.Err)
	}
	return err
}
